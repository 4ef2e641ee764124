package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medisecure/medisecure-backend/internal/domain/patient"
)

type PatientsRepo struct {
	pool *pgxpool.Pool
}

func NewPatientsRepo(pool *pgxpool.Pool) *PatientsRepo {
	return &PatientsRepo{pool: pool}
}

const patientColumns = `id, first_name, last_name, date_of_birth, gender, email, phone, address, city, postal_code, country,
	insurance_provider, insurance_number, allergies, medical_history, is_active, created_at, updated_at`

func scanPatient(row pgx.Row) (patient.Patient, error) {
	var p patient.Patient

	err := row.Scan(
		&p.ID,
		&p.FirstName,
		&p.LastName,
		&p.DateOfBirth,
		&p.Gender,
		&p.Email,
		&p.Phone,
		&p.Address,
		&p.City,
		&p.PostalCode,
		&p.Country,
		&p.InsuranceProvider,
		&p.InsuranceNumber,
		&p.Allergies,
		&p.MedicalHistory,
		&p.IsActive,
		&p.CreatedAt,
		&p.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return patient.Patient{}, patient.ErrNotFound
		}
		return patient.Patient{}, err
	}

	return p, nil
}

func (r *PatientsRepo) Create(ctx context.Context, p patient.Patient) (patient.Patient, error) {
	now := time.Now().UTC()

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.CreatedAt = now
	p.UpdatedAt = now

	_, err := r.pool.Exec(ctx,
		`INSERT INTO patients(`+patientColumns+`)
		 VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)`,
		p.ID, p.FirstName, p.LastName, p.DateOfBirth, p.Gender, p.Email, p.Phone, p.Address, p.City, p.PostalCode, p.Country,
		p.InsuranceProvider, p.InsuranceNumber, p.Allergies, p.MedicalHistory, p.IsActive, p.CreatedAt, p.UpdatedAt,
	)

	if err != nil {
		return patient.Patient{}, err
	}

	return p, nil
}

func (r *PatientsRepo) GetByID(ctx context.Context, id string) (patient.Patient, error) {
	return scanPatient(r.pool.QueryRow(ctx,
		`SELECT `+patientColumns+` FROM patients WHERE id = $1`, id))
}

func (r *PatientsRepo) List(ctx context.Context, f patient.ListFilter) ([]patient.Patient, int, error) {
	baseQuery := `SELECT ` + patientColumns + `,
		COUNT(*) OVER() AS total
	FROM patients
	`

	var conds []string
	var args []interface{}

	argsPosition := 1

	if f.Query != nil {
		// simple name search; both halves share one parameter
		conds = append(conds, fmt.Sprintf("(first_name ILIKE $%d OR last_name ILIKE $%d)", argsPosition, argsPosition))
		args = append(args, "%"+*f.Query+"%")
		argsPosition++
	}

	query := baseQuery

	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	// stable ordering for pagination
	query += fmt.Sprintf(" ORDER BY last_name ASC, first_name ASC, id ASC LIMIT $%d OFFSET $%d", argsPosition, argsPosition+1)

	args = append(args, f.Limit, f.Offset)

	rows, err := r.pool.Query(ctx, query, args...)

	if err != nil {
		return nil, 0, err
	}

	defer rows.Close()

	output := make([]patient.Patient, 0, f.Limit)
	total := 0

	for rows.Next() {
		var p patient.Patient
		var t int

		err = rows.Scan(
			&p.ID, &p.FirstName, &p.LastName,
			&p.DateOfBirth, &p.Gender, &p.Email,
			&p.Phone, &p.Address, &p.City, &p.PostalCode, &p.Country,
			&p.InsuranceProvider, &p.InsuranceNumber,
			&p.Allergies, &p.MedicalHistory, &p.IsActive,
			&p.CreatedAt, &p.UpdatedAt, &t,
		)

		if err != nil {
			return nil, 0, err
		}

		total = t
		output = append(output, p)
	}

	err = rows.Err()

	if err != nil {
		return nil, 0, err
	}

	return output, total, nil
}

func (r *PatientsRepo) Update(ctx context.Context, p patient.Patient) (patient.Patient, error) {
	updated, err := scanPatient(r.pool.QueryRow(ctx,
		`UPDATE patients
			SET first_name = $2,
			    last_name = $3,
			    date_of_birth = $4,
			    gender = $5,
			    email = $6,
			    phone = $7,
			    address = $8,
			    city = $9,
			    postal_code = $10,
			    country = $11,
			    insurance_provider = $12,
			    insurance_number = $13,
			    allergies = $14,
			    medical_history = $15,
			    is_active = $16,
			    updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+patientColumns,
		p.ID, p.FirstName, p.LastName, p.DateOfBirth, p.Gender, p.Email, p.Phone, p.Address, p.City, p.PostalCode, p.Country,
		p.InsuranceProvider, p.InsuranceNumber, p.Allergies, p.MedicalHistory, p.IsActive,
	))

	if err != nil {
		return patient.Patient{}, err
	}

	return updated, nil
}

func (r *PatientsRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM patients WHERE id = $1`, id)

	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return patient.ErrNotFound
	}

	return nil
}
