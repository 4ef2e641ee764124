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

	"github.com/medisecure/medisecure-backend/internal/domain/appointment"
	"github.com/medisecure/medisecure-backend/internal/observability"
)

type AppointmentsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewAppointmentsRepo(pool *pgxpool.Pool, prom *observability.Prom) *AppointmentsRepo {
	return &AppointmentsRepo{pool: pool, prom: prom}
}

func (r *AppointmentsRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

const appointmentColumns = `id, patient_id, doctor_id, start_time, end_time, status, reason, notes, is_active, created_at, updated_at`

func scanAppointment(row pgx.Row) (appointment.Appointment, error) {
	var a appointment.Appointment
	var status string

	err := row.Scan(
		&a.ID,
		&a.PatientID,
		&a.DoctorID,
		&a.StartTime,
		&a.EndTime,
		&status,
		&a.Reason,
		&a.Notes,
		&a.IsActive,
		&a.CreatedAt,
		&a.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return appointment.Appointment{}, appointment.ErrNotFound
		}
		return appointment.Appointment{}, err
	}

	a.Status = appointment.Status(status)

	return a, nil
}

func (r *AppointmentsRepo) Create(ctx context.Context, a appointment.Appointment) (appointment.Appointment, error) {
	now := time.Now().UTC()

	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	a.CreatedAt = now
	a.UpdatedAt = now

	op := "appointments.create"

	err := r.observe(op, func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO appointments(id, patient_id, doctor_id, start_time, end_time, status, reason, notes, is_active, created_at, updated_at)
			 VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
			a.ID, a.PatientID, a.DoctorID, a.StartTime, a.EndTime, string(a.Status), a.Reason, a.Notes, a.IsActive, a.CreatedAt, a.UpdatedAt,
		)
		return err
	})

	if err != nil {
		return appointment.Appointment{}, err
	}

	return a, nil
}

func (r *AppointmentsRepo) GetByID(ctx context.Context, id string) (appointment.Appointment, error) {
	var a appointment.Appointment
	op := "appointments.get_by_id"

	err := r.observe(op, func() error {
		var serr error
		a, serr = scanAppointment(r.pool.QueryRow(ctx,
			`SELECT `+appointmentColumns+` FROM appointments WHERE id = $1`, id))
		return serr
	})

	if err != nil {
		return appointment.Appointment{}, err
	}

	return a, nil
}

func (r *AppointmentsRepo) List(ctx context.Context, f appointment.ListFilter) ([]appointment.Appointment, int, error) {
	baseQuery := `SELECT ` + appointmentColumns + `,
		COUNT(*) OVER() AS total
	FROM appointments
	`

	var conds []string
	var args []interface{}

	argsPosition := 1

	if f.PatientID != nil {
		conds = append(conds, fmt.Sprintf("patient_id = $%d", argsPosition))
		args = append(args, *f.PatientID)
		argsPosition++
	}

	if f.DoctorID != nil {
		conds = append(conds, fmt.Sprintf("doctor_id = $%d", argsPosition))
		args = append(args, *f.DoctorID)
		argsPosition++
	}

	if f.Status != nil {
		conds = append(conds, fmt.Sprintf("status = $%d", argsPosition))
		args = append(args, string(*f.Status))
		argsPosition++
	}

	if f.From != nil {
		conds = append(conds, fmt.Sprintf("start_time >= $%d", argsPosition))
		args = append(args, *f.From)
		argsPosition++
	}

	if f.To != nil {
		conds = append(conds, fmt.Sprintf("start_time <= $%d", argsPosition))
		args = append(args, *f.To)
		argsPosition++
	}

	query := baseQuery

	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	// stable ordering for pagination
	query += fmt.Sprintf(" ORDER BY start_time ASC, id ASC LIMIT $%d OFFSET $%d", argsPosition, argsPosition+1)

	args = append(args, f.Limit, f.Offset)

	var rows pgx.Rows
	op := "appointments.list"

	err := r.observe(op, func() error {
		var qerr error
		rows, qerr = r.pool.Query(ctx, query, args...)
		return qerr
	})

	if err != nil {
		return nil, 0, err
	}

	defer rows.Close()

	output := make([]appointment.Appointment, 0, f.Limit)
	total := 0

	for rows.Next() {
		var a appointment.Appointment
		var status string
		var t int

		err = rows.Scan(
			&a.ID, &a.PatientID, &a.DoctorID,
			&a.StartTime, &a.EndTime, &status,
			&a.Reason, &a.Notes, &a.IsActive,
			&a.CreatedAt, &a.UpdatedAt, &t,
		)

		if err != nil {
			return nil, 0, err
		}

		a.Status = appointment.Status(status)
		total = t
		output = append(output, a)
	}

	err = rows.Err()

	if err != nil {
		return nil, 0, err
	}

	return output, total, nil
}

// ListForDoctor returns a doctor's appointments intersecting [from, to).
// Used for conflict detection and availability, so cancelled rows stay
// included; the scheduling rules decide what counts.
func (r *AppointmentsRepo) ListForDoctor(ctx context.Context, doctorID string, from, to time.Time) ([]appointment.Appointment, error) {
	var rows pgx.Rows
	op := "appointments.list_for_doctor"

	err := r.observe(op, func() error {
		var qerr error
		rows, qerr = r.pool.Query(ctx,
			`SELECT `+appointmentColumns+`
			 FROM appointments
			 WHERE doctor_id = $1
			   AND start_time < $3
			   AND end_time > $2
			 ORDER BY start_time ASC`,
			doctorID, from, to,
		)
		return qerr
	})

	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var output []appointment.Appointment

	for rows.Next() {
		var a appointment.Appointment
		var status string

		err = rows.Scan(
			&a.ID, &a.PatientID, &a.DoctorID,
			&a.StartTime, &a.EndTime, &status,
			&a.Reason, &a.Notes, &a.IsActive,
			&a.CreatedAt, &a.UpdatedAt,
		)

		if err != nil {
			return nil, err
		}

		a.Status = appointment.Status(status)
		output = append(output, a)
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return output, nil
}

func (r *AppointmentsRepo) Update(ctx context.Context, a appointment.Appointment) (appointment.Appointment, error) {
	var updated appointment.Appointment
	op := "appointments.update"

	err := r.observe(op, func() error {
		var serr error
		updated, serr = scanAppointment(r.pool.QueryRow(ctx,
			`UPDATE appointments
				SET start_time = $2,
				    end_time = $3,
				    status = $4,
				    reason = $5,
				    notes = $6,
				    is_active = $7,
				    updated_at = NOW()
			 WHERE id = $1
			 RETURNING `+appointmentColumns,
			a.ID, a.StartTime, a.EndTime, string(a.Status), a.Reason, a.Notes, a.IsActive,
		))
		return serr
	})

	if err != nil {
		return appointment.Appointment{}, err
	}

	return updated, nil
}

func (r *AppointmentsRepo) Delete(ctx context.Context, id string) error {
	op := "appointments.delete"

	return r.observe(op, func() error {
		tag, err := r.pool.Exec(ctx, `DELETE FROM appointments WHERE id = $1`, id)

		if err != nil {
			return err
		}

		if tag.RowsAffected() == 0 {
			return appointment.ErrNotFound
		}

		return nil
	})
}
