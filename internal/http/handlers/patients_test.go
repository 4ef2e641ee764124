package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/medisecure/medisecure-backend/internal/domain/patient"
	"github.com/medisecure/medisecure-backend/internal/http/handlers"
	"github.com/medisecure/medisecure-backend/internal/repo/memory"
)

func newPatientsRouter() (*gin.Engine, *memory.PatientsRepo) {
	gin.SetMode(gin.TestMode)

	repo := memory.NewPatientsRepo()
	h := handlers.NewPatientsHandler(repo)

	r := gin.New()
	r.POST("/patients", h.Create)
	r.GET("/patients", h.List)
	r.GET("/patients/:id", h.GetByID)
	r.PUT("/patients/:id", h.Update)
	r.DELETE("/patients/:id", h.Delete)

	return r, repo
}

func patientPayload(first, last string) map[string]any {
	return map[string]any{
		"firstName":   first,
		"lastName":    last,
		"dateOfBirth": "1984-02-11T00:00:00Z",
		"gender":      "female",
		"email":       "ada@example.com",
		"allergies":   "penicillin",
	}
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreatePatient(t *testing.T) {
	r, _ := newPatientsRouter()

	t.Run("creates active patient", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/patients", patientPayload("Ada", "Nwosu"))

		if w.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201, body=%s", w.Code, w.Body.String())
		}

		var p patient.Patient
		if err := json.Unmarshal(w.Body.Bytes(), &p); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if !p.IsActive {
			t.Fatal("new patient should start active")
		}
		if p.ID == "" {
			t.Fatal("created patient has no id")
		}
	})

	t.Run("rejects unknown gender value", func(t *testing.T) {
		payload := patientPayload("Ada", "Nwosu")
		payload["gender"] = "robot"

		w := doJSON(t, r, http.MethodPost, "/patients", payload)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400, body=%s", w.Code, w.Body.String())
		}
	})
}

func TestPatientLifecycle(t *testing.T) {
	r, _ := newPatientsRouter()

	created := doJSON(t, r, http.MethodPost, "/patients", patientPayload("Ada", "Nwosu"))
	var p patient.Patient
	if err := json.Unmarshal(created.Body.Bytes(), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	t.Run("get returns the record with an etag", func(t *testing.T) {
		w := doJSON(t, r, http.MethodGet, "/patients/"+p.ID, nil)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}
		if w.Header().Get("ETag") == "" {
			t.Fatal("expected an ETag header")
		}
	})

	t.Run("update can deactivate", func(t *testing.T) {
		payload := patientPayload("Ada", "Nwosu")
		payload["isActive"] = false

		w := doJSON(t, r, http.MethodPut, "/patients/"+p.ID, payload)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body=%s", w.Code, w.Body.String())
		}

		var updated patient.Patient
		if err := json.Unmarshal(w.Body.Bytes(), &updated); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if updated.IsActive {
			t.Fatal("patient should be inactive after update")
		}
	})

	t.Run("update without isActive keeps current flag", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPut, "/patients/"+p.ID, patientPayload("Ada", "Nwosu"))

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body=%s", w.Code, w.Body.String())
		}

		var updated patient.Patient
		if err := json.Unmarshal(w.Body.Bytes(), &updated); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if updated.IsActive {
			t.Fatal("omitting isActive must not silently reactivate")
		}
	})

	t.Run("delete then get is 404", func(t *testing.T) {
		if w := doJSON(t, r, http.MethodDelete, "/patients/"+p.ID, nil); w.Code != http.StatusNoContent {
			t.Fatalf("delete status = %d, want 204", w.Code)
		}
		if w := doJSON(t, r, http.MethodGet, "/patients/"+p.ID, nil); w.Code != http.StatusNotFound {
			t.Fatalf("get status = %d, want 404", w.Code)
		}
	})
}

func TestListPatients(t *testing.T) {
	r, _ := newPatientsRouter()

	for _, name := range [][2]string{{"Ada", "Nwosu"}, {"Ben", "Okafor"}, {"Chidi", "Nwosu"}} {
		if w := doJSON(t, r, http.MethodPost, "/patients", patientPayload(name[0], name[1])); w.Code != http.StatusCreated {
			t.Fatalf("setup create failed: %d", w.Code)
		}
	}

	t.Run("search matches last name", func(t *testing.T) {
		w := doJSON(t, r, http.MethodGet, "/patients?q=nwosu", nil)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}

		var resp struct {
			Items []patient.Patient `json:"items"`
			Total int               `json:"total"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if resp.Total != 2 {
			t.Fatalf("total = %d, want 2", resp.Total)
		}
	})

	t.Run("pagination", func(t *testing.T) {
		w := doJSON(t, r, http.MethodGet, "/patients?limit=2&offset=2", nil)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}

		var resp struct {
			Items []patient.Patient `json:"items"`
			Total int               `json:"total"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if resp.Total != 3 {
			t.Fatalf("total = %d, want 3", resp.Total)
		}
		if len(resp.Items) != 1 {
			t.Fatalf("items = %d, want 1", len(resp.Items))
		}
	})
}
