package api

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func testAPI(t *testing.T) *API {
	t.Helper()
	return &API{
		store:  &Store{},
		config: Config{DefaultLimit: defaultPageLimit},
		logger: log.New(io.Discard, "", 0),
	}
}

func TestRespondFailureMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"validation", validationf("name is required"), 400},
		{"not found", &NotFoundError{Entity: "asset", ID: "TS404"}, 404},
		{"not found no id", &NotFoundError{Entity: "active cycle"}, 404},
		{"duplicate scan", &DuplicateScanError{Asset: Asset{AssetID: "TS001"}}, 409},
		{"pg unique violation", &pgconn.PgError{Code: "23505"}, 409},
		{"unknown", errors.New("boom"), 500},
	}

	a := testAPI(t)
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			a.respondFailure(rec, tc.err)
			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tc.wantStatus)
			}
		})
	}
}

func TestRespondFailureDuplicatePayload(t *testing.T) {
	a := testAPI(t)
	rec := httptest.NewRecorder()
	a.respondFailure(rec, &DuplicateScanError{Asset: Asset{AssetID: "TS001", NameVi: "Máy in"}})

	var body struct {
		Error string `json:"error"`
		Data  struct {
			IsDuplicate bool  `json:"is_duplicate"`
			Asset       Asset `json:"asset"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if !body.Data.IsDuplicate {
		t.Fatal("is_duplicate flag not set")
	}
	if body.Data.Asset.AssetID != "TS001" {
		t.Fatalf("asset snapshot = %+v", body.Data.Asset)
	}
	if body.Error == "" {
		t.Fatal("error message missing")
	}
}

func TestRespondFailureHidesInternalDetail(t *testing.T) {
	a := testAPI(t)
	rec := httptest.NewRecorder()
	a.respondFailure(rec, errors.New("pq: secret table detail"))

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["error"] != "internal error" {
		t.Fatalf("error = %q, want generic message", body["error"])
	}
}

func TestIsUniqueViolation(t *testing.T) {
	if !isUniqueViolation(&pgconn.PgError{Code: "23505"}) {
		t.Fatal("23505 should be a unique violation")
	}
	if isUniqueViolation(&pgconn.PgError{Code: "23503"}) {
		t.Fatal("23503 is not a unique violation")
	}
	if isUniqueViolation(errors.New("plain")) {
		t.Fatal("plain errors are not unique violations")
	}
}
