package api

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func newTestRouter(t *testing.T) chi.Router {
	t.Helper()
	r := chi.NewRouter()
	a := testAPI(t)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/cycles", a.handleCreateCycle)
		r.Patch("/cycles/{cycleID}", a.handleUpdateCycle)
		r.Post("/cycles/{cycleID}/refresh", a.handleRefreshCycle)
		r.Post("/scans", a.handleRecordScan)
		r.Get("/assets", a.handleListAssets)
		r.Post("/assets/import", a.handleImportAssets)
		r.Get("/export", a.handleExport)
		r.Get("/activities", a.handleListActivities)
	})
	return r
}

// These cases all fail input validation before any storage access, so the
// handlers run against an empty store.
func TestHandlerInputValidation(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{"create cycle without name", "POST", "/v1/cycles", `{"description":"x"}`, 400},
		{"create cycle bad json", "POST", "/v1/cycles", `{`, 400},
		{"create cycle unknown field", "POST", "/v1/cycles", `{"name":"q1","bogus":true}`, 400},
		{"update cycle bad uuid", "PATCH", "/v1/cycles/not-a-uuid", `{"name":"x"}`, 400},
		{"refresh cycle bad uuid", "POST", "/v1/cycles/zzz/refresh", "", 400},
		{"scan without asset", "POST", "/v1/scans", `{"cycle_id":"b9e6f4a2-0f0e-4dd1-8e0a-61f64e40ebc3","inspector":"an"}`, 400},
		{"scan without inspector", "POST", "/v1/scans", `{"asset_id":"TS001","cycle_id":"b9e6f4a2-0f0e-4dd1-8e0a-61f64e40ebc3"}`, 400},
		{"scan without cycle", "POST", "/v1/scans", `{"asset_id":"TS001","inspector":"an"}`, 400},
		{"scan bad cycle id", "POST", "/v1/scans", `{"asset_id":"TS001","cycle_id":"nope","inspector":"an"}`, 400},
		{"scan bad condition", "POST", "/v1/scans", `{"asset_id":"TS001","cycle_id":"b9e6f4a2-0f0e-4dd1-8e0a-61f64e40ebc3","inspector":"an","condition":"Broken"}`, 400},
		{"assets bad checked", "GET", "/v1/assets?checked=maybe", "", 400},
		{"assets bad page", "GET", "/v1/assets?page=0", "", 400},
		{"assets bad cycle id", "GET", "/v1/assets?cycle_id=nope", "", 400},
		{"import empty rows", "POST", "/v1/assets/import", `{"rows":[]}`, 400},
		{"import bad cycle id", "POST", "/v1/assets/import", `{"rows":[{"Code":"TS001"}],"cycle_id":"nope"}`, 400},
		{"export bad mode", "GET", "/v1/export?mode=everything&cycle_id=b9e6f4a2-0f0e-4dd1-8e0a-61f64e40ebc3", "", 400},
		{"export bad cycle id", "GET", "/v1/export?cycle_id=nope", "", 400},
		{"activities bad limit", "GET", "/v1/activities?limit=-1", "", 400},
	}

	router := newTestRouter(t)
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body))
			if tc.body != "" {
				req.Header.Set("Content-Type", "application/json")
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			if rec.Code != tc.wantStatus {
				t.Fatalf("%s %s: status = %d, want %d (body %s)",
					tc.method, tc.path, rec.Code, tc.wantStatus, rec.Body.String())
			}
		})
	}
}

func TestBuildScanQuery(t *testing.T) {
	cycleID := uuid.New()

	query, args := buildScanQuery(cycleID, "", 20)
	if strings.Contains(query, "l.asset_id = $") {
		t.Fatal("no asset filter expected")
	}
	if len(args) != 2 || args[1] != 20 {
		t.Fatalf("args = %v", args)
	}

	query, args = buildScanQuery(cycleID, "TS001", 20)
	if !strings.Contains(query, "l.asset_id = $2") {
		t.Fatalf("asset filter missing:\n%s", query)
	}
	if !strings.Contains(query, "ORDER BY l.scan_time DESC") {
		t.Fatal("ledger listing must be newest first")
	}
	if len(args) != 3 || args[1] != "TS001" {
		t.Fatalf("args = %v", args)
	}
}

func TestRoutesConstruct(t *testing.T) {
	a := testAPI(t)
	handler, err := a.Routes()
	if err != nil {
		t.Fatalf("Routes: %v", err)
	}
	if handler == nil {
		t.Fatal("nil handler")
	}
}
