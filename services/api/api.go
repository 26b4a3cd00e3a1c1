package api

import (
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	presignURLExpiry = 15 * time.Minute

	scansTopic   = "tally.scans.recorded"
	cyclesTopic  = "tally.cycles.created"
	importsTopic = "tally.assets.imported"
)

// Config controls runtime behaviour for the API handlers.
type Config struct {
	ExportBucket string
	DefaultLimit int
}

// API wires dependencies and configuration for HTTP handlers.
type API struct {
	store  *Store
	config Config
	logger *log.Logger
}

// New initialises the API layer with sane defaults applied to the provided configuration.
func New(store *Store, logger *log.Logger, cfg Config) (*API, error) {
	if store == nil {
		return nil, errors.New("store is required")
	}
	if store.ORM == nil {
		return nil, errors.New("store ORM is required")
	}
	if store.DB == nil {
		return nil, errors.New("store DB is required")
	}
	if logger == nil {
		logger = log.New(os.Stderr, "", log.LstdFlags)
	}

	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = defaultPageLimit
	}
	if cfg.ExportBucket == "" {
		cfg.ExportBucket = os.Getenv("S3_BUCKET")
	}

	return &API{
		store:  store,
		config: cfg,
		logger: logger,
	}, nil
}

// Routes constructs the chi router containing all API endpoints.
func (a *API) Routes() (http.Handler, error) {
	if a == nil {
		return nil, errors.New("nil api")
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Route("/v1", func(r chi.Router) {
		r.Post("/cycles", a.handleCreateCycle)
		r.Get("/cycles", a.handleListCycles)
		r.Get("/cycles/active", a.handleActiveCycle)
		r.Patch("/cycles/{cycleID}", a.handleUpdateCycle)
		r.Post("/cycles/{cycleID}/refresh", a.handleRefreshCycle)
		r.Get("/cycles/{cycleID}/stats", a.handleCycleStats)

		r.Post("/scans", a.handleRecordScan)
		r.Get("/scans", a.handleListScans)

		r.Get("/assets", a.handleListAssets)
		r.Put("/assets/{assetID}", a.handleUpdateAsset)
		r.Post("/assets/import", a.handleImportAssets)
		r.Post("/assets/import/xlsx", a.handleImportWorkbook)

		r.Get("/export", a.handleExport)
		r.Get("/template", a.handleTemplate)
		r.Get("/activities", a.handleListActivities)
	})

	return r, nil
}
