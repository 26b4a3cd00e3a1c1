// Package counter keeps cycle progress counters fresh by consuming scan and
// import events off the bus. It is an optional companion to the API service:
// the API already refreshes counters on its own writes, the counter picks up
// anything that happened out of band or was lost to a crash mid-request.
package counter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"tallyd/pkg/bus"
	"tallyd/pkg/db"
)

const (
	scansSubject   = "tally.scans.recorded"
	importsSubject = "tally.assets.imported"

	scansDurable   = "counter-scans"
	importsDurable = "counter-imports"
)

// Counter consumes inventory events and recomputes cycle counters.
type Counter struct {
	pool   *pgxpool.Pool
	bus    *bus.Bus
	logger *log.Logger
	subs   []io.Closer
}

func New(pool *pgxpool.Pool, b *bus.Bus, logger *log.Logger) *Counter {
	return &Counter{pool: pool, bus: b, logger: logger}
}

// Start subscribes the durable consumers. Subscriptions stay active until the
// context is cancelled or Close is called.
func (c *Counter) Start(ctx context.Context) error {
	scanSub, err := c.bus.Subscribe(ctx, scansSubject, scansDurable, c.handleScan)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", scansSubject, err)
	}
	c.subs = append(c.subs, scanSub)

	importSub, err := c.bus.Subscribe(ctx, importsSubject, importsDurable, c.handleImport)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", importsSubject, err)
	}
	c.subs = append(c.subs, importSub)

	return nil
}

// Close drains all subscriptions.
func (c *Counter) Close() {
	for _, sub := range c.subs {
		_ = sub.Close()
	}
	c.subs = nil
}

type scanEvent struct {
	CycleID uuid.UUID `json:"cycle_id"`
}

func (c *Counter) handleScan(ctx context.Context, data []byte) error {
	var event scanEvent
	if err := json.Unmarshal(data, &event); err != nil {
		// Unparsable payloads never become parsable; drop instead of redelivering.
		c.logger.Printf("WARN dropping malformed scan event: %v", err)
		return nil
	}
	if event.CycleID == uuid.Nil {
		c.logger.Printf("WARN dropping scan event without cycle id")
		return nil
	}

	if err := c.refreshCycle(ctx, event.CycleID); err != nil {
		return err
	}
	c.logger.Printf("INFO refreshed counters for cycle %s", event.CycleID)
	return nil
}

type importEvent struct {
	CycleID string `json:"cycle_id"`
}

func (c *Counter) handleImport(ctx context.Context, data []byte) error {
	var event importEvent
	if err := json.Unmarshal(data, &event); err != nil {
		c.logger.Printf("WARN dropping malformed import event: %v", err)
		return nil
	}

	if event.CycleID != "" {
		id, err := uuid.Parse(event.CycleID)
		if err != nil {
			c.logger.Printf("WARN dropping import event with bad cycle id %q", event.CycleID)
			return nil
		}
		return c.refreshCycle(ctx, id)
	}

	// Imports without a cycle still change the registry size the active
	// cycle reports against.
	return c.refreshActiveCycle(ctx)
}

const refreshCycleQuery = `
	UPDATE inventory_cycles SET
		total_assets = (SELECT count(*) FROM assets),
		checked_assets = (SELECT count(*) FROM inventory_logs WHERE cycle_id = inventory_cycles.cycle_id),
		updated_at = now()
	WHERE cycle_id = $1`

const refreshActiveCycleQuery = `
	UPDATE inventory_cycles SET
		total_assets = (SELECT count(*) FROM assets),
		checked_assets = (SELECT count(*) FROM inventory_logs WHERE cycle_id = inventory_cycles.cycle_id),
		updated_at = now()
	WHERE is_active`

func (c *Counter) refreshCycle(ctx context.Context, cycleID uuid.UUID) error {
	_, err := db.Exec(ctx, c.pool, refreshCycleQuery, cycleID)
	return err
}

func (c *Counter) refreshActiveCycle(ctx context.Context) error {
	_, err := db.Exec(ctx, c.pool, refreshActiveCycleQuery)
	return err
}
