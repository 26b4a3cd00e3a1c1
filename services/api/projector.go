package api

import (
	"context"
	"fmt"
	"strings"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	"tallyd/pkg/db"
)

const defaultPageLimit = 50

// AssetFilters narrows the derived-status projection. CycleID defaults to the
// active cycle; when no cycle exists every asset projects as unchecked.
type AssetFilters struct {
	CycleID    *uuid.UUID
	Search     string
	Department string
	Location   string
	Status     string
	Checked    *bool
	Page       int
	Limit      int
}

// statusColumns is the projection of an asset joined with its ledger entry
// for one cycle. The checked state is derived from the join, never stored.
const statusColumns = `
	a.asset_id, a.name_vi, a.name_en, a.type, a.model, a.serial, a.tech_code,
	a.start_date, a.usage_period, a.end_date, a.customer, a.supplier, a.source,
	a.department, a.location, a.status, a.initial_value, a.current_value,
	a.notes, a.created_at, a.updated_at,
	l.cycle_id,
	(l.id IS NOT NULL) AS is_checked,
	l.inspector,
	l.scan_time,
	l.actual_location,
	l.condition AS checked_condition`

// buildAssetQuery renders the projection query and its matching count query
// for one resolved cycle. Pure so the SQL shape is testable.
func buildAssetQuery(f AssetFilters, cycleID uuid.UUID) (listSQL, countSQL string, listArgs, countArgs []any) {
	args := []any{cycleID}
	conds := []string{}

	if s := strings.TrimSpace(f.Search); s != "" {
		args = append(args, "%"+s+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			"(a.asset_id ILIKE $%d OR a.name_vi ILIKE $%d OR a.name_en ILIKE $%d OR a.model ILIKE $%d OR a.serial ILIKE $%d)",
			n, n, n, n, n))
	}
	if f.Department != "" {
		args = append(args, f.Department)
		conds = append(conds, fmt.Sprintf("a.department = $%d", len(args)))
	}
	if f.Location != "" {
		args = append(args, f.Location)
		conds = append(conds, fmt.Sprintf("a.location = $%d", len(args)))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		conds = append(conds, fmt.Sprintf("a.status = $%d", len(args)))
	}
	if f.Checked != nil {
		args = append(args, *f.Checked)
		conds = append(conds, fmt.Sprintf("(l.id IS NOT NULL) = $%d", len(args)))
	}

	base := `FROM assets a
	LEFT JOIN inventory_logs l ON l.asset_id = a.asset_id AND l.cycle_id = $1`
	if len(conds) > 0 {
		base += "\n\tWHERE " + strings.Join(conds, " AND ")
	}

	countSQL = "SELECT count(*) " + base
	countArgs = args

	listSQL = "SELECT" + statusColumns + "\n\t" + base + "\n\tORDER BY a.asset_id ASC"
	listArgs = args
	if f.Limit > 0 {
		listArgs = append(listArgs, f.Limit)
		listSQL += fmt.Sprintf("\n\tLIMIT $%d", len(listArgs))
		page := f.Page
		if page < 1 {
			page = 1
		}
		listArgs = append(listArgs, (page-1)*f.Limit)
		listSQL += fmt.Sprintf(" OFFSET $%d", len(listArgs))
	}

	return listSQL, countSQL, listArgs, countArgs
}

// activeCycleID resolves the single active cycle, if any.
func (a *API) activeCycleID(ctx context.Context) (uuid.UUID, bool, error) {
	var id uuid.UUID
	err := db.Get(ctx, a.store.DB, &id,
		`SELECT cycle_id FROM inventory_cycles WHERE is_active LIMIT 1`)
	if pgxscan.NotFound(err) {
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, err
	}
	return id, true, nil
}

// resolveCycleID picks the cycle the projection runs against: the explicit
// filter when given, otherwise the active cycle. uuid.Nil joins nothing, so
// with no cycle at all every asset is reported unchecked.
func (a *API) resolveCycleID(ctx context.Context, f AssetFilters) (uuid.UUID, error) {
	if f.CycleID != nil {
		return *f.CycleID, nil
	}
	id, ok, err := a.activeCycleID(ctx)
	if err != nil {
		return uuid.Nil, err
	}
	if !ok {
		return uuid.Nil, nil
	}
	return id, nil
}

// listAssets runs the derived-status projection with pagination and returns
// the page plus the unpaginated match count.
func (a *API) listAssets(ctx context.Context, f AssetFilters) ([]AssetStatus, int, error) {
	if f.Limit <= 0 {
		f.Limit = a.config.DefaultLimit
	}

	cycleID, err := a.resolveCycleID(ctx, f)
	if err != nil {
		return nil, 0, err
	}

	listSQL, countSQL, listArgs, countArgs := buildAssetQuery(f, cycleID)

	rows := []AssetStatus{}
	if err := db.Select(ctx, a.store.DB, &rows, listSQL, listArgs...); err != nil {
		return nil, 0, err
	}

	var total int
	if err := db.Get(ctx, a.store.DB, &total, countSQL, countArgs...); err != nil {
		return nil, 0, err
	}

	return rows, total, nil
}
