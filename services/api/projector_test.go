package api

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestBuildAssetQueryDefaults(t *testing.T) {
	cycleID := uuid.New()
	listSQL, countSQL, listArgs, countArgs := buildAssetQuery(AssetFilters{}, cycleID)

	if !strings.Contains(listSQL, "LEFT JOIN inventory_logs l") {
		t.Fatal("projection must left-join the ledger")
	}
	if !strings.Contains(listSQL, "ORDER BY a.asset_id ASC") {
		t.Fatal("projection must order by asset code")
	}
	if strings.Contains(listSQL, "WHERE") {
		t.Fatal("no filters should add no WHERE clause")
	}
	if strings.Contains(listSQL, "LIMIT") {
		t.Fatal("zero limit should not paginate")
	}
	if len(listArgs) != 1 || listArgs[0] != cycleID {
		t.Fatalf("listArgs = %v, want just the cycle id", listArgs)
	}
	if strings.Contains(countSQL, "LIMIT") || strings.Contains(countSQL, "ORDER BY") {
		t.Fatal("count query must not order or paginate")
	}
	if len(countArgs) != 1 {
		t.Fatalf("countArgs = %v", countArgs)
	}
}

func TestBuildAssetQueryFilters(t *testing.T) {
	cycleID := uuid.New()
	checked := true
	listSQL, countSQL, listArgs, countArgs := buildAssetQuery(AssetFilters{
		Search:     "dell",
		Department: "IT",
		Location:   "Tầng 2",
		Status:     "Active",
		Checked:    &checked,
		Page:       3,
		Limit:      20,
	}, cycleID)

	for _, want := range []string{
		"a.asset_id ILIKE $2",
		"a.name_vi ILIKE $2",
		"a.serial ILIKE $2",
		"a.department = $3",
		"a.location = $4",
		"a.status = $5",
		"(l.id IS NOT NULL) = $6",
		"LIMIT $7",
		"OFFSET $8",
	} {
		if !strings.Contains(listSQL, want) {
			t.Fatalf("list SQL missing %q:\n%s", want, listSQL)
		}
	}

	if len(listArgs) != 8 {
		t.Fatalf("listArgs has %d entries, want 8", len(listArgs))
	}
	if listArgs[1] != "%dell%" {
		t.Fatalf("search arg = %v, want %%dell%%", listArgs[1])
	}
	if listArgs[6] != 20 {
		t.Fatalf("limit arg = %v, want 20", listArgs[6])
	}
	if listArgs[7] != 40 {
		t.Fatalf("offset arg = %v, want 40 for page 3", listArgs[7])
	}

	// The count query sees the same filters minus pagination.
	if len(countArgs) != 6 {
		t.Fatalf("countArgs has %d entries, want 6", len(countArgs))
	}
	if !strings.Contains(countSQL, "(l.id IS NOT NULL) = $6") {
		t.Fatalf("count SQL missing checked predicate:\n%s", countSQL)
	}
}

func TestBuildAssetQueryPageFloor(t *testing.T) {
	_, _, listArgs, _ := buildAssetQuery(AssetFilters{Limit: 10}, uuid.Nil)
	if listArgs[len(listArgs)-1] != 0 {
		t.Fatalf("offset = %v, want 0 when page unset", listArgs[len(listArgs)-1])
	}
}
