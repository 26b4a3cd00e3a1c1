package migrations

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

func init() {
	goose.AddMigrationContext(upInit, downInit)
}

type Asset struct {
	AssetID      string     `gorm:"column:asset_id;type:text;primaryKey"`
	NameVi       string     `gorm:"type:text"`
	NameEn       string     `gorm:"type:text"`
	Type         string     `gorm:"type:text"`
	Model        string     `gorm:"type:text"`
	Serial       string     `gorm:"type:text"`
	TechCode     string     `gorm:"type:text"`
	StartDate    *time.Time `gorm:"type:date"`
	UsagePeriod  *int       `gorm:"type:integer"`
	EndDate      *time.Time `gorm:"type:date"`
	Customer     string     `gorm:"type:text"`
	Supplier     string     `gorm:"type:text"`
	Source       string     `gorm:"type:text"`
	Department   string     `gorm:"type:text;index"`
	Location     string     `gorm:"type:text;index"`
	Status       string     `gorm:"type:text;not null;default:Active"`
	InitialValue *float64   `gorm:"type:numeric(18,2)"`
	CurrentValue *float64   `gorm:"type:numeric(18,2)"`
	Notes        string     `gorm:"type:text"`
	CreatedAt    time.Time  `gorm:"type:timestamptz;not null;default:now();autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"type:timestamptz;not null;default:now();autoUpdateTime"`
}

type InventoryCycle struct {
	CycleID       uuid.UUID  `gorm:"column:cycle_id;type:uuid;primaryKey"`
	Name          string     `gorm:"type:text;not null"`
	Description   string     `gorm:"type:text"`
	StartAt       time.Time  `gorm:"type:timestamptz;not null;default:now()"`
	EndAt         *time.Time `gorm:"type:timestamptz"`
	IsActive      bool       `gorm:"type:boolean;not null;default:false"`
	TotalAssets   int        `gorm:"type:integer;not null;default:0"`
	CheckedAssets int        `gorm:"type:integer;not null;default:0"`
	CreatedBy     string     `gorm:"type:text"`
	CreatedAt     time.Time  `gorm:"type:timestamptz;not null;default:now();autoCreateTime"`
	UpdatedAt     time.Time  `gorm:"type:timestamptz;not null;default:now();autoUpdateTime"`
}

type InventoryLog struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey"`
	AssetID        string         `gorm:"column:asset_id;type:text;not null;index"`
	CycleID        uuid.UUID      `gorm:"column:cycle_id;type:uuid;not null;index"`
	Inspector      string         `gorm:"type:text;not null"`
	ScanTime       time.Time      `gorm:"type:timestamptz;not null;default:now()"`
	ScanLocation   string         `gorm:"type:text"`
	ActualLocation string         `gorm:"type:text"`
	Condition      string         `gorm:"type:text;not null;default:Good"`
	Notes          string         `gorm:"type:text"`
	CreatedAt      time.Time      `gorm:"type:timestamptz;not null;default:now();autoCreateTime"`
	Asset          Asset          `gorm:"foreignKey:AssetID;references:AssetID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Cycle          InventoryCycle `gorm:"foreignKey:CycleID;references:CycleID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

type ActivityLog struct {
	ID         int64             `gorm:"type:bigserial;primaryKey"`
	Action     string            `gorm:"type:text;not null"`
	EntityType string            `gorm:"type:text"`
	EntityID   string            `gorm:"column:entity_id;type:text"`
	UserName   string            `gorm:"type:text"`
	Details    datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt  time.Time         `gorm:"type:timestamptz;not null;default:now();autoCreateTime"`
}

func (ActivityLog) TableName() string { return "activity_logs" }

func upInit(ctx context.Context, tx *sql.Tx) error {
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: tx, PreferSimpleProtocol: true}), &gorm.Config{
		NamingStrategy: schema.NamingStrategy{SingularTable: false},
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return err
	}

	if err := gormDB.WithContext(ctx).AutoMigrate(
		&Asset{},
		&InventoryCycle{},
		&InventoryLog{},
		&ActivityLog{},
	); err != nil {
		return err
	}

	m := gormDB.WithContext(ctx).Migrator()
	if err := m.CreateConstraint(&InventoryLog{}, "Asset"); err != nil {
		return err
	}
	if err := m.CreateConstraint(&InventoryLog{}, "Cycle"); err != nil {
		return err
	}

	// The ledger dedup guarantee: one scan per asset per cycle. The handler
	// pre-check is only an early exit; this index is the enforcement point.
	if err := gormDB.WithContext(ctx).Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_inventory_logs_asset_cycle ON inventory_logs (asset_id, cycle_id)`,
	).Error; err != nil {
		return err
	}

	// At most one row may carry is_active = true.
	if err := gormDB.WithContext(ctx).Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_inventory_cycles_single_active ON inventory_cycles ((is_active)) WHERE is_active`,
	).Error; err != nil {
		return err
	}

	if err := gormDB.WithContext(ctx).Exec(`
CREATE OR REPLACE VIEW v_asset_inventory_status AS
SELECT
    a.*,
    l.cycle_id,
    l.id IS NOT NULL        AS is_checked,
    l.inspector,
    l.scan_time,
    l.actual_location,
    l.condition             AS checked_condition
FROM assets a
LEFT JOIN inventory_logs l
    ON l.asset_id = a.asset_id
   AND l.cycle_id = (SELECT c.cycle_id FROM inventory_cycles c WHERE c.is_active LIMIT 1)
`).Error; err != nil {
		return err
	}

	return gormDB.WithContext(ctx).Exec(`
CREATE OR REPLACE VIEW v_department_stats AS
SELECT
    a.department,
    c.cycle_id,
    c.name                                   AS cycle_name,
    COUNT(a.asset_id)                        AS total_assets,
    COUNT(l.id)                              AS checked_assets,
    ROUND(100.0 * COUNT(l.id) / GREATEST(COUNT(a.asset_id), 1)) AS progress_percent
FROM assets a
CROSS JOIN inventory_cycles c
LEFT JOIN inventory_logs l
    ON l.asset_id = a.asset_id
   AND l.cycle_id = c.cycle_id
WHERE c.is_active
GROUP BY a.department, c.cycle_id, c.name
`).Error
}

func downInit(ctx context.Context, tx *sql.Tx) error {
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: tx, PreferSimpleProtocol: true}), &gorm.Config{
		NamingStrategy: schema.NamingStrategy{SingularTable: false},
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return err
	}

	if err := gormDB.WithContext(ctx).Exec(`DROP VIEW IF EXISTS v_department_stats`).Error; err != nil {
		return err
	}
	if err := gormDB.WithContext(ctx).Exec(`DROP VIEW IF EXISTS v_asset_inventory_status`).Error; err != nil {
		return err
	}

	return gormDB.WithContext(ctx).Migrator().DropTable(
		&ActivityLog{},
		&InventoryLog{},
		&InventoryCycle{},
		&Asset{},
	)
}
