package api

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"gorm.io/gorm"

	"tallyd/pkg/bus"
	gos3 "tallyd/pkg/s3"
)

// Store holds external dependencies required by the API layer. DB is used for
// the projector's read queries, ORM for transactional writes. S3 and Bus are
// optional; handlers degrade gracefully when they are nil.
type Store struct {
	DB  *pgxpool.Pool
	ORM *gorm.DB
	S3  *gos3.Client
	Bus *bus.Bus
}
