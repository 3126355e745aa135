package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

var (
	ErrInvalidComplex    = errors.New("invalid complex")
	ErrInvalidSchemaName = errors.New("invalid schema name")
	ErrComplexNotFound   = errors.New("complex not found")
)

// Complex is one residential complex in the shared registry. Each complex
// owns an isolated tenant schema named by SchemaName; the registry row is
// the only cross-schema record for it.
type Complex struct {
	ID         snowflake.ID  `gorm:"primaryKey" json:"id"`
	SchemaName string        `gorm:"type:text;not null;uniqueIndex" json:"schema_name"`
	Name       string        `gorm:"type:text;not null" json:"name"`
	PlanID     *snowflake.ID `gorm:"index" json:"plan_id,omitempty"`
	IsActive   bool          `gorm:"not null;default:true" json:"is_active"`
	CreatedAt  time.Time     `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time     `gorm:"not null" json:"updated_at"`
}

func (Complex) TableName() string { return "residential_complexes" }

// ValidSchemaName accepts lowercase identifiers only; schema names are
// interpolated into DDL and queries and must never carry quoting
// characters. Registration and the scoped store share this rule so a
// complex that registers is a complex that aggregates.
func ValidSchemaName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r >= 'a' && r <= 'z':
		case r == '_':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// Registry reads and maintains the shared complex registry. A failure
// here aborts the whole aggregation pass; per-tenant failures do not.
type Registry interface {
	Insert(ctx context.Context, db *gorm.DB, c *Complex) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Complex, error)
	FindBySchemaName(ctx context.Context, db *gorm.DB, schemaName string) (*Complex, error)
	List(ctx context.Context, db *gorm.DB) ([]Complex, error)
	ListActive(ctx context.Context, db *gorm.DB) ([]Complex, error)
	SetActive(ctx context.Context, db *gorm.DB, id snowflake.ID, active bool) error
}

// Service is the registry surface exposed to handlers.
type Service interface {
	Create(ctx context.Context, req CreateComplexRequest) (Complex, error)
	Get(ctx context.Context, id string) (Complex, error)
	List(ctx context.Context) ([]Complex, error)
	ListActive(ctx context.Context) ([]Complex, error)
	SetActive(ctx context.Context, id string, active bool) error
}

type CreateComplexRequest struct {
	SchemaName string
	Name       string
	PlanID     string
}
