package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Tenant schema tables. These models carry no TableName; they are always
// migrated and queried through a schema-qualified table name, one copy per
// complex. The aggregation core reads them, the per-complex services own
// them.

type Property struct {
	ID         snowflake.ID  `gorm:"primaryKey"`
	UnitNumber string        `gorm:"type:text;not null"`
	Type       string        `gorm:"type:text;not null"`
	OwnerID    *snowflake.ID `gorm:"index"`
	CreatedAt  time.Time     `gorm:"not null"`
	UpdatedAt  time.Time     `gorm:"not null"`
}

type User struct {
	ID        snowflake.ID `gorm:"primaryKey"`
	Email     string       `gorm:"type:text;not null;uniqueIndex"`
	Name      string       `gorm:"type:text;not null"`
	Role      string       `gorm:"type:text;not null;index"`
	CreatedAt time.Time    `gorm:"not null"`
	UpdatedAt time.Time    `gorm:"not null"`
}

type Fee struct {
	ID         snowflake.ID    `gorm:"primaryKey"`
	PropertyID snowflake.ID    `gorm:"not null;index"`
	Concept    string          `gorm:"type:text;not null"`
	Amount     decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	Status     string          `gorm:"type:text;not null;index"`
	DueDate    time.Time       `gorm:"not null"`
	CreatedAt  time.Time       `gorm:"not null"`
	UpdatedAt  time.Time       `gorm:"not null"`
}

type Payment struct {
	ID        snowflake.ID    `gorm:"primaryKey"`
	FeeID     *snowflake.ID   `gorm:"index"`
	Concept   string          `gorm:"type:text;not null"`
	Amount    decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	Status    string          `gorm:"type:text;not null;index"`
	PaidAt    time.Time       `gorm:"not null;index"`
	CreatedAt time.Time       `gorm:"not null"`
}

type Ticket struct {
	ID        snowflake.ID `gorm:"primaryKey"`
	Title     string       `gorm:"type:text;not null"`
	Status    string       `gorm:"type:text;not null;index"`
	Priority  string       `gorm:"type:text;not null"`
	CreatedAt time.Time    `gorm:"not null"`
	UpdatedAt time.Time    `gorm:"not null"`
}

type Budget struct {
	ID          snowflake.ID    `gorm:"primaryKey"`
	Year        int             `gorm:"not null;index"`
	TotalAmount decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	Status      string          `gorm:"type:text;not null;index"`
	CreatedAt   time.Time       `gorm:"not null"`
	UpdatedAt   time.Time       `gorm:"not null"`
}

type Expense struct {
	ID          snowflake.ID    `gorm:"primaryKey"`
	Description string          `gorm:"type:text;not null"`
	Amount      decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	Status      string          `gorm:"type:text;not null;index"`
	ExpenseDate time.Time       `gorm:"not null;index"`
	CreatedAt   time.Time       `gorm:"not null"`
}
