package model

import (
	"time"

	"github.com/google/uuid"
)

// UserModel mirrors the 'users' table. IDs are UUIDv7 assigned by the repository;
// PostgreSQL falls back to gen_random_uuid() for rows inserted elsewhere.
type UserModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	FirstName    string    `gorm:"type:varchar(100);not null;index"`
	LastName     string    `gorm:"type:varchar(100);not null;index"`
	Email        string    `gorm:"type:varchar(255);unique;not null"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	// Comma-separated role names, e.g. "librarian,member"
	Roles     string `gorm:"type:varchar(64);not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}

// AllModels lists every model managed by schema migration.
func AllModels() []any {
	return []any{&UserModel{}}
}
