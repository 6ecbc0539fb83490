package models

import (
	"time"
)

type User struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	DID         string    `gorm:"column:did;uniqueIndex;size:255;not null" json:"did"` // stable identifier from the identity provider
	Handle      string    `gorm:"size:255;not null;index" json:"handle"`
	DisplayName string    `gorm:"size:255" json:"display_name"`
	Karma       int       `gorm:"not null;default:0" json:"karma"` // maintained incrementally, never aggregated at read time
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	// No DeletedAt: users are never hard-deleted
}
