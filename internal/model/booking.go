package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Booking is a table reservation made by a signed-in user.
type Booking struct {
	ID         uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Name       string    `json:"name" gorm:"size:255;not null;index"`
	Email      string    `json:"email" gorm:"size:255;not null;index"`
	SearchName string    `json:"-" gorm:"size:255;not null;default:'';index"`
	Datetime   time.Time `json:"datetime" gorm:"not null;index"`
	People     string    `json:"people" gorm:"size:32;not null"`
	Message    string    `json:"message,omitempty" gorm:"type:text"`
	UserID     uuid.UUID `json:"user" gorm:"type:char(36);not null;index"`
	CreatedAt  time.Time `json:"createdAt"`
}

// BeforeCreate sets UUID before creating the record.
func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// BeforeSave keeps the case-folded search copy of the name in sync.
func (b *Booking) BeforeSave(tx *gorm.DB) error {
	b.SearchName = strings.ToLower(b.Name)
	return nil
}
