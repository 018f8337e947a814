package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Contact is an anonymous message sent through the contact form.
type Contact struct {
	ID         uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Name       string    `json:"name" gorm:"size:255;not null;index"`
	Email      string    `json:"email" gorm:"size:255;not null;index"`
	SearchName string    `json:"-" gorm:"size:255;not null;default:'';index"`
	Subject    string    `json:"subject" gorm:"size:255;not null"`
	Message    string    `json:"message" gorm:"type:text;not null"`
	CreatedAt  time.Time `json:"createdAt" gorm:"index"`
}

// BeforeCreate sets UUID before creating the record.
func (c *Contact) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// BeforeSave keeps the case-folded search copy of the name in sync.
func (c *Contact) BeforeSave(tx *gorm.DB) error {
	c.SearchName = strings.ToLower(c.Name)
	return nil
}
