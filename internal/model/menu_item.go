package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MenuType is the meal a menu item belongs to.
type MenuType string

const (
	MenuTypeBreakfast MenuType = "breakfast"
	MenuTypeLunch     MenuType = "lunch"
	MenuTypeDinner    MenuType = "dinner"
)

// MenuItem is a dish shown on the public menu. ImagePath is the public path of
// exactly one file in the managed uploads directory.
type MenuItem struct {
	ID               uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	Title            string          `json:"title" gorm:"size:255;not null"`
	ShortDescription string          `json:"shortDescription" gorm:"type:text;not null"`
	Price            decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	Type             MenuType        `json:"type" gorm:"type:varchar(20);not null;index"`
	ImagePath        string          `json:"imagePath" gorm:"size:512;not null"`
	CreatedBy        uuid.UUID       `json:"createdBy" gorm:"type:char(36);not null;index"`
	CreatedAt        time.Time       `json:"createdAt" gorm:"index"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// BeforeCreate sets UUID before creating the record.
func (m *MenuItem) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
