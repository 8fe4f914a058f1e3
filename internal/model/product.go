package model

import "github.com/shopspring/decimal"

// Product is a sellable item that belongs to exactly one category.
type Product struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	CategoryID  uint            `json:"category_id" gorm:"not null;index"`
	Name        string          `json:"name" gorm:"size:255;not null;index"`
	Description *string         `json:"description" gorm:"type:text"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	ImageURL    *string         `json:"image_url" gorm:"size:200"`
}

func (p Product) String() string {
	return p.Name
}
