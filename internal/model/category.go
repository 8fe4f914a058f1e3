package model

// Category groups products. Deleting a category deletes its products.
type Category struct {
	ID       uint    `json:"id" gorm:"primaryKey"`
	Name     string  `json:"name" gorm:"size:255;not null;uniqueIndex"`
	ImageURL *string `json:"image_url" gorm:"size:200"`

	// Relations
	Products []Product `json:"-" gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
}

func (c Category) String() string {
	return c.Name
}
