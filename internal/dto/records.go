package dto

import "milkdelivery/internal/model"

// UserRecord is the transfer shape of a user. It never carries credentials.
type UserRecord struct {
	ID           uint    `json:"id"`
	Username     string  `json:"username"`
	Email        string  `json:"email"`
	IsPartner    bool    `json:"is_partner"`
	ProfileImage *string `json:"profile_image" swaggertype:"string"`
}

// CategoryRecord is the transfer shape of a category.
type CategoryRecord struct {
	ID       uint    `json:"id"`
	Name     string  `json:"name"`
	ImageURL *string `json:"image_url" swaggertype:"string"`
}

// ProductRecord is the transfer shape of a product. Category holds the
// owning category's id and Price is rendered with two decimals.
type ProductRecord struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description" swaggertype:"string"`
	Price       string  `json:"price" example:"3.50"`
	ImageURL    *string `json:"image_url" swaggertype:"string"`
	Category    uint    `json:"category"`
}

func NewUserRecord(u *model.User) UserRecord {
	return UserRecord{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		IsPartner:    u.IsPartner,
		ProfileImage: u.ProfileImage,
	}
}

func NewCategoryRecord(c *model.Category) CategoryRecord {
	return CategoryRecord{
		ID:       c.ID,
		Name:     c.Name,
		ImageURL: c.ImageURL,
	}
}

func NewProductRecord(p *model.Product) ProductRecord {
	return ProductRecord{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       FormatPrice(p.Price),
		ImageURL:    p.ImageURL,
		Category:    p.CategoryID,
	}
}

func NewUserRecords(users []model.User) []UserRecord {
	records := make([]UserRecord, 0, len(users))
	for i := range users {
		records = append(records, NewUserRecord(&users[i]))
	}
	return records
}

func NewCategoryRecords(categories []model.Category) []CategoryRecord {
	records := make([]CategoryRecord, 0, len(categories))
	for i := range categories {
		records = append(records, NewCategoryRecord(&categories[i]))
	}
	return records
}

func NewProductRecords(products []model.Product) []ProductRecord {
	records := make([]ProductRecord, 0, len(products))
	for i := range products {
		records = append(records, NewProductRecord(&products[i]))
	}
	return records
}
