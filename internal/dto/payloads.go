package dto

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"

	apperrors "milkdelivery/internal/errors"
	"milkdelivery/internal/model"
)

// UserPayload is the writable part of a user. Keys not listed here,
// id included, are ignored.
type UserPayload struct {
	Username     Optional[string] `json:"username" validate:"required,max=150,username" swaggertype:"string" example:"ravi"`
	Email        Optional[string] `json:"email" validate:"omitempty,max=254,email" swaggertype:"string" example:"ravi@example.com"`
	IsPartner    Optional[bool]   `json:"is_partner" swaggertype:"boolean"`
	ProfileImage Optional[string] `json:"profile_image" validate:"omitempty,max=200,weburl" swaggertype:"string"`
}

// Validate checks the payload. Full writes require every mandatory field;
// partial writes check only the fields that were sent.
func (p *UserPayload) Validate(partial bool) error {
	trim(&p.Username, &p.Email, &p.ProfileImage)
	blankToNull(&p.ProfileImage)

	verr := &apperrors.ValidationError{}
	rejectNull(verr, map[string]bool{
		"username":   p.Username.Set && p.Username.Null,
		"email":      p.Email.Set && p.Email.Null,
		"is_partner": p.IsPartner.Set && p.IsPartner.Null,
	})
	rejectBlank(verr, "username", p.Username)
	validateFields(verr, p, partial, present(map[string]bool{
		"Username":     p.Username.Set,
		"Email":        p.Email.Set,
		"IsPartner":    p.IsPartner.Set,
		"ProfileImage": p.ProfileImage.Set,
	}))
	return verr.OrNil()
}

// ApplyTo copies the sent fields onto u. Call after Validate succeeds.
func (p *UserPayload) ApplyTo(u *model.User) {
	if p.Username.Valid() {
		u.Username = p.Username.Value
	}
	if p.Email.Valid() {
		u.Email = p.Email.Value
	}
	if p.IsPartner.Valid() {
		u.IsPartner = p.IsPartner.Value
	}
	if p.ProfileImage.Set {
		u.ProfileImage = p.ProfileImage.Ptr()
	}
}

// CategoryPayload is the writable part of a category.
type CategoryPayload struct {
	Name     Optional[string] `json:"name" validate:"required,max=255" swaggertype:"string" example:"Dairy"`
	ImageURL Optional[string] `json:"image_url" validate:"omitempty,max=200,weburl" swaggertype:"string"`
}

// Validate checks the payload; see UserPayload.Validate.
func (p *CategoryPayload) Validate(partial bool) error {
	trim(&p.Name, &p.ImageURL)
	blankToNull(&p.ImageURL)

	verr := &apperrors.ValidationError{}
	rejectNull(verr, map[string]bool{"name": p.Name.Set && p.Name.Null})
	rejectBlank(verr, "name", p.Name)
	validateFields(verr, p, partial, present(map[string]bool{
		"Name":     p.Name.Set,
		"ImageURL": p.ImageURL.Set,
	}))
	return verr.OrNil()
}

// ApplyTo copies the sent fields onto c. Call after Validate succeeds.
func (p *CategoryPayload) ApplyTo(c *model.Category) {
	if p.Name.Valid() {
		c.Name = p.Name.Value
	}
	if p.ImageURL.Set {
		c.ImageURL = p.ImageURL.Ptr()
	}
}

// ProductPayload is the writable part of a product. Price accepts a JSON
// number or a numeric string; Category is the owning category's id.
type ProductPayload struct {
	Name        Optional[string]          `json:"name" validate:"required,max=255" swaggertype:"string" example:"Milk 1L"`
	Description Optional[string]          `json:"description" swaggertype:"string"`
	Price       Optional[json.RawMessage] `json:"price" validate:"-" swaggertype:"string" example:"3.50"`
	ImageURL    Optional[string]          `json:"image_url" validate:"omitempty,max=200,weburl" swaggertype:"string"`
	Category    Optional[uint]            `json:"category" validate:"-" swaggertype:"integer" example:"1"`

	price decimal.Decimal
}

// Validate checks the payload; see UserPayload.Validate.
func (p *ProductPayload) Validate(partial bool) error {
	trim(&p.Name, &p.ImageURL)
	blankToNull(&p.ImageURL)

	verr := &apperrors.ValidationError{}
	rejectNull(verr, map[string]bool{
		"name":     p.Name.Set && p.Name.Null,
		"price":    p.Price.Set && p.Price.Null,
		"category": p.Category.Set && p.Category.Null,
	})
	rejectBlank(verr, "name", p.Name)

	switch {
	case p.Price.Valid():
		price, msg := ParsePrice(p.Price.Value)
		if msg != "" {
			verr.Add("price", msg)
		}
		p.price = price
	case !p.Price.Set && !partial:
		verr.Add("price", "This field is required.")
	}
	// Any sent id, 0 included, is left to the store's foreign key.
	if !p.Category.Set && !partial {
		verr.Add("category", "This field is required.")
	}

	validateFields(verr, p, partial, present(map[string]bool{
		"Name":        p.Name.Set,
		"Description": p.Description.Set,
		"ImageURL":    p.ImageURL.Set,
	}))
	return verr.OrNil()
}

// ApplyTo copies the sent fields onto product. Call after Validate succeeds.
func (p *ProductPayload) ApplyTo(product *model.Product) {
	if p.Name.Valid() {
		product.Name = p.Name.Value
	}
	if p.Description.Set {
		product.Description = p.Description.Ptr()
	}
	if p.Price.Valid() {
		product.Price = p.price
	}
	if p.Category.Valid() {
		product.CategoryID = p.Category.Value
	}
	if p.ImageURL.Set {
		product.ImageURL = p.ImageURL.Ptr()
	}
}

func trim(fields ...*Optional[string]) {
	for _, f := range fields {
		if f.Valid() {
			f.Value = strings.TrimSpace(f.Value)
		}
	}
}

// blankToNull stores an empty optional string as null.
func blankToNull(fields ...*Optional[string]) {
	for _, f := range fields {
		if f.Valid() && f.Value == "" {
			f.Null = true
		}
	}
}

func rejectBlank(verr *apperrors.ValidationError, name string, field Optional[string]) {
	if field.Valid() && field.Value == "" {
		verr.Add(name, "This field may not be blank.")
	}
}

func present(fields map[string]bool) []string {
	names := make([]string, 0, len(fields))
	for name, set := range fields {
		if set {
			names = append(names, name)
		}
	}
	return names
}
