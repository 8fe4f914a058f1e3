package model

import "time"

// User is a customer or delivery-partner account.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"size:150;not null;uniqueIndex"`
	Email        string    `json:"email" gorm:"size:254;not null;default:''"`
	PasswordHash string    `json:"-" gorm:"column:password;size:128;not null"` // Never expose in JSON
	IsPartner    bool      `json:"is_partner" gorm:"not null;default:false;index"`
	ProfileImage *string   `json:"profile_image" gorm:"size:200"`
	IsStaff      bool      `json:"is_staff" gorm:"not null;default:false"`
	IsActive     bool      `json:"is_active" gorm:"not null;default:true"`
	DateJoined   time.Time `json:"date_joined" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u User) String() string {
	return u.Username
}
