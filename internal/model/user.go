package model

// User represents a registered account. The password hash is never exposed in JSON.
type User struct {
	ID             uint   `json:"id" gorm:"primaryKey"`
	Username       string `json:"username" gorm:"uniqueIndex;size:255;not null"`
	Email          string `json:"email" gorm:"size:255"`
	HashedPassword string `json:"-" gorm:"size:255;not null"`
	IsActive       bool   `json:"is_active" gorm:"default:true"`

	Items []Item `json:"-" gorm:"foreignKey:OwnerID"`
}
