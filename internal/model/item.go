package model

// Item is a single task owned by exactly one user.
type Item struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Title       string `json:"title" gorm:"size:255;not null"`
	Description string `json:"description" gorm:"size:1024"`
	Completed   bool   `json:"completed" gorm:"default:false"`
	OwnerID     uint   `json:"owner_id" gorm:"not null;index"`
}
