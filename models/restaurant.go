package models

import "time"

const (
	DefaultCuisine = "All"
	DefaultImage   = "/images/default-image.jpg"
)

type Restaurant struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	OwnerID     *uint           `gorm:"uniqueIndex" json:"ownerId,omitempty"`
	Owner       *User           `gorm:"foreignKey:OwnerID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"-"`
	Slug        *string         `gorm:"type:varchar(255);uniqueIndex" json:"slug,omitempty"`
	Name        string          `gorm:"type:varchar(255);not null" json:"name"`
	Phone       string          `gorm:"type:varchar(50);not null" json:"phone"`
	Description string          `gorm:"type:text;not null" json:"description"`
	Address     string          `gorm:"type:varchar(255);not null" json:"address"`
	City        string          `gorm:"type:varchar(100);not null" json:"city"`
	State       string          `gorm:"type:varchar(100);not null" json:"state"`
	Cuisine     *string         `gorm:"type:varchar(100)" json:"cuisine"`
	Image       *string         `gorm:"type:varchar(512)" json:"image"`
	Waitlist    []WaitlistEntry `gorm:"foreignKey:RestaurantID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// OwnedBy reports whether userID is the registered owner of the restaurant.
func (r Restaurant) OwnedBy(userID uint) bool {
	return r.OwnerID != nil && *r.OwnerID == userID
}
