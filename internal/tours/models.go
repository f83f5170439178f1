package tours

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tour represents a bookable tour package
type Tour struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Title          string    `json:"title" gorm:"not null;size:200"`
	Slug           string    `json:"slug" gorm:"uniqueIndex;not null;size:220"`
	Description    string    `json:"description" gorm:"type:text"`
	Category       string    `json:"category" gorm:"size:100;index"`
	Destination    string    `json:"destination" gorm:"size:200;index"`
	Country        string    `json:"country" gorm:"size:100"`
	DurationDays   int       `json:"duration_days" gorm:"not null;default:1"`
	DurationNights int       `json:"duration_nights" gorm:"not null;default:0"`
	Price          float64   `json:"price" gorm:"not null"`
	DiscountPrice  *float64  `json:"discount_price,omitempty"`
	MaxGroupSize   int       `json:"max_group_size" gorm:"not null;default:20"`
	MainImage      string    `json:"main_image" gorm:"size:500"`
	IsFeatured     bool      `json:"is_featured" gorm:"default:false;index"`
	IsActive       bool      `json:"is_active" gorm:"default:true;index"`
	RatingAverage  float64   `json:"rating_average" gorm:"default:0"`
	RatingCount    int       `json:"rating_count" gorm:"default:0"`

	Availability []TourAvailability `json:"availability,omitempty" gorm:"foreignKey:TourID"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Tour) TableName() string {
	return "tours"
}

// EffectivePrice returns the discount price when set, else the base price.
func (t *Tour) EffectivePrice() float64 {
	if t.DiscountPrice != nil && *t.DiscountPrice > 0 && *t.DiscountPrice < t.Price {
		return *t.DiscountPrice
	}
	return t.Price
}

// TourAvailability tracks per-date remaining capacity for a tour
type TourAvailability struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TourID         uuid.UUID `json:"tour_id" gorm:"type:uuid;not null;uniqueIndex:idx_tour_date"`
	Date           time.Time `json:"date" gorm:"type:date;not null;uniqueIndex:idx_tour_date"`
	SpotsAvailable int       `json:"spots_available" gorm:"not null;default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (TourAvailability) TableName() string {
	return "tour_availabilities"
}
