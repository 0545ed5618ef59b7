package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// StringList stores a JSON array in a TEXT column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *StringList) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("cannot scan %T into StringList", src)
	}
}

// Sauna is a rental listing in the directory. OwnerEmail links the listing to
// the owning user account; admins bypass the ownership check.
type Sauna struct {
	ID          string     `db:"id" json:"id"`
	URLName     string     `db:"url_name" json:"urlName"`
	Name        string     `db:"name" json:"name"`
	OwnerEmail  string     `db:"owner_email" json:"-"`
	Location    string     `db:"location" json:"location"`
	Capacity    int        `db:"capacity" json:"capacity"`
	EventLength int        `db:"event_length" json:"eventLength"`
	PriceMin    int        `db:"price_min" json:"pricemin"`
	PriceMax    int        `db:"price_max" json:"pricemax"`
	Equipment   StringList `db:"equipment" json:"equipment"`
	MainImage   string     `db:"main_image" json:"mainImage"`
	Images      StringList `db:"images" json:"images"`
	Winter      bool       `db:"winter" json:"winter"`
	Visible     bool       `db:"visible" json:"visible"`
	Notes       string     `db:"notes" json:"notes,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"-"`
	UpdatedAt   time.Time  `db:"updated_at" json:"-"`
}
