package domain

import "time"

type Cart struct {
	CartID    string    `json:"id"`
	UserID    string    `json:"-"`
	MKID      string    `json:"mkid"`
	Events    []Event   `json:"events"`
	AddedAt   time.Time `json:"added_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
