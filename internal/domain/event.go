package domain

import "time"

// BaseEvent is the catalog entry every new account is enrolled into at
// creation. It is resolved by name and lazily created if wholly absent.
const (
	BaseEventName        = "mindkraft"
	BaseEventPrice       = 250
	BaseEventDescription = "Mindkraft 25 Registration"
)

type Event struct {
	EventID            string    `json:"eventid"`
	EventName          string    `json:"eventname"`
	Description        string    `json:"description"`
	Type               string    `json:"type"`
	Division           string    `json:"division"`
	Category           *string   `json:"category"`
	StartTime          time.Time `json:"start_time"`
	EndTime            time.Time `json:"end_time"`
	Price              float64   `json:"price"`
	ParticipationLimit int       `json:"participation_strength_setlimit"`
}
