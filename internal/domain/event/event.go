package event

import (
	"errors"
	"time"
)

// Event is one edition of the games, hosted by a region identified by NOC code.
type Event struct {
	ID           string    `json:"id"`
	Type         string    `json:"type"`
	Year         int       `json:"year"`
	Country      string    `json:"country"`
	Host         string    `json:"host"`
	NOC          string    `json:"NOC"`
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
	Participants int       `json:"participants,omitempty"`
	Highlights   *string   `json:"highlights"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

var ErrNotFound = errors.New("event not found")

// with pointers if optional, it will be nil
type ListEventsFilter struct {
	Type   *string
	Year   *int
	Limit  int
	Offset int
}

type CreateEventRequest struct {
	Type         string    `json:"type" binding:"required,oneof=summer winter"`
	Year         int       `json:"year" binding:"required,min=1948,max=2100"`
	Country      string    `json:"country" binding:"required,min=2,max=120"`
	Host         string    `json:"host" binding:"required,min=2,max=120"`
	NOC          string    `json:"NOC" binding:"required,len=3,uppercase"`
	Start        time.Time `json:"start" binding:"required"`
	End          time.Time `json:"end" binding:"required"`
	Participants int       `json:"participants" binding:"omitempty,min=0"`
	Highlights   *string   `json:"highlights" binding:"omitempty,max=2000"`
}

// Partial update: nil fields stay untouched.
type UpdateEventRequest struct {
	Type         *string    `json:"type" binding:"omitempty,oneof=summer winter"`
	Year         *int       `json:"year" binding:"omitempty,min=1948,max=2100"`
	Country      *string    `json:"country" binding:"omitempty,min=2,max=120"`
	Host         *string    `json:"host" binding:"omitempty,min=2,max=120"`
	NOC          *string    `json:"NOC" binding:"omitempty,len=3,uppercase"`
	Start        *time.Time `json:"start"`
	End          *time.Time `json:"end"`
	Participants *int       `json:"participants" binding:"omitempty,min=0"`
	Highlights   *string    `json:"highlights" binding:"omitempty,max=2000"`
}
