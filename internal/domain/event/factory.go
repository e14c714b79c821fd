package event

import (
	"time"

	"github.com/google/uuid"
)

func NewFromCreateRequest(req CreateEventRequest) Event {
	now := time.Now().UTC()

	return Event{
		ID:           uuid.NewString(),
		Type:         req.Type,
		Year:         req.Year,
		Country:      req.Country,
		Host:         req.Host,
		NOC:          req.NOC,
		Start:        req.Start,
		End:          req.End,
		Participants: req.Participants,
		Highlights:   req.Highlights,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
