package usecase

import (
	"context"

	"crowdfund/internal/core/domain"
	"crowdfund/internal/core/port"
)

const (
	defaultEventPage = 100
	maxEventPage     = 1000
)

// EventService implements port.EventFeed.
type EventService struct {
	events port.EventRepository
}

func NewEventService(events port.EventRepository) *EventService {
	return &EventService{events: events}
}

// Events returns committed events with Seq greater than after. limit is
// clamped to (0, 1000]; zero selects the default page.
func (s *EventService) Events(ctx context.Context, after int64, limit int) ([]domain.Event, error) {
	switch {
	case limit <= 0:
		limit = defaultEventPage
	case limit > maxEventPage:
		limit = maxEventPage
	}
	if after < 0 {
		after = 0
	}
	return s.events.List(ctx, after, limit)
}
