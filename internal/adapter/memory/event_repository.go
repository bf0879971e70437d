package memory

import (
	"context"
	"sort"

	"crowdfund/internal/core/domain"
)

// EventRepository implements port.EventRepository.
type EventRepository struct {
	s *Store
}

func (r *EventRepository) Append(ctx context.Context, events ...domain.Event) error {
	defer r.s.access(ctx)()
	for _, e := range events {
		e.Seq = int64(len(r.s.st.events)) + 1
		r.s.st.events = append(r.s.st.events, e)
	}
	return nil
}

func (r *EventRepository) List(ctx context.Context, after int64, limit int) ([]domain.Event, error) {
	defer r.s.access(ctx)()
	all := r.s.st.events
	start := sort.Search(len(all), func(i int) bool { return all[i].Seq > after })
	end := len(all)
	if limit > 0 && start+limit < end {
		end = start + limit
	}
	out := make([]domain.Event, end-start)
	copy(out, all[start:end])
	return out, nil
}
