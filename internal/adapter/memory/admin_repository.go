package memory

import (
	"bytes"
	"context"
	"slices"

	"crowdfund/internal/core/domain"
)

// AdminRepository implements port.AdminRepository.
type AdminRepository struct {
	s *Store
}

// Lock is implicit: a unit of work already holds the store mutex.
func (r *AdminRepository) Lock(ctx context.Context) error { return nil }

func (r *AdminRepository) IsAdmin(ctx context.Context, addr domain.Address) (bool, error) {
	defer r.s.access(ctx)()
	_, ok := r.s.st.admins[addr]
	return ok, nil
}

func (r *AdminRepository) List(ctx context.Context) ([]domain.Admin, error) {
	defer r.s.access(ctx)()
	out := make([]domain.Admin, 0, len(r.s.st.admins))
	for _, a := range r.s.st.admins {
		out = append(out, a)
	}
	slices.SortFunc(out, func(a, b domain.Admin) int {
		if c := a.AddedAt.Compare(b.AddedAt); c != 0 {
			return c
		}
		return bytes.Compare(a.Address[:], b.Address[:])
	})
	return out, nil
}

func (r *AdminRepository) Count(ctx context.Context) (int, error) {
	defer r.s.access(ctx)()
	return len(r.s.st.admins), nil
}

func (r *AdminRepository) Add(ctx context.Context, admin domain.Admin) error {
	defer r.s.access(ctx)()
	if _, ok := r.s.st.admins[admin.Address]; ok {
		return domain.ErrAlreadyAdmin
	}
	r.s.st.admins[admin.Address] = admin
	return nil
}

func (r *AdminRepository) Remove(ctx context.Context, addr domain.Address) error {
	defer r.s.access(ctx)()
	if _, ok := r.s.st.admins[addr]; !ok {
		return domain.ErrNotAdmin
	}
	delete(r.s.st.admins, addr)
	return nil
}

func (r *AdminRepository) Paused(ctx context.Context) (bool, error) {
	defer r.s.access(ctx)()
	return r.s.st.paused, nil
}

func (r *AdminRepository) SetPaused(ctx context.Context, paused bool) error {
	defer r.s.access(ctx)()
	r.s.st.paused = paused
	return nil
}
