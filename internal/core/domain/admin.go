package domain

import "time"

// Admin is a member of the admin registry.
type Admin struct {
	Address Address
	AddedBy Address
	AddedAt time.Time
}
