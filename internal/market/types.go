package market

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrUnknownEntity is the root of every "no such team/security" error.
	ErrUnknownEntity = errors.New("unknown entity")
	// ErrUnknownSecurity is returned for lookups of unregistered securities.
	ErrUnknownSecurity = fmt.Errorf("%w: security", ErrUnknownEntity)

	// PriceFloor is the lowest price any security can have, at registration
	// or after an update.
	PriceFloor = decimal.NewFromInt(10)
)

// SecurityID uniquely identifies a security.
type SecurityID string

// Security is a tradable instrument as registered at startup.
type Security struct {
	ID           SecurityID
	Name         string
	InitialPrice decimal.Decimal
}

// Registry is the static, ordered catalog of securities.
type Registry struct {
	order []Security
	byID  map[SecurityID]Security
}

// NewRegistry builds a registry, rejecting empty or duplicate ids and
// initial prices below PriceFloor.
func NewRegistry(securities []Security) (*Registry, error) {
	r := &Registry{
		order: make([]Security, 0, len(securities)),
		byID:  make(map[SecurityID]Security, len(securities)),
	}
	for _, s := range securities {
		if s.ID == "" {
			return nil, errors.New("security id is required")
		}
		if _, dup := r.byID[s.ID]; dup {
			return nil, fmt.Errorf("duplicate security id %q", s.ID)
		}
		if s.InitialPrice.LessThan(PriceFloor) {
			return nil, fmt.Errorf("security %q: initial price %s is below the floor of %s",
				s.ID, s.InitialPrice.String(), PriceFloor.String())
		}
		r.order = append(r.order, s)
		r.byID[s.ID] = s
	}
	return r, nil
}

// Securities returns the registered securities in registration order.
func (r *Registry) Securities() []Security {
	out := make([]Security, len(r.order))
	copy(out, r.order)
	return out
}

// IDs returns the registered ids in registration order.
func (r *Registry) IDs() []SecurityID {
	ids := make([]SecurityID, len(r.order))
	for i, s := range r.order {
		ids[i] = s.ID
	}
	return ids
}

// Lookup returns the security registered under id.
func (r *Registry) Lookup(id SecurityID) (Security, error) {
	s, ok := r.byID[id]
	if !ok {
		return Security{}, fmt.Errorf("%w %q", ErrUnknownSecurity, id)
	}
	return s, nil
}

// Len returns the number of registered securities.
func (r *Registry) Len() int {
	return len(r.order)
}
