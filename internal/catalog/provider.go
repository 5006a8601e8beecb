package catalog

import (
	"context"
	"errors"
)

var (
	ErrEventNotFound   = errors.New("event not found")
	ErrCatalogNotFound = errors.New("ticket catalog not found")
)

// Provider is the read-only catalog data source. Views depend on this
// interface only, so a real backend can replace the static tables without
// touching them.
type Provider interface {
	ListEvents(ctx context.Context) ([]Event, error)
	ListVenues(ctx context.Context) ([]Venue, error)
	GetEvent(ctx context.Context, id string) (*Event, error)
	GetTicketCatalog(ctx context.Context, eventID string) (*TicketCatalog, error)
}
