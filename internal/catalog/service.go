package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"sortmyscene/pkg/cache"
)

const (
	cacheKeyEvents = "sortmyscene:catalog:events"
	cacheKeyVenues = "sortmyscene:catalog:venues"
	cacheKeyDetail = "sortmyscene:catalog:event:"
)

type Service interface {
	SetCacheService(cacheService cache.Service, ttl time.Duration)
	List(ctx context.Context, query ListQuery) (*ListingResponse, error)
	GetEvent(ctx context.Context, id string) (*Event, error)
	GetTicketCatalog(ctx context.Context, eventID string) (*TicketCatalog, error)
	Genres() []string
}

type service struct {
	provider     Provider
	cacheService cache.Service
	cacheTTL     time.Duration
}

func NewService(provider Provider) Service {
	return &service{provider: provider}
}

// SetCacheService injects the cache service dependency
func (s *service) SetCacheService(cacheService cache.Service, ttl time.Duration) {
	s.cacheService = cacheService
	s.cacheTTL = ttl
}

// List applies the active tab, the text filters and pagination. Filtering is
// purely derived from the query; a request without predicates returns the
// collection unchanged in its original order.
func (s *service) List(ctx context.Context, query ListQuery) (*ListingResponse, error) {
	tab := query.Tab
	if tab == "" {
		tab = TabEvents
	}

	resp := &ListingResponse{Tab: tab, Page: 1}

	switch tab {
	case TabVenues:
		venues, err := s.listVenues(ctx)
		if err != nil {
			return nil, err
		}
		venues = FilterVenues(venues, query.Search, query.City)
		resp.TotalCount = len(venues)
		resp.Venues, resp.Page, resp.Limit = paginate(venues, query.Page, query.Limit)
	default:
		events, err := s.listEvents(ctx)
		if err != nil {
			return nil, err
		}
		events = FilterEvents(events, query.Search, query.City, query.Genre)
		resp.TotalCount = len(events)
		resp.Events, resp.Page, resp.Limit = paginate(events, query.Page, query.Limit)
	}

	return resp, nil
}

func (s *service) GetEvent(ctx context.Context, id string) (*Event, error) {
	if s.cacheService != nil {
		var cached Event
		err := s.cacheService.GetOrSet(ctx, cacheKeyDetail+id, s.cacheTTL, func() (interface{}, error) {
			return s.provider.GetEvent(ctx, id)
		}, &cached)
		if err == nil {
			return &cached, nil
		}
		if errors.Is(err, ErrEventNotFound) {
			return nil, err
		}
		// Cache trouble falls through to the provider.
	}
	return s.provider.GetEvent(ctx, id)
}

func (s *service) GetTicketCatalog(ctx context.Context, eventID string) (*TicketCatalog, error) {
	return s.provider.GetTicketCatalog(ctx, eventID)
}

func (s *service) Genres() []string {
	return Genres()
}

func (s *service) listEvents(ctx context.Context) ([]Event, error) {
	if s.cacheService != nil {
		var cached []Event
		err := s.cacheService.GetOrSet(ctx, cacheKeyEvents, s.cacheTTL, func() (interface{}, error) {
			return s.provider.ListEvents(ctx)
		}, &cached)
		if err == nil {
			return cached, nil
		}
	}
	return s.provider.ListEvents(ctx)
}

func (s *service) listVenues(ctx context.Context) ([]Venue, error) {
	if s.cacheService != nil {
		var cached []Venue
		err := s.cacheService.GetOrSet(ctx, cacheKeyVenues, s.cacheTTL, func() (interface{}, error) {
			return s.provider.ListVenues(ctx)
		}, &cached)
		if err == nil {
			return cached, nil
		}
	}
	return s.provider.ListVenues(ctx)
}

// matchesQuery is the shared listing predicate: search matches title OR venue,
// city matches the city tag OR venue, both case-insensitive substring checks.
// An item is included iff both hold; empty predicates always match.
func matchesQuery(title, venue, city, search, cityQuery string) bool {
	if search != "" {
		search = strings.ToLower(search)
		if !strings.Contains(strings.ToLower(title), search) &&
			!strings.Contains(strings.ToLower(venue), search) {
			return false
		}
	}

	if cityQuery != "" {
		cityQuery = strings.ToLower(cityQuery)
		if !strings.Contains(strings.ToLower(city), cityQuery) &&
			!strings.Contains(strings.ToLower(venue), cityQuery) {
			return false
		}
	}

	return true
}

// FilterEvents returns the events matching the search/city/genre predicates,
// preserving the original relative order.
func FilterEvents(items []Event, search, city, genre string) []Event {
	filtered := make([]Event, 0, len(items))
	for _, item := range items {
		if !matchesQuery(item.Title, item.Venue, item.City, search, city) {
			continue
		}
		if genre != "" && !hasGenre(item.Genres, genre) {
			continue
		}
		filtered = append(filtered, item)
	}
	return filtered
}

// FilterVenues applies the same predicate to the venues tab. Venues carry no
// genres, so the genre filter does not apply.
func FilterVenues(items []Venue, search, city string) []Venue {
	filtered := make([]Venue, 0, len(items))
	for _, item := range items {
		if matchesQuery(item.Name, item.Location, item.City, search, city) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

func hasGenre(genres []string, genre string) bool {
	for _, g := range genres {
		if strings.EqualFold(g, genre) {
			return true
		}
	}
	return false
}

// paginate slices one page out of items. Without an explicit limit the whole
// set is page 1.
func paginate[T any](items []T, page, limit int) ([]T, int, int) {
	if limit <= 0 {
		return items, 1, len(items)
	}
	if page <= 0 {
		page = 1
	}

	start := (page - 1) * limit
	if start >= len(items) {
		return []T{}, page, limit
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], page, limit
}

// FormatPrice renders a whole-rupee amount as a grouped integer with the
// currency glyph prefix ("₹3,798"). No minor-unit handling.
func FormatPrice(amount int) string {
	return "₹" + groupDigits(amount)
}

func groupDigits(amount int) string {
	digits := fmt.Sprintf("%d", amount)
	if len(digits) <= 3 {
		return digits
	}

	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
		if len(digits) > lead {
			b.WriteByte(',')
		}
	}
	for i := lead; i < len(digits); i += 3 {
		b.WriteString(digits[i : i+3])
		if i+3 < len(digits) {
			b.WriteByte(',')
		}
	}
	return b.String()
}
