package catalog

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListEvents_NoFilters_ReturnsAllInOrder(t *testing.T) {
	svc := NewService(NewStaticProvider())

	resp, err := svc.List(context.Background(), ListQuery{})

	require.NoError(t, err)
	assert.Equal(t, TabEvents, resp.Tab)
	require.Len(t, resp.Events, len(sampleEvents))
	assert.Equal(t, resp.TotalCount, len(sampleEvents))
	for i := range sampleEvents {
		assert.Equal(t, sampleEvents[i].ID, resp.Events[i].ID)
	}
}

func TestListEvents_CityFilterMatchesVenueText(t *testing.T) {
	svc := NewService(NewStaticProvider())

	resp, err := svc.List(context.Background(), ListQuery{City: "mumbai"})

	require.NoError(t, err)
	require.Len(t, resp.Events, 2)
	assert.Equal(t, "Phoenix Marketcity, Mumbai", resp.Events[0].Venue)
	assert.Equal(t, "Bombay Cocktail Bar, Mumbai", resp.Events[1].Venue)
}

func TestListEvents_SearchMatchesTitleOrVenue(t *testing.T) {
	svc := NewService(NewStaticProvider())

	byTitle, err := svc.List(context.Background(), ListQuery{Search: "water lemon"})
	require.NoError(t, err)
	require.Len(t, byTitle.Events, 1)
	assert.Equal(t, "water-lemon-festival", byTitle.Events[0].ID)

	byVenue, err := svc.List(context.Background(), ListQuery{Search: "cocktail"})
	require.NoError(t, err)
	require.Len(t, byVenue.Events, 1)
	assert.Equal(t, "5", byVenue.Events[0].ID)
}

func TestListEvents_SearchAndCityAreConjunctive(t *testing.T) {
	svc := NewService(NewStaticProvider())

	resp, err := svc.List(context.Background(), ListQuery{Search: "backstage", City: "kolkata"})

	require.NoError(t, err)
	require.Len(t, resp.Events, 1)
	assert.Equal(t, "2", resp.Events[0].ID)
}

func TestListEvents_GenreFilter(t *testing.T) {
	svc := NewService(NewStaticProvider())

	resp, err := svc.List(context.Background(), ListQuery{Genre: "Hard Techno"})

	require.NoError(t, err)
	require.Len(t, resp.Events, 2)
	assert.Equal(t, "8", resp.Events[0].ID)
	assert.Equal(t, "9", resp.Events[1].ID)
}

func TestListEvents_NoMatches(t *testing.T) {
	svc := NewService(NewStaticProvider())

	resp, err := svc.List(context.Background(), ListQuery{Search: "nope-nothing"})

	require.NoError(t, err)
	assert.Empty(t, resp.Events)
	assert.Equal(t, 0, resp.TotalCount)
}

func TestListVenues_CityFilter(t *testing.T) {
	svc := NewService(NewStaticProvider())

	resp, err := svc.List(context.Background(), ListQuery{Tab: TabVenues, City: "mumbai"})

	require.NoError(t, err)
	assert.Equal(t, TabVenues, resp.Tab)
	require.Len(t, resp.Venues, 2)
	assert.Equal(t, "v1", resp.Venues[0].ID)
	assert.Equal(t, "v4", resp.Venues[1].ID)
}

func TestListEvents_Pagination(t *testing.T) {
	svc := NewService(NewStaticProvider())

	first, err := svc.List(context.Background(), ListQuery{Page: 1, Limit: 4})
	require.NoError(t, err)
	require.Len(t, first.Events, 4)
	assert.Equal(t, len(sampleEvents), first.TotalCount)
	assert.Equal(t, "1", first.Events[0].ID)

	last, err := svc.List(context.Background(), ListQuery{Page: 3, Limit: 4})
	require.NoError(t, err)
	require.Len(t, last.Events, 2)

	beyond, err := svc.List(context.Background(), ListQuery{Page: 9, Limit: 4})
	require.NoError(t, err)
	assert.Empty(t, beyond.Events)
}

func TestGetEvent(t *testing.T) {
	svc := NewService(NewStaticProvider())

	event, err := svc.GetEvent(context.Background(), "5")
	require.NoError(t, err)
	assert.Equal(t, "Rodolphe Manoukian Live At...", event.Title)
	assert.Equal(t, 1425, event.Price)
	assert.Equal(t, "Bombay Cocktail Bar", event.Organizer.Name)

	_, err = svc.GetEvent(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestGetTicketCatalog_Curated(t *testing.T) {
	svc := NewService(NewStaticProvider())

	tc, err := svc.GetTicketCatalog(context.Background(), "water-lemon-festival")

	require.NoError(t, err)
	require.Len(t, tc.Groups, 4)
	assert.Equal(t, "28th-nov", tc.Groups[0].Key)
	assert.Equal(t, "Festival Pass", tc.Groups[3].Label)

	solo, ok := tc.FindTicket("solo-day1")
	require.True(t, ok)
	assert.Equal(t, 1899, solo.Price)
	assert.Equal(t, 1999, solo.OriginalPrice)
}

func TestGetTicketCatalog_SynthesizedForPlainEvents(t *testing.T) {
	svc := NewService(NewStaticProvider())

	tc, err := svc.GetTicketCatalog(context.Background(), "7")

	require.NoError(t, err)
	require.Len(t, tc.Groups, 1)
	require.Len(t, tc.Groups[0].Tickets, 1)

	ticket := tc.Groups[0].Tickets[0]
	assert.Equal(t, "7-solo", ticket.ID)
	assert.Equal(t, 499, ticket.Price)
}

func TestGetTicketCatalog_UnknownEvent(t *testing.T) {
	svc := NewService(NewStaticProvider())

	_, err := svc.GetTicketCatalog(context.Background(), "missing")

	assert.ErrorIs(t, err, ErrCatalogNotFound)
}

func TestFilterEvents_PreservesOrderAndInput(t *testing.T) {
	events := []Event{
		{ID: "a", Title: "Alpha", Venue: "Hall One", City: "PUNE"},
		{ID: "b", Title: "Beta", Venue: "Hall Two", City: "GOA"},
		{ID: "c", Title: "Gamma", Venue: "Hall Three", City: "PUNE"},
	}

	all := FilterEvents(events, "", "", "")
	require.Len(t, all, 3)
	assert.Equal(t, "a", all[0].ID)
	assert.Equal(t, "c", all[2].ID)

	pune := FilterEvents(events, "", "pune", "")
	require.Len(t, pune, 2)
	assert.Equal(t, "a", pune[0].ID)
	assert.Equal(t, "c", pune[1].ID)
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "₹0", FormatPrice(0))
	assert.Equal(t, "₹799", FormatPrice(799))
	assert.Equal(t, "₹3,798", FormatPrice(3798))
	assert.Equal(t, "₹59,990", FormatPrice(59990))
	assert.Equal(t, "₹1,234,567", FormatPrice(1234567))
}

func TestGenres(t *testing.T) {
	genres := Genres()

	assert.Contains(t, genres, "House")
	assert.Contains(t, genres, "Hard Techno")

	// Mutating the returned slice must not touch the shared table.
	genres[0] = "Mutated"
	assert.Equal(t, "House", Genres()[0])
}

// sentinelCacheService wraps the not-found sentinel the way a decoding layer
// would; only GetOrSet matters here.
type sentinelCacheService struct {
	err error
}

func (s *sentinelCacheService) Get(ctx context.Context, key string, dest interface{}) error {
	return s.err
}

func (s *sentinelCacheService) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return nil
}

func (s *sentinelCacheService) Delete(ctx context.Context, key string) error { return nil }

func (s *sentinelCacheService) DeletePattern(ctx context.Context, pattern string) error { return nil }

func (s *sentinelCacheService) Exists(ctx context.Context, key string) bool { return false }

func (s *sentinelCacheService) GetOrSet(ctx context.Context, key string, ttl time.Duration, fetcher func() (interface{}, error), dest interface{}) error {
	return s.err
}

func (s *sentinelCacheService) Ping(ctx context.Context) error { return nil }

type countingProvider struct {
	Provider
	getEventCalls int
}

func (p *countingProvider) GetEvent(ctx context.Context, id string) (*Event, error) {
	p.getEventCalls++
	return p.Provider.GetEvent(ctx, id)
}

func TestGetEvent_WrappedNotFoundFromCache(t *testing.T) {
	provider := &countingProvider{Provider: NewStaticProvider()}
	svc := NewService(provider)
	svc.SetCacheService(&sentinelCacheService{
		err: fmt.Errorf("decode cached event: %w", ErrEventNotFound),
	}, time.Minute)

	_, err := svc.GetEvent(context.Background(), "nope")

	assert.ErrorIs(t, err, ErrEventNotFound)
	// The sentinel must short-circuit; only the fetcher inside GetOrSet may
	// have touched the provider, never the fallthrough path.
	assert.Zero(t, provider.getEventCalls)
}
