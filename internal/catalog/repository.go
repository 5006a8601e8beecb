package catalog

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
)

// EventRecord is the persisted form of Event. Genres and the organizer are
// flattened into columns; the catalog is read-only so no relational modelling
// is needed beyond the ticket-type rows.
type EventRecord struct {
	ID                 string `gorm:"primaryKey;size:64"`
	Title              string `gorm:"not null;size:255"`
	DateText           string `gorm:"size:255"`
	Venue              string `gorm:"not null;size:255"`
	City               string `gorm:"size:64;index"`
	Genres             string `gorm:"size:255"` // comma-separated
	Price              int    `gorm:"not null;check:price >= 0"`
	AttendeesCount     int    `gorm:"default:0"`
	OrganizerName      string `gorm:"size:255"`
	OrganizerFollowers int    `gorm:"default:0"`
}

func (EventRecord) TableName() string {
	return "events"
}

// VenueRecord is the persisted form of Venue.
type VenueRecord struct {
	ID       string `gorm:"primaryKey;size:64"`
	Name     string `gorm:"not null;size:255"`
	Location string `gorm:"size:255"`
	Price    int    `gorm:"not null;check:price >= 0"`
	City     string `gorm:"size:64;index"`
}

func (VenueRecord) TableName() string {
	return "venues"
}

// TicketTypeRecord is one ticket type inside one date grouping of an event.
// GroupOrder and TicketOrder preserve display order.
type TicketTypeRecord struct {
	ID            string `gorm:"primaryKey;size:64"`
	EventID       string `gorm:"not null;size:64;index"`
	GroupKey      string `gorm:"not null;size:64"`
	GroupLabel    string `gorm:"not null;size:128"`
	GroupOrder    int    `gorm:"not null"`
	TicketOrder   int    `gorm:"not null"`
	Name          string `gorm:"not null;size:255"`
	Description   string `gorm:"size:255"`
	OriginalPrice int    `gorm:"not null;check:original_price >= 0"`
	Price         int    `gorm:"not null;check:price >= 0"`
}

func (TicketTypeRecord) TableName() string {
	return "ticket_types"
}

// dbProvider serves the catalog from postgres with the same Provider surface
// as the static tables.
type dbProvider struct {
	db *gorm.DB
}

// NewDBProvider returns a Provider backed by the catalog tables.
func NewDBProvider(db *gorm.DB) Provider {
	return &dbProvider{db: db}
}

func (p *dbProvider) ListEvents(ctx context.Context) ([]Event, error) {
	var records []EventRecord
	if err := p.db.WithContext(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, err
	}

	events := make([]Event, 0, len(records))
	for i := range records {
		events = append(events, records[i].toEvent())
	}
	return events, nil
}

func (p *dbProvider) ListVenues(ctx context.Context) ([]Venue, error) {
	var records []VenueRecord
	if err := p.db.WithContext(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, err
	}

	venues := make([]Venue, 0, len(records))
	for _, r := range records {
		venues = append(venues, Venue{
			ID:       r.ID,
			Name:     r.Name,
			Location: r.Location,
			Price:    r.Price,
			City:     r.City,
		})
	}
	return venues, nil
}

func (p *dbProvider) GetEvent(ctx context.Context, id string) (*Event, error) {
	var record EventRecord
	err := p.db.WithContext(ctx).Where("id = ?", id).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}

	event := record.toEvent()
	return &event, nil
}

func (p *dbProvider) GetTicketCatalog(ctx context.Context, eventID string) (*TicketCatalog, error) {
	var records []TicketTypeRecord
	err := p.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("group_order, ticket_order").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrCatalogNotFound
	}

	tc := &TicketCatalog{EventID: eventID}
	for _, r := range records {
		ticket := TicketType{
			ID:            r.ID,
			Name:          r.Name,
			Description:   r.Description,
			OriginalPrice: r.OriginalPrice,
			Price:         r.Price,
		}

		if n := len(tc.Groups); n > 0 && tc.Groups[n-1].Key == r.GroupKey {
			tc.Groups[n-1].Tickets = append(tc.Groups[n-1].Tickets, ticket)
			continue
		}
		tc.Groups = append(tc.Groups, DateGroup{
			Key:     r.GroupKey,
			Label:   r.GroupLabel,
			Tickets: []TicketType{ticket},
		})
	}
	return tc, nil
}

func (r *EventRecord) toEvent() Event {
	var genres []string
	if r.Genres != "" {
		for _, g := range strings.Split(r.Genres, ",") {
			if trimmed := strings.TrimSpace(g); trimmed != "" {
				genres = append(genres, trimmed)
			}
		}
	}

	return Event{
		ID:             r.ID,
		Title:          r.Title,
		DateText:       r.DateText,
		Venue:          r.Venue,
		City:           r.City,
		Genres:         genres,
		Price:          r.Price,
		AttendeesCount: r.AttendeesCount,
		Organizer: Organizer{
			Name:      r.OrganizerName,
			Followers: r.OrganizerFollowers,
		},
	}
}

// ToRecord converts a catalog Event for seeding.
func (e Event) ToRecord() EventRecord {
	return EventRecord{
		ID:                 e.ID,
		Title:              e.Title,
		DateText:           e.DateText,
		Venue:              e.Venue,
		City:               e.City,
		Genres:             strings.Join(e.Genres, ","),
		Price:              e.Price,
		AttendeesCount:     e.AttendeesCount,
		OrganizerName:      e.Organizer.Name,
		OrganizerFollowers: e.Organizer.Followers,
	}
}

// ToRecord converts a catalog Venue for seeding.
func (v Venue) ToRecord() VenueRecord {
	return VenueRecord{
		ID:       v.ID,
		Name:     v.Name,
		Location: v.Location,
		Price:    v.Price,
		City:     v.City,
	}
}

// ToRecords flattens a ticket catalog into rows for seeding.
func (tc TicketCatalog) ToRecords() []TicketTypeRecord {
	var records []TicketTypeRecord
	for gi, group := range tc.Groups {
		for ti, ticket := range group.Tickets {
			records = append(records, TicketTypeRecord{
				ID:            ticket.ID,
				EventID:       tc.EventID,
				GroupKey:      group.Key,
				GroupLabel:    group.Label,
				GroupOrder:    gi,
				TicketOrder:   ti,
				Name:          ticket.Name,
				Description:   ticket.Description,
				OriginalPrice: ticket.OriginalPrice,
				Price:         ticket.Price,
			})
		}
	}
	return records
}

// SampleData exposes the static tables for the seeder.
func SampleData() ([]Event, []Venue, []TicketCatalog) {
	events := make([]Event, len(sampleEvents))
	copy(events, sampleEvents)

	venues := make([]Venue, len(sampleVenues))
	copy(venues, sampleVenues)

	catalogs := make([]TicketCatalog, 0, len(sampleCatalogs))
	for _, tc := range sampleCatalogs {
		catalogs = append(catalogs, tc)
	}
	return events, venues, catalogs
}
