package catalog

// Organizer is the promoter shown on an event detail page.
type Organizer struct {
	Name      string `json:"name"`
	Followers int    `json:"followers"`
}

// Event is a read-only catalog record. DateText is a display descriptor
// ("Sat Dec 06, 08:00 PM To 01:00 AM"), not a structured timestamp; prices
// are whole rupees.
type Event struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	DateText       string    `json:"date_text"`
	Venue          string    `json:"venue"`
	City           string    `json:"city"`
	Genres         []string  `json:"genres"`
	Price          int       `json:"price"`
	AttendeesCount int       `json:"attendees_count"`
	Organizer      Organizer `json:"organizer"`
}

// Venue is a trending-venue record.
type Venue struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
	Price    int    `json:"price"`
	City     string `json:"city"`
}

// TicketType belongs to exactly one date grouping of one event's catalog.
type TicketType struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	OriginalPrice int    `json:"original_price"`
	Price         int    `json:"price"`
}

// DateGroup is a named subset of an event's ticket types keyed by a specific
// day or pass type ("28th Nov", "Festival Pass").
type DateGroup struct {
	Key     string       `json:"key"`
	Label   string       `json:"label"`
	Tickets []TicketType `json:"tickets"`
}

// TicketCatalog holds an event's date groupings in display order.
type TicketCatalog struct {
	EventID string      `json:"event_id"`
	Groups  []DateGroup `json:"groups"`
}

// Listing tabs
const (
	TabEvents = "events"
	TabVenues = "venues"
)

// ListQuery carries the listing filters. Empty predicates always match.
type ListQuery struct {
	Tab    string `form:"tab" binding:"omitempty,oneof=events venues"`
	Search string `form:"search"`
	City   string `form:"city"`
	Genre  string `form:"genre"`
	Page   int    `form:"page" binding:"omitempty,min=1"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=100"`
}

// ListingResponse is one page of the active tab's collection after filtering.
type ListingResponse struct {
	Tab        string  `json:"tab"`
	Events     []Event `json:"events,omitempty"`
	Venues     []Venue `json:"venues,omitempty"`
	TotalCount int     `json:"total_count"`
	Page       int     `json:"page"`
	Limit      int     `json:"limit"`
}

// FindTicket scans all date groupings for a ticket type id.
func (tc *TicketCatalog) FindTicket(ticketID string) (*TicketType, bool) {
	for gi := range tc.Groups {
		for ti := range tc.Groups[gi].Tickets {
			if tc.Groups[gi].Tickets[ti].ID == ticketID {
				return &tc.Groups[gi].Tickets[ti], true
			}
		}
	}
	return nil, false
}

// FindGroup returns the date grouping with the given key.
func (tc *TicketCatalog) FindGroup(key string) (*DateGroup, bool) {
	for gi := range tc.Groups {
		if tc.Groups[gi].Key == key {
			return &tc.Groups[gi], true
		}
	}
	return nil, false
}
