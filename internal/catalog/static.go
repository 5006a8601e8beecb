package catalog

import "context"

// staticProvider serves the hard-coded placeholder tables. It stands in for a
// real catalog backend behind the same Provider interface.
type staticProvider struct {
	events   []Event
	venues   []Venue
	catalogs map[string]TicketCatalog
	genres   []string
}

// NewStaticProvider returns a Provider backed by the built-in sample catalog.
func NewStaticProvider() Provider {
	return &staticProvider{
		events:   sampleEvents,
		venues:   sampleVenues,
		catalogs: sampleCatalogs,
		genres:   sampleGenres,
	}
}

func (p *staticProvider) ListEvents(ctx context.Context) ([]Event, error) {
	out := make([]Event, len(p.events))
	copy(out, p.events)
	return out, nil
}

func (p *staticProvider) ListVenues(ctx context.Context) ([]Venue, error) {
	out := make([]Venue, len(p.venues))
	copy(out, p.venues)
	return out, nil
}

func (p *staticProvider) GetEvent(ctx context.Context, id string) (*Event, error) {
	for i := range p.events {
		if p.events[i].ID == id {
			event := p.events[i]
			return &event, nil
		}
	}
	return nil, ErrEventNotFound
}

func (p *staticProvider) GetTicketCatalog(ctx context.Context, eventID string) (*TicketCatalog, error) {
	if tc, ok := p.catalogs[eventID]; ok {
		out := tc
		return &out, nil
	}

	// Events without a curated catalog sell a single general-admission ticket
	// at the base price.
	event, err := p.GetEvent(ctx, eventID)
	if err != nil {
		return nil, ErrCatalogNotFound
	}
	return &TicketCatalog{
		EventID: event.ID,
		Groups: []DateGroup{
			{
				Key:   "general",
				Label: event.DateText,
				Tickets: []TicketType{
					{
						ID:            event.ID + "-solo",
						Name:          "Solo - " + event.Title,
						Description:   "Only Entry",
						OriginalPrice: event.Price,
						Price:         event.Price,
					},
				},
			},
		},
	}, nil
}

// Genres returns the filter-bar genre list.
func Genres() []string {
	out := make([]string, len(sampleGenres))
	copy(out, sampleGenres)
	return out
}

var sampleGenres = []string{"House", "Techno", "Afro House", "Festival", "Electronic", "Hard Techno"}

var sampleEvents = []Event{
	{
		ID:             "1",
		Title:          "Backstage Siblings Ft Saahil...",
		DateText:       "Sat Dec 06, 08:00 PM To 01:00 AM",
		Venue:          "Phoenix Marketcity, Mumbai",
		City:           "MUMBAI",
		Genres:         []string{"House", "Techno", "Afro House"},
		Price:          799,
		AttendeesCount: 45,
		Organizer:      Organizer{Name: "Backstage Productions", Followers: 234},
	},
	{
		ID:             "2",
		Title:          "Backstage Siblings Ft Saahil...",
		DateText:       "Sun Dec 21",
		Venue:          "The Legacy, Kolkata",
		City:           "KOLKATA",
		Genres:         []string{"House", "Techno", "Afro House"},
		Price:          799,
		AttendeesCount: 38,
		Organizer:      Organizer{Name: "Backstage Productions", Followers: 234},
	},
	{
		ID:             "3",
		Title:          "Holipurim Festival 2026",
		DateText:       "Tue Mar 03 - Thu Mar 05, 12:00 PM Onwards",
		Venue:          "Viraya X Holi Purim Village, Pushkar",
		City:           "PUSHKAR",
		Genres:         []string{"Festival", "Electronic", "House"},
		Price:          4999,
		AttendeesCount: 320,
		Organizer:      Organizer{Name: "Viraya Events", Followers: 1520},
	},
	{
		ID:             "4",
		Title:          "Backstage Siblings Ft Saahil...",
		DateText:       "Sun Nov 30",
		Venue:          "Phoenix Marketcity Pune, Pune",
		City:           "PUNE",
		Genres:         []string{"House", "Techno"},
		Price:          799,
		AttendeesCount: 52,
		Organizer:      Organizer{Name: "Backstage Productions", Followers: 234},
	},
	{
		ID:             "5",
		Title:          "Rodolphe Manoukian Live At...",
		DateText:       "Thu Dec 04",
		Venue:          "Bombay Cocktail Bar, Mumbai",
		City:           "MUMBAI",
		Genres:         []string{"House", "Afro House"},
		Price:          1425,
		AttendeesCount: 61,
		Organizer:      Organizer{Name: "Bombay Cocktail Bar", Followers: 412},
	},
	{
		ID:             "6",
		Title:          "Ocha Music Festival - Volume...",
		DateText:       "Sat Dec 06 - Sun Dec 07",
		Venue:          "The Grounds @ Chakola Mill, Kochi",
		City:           "KOCHI",
		Genres:         []string{"Festival", "Electronic"},
		Price:          959,
		AttendeesCount: 180,
		Organizer:      Organizer{Name: "Ocha Collective", Followers: 640},
	},
	{
		ID:             "7",
		Title:          "Tura Winter Carnival",
		DateText:       "Fri Dec 12",
		Venue:          "Serenity Grove, Tura",
		City:           "TURA",
		Genres:         []string{"Festival"},
		Price:          499,
		AttendeesCount: 95,
		Organizer:      Organizer{Name: "Serenity Grove", Followers: 117},
	},
	{
		ID:             "8",
		Title:          "Raeeth Experience Presente...",
		DateText:       "Thu Dec 25 - Wed Dec 31",
		Venue:          "Raeeth, Goa",
		City:           "GOA",
		Genres:         []string{"Techno", "Hard Techno"},
		Price:          1190,
		AttendeesCount: 210,
		Organizer:      Organizer{Name: "Raeeth", Followers: 890},
	},
	{
		ID:             "9",
		Title:          "Dance Week",
		DateText:       "Thu Nov 27 - Sat Nov 29, 08:00 PM To 01:00 AM",
		Venue:          "Edm Hostel, Dharmshala",
		City:           "DHARMSHALA",
		Genres:         []string{"House", "Techno", "Afro House", "Hard Techno"},
		Price:          2000,
		AttendeesCount: 117,
		Organizer:      Organizer{Name: "Edm Hostel", Followers: 117},
	},
	{
		ID:             "water-lemon-festival",
		Title:          "Water Lemon Festival",
		DateText:       "Fri Nov 28 - Sun Nov 30, 08:00 PM",
		Venue:          "Dynamo, Goa",
		City:           "GOA",
		Genres:         []string{"Festival", "Electronic", "House"},
		Price:          1899,
		AttendeesCount: 264,
		Organizer:      Organizer{Name: "Dynamo Goa", Followers: 733},
	},
}

var sampleVenues = []Venue{
	{ID: "v1", Name: "Phoenix Marketcity", Location: "Mumbai, Maharashtra", Price: 500, City: "MUMBAI"},
	{ID: "v2", Name: "The Legacy", Location: "Alipore, Kolkata", Price: 750, City: "KOLKATA"},
	{ID: "v3", Name: "Serenity Grove", Location: "Tura, Meghalaya", Price: 499, City: "TURA"},
	{ID: "v4", Name: "Bombay Cocktail Bar", Location: "Mumbai, Maharashtra", Price: 1000, City: "MUMBAI"},
}

var sampleCatalogs = map[string]TicketCatalog{
	"water-lemon-festival": {
		EventID: "water-lemon-festival",
		Groups: []DateGroup{
			{
				Key:   "28th-nov",
				Label: "28th Nov",
				Tickets: []TicketType{
					{ID: "solo-day1", Name: "Solo - Day 1 - 28th Nov", Description: "Only Entry", OriginalPrice: 1999, Price: 1899},
					{ID: "couple-day1", Name: "Couple - Day 1 - 28th Nov", Description: "Entry for 2", OriginalPrice: 3499, Price: 3324},
					{ID: "group-day1", Name: "Group of 4 - Day 1 - 28th Nov", Description: "Entry for 4", OriginalPrice: 6499, Price: 5999},
				},
			},
			{
				Key:   "29th-nov",
				Label: "29th Nov",
				Tickets: []TicketType{
					{ID: "solo-day2", Name: "Solo - Day 2 - 29th Nov", Description: "Only Entry", OriginalPrice: 1999, Price: 1899},
					{ID: "couple-day2", Name: "Couple - Day 2 - 29th Nov", Description: "Entry for 2", OriginalPrice: 3499, Price: 3324},
				},
			},
			{
				Key:   "30th-nov",
				Label: "30th Nov",
				Tickets: []TicketType{
					{ID: "solo-day3", Name: "Solo - Day 3 - 30th Nov", Description: "Only Entry", OriginalPrice: 1999, Price: 1899},
					{ID: "couple-day3", Name: "Couple - Day 3 - 30th Nov", Description: "Entry for 2", OriginalPrice: 3499, Price: 3324},
				},
			},
			{
				Key:   "festival-pass",
				Label: "Festival Pass",
				Tickets: []TicketType{
					{ID: "solo-pass", Name: "Solo - Festival Pass", Description: "All 3 days entry", OriginalPrice: 4999, Price: 4499},
					{ID: "couple-pass", Name: "Couple - Festival Pass", Description: "All 3 days entry for 2", OriginalPrice: 8999, Price: 7999},
				},
			},
		},
	},
}
