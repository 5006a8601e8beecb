package checkout

import (
	"time"

	"sortmyscene/internal/catalog"
)

// Step is one of the three ordered checkout stages. Steps only move forward;
// step 3 is terminal.
type Step int

const (
	StepTickets      Step = 1
	StepAttendeeInfo Step = 2
	StepPayment      Step = 3
)

func (s Step) String() string {
	switch s {
	case StepTickets:
		return "Tickets"
	case StepAttendeeInfo:
		return "Attendee Info"
	case StepPayment:
		return "Payment"
	default:
		return "Unknown"
	}
}

// Quantity bounds enforced on every selection.
const (
	MinQuantity = 0
	MaxQuantity = 10
)

// AttendeeInfo is the step-2 form payload.
type AttendeeInfo struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

// Checkout is one in-flight ticket purchase. Selections maps ticket-type id
// to quantity; an absent entry means 0. The whole record lives in the session
// store under a TTL and is never persisted beyond it.
type Checkout struct {
	ID              string         `json:"id"`
	EventID         string         `json:"event_id"`
	SelectedDateKey string         `json:"selected_date_key"`
	Selections      map[string]int `json:"selections"`
	Attendee        *AttendeeInfo  `json:"attendee,omitempty"`
	Step            Step           `json:"step"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// clone returns a deep copy so callers never share the Selections map or
// Attendee pointer with a stored entry.
func (c *Checkout) clone() *Checkout {
	cp := *c
	if c.Selections != nil {
		cp.Selections = make(map[string]int, len(c.Selections))
		for id, qty := range c.Selections {
			cp.Selections[id] = qty
		}
	}
	if c.Attendee != nil {
		attendee := *c.Attendee
		cp.Attendee = &attendee
	}
	return &cp
}

// SetQuantityRequest upserts one selection. Quantity is a pointer so an
// explicit 0 binds.
type SetQuantityRequest struct {
	TicketTypeID string `json:"ticket_type_id" binding:"required"`
	Quantity     *int   `json:"quantity" binding:"required,min=0,max=10"`
}

// SelectDateRequest switches the displayed date grouping.
type SelectDateRequest struct {
	DateKey string `json:"date_key" binding:"required"`
}

// AttendeeInfoRequest is the step-2 form.
type AttendeeInfoRequest struct {
	FullName string `json:"full_name" binding:"required,min=2,max=255"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone" binding:"required,min=6,max=20"`
}

// GroupSubtotal surfaces per-grouping totals so selections made under a
// grouping that is not currently displayed stay visible.
type GroupSubtotal struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	Subtotal int    `json:"subtotal"`
}

// StateResponse is the full checkout snapshot returned by every operation.
type StateResponse struct {
	CheckoutID      string          `json:"checkout_id"`
	EventID         string          `json:"event_id"`
	Step            int             `json:"step"`
	StepLabel       string          `json:"step_label"`
	SelectedDateKey string          `json:"selected_date_key"`
	Selections      map[string]int  `json:"selections"`
	Attendee        *AttendeeInfo   `json:"attendee,omitempty"`
	GroupSubtotals  []GroupSubtotal `json:"group_subtotals"`
	Total           int             `json:"total"`
	DisplayTotal    string          `json:"display_total"`
	Message         string          `json:"message,omitempty"`
}

// paymentPlaceholder is what step 3 shows; no payment submission exists.
const paymentPlaceholder = "Payment integration coming soon"

func newStateResponse(chk *Checkout, tc *catalog.TicketCatalog) *StateResponse {
	resp := &StateResponse{
		CheckoutID:      chk.ID,
		EventID:         chk.EventID,
		Step:            int(chk.Step),
		StepLabel:       chk.Step.String(),
		SelectedDateKey: chk.SelectedDateKey,
		Selections:      chk.Selections,
		Attendee:        chk.Attendee,
		GroupSubtotals:  groupSubtotals(chk, tc),
		Total:           Total(chk.Selections, tc),
	}
	resp.DisplayTotal = catalog.FormatPrice(resp.Total)
	if chk.Step == StepPayment {
		resp.Message = paymentPlaceholder
	}
	return resp
}

// Total accumulates price × quantity for every selection with quantity > 0,
// locating each ticket type by scanning all date groupings. Selections under
// groupings other than the displayed one count too.
func Total(selections map[string]int, tc *catalog.TicketCatalog) int {
	total := 0
	for ticketID, quantity := range selections {
		if quantity <= 0 {
			continue
		}
		if ticket, ok := tc.FindTicket(ticketID); ok {
			total += ticket.Price * quantity
		}
	}
	return total
}

func groupSubtotals(chk *Checkout, tc *catalog.TicketCatalog) []GroupSubtotal {
	subtotals := make([]GroupSubtotal, 0, len(tc.Groups))
	for _, group := range tc.Groups {
		subtotal := 0
		for _, ticket := range group.Tickets {
			if qty := chk.Selections[ticket.ID]; qty > 0 {
				subtotal += ticket.Price * qty
			}
		}
		subtotals = append(subtotals, GroupSubtotal{
			Key:      group.Key,
			Label:    group.Label,
			Subtotal: subtotal,
		})
	}
	return subtotals
}
