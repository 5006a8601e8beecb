package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"sortmyscene/internal/catalog"
	"sortmyscene/pkg/logger"
)

var (
	ErrInvalidQuantity = fmt.Errorf("quantity must be between %d and %d", MinQuantity, MaxQuantity)
	ErrUnknownTicket   = errors.New("ticket type not found in this event's catalog")
	ErrUnknownDateKey  = errors.New("date grouping not found in this event's catalog")
)

// Notifier receives checkout milestones. Implementations must not block the
// request path for long.
type Notifier interface {
	CheckoutReachedPayment(ctx context.Context, checkoutID, eventID string, total int)
}

type Service interface {
	SetNotifier(notifier Notifier)
	Create(ctx context.Context, eventID string) (*StateResponse, error)
	Get(ctx context.Context, checkoutID string) (*StateResponse, error)
	SetQuantity(ctx context.Context, checkoutID string, req SetQuantityRequest) (*StateResponse, error)
	SelectDate(ctx context.Context, checkoutID string, req SelectDateRequest) (*StateResponse, error)
	SubmitAttendee(ctx context.Context, checkoutID string, req AttendeeInfoRequest) (*StateResponse, error)
	Advance(ctx context.Context, checkoutID string) (*StateResponse, bool, error)
	Cancel(ctx context.Context, checkoutID string) error
}

type service struct {
	catalogService catalog.Service
	store          Store
	notifier       Notifier
	logger         *logger.Logger
}

func NewService(catalogService catalog.Service, store Store) Service {
	return &service{
		catalogService: catalogService,
		store:          store,
		logger:         logger.GetDefault(),
	}
}

func (s *service) SetNotifier(notifier Notifier) {
	s.notifier = notifier
}

// Create opens a checkout at step 1 with the event's first date grouping
// selected and no tickets chosen.
func (s *service) Create(ctx context.Context, eventID string) (*StateResponse, error) {
	tc, err := s.catalogService.GetTicketCatalog(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if len(tc.Groups) == 0 {
		return nil, catalog.ErrCatalogNotFound
	}

	now := time.Now().UTC()
	chk := &Checkout{
		ID:              uuid.New().String(),
		EventID:         eventID,
		SelectedDateKey: tc.Groups[0].Key,
		Selections:      make(map[string]int),
		Step:            StepTickets,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.store.Save(ctx, chk); err != nil {
		return nil, err
	}

	s.logger.LogCheckoutStarted(ctx, chk.ID, eventID)
	return newStateResponse(chk, tc), nil
}

func (s *service) Get(ctx context.Context, checkoutID string) (*StateResponse, error) {
	chk, tc, err := s.load(ctx, checkoutID)
	if err != nil {
		return nil, err
	}
	return newStateResponse(chk, tc), nil
}

// SetQuantity upserts one selection, replacing any prior value. There is no
// inventory check; none is modeled. The ticket type may belong to any date
// grouping, displayed or not.
func (s *service) SetQuantity(ctx context.Context, checkoutID string, req SetQuantityRequest) (*StateResponse, error) {
	if req.Quantity == nil || *req.Quantity < MinQuantity || *req.Quantity > MaxQuantity {
		return nil, ErrInvalidQuantity
	}

	chk, tc, err := s.load(ctx, checkoutID)
	if err != nil {
		return nil, err
	}

	if _, ok := tc.FindTicket(req.TicketTypeID); !ok {
		return nil, ErrUnknownTicket
	}

	chk.Selections[req.TicketTypeID] = *req.Quantity
	chk.UpdatedAt = time.Now().UTC()

	if err := s.store.Save(ctx, chk); err != nil {
		return nil, err
	}
	return newStateResponse(chk, tc), nil
}

// SelectDate changes which grouping is displayed. Selections made under other
// groupings are kept and keep counting toward the total.
func (s *service) SelectDate(ctx context.Context, checkoutID string, req SelectDateRequest) (*StateResponse, error) {
	chk, tc, err := s.load(ctx, checkoutID)
	if err != nil {
		return nil, err
	}

	if _, ok := tc.FindGroup(req.DateKey); !ok {
		return nil, ErrUnknownDateKey
	}

	chk.SelectedDateKey = req.DateKey
	chk.UpdatedAt = time.Now().UTC()

	if err := s.store.Save(ctx, chk); err != nil {
		return nil, err
	}
	return newStateResponse(chk, tc), nil
}

func (s *service) SubmitAttendee(ctx context.Context, checkoutID string, req AttendeeInfoRequest) (*StateResponse, error) {
	chk, tc, err := s.load(ctx, checkoutID)
	if err != nil {
		return nil, err
	}

	chk.Attendee = &AttendeeInfo{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
	}
	chk.UpdatedAt = time.Now().UTC()

	if err := s.store.Save(ctx, chk); err != nil {
		return nil, err
	}
	return newStateResponse(chk, tc), nil
}

// Advance moves the checkout one step forward. Leaving step 1 requires a
// positive total; step 2 to 3 is ungated; step 3 is terminal. A gated or
// terminal advance is a no-op and reports advanced=false with the state
// unchanged.
func (s *service) Advance(ctx context.Context, checkoutID string) (*StateResponse, bool, error) {
	chk, tc, err := s.load(ctx, checkoutID)
	if err != nil {
		return nil, false, err
	}

	total := Total(chk.Selections, tc)

	advanced := false
	switch chk.Step {
	case StepTickets:
		if total > 0 {
			chk.Step = StepAttendeeInfo
			advanced = true
		}
	case StepAttendeeInfo:
		chk.Step = StepPayment
		advanced = true
	case StepPayment:
		// terminal
	}

	if advanced {
		chk.UpdatedAt = time.Now().UTC()
		if err := s.store.Save(ctx, chk); err != nil {
			return nil, false, err
		}
		s.logger.LogCheckoutAdvanced(ctx, chk.ID, int(chk.Step), total)

		if chk.Step == StepPayment && s.notifier != nil {
			s.notifier.CheckoutReachedPayment(ctx, chk.ID, chk.EventID, total)
		}
	}

	return newStateResponse(chk, tc), advanced, nil
}

func (s *service) Cancel(ctx context.Context, checkoutID string) error {
	if _, err := s.store.Get(ctx, checkoutID); err != nil {
		return err
	}
	return s.store.Delete(ctx, checkoutID)
}

func (s *service) load(ctx context.Context, checkoutID string) (*Checkout, *catalog.TicketCatalog, error) {
	chk, err := s.store.Get(ctx, checkoutID)
	if err != nil {
		return nil, nil, err
	}

	tc, err := s.catalogService.GetTicketCatalog(ctx, chk.EventID)
	if err != nil {
		return nil, nil, err
	}
	return chk, tc, nil
}
