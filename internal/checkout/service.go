package checkout

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("user id and items are required")
	ErrNotFound     = errors.New("checkout not found")
)

// Outcome reports which consolidation branch was taken. The branches
// only differ in the response message, never in behavior.
type Outcome int

const (
	// OutcomeCreated: the user had no checkout at all.
	OutcomeCreated Outcome = iota
	// OutcomeReplacedUnpaid: an unpaid checkout existed and was deleted
	// before the new one was created.
	OutcomeReplacedUnpaid
	// OutcomeCreatedAfterPaid: the user only had paid checkouts.
	OutcomeCreatedAfterPaid
)

func (o Outcome) Message() string {
	switch o {
	case OutcomeReplacedUnpaid:
		return "checkout created after deleting previous checkout without payment"
	case OutcomeCreatedAfterPaid:
		return "checkout created; existing checkout already has a payment"
	default:
		return "checkout created"
	}
}

// TxStore is the slice of the store the consolidator uses inside one
// transaction.
type TxStore interface {
	// UnpaidCheckout returns the user's checkout with no payment rows,
	// locked for the rest of the transaction, or nil when none exists.
	UnpaidCheckout(ctx context.Context, userID string) (*Checkout, error)
	HasPaidCheckout(ctx context.Context, userID string) (bool, error)
	// DeleteCheckout removes a checkout and unlinks any cart items still
	// pointing at it.
	DeleteCheckout(ctx context.Context, id string) error
	// DefaultAddressID returns nil when the user has no default address.
	DefaultAddressID(ctx context.Context, userID string) (*string, error)
	InsertCheckout(ctx context.Context, c *Checkout) error
	// LinkItems points the selected cart items at the checkout.
	LinkItems(ctx context.Context, checkoutID string, itemIDs []string) error
}

// Store runs consolidation work transactionally, serialized per user.
type Store interface {
	WithinUserTx(ctx context.Context, userID string, fn func(ctx context.Context, tx TxStore) error) error
}

type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// Consolidate decides the checkout a selection of cart items belongs to.
// State machine per user: an unpaid checkout is superseded (deleted and
// recreated), otherwise a fresh checkout is created; either way the
// selected items end up linked to exactly one new checkout and at most
// one unpaid checkout exists afterwards. The whole transition runs in a
// single transaction under a per-user lock.
func (s *Service) Consolidate(ctx context.Context, userID string, itemIDs []string) (*Checkout, Outcome, error) {
	if userID == "" || len(itemIDs) == 0 {
		return nil, 0, ErrInvalidInput
	}

	var (
		created *Checkout
		outcome Outcome
	)
	err := s.store.WithinUserTx(ctx, userID, func(ctx context.Context, tx TxStore) error {
		outcome = OutcomeCreated

		unpaid, err := tx.UnpaidCheckout(ctx, userID)
		if err != nil {
			return err
		}
		if unpaid != nil {
			if err := tx.DeleteCheckout(ctx, unpaid.ID); err != nil {
				return err
			}
			outcome = OutcomeReplacedUnpaid
		} else {
			paid, err := tx.HasPaidCheckout(ctx, userID)
			if err != nil {
				return err
			}
			if paid {
				outcome = OutcomeCreatedAfterPaid
			}
		}

		addrID, err := tx.DefaultAddressID(ctx, userID)
		if err != nil {
			return err
		}

		c := &Checkout{
			ID:        uuid.NewString(),
			UserID:    userID,
			AddressID: addrID,
			CreatedAt: s.now(),
		}
		if err := tx.InsertCheckout(ctx, c); err != nil {
			return err
		}
		if err := tx.LinkItems(ctx, c.ID, itemIDs); err != nil {
			return err
		}
		created = c
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return created, outcome, nil
}
