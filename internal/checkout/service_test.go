package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
)

// memStore implements Store/TxStore over maps. WithinUserTx is a plain
// call-through; transactional behavior itself belongs to the Postgres
// store.
type memStore struct {
	checkouts map[string]*Checkout
	paid      map[string]bool    // checkout id -> has payment rows
	defaults  map[string]string  // user id -> default address id
	items     map[string]*string // cart item id -> checkout id
}

func newMemStore() *memStore {
	return &memStore{
		checkouts: map[string]*Checkout{},
		paid:      map[string]bool{},
		defaults:  map[string]string{},
		items:     map[string]*string{},
	}
}

func (m *memStore) WithinUserTx(ctx context.Context, userID string, fn func(ctx context.Context, tx TxStore) error) error {
	return fn(ctx, m)
}

func (m *memStore) UnpaidCheckout(ctx context.Context, userID string) (*Checkout, error) {
	for _, c := range m.checkouts {
		if c.UserID == userID && !m.paid[c.ID] {
			return c, nil
		}
	}
	return nil, nil
}

func (m *memStore) HasPaidCheckout(ctx context.Context, userID string) (bool, error) {
	for _, c := range m.checkouts {
		if c.UserID == userID && m.paid[c.ID] {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) DeleteCheckout(ctx context.Context, id string) error {
	delete(m.checkouts, id)
	for item, co := range m.items {
		if co != nil && *co == id {
			m.items[item] = nil
		}
	}
	return nil
}

func (m *memStore) DefaultAddressID(ctx context.Context, userID string) (*string, error) {
	if id, ok := m.defaults[userID]; ok {
		return &id, nil
	}
	return nil, nil
}

func (m *memStore) InsertCheckout(ctx context.Context, c *Checkout) error {
	m.checkouts[c.ID] = c
	return nil
}

func (m *memStore) LinkItems(ctx context.Context, checkoutID string, itemIDs []string) error {
	for _, id := range itemIDs {
		co := checkoutID
		m.items[id] = &co
	}
	return nil
}

func (m *memStore) unpaidCount(userID string) int {
	n := 0
	for _, c := range m.checkouts {
		if c.UserID == userID && !m.paid[c.ID] {
			n++
		}
	}
	return n
}

func TestConsolidate_NoExistingCheckout(t *testing.T) {
	store := newMemStore()
	store.items["c1"] = nil
	svc := NewService(store)

	c, outcome, err := svc.Consolidate(context.Background(), "u1", []string{"c1"})
	if err != nil {
		t.Fatalf("Consolidate: %v", err)
	}
	if outcome != OutcomeCreated {
		t.Fatalf("outcome=%v, want OutcomeCreated", outcome)
	}
	if c.UserID != "u1" {
		t.Fatalf("user=%s, want u1", c.UserID)
	}
	if got := store.items["c1"]; got == nil || *got != c.ID {
		t.Fatalf("item c1 not linked to new checkout %s (got %v)", c.ID, got)
	}
	if n := store.unpaidCount("u1"); n != 1 {
		t.Fatalf("unpaid checkouts=%d, want 1", n)
	}
}

func TestConsolidate_ReplacesUnpaidCheckout(t *testing.T) {
	store := newMemStore()
	old := &Checkout{ID: uuid.NewString(), UserID: "u1"}
	store.checkouts[old.ID] = old
	oldID := old.ID
	store.items["stale"] = &oldID
	store.items["c1"] = nil
	svc := NewService(store)

	c, outcome, err := svc.Consolidate(context.Background(), "u1", []string{"c1"})
	if err != nil {
		t.Fatalf("Consolidate: %v", err)
	}
	if outcome != OutcomeReplacedUnpaid {
		t.Fatalf("outcome=%v, want OutcomeReplacedUnpaid", outcome)
	}
	if _, ok := store.checkouts[old.ID]; ok {
		t.Fatalf("old unpaid checkout %s still exists", old.ID)
	}
	if got := store.items["stale"]; got != nil {
		t.Fatalf("item linked to deleted checkout was not unlinked (got %v)", *got)
	}
	if got := store.items["c1"]; got == nil || *got != c.ID {
		t.Fatalf("item c1 not linked to new checkout")
	}
	if n := store.unpaidCount("u1"); n != 1 {
		t.Fatalf("unpaid checkouts=%d, want 1", n)
	}
}

func TestConsolidate_SequentialCallsLeaveOneUnpaid(t *testing.T) {
	store := newMemStore()
	store.items["c1"] = nil
	store.items["c2"] = nil
	svc := NewService(store)

	if _, _, err := svc.Consolidate(context.Background(), "u1", []string{"c1"}); err != nil {
		t.Fatalf("first Consolidate: %v", err)
	}
	second, outcome, err := svc.Consolidate(context.Background(), "u1", []string{"c2"})
	if err != nil {
		t.Fatalf("second Consolidate: %v", err)
	}
	if outcome != OutcomeReplacedUnpaid {
		t.Fatalf("outcome=%v, want OutcomeReplacedUnpaid", outcome)
	}
	if n := store.unpaidCount("u1"); n != 1 {
		t.Fatalf("unpaid checkouts=%d, want exactly 1", n)
	}
	if got := store.items["c2"]; got == nil || *got != second.ID {
		t.Fatalf("item c2 not linked to surviving checkout")
	}
}

func TestConsolidate_PaidCheckoutIsKept(t *testing.T) {
	store := newMemStore()
	paid := &Checkout{ID: uuid.NewString(), UserID: "u1"}
	store.checkouts[paid.ID] = paid
	store.paid[paid.ID] = true
	store.items["c1"] = nil
	svc := NewService(store)

	c, outcome, err := svc.Consolidate(context.Background(), "u1", []string{"c1"})
	if err != nil {
		t.Fatalf("Consolidate: %v", err)
	}
	if outcome != OutcomeCreatedAfterPaid {
		t.Fatalf("outcome=%v, want OutcomeCreatedAfterPaid", outcome)
	}
	if _, ok := store.checkouts[paid.ID]; !ok {
		t.Fatalf("paid checkout was deleted")
	}
	if c.ID == paid.ID {
		t.Fatalf("expected a fresh checkout, got the paid one")
	}
}

func TestConsolidate_AttachesDefaultAddress(t *testing.T) {
	store := newMemStore()
	store.defaults["u1"] = "addr-1"
	store.items["c1"] = nil
	svc := NewService(store)

	c, _, err := svc.Consolidate(context.Background(), "u1", []string{"c1"})
	if err != nil {
		t.Fatalf("Consolidate: %v", err)
	}
	if c.AddressID == nil || *c.AddressID != "addr-1" {
		t.Fatalf("default address not attached: %v", c.AddressID)
	}

	// and without a default, none is attached
	c2, _, err := svc.Consolidate(context.Background(), "u2", []string{"c1"})
	if err != nil {
		t.Fatalf("Consolidate: %v", err)
	}
	if c2.AddressID != nil {
		t.Fatalf("unexpected address %v for user without default", *c2.AddressID)
	}
}

func TestConsolidate_Validation(t *testing.T) {
	svc := NewService(newMemStore())

	if _, _, err := svc.Consolidate(context.Background(), "", []string{"c1"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("missing user: err=%v, want ErrInvalidInput", err)
	}
	if _, _, err := svc.Consolidate(context.Background(), "u1", nil); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("empty items: err=%v, want ErrInvalidInput", err)
	}
}

type failingStore struct{ memStore }

func (f *failingStore) WithinUserTx(ctx context.Context, userID string, fn func(ctx context.Context, tx TxStore) error) error {
	return errors.New("store down")
}

func TestConsolidate_StoreErrorPropagates(t *testing.T) {
	svc := NewService(&failingStore{})
	if _, _, err := svc.Consolidate(context.Background(), "u1", []string{"c1"}); err == nil {
		t.Fatal("expected error from store")
	}
}
