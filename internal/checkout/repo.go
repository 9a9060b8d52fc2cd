package checkout

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/adityarizkyr/gerai-backend/internal/address"
	"github.com/adityarizkyr/gerai-backend/internal/cart"
	"github.com/adityarizkyr/gerai-backend/internal/payment"
)

// Repository is the read side: deep-expanded checkout views.
type Repository interface {
	LatestWithDetails(ctx context.Context, userID string) (*LatestDetail, error)
	HistoryWithPayments(ctx context.Context, userID string) ([]HistoryEntry, error)
	Detail(ctx context.Context, id string) (*Detail, error)
}

// PGStore implements both Store (consolidation transactions) and
// Repository (queries) against PostgreSQL.
type PGStore struct{ db *pgxpool.Pool }

func NewPGStore(db *pgxpool.Pool) *PGStore { return &PGStore{db: db} }

const checkoutCols = `id, user_id, address_id, purchased_item, created_at`

func scanCheckout(row pgx.Row, c *Checkout) error {
	return row.Scan(&c.ID, &c.UserID, &c.AddressID, &c.PurchasedItem, &c.CreatedAt)
}

// WithinUserTx opens one transaction and takes a per-user advisory lock
// before running fn, so two consolidations for the same user cannot
// interleave. The lock is released with the transaction.
func (s *PGStore) WithinUserTx(ctx context.Context, userID string, fn func(ctx context.Context, tx TxStore) error) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, userID); err != nil {
		return err
	}
	if err := fn(ctx, &pgTx{tx: tx}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

type pgTx struct{ tx pgx.Tx }

func (t *pgTx) UnpaidCheckout(ctx context.Context, userID string) (*Checkout, error) {
	var c Checkout
	err := scanCheckout(t.tx.QueryRow(ctx, `
		SELECT `+checkoutCols+`
		FROM checkouts c
		WHERE user_id=$1
		  AND NOT EXISTS (SELECT 1 FROM payments p WHERE p.checkout_id = c.id)
		LIMIT 1
		FOR UPDATE
	`, userID), &c)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (t *pgTx) HasPaidCheckout(ctx context.Context, userID string) (bool, error) {
	var exists bool
	err := t.tx.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM checkouts c
			JOIN payments p ON p.checkout_id = c.id
			WHERE c.user_id=$1
		)
	`, userID).Scan(&exists)
	return exists, err
}

func (t *pgTx) DeleteCheckout(ctx context.Context, id string) error {
	if _, err := t.tx.Exec(ctx, `
		UPDATE cart_items SET checkout_id = NULL, updated_at = NOW()
		WHERE checkout_id=$1
	`, id); err != nil {
		return err
	}
	_, err := t.tx.Exec(ctx, `DELETE FROM checkouts WHERE id=$1`, id)
	return err
}

func (t *pgTx) DefaultAddressID(ctx context.Context, userID string) (*string, error) {
	var id string
	err := t.tx.QueryRow(ctx, `
		SELECT id FROM shipping_addresses
		WHERE user_id=$1 AND is_default
		LIMIT 1
	`, userID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &id, nil
}

func (t *pgTx) InsertCheckout(ctx context.Context, c *Checkout) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO checkouts (id, user_id, address_id, created_at)
		VALUES ($1,$2,$3,$4)
	`, c.ID, c.UserID, c.AddressID, c.CreatedAt)
	return err
}

func (t *pgTx) LinkItems(ctx context.Context, checkoutID string, itemIDs []string) error {
	_, err := t.tx.Exec(ctx, `
		UPDATE cart_items SET checkout_id = $1, updated_at = NOW()
		WHERE id = ANY($2)
	`, checkoutID, itemIDs)
	return err
}

func (s *PGStore) LatestWithDetails(ctx context.Context, userID string) (*LatestDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var out LatestDetail
	err := scanCheckout(s.db.QueryRow(ctx, `
		SELECT `+checkoutCols+`
		FROM checkouts WHERE user_id=$1
		ORDER BY created_at DESC
		LIMIT 1
	`, userID), &out.Checkout)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	rows, err := s.db.Query(ctx, `
		SELECT ci.id, ci.quantity,
		       p.id, p.user_id, p.name, p.description, p.price::text, p.stock, p.weight_grams,
		       p.category, p.image_url, p.discount_pct, p.created_at, p.updated_at,
		       u.id, u.username, u.city,
		       a.id, a.user_id, a.recipient, a.phone, a.street, a.city, a.province,
		       a.postal_code, a.is_default, a.created_at, a.updated_at
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		JOIN users u ON u.id = p.user_id
		LEFT JOIN shipping_addresses a ON a.user_id = u.id AND a.is_default
		WHERE ci.checkout_id = $1
		ORDER BY ci.created_at ASC
	`, out.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	total := decimal.Zero
	for rows.Next() {
		var it DetailItem
		var (
			aID, aUserID, aRecipient, aPhone, aStreet, aCity, aProvince, aPostal *string
			aDefault                                                            *bool
			aCreated, aUpdated                                                  *time.Time
		)
		if err := rows.Scan(
			&it.ID, &it.Quantity,
			&it.Product.ID, &it.Product.UserID, &it.Product.Name, &it.Product.Description,
			&it.Product.Price, &it.Product.Stock, &it.Product.WeightGrams, &it.Product.Category,
			&it.Product.ImageURL, &it.Product.DiscountPct, &it.Product.CreatedAt, &it.Product.UpdatedAt,
			&it.Seller.ID, &it.Seller.Username, &it.Seller.City,
			&aID, &aUserID, &aRecipient, &aPhone, &aStreet, &aCity, &aProvince, &aPostal,
			&aDefault, &aCreated, &aUpdated,
		); err != nil {
			return nil, err
		}
		if aID != nil {
			it.Seller.DefaultAddress = &address.Address{
				ID: *aID, UserID: *aUserID, Recipient: *aRecipient, Phone: *aPhone,
				Street: *aStreet, City: *aCity, Province: *aProvince, PostalCode: *aPostal,
				IsDefault: *aDefault, CreatedAt: *aCreated, UpdatedAt: *aUpdated,
			}
		}
		it.Subtotal = cart.Subtotal(it.Product.Price, it.Product.DiscountPct, it.Quantity)
		if d, err := decimal.NewFromString(it.Subtotal); err == nil {
			total = total.Add(d)
		}
		out.Items = append(out.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	out.ItemsTotal = total.StringFixed(2)
	return &out, nil
}

func (s *PGStore) HistoryWithPayments(ctx context.Context, userID string) ([]HistoryEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := s.db.Query(ctx, `
		SELECT `+checkoutCols+`
		FROM checkouts
		WHERE user_id=$1 AND purchased_item IS NOT NULL
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []HistoryEntry
	var ids []string
	for rows.Next() {
		var e HistoryEntry
		if err := scanCheckout(rows, &e.Checkout); err != nil {
			return nil, err
		}
		entries = append(entries, e)
		ids = append(ids, e.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return entries, nil
	}

	byCheckout, err := s.paymentsByCheckout(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		entries[i].Payments = byCheckout[entries[i].ID]
	}
	return entries, nil
}

func (s *PGStore) Detail(ctx context.Context, id string) (*Detail, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var out Detail
	var (
		aID, aUserID, aRecipient, aPhone, aStreet, aCity, aProvince, aPostal *string
		aDefault                                                            *bool
		aCreated, aUpdated                                                  *time.Time
	)
	err := s.db.QueryRow(ctx, `
		SELECT c.id, c.user_id, c.address_id, c.purchased_item, c.created_at,
		       a.id, a.user_id, a.recipient, a.phone, a.street, a.city, a.province,
		       a.postal_code, a.is_default, a.created_at, a.updated_at
		FROM checkouts c
		LEFT JOIN shipping_addresses a ON a.id = c.address_id
		WHERE c.id=$1
	`, id).Scan(
		&out.ID, &out.UserID, &out.AddressID, &out.PurchasedItem, &out.CreatedAt,
		&aID, &aUserID, &aRecipient, &aPhone, &aStreet, &aCity, &aProvince, &aPostal,
		&aDefault, &aCreated, &aUpdated,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if aID != nil {
		out.Address = &address.Address{
			ID: *aID, UserID: *aUserID, Recipient: *aRecipient, Phone: *aPhone,
			Street: *aStreet, City: *aCity, Province: *aProvince, PostalCode: *aPostal,
			IsDefault: *aDefault, CreatedAt: *aCreated, UpdatedAt: *aUpdated,
		}
	}

	byCheckout, err := s.paymentsByCheckout(ctx, []string{out.ID})
	if err != nil {
		return nil, err
	}
	out.Payments = byCheckout[out.ID]
	return &out, nil
}

func (s *PGStore) paymentsByCheckout(ctx context.Context, checkoutIDs []string) (map[string][]payment.Payment, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, transaction_id, checkout_id, payment_status,
		       COALESCE(payment_type,''), COALESCE(gateway_status,''), COALESCE(gross_amount::text,''),
		       created_at, updated_at
		FROM payments
		WHERE checkout_id = ANY($1)
		ORDER BY created_at ASC
	`, checkoutIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]payment.Payment)
	for rows.Next() {
		var p payment.Payment
		if err := rows.Scan(&p.ID, &p.TransactionID, &p.CheckoutID, &p.Status, &p.PaymentType,
			&p.GatewayStatus, &p.GrossAmount, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out[p.CheckoutID] = append(out[p.CheckoutID], p)
	}
	return out, rows.Err()
}
