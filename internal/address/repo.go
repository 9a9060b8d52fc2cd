package address

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound = errors.New("address not found")
)

type Repository interface {
	Create(ctx context.Context, a *Address) error
	ListByUser(ctx context.Context, userID string) ([]Address, error)
	Update(ctx context.Context, a *Address) error
	Delete(ctx context.Context, id string) (bool, error)
	// SetDefault marks one address as the user's default and clears the
	// flag on every other address of that user, in one transaction.
	SetDefault(ctx context.Context, userID, id string) error
	DefaultByUser(ctx context.Context, userID string) (*Address, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

const addressCols = `id, user_id, recipient, phone, street, city, province, postal_code, is_default, created_at, updated_at`

func scanAddress(row pgx.Row, a *Address) error {
	return row.Scan(&a.ID, &a.UserID, &a.Recipient, &a.Phone, &a.Street, &a.City,
		&a.Province, &a.PostalCode, &a.IsDefault, &a.CreatedAt, &a.UpdatedAt)
}

func (r *PGRepo) Create(ctx context.Context, a *Address) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if a.IsDefault {
		if _, err := tx.Exec(ctx, `
			UPDATE shipping_addresses SET is_default = FALSE, updated_at = NOW()
			WHERE user_id=$1 AND is_default
		`, a.UserID); err != nil {
			return err
		}
	}
	if _, err := tx.Exec(ctx, `
		INSERT INTO shipping_addresses (id, user_id, recipient, phone, street, city, province, postal_code, is_default, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,NOW(),NOW())
	`, a.ID, a.UserID, a.Recipient, a.Phone, a.Street, a.City, a.Province, a.PostalCode, a.IsDefault); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *PGRepo) ListByUser(ctx context.Context, userID string) ([]Address, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT `+addressCols+`
		FROM shipping_addresses WHERE user_id=$1
		ORDER BY is_default DESC, created_at ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Address
	for rows.Next() {
		var a Address
		if err := scanAddress(rows, &a); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *PGRepo) Update(ctx context.Context, a *Address) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
		UPDATE shipping_addresses
		SET recipient   = COALESCE(NULLIF($2,''), recipient),
		    phone       = COALESCE(NULLIF($3,''), phone),
		    street      = COALESCE(NULLIF($4,''), street),
		    city        = COALESCE(NULLIF($5,''), city),
		    province    = COALESCE(NULLIF($6,''), province),
		    postal_code = COALESCE(NULLIF($7,''), postal_code),
		    updated_at  = NOW()
		WHERE id = $1
	`, a.ID, a.Recipient, a.Phone, a.Street, a.City, a.Province, a.PostalCode)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) Delete(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cmd, err := r.db.Exec(ctx, `DELETE FROM shipping_addresses WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *PGRepo) SetDefault(ctx context.Context, userID, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `
		UPDATE shipping_addresses SET is_default = FALSE, updated_at = NOW()
		WHERE user_id=$1 AND is_default AND id <> $2
	`, userID, id); err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, `
		UPDATE shipping_addresses SET is_default = TRUE, updated_at = NOW()
		WHERE id=$1 AND user_id=$2
	`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return tx.Commit(ctx)
}

func (r *PGRepo) DefaultByUser(ctx context.Context, userID string) (*Address, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var a Address
	err := scanAddress(r.db.QueryRow(ctx, `
		SELECT `+addressCols+`
		FROM shipping_addresses WHERE user_id=$1 AND is_default
		LIMIT 1
	`, userID), &a)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}
