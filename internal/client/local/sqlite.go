// Package local implements the on-device store adapter over SQLite.
//
// The device is the trust boundary for secret fields, so nothing here is
// encrypted: token and pin columns hold cleartext.
package local

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/progitman/progitman/internal/dbx"
	"github.com/progitman/progitman/internal/models"
	"github.com/progitman/progitman/internal/storage"
)

var ErrMissingID = errors.New("profile has no id")

// Repository implements storage.Store using a DBTX (either *sql.DB or *sql.Tx).
type Repository struct {
	db dbx.DBTX
}

// NewRepository returns a Repository bound to the given DBTX.
func NewRepository(db dbx.DBTX) *Repository {
	return &Repository{db: db}
}

// Put upserts a profile by id. The stored copy is returned unchanged: the
// local store assigns neither ids nor timestamps.
func (r *Repository) Put(ctx context.Context, p *models.Profile) (*models.Profile, error) {
	if p.ID == "" {
		return nil, storage.NewError(storage.KindUnknown, "local.put", ErrMissingID)
	}

	query := `INSERT INTO profiles (id, name, email, username, token, pin, expiry, active, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			email = excluded.email,
			username = excluded.username,
			token = excluded.token,
			pin = excluded.pin,
			expiry = excluded.expiry,
			active = excluded.active,
			updated_at = excluded.updated_at
	`

	var updatedAt any
	if !p.UpdatedAt.IsZero() {
		updatedAt = p.UpdatedAt.UTC()
	}

	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.Name, p.Email, p.Username, p.Token, p.PIN, p.Expiry, p.Active, updatedAt)
	if err != nil {
		return nil, storage.NewError(storage.KindUnknown, "local.put", fmt.Errorf("upsert profile: %w", err))
	}

	return p.Clone(), nil
}

// ListAll returns every stored profile ordered by name.
func (r *Repository) ListAll(ctx context.Context) ([]*models.Profile, error) {
	query := `SELECT id, name, email, username, token, pin, expiry, active, updated_at
		FROM profiles ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, storage.NewError(storage.KindUnknown, "local.list", fmt.Errorf("select profiles: %w", err))
	}
	defer rows.Close()

	var result []*models.Profile
	for rows.Next() {
		p := &models.Profile{}
		var updatedAt sql.NullTime
		if err := rows.Scan(&p.ID, &p.Name, &p.Email, &p.Username, &p.Token, &p.PIN, &p.Expiry, &p.Active, &updatedAt); err != nil {
			return nil, storage.NewError(storage.KindUnknown, "local.list", err)
		}
		if updatedAt.Valid {
			p.UpdatedAt = updatedAt.Time
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, storage.NewError(storage.KindUnknown, "local.list", err)
	}

	return result, nil
}

// Delete removes a profile by id. Deleting a row that is already gone is not
// an error: dual deletes must tolerate the other side having won the race.
func (r *Repository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM profiles WHERE id = ?`, id)
	if err != nil {
		return storage.NewError(storage.KindUnknown, "local.delete", fmt.Errorf("delete profile: %w", err))
	}
	return nil
}
