package profiles

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/progitman/progitman/internal/dbx"
	"github.com/progitman/progitman/internal/models"
)

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, p *models.Profile) (*models.Profile, error) {
	stored := p.Clone()
	stored.ID = uuid.NewString()
	stored.UpdatedAt = time.Now().UTC()

	query := `INSERT INTO profiles (id, name, email, username, token, pin, expiry, active, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.ExecContext(ctx, query,
		stored.ID, stored.Name, stored.Email, stored.Username, stored.Token, stored.PIN, stored.Expiry, stored.Active, stored.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert profile: %w", err)
	}

	return stored, nil
}

func (r *PostgresRepository) Update(ctx context.Context, p *models.Profile) (*models.Profile, error) {
	stored := p.Clone()
	stored.UpdatedAt = time.Now().UTC()

	query := `UPDATE profiles SET
			name = $2, email = $3, username = $4, token = $5, pin = $6, expiry = $7, active = $8, updated_at = $9
		WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query,
		stored.ID, stored.Name, stored.Email, stored.Username, stored.Token, stored.PIN, stored.Expiry, stored.Active, stored.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return nil, ErrNotFound
	}

	return stored, nil
}

func (r *PostgresRepository) GetAll(ctx context.Context) ([]*models.Profile, error) {
	query := `SELECT id, name, email, username, token, pin, expiry, active, updated_at
		FROM profiles ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("select profiles: %w", err)
	}
	defer rows.Close()

	var result []*models.Profile
	for rows.Next() {
		p := &models.Profile{}
		if err := rows.Scan(&p.ID, &p.Name, &p.Email, &p.Username, &p.Token, &p.PIN, &p.Expiry, &p.Active, &p.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM profiles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}

	return nil
}
