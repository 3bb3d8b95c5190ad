package profiles

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/progitman/progitman/internal/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock, db
}

func TestCreate_AssignsIDAndTimestamp(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	mock.ExpectExec(`INSERT INTO profiles`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	stored, err := repo.Create(context.Background(), &models.Profile{Name: "Alice", Token: "envelope"})
	require.NoError(t, err)

	assert.True(t, models.IsRemoteID(stored.ID), "created profile must carry a UUID")
	assert.False(t, stored.UpdatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_RefreshesTimestamp(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	mock.ExpectExec(`UPDATE profiles SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	before := time.Now().UTC()
	stored, err := repo.Update(context.Background(), &models.Profile{ID: "11111111-1111-1111-1111-111111111111", Name: "Alice"})
	require.NoError(t, err)
	assert.False(t, stored.UpdatedAt.Before(before))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_NotFound(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	mock.ExpectExec(`UPDATE profiles SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := repo.Update(context.Background(), &models.Profile{ID: "11111111-1111-1111-1111-111111111111"})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestGetAll_ScansRows(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "name", "email", "username", "token", "pin", "expiry", "active", "updated_at"}).
		AddRow("id-a", "Alice", "alice@example.com", "alice", "tok", "pin", "2027-01-01", true, now).
		AddRow("id-b", "Bob", "bob@example.com", "bob", "tok", "pin", "2027-06-01", false, now)

	mock.ExpectQuery(`SELECT id, name, email, username, token, pin, expiry, active, updated_at`).
		WillReturnRows(rows)

	got, err := repo.GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Alice", got[0].Name)
	assert.True(t, got[0].Active)
	assert.Equal(t, now, got[1].UpdatedAt)
}

func TestDelete(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	mock.ExpectExec(`DELETE FROM profiles WHERE id`).
		WithArgs("id-a").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Delete(context.Background(), "id-a"))

	mock.ExpectExec(`DELETE FROM profiles WHERE id`).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))
	require.ErrorIs(t, repo.Delete(context.Background(), "missing"), ErrNotFound)
}
