package users

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"Cestas/internal/common"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const findQuery = `(?s)^SELECT\s+id,\s*name,\s*email,\s*password,\s*role,\s*active\s+FROM\s+users\s+WHERE\s+name\s*=\s*\$1\s+OR\s+email\s*=\s*\$1\s+ORDER\s+BY\s+id\s+LIMIT\s+1$`

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock
}

func TestFindByLogin_Found(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	rows := sqlmock.NewRows([]string{"id", "name", "email", "password", "role", "active"}).
		AddRow(int64(4), "alice", "alice@example.com", "$2a$10$x", "volunteer", true)
	mock.ExpectQuery(findQuery).WithArgs("alice@example.com").WillReturnRows(rows)

	u, err := repo.FindByLogin(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.EqualValues(t, 4, u.ID)
	assert.Equal(t, "alice", u.Name)
	assert.Equal(t, "volunteer", u.Role)
	assert.True(t, u.Active)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByLogin_NotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectQuery(findQuery).WithArgs("ghost").WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByLogin(context.Background(), "ghost")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestFindByLogin_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectQuery(findQuery).WithArgs("alice").WillReturnError(errors.New("db down"))

	_, err := repo.FindByLogin(context.Background(), "alice")
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrNotFound)
	assert.Contains(t, err.Error(), "db error: db down")
}
