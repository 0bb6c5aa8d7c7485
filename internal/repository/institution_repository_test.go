package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ProyectoMep/Colegiosapp/internal/models"
)

func newInstitutionMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestInstitutionRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newInstitutionMock(t)
	defer cleanup()
	repo := NewInstitutionRepository(db)

	mock.ExpectQuery("INSERT INTO institutions").
		WithArgs("North High", "Suba", "Calle 1 #2-3", "north@example.com", "6015550101", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))

	institution := &models.Institution{
		Name:     "North High",
		Locality: "Suba",
		Address:  "Calle 1 #2-3",
		Email:    "north@example.com",
		Phone:    "6015550101",
	}
	err := repo.Create(context.Background(), institution)
	require.NoError(t, err)
	assert.Equal(t, int64(1), institution.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInstitutionRepositoryFindAllOrder(t *testing.T) {
	db, mock, cleanup := newInstitutionMock(t)
	defer cleanup()
	repo := NewInstitutionRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "name", "locality", "address", "email", "phone", "created_at"}).
		AddRow(int64(1), "North High", "Suba", "Calle 1", "n@example.com", "601", now).
		AddRow(int64(2), "South High", "Usme", "Calle 2", "s@example.com", "602", now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM institutions ORDER BY id")).WillReturnRows(rows)

	institutions, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, institutions, 2)
	assert.Equal(t, int64(1), institutions[0].ID)
	assert.Equal(t, int64(2), institutions[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInstitutionRepositoryFindByIDMissing(t *testing.T) {
	db, mock, cleanup := newInstitutionMock(t)
	defer cleanup()
	repo := NewInstitutionRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM institutions WHERE id = $1")).
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), 99)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInstitutionRepositoryListLocalities(t *testing.T) {
	db, mock, cleanup := newInstitutionMock(t)
	defer cleanup()
	repo := NewInstitutionRepository(db)

	rows := sqlmock.NewRows([]string{"locality"}).AddRow("Chapinero").AddRow("Suba").AddRow("Usme")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT DISTINCT locality FROM institutions ORDER BY locality")).
		WillReturnRows(rows)

	localities, err := repo.ListLocalities(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Chapinero", "Suba", "Usme"}, localities)
	assert.NoError(t, mock.ExpectationsWereMet())
}
