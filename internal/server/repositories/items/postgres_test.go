package items

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/framekeeper/internal/catalog"
	"github.com/dmitrijs2005/framekeeper/internal/server/models"
)

const (
	saveQuery = `(?s)^\s*INSERT\s+INTO\s+items\s*\(id,\s*title,\s*image_url,\s*category,\s*color,\s*created_by,\s*created_at\).*ON\s+CONFLICT\s*\(id\).*$`
	listQuery = `(?s)^SELECT\s+id,\s*title,\s*image_url,\s*category,\s*color,\s*created_by,\s*created_at\s+FROM\s+items\s+ORDER\s+BY\s+created_at,\s*id\s*$`
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func ptr[T any](v T) *T { return &v }

func TestSave_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	created := time.UnixMilli(1700000000000).UTC()
	item := &models.Item{
		ID:        "1700000000000",
		Title:     "Desk Lamp",
		ImageURL:  "http://127.0.0.1:9000/frames/Images/1700000000000-lamp.png",
		Category:  ptr(catalog.Category("table")),
		Color:     ptr(catalog.Color("black")),
		CreatedBy: "u-1",
		CreatedAt: created,
	}

	mock.ExpectExec(saveQuery).
		WithArgs(item.ID, "Desk Lamp", item.ImageURL,
			"table", "black",
			"u-1", created).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Save(context.Background(), item))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSave_UnselectedCategoryAndColorStoredAsNull(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	item := &models.Item{ID: "1", Title: "t", ImageURL: "a"}

	mock.ExpectExec(saveQuery).
		WithArgs("1", "t", "a", nil, nil, "", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Save(context.Background(), item))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSave_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(saveQuery).WillReturnError(errors.New("db down"))

	err := repo.Save(context.Background(), &models.Item{ID: "1", Title: "t", ImageURL: "a"})
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestListAll_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	t1 := time.UnixMilli(1700000000000).UTC()
	t2 := t1.Add(time.Minute)
	rows := sqlmock.NewRows([]string{"id", "title", "image_url", "category", "color", "created_by", "created_at"}).
		AddRow("1700000000000", "Desk Lamp", "addr-1", "table", "black", "u-1", t1).
		AddRow("1700000060000", "Poster", "addr-2", nil, nil, "u-2", t2)
	mock.ExpectQuery(listQuery).WillReturnRows(rows)

	got, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "Desk Lamp", got[0].Title)
	require.NotNil(t, got[0].Category)
	assert.Equal(t, catalog.Category("table"), *got[0].Category)
	require.NotNil(t, got[0].Color)
	assert.Equal(t, catalog.Color("black"), *got[0].Color)
	assert.Equal(t, t1, got[0].CreatedAt)

	assert.Nil(t, got[1].Category)
	assert.Nil(t, got[1].Color)
	assert.Equal(t, "u-2", got[1].CreatedBy)
}

func TestListAll_EmptyIsNotNil(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(listQuery).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "image_url", "category", "color", "created_by", "created_at"}))

	got, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestListAll_QueryError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(listQuery).WillReturnError(errors.New("db err"))

	_, err := repo.ListAll(context.Background())
	assert.ErrorContains(t, err, "failed to select items")
}

func TestListAll_ScanError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "title", "image_url", "category", "color", "created_by", "created_at"}).
		AddRow("1", "t", "a", nil, nil, "u", "not-a-time")
	mock.ExpectQuery(listQuery).WillReturnRows(rows)

	_, err := repo.ListAll(context.Background())
	assert.ErrorContains(t, err, "scan item")
}

func TestListAll_RowError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "title", "image_url", "category", "color", "created_by", "created_at"}).
		AddRow("1", "t", "a", nil, nil, "u", time.Now()).
		RowError(0, errors.New("row broke"))
	mock.ExpectQuery(listQuery).WillReturnRows(rows)

	_, err := repo.ListAll(context.Background())
	assert.ErrorContains(t, err, "row broke")
}
