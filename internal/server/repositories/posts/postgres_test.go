package posts

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gophblog/internal/common"
	"github.com/dmitrijs2005/gophblog/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

var (
	listQuery   = `(?s)^SELECT\s+id,\s*title,\s*content,\s*author,\s*created_at\s+FROM\s+posts\s+ORDER\s+BY\s+id\s*$`
	getQuery    = `(?s)^SELECT\s+id,\s*title,\s*content,\s*author,\s*created_at\s+FROM\s+posts\s+WHERE\s+id\s*=\s*\$1\s*$`
	insertQuery = `(?s)^INSERT\s+INTO\s+posts\s*\(title,\s*content,\s*author\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3\)\s*RETURNING\s+id,\s*created_at\s*$`
	updateQuery = `(?s)^UPDATE\s+posts\s+SET\s+title\s*=\s*COALESCE\(\$2,\s*title\),\s*content\s*=\s*COALESCE\(\$3,\s*content\)\s+WHERE\s+id\s*=\s*\$1\s+RETURNING\s+id,\s*title,\s*content,\s*author,\s*created_at\s*$`
	deleteQuery = `(?s)^DELETE\s+FROM\s+posts\s+WHERE\s+id\s*=\s*\$1\s*$`
)

var postColumns = []string{"id", "title", "content", "author", "created_at"}

func TestPostgresList_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(postColumns).
		AddRow(int64(1), "Hello", "World", "Anonymous", ts).
		AddRow(int64(3), "Second", "Body", "alice", ts)
	mock.ExpectQuery(listQuery).WillReturnRows(rows)

	got, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 3 || got[1].Author != "alice" {
		t.Fatalf("unexpected posts: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresList_EmptyIsNotNil(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(listQuery).WillReturnRows(sqlmock.NewRows(postColumns))

	got, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("want empty non-nil slice, got %#v", got)
	}
}

func TestPostgresList_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(listQuery).WillReturnError(errors.New("db down"))

	_, err := repo.List(context.Background())
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestPostgresGet_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(getQuery).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(postColumns).AddRow(int64(7), "t", "c", "bob", ts))

	got, err := repo.Get(context.Background(), 7)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got.ID != 7 || got.Author != "bob" || !got.CreatedAt.Equal(ts) {
		t.Fatalf("unexpected post: %+v", got)
	}
}

func TestPostgresGet_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(getQuery).WithArgs(int64(99)).WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), 99)
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestPostgresCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	ts := time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(insertQuery).
		WithArgs("Hello", "World", "Anonymous").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(1), ts))

	in := &models.Post{Title: "Hello", Content: "World", Author: "Anonymous"}
	got, err := repo.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != 1 || got.Title != "Hello" || !got.CreatedAt.Equal(ts) {
		t.Fatalf("unexpected post: %+v", got)
	}
	if in.ID != 0 {
		t.Fatalf("input post must not be modified: %+v", in)
	}
}

func TestPostgresCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(insertQuery).
		WithArgs("Hello", "World", "Anonymous").
		WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.Post{Title: "Hello", Content: "World", Author: "Anonymous"})
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestPostgresUpdate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	title := "new"
	mock.ExpectQuery(updateQuery).
		WithArgs(int64(1), "new", nil).
		WillReturnRows(sqlmock.NewRows(postColumns).AddRow(int64(1), "new", "body", "alice", ts))

	got, err := repo.Update(context.Background(), 1, models.PostPatch{Title: &title})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if got.Title != "new" || got.Content != "body" {
		t.Fatalf("unexpected post: %+v", got)
	}
}

func TestPostgresUpdate_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(updateQuery).WillReturnError(sql.ErrNoRows)

	content := "x"
	_, err := repo.Update(context.Background(), 99, models.PostPatch{Content: &content})
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestPostgresDelete(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(deleteQuery).WithArgs(int64(1)).WillReturnResult(sqlmock.NewResult(0, 1))
	if err := repo.Delete(context.Background(), 1); err != nil {
		t.Fatalf("Delete error: %v", err)
	}

	mock.ExpectExec(deleteQuery).WithArgs(int64(2)).WillReturnResult(sqlmock.NewResult(0, 0))
	if err := repo.Delete(context.Background(), 2); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}

	mock.ExpectExec(deleteQuery).WithArgs(int64(3)).WillReturnError(errors.New("db down"))
	if err := repo.Delete(context.Background(), 3); err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}
