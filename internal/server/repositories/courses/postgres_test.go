package courses

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/studentrecords/internal/common"
	"github.com/dmitrijs2005/studentrecords/internal/server/models"
)

var columns = []string{"id", "course_code", "title", "credits", "instructor", "created_at", "updated_at"}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresRepository(db), mock
}

func TestListAndGet(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	id := uuid.NewString()
	now := time.Now()

	mock.ExpectQuery(`(?s)^SELECT\s+id,.+FROM\s+courses\s+ORDER\s+BY\s+course_code$`).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(id, "CSE 341", "Web Services", 3, "Smith", now, now))

	list, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "CSE 341", list[0].CourseCode)

	q := `(?s)^SELECT\s+id,.+FROM\s+courses\s+WHERE\s+id\s*=\s*\$1$`
	mock.ExpectQuery(q).WithArgs(id).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(id, "CSE 341", "Web Services", 3, "Smith", now, now))
	got, err := repo.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Credits)

	mock.ExpectQuery(q).WithArgs(id).WillReturnError(sql.ErrNoRows)
	_, err = repo.Get(context.Background(), id)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestList_QueryError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`FROM\s+courses`).WillReturnError(errors.New("conn reset"))

	_, err := repo.List(context.Background())
	assert.ErrorContains(t, err, "db error: conn reset")
}

func TestCreate(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	q := `(?s)^INSERT\s+INTO\s+courses\s*\(course_code,\s*title,\s*credits,\s*instructor\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4\)\s*RETURNING\s+id,\s*created_at,\s*updated_at$`
	c := &models.Course{CourseCode: "CSE 341", Title: "Web Services", Credits: 3, Instructor: "Smith"}
	id := uuid.NewString()
	now := time.Now()

	mock.ExpectQuery(q).WithArgs("CSE 341", "Web Services", 3, "Smith").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(id, now, now))

	got, err := repo.Create(context.Background(), c)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)

	mock.ExpectQuery(q).WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "courses_course_code_key"})
	_, err = repo.Create(context.Background(), &models.Course{CourseCode: "CSE 341", Title: "x", Credits: 1, Instructor: "y"})
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestUpdate(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	q := `(?s)^UPDATE\s+courses\s+SET\s+course_code\s*=\s*\$1,.+WHERE\s+id\s*=\s*\$5\s+RETURNING\s+created_at,\s*updated_at$`
	c := &models.Course{ID: uuid.NewString(), CourseCode: "CSE 341", Title: "Web Services", Credits: 4, Instructor: "Smith"}
	now := time.Now()

	mock.ExpectQuery(q).WithArgs("CSE 341", "Web Services", 4, "Smith", c.ID).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
	_, err := repo.Update(context.Background(), c)
	require.NoError(t, err)

	mock.ExpectQuery(q).WillReturnError(sql.ErrNoRows)
	_, err = repo.Update(context.Background(), c)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	mock.ExpectQuery(q).WillReturnError(&pgconn.PgError{Code: "23505"})
	_, err = repo.Update(context.Background(), c)
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestDelete(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	q := `^DELETE\s+FROM\s+courses\s+WHERE\s+id\s*=\s*\$1$`
	id := uuid.NewString()

	mock.ExpectExec(q).WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Delete(context.Background(), id))

	mock.ExpectExec(q).WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Delete(context.Background(), id), common.ErrorNotFound)

	mock.ExpectExec(q).WithArgs(id).WillReturnResult(sqlmock.NewErrorResult(errors.New("no count")))
	assert.ErrorContains(t, repo.Delete(context.Background(), id), "db error: no count")
}
