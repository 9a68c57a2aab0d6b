package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/studentrecords/internal/common"
	"github.com/dmitrijs2005/studentrecords/internal/dbx"
	"github.com/dmitrijs2005/studentrecords/internal/server/auth"
	"github.com/dmitrijs2005/studentrecords/internal/server/models"
	"github.com/dmitrijs2005/studentrecords/internal/server/repositories/courses"
	"github.com/dmitrijs2005/studentrecords/internal/server/repositories/students"
	"github.com/dmitrijs2005/studentrecords/internal/server/repositories/users"
)

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func newTokens() *auth.TokenService {
	return auth.NewTokenService("test-secret", time.Hour)
}

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

// fakeUsersRepo keeps users by email and mimics the UNIQUE email constraint.
type fakeUsersRepo struct {
	byEmail   map[string]*models.User
	findErr   error
	createErr error
	created   int
}

func newFakeUsersRepo(existing ...*models.User) *fakeUsersRepo {
	r := &fakeUsersRepo{byEmail: map[string]*models.User{}}
	for _, u := range existing {
		r.byEmail[u.Email] = u
	}
	return r
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if _, ok := f.byEmail[u.Email]; ok {
		return nil, common.ErrorAlreadyExists
	}
	u.ID = uuid.NewString()
	f.byEmail[u.Email] = u
	f.created++
	return u, nil
}

func (f *fakeUsersRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) FindByEmailOrUsername(ctx context.Context, email, username string) (*models.User, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	for _, u := range f.byEmail {
		if u.Email == email || u.Username == username {
			return u, nil
		}
	}
	return nil, common.ErrorNotFound
}

type fakeStudentsRepo struct {
	rows      map[string]*models.Student
	createErr error
	updateErr error
}

func (f *fakeStudentsRepo) List(ctx context.Context) ([]*models.Student, error) {
	out := make([]*models.Student, 0, len(f.rows))
	for _, s := range f.rows {
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeStudentsRepo) Get(ctx context.Context, id string) (*models.Student, error) {
	s, ok := f.rows[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeStudentsRepo) Create(ctx context.Context, s *models.Student) (*models.Student, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	s.ID = uuid.NewString()
	f.rows[s.ID] = s
	return s, nil
}

func (f *fakeStudentsRepo) Update(ctx context.Context, s *models.Student) (*models.Student, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	f.rows[s.ID] = s
	return s, nil
}

func (f *fakeStudentsRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.rows[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.rows, id)
	return nil
}

type fakeCoursesRepo struct {
	rows      map[string]*models.Course
	createErr error
}

func (f *fakeCoursesRepo) List(ctx context.Context) ([]*models.Course, error) {
	out := make([]*models.Course, 0, len(f.rows))
	for _, c := range f.rows {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeCoursesRepo) Get(ctx context.Context, id string) (*models.Course, error) {
	c, ok := f.rows[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCoursesRepo) Create(ctx context.Context, c *models.Course) (*models.Course, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	c.ID = uuid.NewString()
	f.rows[c.ID] = c
	return c, nil
}

func (f *fakeCoursesRepo) Update(ctx context.Context, c *models.Course) (*models.Course, error) {
	f.rows[c.ID] = c
	return c, nil
}

func (f *fakeCoursesRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.rows[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.rows, id)
	return nil
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	s *fakeStudentsRepo
	c *fakeCoursesRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		u: newFakeUsersRepo(),
		s: &fakeStudentsRepo{rows: map[string]*models.Student{}},
		c: &fakeCoursesRepo{rows: map[string]*models.Course{}},
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) users.Repository         { return m.u }
func (m *fakeRepoManager) Students(db dbx.DBTX) students.Repository   { return m.s }
func (m *fakeRepoManager) Courses(db dbx.DBTX) courses.Repository     { return m.c }
