package http

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/studentrecords/internal/common"
	"github.com/dmitrijs2005/studentrecords/internal/logging"
	"github.com/dmitrijs2005/studentrecords/internal/server/auth"
	"github.com/dmitrijs2005/studentrecords/internal/server/models"
	"github.com/dmitrijs2005/studentrecords/internal/server/services"
)

const testSecret = "test-secret"

type fakeAuth struct {
	users map[string]models.PublicUser
	pass  map[string]string
	err   error
	tok   *auth.TokenService
}

func newFakeAuth(tok *auth.TokenService) *fakeAuth {
	return &fakeAuth{users: map[string]models.PublicUser{}, pass: map[string]string{}, tok: tok}
}

func (f *fakeAuth) result(u models.PublicUser) (*services.AuthResult, error) {
	t, err := f.tok.Issue(u.ID, u.Role)
	if err != nil {
		return nil, err
	}
	return &services.AuthResult{Token: t, User: u}, nil
}

func (f *fakeAuth) Register(_ context.Context, username, email, password string) (*services.AuthResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	if username == "" || email == "" || password == "" {
		return nil, common.ErrorMissingFields
	}
	if _, ok := f.users[email]; ok {
		return nil, common.ErrorAlreadyExists
	}
	u := models.PublicUser{ID: "u-" + username, Username: username, Email: email, Role: models.RoleUser}
	f.users[email] = u
	f.pass[email] = password
	return f.result(u)
}

func (f *fakeAuth) Login(_ context.Context, email, password string) (*services.AuthResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	if email == "" || password == "" {
		return nil, common.ErrorMissingFields
	}
	u, ok := f.users[email]
	if !ok || f.pass[email] != password {
		return nil, common.ErrorUnauthorized
	}
	return f.result(u)
}

func (f *fakeAuth) Logout(context.Context) error { return f.err }

type fakeOAuth struct {
	url  string
	res  *services.AuthResult
	err  error
	code string
}

func (f *fakeOAuth) AuthorizeURL() string { return f.url }

func (f *fakeOAuth) Callback(_ context.Context, code string) (*services.AuthResult, error) {
	f.code = code
	if code == "" {
		return nil, services.ErrMissingCode
	}
	return f.res, f.err
}

// fakeRecords keeps records in insertion order and checks ids like the
// real services do.
type fakeRecords[T any, I any] struct {
	items map[string]*T
	order []string
	build func(id string, in I) (*T, error)
	err   error
	panic bool
}

func newFakeRecords[T any, I any](build func(id string, in I) (*T, error)) *fakeRecords[T, I] {
	return &fakeRecords[T, I]{items: map[string]*T{}, build: build}
}

func (f *fakeRecords[T, I]) put(id string, v *T) {
	f.items[id] = v
	f.order = append(f.order, id)
}

func (f *fakeRecords[T, I]) check(id string) error {
	if f.panic {
		panic("boom")
	}
	if f.err != nil {
		return f.err
	}
	if !strings.HasPrefix(id, "id-") {
		return common.ErrorInvalidID
	}
	if _, ok := f.items[id]; !ok {
		return common.ErrorNotFound
	}
	return nil
}

func (f *fakeRecords[T, I]) List(context.Context) ([]*T, error) {
	if f.panic {
		panic("boom")
	}
	if f.err != nil {
		return nil, f.err
	}
	out := make([]*T, 0, len(f.order))
	for _, id := range f.order {
		if v, ok := f.items[id]; ok {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeRecords[T, I]) Get(_ context.Context, id string) (*T, error) {
	if err := f.check(id); err != nil {
		return nil, err
	}
	return f.items[id], nil
}

func (f *fakeRecords[T, I]) Create(_ context.Context, in I) (*T, error) {
	if f.err != nil {
		return nil, f.err
	}
	id := "id-new"
	v, err := f.build(id, in)
	if err != nil {
		return nil, err
	}
	f.put(id, v)
	return v, nil
}

func (f *fakeRecords[T, I]) Update(_ context.Context, id string, in I) (*T, error) {
	if err := f.check(id); err != nil {
		return nil, err
	}
	v, err := f.build(id, in)
	if err != nil {
		return nil, err
	}
	f.items[id] = v
	return v, nil
}

func (f *fakeRecords[T, I]) Delete(_ context.Context, id string) error {
	if err := f.check(id); err != nil {
		return err
	}
	delete(f.items, id)
	return nil
}

func buildStudent(id string, in models.StudentInput) (*models.Student, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}
	s := &models.Student{ID: id}
	s.Apply(in)
	return s, nil
}

func buildCourse(id string, in models.CourseInput) (*models.Course, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}
	c := &models.Course{ID: id}
	c.Apply(in)
	return c, nil
}

type testEnv struct {
	handler  *Handler
	router   http.Handler
	tokens   *auth.TokenService
	auth     *fakeAuth
	oauth    *fakeOAuth
	students *fakeRecords[models.Student, models.StudentInput]
	courses  *fakeRecords[models.Course, models.CourseInput]
}

func newTestEnv(t *testing.T, development bool) *testEnv {
	t.Helper()

	tokens := auth.NewTokenService(testSecret, time.Hour)
	env := &testEnv{
		tokens:   tokens,
		auth:     newFakeAuth(tokens),
		oauth:    &fakeOAuth{url: "https://github.example/authorize?client_id=abc"},
		students: newFakeRecords(buildStudent),
		courses:  newFakeRecords(buildCourse),
	}

	env.handler = NewHandler(Deps{
		Auth:        env.auth,
		OAuth:       env.oauth,
		Students:    env.students,
		Courses:     env.courses,
		Tokens:      tokens,
		Logger:      logging.NewSlogJSON(io.Discard, slog.LevelInfo),
		Development: development,
	})
	env.handler.now = func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }
	env.router = env.handler.Routes()
	return env
}

func (e *testEnv) token(t *testing.T, role string) string {
	t.Helper()
	tok, err := e.tokens.Issue("u-1", role)
	require.NoError(t, err)
	return tok
}

func (e *testEnv) do(t *testing.T, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()

	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}
