// Package http serves the REST API: local and GitHub authentication, student
// and course records behind bearer-token access control.
package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/studentrecords/internal/common"
	"github.com/dmitrijs2005/studentrecords/internal/logging"
	"github.com/dmitrijs2005/studentrecords/internal/server/auth"
	"github.com/dmitrijs2005/studentrecords/internal/server/models"
	"github.com/dmitrijs2005/studentrecords/internal/server/services"
)

type AuthService interface {
	Register(ctx context.Context, username, email, password string) (*services.AuthResult, error)
	Login(ctx context.Context, email, password string) (*services.AuthResult, error)
	Logout(ctx context.Context) error
}

type OAuthService interface {
	AuthorizeURL() string
	Callback(ctx context.Context, code string) (*services.AuthResult, error)
}

// RecordService is the CRUD surface shared by students and courses.
type RecordService[T any, I any] interface {
	List(ctx context.Context) ([]*T, error)
	Get(ctx context.Context, id string) (*T, error)
	Create(ctx context.Context, in I) (*T, error)
	Update(ctx context.Context, id string, in I) (*T, error)
	Delete(ctx context.Context, id string) error
}

type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

type Handler struct {
	auth        AuthService
	oauth       OAuthService
	students    RecordService[models.Student, models.StudentInput]
	courses     RecordService[models.Course, models.CourseInput]
	tokens      TokenVerifier
	logger      logging.Logger
	development bool
	now         func() time.Time
}

type Deps struct {
	Auth        AuthService
	OAuth       OAuthService
	Students    RecordService[models.Student, models.StudentInput]
	Courses     RecordService[models.Course, models.CourseInput]
	Tokens      TokenVerifier
	Logger      logging.Logger
	Development bool
}

func NewHandler(d Deps) *Handler {
	return &Handler{
		auth:        d.Auth,
		oauth:       d.OAuth,
		students:    d.Students,
		courses:     d.Courses,
		tokens:      d.Tokens,
		logger:      d.Logger.With("module", "http"),
		development: d.Development,
		now:         time.Now,
	}
}

// serverError logs err and answers 500. The detail is sent only in development.
func (h *Handler) serverError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)

	body := envelope{Message: "Server Error"}
	if h.development {
		body.Error = err.Error()
	}
	writeJSON(w, http.StatusInternalServerError, body)
}

// isoMillis always prints three fractional digits.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"message":   "API is running",
		"timestamp": h.now().UTC().Format(isoMillis),
	})
}

func (h *Handler) welcome(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Welcome to the BYU-Idaho Student API",
		"docs":    docsPath,
		"health":  "/health",
	})
}

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request) {
	writeMessage(w, http.StatusNotFound, "Route not found")
}

// credentialsRequest is accepted by register and login.
type credentialsRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBodyError(w, err)
		return
	}

	res, err := h.auth.Register(r.Context(), req.Username, req.Email, req.Password)
	switch {
	case err == nil:
		writeAuth(w, http.StatusCreated, "User registered successfully", res)
	case errors.Is(err, common.ErrorMissingFields):
		writeMessage(w, http.StatusBadRequest, "Please provide username, email, and password")
	case errors.Is(err, common.ErrorAlreadyExists):
		writeMessage(w, http.StatusBadRequest, "User already exists")
	default:
		h.logger.Error(r.Context(), "register error", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Server Error")
	}
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBodyError(w, err)
		return
	}

	res, err := h.auth.Login(r.Context(), req.Email, req.Password)
	switch {
	case err == nil:
		writeAuth(w, http.StatusOK, "Login successful", res)
	case errors.Is(err, common.ErrorMissingFields):
		writeMessage(w, http.StatusBadRequest, "Please provide email and password")
	case errors.Is(err, common.ErrorUnauthorized):
		writeMessage(w, http.StatusUnauthorized, "Invalid credentials")
	default:
		h.logger.Error(r.Context(), "login error", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Server Error")
	}
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.Logout(r.Context()); err != nil {
		h.logger.Error(r.Context(), "logout error", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Server Error")
		return
	}
	writeMessage(w, http.StatusOK, "Logout successful")
}

func writeAuth(w http.ResponseWriter, status int, msg string, res *services.AuthResult) {
	writeJSON(w, status, envelope{Success: true, Message: msg, Token: res.Token, User: res.User})
}
