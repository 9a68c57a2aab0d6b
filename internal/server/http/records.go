package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/studentrecords/internal/common"
	"github.com/dmitrijs2005/studentrecords/internal/server/models"
)

// recordMessages names one record type in responses.
type recordMessages struct {
	InvalidID string
	Duplicate string
	NotFound  string
	Deleted   string
}

var (
	studentMessages = recordMessages{
		InvalidID: "Invalid student ID",
		Duplicate: "Duplicate email address",
		NotFound:  "Student not found",
		Deleted:   "Student deleted successfully",
	}
	courseMessages = recordMessages{
		InvalidID: "Invalid course ID",
		Duplicate: "Duplicate course code",
		NotFound:  "Course not found",
		Deleted:   "Course deleted successfully",
	}
)

// records serves list/get/create/update/delete for one record type.
type records[T any, I any] struct {
	h   *Handler
	svc RecordService[T, I]
	msg recordMessages
}

func (rs records[T, I]) routes(r chi.Router) {
	r.Use(rs.h.Authenticate)

	r.Get("/", rs.list)
	r.Get("/{id}", rs.get)

	r.Group(func(r chi.Router) {
		r.Use(rs.h.RequireAdmin)
		r.Post("/", rs.create)
		r.Put("/{id}", rs.update)
		r.Delete("/{id}", rs.delete)
	})
}

func (rs records[T, I]) fail(w http.ResponseWriter, r *http.Request, err error) {
	if writeBodyError(w, err) {
		return
	}

	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, envelope{Message: "Validation Error", Errors: verr.Errors})
	case errors.Is(err, common.ErrorInvalidID):
		writeMessage(w, http.StatusBadRequest, rs.msg.InvalidID)
	case errors.Is(err, common.ErrorAlreadyExists):
		writeMessage(w, http.StatusBadRequest, rs.msg.Duplicate)
	case errors.Is(err, common.ErrorNotFound):
		writeMessage(w, http.StatusNotFound, rs.msg.NotFound)
	default:
		rs.h.serverError(w, r, err)
	}
}

func (rs records[T, I]) list(w http.ResponseWriter, r *http.Request) {
	items, err := rs.svc.List(r.Context())
	if err != nil {
		rs.fail(w, r, err)
		return
	}
	count := len(items)
	writeJSON(w, http.StatusOK, envelope{Success: true, Count: &count, Data: items})
}

func (rs records[T, I]) get(w http.ResponseWriter, r *http.Request) {
	item, err := rs.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		rs.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: item})
}

func (rs records[T, I]) create(w http.ResponseWriter, r *http.Request) {
	var in I
	if err := decodeJSON(r, &in); err != nil {
		rs.fail(w, r, err)
		return
	}

	item, err := rs.svc.Create(r.Context(), in)
	if err != nil {
		rs.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, envelope{Success: true, Data: item})
}

func (rs records[T, I]) update(w http.ResponseWriter, r *http.Request) {
	var in I
	if err := decodeJSON(r, &in); err != nil {
		rs.fail(w, r, err)
		return
	}

	item, err := rs.svc.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		rs.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: item})
}

func (rs records[T, I]) delete(w http.ResponseWriter, r *http.Request) {
	if err := rs.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		rs.fail(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, rs.msg.Deleted)
}
