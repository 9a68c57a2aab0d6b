package http

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/studentrecords/internal/server/services"
)

// oauthMessages are the client-facing texts of one route binding of the
// GitHub login. The flow behind every binding is the same.
type oauthMessages struct {
	MissingCode     string
	NoAccessToken   string
	NoVerifiedEmail string
	Success         string
}

var (
	apiOAuthMessages = oauthMessages{
		MissingCode:     "Authorization code missing",
		NoAccessToken:   "Failed to get access token",
		NoVerifiedEmail: "No verified primary email found",
		Success:         "GitHub login successful",
	}
	rootOAuthMessages = oauthMessages{
		MissingCode:     "Authorization code is required",
		NoAccessToken:   "Failed to get GitHub access token",
		NoVerifiedEmail: "No verified email found on GitHub account",
		Success:         "GitHub OAuth successful",
	}
)

func (h *Handler) oauthRedirect(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, h.oauth.AuthorizeURL(), http.StatusFound)
}

func (h *Handler) oauthCallback(m oauthMessages) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := h.oauth.Callback(r.Context(), r.URL.Query().Get("code"))
		switch {
		case err == nil:
			writeAuth(w, http.StatusOK, m.Success, res)
		case errors.Is(err, services.ErrMissingCode):
			writeMessage(w, http.StatusBadRequest, m.MissingCode)
		case errors.Is(err, services.ErrNoAccessToken):
			h.logger.Warn(r.Context(), "github code exchange rejected", "error", err)
			writeMessage(w, http.StatusBadRequest, m.NoAccessToken)
		case errors.Is(err, services.ErrNoVerifiedEmail):
			writeMessage(w, http.StatusBadRequest, m.NoVerifiedEmail)
		default:
			h.logger.Error(r.Context(), "github oauth error", "error", err)
			writeMessage(w, http.StatusInternalServerError, "Server Error")
		}
	}
}
