package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"campus_life/internal/app"
	"campus_life/internal/domain"
)

type Handlers struct {
	Sessions  *app.Sessions
	Campuses  *app.CampusService
	Auth      *app.AuthService
	JWTSecret string
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Get("/v1/campuses", h.listCampuses)
	s.mux.Get("/v1/campuses/cities", h.listCities)
	s.mux.Post("/v1/session", h.newGuestSession)

	s.mux.Post("/v1/auth/signin", h.signIn)
	s.mux.Post("/v1/auth/signup", h.signUp)
	s.mux.Post("/v1/auth/recover", h.recoverPassword)

	s.mux.Group(func(r chi.Router) {
		r.Use(Session(h.JWTSecret))

		r.Post("/v1/auth/signout", h.signOut)

		r.Get("/v1/session/campus", h.getCampus)
		r.Put("/v1/session/campus", h.putCampus)
		r.Delete("/v1/session/campus", h.deleteCampus)

		r.Route("/v1/accommodations", func(r chi.Router) {
			mountListing(r, h.Sessions, accommodationsOf)
		})
		r.Route("/v1/restaurants", func(r chi.Router) {
			mountListing(r, h.Sessions, restaurantsOf)
			r.Get("/cuisines", h.cuisines)
		})
		r.Route("/v1/clinics", func(r chi.Router) {
			mountListing(r, h.Sessions, clinicsOf)
			r.Get("/specializations", h.specializations)
		})
	})
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps domain errors onto problem responses.
func writeError(w http.ResponseWriter, err error, fallback string) {
	detail := fallback
	var ge *domain.GatewayError
	if errors.As(err, &ge) {
		detail = ge.Err.Error()
	}
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		if ge == nil {
			detail = err.Error()
		}
		writeProblem(w, http.StatusBadRequest, "Invalid Request", strings.TrimPrefix(detail, domain.ErrInvalidInput.Error()+": "))
	case errors.Is(err, domain.ErrUnauthorized):
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", detail)
	case errors.Is(err, domain.ErrForbidden):
		writeProblem(w, http.StatusForbidden, "Forbidden", detail)
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", fallback)
	case ge != nil:
		writeProblem(w, http.StatusBadGateway, "Bad Gateway", fallback)
	default:
		log.Error().Err(err).Msg("unhandled error")
		writeProblem(w, http.StatusInternalServerError, "Internal Error", fallback)
	}
}

// encodeWithETag returns the JSON body and a weak validator over it. The
// validator is empty when v cannot be encoded.
func encodeWithETag(v any) (etag string, body []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("encode response")
		return "", nil
	}
	sum := sha1.Sum(body)
	return `W/"` + hex.EncodeToString(sum[:]) + `"`, body
}

// writeJSON renders v; GET responses carry an ETag and honour If-None-Match.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	etag, body := encodeWithETag(v)
	if r.Method == http.MethodGet && status == http.StatusOK && etag != "" {
		w.Header().Set("ETag", etag)
		if r.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("write response body")
	}
}

// decodeBody rejects bodies that are not a JSON document. Field-level problems are
// left to the target type.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10)).Decode(dst); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid JSON", "request body must be a JSON object")
		return false
	}
	return true
}

func identity(r *http.Request) Identity {
	id, _ := IdentityFrom(r.Context())
	return id
}

/********** campuses & session **********/

func (h *Handlers) listCampuses(w http.ResponseWriter, r *http.Request) {
	out, err := h.Campuses.List(r.Context(), r.URL.Query().Get("city"))
	if err != nil {
		log.Warn().Err(err).Msg("list campuses failed")
		writeError(w, err, "Failed to load campuses. Please try again.")
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"items": out})
}

func (h *Handlers) listCities(w http.ResponseWriter, r *http.Request) {
	out, err := h.Campuses.Cities(r.Context())
	if err != nil {
		writeError(w, err, "Failed to load campuses. Please try again.")
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"items": out})
}

func (h *Handlers) newGuestSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusCreated, map[string]string{"session_id": uuid.NewString()})
}

func (h *Handlers) getCampus(w http.ResponseWriter, r *http.Request) {
	d := h.Sessions.Get(r.Context(), identity(r).Session)
	writeJSON(w, r, http.StatusOK, map[string]any{"campus": d.Campus()})
}

func (h *Handlers) putCampus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		CampusID *int64 `json:"campus_id"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	if body.CampusID == nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Request", "campus_id is required")
		return
	}
	c, err := h.Sessions.SelectCampus(r.Context(), identity(r).Session, *body.CampusID)
	if err != nil {
		writeError(w, err, "campus not found")
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"campus": c})
}

func (h *Handlers) deleteCampus(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.ClearCampus(r.Context(), identity(r).Session); err != nil {
		writeError(w, err, "could not clear campus")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

/********** auth **********/

type credentials struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (h *Handlers) signIn(w http.ResponseWriter, r *http.Request) {
	var c credentials
	if !decodeBody(w, r, &c) {
		return
	}
	s, err := h.Auth.SignIn(r.Context(), c.Email, c.Password)
	if err != nil {
		writeError(w, err, "sign in failed")
		return
	}
	writeJSON(w, r, http.StatusOK, s)
}

func (h *Handlers) signUp(w http.ResponseWriter, r *http.Request) {
	var c credentials
	if !decodeBody(w, r, &c) {
		return
	}
	s, err := h.Auth.SignUp(r.Context(), c.Email, c.Password, domain.Profile{FirstName: c.FirstName, LastName: c.LastName})
	if err != nil {
		writeError(w, err, "sign up failed")
		return
	}
	writeJSON(w, r, http.StatusCreated, s)
}

func (h *Handlers) signOut(w http.ResponseWriter, r *http.Request) {
	id := identity(r)
	if !id.SignedIn() {
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", "not signed in")
		return
	}
	if err := h.Auth.SignOut(r.Context(), id.Token, id.Session); err != nil {
		writeError(w, err, "sign out failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) recoverPassword(w http.ResponseWriter, r *http.Request) {
	var c credentials
	if !decodeBody(w, r, &c) {
		return
	}
	if err := h.Auth.RecoverPassword(r.Context(), c.Email); err != nil {
		writeError(w, err, "password recovery failed")
		return
	}
	w.WriteHeader(http.StatusAccepted)
}
