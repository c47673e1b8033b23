package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"campus_life/internal/app"
	"campus_life/internal/filter"
	"campus_life/internal/listing"
)

func accommodationsOf(d *app.Directory) *listing.Accommodations { return d.Accommodations }
func restaurantsOf(d *app.Directory) *listing.Restaurants       { return d.Restaurants }
func clinicsOf(d *app.Directory) *listing.Clinics               { return d.Clinics }

// mountListing wires the page routes shared by every listing.
func mountListing[T listing.Record, C any](r chi.Router, sessions *app.Sessions, pick func(*app.Directory) *listing.Controller[T, C]) {
	ctl := func(r *http.Request) *listing.Controller[T, C] {
		return pick(sessions.Get(r.Context(), identity(r).Session))
	}

	// GET shows the page, loading it the first time.
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		c := ctl(r)
		_ = c.EnsureLoaded(r.Context()) // a failed load is reported in the view
		writeJSON(w, r, http.StatusOK, c.View())
	})

	r.Post("/refresh", func(w http.ResponseWriter, r *http.Request) {
		c := ctl(r)
		err := c.Load(r.Context())
		if err != nil && !errors.Is(err, listing.ErrStale) {
			writeJSON(w, r, http.StatusBadGateway, c.View())
			return
		}
		writeJSON(w, r, http.StatusOK, c.View())
	})

	r.Put("/filters", func(w http.ResponseWriter, r *http.Request) {
		var criteria C
		if !decodeBody(w, r, &criteria) {
			return
		}
		c := ctl(r)
		_ = c.EnsureLoaded(r.Context())
		c.ApplyFilters(criteria)
		writeJSON(w, r, http.StatusOK, c.View())
	})

	r.Delete("/filters", func(w http.ResponseWriter, r *http.Request) {
		c := ctl(r)
		c.ResetFilters()
		writeJSON(w, r, http.StatusOK, c.View())
	})

	r.Put("/selection/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a number")
			return
		}
		c := ctl(r)
		_ = c.EnsureLoaded(r.Context())
		if err := c.SelectRecord(id); err != nil {
			writeProblem(w, http.StatusNotFound, "Not Found", err.Error())
			return
		}
		writeJSON(w, r, http.StatusOK, c.View())
	})

	r.Delete("/selection", func(w http.ResponseWriter, r *http.Request) {
		c := ctl(r)
		c.ClearSelection()
		writeJSON(w, r, http.StatusOK, c.View())
	})
}

func (h *Handlers) cuisines(w http.ResponseWriter, r *http.Request) {
	c := h.Sessions.Get(r.Context(), identity(r).Session).Restaurants
	_ = c.EnsureLoaded(r.Context())
	writeJSON(w, r, http.StatusOK, map[string]any{"items": filter.Cuisines(c.Records())})
}

func (h *Handlers) specializations(w http.ResponseWriter, r *http.Request) {
	c := h.Sessions.Get(r.Context(), identity(r).Session).Clinics
	_ = c.EnsureLoaded(r.Context())
	writeJSON(w, r, http.StatusOK, map[string]any{"items": filter.Specializations(c.Records())})
}
