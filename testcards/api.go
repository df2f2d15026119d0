package testcards

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/alovak/cardsynth/internal/brand"
	"github.com/alovak/cardsynth/internal/cardgen"
	"github.com/alovak/cardsynth/testcards/models"
	"github.com/go-chi/chi/v5"
)

// API is a HTTP API for the test card service
type API struct {
	svc *Service
}

func NewAPI(svc *Service) *API {
	return &API{
		svc: svc,
	}
}

func (a *API) AppendRoutes(r chi.Router) {
	r.Get("/brands", a.listBrands)
	r.Route("/cards", func(r chi.Router) {
		r.Post("/", a.generate)
		r.Post("/validate", a.validate)
	})
	r.Get("/batches/{batchID}", a.getBatch)
	r.Post("/fixtures/authorization", a.authorizationFixture)
}

func (a *API) listBrands(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.svc.Brands())
}

func (a *API) generate(w http.ResponseWriter, r *http.Request) {
	req := models.GenerateRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	batch, err := a.svc.Generate(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, batch)
}

func (a *API) validate(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Number string `json:"number"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, a.svc.Validate(body.Number))
}

func (a *API) getBatch(w http.ResponseWriter, r *http.Request) {
	batch, err := a.svc.GetBatch(r.Context(), chi.URLParam(r, "batchID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, batch)
}

func (a *API) authorizationFixture(w http.ResponseWriter, r *http.Request) {
	req := models.FixtureRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	fx, err := a.svc.AuthorizationFixture(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, fx)
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrConflict):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, cardgen.ErrInvalidArgument),
		errors.Is(err, cardgen.ErrInvalidPAN),
		errors.Is(err, brand.ErrUnknownBrand):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
