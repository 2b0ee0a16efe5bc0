package searches

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/evcharger-search/evcharger-search/internal/platform/httpx"
	"github.com/evcharger-search/evcharger-search/internal/shared"
)

var statusMappings = []httpx.StatusMapping{
	{Err: ErrNotFound, Status: http.StatusNotFound},
	{Err: ErrCriteriaRequired, Status: http.StatusBadRequest},
}

// Handler exposes saved search endpoints.
type Handler struct {
	logger     *slog.Logger
	service    *Service
	translator *shared.Translator
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, translator *shared.Translator) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, translator: translator}
}

// MountRoutes registers saved search routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/searches", h.list)
	r.Post("/searches", h.create)
	r.Get("/searches/{shortID}", h.get)
	r.Delete("/searches/{shortID}", h.delete)
}

type saveRequest struct {
	Criteria   json.RawMessage `json:"criteria"`
	Visibility bool            `json:"visibility"`
}

type savedSearch struct {
	Criteria   json.RawMessage `json:"criteria"`
	Visibility bool            `json:"visibility"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req saveRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.fail(w, r, "save search", httpx.ErrBadRequest)
		return
	}
	search, err := h.service.Save(r.Context(), req.Criteria, req.Visibility)
	if err != nil {
		h.fail(w, r, "save search", err)
		return
	}
	httpx.Success(w, http.StatusCreated, map[string]string{"shortId": search.ShortID})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	search, err := h.service.Get(r.Context(), chi.URLParam(r, "shortID"))
	if err != nil {
		h.fail(w, r, "get search", err)
		return
	}
	httpx.Success(w, http.StatusOK, savedSearch{Criteria: search.Criteria, Visibility: search.Visibility})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context())
	if err != nil {
		h.fail(w, r, "list searches", err)
		return
	}
	httpx.Success(w, http.StatusOK, items)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "shortID")); err != nil {
		h.fail(w, r, "delete search", err)
		return
	}
	httpx.Success(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	if !httpx.RespondError(w, h.translator.Printer(r), err, statusMappings...) {
		h.logger.Error(op, slog.Any("error", err))
	}
}
