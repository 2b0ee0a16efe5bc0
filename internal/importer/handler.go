package importer

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"

	"github.com/evcharger-search/evcharger-search/internal/platform/httpx"
	"github.com/evcharger-search/evcharger-search/internal/shared"
)

// ImportRateLimit is the per-IP request budget of the import endpoints.
const ImportRateLimit = 10

var statusMappings = []httpx.StatusMapping{
	{Err: ErrInvalidSource, Status: http.StatusBadRequest},
	{Err: ErrInvalidURL, Status: http.StatusBadRequest},
	{Err: ErrUpstreamUnreachable, Status: http.StatusBadRequest},
	{Err: ErrUpstreamHTTP, Status: http.StatusBadRequest},
	{Err: ErrUnexpectedContentType, Status: http.StatusBadRequest},
	{Err: ErrInvalidJSONBody, Status: http.StatusBadRequest},
	{Err: ErrPayloadTooLarge, Status: http.StatusBadRequest},
	{Err: ErrUpstreamApplication, Status: http.StatusBadRequest},
	{Err: ErrEmptyImportPayload, Status: http.StatusBadRequest},
	{Err: ErrEmptyImportData, Status: http.StatusBadRequest},
	{Err: ErrNoItemsToProcess, Status: http.StatusBadRequest},
}

// CacheRefresher drops derived listings after the catalog changed.
type CacheRefresher interface {
	Refresh(ctx context.Context, reason string) error
}

// Handler exposes the two step import protocol.
type Handler struct {
	logger     *slog.Logger
	service    *Service
	refresher  CacheRefresher
	translator *shared.Translator
	validator  *validator.Validate
	rateLimit  int
}

// NewHandler constructs a Handler instance. refresher may be nil.
func NewHandler(logger *slog.Logger, service *Service, refresher CacheRefresher, translator *shared.Translator) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:     logger,
		service:    service,
		refresher:  refresher,
		translator: translator,
		validator:  validator.New(),
		rateLimit:  ImportRateLimit,
	}
}

// MountRoutes registers the import routes. Callers must guard them with admin
// authentication.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		if h.rateLimit > 0 {
			r.Use(httprate.LimitByIP(h.rateLimit, time.Minute))
		}
		r.Post("/import", h.preview)
		r.Post("/import/confirm", h.confirm)
	})
}

type importForm struct {
	Source string `json:"source" validate:"required,startswith=http://|startswith=https://"`
}

func (h *Handler) preview(w http.ResponseWriter, r *http.Request) {
	var form importForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		h.fail(w, r, "import preview", httpx.ErrBadRequest)
		return
	}
	if err := h.validator.Struct(form); err != nil {
		h.fail(w, r, "import preview", ErrInvalidSource)
		return
	}
	preview, err := h.service.Preview(r.Context(), form.Source)
	if err != nil {
		h.fail(w, r, "import preview", err)
		return
	}
	httpx.Success(w, http.StatusOK, preview)
}

func (h *Handler) confirm(w http.ResponseWriter, r *http.Request) {
	var req ConfirmRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.fail(w, r, "import confirm", httpx.ErrBadRequest)
		return
	}
	// A client disconnect must not stop the commit halfway.
	ctx := context.WithoutCancel(r.Context())
	result, err := h.service.Confirm(ctx, req)
	if result.Summary.Created+result.Summary.Updated > 0 {
		h.refresh(ctx)
	}
	if err != nil {
		h.fail(w, r, "import confirm", err)
		return
	}
	p := h.translator.Printer(r)
	result.Message = p.Sprintf(result.Message)
	httpx.Success(w, http.StatusOK, result)
}

func (h *Handler) refresh(ctx context.Context) {
	if h.refresher == nil {
		return
	}
	if err := h.refresher.Refresh(ctx, "import confirmed"); err != nil {
		h.logger.Warn("invalidate price cache", slog.Any("error", err))
	}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	if !httpx.RespondError(w, h.translator.Printer(r), err, statusMappings...) {
		h.logger.Error(op, slog.Any("error", err))
	}
}
