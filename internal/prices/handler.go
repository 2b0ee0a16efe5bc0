package prices

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/evcharger-search/evcharger-search/internal/platform/httpx"
	"github.com/evcharger-search/evcharger-search/internal/shared"
)

var statusMappings = []httpx.StatusMapping{
	{Err: ErrNotFound, Status: http.StatusNotFound},
	{Err: ErrDuplicateName, Status: http.StatusConflict},
	{Err: ErrNameRequired, Status: http.StatusBadRequest},
	{Err: ErrInvalidACPrice, Status: http.StatusBadRequest},
	{Err: ErrInvalidDCPrice, Status: http.StatusBadRequest},
	{Err: ErrInvalidID, Status: http.StatusBadRequest},
}

// Handler exposes the public listing and the admin price endpoints.
type Handler struct {
	logger     *slog.Logger
	service    *Service
	lister     *Lister
	cache      *Cache
	refresher  *Refresher
	translator *shared.Translator
	validator  *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, lister *Lister, cache *Cache, refresher *Refresher, translator *shared.Translator) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:     logger,
		service:    service,
		lister:     lister,
		cache:      cache,
		refresher:  refresher,
		translator: translator,
		validator:  validator.New(),
	}
}

// MountRoutes registers the public listing routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/prices", h.listPublic)
}

// MountLegacyRoutes registers GET /data, which serves the bare listing array
// expected by older frontends.
func (h *Handler) MountLegacyRoutes(r chi.Router) {
	r.Get("/data", h.listLegacy)
}

// MountAdminRoutes registers price management routes. Callers must guard them
// with admin authentication.
func (h *Handler) MountAdminRoutes(r chi.Router) {
	r.Get("/prices", h.listAdmin)
	r.Post("/prices", h.create)
	r.Get("/prices/{id}", h.get)
	r.Put("/prices/{id}", h.update)
	r.Delete("/prices/{id}", h.delete)
	r.Get("/cache", h.cacheInfo)
}

// PriceForm is the admin request body for create and update.
type PriceForm struct {
	Name    string   `json:"name" validate:"required,max=200"`
	ACPrice *float64 `json:"acPrice" validate:"omitempty,gte=0"`
	DCPrice *float64 `json:"dcPrice" validate:"omitempty,gte=0"`
}

func (h *Handler) listPublic(w http.ResponseWriter, r *http.Request) {
	items, err := h.lister.List(r.Context(), queryFromRequest(r))
	if err != nil {
		h.fail(w, r, "list prices", err)
		return
	}
	httpx.Success(w, http.StatusOK, items)
}

func (h *Handler) listLegacy(w http.ResponseWriter, r *http.Request) {
	items, err := h.lister.List(r.Context(), queryFromRequest(r))
	if err != nil {
		h.logger.Error("legacy list prices", slog.Any("error", err))
		httpx.JSON(w, http.StatusInternalServerError, map[string]string{"error": h.translator.Printer(r).Sprintf(httpx.ErrInternal.Error())})
		return
	}
	httpx.JSON(w, http.StatusOK, items)
}

func (h *Handler) listAdmin(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context())
	if err != nil {
		h.fail(w, r, "admin list prices", err)
		return
	}
	httpx.Success(w, http.StatusOK, items)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.fail(w, r, "get price", err)
		return
	}
	item, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, "get price", err)
		return
	}
	httpx.Success(w, http.StatusOK, item)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	in, err := h.decodeForm(r)
	if err != nil {
		h.fail(w, r, "create price", err)
		return
	}
	item, err := h.service.Create(r.Context(), in)
	if err != nil {
		h.fail(w, r, "create price", err)
		return
	}
	h.refresh(r, "price created")
	httpx.Success(w, http.StatusCreated, item)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.fail(w, r, "update price", err)
		return
	}
	in, err := h.decodeForm(r)
	if err != nil {
		h.fail(w, r, "update price", err)
		return
	}
	item, err := h.service.Update(r.Context(), id, in)
	if err != nil {
		h.fail(w, r, "update price", err)
		return
	}
	h.refresh(r, "price updated")
	httpx.Success(w, http.StatusOK, item)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.fail(w, r, "delete price", err)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.fail(w, r, "delete price", err)
		return
	}
	h.refresh(r, "price deleted")
	httpx.Success(w, http.StatusOK, map[string]int64{"id": id})
}

func (h *Handler) cacheInfo(w http.ResponseWriter, r *http.Request) {
	info, err := h.cache.Info(r.Context())
	if err != nil {
		h.fail(w, r, "cache info", err)
		return
	}
	httpx.Success(w, http.StatusOK, info)
}

func (h *Handler) decodeForm(r *http.Request) (Input, error) {
	var form PriceForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		return Input{}, httpx.ErrBadRequest
	}
	if err := h.validator.Struct(form); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			switch verrs[0].Field() {
			case "ACPrice":
				return Input{}, ErrInvalidACPrice
			case "DCPrice":
				return Input{}, ErrInvalidDCPrice
			}
		}
		return Input{}, ErrNameRequired
	}
	return Input{Name: form.Name, ACPrice: form.ACPrice, DCPrice: form.DCPrice}, nil
}

func (h *Handler) refresh(r *http.Request, reason string) {
	if err := h.refresher.Refresh(r.Context(), reason); err != nil {
		h.logger.Warn("invalidate price cache", slog.String("reason", reason), slog.Any("error", err))
	}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	if !httpx.RespondError(w, h.translator.Printer(r), err, statusMappings...) {
		h.logger.Error(op, slog.Any("error", err))
	}
}

func queryFromRequest(r *http.Request) ListQuery {
	q := r.URL.Query()
	return ListQuery{Filter: q.Get("filter"), SortBy: q.Get("sortBy"), Order: q.Get("order")}
}

func parseID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}
