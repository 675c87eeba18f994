package biddinghandlers

import (
	"log/slog"
	"net/http"
	"strconv"

	biddingservice "github.com/Black-And-White-Club/ulti-bot/app/modules/bidding/application"
	biddingdomain "github.com/Black-And-White-Club/ulti-bot/app/modules/bidding/domain"
	"github.com/Black-And-White-Club/ulti-bot/pkg/httpapi"
	"github.com/Black-And-White-Club/ulti-bot/pkg/observability/attr"
	"github.com/go-chi/chi/v5"
)

var statusRules = []httpapi.StatusRule{
	{Err: biddingdomain.ErrNotFound, Status: http.StatusNotFound},
}

// HTTPHandlers serves the catalog read endpoints.
type HTTPHandlers struct {
	service biddingservice.Service
	logger  *slog.Logger
}

// NewHTTPHandlers creates a new HTTPHandlers.
func NewHTTPHandlers(service biddingservice.Service, logger *slog.Logger) *HTTPHandlers {
	return &HTTPHandlers{service: service, logger: logger}
}

// Routes mounts the catalog endpoints on r.
func (h *HTTPHandlers) Routes(r chi.Router) {
	r.Route("/bidType", func(r chi.Router) {
		r.Get("/", h.HandleListBidTypes)
		r.Get("/{id}", h.HandleGetBidType)
		r.Get("/name/{name}", h.HandleGetBidTypeByName)
	})
	r.Route("/bid", func(r chi.Router) {
		r.Get("/", h.HandleListBids)
		r.Get("/{id}", h.HandleGetBid)
	})
	r.Route("/silent-bid", func(r chi.Router) {
		r.Get("/", h.HandleListSilentBids)
		r.Get("/{id}", h.HandleGetSilentBid)
	})
}

func (h *HTTPHandlers) HandleListBidTypes(w http.ResponseWriter, r *http.Request) {
	httpapi.WriteJSON(w, http.StatusOK, h.service.ListBidTypes(r.Context()))
}

func (h *HTTPHandlers) HandleGetBidType(w http.ResponseWriter, r *http.Request) {
	id, ok := h.catalogID(w, r)
	if !ok {
		return
	}
	bt, err := h.service.GetBidType(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, bt)
}

func (h *HTTPHandlers) HandleGetBidTypeByName(w http.ResponseWriter, r *http.Request) {
	bt, err := h.service.GetBidTypeByName(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, bt)
}

func (h *HTTPHandlers) HandleListBids(w http.ResponseWriter, r *http.Request) {
	httpapi.WriteJSON(w, http.StatusOK, h.service.ListBids(r.Context()))
}

func (h *HTTPHandlers) HandleGetBid(w http.ResponseWriter, r *http.Request) {
	id, ok := h.catalogID(w, r)
	if !ok {
		return
	}
	bid, err := h.service.GetBid(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, bid)
}

func (h *HTTPHandlers) HandleListSilentBids(w http.ResponseWriter, r *http.Request) {
	httpapi.WriteJSON(w, http.StatusOK, h.service.ListSilentBids(r.Context()))
}

func (h *HTTPHandlers) HandleGetSilentBid(w http.ResponseWriter, r *http.Request) {
	id, ok := h.catalogID(w, r)
	if !ok {
		return
	}
	sb, err := h.service.GetSilentBid(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, sb)
}

// catalogID reads the {id} parameter. Catalog ids are small ints.
func (h *HTTPHandlers) catalogID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		httpapi.WriteError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

func (h *HTTPHandlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := httpapi.StatusFor(err, statusRules...)
	if status >= http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "Catalog request failed",
			attr.ExtractCorrelationID(r.Context()),
			attr.Error(err),
		)
	}
	httpapi.WriteError(w, status, err.Error())
}
