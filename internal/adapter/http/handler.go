package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"valutatrade-hub/internal/domain/model"
	"valutatrade-hub/internal/domain/ports"
	"valutatrade-hub/internal/metrics"
	"valutatrade-hub/internal/service"
	"valutatrade-hub/pkg/logger"
)

type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

type rateResponse struct {
	From       model.Currency  `json:"from"`
	To         model.Currency  `json:"to"`
	Rate       decimal.Decimal `json:"rate"`
	AsOf       time.Time       `json:"as_of"`
	Stale      bool            `json:"stale"`
	AgeSeconds int64           `json:"age_seconds"`
}

type Handler struct {
	service     ports.RatesService
	defaultBase model.Currency
	log         *logger.Logger
	metrics     *metrics.Metrics
}

func NewHandler(service ports.RatesService, defaultBase model.Currency, log *logger.Logger, metrics *metrics.Metrics) *Handler {
	return &Handler{
		service:     service,
		defaultBase: defaultBase,
		log:         log,
		metrics:     metrics,
	}
}

func currencyParam(r *http.Request, name string) model.Currency {
	return model.Currency(strings.ToUpper(strings.TrimSpace(r.URL.Query().Get(name))))
}

func intParam(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

func (h *Handler) GetRateHandler(w http.ResponseWriter, r *http.Request) {
	from := currencyParam(r, "from")
	to := currencyParam(r, "to")

	if from == "" || to == "" {
		h.sendErrorResponse(w, http.StatusBadRequest, "missing required parameters: from and to")
		return
	}

	res, err := h.service.GetRate(r.Context(), from, to)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.sendSuccessResponse(w, rateResponse{
		From:       from,
		To:         to,
		Rate:       res.Rate,
		AsOf:       res.AsOf,
		Stale:      res.Stale,
		AgeSeconds: int64(time.Since(res.AsOf).Seconds()),
	})
}

func (h *Handler) ListRatesHandler(w http.ResponseWriter, r *http.Request) {
	filter := currencyParam(r, "currency")

	base := currencyParam(r, "base")
	if base == "" {
		base = h.defaultBase
	}

	top, err := intParam(r, "top")
	if err != nil {
		h.sendErrorResponse(w, http.StatusBadRequest, "invalid top parameter")
		return
	}

	listings, err := h.service.ListRates(r.Context(), filter, top, base)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.sendSuccessResponse(w, listings)
}

func (h *Handler) RateHistoryHandler(w http.ResponseWriter, r *http.Request) {
	pair := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("pair")))

	limit, err := intParam(r, "limit")
	if err != nil {
		h.sendErrorResponse(w, http.StatusBadRequest, "invalid limit parameter")
		return
	}

	history, err := h.service.RateHistory(r.Context(), pair, limit)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.sendSuccessResponse(w, history)
}

func (h *Handler) RefreshHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.sendErrorResponse(w, http.StatusMethodNotAllowed, "use POST")
		return
	}

	result, err := h.service.TriggerRefresh(r.Context(), r.URL.Query().Get("source"))
	if err != nil {
		// A failed cycle reports how old the data a client would still
		// get is, so the message goes out verbatim.
		if errors.Is(err, service.ErrRefreshFailed) {
			h.sendErrorResponse(w, http.StatusBadGateway, err.Error())
			return
		}
		h.handleServiceError(w, err)
		return
	}

	h.sendSuccessResponse(w, result)
}

func (h *Handler) PortfolioValueHandler(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.URL.Query().Get("id"))
	if id == "" {
		h.sendErrorResponse(w, http.StatusBadRequest, "missing required parameter: id")
		return
	}

	base := currencyParam(r, "base")
	if base == "" {
		base = h.defaultBase
	}

	valuation, err := h.service.PortfolioValue(r.Context(), id, base)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.sendSuccessResponse(w, valuation)
}

func (h *Handler) StatusHandler(w http.ResponseWriter, r *http.Request) {
	status, err := h.service.Status(r.Context())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.sendSuccessResponse(w, status)
}

func (h *Handler) sendSuccessResponse(w http.ResponseWriter, data interface{}) {
	response := Response{
		Success: true,
		Data:    data,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.log.Error("Failed to encode response", "error", err)
	}
}

func (h *Handler) sendErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	response := Response{
		Success: false,
		Error:   message,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.log.Error("Failed to encode error response", "error", err)
	}
}

func (h *Handler) handleServiceError(w http.ResponseWriter, err error) {
	statusCode := http.StatusInternalServerError
	errorMessage := "internal server error"

	switch {
	case errors.Is(err, model.ErrCurrencyUnknown):
		statusCode = http.StatusBadRequest
		errorMessage = err.Error()
	case errors.Is(err, service.ErrUnknownSource):
		statusCode = http.StatusBadRequest
		errorMessage = err.Error()
	case errors.Is(err, model.ErrRateUnavailable):
		statusCode = http.StatusNotFound
		errorMessage = err.Error()
	case errors.Is(err, model.ErrPortfolioNotFound):
		statusCode = http.StatusNotFound
		errorMessage = err.Error()
	case errors.Is(err, service.ErrRefreshInProgress):
		statusCode = http.StatusConflict
		errorMessage = "refresh already in progress"
	case errors.Is(err, service.ErrRefreshFailed):
		statusCode = http.StatusBadGateway
		errorMessage = err.Error()
	case errors.Is(err, service.ErrSchedulerStopped):
		statusCode = http.StatusServiceUnavailable
		errorMessage = "service is shutting down"
	case errors.Is(err, model.ErrCorruptRate):
		statusCode = http.StatusInternalServerError
		errorMessage = "corrupt rate data"
	}

	h.log.Error("Service error", "error", err, "status_code", statusCode)
	h.sendErrorResponse(w, statusCode, errorMessage)
}
