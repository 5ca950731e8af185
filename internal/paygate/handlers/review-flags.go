package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"go-vnpay/internal/paygate/data"
	"go-vnpay/pkg/logging"

	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type ReviewFlag struct {
	CreatedAt     time.Time           `json:"created_at"`
	Processor     string              `json:"processor"`
	OrderNumber   string              `json:"order_number"`
	TransactionID string              `json:"transaction_id"`
	Payload       jsoniter.RawMessage `json:"payload"`
	Amount        decimal.Decimal     `json:"amount"`
	ID            int64               `json:"id"`
}

type ReviewFlagsHandler struct {
	service ReviewFlagsService
	logger  *logging.ZapLogger
}

type ReviewFlagsService interface {
	GetReviewFlags(ctx context.Context, limit int) ([]data.ReviewFlag, error)
}

func NewReviewFlagsHandler(service ReviewFlagsService, logger *logging.ZapLogger) *ReviewFlagsHandler {
	return &ReviewFlagsHandler{
		service: service,
		logger:  logger,
	}
}

func (h *ReviewFlagsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if rawLimit := r.URL.Query().Get("limit"); rawLimit != "" {
		var err error
		limit, err = strconv.Atoi(rawLimit)
		if err != nil || limit < 0 {
			h.logger.DebugCtx(r.Context(), "invalid limit", zap.String("limit", rawLimit))
			w.WriteHeader(http.StatusBadRequest)
			return
		}
	}

	flags, err := h.service.GetReviewFlags(r.Context(), limit)
	if err != nil {
		h.logger.ErrorCtx(r.Context(), "Error getting review flags", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if len(flags) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	res := make([]ReviewFlag, len(flags))
	for i, flag := range flags {
		payload := jsoniter.RawMessage(flag.Payload)
		if len(payload) == 0 {
			payload = jsoniter.RawMessage("null")
		}
		res[i] = ReviewFlag{
			ID:            flag.ID,
			Processor:     flag.ProcessorName,
			OrderNumber:   flag.OrderNumber,
			TransactionID: flag.TransactionID,
			Amount:        flag.Amount,
			Payload:       payload,
			CreatedAt:     flag.CreatedAt,
		}
	}
	if err := tryWriteResponseJSON(w, res); err != nil {
		h.logger.ErrorCtx(r.Context(), "Error writing response", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
}
