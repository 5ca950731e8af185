package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"go-vnpay/internal/paygate/service"
	"go-vnpay/pkg/logging"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type PaymentInitiationHandler struct {
	service PaymentInitiationService
	logger  *logging.ZapLogger
}

type PaymentInitiationService interface {
	PaymentURL(ctx context.Context, basketID int64, clientIP string, locale string, bankCode string) (string, error)
}

func NewPaymentInitiationHandler(service PaymentInitiationService, logger *logging.ZapLogger) *PaymentInitiationHandler {
	return &PaymentInitiationHandler{
		service: service,
		logger:  logger,
	}
}

func (h *PaymentInitiationHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer closeBody(r.Context(), r.Body, h.logger)

	basketID, err := strconv.ParseInt(chi.URLParam(r, "basketID"), 10, 64)
	if err != nil {
		h.logger.DebugCtx(r.Context(), "invalid basket id", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	query := r.URL.Query()
	paymentURL, err := h.service.PaymentURL(
		r.Context(),
		basketID,
		clientIP(r),
		query.Get("locale"),
		query.Get("bank_code"),
	)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBasketNotFound):
			h.logger.DebugCtx(r.Context(), "no open basket to pay for", zap.Int64("basketID", basketID))
			w.WriteHeader(http.StatusNotFound)
			return
		default:
			h.logger.ErrorCtx(r.Context(), "Error building payment url", zap.Error(err))
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	}

	http.Redirect(w, r, paymentURL, http.StatusFound)
}
