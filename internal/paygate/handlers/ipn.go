package handlers

import (
	"context"
	"net/http"

	"go-vnpay/internal/common/ipnprotocol"
	"go-vnpay/pkg/logging"

	"go.uber.org/zap"
)

type IPNHandler struct {
	service IPNService
	logger  *logging.ZapLogger
}

type IPNService interface {
	Handle(ctx context.Context, fields map[string]string) ipnprotocol.Response
}

func NewIPNHandler(service IPNService, logger *logging.ZapLogger) *IPNHandler {
	return &IPNHandler{
		service: service,
		logger:  logger,
	}
}

// ServeHTTP always answers 200 with an acknowledgement body; the gateway
// reads the outcome from RspCode.
func (h *IPNHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer closeBody(r.Context(), r.Body, h.logger)

	response := h.handle(r)
	if err := tryWriteResponseJSON(w, response); err != nil {
		h.logger.ErrorCtx(r.Context(), "Error writing IPN response", zap.Error(err))
	}
}

func (h *IPNHandler) handle(r *http.Request) (response ipnprotocol.Response) {
	defer func() {
		if rcv := recover(); rcv != nil {
			h.logger.ErrorCtx(r.Context(), "panic in IPN handler", zap.Any("recover", rcv))
			response = ipnprotocol.SystemError
		}
	}()
	response = h.service.Handle(r.Context(), queryFields(r))
	h.logger.InfoCtx(
		r.Context(),
		"IPN handled",
		zap.String("rspCode", string(response.RspCode)),
		zap.String("message", response.Message),
	)
	return response
}
