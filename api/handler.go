// Package api is the lambda entry point. It turns an api gateway v2 event
// into a call on one of the employee handlers and shapes the JSON response.
package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/prognoshealth/employees/employee"
	"github.com/prognoshealth/employees/lambdautils"
	"github.com/prognoshealth/employees/proxy"
)

// CallerClaim is the jwt claim holding the caller identity.
const CallerClaim = "sub"

var kindStatus = map[employee.Kind]int{
	employee.KindValidation:   http.StatusBadRequest,
	employee.KindNotFound:     http.StatusNotFound,
	employee.KindAccessDenied: http.StatusForbidden,
	employee.KindConflict:     http.StatusConflict,
	employee.KindUnauthorized: http.StatusUnauthorized,
}

// Handler dispatches gateway events to the employee service. It holds no per
// request state and is safe for concurrent use.
type Handler struct {
	router      *proxy.Router
	logger      *zap.Logger
	requireAuth bool
}

// New builds the routing table for svc.
func New(svc *employee.Service, logger *zap.Logger) (*Handler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	h := &Handler{
		router:      &proxy.Router{},
		logger:      logger,
		requireAuth: svc.RequireAuth(),
	}

	h.router.POST("/employees", h.adapt(employee.HandlerFunc(svc.Create)))
	h.router.GET("/employees", h.adapt(employee.HandlerFunc(svc.List)))
	h.router.GET("/employees/{id}", h.adapt(employee.HandlerFunc(svc.Get)))
	h.router.PUT("/employees/{id}", h.adapt(employee.HandlerFunc(svc.Update)))
	h.router.DELETE("/employees/{id}", h.adapt(employee.HandlerFunc(svc.Delete)))

	h.router.AddCatchAllHandler(func(*proxy.RouteContext) (events.APIGatewayProxyResponse, error) {
		return proxy.Message(http.StatusNotFound, "Endpoint not found"), nil
	})
	h.router.AddErrorHandler(h.fail)

	if !h.router.Valid() {
		return nil, h.router.BuildErrors()
	}

	return h, nil
}

// Handle processes one request. It never returns an error: every failure is
// rendered as an http response.
func (h *Handler) Handle(ctx context.Context, request events.APIGatewayV2HTTPRequest) (events.APIGatewayProxyResponse, error) {
	rctx := proxy.NewRouteContext(ctx, request)

	if rctx.Method() == proxy.OPTIONS.String() {
		return proxy.JSON(http.StatusNoContent, nil)
	}

	if h.requireAuth {
		rctx.CallerID = rctx.Claim(CallerClaim)
		if rctx.CallerID == "" {
			h.requestLogger(rctx).Info("request_unauthorized", h.requestFields(rctx, http.StatusUnauthorized)...)
			return proxy.Message(http.StatusUnauthorized, "Unauthorized"), nil
		}
	}

	if err := rctx.DecodeJSON(); err != nil {
		return h.fail(rctx, err)
	}

	return h.router.Dispatch(rctx)
}

// adapt wraps an employee handler as a route handler.
func (h *Handler) adapt(handler employee.Handler) proxy.RouteHandler {
	return func(rctx *proxy.RouteContext) (events.APIGatewayProxyResponse, error) {
		result, err := handler.Handle(rctx.Context, employee.Request{
			Params:   rctx.Params,
			Payload:  rctx.Payload,
			CallerID: rctx.CallerID,
		})
		if err != nil {
			return events.APIGatewayProxyResponse{}, err
		}

		response, err := proxy.JSON(result.StatusCode, result.Body)
		if err != nil {
			return events.APIGatewayProxyResponse{}, err
		}

		h.requestLogger(rctx).Info("request_ok", h.requestFields(rctx, result.StatusCode)...)
		return response, nil
	}
}

// fail classifies err. Typed employee errors keep their message; a storage
// condition failure that no handler translated becomes a 409; anything else
// is logged with its stack and hidden behind a generic 500.
func (h *Handler) fail(rctx *proxy.RouteContext, err error) (events.APIGatewayProxyResponse, error) {
	logger := h.requestLogger(rctx)

	var appErr *employee.Error
	if errors.As(err, &appErr) {
		status, ok := kindStatus[appErr.Kind]
		if !ok {
			status = http.StatusInternalServerError
		}

		fields := append(h.requestFields(rctx, status), zap.String("reason", appErr.Message))
		logger.Info("request_rejected", fields...)
		return proxy.Message(status, appErr.Message), nil
	}

	status, message := http.StatusInternalServerError, "Server error"
	if errors.Is(err, employee.ErrConditionFailed) {
		status, message = http.StatusConflict, "Conditional check failed"
	}

	fields := append(h.requestFields(rctx, status),
		zap.String("message", err.Error()),
		zap.String("stack", fmt.Sprintf("%+v", err)),
	)
	logger.Error("request_error", fields...)

	return proxy.Message(status, message), nil
}

func (h *Handler) requestLogger(rctx *proxy.RouteContext) *zap.Logger {
	return lambdautils.RequestLogger(rctx.Context, h.logger)
}

func (h *Handler) requestFields(rctx *proxy.RouteContext, status int) []zap.Field {
	fields := []zap.Field{
		zap.String("method", rctx.Method()),
		zap.String("path", rctx.Path()),
		zap.Int("status", status),
	}

	if h.requireAuth && rctx.CallerID != "" {
		fields = append(fields, zap.String("user_id", rctx.CallerID))
	}

	return fields
}
