// The booking lambda serves the appointment submission endpoint behind
// API Gateway, for deployments that run the booking workflow serverless
// instead of inside the API server.
package main

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/wolfman30/clinic-booking-platform/internal/app/bootstrap"
	"github.com/wolfman30/clinic-booking-platform/internal/bookings"
	appconfig "github.com/wolfman30/clinic-booking-platform/internal/config"
	"github.com/wolfman30/clinic-booking-platform/pkg/logging"
)

// The browser calls this endpoint cross-origin from the booking page, so
// every response carries permissive CORS headers and the preflight is
// answered with an empty 200.
var corsHeaders = map[string]string{
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Headers": "Content-Type, Authorization",
	"Access-Control-Allow-Methods": "POST, OPTIONS",
	"Content-Type":                 "application/json",
}

type handler struct {
	svc    bookings.Submitter
	logger *logging.Logger
}

func main() {
	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)

	pool, err := bootstrap.BuildPgxPool(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("failed to connect database", "error", err)
		panic(err)
	}

	repo := bookings.NewRepository(pool)
	h := &handler{
		svc:    bookings.NewService(repo, logger, nil),
		logger: logger,
	}
	lambda.Start(h.handle)
}

func (h *handler) handle(ctx context.Context, evt events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	method := strings.ToUpper(strings.TrimSpace(evt.RequestContext.HTTP.Method))

	if method == http.MethodOptions {
		return events.APIGatewayV2HTTPResponse{
			StatusCode: http.StatusOK,
			Headers:    corsHeaders,
			Body:       "",
		}, nil
	}
	if method != http.MethodPost {
		return errorResponse(http.StatusMethodNotAllowed, "method not allowed"), nil
	}

	var req bookings.SubmitRequest
	dec := json.NewDecoder(strings.NewReader(evt.Body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		h.logger.Error("failed to decode booking request", "error", err)
		return errorResponse(http.StatusBadRequest, "invalid request body"), nil
	}

	booking, err := h.svc.Submit(ctx, &req)
	if err != nil {
		h.logger.Error("booking submission failed", "error", err)
		return errorResponse(http.StatusBadRequest, err.Error()), nil
	}

	body, err := json.Marshal(bookings.SubmitResponse{
		Success:   true,
		BookingID: booking.ID,
		Message:   "Appointment booked successfully",
	})
	if err != nil {
		return errorResponse(http.StatusInternalServerError, "failed to encode response"), nil
	}
	return events.APIGatewayV2HTTPResponse{
		StatusCode: http.StatusOK,
		Headers:    corsHeaders,
		Body:       string(body),
	}, nil
}

func errorResponse(status int, msg string) events.APIGatewayV2HTTPResponse {
	body, _ := json.Marshal(map[string]string{"error": msg})
	return events.APIGatewayV2HTTPResponse{
		StatusCode: status,
		Headers:    corsHeaders,
		Body:       string(body),
	}
}
