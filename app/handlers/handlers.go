// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/amirphl/mushola/app/dto"
	businessflow "github.com/amirphl/mushola/business_flow"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/requestid"
)

const defaultRequestTimeout = 30 * time.Second

// errorResponse writes the flat failure body. Detail is only exposed outside production.
func errorResponse(c fiber.Ctx, statusCode int, message, code string, err error, production bool) error {
	body := dto.ErrorResponse{
		Success: false,
		Error:   message,
		Code:    code,
	}
	if err != nil && !production {
		body.Detail = err.Error()
	}
	return c.Status(statusCode).JSON(body)
}

// businessErrorResponse maps a flow error to its HTTP status: bad input is 400, everything else 500
func businessErrorResponse(c fiber.Ctx, err error, production bool) error {
	var be *businessflow.BusinessError
	if !errors.As(err, &be) {
		return errorResponse(c, fiber.StatusInternalServerError, "Internal server error", "INTERNAL_ERROR", err, production)
	}

	status := fiber.StatusInternalServerError
	switch {
	case businessflow.IsClientError(be):
		status = fiber.StatusBadRequest
	case be.Code == businessflow.CodeContentNotFound:
		status = fiber.StatusNotFound
	}

	detail := be.Err
	if detail == nil {
		detail = be
	}
	return errorResponse(c, status, be.Message, be.Code, detail, production)
}

// createRequestContext bounds the flow call of a request. The caller must invoke the returned cancel.
func createRequestContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return context.WithTimeout(context.Background(), timeout)
}

func clientMetadata(c fiber.Ctx) *businessflow.ClientMetadata {
	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	metadata.SetRequestID(requestID(c))
	return metadata
}

func requestID(c fiber.Ctx) string {
	if id := requestid.FromContext(c); id != "" {
		return id
	}
	return c.Get(businessflow.RequestIDKey)
}
