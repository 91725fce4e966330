// Package controllers translates HTTP requests into service calls and
// typed service errors into envelope responses.
package controllers

import (
	"errors"
	"net/http"

	"github.com/allmart/storefront/app/services"
	"github.com/allmart/storefront/internal/gateway"
	"github.com/allmart/storefront/internal/identity"
	"github.com/allmart/storefront/pkg/bind"
	"github.com/allmart/storefront/pkg/logger"
	"github.com/allmart/storefront/pkg/response"
)

// fail maps a typed error onto the matching envelope. Controllers call
// this for every non-nil service error so the mapping lives in one place.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	var bindErr *bind.ValidationError
	var malformedErr *bind.MalformedError
	var draftErr *services.DraftValidationError

	switch {
	case errors.As(err, &malformedErr):
		response.BadRequest(w, malformedErr.Reason, nil)
	case errors.As(err, &bindErr):
		response.UnprocessableEntity(w, bindErr.Fields)
	case errors.As(err, &draftErr):
		response.UnprocessableEntity(w, draftErr.Fields)
	case errors.Is(err, services.ErrDraftNotFound):
		response.NotFound(w, "Draft not found or expired")
	case errors.Is(err, gateway.ErrNotFound):
		response.NotFound(w, "Not found")
	case errors.Is(err, gateway.ErrNetwork):
		response.GatewayTimeout(w, "Upstream service unreachable")
	case errors.Is(err, identity.ErrInvalidCredentials):
		response.Unauthorized(w, "Invalid credentials")
	case errors.Is(err, identity.ErrProvider):
		response.BadGateway(w, "Identity provider error")
	default:
		var statusErr *gateway.StatusError
		if errors.As(err, &statusErr) {
			response.BadGateway(w, "Upstream service error")
			return
		}
		logger.WithCtx(r.Context()).Error("unhandled error", "error", err)
		response.ServerError(w, "Internal Server Error")
	}
}

// failResult maps an auth Result onto the matching envelope.
func failResult(w http.ResponseWriter, r *http.Request, res services.Result) {
	switch res.Kind {
	case services.KindInvalidCredentials:
		response.Unauthorized(w, "Invalid credentials")
	case services.KindProviderError:
		response.BadGateway(w, "Identity provider error")
	case services.KindNetworkError:
		response.GatewayTimeout(w, "Upstream service unreachable")
	default:
		logger.WithCtx(r.Context()).Error("unhandled auth failure", "error", res.Err)
		response.ServerError(w, "Internal Server Error")
	}
}
