package httpapi

import (
	"context"
	"net/http"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/gridiron-loader/internal/usecase"
)

const (
	googleAPIVersion = "2.0"
	errorDomain      = "gridiron-loader"
)

type googleResponseEnvelope struct {
	APIVersion string           `json:"apiVersion"`
	Data       any              `json:"data,omitempty"`
	Error      *googleErrorBody `json:"error,omitempty"`
}

type googleErrorBody struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Status  string            `json:"status"`
	Errors  []googleErrorItem `json:"errors,omitempty"`
}

type googleErrorItem struct {
	Domain   string `json:"domain"`
	Reason   string `json:"reason"`
	Message  string `json:"message"`
	Location string `json:"location,omitempty"`
}

type mappedError struct {
	HTTPStatus int
	Reason     string
	Status     string
}

// errorMappings is checked in order; the first match wins.
var errorMappings = []struct {
	target error
	mapped mappedError
}{
	{usecase.ErrInvalidInput, mappedError{http.StatusBadRequest, "invalidInput", "INVALID_ARGUMENT"}},
	{usecase.ErrNoEventFound, mappedError{http.StatusNotFound, "noEventFound", "NOT_FOUND"}},
	{usecase.ErrIncompletePeriod, mappedError{http.StatusBadGateway, "incompletePeriod", "UNAVAILABLE"}},
	{usecase.ErrFeedUnavailable, mappedError{http.StatusBadGateway, "feedUnavailable", "UNAVAILABLE"}},
	{usecase.ErrRegistryLookupFailed, mappedError{http.StatusServiceUnavailable, "registryLookupFailed", "UNAVAILABLE"}},
	{usecase.ErrDependencyUnavailable, mappedError{http.StatusServiceUnavailable, "dependencyUnavailable", "UNAVAILABLE"}},
	{context.DeadlineExceeded, mappedError{http.StatusGatewayTimeout, "deadlineExceeded", "DEADLINE_EXCEEDED"}},
}

var internalError = mappedError{http.StatusInternalServerError, "internalError", "INTERNAL"}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = sonic.ConfigDefault.NewEncoder(w).Encode(payload)
}

func writeSuccess(_ context.Context, w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Data:       data,
	})
}

// writeError reports err with the key of the unit that failed as location.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	mapped := mapError(err)
	if mapped == internalError {
		writeInternalError(ctx, w)
		return
	}

	item := googleErrorItem{
		Domain:  errorDomain,
		Reason:  mapped.Reason,
		Message: err.Error(),
	}
	var keyErr *usecase.KeyError
	if crerr.As(err, &keyErr) {
		item.Location = keyErr.Key.String()
	}

	writeJSON(w, mapped.HTTPStatus, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Error: &googleErrorBody{
			Code:    mapped.HTTPStatus,
			Message: err.Error(),
			Status:  mapped.Status,
			Errors:  []googleErrorItem{item},
		},
	})
}

// writeInternalError hides the cause from the client.
func writeInternalError(_ context.Context, w http.ResponseWriter) {
	const msg = "internal server error"

	writeJSON(w, internalError.HTTPStatus, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Error: &googleErrorBody{
			Code:    internalError.HTTPStatus,
			Message: msg,
			Status:  internalError.Status,
			Errors: []googleErrorItem{{
				Domain:  errorDomain,
				Reason:  internalError.Reason,
				Message: msg,
			}},
		},
	})
}

func mapError(err error) mappedError {
	for _, m := range errorMappings {
		if crerr.Is(err, m.target) {
			return m.mapped
		}
	}
	return internalError
}
