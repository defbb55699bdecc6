package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/akolanti/pdfchat/internal/adapter"
	"github.com/akolanti/pdfchat/internal/domain/commonModels"
	"github.com/akolanti/pdfchat/pkg/logger_i"
)

const msgCredentials = "Could not validate credentials"

func writeJsonResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but can't send a clean status code now
		logger_i.NewLogger("RequestHandler").Error("Error encoding response", "error", err)
	}
}

func WriteErrorResponse(w http.ResponseWriter, httpCode int, message string) {
	writeJsonResponse(w, httpCode, adapter.ToError(message))
}

// StatusOf maps an error kind to its HTTP status.
func StatusOf(err error) int {
	switch commonModels.KindOf(err) {
	case commonModels.KindValidation, commonModels.KindConflict:
		return http.StatusBadRequest
	case commonModels.KindAuth:
		return http.StatusUnauthorized
	case commonModels.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// WriteError is the single place errors become responses.
func WriteError(w http.ResponseWriter, log *logger_i.Logger, err error) {
	status := StatusOf(err)
	message := commonModels.Message(err)
	if commonModels.KindOf(err) == commonModels.KindAuth {
		message = msgCredentials
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	if status >= http.StatusInternalServerError {
		log.Error("request failed", "status", status, "error", err)
	} else {
		log.Warn("request rejected", "status", status, "error", err)
	}
	WriteErrorResponse(w, status, message)
}

func validateContext(ctx context.Context, log *logger_i.Logger) bool {
	if err := ctx.Err(); err != nil {
		log.Warn("context error", "error", err)
		return false
	}
	return true
}

func isTooLarge(err error) bool {
	var maxBytes *http.MaxBytesError
	return errors.As(err, &maxBytes)
}
