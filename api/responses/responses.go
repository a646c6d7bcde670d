package responses

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	pkgerrors "github.com/kalaasetu/kalaasetu-backend/pkg/errors"
	"github.com/kalaasetu/kalaasetu-backend/pkg/logger"
)

// Payload carries the response body fields merged into the envelope next to
// the success flag.
type Payload map[string]any

func WriteSuccess(w http.ResponseWriter, message string, payload Payload) {
	WriteSuccessStatus(w, http.StatusOK, message, payload)
}

func WriteSuccessStatus(w http.ResponseWriter, status int, message string, payload Payload) {
	WriteStatus(w, status, true, message, payload)
}

// WriteStatus writes the envelope with an explicit success flag; used by the
// health endpoint to report a degraded state with its check detail.
func WriteStatus(w http.ResponseWriter, status int, success bool, message string, payload Payload) {
	body := map[string]any{"success": success}
	if message != "" {
		body["message"] = message
	}
	for key, value := range payload {
		body[key] = value
	}
	writeJSON(w, status, body)
}

func WriteError(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, err error) {
	if err == nil {
		err = errors.New("unknown error")
	}

	typed := pkgerrors.As(err)
	if typed == nil {
		typed = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected error")
	}

	meta := pkgerrors.MetadataFor(typed.Code())

	msg := meta.PublicMessage
	switch typed.Code() {
	case pkgerrors.CodeValidation,
		pkgerrors.CodeForbidden,
		pkgerrors.CodeUnauthorized,
		pkgerrors.CodeNotFound,
		pkgerrors.CodeConflict,
		pkgerrors.CodeStateConflict,
		pkgerrors.CodeRateLimit:
		if m := typed.Message(); m != "" {
			msg = m
		}
	}

	body := map[string]any{
		"success": false,
		"message": msg,
	}
	if meta.DetailsAllowed {
		if details := typed.Details(); details != nil {
			body["errors"] = details
		}
	}

	if logg != nil {
		dump := pkgerrors.Dump(err)

		fields := map[string]any{
			"error":         dump.TopMessage,
			"error_code":    dump.Code,
			"error_chain":   dump.Chain,
			"pg_code":       dump.PGCode,
			"pg_detail":     dump.PGDetail,
			"pg_message":    dump.PGMessage,
			"pg_table":      dump.PGTable,
			"pg_column":     dump.PGColumn,
			"pg_constraint": dump.PGConstraint,
		}

		ctx = logg.WithFields(ctx, fields)
		logg.Error(ctx, "request.error", err)
	}

	writeJSON(w, meta.HTTPStatus, body)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf(`{"level":"error","msg":"failed to encode response","err":"%v"}`, err)
	}
}
