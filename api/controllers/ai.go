package controllers

import (
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/kalaasetu/kalaasetu-backend/api/responses"
	"github.com/kalaasetu/kalaasetu-backend/api/validators"
	"github.com/kalaasetu/kalaasetu-backend/internal/ai"
	"github.com/kalaasetu/kalaasetu-backend/internal/enhance"
	pkgerrors "github.com/kalaasetu/kalaasetu-backend/pkg/errors"
	"github.com/kalaasetu/kalaasetu-backend/pkg/logger"
)

type enhanceDescriptionRequest struct {
	Text     string `json:"text" validate:"required"`
	Tone     string `json:"tone" validate:"required"`
	Audience string `json:"audience" validate:"required"`
	Length   string `json:"length" validate:"required"`
}

// AIEnhanceDescription rewrites an artist description as structured copy.
func AIEnhanceDescription(svc ai.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload enhanceDescriptionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.EnhanceDescription(r.Context(), ai.EnhanceInput{
			Text:     payload.Text,
			Tone:     payload.Tone,
			Audience: payload.Audience,
			Length:   payload.Length,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, "", responses.Payload{"enhanced": result})
	}
}

type chatRequest struct {
	Message string `json:"message" validate:"required"`
}

// AIChat answers marketplace questions through the scoped assistant.
func AIChat(svc ai.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload chatRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		reply, err := svc.Chat(r.Context(), payload.Message)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, "", responses.Payload{"reply": reply})
	}
}

type enhanceImageRequest struct {
	Image string `json:"image" validate:"required"`
}

// AIEnhanceImage runs the background-removal and upscaling pipeline over a
// base64-encoded image.
func AIEnhanceImage(pipeline *enhance.Pipeline, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload enhanceImageRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(payload.Image))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "image must be base64 encoded"))
			return
		}

		result, err := pipeline.EnhanceImage(r.Context(), raw)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, "", responses.Payload{"image": result})
	}
}
