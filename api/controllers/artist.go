package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/kalaasetu/kalaasetu-backend/api/middleware"
	"github.com/kalaasetu/kalaasetu-backend/api/responses"
	"github.com/kalaasetu/kalaasetu-backend/api/validators"
	"github.com/kalaasetu/kalaasetu-backend/internal/applications"
	"github.com/kalaasetu/kalaasetu-backend/internal/uploads"
	"github.com/kalaasetu/kalaasetu-backend/pkg/enums"
	pkgerrors "github.com/kalaasetu/kalaasetu-backend/pkg/errors"
	"github.com/kalaasetu/kalaasetu-backend/pkg/logger"
)

const (
	applicationDataField = "applicationData"
	certificateField     = "certificate"
)

type applicationAddress struct {
	Street  string `json:"street" validate:"required"`
	City    string `json:"city" validate:"required"`
	State   string `json:"state" validate:"required"`
	Pincode string `json:"pincode" validate:"required"`
}

type applicationRequest struct {
	Gender       string             `json:"gender" validate:"required"`
	Address      applicationAddress `json:"address" validate:"required"`
	Category     string             `json:"category" validate:"required"`
	Experience   int                `json:"experience"`
	Introduction *string            `json:"introduction"`
}

// Enum and range checks happen in the service so failures come back itemized.
func (r applicationRequest) toInput() applications.SubmitInput {
	return applications.SubmitInput{
		Gender:       enums.Gender(r.Gender),
		Street:       r.Address.Street,
		City:         r.Address.City,
		State:        r.Address.State,
		Pincode:      r.Address.Pincode,
		Category:     enums.ArtCategory(r.Category),
		Experience:   r.Experience,
		Introduction: r.Introduction,
	}
}

func actorID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user context")
	}
	return id, nil
}

// ArtistApply handles the artist application submission.
func ArtistApply(svc applications.Service, store *uploads.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload applicationRequest
		file, header, err := validators.DecodeMultipartBody(r, applicationDataField, certificateField, &payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		certificateURL := ""
		if file != nil {
			stored, saveErr := func() (*uploads.StoredFile, error) {
				defer func() { _ = file.Close() }()
				return store.SaveCertificate(r.Context(), file, header.Header.Get("Content-Type"))
			}()
			if saveErr != nil {
				responses.WriteError(r.Context(), logg, w, saveErr)
				return
			}
			certificateURL = stored.Path
		}

		created, err := svc.Submit(r.Context(), userID, payload.toInput(), certificateURL)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, "application submitted", responses.Payload{"application": created})
	}
}

// ArtistApplicationStatus returns the caller's application.
func ArtistApplicationStatus(svc applications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		application, err := svc.Status(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, "", responses.Payload{"application": application})
	}
}

// ArtistApplicationUpdate handles the resubmission flow. The certificate part
// is optional; omitting it retains the previous upload.
func ArtistApplicationUpdate(svc applications.Service, store *uploads.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload applicationRequest
		file, header, err := validators.DecodeMultipartBody(r, applicationDataField, certificateField, &payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var certificateURL *string
		if file != nil {
			stored, saveErr := func() (*uploads.StoredFile, error) {
				defer func() { _ = file.Close() }()
				return store.SaveCertificate(r.Context(), file, header.Header.Get("Content-Type"))
			}()
			if saveErr != nil {
				responses.WriteError(r.Context(), logg, w, saveErr)
				return
			}
			certificateURL = &stored.Path
		}

		updated, err := svc.Update(r.Context(), userID, payload.toInput(), certificateURL)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, "application updated", responses.Payload{"application": updated})
	}
}
