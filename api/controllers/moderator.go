package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kalaasetu/kalaasetu-backend/api/responses"
	"github.com/kalaasetu/kalaasetu-backend/api/validators"
	"github.com/kalaasetu/kalaasetu-backend/internal/applications"
	"github.com/kalaasetu/kalaasetu-backend/pkg/enums"
	pkgerrors "github.com/kalaasetu/kalaasetu-backend/pkg/errors"
	"github.com/kalaasetu/kalaasetu-backend/pkg/logger"
	"github.com/kalaasetu/kalaasetu-backend/pkg/pagination"
)

func applicationIDParam(r *http.Request) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "id"))
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid application id")
	}
	return id, nil
}

// ModeratorApplicationsList returns the filtered, paginated application queue.
func ModeratorApplicationsList(svc applications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params := applications.ListParams{}

		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err := enums.ParseApplicationStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter"))
				return
			}
			params.Status = &status
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("category")); raw != "" {
			category, err := enums.ParseArtCategory(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid category filter"))
				return
			}
			params.Category = &category
		}

		page, err := validators.ParseQueryInt(r, "page", 1, 1, 1<<30)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params.Page = page
		params.Limit = limit

		result, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, "", responses.Payload{
			"applications": result.Items,
			"pagination":   result.Pagination,
		})
	}
}

// ModeratorApplicationGet returns a single application with identities resolved.
func ModeratorApplicationGet(svc applications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := applicationIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		application, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, "", responses.Payload{"application": application})
	}
}

// ModeratorApplicationApprove transitions a pending application to approved.
func ModeratorApplicationApprove(svc applications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		moderatorID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := applicationIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		application, err := svc.Approve(r.Context(), moderatorID, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, "application approved", responses.Payload{"application": application})
	}
}

type rejectRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// ModeratorApplicationReject transitions a pending application to rejected.
func ModeratorApplicationReject(svc applications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		moderatorID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := applicationIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload rejectRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		application, err := svc.Reject(r.Context(), moderatorID, id, payload.Reason)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, "application rejected", responses.Payload{"application": application})
	}
}

// ModeratorStats returns the application dashboard counts.
func ModeratorStats(svc applications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := svc.Stats(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, "", responses.Payload{"stats": stats})
	}
}
