package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kalaasetu/kalaasetu-backend/api/responses"
	"github.com/kalaasetu/kalaasetu-backend/api/validators"
	"github.com/kalaasetu/kalaasetu-backend/internal/hires"
	"github.com/kalaasetu/kalaasetu-backend/internal/requirements"
	"github.com/kalaasetu/kalaasetu-backend/pkg/enums"
	pkgerrors "github.com/kalaasetu/kalaasetu-backend/pkg/errors"
	"github.com/kalaasetu/kalaasetu-backend/pkg/logger"
	"github.com/kalaasetu/kalaasetu-backend/pkg/pagination"
)

type requirementRequest struct {
	Title            string          `json:"title" validate:"required"`
	Description      string          `json:"description" validate:"required"`
	RoleWanted       string          `json:"role_wanted" validate:"required"`
	Location         string          `json:"location" validate:"required"`
	Compensation     decimal.Decimal `json:"compensation"`
	CompensationType string          `json:"compensation_type" validate:"required"`
	Category         string          `json:"category" validate:"required"`
	Status           *string         `json:"status"`
}

func (r requirementRequest) toInput() requirements.RequirementInput {
	input := requirements.RequirementInput{
		Title:            r.Title,
		Description:      r.Description,
		RoleWanted:       r.RoleWanted,
		Location:         r.Location,
		Compensation:     r.Compensation,
		CompensationType: enums.CompensationType(r.CompensationType),
		Category:         enums.ArtCategory(r.Category),
	}
	if r.Status != nil {
		status := enums.RequirementStatus(*r.Status)
		input.Status = &status
	}
	return input
}

func requirementListParams(r *http.Request) (requirements.ListParams, error) {
	params := requirements.ListParams{}

	if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
		status, err := enums.ParseRequirementStatus(raw)
		if err != nil {
			return params, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter")
		}
		params.Status = &status
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("category")); raw != "" {
		category, err := enums.ParseArtCategory(raw)
		if err != nil {
			return params, pkgerrors.New(pkgerrors.CodeValidation, "invalid category filter")
		}
		params.Category = &category
	}

	page, err := validators.ParseQueryInt(r, "page", 1, 1, 1<<30)
	if err != nil {
		return params, err
	}
	limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		return params, err
	}
	params.Page = page
	params.Limit = limit
	return params, nil
}

// RequirementCreate posts a new client requirement.
func RequirementCreate(svc requirements.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clientID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload requirementRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.Create(r.Context(), clientID, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, "requirement posted", responses.Payload{"requirement": created})
	}
}

// RequirementsListMine returns the calling client's requirements.
func RequirementsListMine(svc requirements.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clientID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params, err := requirementListParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListMine(r.Context(), clientID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, "", responses.Payload{
			"requirements": result.Items,
			"pagination":   result.Pagination,
		})
	}
}

// RequirementsListPublic returns active requirements for discovery.
func RequirementsListPublic(svc requirements.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := requirementListParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListPublic(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, "", responses.Payload{
			"requirements": result.Items,
			"pagination":   result.Pagination,
		})
	}
}

func requirementIDParam(r *http.Request) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "id"))
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid requirement id")
	}
	return id, nil
}

// RequirementUpdate edits a client's own requirement.
func RequirementUpdate(svc requirements.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clientID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := requirementIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload requirementRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.Update(r.Context(), clientID, id, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, "requirement updated", responses.Payload{"requirement": updated})
	}
}

// RequirementDelete removes a client's own requirement.
func RequirementDelete(svc requirements.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clientID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := requirementIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), clientID, id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, "requirement deleted", nil)
	}
}

type hireCreateRequest struct {
	ArtistID      string  `json:"artist_id" validate:"required"`
	RequirementID *string `json:"requirement_id"`
}

// HireCreate records a client-artist hire.
func HireCreate(svc hires.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clientID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload hireCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		artistID, err := uuid.Parse(strings.TrimSpace(payload.ArtistID))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid artist_id"))
			return
		}

		input := hires.CreateInput{ArtistID: artistID}
		if payload.RequirementID != nil {
			requirementID, err := uuid.Parse(strings.TrimSpace(*payload.RequirementID))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid requirement_id"))
				return
			}
			input.RequirementID = &requirementID
		}

		created, err := svc.Create(r.Context(), clientID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, "artist hired", responses.Payload{"hire": created})
	}
}

// HiresList returns the calling client's hires.
func HiresList(svc hires.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clientID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
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

		result, err := svc.List(r.Context(), clientID, page, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, "", responses.Payload{
			"hires":      result.Items,
			"pagination": result.Pagination,
		})
	}
}

type hireStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// HireStatusUpdate changes the status of a client's hire.
func HireStatusUpdate(svc hires.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clientID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		raw := strings.TrimSpace(chi.URLParam(r, "id"))
		hireID, err := uuid.Parse(raw)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid hire id"))
			return
		}

		var payload hireStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.UpdateStatus(r.Context(), clientID, hireID, enums.HireStatus(payload.Status))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, "hire updated", responses.Payload{"hire": updated})
	}
}
