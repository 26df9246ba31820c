package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/velotown/bikerental-backend/api/render"
	"github.com/velotown/bikerental-backend/api/validators"
	"github.com/velotown/bikerental-backend/internal/catalog"
	pkgerrors "github.com/velotown/bikerental-backend/pkg/errors"
	"github.com/velotown/bikerental-backend/pkg/logger"
)

// Home lists every active bike with the type sidebar. An optional ?type=
// query narrows the listing the same way /type/{typeID} does.
func Home(svc catalog.Service, rnd *render.Renderer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := catalog.BikeListFilter{}
		data := map[string]any{}

		if raw := strings.TrimSpace(r.URL.Query().Get("type")); raw != "" {
			typeID, err := uuid.Parse(raw)
			if err != nil {
				rnd.Error(r.Context(), w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid type id"))
				return
			}
			bikeType, err := svc.GetType(r.Context(), typeID)
			if err != nil {
				rnd.Error(r.Context(), w, err)
				return
			}
			filter.TypeID = &typeID
			data["current_type"] = bikeType
		}

		result, err := svc.Browse(r.Context(), filter)
		if err != nil {
			rnd.Error(r.Context(), w, err)
			return
		}
		data["bikes"] = result.Bikes
		data["types"] = result.Types
		rnd.HTML(r.Context(), w, http.StatusOK, "home.html", data)
	}
}

// BikeDetail shows one bike with up to four related ones.
func BikeDetail(svc catalog.Service, rnd *render.Renderer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.UUIDParam(r, "bikeID")
		if err != nil {
			rnd.Error(r.Context(), w, err)
			return
		}
		bike, err := svc.GetBike(r.Context(), id)
		if err != nil {
			rnd.Error(r.Context(), w, err)
			return
		}
		related, err := svc.RelatedBikes(r.Context(), bike)
		if err != nil {
			rnd.Error(r.Context(), w, err)
			return
		}
		rnd.HTML(r.Context(), w, http.StatusOK, "bike_detail.html", map[string]any{
			"bike":          bike,
			"related_bikes": related,
		})
	}
}

// BikesByType reuses the home page filtered to one type.
func BikesByType(svc catalog.Service, rnd *render.Renderer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.UUIDParam(r, "typeID")
		if err != nil {
			rnd.Error(r.Context(), w, err)
			return
		}
		bikeType, err := svc.GetType(r.Context(), id)
		if err != nil {
			rnd.Error(r.Context(), w, err)
			return
		}
		result, err := svc.Browse(r.Context(), catalog.BikeListFilter{TypeID: &id})
		if err != nil {
			rnd.Error(r.Context(), w, err)
			return
		}
		rnd.HTML(r.Context(), w, http.StatusOK, "home.html", map[string]any{
			"bikes":        result.Bikes,
			"types":        result.Types,
			"current_type": bikeType,
		})
	}
}

// Search reuses the home page with a free-text filter over name, brand,
// and description.
func Search(svc catalog.Service, rnd *render.Renderer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		term := strings.TrimSpace(r.URL.Query().Get("search"))
		result, err := svc.Browse(r.Context(), catalog.BikeListFilter{Search: term})
		if err != nil {
			rnd.Error(r.Context(), w, err)
			return
		}
		rnd.HTML(r.Context(), w, http.StatusOK, "home.html", map[string]any{
			"bikes":       result.Bikes,
			"types":       result.Types,
			"search_term": term,
		})
	}
}
