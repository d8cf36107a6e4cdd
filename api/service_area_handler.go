package api

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/contractor-site-backend/database"
	"github.com/rpupo63/contractor-site-backend/errs"
	"github.com/rpupo63/contractor-site-backend/models"
)

type serviceAreaHandler struct {
	responder       Responder
	logger          zerolog.Logger
	serviceAreaRepo *database.ServiceAreaRepo
}

func newServiceAreaHandler(serviceAreaRepo *database.ServiceAreaRepo) serviceAreaHandler {
	logger := log.With().Str("handlerName", "serviceAreaHandler").Logger()

	return serviceAreaHandler{
		responder:       NewResponder(logger),
		logger:          logger,
		serviceAreaRepo: serviceAreaRepo,
	}
}

// listServiceAreas returns covered cities, by zip or state when given
// @Summary List service areas
// @Tags ServiceAreas
// @Param state query string false "Two-letter state"
// @Param zip query string false "ZIP code"
// @Router /api/service-areas [get]
func (h serviceAreaHandler) listServiceAreas() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		var (
			areas []*models.ServiceArea
			err   error
		)
		switch {
		case q.Get("zip") != "":
			areas, err = h.serviceAreaRepo.FindByZip(r.Context(), q.Get("zip"))
		case q.Get("state") != "":
			areas, err = h.serviceAreaRepo.FindByState(r.Context(), strings.ToUpper(q.Get("state")))
		default:
			areas, err = h.serviceAreaRepo.FindAll(r.Context())
		}
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "service areas", err))
			return
		}
		h.responder.WriteJSON(w, areas)
	}
}

type serviceCheckResponse struct {
	City        string `json:"city"`
	State       string `json:"state"`
	Zip         string `json:"zip,omitempty"`
	Serviceable bool   `json:"serviceable"`
}

// checkServiceArea tells the estimate form whether an address is covered
// @Summary Check coverage
// @Tags ServiceAreas
// @Param city query string true "City"
// @Param state query string true "State"
// @Param zip query string false "ZIP code"
// @Router /api/service-areas/check [get]
func (h serviceAreaHandler) checkServiceArea() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		resp := serviceCheckResponse{
			City:  strings.TrimSpace(q.Get("city")),
			State: strings.ToUpper(strings.TrimSpace(q.Get("state"))),
			Zip:   strings.TrimSpace(q.Get("zip")),
		}
		if resp.City == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("city"))
			return
		}
		if resp.State == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("state"))
			return
		}

		ok, err := h.serviceAreaRepo.IsServiceable(r.Context(), resp.City, resp.State, resp.Zip)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("check", "service area", err))
			return
		}
		resp.Serviceable = ok
		h.responder.WriteJSON(w, resp)
	}
}

func (h serviceAreaHandler) createServiceArea() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var area models.ServiceArea
		if err := decodeJSON(r, "service area", &area); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if strings.TrimSpace(area.City) == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("city"))
			return
		}
		if strings.TrimSpace(area.State) == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("state"))
			return
		}
		area.State = strings.ToUpper(area.State)

		created, err := h.serviceAreaRepo.Create(r.Context(), &area)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "service area", err))
			return
		}
		h.responder.WriteJSONStatus(w, http.StatusCreated, created)
	}
}

func (h serviceAreaHandler) updateServiceArea() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		var patch models.ServiceAreaUpdate
		if err := decodeJSON(r, "service area update", &patch); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		updated, err := h.serviceAreaRepo.Update(r.Context(), id, patch)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "service area", err))
			return
		}
		h.responder.WriteJSON(w, updated)
	}
}

func (h serviceAreaHandler) deleteServiceArea() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := h.serviceAreaRepo.Delete(r.Context(), id); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "service area", err))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
