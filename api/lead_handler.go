package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/contractor-site-backend/database"
	"github.com/rpupo63/contractor-site-backend/errs"
	"github.com/rpupo63/contractor-site-backend/forms"
	"github.com/rpupo63/contractor-site-backend/models"
)

const notifyTimeout = 30 * time.Second

type leadHandler struct {
	responder Responder
	logger    zerolog.Logger
	leadRepo  *database.LeadRepo
	notifier  leadNotifier
}

func newLeadHandler(leadRepo *database.LeadRepo, notifier leadNotifier) leadHandler {
	logger := log.With().Str("handlerName", "leadHandler").Logger()

	return leadHandler{
		responder: NewResponder(logger),
		logger:    logger,
		leadRepo:  leadRepo,
		notifier:  notifier,
	}
}

// leadRequest is the body of POST /api/leads.
type leadRequest struct {
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Email     string   `json:"email"`
	Phone     string   `json:"phone"`
	Address   string   `json:"address"`
	City      string   `json:"city"`
	State     string   `json:"state"`
	Zip       string   `json:"zip"`
	Message   string   `json:"message"`
	Services  []string `json:"services"`
	Source    string   `json:"source"`
}

func (req leadRequest) form() forms.LeadForm {
	return forms.LeadForm{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Zip:       req.Zip,
		Message:   req.Message,
	}
}

func (req leadRequest) lead() *models.Lead {
	return &models.Lead{
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Email:     strings.TrimSpace(req.Email),
		Phone:     optional(req.Phone),
		Address:   optional(req.Address),
		City:      optional(req.City),
		State:     optional(req.State),
		Zip:       optional(req.Zip),
		Message:   optional(req.Message),
		Services:  models.StringList(req.Services),
		Source:    optional(req.Source),
	}
}

// submitLead validates and stores an estimate request from the public site
// @Summary Submit lead
// @Tags Leads
// @Accept json
// @Produce json
// @Success 201 {object} models.Lead
// @Failure 400 {object} ErrorResponse "Validation failed; fieldErrors lists each field"
// @Router /api/leads [post]
func (h leadHandler) submitLead() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req leadRequest
		if err := decodeJSON(r, "lead", &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if result := forms.ValidateLeadForm(req.form()); !result.IsValid {
			h.responder.WriteError(w, errs.NewValidationError(result.Errors))
			return
		}

		lead, err := h.leadRepo.Create(r.Context(), req.lead())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "lead", err))
			return
		}

		h.logger.Info().Str("leadId", lead.ID.String()).Msg("New lead submitted")
		h.notify(r.Context(), lead)
		h.responder.WriteJSONStatus(w, http.StatusCreated, lead)
	}
}

func (h leadHandler) notify(ctx context.Context, lead *models.Lead) {
	if h.notifier == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	go func() {
		defer cancel()
		if err := h.notifier.NotifyNewLead(ctx, lead); err != nil {
			h.logger.Error().Err(err).Str("leadId", lead.ID.String()).Msg("Lead notification failed")
		}
	}()
}

// listLeads returns every lead, newest first, optionally filtered by status
// @Summary List leads
// @Tags Admin
// @Param status query string false "Lead status"
// @Router /admin/api/leads [get]
func (h leadHandler) listLeads() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		leads, err := h.leadRepo.FindAll(r.Context(), r.URL.Query().Get("status"))
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "leads", err))
			return
		}
		h.responder.WriteJSON(w, leads)
	}
}

func (h leadHandler) getLead() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		lead, err := h.leadRepo.FindByID(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "lead", err))
			return
		}
		h.responder.WriteJSON(w, lead)
	}
}

func (h leadHandler) updateLead() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		var patch models.LeadUpdate
		if err := decodeJSON(r, "lead update", &patch); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if patch.Status != nil && !models.ValidLeadStatus(*patch.Status) {
			h.responder.WriteError(w, errs.NewInvalidFieldError("status", "must be one of new, contacted, quoted, won, lost"))
			return
		}

		lead, err := h.leadRepo.Update(r.Context(), id, patch)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "lead", err))
			return
		}
		h.logger.Info().
			Str("leadId", id.String()).
			Str("admin", ctxGetAdminSubject(r.Context())).
			Msg("Lead updated")
		h.responder.WriteJSON(w, lead)
	}
}

func (h leadHandler) deleteLead() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := h.leadRepo.Delete(r.Context(), id); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "lead", err))
			return
		}
		h.logger.Info().
			Str("leadId", id.String()).
			Str("admin", ctxGetAdminSubject(r.Context())).
			Msg("Lead deleted")
		w.WriteHeader(http.StatusNoContent)
	}
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
