package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/contractor-site-backend/errs"
	"github.com/rpupo63/contractor-site-backend/models"
)

// OrNil logs err with the operation name and its parameters and returns nil
// in its place. A not-found error is the expected empty case and is only
// logged at debug level.
func OrNil[T any](logger zerolog.Logger, op string, params map[string]any, v *T, err error) *T {
	if err != nil {
		logFailure(logger, op, params, err)
		return nil
	}
	return v
}

// OrEmpty is OrNil for list reads; it never returns a nil slice.
func OrEmpty[T any](logger zerolog.Logger, op string, params map[string]any, v []*T, err error) []*T {
	if err != nil || v == nil {
		if err != nil {
			logFailure(logger, op, params, err)
		}
		return []*T{}
	}
	return v
}

// Succeeded collapses err to a success flag.
func Succeeded(logger zerolog.Logger, op string, params map[string]any, err error) bool {
	if err != nil {
		logFailure(logger, op, params, err)
		return false
	}
	return true
}

func logFailure(logger zerolog.Logger, op string, params map[string]any, err error) {
	event := logger.Error()
	if errs.KindOf(err) == errs.KindNotFound {
		event = logger.Debug()
	}
	event.Err(err).
		Str("operation", op).
		Stringer("kind", errs.KindOf(err)).
		Fields(params).
		Msg("Database operation failed")
}

// Leads offers the lead repository with soft failures: any error is logged
// and comes back as nil, false or an empty slice. Callers that need to tell
// "not found" from "database down" use LeadRepo directly.
type Leads struct {
	repo   *LeadRepo
	logger zerolog.Logger
}

func NewLeads(repo *LeadRepo) Leads {
	return Leads{
		repo:   repo,
		logger: log.With().Str("component", "leads").Logger(),
	}
}

func (l Leads) CreateLead(ctx context.Context, lead *models.Lead) *models.Lead {
	created, err := l.repo.Create(ctx, lead)
	return OrNil(l.logger, "createLead", map[string]any{"lead": lead}, created, err)
}

func (l Leads) GetLeads(ctx context.Context, status string) []*models.Lead {
	leads, err := l.repo.FindAll(ctx, status)
	return OrEmpty(l.logger, "getLeads", map[string]any{"status": status}, leads, err)
}

func (l Leads) GetLeadByID(ctx context.Context, id uuid.UUID) *models.Lead {
	lead, err := l.repo.FindByID(ctx, id)
	return OrNil(l.logger, "getLeadById", map[string]any{"id": id.String()}, lead, err)
}

func (l Leads) UpdateLead(ctx context.Context, id uuid.UUID, updates models.LeadUpdate) *models.Lead {
	lead, err := l.repo.Update(ctx, id, updates)
	return OrNil(l.logger, "updateLead", map[string]any{"id": id.String(), "updates": updates.Columns()}, lead, err)
}

func (l Leads) DeleteLead(ctx context.Context, id uuid.UUID) bool {
	err := l.repo.Delete(ctx, id)
	return Succeeded(l.logger, "deleteLead", map[string]any{"id": id.String()}, err)
}
