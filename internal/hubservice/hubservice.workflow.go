package hubservice

import (
	"context"

	"github.com/itsatony/w4b_v3/server/apiary/internal/access"
	"github.com/itsatony/w4b_v3/server/apiary/internal/errors"
	"github.com/itsatony/w4b_v3/server/apiary/internal/models"
	"github.com/itsatony/w4b_v3/server/apiary/internal/repository"
	nuts "github.com/vaudience/go-nuts"
)

// requireRole loads an approved account holding role. Anything else is
// reported as a missing account.
func requireRole(ctx context.Context, tx repository.Store, id string, role models.Role) error {
	account, err := tx.Accounts().Get(ctx, id)
	if err != nil {
		if errors.IsNotFound(err) {
			return errors.NewNotFoundError(errors.CodeAccountNotFound, "no such "+string(role), nil)
		}
		return err
	}
	if account.Role != role || !account.Approved {
		return errors.NewNotFoundError(errors.CodeAccountNotFound, "no such "+string(role), nil)
	}
	return nil
}

func notRelated() error {
	return errors.NewAuthorizationError(errors.CodeNotFoundOrUnauthorized, "not found or not permitted", nil)
}

// SendReport creates a report from a beekeeper to an officer
func (s *HubService) SendReport(ctx context.Context, actor *models.Actor, draft models.ReportDraft) (*models.Report, error) {
	var report *models.Report
	err := s.guarded(ctx, func(tx repository.Store, guard *access.Guard) error {
		if err := guard.Require(ctx, actor, access.ActionReportCreate, access.Target{}); err != nil {
			return err
		}
		officerID, message := clean(draft.OfficerID), clean(draft.Message)
		if officerID == "" || message == "" {
			return missingFields("officer and message are required")
		}
		if err := requireRole(ctx, tx, officerID, models.RoleOfficer); err != nil {
			return err
		}

		now := s.now()
		report = &models.Report{
			ID:          nuts.NID("rp", 12),
			BeekeeperID: actor.ID,
			OfficerID:   officerID,
			Message:     message,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		return tx.Reports().Create(ctx, report)
	})
	if err != nil {
		return nil, err
	}
	nuts.L.Infof("[WorkflowService] Report %s sent to officer %s", report.ID, report.OfficerID)
	return report, nil
}

// UpdateReport edits a report's message and optionally re-addresses it
func (s *HubService) UpdateReport(ctx context.Context, actor *models.Actor, id string, draft models.ReportDraft) (*models.Report, error) {
	var report *models.Report
	err := s.guarded(ctx, func(tx repository.Store, guard *access.Guard) error {
		if err := guard.Require(ctx, actor, access.ActionReportUpdate, access.On(id)); err != nil {
			return err
		}
		message := clean(draft.Message)
		if message == "" {
			return missingFields("message is required")
		}

		existing, err := tx.Reports().Get(ctx, id)
		if err != nil {
			return err
		}
		if officerID := clean(draft.OfficerID); officerID != "" && officerID != existing.OfficerID {
			if err := requireRole(ctx, tx, officerID, models.RoleOfficer); err != nil {
				return err
			}
			existing.OfficerID = officerID
		}
		existing.Message = message
		existing.UpdatedAt = s.now()
		if err := tx.Reports().Update(ctx, existing); err != nil {
			return err
		}
		report = existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// DeleteReport lets the beekeeper author or the officer recipient remove a
// report. Recommendations that reference it are kept.
func (s *HubService) DeleteReport(ctx context.Context, actor *models.Actor, id string) error {
	action := access.ActionReportDelete
	if actor != nil && actor.Role == models.RoleOfficer {
		action = access.ActionReportDeleteAsRecipient
	}
	err := s.guarded(ctx, func(tx repository.Store, guard *access.Guard) error {
		if err := guard.Require(ctx, actor, action, access.On(id)); err != nil {
			return err
		}
		return tx.Reports().Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	nuts.L.Infof("[WorkflowService] Report %s deleted by %s", id, actor.ID)
	return nil
}

// ListSentReports lists the beekeeper's latest reports
func (s *HubService) ListSentReports(ctx context.Context, actor *models.Actor) ([]*models.SentReport, error) {
	if err := s.Guard.Require(ctx, actor, access.ActionReportListSent, access.Target{}); err != nil {
		return nil, err
	}
	return s.Store.Reports().ListSentBy(ctx, actor.ID, s.Limits.Workflow)
}

// ListReceivedReports lists reports addressed to the officer with the
// recommendations given on each
func (s *HubService) ListReceivedReports(ctx context.Context, actor *models.Actor) ([]*models.ReceivedReport, error) {
	if err := s.Guard.Require(ctx, actor, access.ActionReportListReceived, access.Target{}); err != nil {
		return nil, err
	}
	return s.Store.Reports().ListReceivedBy(ctx, actor.ID)
}

// AddRecommendation creates a recommendation from an officer to a
// beekeeper. A report link must be a report from that beekeeper to this
// officer; a reading link must be a reading of that beekeeper's hives.
func (s *HubService) AddRecommendation(ctx context.Context, actor *models.Actor, draft models.RecommendationDraft) (*models.Recommendation, error) {
	var rec *models.Recommendation
	err := s.guarded(ctx, func(tx repository.Store, guard *access.Guard) error {
		if err := guard.Require(ctx, actor, access.ActionRecommendationCreate, access.Target{}); err != nil {
			return err
		}
		beekeeperID, message := clean(draft.BeekeeperID), clean(draft.Message)
		if beekeeperID == "" || message == "" {
			return missingFields("beekeeper and message are required")
		}
		if err := requireRole(ctx, tx, beekeeperID, models.RoleBeekeeper); err != nil {
			return err
		}

		reportID, err := linkedReport(ctx, tx, draft.ReportID, actor.ID, beekeeperID)
		if err != nil {
			return err
		}
		readingID, err := linkedReading(ctx, tx, draft.ReadingID, beekeeperID)
		if err != nil {
			return err
		}

		now := s.now()
		rec = &models.Recommendation{
			ID:                nuts.NID("rc", 12),
			OfficerID:         actor.ID,
			BeekeeperID:       beekeeperID,
			ReportID:          reportID,
			ReadingID:         readingID,
			Message:           message,
			RelatedSensorData: clean(draft.RelatedSensorData),
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		return tx.Recommendations().Create(ctx, rec)
	})
	if err != nil {
		return nil, err
	}
	nuts.L.Infof("[WorkflowService] Recommendation %s sent to beekeeper %s", rec.ID, rec.BeekeeperID)
	return rec, nil
}

func linkedReport(ctx context.Context, tx repository.Store, id *string, officerID, beekeeperID string) (*string, error) {
	if id == nil || clean(*id) == "" {
		return nil, nil
	}
	ref := clean(*id)
	report, err := tx.Reports().Get(ctx, ref)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, notRelated()
		}
		return nil, err
	}
	if report.OfficerID != officerID || report.BeekeeperID != beekeeperID {
		return nil, notRelated()
	}
	return &ref, nil
}

func linkedReading(ctx context.Context, tx repository.Store, id *string, beekeeperID string) (*string, error) {
	if id == nil || clean(*id) == "" {
		return nil, nil
	}
	ref := clean(*id)
	reading, err := tx.Readings().Get(ctx, ref)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, notRelated()
		}
		return nil, err
	}
	hive, err := tx.Hives().Get(ctx, reading.HiveID)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, notRelated()
		}
		return nil, err
	}
	if hive.OwnerID != beekeeperID {
		return nil, notRelated()
	}
	return &ref, nil
}

// UpdateRecommendation edits the message and sensor annotation
func (s *HubService) UpdateRecommendation(ctx context.Context, actor *models.Actor, id string, draft models.RecommendationDraft) (*models.Recommendation, error) {
	var rec *models.Recommendation
	err := s.guarded(ctx, func(tx repository.Store, guard *access.Guard) error {
		if err := guard.Require(ctx, actor, access.ActionRecommendationUpdate, access.On(id)); err != nil {
			return err
		}
		message := clean(draft.Message)
		if message == "" {
			return missingFields("message is required")
		}
		existing, err := tx.Recommendations().Get(ctx, id)
		if err != nil {
			return err
		}
		existing.Message = message
		existing.RelatedSensorData = clean(draft.RelatedSensorData)
		existing.UpdatedAt = s.now()
		if err := tx.Recommendations().Update(ctx, existing); err != nil {
			return err
		}
		rec = existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// DeleteRecommendation is only open to the officer author
func (s *HubService) DeleteRecommendation(ctx context.Context, actor *models.Actor, id string) error {
	return s.guarded(ctx, func(tx repository.Store, guard *access.Guard) error {
		if err := guard.Require(ctx, actor, access.ActionRecommendationDelete, access.On(id)); err != nil {
			return err
		}
		return tx.Recommendations().Delete(ctx, id)
	})
}

// ListReceivedRecommendations lists the beekeeper's latest recommendations
func (s *HubService) ListReceivedRecommendations(ctx context.Context, actor *models.Actor) ([]*models.ReceivedRecommendation, error) {
	if err := s.Guard.Require(ctx, actor, access.ActionRecommendationListReceived, access.Target{}); err != nil {
		return nil, err
	}
	return s.Store.Recommendations().ListReceivedBy(ctx, actor.ID, s.Limits.Workflow)
}

// ListSentRecommendations lists the officer's latest recommendations
func (s *HubService) ListSentRecommendations(ctx context.Context, actor *models.Actor) ([]*models.SentRecommendation, error) {
	if err := s.Guard.Require(ctx, actor, access.ActionRecommendationListSent, access.Target{}); err != nil {
		return nil, err
	}
	return s.Store.Recommendations().ListSentBy(ctx, actor.ID, s.Limits.Workflow)
}
