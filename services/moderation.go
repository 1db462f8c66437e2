package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dtnghia/syllabus-backend/models"
	"github.com/dtnghia/syllabus-backend/utils"
)

// Moderation decision engine. Requests are pending until exactly one
// approve or reject wins; the winning decision's status flip is a
// conditional update so a concurrent decision loses with InvalidState.

// ApplyModerationRequest runs a request's payload against its target
// subject in memory. On any error the subject is left untouched (chapters
// are only ever appended after all preconditions pass, and callers discard
// the loaded copy on failure).
func ApplyModerationRequest(req *models.ModerationRequest, subject *models.Subject) error {
	switch req.Type {
	case models.ModerationAddChapters:
		payload, err := req.AddChaptersData()
		if err != nil {
			return err
		}
		if payload.SubjectID != subject.ID {
			return fmt.Errorf("request %s targets subject %s, got %s: %w", req.ID, payload.SubjectID, subject.ID, utils.ErrValidation)
		}
		_, err = subject.AddChapters(payload.UnitNumber, payload.Chapters)
		return err
	default:
		return fmt.Errorf("unsupported moderation type %q: %w", req.Type, utils.ErrValidation)
	}
}

// decideGuard rejects decisions on requests that already left pending.
func decideGuard(req *models.ModerationRequest) error {
	if !req.IsPending() {
		return fmt.Errorf("request %s is already %s: %w", req.ID, req.Status, utils.ErrInvalidState)
	}
	return nil
}

// flipStatus performs the conditional pending -> decided update. Zero rows
// means another decision got there first.
func flipStatus(tx *gorm.DB, req *models.ModerationRequest, to models.ModerationStatus, reviewerID uuid.UUID) error {
	now := time.Now()
	res := tx.Model(&models.ModerationRequest{}).
		Where("id = ? AND status = ?", req.ID, models.ModerationPending).
		Updates(map[string]interface{}{
			"status":      to,
			"reviewed_by": reviewerID,
			"reviewed_at": now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("request %s was decided concurrently: %w", req.ID, utils.ErrInvalidState)
	}
	req.Status = to
	req.ReviewedBy = &reviewerID
	req.ReviewedAt = &now
	return nil
}

// ApproveModerationRequest resolves the target subject, applies the
// request and flips the status, all in one transaction. If anything fails
// the request stays pending and the tree is untouched.
func ApproveModerationRequest(db *gorm.DB, req *models.ModerationRequest, reviewerID uuid.UUID) (*models.Subject, error) {
	if err := decideGuard(req); err != nil {
		return nil, err
	}

	payload, err := req.AddChaptersData()
	if err != nil {
		return nil, err
	}

	var subject models.Subject
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&subject, "id = ?", payload.SubjectID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("subject %s not found: %w", payload.SubjectID, utils.ErrNotFound)
			}
			return err
		}
		if err := ApplyModerationRequest(req, &subject); err != nil {
			return err
		}
		if err := tx.Save(&subject).Error; err != nil {
			return err
		}
		return flipStatus(tx, req, models.ModerationApproved, reviewerID)
	})
	if err != nil {
		return nil, err
	}
	return &subject, nil
}

// RejectModerationRequest flips a pending request to rejected. No tree
// mutation happens on reject.
func RejectModerationRequest(db *gorm.DB, req *models.ModerationRequest, reviewerID uuid.UUID) error {
	if err := decideGuard(req); err != nil {
		return err
	}
	return flipStatus(db, req, models.ModerationRejected, reviewerID)
}
