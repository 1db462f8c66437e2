package controllers

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dtnghia/syllabus-backend/models"
	"github.com/dtnghia/syllabus-backend/services"
	"github.com/dtnghia/syllabus-backend/utils"
	"github.com/dtnghia/syllabus-backend/ws"
)

// Submission is deliberately cheap: the payload shape is not validated
// here, only when an admin approves. Bad payloads sit in the queue and
// fail at decision time instead of ever touching the tree.

type SubmitModerationInput struct {
	SubjectID  uuid.UUID             `json:"subject_id" binding:"required"`
	UnitNumber int                   `json:"unit_number" binding:"required"`
	Chapters   []models.ChapterDraft `json:"chapters"`
}

// POST /api/user/moderation-requests
func SubmitModerationRequest(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input SubmitModerationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "subject_id and unit_number are required"})
		return
	}

	req, err := models.NewAddChaptersRequest(userID, models.AddChaptersPayload{
		SubjectID:  input.SubjectID,
		UnitNumber: input.UnitNumber,
		Chapters:   input.Chapters,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot build request"})
		return
	}

	if err := db.Create(req).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot create moderation request"})
		return
	}

	ws.H.BroadcastModeration(ws.ModerationEvent{
		Event:       "submitted",
		RequestID:   req.ID.String(),
		RequestType: string(req.Type),
		Status:      string(req.Status),
		SubmittedBy: userID.String(),
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "request submitted for review",
		"request": req,
	})
}

// POST /api/user/moderation-requests/proposal
// Asks Gemini for chapter drafts the user can review before submitting.
// Accepts multipart with an optional source file (.pdf/.txt) or plain JSON.
func GenerateChapterProposal(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	subjectIDStr := c.PostForm("subject_id")
	if subjectIDStr == "" {
		subjectIDStr = c.Query("subject_id")
	}
	subjectID, err := uuid.Parse(subjectIDStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid subject_id"})
		return
	}

	var unitNumber int
	if _, err := fmt.Sscanf(c.DefaultPostForm("unit_number", c.Query("unit_number")), "%d", &unitNumber); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid unit_number"})
		return
	}

	var subject models.Subject
	if err := db.First(&subject, "id = ?", subjectID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "subject not found"})
		return
	}

	sourceText := ""
	if fileHeader, err := c.FormFile("source"); err == nil {
		sourceText, err = services.ExtractText(fileHeader)
		if err != nil {
			respondError(c, err)
			return
		}
	}

	guidance := c.DefaultPostForm("guidance", c.Query("guidance"))

	drafts, err := services.GenerateChapterProposal(c.Request.Context(), &subject, unitNumber, guidance, sourceText)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"subject_id":  subject.ID,
		"unit_number": unitNumber,
		"chapters":    drafts,
	})
}

// GET /api/admin/moderation-requests
// Pending only, newest first, with the submitter projected for display.
func ListPendingRequests(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	var requests []models.ModerationRequest
	if err := db.
		Where("status = ?", models.ModerationPending).
		Preload("Submitter", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, full_name, email, avatar_url")
		}).
		Order("created_at DESC").
		Find(&requests).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot list moderation requests"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  requests,
		"total": len(requests),
	})
}

func loadRequest(c *gin.Context, db *gorm.DB) (*models.ModerationRequest, bool) {
	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request id"})
		return nil, false
	}

	var req models.ModerationRequest
	if err := db.Preload("Submitter").First(&req, "id = ?", requestID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "moderation request not found"})
		return nil, false
	}
	return &req, true
}

func notifySubmitter(req *models.ModerationRequest, decision string) {
	if req.Submitter.Email == "" {
		return
	}
	body := fmt.Sprintf("<p>Your syllabus change request <b>%s</b> has been <b>%s</b>.</p>", req.ID, decision)
	if err := utils.SendEmail(req.Submitter.Email, "Your syllabus request was "+decision, body); err != nil {
		log.Println("cannot notify submitter:", err)
	}
}

// POST /api/admin/moderation-requests/:id/approve
func ApproveRequest(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	reviewerID, ok := currentUserID(c)
	if !ok {
		return
	}

	req, ok := loadRequest(c, db)
	if !ok {
		return
	}

	subject, err := services.ApproveModerationRequest(db, req, reviewerID)
	if err != nil {
		respondError(c, err)
		return
	}

	ws.H.BroadcastModeration(ws.ModerationEvent{
		Event:       "approved",
		RequestID:   req.ID.String(),
		RequestType: string(req.Type),
		Status:      string(req.Status),
		SubmittedBy: req.SubmittedBy.String(),
	})
	go notifySubmitter(req, "approved")

	c.JSON(http.StatusOK, gin.H{
		"message": "request approved and applied",
		"request": req,
		"subject": subject,
	})
}

// POST /api/admin/moderation-requests/:id/reject
func RejectRequest(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	reviewerID, ok := currentUserID(c)
	if !ok {
		return
	}

	req, ok := loadRequest(c, db)
	if !ok {
		return
	}

	if err := services.RejectModerationRequest(db, req, reviewerID); err != nil {
		respondError(c, err)
		return
	}

	ws.H.BroadcastModeration(ws.ModerationEvent{
		Event:       "rejected",
		RequestID:   req.ID.String(),
		RequestType: string(req.Type),
		Status:      string(req.Status),
		SubmittedBy: req.SubmittedBy.String(),
	})
	go notifySubmitter(req, "rejected")

	c.JSON(http.StatusOK, gin.H{
		"message": "request rejected",
		"request": req,
	})
}
