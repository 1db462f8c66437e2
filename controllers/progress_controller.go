package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dtnghia/syllabus-backend/models"
)

type UpsertProgressInput struct {
	SubjectID uuid.UUID             `json:"subject_id" binding:"required"`
	TopicID   uuid.UUID             `json:"topic_id" binding:"required"`
	Status    models.ProgressStatus `json:"status" binding:"required"`
}

// PUT /api/user/progress
func UpsertTopicProgress(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input UpsertProgressInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "subject_id, topic_id and status are required"})
		return
	}

	switch input.Status {
	case models.ProgressNotStarted, models.ProgressInProgress, models.ProgressCompleted:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown progress status"})
		return
	}

	// The topic must exist inside the subject tree.
	var subject models.Subject
	if err := db.First(&subject, "id = ?", input.SubjectID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "subject not found"})
		return
	}
	if subject.FindTopic(input.TopicID) == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "topic not found in subject"})
		return
	}

	var progress models.TopicProgress
	err := db.Where("user_id = ? AND topic_id = ?", userID, input.TopicID).First(&progress).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		progress = models.TopicProgress{
			UserID:    userID,
			TopicID:   input.TopicID,
			SubjectID: input.SubjectID,
			Status:    input.Status,
		}
		if err := db.Create(&progress).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot create progress"})
			return
		}
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot load progress"})
		return
	default:
		progress.Status = input.Status
		if err := db.Save(&progress).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot update progress"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"progress": progress})
}

// GET /api/user/subjects/:id/progress
// Per-topic rows plus an overall completion percentage for the subject.
func GetSubjectProgress(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	subjectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid subject id"})
		return
	}

	var subject models.Subject
	if err := db.First(&subject, "id = ?", subjectID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "subject not found"})
		return
	}

	var rows []models.TopicProgress
	if err := db.
		Where("user_id = ? AND subject_id = ?", userID, subjectID).
		Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot load progress"})
		return
	}

	completed := 0
	for _, row := range rows {
		if row.Status == models.ProgressCompleted {
			completed++
		}
	}

	total := subject.TopicCount()
	percent := 0.0
	if total > 0 {
		percent = float64(completed) / float64(total) * 100
	}

	c.JSON(http.StatusOK, gin.H{
		"progress":         rows,
		"total_topics":     total,
		"completed_topics": completed,
		"overall_progress": percent,
	})
}
