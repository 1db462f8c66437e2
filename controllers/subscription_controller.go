package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dtnghia/syllabus-backend/models"
)

// A user's subject subscriptions are an ordered uuid list on the user row.

type SubscribeInput struct {
	SubjectID uuid.UUID `json:"subject_id" binding:"required"`
}

// POST /api/user/subscriptions
// Idempotent: subscribing twice leaves the list unchanged.
func AddSubscription(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input SubscribeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "subject_id is required"})
		return
	}

	var subject models.Subject
	if err := db.Select("id").First(&subject, "id = ?", input.SubjectID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "subject not found"})
		return
	}

	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	if user.AddSubjectRef(input.SubjectID) {
		if err := db.Save(&user).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot save subscriptions"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "subscribed",
		"subject_order": user.SubjectOrder,
	})
}

type ReorderInput struct {
	SubjectIDs []uuid.UUID `json:"subject_ids" binding:"required"`
}

// PUT /api/user/subscriptions/order
// The stored list is replaced wholesale with the supplied ordering.
func ReorderSubscriptions(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input ReorderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "subject_ids is required"})
		return
	}

	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	user.SetSubjectOrder(input.SubjectIDs)
	if err := db.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot save subscriptions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "order updated",
		"subject_order": user.SubjectOrder,
	})
}

// SubjectSummary is the lightweight projection returned by the
// subscription list.
type SubjectSummary struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Code     *string   `json:"code,omitempty"`
	Branch   string    `json:"branch"`
	Year     int       `json:"year"`
	ImageURL string    `json:"image_url,omitempty"`
}

// GET /api/user/subscriptions
// Resolves the stored ids to subject summaries. References to subjects
// that no longer exist are pruned and the pruned list is persisted as a
// side effect of this read.
func ListSubscriptions(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	var subjects []models.Subject
	if len(user.SubjectOrder) > 0 {
		if err := db.
			Select("id, name, code, branch, year, image_url").
			Where("id IN ?", []uuid.UUID(user.SubjectOrder)).
			Find(&subjects).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot resolve subscriptions"})
			return
		}
	}

	existing := make(map[uuid.UUID]bool, len(subjects))
	byID := make(map[uuid.UUID]models.Subject, len(subjects))
	for _, s := range subjects {
		existing[s.ID] = true
		byID[s.ID] = s
	}

	if user.PruneSubjectRefs(existing) {
		if err := db.Save(&user).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot prune subscriptions"})
			return
		}
	}

	// Stored order wins over query order.
	summaries := make([]SubjectSummary, 0, len(user.SubjectOrder))
	for _, id := range user.SubjectOrder {
		s := byID[id]
		summaries = append(summaries, SubjectSummary{
			ID:       s.ID,
			Name:     s.Name,
			Code:     s.Code,
			Branch:   s.Branch,
			Year:     s.Year,
			ImageURL: s.ImageURL,
		})
	}

	c.JSON(http.StatusOK, gin.H{"subscriptions": summaries})
}
