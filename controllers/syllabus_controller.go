package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dtnghia/syllabus-backend/models"
	"github.com/dtnghia/syllabus-backend/services"
	"github.com/dtnghia/syllabus-backend/utils"
)

// Direct admin-authored tree edits. The same mutation methods back the
// moderation approve path, so ordering rules are identical either way.

type AddUnitInput struct {
	UnitNumber int    `json:"unit_number" binding:"required"`
	Title      string `json:"title" binding:"required"`
}

// POST /api/admin/subjects/:id/units
func AddUnit(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	subjectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid subject id"})
		return
	}

	var input AddUnitInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unit_number and title are required"})
		return
	}

	var subject models.Subject
	if err := db.First(&subject, "id = ?", subjectID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "subject not found"})
		return
	}

	unit, err := subject.AddUnit(input.UnitNumber, input.Title)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := db.Save(&subject).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot save subject"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "unit added",
		"unit":    unit,
		"subject": subject,
	})
}

type AddChaptersInput struct {
	UnitNumber int                   `json:"unit_number" binding:"required"`
	Chapters   []models.ChapterDraft `json:"chapters" binding:"required"`
}

// POST /api/admin/subjects/:id/chapters
func AddChapters(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	subjectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid subject id"})
		return
	}

	var input AddChaptersInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unit_number and chapters are required"})
		return
	}
	if len(input.Chapters) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "chapters must not be empty"})
		return
	}

	var subject models.Subject
	if err := db.First(&subject, "id = ?", subjectID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "subject not found"})
		return
	}

	added, err := subject.AddChapters(input.UnitNumber, input.Chapters)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := db.Save(&subject).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot save subject"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "chapters added",
		"chapters": added,
	})
}

// GET /api/subjects/:id/topics/:topicId
func GetTopic(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	subjectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid subject id"})
		return
	}
	topicID, err := uuid.Parse(c.Param("topicId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid topic id"})
		return
	}

	var subject models.Subject
	if err := db.First(&subject, "id = ?", subjectID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "subject not found"})
		return
	}

	topic := subject.FindTopic(topicID)
	if topic == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "topic not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"topic": topic})
}

// POST /api/user/subjects/:id/topics/:topicId/audio
// Synthesizes the topic content and caches the MP3 URL on the topic node.
func GenerateTopicAudio(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	subjectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid subject id"})
		return
	}
	topicID, err := uuid.Parse(c.Param("topicId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid topic id"})
		return
	}

	var subject models.Subject
	if err := db.First(&subject, "id = ?", subjectID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "subject not found"})
		return
	}

	topic := subject.FindTopic(topicID)
	if topic == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "topic not found"})
		return
	}
	if topic.AudioURL != "" {
		c.JSON(http.StatusOK, gin.H{"audio_url": topic.AudioURL, "cached": true})
		return
	}
	if topic.Content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "topic has no content to synthesize"})
		return
	}

	audio, err := services.SynthesizeText(c.Request.Context(), topic.Content, "", 1.0)
	if err != nil {
		respondError(c, err)
		return
	}

	filename := fmt.Sprintf("topic-%s.mp3", topic.ID)
	publicURL, err := utils.UploadBytesToSupabase(audio, filename, "audio/mpeg")
	if err != nil {
		respondError(c, err)
		return
	}

	topic.AudioURL = publicURL
	if err := db.Save(&subject).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot save subject"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"audio_url": publicURL})
}
