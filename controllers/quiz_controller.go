package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dtnghia/syllabus-backend/models"
	"github.com/dtnghia/syllabus-backend/services"
	"github.com/dtnghia/syllabus-backend/utils"
)

const quizQuestionCount = 5

func quizPrompt(topic *models.Topic) string {
	return fmt.Sprintf(`You are an AI that writes educational multiple-choice quizzes.
Create %d multiple-choice questions about the topic "%s".

Requirements:
- Each question has 4 options (A, B, C, D).
- Randomize the position of the correct answer.
- Mark the correct option with "is_correct": true, the rest false.
- Each question has a "hint" (1-2 sentences that help reasoning without revealing the answer).

Return valid JSON with exactly this structure:
[
  {
    "question": "...",
    "difficulty": "easy|medium|hard",
    "hint": "...",
    "options": [
      {"text": "...", "is_correct": true},
      {"text": "...", "is_correct": false},
      {"text": "...", "is_correct": false},
      {"text": "...", "is_correct": false}
    ]
  }
]

Return only valid JSON, no other text.

Topic content:
%s
`, quizQuestionCount, topic.Title, topic.Content)
}

// POST /api/user/subjects/:id/topics/:topicId/quiz
// Generates a quiz from the topic content via Gemini.
func GenerateTopicQuiz(c *gin.Context) {
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
	if topic.Content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "topic has no content to quiz on"})
		return
	}

	// Gemini can be flaky under load; retry with backoff before giving up.
	var raw string
	for attempt := 0; attempt < 3; attempt++ {
		raw, err = services.GeminiGenerateText(c.Request.Context(), quizPrompt(topic))
		if err == nil {
			break
		}
		time.Sleep(time.Duration(attempt+1) * time.Second)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	clean := services.CleanModelJSON(raw)
	var questions []models.QuizQuestion
	if err := json.Unmarshal([]byte(clean), &questions); err != nil {
		respondError(c, fmt.Errorf("model returned invalid quiz JSON: %v: %w", err, utils.ErrValidation))
		return
	}

	valid := make(models.QuestionList, 0, len(questions))
	for _, q := range questions {
		if q.Question == "" || len(q.Options) < 4 {
			continue
		}
		valid = append(valid, q)
	}
	if len(valid) == 0 {
		respondError(c, fmt.Errorf("model returned no usable questions: %w", utils.ErrValidation))
		return
	}

	quiz := models.Quiz{
		SubjectID: subject.ID,
		TopicID:   topic.ID,
		Title:     "Quiz: " + topic.Title,
		Questions: valid,
		CreatedBy: userID,
	}
	if err := db.Create(&quiz).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot save quiz"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"quiz": quiz})
}

// GET /api/user/quizzes/:id
func GetQuiz(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	quizID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid quiz id"})
		return
	}

	var quiz models.Quiz
	if err := db.First(&quiz, "id = ?", quizID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "quiz not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"quiz": quiz})
}

type SubmitResultInput struct {
	Score     float64 `json:"score" binding:"min=0,max=100"`
	Completed bool    `json:"completed"`
}

// POST /api/user/quizzes/:id/result
func SubmitQuizResult(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	quizID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid quiz id"})
		return
	}

	var input SubmitResultInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "score must be between 0 and 100"})
		return
	}

	var quiz models.Quiz
	if err := db.Select("id").First(&quiz, "id = ?", quizID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "quiz not found"})
		return
	}

	var result models.QuizResult
	err = db.Where("user_id = ? AND quiz_id = ?", userID, quizID).First(&result).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		result = models.QuizResult{
			UserID:    userID,
			QuizID:    quizID,
			Score:     input.Score,
			Completed: input.Completed,
		}
		if err := db.Create(&result).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot save result"})
			return
		}
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot load result"})
		return
	default:
		result.Score = input.Score
		result.Completed = input.Completed
		if err := db.Save(&result).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot update result"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"result": result})
}

// GET /api/user/quiz-results
func ListQuizResults(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var results []models.QuizResult
	if err := db.
		Where("user_id = ?", userID).
		Order("taken_at DESC").
		Find(&results).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot list results"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}
