package controllers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"gorm.io/gorm"

	"github.com/dtnghia/syllabus-backend/models"
	"github.com/dtnghia/syllabus-backend/services"
	"github.com/dtnghia/syllabus-backend/utils"
)

var chatUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // dev only, restrict in production
	},
}

const chatHistoryWindow = 20

type chatFrame struct {
	Type    string `json:"type"` // chunk | done | error
	Content string `json:"content,omitempty"`
	Error   string `json:"error,omitempty"`
}

func writeChatFrame(conn *websocket.Conn, frame chatFrame) error {
	data, err := json.Marshal(frame)
	if err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, data)
}

// loadChatHistory converts the stored conversation tail into Gemini
// content turns, oldest first.
func loadChatHistory(db *gorm.DB, userID uuid.UUID, topicID *uuid.UUID) []*genai.Content {
	query := db.Where("user_id = ?", userID)
	if topicID != nil {
		query = query.Where("topic_id = ?", *topicID)
	} else {
		query = query.Where("topic_id IS NULL")
	}

	var rows []models.ChatMessage
	if err := query.Order("created_at DESC").Limit(chatHistoryWindow).Find(&rows).Error; err != nil {
		log.Println("cannot load chat history:", err)
		return nil
	}

	history := make([]*genai.Content, 0, len(rows))
	for i := len(rows) - 1; i >= 0; i-- {
		history = append(history, &genai.Content{
			Role:  string(rows[i].Role),
			Parts: []genai.Part{genai.Text(rows[i].Content)},
		})
	}
	return history
}

func tutorContext(db *gorm.DB, topicID *uuid.UUID) string {
	if topicID == nil {
		return ""
	}
	// The topic lives inside some subject's tree; scan candidates that
	// mention the id before walking them.
	var subjects []models.Subject
	if err := db.Where("units::text LIKE ?", "%"+topicID.String()+"%").Find(&subjects).Error; err != nil {
		return ""
	}
	for i := range subjects {
		if topic := subjects[i].FindTopic(*topicID); topic != nil {
			return "You are tutoring the topic \"" + topic.Title + "\". Topic material:\n" + topic.Content
		}
	}
	return ""
}

// GET /ws/tutor?token=...&topic_id=...
// One websocket per conversation; each incoming text message is answered
// with streamed chunk frames followed by a done frame.
func HandleTutorChat(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}
	claims, err := utils.VerifyToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
		return
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid user id in token"})
		return
	}

	var topicID *uuid.UUID
	if raw := c.Query("topic_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid topic_id"})
			return
		}
		topicID = &parsed
	}

	conn, err := chatUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Println("websocket upgrade failed:", err)
		return
	}
	defer conn.Close()

	log.Printf("tutor chat connected: userID=%s\n", userID)

	systemContext := tutorContext(db, topicID)

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			break
		}
		question := strings.TrimSpace(string(msg))
		if question == "" {
			continue
		}

		db.Create(&models.ChatMessage{
			UserID:  userID,
			TopicID: topicID,
			Role:    models.ChatRoleUser,
			Content: question,
		})

		history := loadChatHistory(db, userID, topicID)
		prompt := question
		if systemContext != "" {
			prompt = systemContext + "\n\nStudent question: " + question
		}

		answer, err := services.GeminiStreamChat(c.Request.Context(), history, prompt, func(chunk string) error {
			return writeChatFrame(conn, chatFrame{Type: "chunk", Content: chunk})
		})
		if err != nil {
			writeChatFrame(conn, chatFrame{Type: "error", Error: "tutor is unavailable, try again"})
			continue
		}

		db.Create(&models.ChatMessage{
			UserID:  userID,
			TopicID: topicID,
			Role:    models.ChatRoleModel,
			Content: answer,
		})

		if err := writeChatFrame(conn, chatFrame{Type: "done", Content: answer}); err != nil {
			break
		}
	}

	log.Printf("tutor chat disconnected: userID=%s\n", userID)
}

// GET /api/user/chat-history?topic_id=...
func GetChatHistory(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	query := db.Where("user_id = ?", userID)
	if raw := c.Query("topic_id"); raw != "" {
		topicID, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid topic_id"})
			return
		}
		query = query.Where("topic_id = ?", topicID)
	}

	var messages []models.ChatMessage
	if err := query.Order("created_at ASC").Find(&messages).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot load chat history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}
