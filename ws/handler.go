package ws

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/dtnghia/syllabus-backend/models"
	"github.com/dtnghia/syllabus-backend/utils"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // dev only, restrict in production
	},
}

func sendJSON(conn *websocket.Conn, data interface{}) {
	msg, err := json.Marshal(data)
	if err != nil {
		log.Println("JSON marshal error:", err)
		return
	}
	if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
		log.Println("websocket write error:", err)
	}
}

// HandleModerationFeed upgrades an admin connection to receive
// moderation-queue events. Browsers cannot set headers on websocket
// requests, so the token travels as a query param.
func HandleModerationFeed(c *gin.Context) {
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
	if claims.Role != string(models.RoleAdmin) && claims.Role != string(models.RoleTeacher) {
		c.JSON(http.StatusForbidden, gin.H{"error": "admin access required"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Println("websocket upgrade failed:", err)
		return
	}
	H.RegisterAdmin(conn)

	log.Printf("moderation feed connected: userID=%s\n", claims.UserID)
	sendJSON(conn, gin.H{"type": "connected", "message": "moderation feed ready"})
}
