package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dtnghia/syllabus-backend/controllers"
	"github.com/dtnghia/syllabus-backend/middleware"
	"github.com/dtnghia/syllabus-backend/ws"
)

func SetupRouter(r *gin.Engine, db *gorm.DB) *gin.Engine {
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
	r.GET("/health", controllers.HealthCheck)

	api := r.Group("/api")
	api.Use(middleware.DBMiddleware(db))

	auth := api.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)
	}

	// Public syllabus reads
	api.GET("/subjects", controllers.GetSubjects)
	api.GET("/subjects/:id", controllers.GetSubjectDetail)
	api.GET("/subjects/:id/topics/:topicId", controllers.GetTopic)

	user := api.Group("/user")
	{
		user.Use(middleware.AuthMiddleware())

		user.GET("/me", controllers.Me)

		// Subscriptions
		user.POST("/subscriptions", controllers.AddSubscription)
		user.PUT("/subscriptions/order", controllers.ReorderSubscriptions)
		user.GET("/subscriptions", controllers.ListSubscriptions)

		// Progress
		user.PUT("/progress", controllers.UpsertTopicProgress)
		user.GET("/subjects/:id/progress", controllers.GetSubjectProgress)

		// Crowd-sourced syllabus edits
		user.POST("/moderation-requests", controllers.SubmitModerationRequest)
		user.POST("/moderation-requests/proposal", controllers.GenerateChapterProposal)

		// Quizzes
		user.POST("/subjects/:id/topics/:topicId/quiz", controllers.GenerateTopicQuiz)
		user.GET("/quizzes/:id", controllers.GetQuiz)
		user.POST("/quizzes/:id/result", controllers.SubmitQuizResult)
		user.GET("/quiz-results", controllers.ListQuizResults)

		// Topic audio
		user.POST("/subjects/:id/topics/:topicId/audio", controllers.GenerateTopicAudio)

		// Chat history (the live chat itself runs over /ws/tutor)
		user.GET("/chat-history", controllers.GetChatHistory)
	}

	admin := api.Group("/admin")
	{
		admin.Use(middleware.AuthMiddleware(), middleware.RequireRoles("admin", "teacher"))

		// Subject management
		admin.POST("/subjects", controllers.CreateSubject)
		admin.POST("/subjects/:id/image", controllers.UploadSubjectImage)

		// Direct tree edits
		admin.POST("/subjects/:id/units", controllers.AddUnit)
		admin.POST("/subjects/:id/chapters", controllers.AddChapters)

		// Moderation queue
		admin.GET("/moderation-requests", controllers.ListPendingRequests)
		admin.POST("/moderation-requests/:id/approve", controllers.ApproveRequest)
		admin.POST("/moderation-requests/:id/reject", controllers.RejectRequest)
	}

	r.GET("/ws/moderation", ws.HandleModerationFeed)
	r.GET("/ws/tutor", middleware.DBMiddleware(db), controllers.HandleTutorChat)

	return r
}
