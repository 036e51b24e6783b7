package routes

import (
	"time"

	"github.com/LouayBenCerifa/GestionDeProjet/handlers"
	"github.com/LouayBenCerifa/GestionDeProjet/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	router := gin.Default()

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
			"time":   time.Now().Unix(),
		})
	})

	// CORS configuration with WebSocket support
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:4200", "http://127.0.0.1:4200", "http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Public routes, rate limited against credential stuffing
	authLimiter := middleware.NewIPRateLimiter(60, time.Minute)
	public := router.Group("/api")
	public.Use(middleware.RateLimitMiddleware(authLimiter))
	public.POST("/signup", handlers.Signup)
	public.POST("/login", handlers.Login)
	public.GET("/vapid-public-key", handlers.GetVapidPublicKey)

	// Protected routes group
	protected := router.Group("/api")
	protected.Use(middleware.JWTAuthMiddleware())

	// Profile / users
	protected.GET("/me", handlers.GetMyProfile)
	protected.GET("/user/:id", handlers.GetUser)
	protected.GET("/employees", handlers.GetEmployees)

	// Projects (mutations are admin only)
	protected.GET("/projects", handlers.GetProjects)
	protected.GET("/projects/:id", handlers.GetProject)
	protected.GET("/projects/:id/tasks", handlers.GetProjectTasks)

	admin := protected.Group("")
	admin.Use(middleware.RequireAdmin())
	admin.POST("/projects", handlers.CreateProject)
	admin.PUT("/projects/:id", handlers.UpdateProject)
	admin.DELETE("/projects/:id", handlers.DeleteProject)
	admin.POST("/projects/:id/team", handlers.AddTeamMember)
	admin.DELETE("/projects/:id/team", handlers.RemoveTeamMember)

	// Tasks
	protected.GET("/tasks/my", handlers.GetMyTasks)
	protected.GET("/tasks/:id", handlers.GetTask)
	protected.POST("/tasks/:id/status", handlers.UpdateTaskStatus)
	protected.POST("/tasks/:id/comments", handlers.AddTaskComment)
	admin.POST("/tasks", handlers.CreateTask)
	admin.PUT("/tasks/:id", handlers.UpdateTask)
	admin.DELETE("/tasks/:id", handlers.DeleteTask)
	admin.POST("/tasks/:id/reassign", handlers.ReassignTask)

	// Chat
	protected.GET("/conversations", handlers.GetConversations)
	protected.GET("/conversations/:userId/messages", handlers.GetConversationMessages)
	protected.POST("/conversations/:userId/read", handlers.MarkConversationRead)
	protected.POST("/messages", handlers.SendMessage)
	protected.POST("/messages/:id/read", handlers.MarkMessageRead)
	protected.GET("/messages/unread-count", handlers.GetUnreadMessageCount)

	// Notifications
	protected.GET("/notifications", handlers.GetNotifications)
	protected.GET("/notifications/unread-count", handlers.GetUnreadNotificationCount)
	protected.POST("/notifications/:id/read", handlers.MarkNotificationRead)
	protected.POST("/notifications/read-all", handlers.MarkAllNotificationsRead)
	protected.DELETE("/notifications/:id", handlers.DeleteNotification)
	protected.DELETE("/notifications/read", handlers.DeleteAllReadNotifications)

	// Dashboards
	protected.GET("/dashboard/admin", middleware.RequireAdmin(), handlers.GetAdminDashboard)
	protected.GET("/dashboard/employee", handlers.GetEmployeeDashboard)

	// Push subscriptions
	protected.POST("/subscribe", handlers.SubscribePush)

	// Catch-all for undefined API routes
	router.NoRoute(func(c *gin.Context) {
		if len(c.Request.URL.Path) >= 4 && c.Request.URL.Path[:4] == "/api" {
			c.JSON(404, gin.H{
				"error": "Endpoint not found",
				"path":  c.Request.URL.Path,
			})
			return
		}
		c.Next()
	})

	return router
}
