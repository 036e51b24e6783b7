package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/LouayBenCerifa/GestionDeProjet/chat"
	"github.com/LouayBenCerifa/GestionDeProjet/database"
	"github.com/LouayBenCerifa/GestionDeProjet/handlers"
	"github.com/LouayBenCerifa/GestionDeProjet/jobs"
	"github.com/LouayBenCerifa/GestionDeProjet/notifications"
	"github.com/LouayBenCerifa/GestionDeProjet/routes"
	"github.com/LouayBenCerifa/GestionDeProjet/taskcache"
	"github.com/LouayBenCerifa/GestionDeProjet/websocket"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

func main() {
	log.Println("Starting GestionDeProjet backend...")

	if err := godotenv.Load(); err != nil {
		log.Println(".env file not found, relying on environment")
	}

	if os.Getenv("JWT_SECRET") == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	// Connect to MongoDB with retry
	var dbErr error
	for i := 1; i <= 3; i++ {
		if err := database.ConnectDB(); err != nil {
			dbErr = err
			log.Printf("MongoDB connection attempt %d failed: %v", i, err)
			time.Sleep(2 * time.Second)
			continue
		}
		dbErr = nil
		break
	}
	if dbErr != nil {
		log.Fatal("Failed to connect to MongoDB: ", dbErr)
	}

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Wire the core services into the handler layer
	chatService := chat.NewService(database.Messages, database.Conversations, database.Users)
	notifService := notifications.NewService(database.Notifications)
	handlers.Init(chatService, notifService, taskcache.New())

	router := routes.SetupRouter()

	router.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	// Live events over WebSocket
	wsManager := websocket.NewManager()
	go wsManager.Start()
	handlers.SetWebSocketManager(wsManager)

	router.GET("/ws", func(c *gin.Context) {
		websocket.Handler(wsManager)(c.Writer, c.Request)
	})

	// Daily overdue-task reminder sweep
	scheduler := cron.New()
	if _, err := scheduler.AddFunc("0 8 * * *", func() {
		jobs.SendOverdueReminders(notifService)
	}); err != nil {
		log.Fatal("Failed to schedule reminder job: ", err)
	}
	scheduler.Start()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server running on port %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server error: ", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	scheduler.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Println("Forced shutdown: ", err)
	}

	if err := database.DisconnectDB(); err != nil {
		log.Println("MongoDB disconnect error: ", err)
	}

	log.Println("Server stopped gracefully")
}
