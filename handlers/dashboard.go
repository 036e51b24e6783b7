package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/LouayBenCerifa/GestionDeProjet/database"
	"github.com/LouayBenCerifa/GestionDeProjet/models"
	"github.com/LouayBenCerifa/GestionDeProjet/stats"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
)

// GetAdminDashboard scans the admin's projects, the task collection and
// the employee head count, and returns the derived figures. Nothing is
// cached; every request recomputes from fresh snapshots.
func GetAdminDashboard(c *gin.Context) {
	adminID := c.GetString("userId")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	projCursor, err := database.Projects.Find(ctx, bson.M{"adminId": adminID})
	if err != nil {
		log.Printf("Admin dashboard projects error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load dashboard"})
		return
	}
	projects := []models.Project{}
	if err := projCursor.All(ctx, &projects); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load dashboard"})
		return
	}

	taskCursor, err := database.Tasks.Find(ctx, bson.M{})
	if err != nil {
		log.Printf("Admin dashboard tasks error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load dashboard"})
		return
	}
	tasks := []models.Task{}
	if err := taskCursor.All(ctx, &tasks); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load dashboard"})
		return
	}

	employees, err := database.Users.CountDocuments(ctx, bson.M{"role": models.RoleEmployee})
	if err != nil {
		log.Printf("Admin dashboard employees error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load dashboard"})
		return
	}

	c.JSON(http.StatusOK, stats.AdminStats(projects, tasks, int(employees)))
}

// GetEmployeeDashboard derives the employee's figures from their assigned
// tasks, falling back to the cached snapshot when MongoDB is unreachable.
func GetEmployeeDashboard(c *gin.Context) {
	userID := c.GetString("userId")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tasks, err := loadAssignedTasks(ctx, userID)
	if err != nil {
		log.Printf("Employee dashboard falling back to cache: %v", err)

		cached, _, ok := tasksCache.Get(userID)
		if !ok {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Failed to load dashboard"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"stats":    stats.EmployeeStats(cached, time.Now()),
			"degraded": true,
		})
		return
	}

	tasksCache.Put(userID, tasks)

	c.JSON(http.StatusOK, gin.H{
		"stats":    stats.EmployeeStats(tasks, time.Now()),
		"degraded": false,
	})
}
