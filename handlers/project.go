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
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type CreateProjectRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Status      string   `json:"status" binding:"omitempty,oneof=planning in-progress completed on-hold"`
	StartDate   string   `json:"startDate"`
	EndDate     string   `json:"endDate"`
	TeamMembers []string `json:"teamMembers"`
}

func CreateProject(c *gin.Context) {
	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	adminID := c.GetString("userId")

	status := req.Status
	if status == "" {
		status = models.ProjectPlanning
	}

	startDate := parseDate(req.StartDate, time.Now())
	endDate := parseDate(req.EndDate, time.Now().AddDate(0, 1, 0))

	teamMembers := req.TeamMembers
	if teamMembers == nil {
		teamMembers = []string{}
	}

	project := models.Project{
		ID:          primitive.NewObjectID(),
		Name:        req.Name,
		Description: req.Description,
		AdminID:     adminID,
		Status:      status,
		StartDate:   startDate,
		EndDate:     endDate,
		TeamMembers: teamMembers,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := database.Projects.InsertOne(ctx, project); err != nil {
		log.Printf("CreateProject insert error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create project"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": project.ID.Hex()})
}

// GetProjects lists the caller's projects: the ones they administer, or
// the ones they are a team member of.
func GetProjects(c *gin.Context) {
	userID := c.GetString("userId")
	role := c.GetString("userRole")

	filter := bson.M{"teamMembers": userID}
	if role == models.RoleAdmin {
		filter = bson.M{"adminId": userID}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := database.Projects.Find(ctx, filter)
	if err != nil {
		log.Printf("GetProjects error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch projects"})
		return
	}
	defer cursor.Close(ctx)

	projects := []models.Project{}
	if err := cursor.All(ctx, &projects); err != nil {
		log.Printf("GetProjects decode error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode projects"})
		return
	}

	c.JSON(http.StatusOK, projects)
}

func GetProject(c *gin.Context) {
	projectID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var project models.Project
	err = database.Projects.FindOne(ctx, bson.M{"_id": projectID}).Decode(&project)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch project"})
		return
	}

	c.JSON(http.StatusOK, project)
}

type UpdateProjectRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Status      *string  `json:"status" binding:"omitempty,oneof=planning in-progress completed on-hold"`
	StartDate   *string  `json:"startDate"`
	EndDate     *string  `json:"endDate"`
	TeamMembers []string `json:"teamMembers"`
}

// UpdateProject applies the provided fields and notifies the team.
func UpdateProject(c *gin.Context) {
	projectID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	set := bson.M{"updatedAt": time.Now()}
	if req.Name != nil {
		set["name"] = *req.Name
	}
	if req.Description != nil {
		set["description"] = *req.Description
	}
	if req.Status != nil {
		set["status"] = *req.Status
	}
	if req.StartDate != nil {
		set["startDate"] = parseDate(*req.StartDate, time.Now())
	}
	if req.EndDate != nil {
		set["endDate"] = parseDate(*req.EndDate, time.Now())
	}
	if req.TeamMembers != nil {
		set["teamMembers"] = req.TeamMembers
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var project models.Project
	err = database.Projects.FindOneAndUpdate(ctx, bson.M{"_id": projectID}, bson.M{"$set": set}).Decode(&project)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}
	if err != nil {
		log.Printf("UpdateProject error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update project"})
		return
	}

	notifyTeam(ctx, project, models.NotificationProjectUpdate, "Project updated",
		"Project \""+project.Name+"\" was updated")

	c.JSON(http.StatusOK, gin.H{"message": "Project updated"})
}

func DeleteProject(c *gin.Context) {
	projectID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := database.Projects.DeleteOne(ctx, bson.M{"_id": projectID})
	if err != nil {
		log.Printf("DeleteProject error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete project"})
		return
	}
	if result.DeletedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Project deleted"})
}

type TeamMemberRequest struct {
	EmployeeID string `json:"employeeId" binding:"required"`
}

func AddTeamMember(c *gin.Context) {
	projectID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	var req TeamMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := database.Projects.UpdateByID(ctx, projectID, bson.M{
		"$addToSet": bson.M{"teamMembers": req.EmployeeID},
		"$set":      bson.M{"updatedAt": time.Now()},
	})
	if err != nil {
		log.Printf("AddTeamMember error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add team member"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Team member added"})
}

func RemoveTeamMember(c *gin.Context) {
	projectID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	var req TeamMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := database.Projects.UpdateByID(ctx, projectID, bson.M{
		"$pull": bson.M{"teamMembers": req.EmployeeID},
		"$set":  bson.M{"updatedAt": time.Now()},
	})
	if err != nil {
		log.Printf("RemoveTeamMember error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove team member"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Team member removed"})
}

// recomputeProjectProgress rescans the project's tasks and rewrites the
// denormalized counters. Called after every task mutation; the figures
// are recomputed, never incrementally adjusted.
func recomputeProjectProgress(ctx context.Context, projectID string) {
	cursor, err := database.Tasks.Find(ctx, bson.M{"projectId": projectID})
	if err != nil {
		log.Printf("Recompute progress for %s failed: %v", projectID, err)
		return
	}
	defer cursor.Close(ctx)

	tasks := []models.Task{}
	if err := cursor.All(ctx, &tasks); err != nil {
		log.Printf("Recompute progress decode for %s failed: %v", projectID, err)
		return
	}

	completed := stats.CountByStatus(tasks, models.TaskDone)

	oid, err := primitive.ObjectIDFromHex(projectID)
	if err != nil {
		return
	}

	_, err = database.Projects.UpdateByID(ctx, oid, bson.M{"$set": bson.M{
		"taskCount":            len(tasks),
		"completedTaskCount":   completed,
		"completionPercentage": stats.CompletionRate(completed, len(tasks)),
	}})
	if err != nil {
		log.Printf("Recompute progress update for %s failed: %v", projectID, err)
	}
}

// notifyTeam creates one notification per team member and pushes it live.
func notifyTeam(ctx context.Context, project models.Project, notifType, title, message string) {
	for _, memberID := range project.TeamMembers {
		notif := models.Notification{
			UserID:  memberID,
			Type:    notifType,
			Title:   title,
			Message: message,
			Link:    "/projects/" + project.ID.Hex(),
		}
		if _, err := notifService.Create(ctx, notif); err != nil {
			log.Printf("Team notification error: %v", err)
			continue
		}
		if wsManager != nil {
			wsManager.NotifyNotification(notif)
		}
	}
}

func parseDate(value string, fallback time.Time) time.Time {
	if value == "" {
		return fallback
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return fallback
}
