package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/LouayBenCerifa/GestionDeProjet/database"
	"github.com/LouayBenCerifa/GestionDeProjet/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type CreateTaskRequest struct {
	ProjectID   string `json:"projectId" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	AssignedTo  string `json:"assignedTo" binding:"required"`
	Priority    string `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
	Deadline    string `json:"deadline" binding:"required"`
}

// CreateTask creates a task, notifies the assignee and refreshes the
// project's denormalized progress.
func CreateTask(c *gin.Context) {
	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	adminID := c.GetString("userId")

	priority := req.Priority
	if priority == "" {
		priority = "medium"
	}

	task := models.Task{
		ID:          primitive.NewObjectID(),
		ProjectID:   req.ProjectID,
		Title:       req.Title,
		Description: req.Description,
		AssignedTo:  req.AssignedTo,
		AssignedBy:  adminID,
		Status:      models.TaskTodo,
		Priority:    priority,
		Deadline:    parseDate(req.Deadline, time.Now().AddDate(0, 0, 7)),
		Comments:    []models.TaskComment{},
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := database.Tasks.InsertOne(ctx, task); err != nil {
		log.Printf("CreateTask insert error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create task"})
		return
	}

	recomputeProjectProgress(ctx, req.ProjectID)

	notif := models.Notification{
		UserID:  req.AssignedTo,
		Type:    models.NotificationTaskAssigned,
		Title:   "New Task Assigned",
		Message: "You have been assigned: " + req.Title,
		Link:    "/employee/tasks/" + task.ID.Hex(),
	}
	if _, err := notifService.Create(ctx, notif); err != nil {
		log.Printf("Task notification error: %v", err)
	} else if wsManager != nil {
		wsManager.NotifyNotification(notif)
	}

	SendTaskAssignedPush(req.AssignedTo, req.Title)

	c.JSON(http.StatusCreated, gin.H{"id": task.ID.Hex()})
}

// GetProjectTasks lists a project's tasks ordered by deadline.
func GetProjectTasks(c *gin.Context) {
	projectID := c.Param("id")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := database.Tasks.Find(
		ctx,
		bson.M{"projectId": projectID},
		options.Find().SetSort(bson.D{{Key: "deadline", Value: 1}}),
	)
	if err != nil {
		log.Printf("GetProjectTasks error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tasks"})
		return
	}
	defer cursor.Close(ctx)

	tasks := []models.Task{}
	if err := cursor.All(ctx, &tasks); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode tasks"})
		return
	}

	c.JSON(http.StatusOK, tasks)
}

// GetMyTasks lists the caller's assigned tasks. On a successful fetch the
// snapshot is cached per user; when MongoDB is unreachable the cached
// snapshot is served instead, flagged as degraded.
func GetMyTasks(c *gin.Context) {
	userID := c.GetString("userId")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tasks, err := loadAssignedTasks(ctx, userID)
	if err != nil {
		log.Printf("GetMyTasks falling back to cache: %v", err)

		cached, fetchedAt, ok := tasksCache.Get(userID)
		if !ok {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Failed to fetch tasks"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"tasks":     cached,
			"degraded":  true,
			"fetchedAt": fetchedAt,
		})
		return
	}

	tasksCache.Put(userID, tasks)

	c.JSON(http.StatusOK, gin.H{"tasks": tasks, "degraded": false})
}

func loadAssignedTasks(ctx context.Context, userID string) ([]models.Task, error) {
	cursor, err := database.Tasks.Find(
		ctx,
		bson.M{"assignedTo": userID},
		options.Find().SetSort(bson.D{{Key: "deadline", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	tasks := []models.Task{}
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func GetTask(c *gin.Context) {
	taskID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var task models.Task
	err = database.Tasks.FindOne(ctx, bson.M{"_id": taskID}).Decode(&task)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch task"})
		return
	}

	c.JSON(http.StatusOK, task)
}

type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Priority    *string `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
	Deadline    *string `json:"deadline"`
}

func UpdateTask(c *gin.Context) {
	taskID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID"})
		return
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	set := bson.M{"updatedAt": time.Now()}
	if req.Title != nil {
		set["title"] = *req.Title
	}
	if req.Description != nil {
		set["description"] = *req.Description
	}
	if req.Priority != nil {
		set["priority"] = *req.Priority
	}
	if req.Deadline != nil {
		set["deadline"] = parseDate(*req.Deadline, time.Now())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var task models.Task
	err = database.Tasks.FindOneAndUpdate(ctx, bson.M{"_id": taskID}, bson.M{"$set": set}).Decode(&task)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}
	if err != nil {
		log.Printf("UpdateTask error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
		return
	}

	notif := models.Notification{
		UserID:  task.AssignedTo,
		Type:    models.NotificationTaskUpdated,
		Title:   "Task updated",
		Message: "Task \"" + task.Title + "\" was updated",
		Link:    "/employee/tasks/" + task.ID.Hex(),
	}
	if _, err := notifService.Create(ctx, notif); err != nil {
		log.Printf("Task update notification error: %v", err)
	} else if wsManager != nil {
		wsManager.NotifyNotification(notif)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task updated"})
}

type UpdateTaskStatusRequest struct {
	Status               string  `json:"status" binding:"required,oneof=todo in-progress done"`
	CompletionPercentage float64 `json:"completionPercentage" binding:"min=0,max=100"`
}

// UpdateTaskStatus lets the assignee move a task along and notifies the
// admin who assigned it.
func UpdateTaskStatus(c *gin.Context) {
	taskID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID"})
		return
	}

	var req UpdateTaskStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var task models.Task
	err = database.Tasks.FindOneAndUpdate(
		ctx,
		bson.M{"_id": taskID},
		bson.M{"$set": bson.M{
			"status":               req.Status,
			"completionPercentage": req.CompletionPercentage,
			"updatedAt":            time.Now(),
		}},
	).Decode(&task)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}
	if err != nil {
		log.Printf("UpdateTaskStatus error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task status"})
		return
	}

	recomputeProjectProgress(ctx, task.ProjectID)

	notif := models.Notification{
		UserID:  task.AssignedBy,
		Type:    models.NotificationTaskUpdated,
		Title:   "Task status changed",
		Message: "\"" + task.Title + "\" is now " + req.Status,
		Link:    "/admin/tasks/" + task.ID.Hex(),
	}
	if _, err := notifService.Create(ctx, notif); err != nil {
		log.Printf("Status notification error: %v", err)
	} else if wsManager != nil {
		wsManager.NotifyNotification(notif)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Status updated"})
}

func DeleteTask(c *gin.Context) {
	taskID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var task models.Task
	err = database.Tasks.FindOneAndDelete(ctx, bson.M{"_id": taskID}).Decode(&task)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}
	if err != nil {
		log.Printf("DeleteTask error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete task"})
		return
	}

	recomputeProjectProgress(ctx, task.ProjectID)

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted"})
}

type AddCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

// AddTaskComment appends an inline comment and notifies the other party
// (assignee when an admin comments, assigning admin otherwise).
func AddTaskComment(c *gin.Context) {
	taskID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID"})
		return
	}

	var req AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetString("userId")
	userName := c.GetString("userName")
	userRole := c.GetString("userRole")

	comment := models.TaskComment{
		ID:        uuid.NewString(),
		TaskID:    taskID.Hex(),
		UserID:    userID,
		UserName:  userName,
		UserRole:  userRole,
		Content:   req.Content,
		CreatedAt: time.Now(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var task models.Task
	err = database.Tasks.FindOneAndUpdate(
		ctx,
		bson.M{"_id": taskID},
		bson.M{
			"$push": bson.M{"comments": comment},
			"$set":  bson.M{"updatedAt": time.Now()},
		},
	).Decode(&task)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}
	if err != nil {
		log.Printf("AddTaskComment error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add comment"})
		return
	}

	target := task.AssignedTo
	if userRole == models.RoleEmployee {
		target = task.AssignedBy
	}
	notif := models.Notification{
		UserID:  target,
		Type:    models.NotificationComment,
		Title:   "New comment from " + userName,
		Message: req.Content,
		Link:    "/tasks/" + task.ID.Hex(),
	}
	if _, err := notifService.Create(ctx, notif); err != nil {
		log.Printf("Comment notification error: %v", err)
	} else if wsManager != nil {
		wsManager.NotifyNotification(notif)
	}

	c.JSON(http.StatusCreated, gin.H{"comment": comment})
}

type ReassignTaskRequest struct {
	EmployeeID string `json:"employeeId" binding:"required"`
}

// ReassignTask hands a task to another employee, resetting its progress,
// and notifies the new assignee.
func ReassignTask(c *gin.Context) {
	taskID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID"})
		return
	}

	var req ReassignTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var task models.Task
	err = database.Tasks.FindOneAndUpdate(
		ctx,
		bson.M{"_id": taskID},
		bson.M{"$set": bson.M{
			"assignedTo":           req.EmployeeID,
			"status":               models.TaskTodo,
			"completionPercentage": 0,
			"updatedAt":            time.Now(),
		}},
	).Decode(&task)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}
	if err != nil {
		log.Printf("ReassignTask error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reassign task"})
		return
	}

	recomputeProjectProgress(ctx, task.ProjectID)

	notif := models.Notification{
		UserID:  req.EmployeeID,
		Type:    models.NotificationTaskAssigned,
		Title:   "New Task Assigned",
		Message: "You have been assigned: " + task.Title,
		Link:    "/employee/tasks/" + task.ID.Hex(),
	}
	if _, err := notifService.Create(ctx, notif); err != nil {
		log.Printf("Reassign notification error: %v", err)
	} else if wsManager != nil {
		wsManager.NotifyNotification(notif)
	}

	SendTaskAssignedPush(req.EmployeeID, task.Title)

	c.JSON(http.StatusOK, gin.H{"message": "Task reassigned"})
}
