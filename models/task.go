package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	TaskTodo       = "todo"
	TaskInProgress = "in-progress"
	TaskDone       = "done"
)

type Task struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProjectID            string             `bson:"projectId" json:"projectId"`
	Title                string             `bson:"title" json:"title"`
	Description          string             `bson:"description" json:"description"`
	AssignedTo           string             `bson:"assignedTo" json:"assignedTo"` // employee ID
	AssignedBy           string             `bson:"assignedBy" json:"assignedBy"` // admin ID
	Status               string             `bson:"status" json:"status"`         // todo, in-progress, done
	Priority             string             `bson:"priority" json:"priority"`     // low, medium, high, urgent
	Deadline             time.Time          `bson:"deadline" json:"deadline"`
	CompletionPercentage float64            `bson:"completionPercentage" json:"completionPercentage"`
	Comments             []TaskComment      `bson:"comments" json:"comments"`
	Attachments          []string           `bson:"attachments,omitempty" json:"attachments,omitempty"`
	CreatedAt            time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt            time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type TaskComment struct {
	ID        string    `bson:"id" json:"id"`
	TaskID    string    `bson:"taskId" json:"taskId"`
	UserID    string    `bson:"userId" json:"userId"`
	UserName  string    `bson:"userName" json:"userName"`
	UserRole  string    `bson:"userRole" json:"userRole"`
	Content   string    `bson:"content" json:"content"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}
