package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	ProjectPlanning   = "planning"
	ProjectInProgress = "in-progress"
	ProjectCompleted  = "completed"
	ProjectOnHold     = "on-hold"
)

type Project struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name                 string             `bson:"name" json:"name"`
	Description          string             `bson:"description" json:"description"`
	AdminID              string             `bson:"adminId" json:"adminId"`
	Status               string             `bson:"status" json:"status"` // planning, in-progress, completed, on-hold
	StartDate            time.Time          `bson:"startDate" json:"startDate"`
	EndDate              time.Time          `bson:"endDate" json:"endDate"`
	CompletionPercentage float64            `bson:"completionPercentage" json:"completionPercentage"`
	TaskCount            int                `bson:"taskCount" json:"taskCount"`
	CompletedTaskCount   int                `bson:"completedTaskCount" json:"completedTaskCount"`
	TeamMembers          []string           `bson:"teamMembers" json:"teamMembers"` // employee IDs
	CreatedAt            time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt            time.Time          `bson:"updatedAt" json:"updatedAt"`
}
