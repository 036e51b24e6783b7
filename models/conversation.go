package models

import "time"

// Conversation is the denormalized per-thread summary shown in chat lists.
// The document key is the derived conversation ID (sorted participant IDs
// joined by an underscore), so one thread maps to exactly one summary.
type Conversation struct {
	ID              string    `bson:"_id" json:"id"`
	AdminID         string    `bson:"adminId" json:"adminId"`
	EmployeeID      string    `bson:"employeeId" json:"employeeId"`
	AdminName       string    `bson:"adminName" json:"adminName"`
	EmployeeName    string    `bson:"employeeName" json:"employeeName"`
	LastMessage     string    `bson:"lastMessage" json:"lastMessage"`
	LastMessageTime time.Time `bson:"lastMessageTime" json:"lastMessageTime"`
	UnreadCount     int64     `bson:"unreadCount" json:"unreadCount"`
}
