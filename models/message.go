package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message is immutable after insert except for the isRead flag.
type Message struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SenderID       string             `bson:"senderId" json:"senderId"`
	SenderName     string             `bson:"senderName" json:"senderName"`
	SenderRole     string             `bson:"senderRole" json:"senderRole"` // admin, employee
	RecipientID    string             `bson:"recipientId" json:"recipientId"`
	Content        string             `bson:"content" json:"content"`
	Timestamp      time.Time          `bson:"timestamp" json:"timestamp"`
	IsRead         bool               `bson:"isRead" json:"isRead"`
	ConversationID string             `bson:"conversationId" json:"conversationId"`
}
