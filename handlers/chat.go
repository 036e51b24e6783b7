package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/LouayBenCerifa/GestionDeProjet/database"
	"github.com/LouayBenCerifa/GestionDeProjet/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SendMessageRequest struct {
	RecipientID string `json:"recipientId" binding:"required"`
	Content     string `json:"content" binding:"required"`
}

// SendMessage persists a chat message, then fans out the side effects: a
// "message" notification for the recipient, a live WebSocket event and a
// web push.
func SendMessage(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	senderID := c.GetString("userId")
	senderName := c.GetString("userName")
	senderRole := c.GetString("userRole")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	messageID, err := chatService.SendMessage(ctx, senderID, senderName, senderRole, req.RecipientID, req.Content)
	if err != nil {
		log.Printf("SendMessage error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send message"})
		return
	}

	notif := models.Notification{
		UserID:  req.RecipientID,
		Type:    models.NotificationMessage,
		Title:   "New message from " + senderName,
		Message: req.Content,
		Link:    "/chat/" + senderID,
	}
	if _, err := notifService.Create(ctx, notif); err != nil {
		log.Printf("Message notification error: %v", err)
	} else if wsManager != nil {
		wsManager.NotifyNotification(notif)
	}

	if wsManager != nil {
		oid, _ := primitive.ObjectIDFromHex(messageID)
		wsManager.NotifyNewMessage(models.Message{
			ID:          oid,
			SenderID:    senderID,
			SenderName:  senderName,
			SenderRole:  senderRole,
			RecipientID: req.RecipientID,
			Content:     req.Content,
			Timestamp:   time.Now(),
		})
	}

	SendMessagePush(req.RecipientID, senderName, req.Content)

	c.JSON(http.StatusCreated, gin.H{"id": messageID})
}

// GetConversationMessages returns the full thread between the caller and
// the other participant, oldest first.
func GetConversationMessages(c *gin.Context) {
	userID := c.GetString("userId")
	otherID := c.Param("userId")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	messages, err := chatService.ConversationMessages(ctx, userID, otherID)
	if err != nil {
		log.Printf("GetConversationMessages error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch messages"})
		return
	}

	c.JSON(http.StatusOK, messages)
}

// GetConversations lists the caller's conversation summaries, newest
// activity first.
func GetConversations(c *gin.Context) {
	userID := c.GetString("userId")
	role := c.GetString("userRole")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conversations, err := chatService.UserConversations(ctx, userID, role)
	if err != nil {
		log.Printf("GetConversations error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch conversations"})
		return
	}

	c.JSON(http.StatusOK, conversations)
}

// MarkMessageRead marks one message read. Repeating the call is a no-op.
func MarkMessageRead(c *gin.Context) {
	messageID := c.Param("id")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := chatService.MarkMessageRead(ctx, messageID); err != nil {
		log.Printf("MarkMessageRead error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark as read"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Marked as read"})
}

// MarkConversationRead marks every message the other participant sent in
// this thread as read and zeroes the summary's unread counter. Called when
// the caller opens the conversation.
func MarkConversationRead(c *gin.Context) {
	userID := c.GetString("userId")
	otherID := c.Param("userId")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conv, err := chatService.Conversation(ctx, userID, otherID)
	if err != nil {
		// No summary yet means no messages to mark
		c.JSON(http.StatusOK, gin.H{"updatedCount": 0})
		return
	}

	result, err := database.Messages.UpdateMany(
		ctx,
		bson.M{
			"conversationId": conv.ID,
			"senderId":       otherID,
			"isRead":         false,
		},
		bson.M{"$set": bson.M{"isRead": true}},
	)
	if err != nil {
		log.Printf("MarkConversationRead error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark as read"})
		return
	}

	if err := chatService.ResetUnread(ctx, userID, otherID); err != nil {
		log.Printf("ResetUnread error: %v", err)
	}

	if wsManager != nil && result.ModifiedCount > 0 {
		wsManager.NotifyMessagesRead(otherID, conv.ID)
	}

	c.JSON(http.StatusOK, gin.H{"updatedCount": result.ModifiedCount})
}

// GetUnreadMessageCount returns how many unread messages await the caller.
func GetUnreadMessageCount(c *gin.Context) {
	userID := c.GetString("userId")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	count, err := chatService.UnreadCount(ctx, userID)
	if err != nil {
		log.Printf("GetUnreadMessageCount error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count unread messages"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}
