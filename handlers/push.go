package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/LouayBenCerifa/GestionDeProjet/database"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PushSubscription stores one browser's web-push endpoint per user.
type PushSubscription struct {
	ID     primitive.ObjectID   `bson:"_id,omitempty"`
	UserID string               `bson:"userId"`
	Sub    webpush.Subscription `bson:"sub"`
}

func GetVapidPublicKey(c *gin.Context) {
	publicKey := os.Getenv("VAPID_PUBLIC_KEY")
	if publicKey == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "VAPID public key not configured"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"publicKey": publicKey})
}

func SubscribePush(c *gin.Context) {
	var req struct {
		Endpoint string `json:"endpoint" binding:"required"`
		Keys     struct {
			P256dh string `json:"p256dh" binding:"required"`
			Auth   string `json:"auth" binding:"required"`
		} `json:"keys" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetString("userId")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pushSub := PushSubscription{
		ID:     primitive.NewObjectID(),
		UserID: userID,
		Sub: webpush.Subscription{
			Endpoint: req.Endpoint,
			Keys: webpush.Keys{
				P256dh: req.Keys.P256dh,
				Auth:   req.Keys.Auth,
			},
		},
	}

	// Upsert: update if exists, insert if not
	_, err := database.PushSubs.UpdateOne(
		ctx,
		bson.M{"userId": userID},
		bson.M{"$set": pushSub},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		log.Printf("Failed to save subscription: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save subscription"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Push subscription saved"})
}

// sendPush delivers a web push to the user's registered endpoint, if any.
// Runs in the background; failures only get logged.
func sendPush(userID, title, body string) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("Panic in push notification: %v", r)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var sub PushSubscription
		err := database.PushSubs.FindOne(ctx, bson.M{"userId": userID}).Decode(&sub)
		if err == mongo.ErrNoDocuments {
			return // no subscription
		}
		if err != nil {
			log.Printf("Failed to find subscription for user %s: %v", userID, err)
			return
		}

		payload, err := json.Marshal(map[string]string{
			"title": title,
			"body":  body,
		})
		if err != nil {
			return
		}

		resp, err := webpush.SendNotification(payload, &sub.Sub, &webpush.Options{
			Subscriber:      os.Getenv("VAPID_SUBSCRIBER"),
			VAPIDPrivateKey: os.Getenv("VAPID_PRIVATE_KEY"),
			TTL:             30,
		})
		if err != nil {
			log.Printf("Failed to send push to user %s: %v", userID, err)

			// Expired subscriptions come back as 410; drop them
			if resp != nil && resp.StatusCode == http.StatusGone {
				if _, delErr := database.PushSubs.DeleteOne(ctx, bson.M{"userId": userID}); delErr != nil {
					log.Printf("Failed to delete expired subscription: %v", delErr)
				}
			}
			return
		}
		resp.Body.Close()
	}()
}

// SendMessagePush notifies a recipient of a new chat message.
func SendMessagePush(recipientID, senderName, content string) {
	if senderName == "" {
		senderName = "Someone"
	}
	if len(content) > 100 {
		content = content[:100] + "..."
	}
	sendPush(recipientID, senderName+" sent a message", content)
}

// SendTaskAssignedPush notifies an employee of a new task.
func SendTaskAssignedPush(employeeID, taskTitle string) {
	sendPush(employeeID, "New Task Assigned", "You have been assigned: "+taskTitle)
}
