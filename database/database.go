package database

import (
	"context"
	"log"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var Client *mongo.Client
var Users *mongo.Collection
var Projects *mongo.Collection
var Tasks *mongo.Collection
var Messages *mongo.Collection
var Conversations *mongo.Collection
var Notifications *mongo.Collection
var PushSubs *mongo.Collection

func ConnectDB() error {
	// Read MongoDB URI from environment variable
	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		log.Println("MONGODB_URI not set, using default localhost")
		uri = "mongodb://127.0.0.1:27017"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	var err error
	Client, err = mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return err
	}

	// Ping MongoDB
	if err := Client.Ping(ctx, nil); err != nil {
		return err
	}

	db := Client.Database("gestionprojet")
	Users = db.Collection("users")
	Projects = db.Collection("projects")
	Tasks = db.Collection("tasks")
	Messages = db.Collection("messages")
	Conversations = db.Collection("conversations")
	Notifications = db.Collection("notifications")
	PushSubs = db.Collection("subscriptions")

	if err := ensureIndexes(ctx); err != nil {
		log.Printf("Index creation failed: %v", err)
	}

	log.Println("Connected to MongoDB successfully")
	return nil
}

func ensureIndexes(ctx context.Context) error {
	_, err := Messages.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "conversationId", Value: 1}, {Key: "timestamp", Value: 1}}},
		{Keys: bson.D{{Key: "recipientId", Value: 1}, {Key: "isRead", Value: 1}}},
	})
	if err != nil {
		return err
	}

	_, err = Notifications.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	if err != nil {
		return err
	}

	_, err = Tasks.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "assignedTo", Value: 1}, {Key: "deadline", Value: 1}}},
		{Keys: bson.D{{Key: "projectId", Value: 1}}},
	})
	return err
}

func DisconnectDB() error {
	if Client == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := Client.Disconnect(ctx); err != nil {
		return err
	}

	log.Println("Disconnected from MongoDB")
	return nil
}
