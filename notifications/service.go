package notifications

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/LouayBenCerifa/GestionDeProjet/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrNotFound = errors.New("notifications: not found")

// Service owns the notifications collection. Records are append-only:
// producers create them, the read flag moves false to true once, and the
// only other mutation is deletion (single or bulk over read ones).
type Service struct {
	coll *mongo.Collection
}

func NewService(coll *mongo.Collection) *Service {
	return &Service{coll: coll}
}

// Create inserts an unread notification and returns its ID. Timestamps
// and the read flag are set here regardless of what the caller filled in.
func (s *Service) Create(ctx context.Context, n models.Notification) (string, error) {
	n.ID = primitive.NewObjectID()
	n.IsRead = false
	now := time.Now()
	n.CreatedAt = now
	n.UpdatedAt = now

	if _, err := s.coll.InsertOne(ctx, n); err != nil {
		return "", fmt.Errorf("insert notification: %w", err)
	}
	return n.ID.Hex(), nil
}

// MarkRead flips the read flag. Marking an already-read or missing
// notification is a no-op; nothing ever moves a notification back to
// unread.
func (s *Service) MarkRead(ctx context.Context, notificationID string) error {
	oid, err := primitive.ObjectIDFromHex(notificationID)
	if err != nil {
		return fmt.Errorf("%w: invalid notification id %q", ErrNotFound, notificationID)
	}

	_, err = s.coll.UpdateByID(ctx, oid, bson.M{"$set": bson.M{
		"isRead":    true,
		"updatedAt": time.Now(),
	}})
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	return nil
}

// MarkAllRead marks every currently-unread notification of the user as
// read in one bulk update. Notifications created concurrently stay
// unread, which is fine: they are unread by construction.
func (s *Service) MarkAllRead(ctx context.Context, userID string) error {
	_, err := s.coll.UpdateMany(
		ctx,
		bson.M{"userId": userID, "isRead": false},
		bson.M{"$set": bson.M{"isRead": true, "updatedAt": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("mark all read: %w", err)
	}
	return nil
}

// Delete removes one notification. Deleting a missing one returns
// ErrNotFound.
func (s *Service) Delete(ctx context.Context, notificationID string) error {
	oid, err := primitive.ObjectIDFromHex(notificationID)
	if err != nil {
		return fmt.Errorf("%w: invalid notification id %q", ErrNotFound, notificationID)
	}

	result, err := s.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete notification: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteAllRead bulk-deletes the user's read notifications.
func (s *Service) DeleteAllRead(ctx context.Context, userID string) error {
	_, err := s.coll.DeleteMany(ctx, bson.M{"userId": userID, "isRead": true})
	if err != nil {
		return fmt.Errorf("delete all read: %w", err)
	}
	return nil
}

// List returns the user's notifications newest first.
func (s *Service) List(ctx context.Context, userID string) ([]models.Notification, error) {
	cursor, err := s.coll.Find(
		ctx,
		bson.M{"userId": userID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("find notifications: %w", err)
	}
	defer cursor.Close(ctx)

	list := []models.Notification{}
	if err := cursor.All(ctx, &list); err != nil {
		return nil, fmt.Errorf("decode notifications: %w", err)
	}
	return list, nil
}

// UnreadCount counts the user's unread notifications.
func (s *Service) UnreadCount(ctx context.Context, userID string) (int64, error) {
	count, err := s.coll.CountDocuments(ctx, bson.M{"userId": userID, "isRead": false})
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return count, nil
}
