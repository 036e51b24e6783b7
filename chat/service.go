package chat

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/LouayBenCerifa/GestionDeProjet/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when a referenced document does not exist and
// the operation expected it to.
var ErrNotFound = errors.New("chat: not found")

// Service persists direct messages and maintains the denormalized
// conversation summaries. All operations take the acting user's identity
// as explicit arguments; nothing is read from ambient state.
type Service struct {
	messages      *mongo.Collection
	conversations *mongo.Collection
	users         *mongo.Collection
	broker        *Broker
}

func NewService(messages, conversations, users *mongo.Collection) *Service {
	return &Service{
		messages:      messages,
		conversations: conversations,
		users:         users,
		broker:        NewBroker(),
	}
}

// SendMessage stores a message and updates the conversation summary. The
// returned ID is valid as soon as the message write succeeds; the summary
// is denormalized last-write-wins state, so a failure there is logged
// rather than failing the send (the next send repairs it).
func (s *Service) SendMessage(ctx context.Context, senderID, senderName, senderRole, recipientID, content string) (string, error) {
	conversationID := ConversationID(senderID, recipientID)

	msg := models.Message{
		ID:             primitive.NewObjectID(),
		SenderID:       senderID,
		SenderName:     senderName,
		SenderRole:     senderRole,
		RecipientID:    recipientID,
		Content:        content,
		Timestamp:      time.Now(),
		IsRead:         false,
		ConversationID: conversationID,
	}

	if _, err := s.messages.InsertOne(ctx, msg); err != nil {
		return "", fmt.Errorf("insert message: %w", err)
	}

	if err := s.upsertSummary(ctx, msg); err != nil {
		log.Printf("Update conversation %s failed: %v", conversationID, err)
	}

	s.broker.Publish(msg)

	return msg.ID.Hex(), nil
}

// upsertSummary is the single creation path for conversation summaries:
// the first message between a pair creates the document, every later send
// overwrites lastMessage/lastMessageTime unconditionally and bumps the
// unread counter. Concurrent sends race last-write-wins; the summary is
// eventually consistent with no ordering guarantee.
func (s *Service) upsertSummary(ctx context.Context, msg models.Message) error {
	adminID, adminName := msg.SenderID, msg.SenderName
	employeeID, employeeName := msg.RecipientID, ""
	if msg.SenderRole == models.RoleEmployee {
		adminID, adminName = msg.RecipientID, ""
		employeeID, employeeName = msg.SenderID, msg.SenderName
	}

	set := bson.M{
		"lastMessage":     msg.Content,
		"lastMessageTime": msg.Timestamp,
	}
	setOnInsert := bson.M{
		"adminId":    adminID,
		"employeeId": employeeID,
	}

	// The sender's display name is known here; the counterpart's is
	// resolved from the users collection only when the summary is first
	// created.
	if msg.SenderRole == models.RoleAdmin {
		set["adminName"] = adminName
		setOnInsert["employeeName"] = s.lookupName(ctx, employeeID)
	} else {
		set["employeeName"] = employeeName
		setOnInsert["adminName"] = s.lookupName(ctx, adminID)
	}

	_, err := s.conversations.UpdateOne(
		ctx,
		bson.M{"_id": msg.ConversationID},
		bson.M{
			"$set":         set,
			"$setOnInsert": setOnInsert,
			"$inc":         bson.M{"unreadCount": 1},
		},
		options.Update().SetUpsert(true),
	)
	return err
}

func (s *Service) lookupName(ctx context.Context, userID string) string {
	if s.users == nil {
		return ""
	}
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return ""
	}
	var user models.User
	if err := s.users.FindOne(ctx, bson.M{"_id": oid}).Decode(&user); err != nil {
		return ""
	}
	return user.Name
}

// ConversationMessages returns every message between the two participants
// ordered oldest first. The order of the two IDs does not matter.
func (s *Service) ConversationMessages(ctx context.Context, participantA, participantB string) ([]models.Message, error) {
	conversationID := ConversationID(participantA, participantB)

	cursor, err := s.messages.Find(
		ctx,
		bson.M{"conversationId": conversationID},
		options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("find messages: %w", err)
	}
	defer cursor.Close(ctx)

	messages := []models.Message{}
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, fmt.Errorf("decode messages: %w", err)
	}
	return messages, nil
}

// Subscribe returns a live feed of messages added to the conversation
// after the call. Combine with ConversationMessages for full history; the
// caller must Cancel the subscription when the consuming view goes away.
func (s *Service) Subscribe(participantA, participantB string) *Subscription {
	return s.broker.Subscribe(ConversationID(participantA, participantB))
}

// MarkMessageRead flips the read flag. Idempotent: marking an already-read
// or missing message is a no-op.
func (s *Service) MarkMessageRead(ctx context.Context, messageID string) error {
	oid, err := primitive.ObjectIDFromHex(messageID)
	if err != nil {
		return fmt.Errorf("%w: invalid message id %q", ErrNotFound, messageID)
	}

	_, err = s.messages.UpdateByID(ctx, oid, bson.M{"$set": bson.M{"isRead": true}})
	if err != nil {
		return fmt.Errorf("mark message read: %w", err)
	}
	return nil
}

// ResetUnread zeroes the unread counter of the conversation between the
// two participants, typically when the recipient opens the thread. The
// counter is only ever set to zero, never decremented, so it cannot go
// negative. Missing conversations are a no-op.
func (s *Service) ResetUnread(ctx context.Context, participantA, participantB string) error {
	conversationID := ConversationID(participantA, participantB)

	_, err := s.conversations.UpdateOne(
		ctx,
		bson.M{"_id": conversationID},
		bson.M{"$set": bson.M{"unreadCount": 0}},
	)
	if err != nil {
		return fmt.Errorf("reset unread: %w", err)
	}
	return nil
}

// UnreadCount counts unread messages addressed to the user across all
// conversations.
func (s *Service) UnreadCount(ctx context.Context, userID string) (int64, error) {
	count, err := s.messages.CountDocuments(ctx, bson.M{
		"recipientId": userID,
		"isRead":      false,
	})
	if err != nil {
		return 0, fmt.Errorf("count unread: %w", err)
	}
	return count, nil
}

// UserConversations lists the user's conversation summaries newest first.
// The role decides which side of the summary the user is matched on.
func (s *Service) UserConversations(ctx context.Context, userID, role string) ([]models.Conversation, error) {
	field := "employeeId"
	if role == models.RoleAdmin {
		field = "adminId"
	}

	cursor, err := s.conversations.Find(
		ctx,
		bson.M{field: userID},
		options.Find().SetSort(bson.D{{Key: "lastMessageTime", Value: -1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("find conversations: %w", err)
	}
	defer cursor.Close(ctx)

	conversations := []models.Conversation{}
	if err := cursor.All(ctx, &conversations); err != nil {
		return nil, fmt.Errorf("decode conversations: %w", err)
	}
	return conversations, nil
}

// Conversation fetches one summary by the two participant IDs.
func (s *Service) Conversation(ctx context.Context, participantA, participantB string) (*models.Conversation, error) {
	conversationID := ConversationID(participantA, participantB)

	var conv models.Conversation
	err := s.conversations.FindOne(ctx, bson.M{"_id": conversationID}).Decode(&conv)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find conversation: %w", err)
	}
	return &conv, nil
}
