package notifications

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/LouayBenCerifa/GestionDeProjet/models"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func newTestService(t *testing.T) (*Service, context.Context) {
	t.Helper()

	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		t.Skip("MONGODB_URI not set, skipping integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { client.Disconnect(context.Background()) })

	coll := client.Database("gestionprojet_test").Collection("notifications")
	if err := coll.Drop(ctx); err != nil {
		t.Fatalf("drop: %v", err)
	}

	return NewService(coll), ctx
}

func createFor(t *testing.T, svc *Service, ctx context.Context, userID, title string) string {
	t.Helper()
	id, err := svc.Create(ctx, models.Notification{
		UserID:  userID,
		Type:    models.NotificationTaskAssigned,
		Title:   title,
		Message: "details",
	})
	if err != nil {
		t.Fatalf("Create(%q, %q): %v", userID, title, err)
	}
	return id
}

func TestCreateStartsUnread(t *testing.T) {
	svc, ctx := newTestService(t)

	// Whatever the caller fills in, new notifications start unread.
	_, err := svc.Create(ctx, models.Notification{
		UserID: "u1",
		Type:   models.NotificationMessage,
		Title:  "New message",
		IsRead: true,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	count, err := svc.UnreadCount(ctx, "u1")
	if err != nil {
		t.Fatalf("UnreadCount: %v", err)
	}
	if count != 1 {
		t.Errorf("UnreadCount = %d, want 1", count)
	}
}

func TestMarkReadIsIdempotent(t *testing.T) {
	svc, ctx := newTestService(t)

	id := createFor(t, svc, ctx, "u1", "one")

	if err := svc.MarkRead(ctx, id); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	if err := svc.MarkRead(ctx, id); err != nil {
		t.Fatalf("second MarkRead: %v", err)
	}

	count, err := svc.UnreadCount(ctx, "u1")
	if err != nil {
		t.Fatalf("UnreadCount: %v", err)
	}
	if count != 0 {
		t.Errorf("UnreadCount = %d, want 0", count)
	}

	if err := svc.MarkRead(ctx, "bogus"); !errors.Is(err, ErrNotFound) {
		t.Errorf("invalid id: got %v, want ErrNotFound", err)
	}
}

func TestMarkAllReadScopedToUser(t *testing.T) {
	svc, ctx := newTestService(t)

	createFor(t, svc, ctx, "u1", "a")
	createFor(t, svc, ctx, "u1", "b")
	createFor(t, svc, ctx, "u2", "c")

	if err := svc.MarkAllRead(ctx, "u1"); err != nil {
		t.Fatalf("MarkAllRead: %v", err)
	}

	u1Count, err := svc.UnreadCount(ctx, "u1")
	if err != nil {
		t.Fatalf("UnreadCount(u1): %v", err)
	}
	if u1Count != 0 {
		t.Errorf("u1 unread = %d, want 0", u1Count)
	}

	u2Count, err := svc.UnreadCount(ctx, "u2")
	if err != nil {
		t.Fatalf("UnreadCount(u2): %v", err)
	}
	if u2Count != 1 {
		t.Errorf("u2 unread = %d, want 1 (other users untouched)", u2Count)
	}
}

func TestDelete(t *testing.T) {
	svc, ctx := newTestService(t)

	id := createFor(t, svc, ctx, "u1", "doomed")

	if err := svc.Delete(ctx, id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := svc.Delete(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete: got %v, want ErrNotFound", err)
	}
	if err := svc.Delete(ctx, "bogus"); !errors.Is(err, ErrNotFound) {
		t.Errorf("invalid id: got %v, want ErrNotFound", err)
	}
}

func TestDeleteAllReadKeepsUnread(t *testing.T) {
	svc, ctx := newTestService(t)

	readID := createFor(t, svc, ctx, "u1", "old")
	createFor(t, svc, ctx, "u1", "fresh")

	if err := svc.MarkRead(ctx, readID); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	if err := svc.DeleteAllRead(ctx, "u1"); err != nil {
		t.Fatalf("DeleteAllRead: %v", err)
	}

	list, err := svc.List(ctx, "u1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("got %d notifications, want 1", len(list))
	}
	if list[0].Title != "fresh" {
		t.Errorf("survivor = %q, want %q", list[0].Title, "fresh")
	}
}

func TestListNewestFirst(t *testing.T) {
	svc, ctx := newTestService(t)

	createFor(t, svc, ctx, "u1", "first")
	time.Sleep(5 * time.Millisecond)
	createFor(t, svc, ctx, "u1", "second")

	list, err := svc.List(ctx, "u1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("got %d notifications, want 2", len(list))
	}
	if list[0].Title != "second" || list[1].Title != "first" {
		t.Errorf("order = [%q, %q], want newest first", list[0].Title, list[1].Title)
	}
}
