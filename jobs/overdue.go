// Package jobs holds the scheduled background sweeps.
package jobs

import (
	"context"
	"log"
	"time"

	"github.com/LouayBenCerifa/GestionDeProjet/database"
	"github.com/LouayBenCerifa/GestionDeProjet/models"
	"github.com/LouayBenCerifa/GestionDeProjet/notifications"

	"go.mongodb.org/mongo-driver/bson"
)

// SendOverdueReminders notifies assignees of tasks whose deadline passed.
// Scheduled daily; the deadline comparison is against the start of today,
// so tasks due today are not flagged yet.
func SendOverdueReminders(notifService *notifications.Service) {
	log.Println("Running job: SendOverdueReminders...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	now := time.Now()
	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	cursor, err := database.Tasks.Find(ctx, bson.M{
		"deadline": bson.M{"$lt": startOfToday},
		"status":   bson.M{"$ne": models.TaskDone},
	})
	if err != nil {
		log.Printf("Error checking for overdue tasks: %v", err)
		return
	}
	defer cursor.Close(ctx)

	tasks := []models.Task{}
	if err := cursor.All(ctx, &tasks); err != nil {
		log.Printf("Error decoding overdue tasks: %v", err)
		return
	}

	for _, task := range tasks {
		_, err := notifService.Create(ctx, models.Notification{
			UserID:  task.AssignedTo,
			Type:    models.NotificationTaskUpdated,
			Title:   "Task overdue",
			Message: "\"" + task.Title + "\" passed its deadline on " + task.Deadline.Format("2006-01-02"),
			Link:    "/employee/tasks/" + task.ID.Hex(),
		})
		if err != nil {
			log.Printf("Overdue reminder for task %s failed: %v", task.ID.Hex(), err)
		}
	}

	if len(tasks) > 0 {
		log.Printf("Sent %d overdue reminders", len(tasks))
	}
}
