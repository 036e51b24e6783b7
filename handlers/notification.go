package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/LouayBenCerifa/GestionDeProjet/notifications"

	"github.com/gin-gonic/gin"
)

func GetNotifications(c *gin.Context) {
	userID := c.GetString("userId")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	list, err := notifService.List(ctx, userID)
	if err != nil {
		log.Printf("GetNotifications error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notifications"})
		return
	}

	c.JSON(http.StatusOK, list)
}

func GetUnreadNotificationCount(c *gin.Context) {
	userID := c.GetString("userId")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	count, err := notifService.UnreadCount(ctx, userID)
	if err != nil {
		log.Printf("GetUnreadNotificationCount error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}

func MarkNotificationRead(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := notifService.MarkRead(ctx, c.Param("id")); err != nil {
		log.Printf("MarkNotificationRead error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark notification"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Marked as read"})
}

func MarkAllNotificationsRead(c *gin.Context) {
	userID := c.GetString("userId")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := notifService.MarkAllRead(ctx, userID); err != nil {
		log.Printf("MarkAllNotificationsRead error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "All marked as read"})
}

func DeleteNotification(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := notifService.Delete(ctx, c.Param("id"))
	if errors.Is(err, notifications.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}
	if err != nil {
		log.Printf("DeleteNotification error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete notification"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Deleted"})
}

func DeleteAllReadNotifications(c *gin.Context) {
	userID := c.GetString("userId")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := notifService.DeleteAllRead(ctx, userID); err != nil {
		log.Printf("DeleteAllReadNotifications error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Read notifications deleted"})
}
