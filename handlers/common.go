package handlers

import (
	"github.com/LouayBenCerifa/GestionDeProjet/chat"
	"github.com/LouayBenCerifa/GestionDeProjet/notifications"
	"github.com/LouayBenCerifa/GestionDeProjet/taskcache"
	"github.com/LouayBenCerifa/GestionDeProjet/websocket"
)

// Shared service instances wired once from main before the router starts.
var (
	chatService  *chat.Service
	notifService *notifications.Service
	tasksCache   *taskcache.Cache
	wsManager    *websocket.Manager
)

// Init hands the handler layer its dependencies.
func Init(cs *chat.Service, ns *notifications.Service, tc *taskcache.Cache) {
	chatService = cs
	notifService = ns
	tasksCache = tc
}

// SetWebSocketManager sets the live-event manager; optional, handlers
// no-op the pushes when it is absent.
func SetWebSocketManager(manager *websocket.Manager) {
	wsManager = manager
}
