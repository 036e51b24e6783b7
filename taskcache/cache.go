// Package taskcache keeps the last successfully loaded task snapshot per
// user so task listing can degrade to stale data when MongoDB is
// unreachable. Snapshots are replaced wholesale on every successful
// fetch, never merged.
package taskcache

import (
	"sync"
	"time"

	"github.com/LouayBenCerifa/GestionDeProjet/models"
)

type snapshot struct {
	tasks     []models.Task
	fetchedAt time.Time
}

type Cache struct {
	mu        sync.RWMutex
	snapshots map[string]snapshot
}

func New() *Cache {
	return &Cache{snapshots: make(map[string]snapshot)}
}

// Put replaces the user's snapshot with a copy of tasks.
func (c *Cache) Put(userID string, tasks []models.Task) {
	copied := make([]models.Task, len(tasks))
	copy(copied, tasks)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshots[userID] = snapshot{tasks: copied, fetchedAt: time.Now()}
}

// Get returns the user's last snapshot and when it was taken. ok is false
// when the user has never had a successful fetch this session.
func (c *Cache) Get(userID string) (tasks []models.Task, fetchedAt time.Time, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s, ok := c.snapshots[userID]
	if !ok {
		return nil, time.Time{}, false
	}

	copied := make([]models.Task, len(s.tasks))
	copy(copied, s.tasks)
	return copied, s.fetchedAt, true
}
