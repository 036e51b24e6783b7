package taskcache

import (
	"sync"
	"testing"

	"github.com/LouayBenCerifa/GestionDeProjet/models"
)

func TestGetMissingUser(t *testing.T) {
	c := New()

	if _, _, ok := c.Get("nobody"); ok {
		t.Error("Get on empty cache should report ok=false")
	}
}

func TestPutThenGet(t *testing.T) {
	c := New()

	c.Put("u1", []models.Task{{Title: "write report"}, {Title: "review code"}})

	tasks, fetchedAt, ok := c.Get("u1")
	if !ok {
		t.Fatal("expected a snapshot for u1")
	}
	if len(tasks) != 2 {
		t.Fatalf("got %d tasks, want 2", len(tasks))
	}
	if fetchedAt.IsZero() {
		t.Error("fetchedAt should be set")
	}
}

func TestPutReplacesSnapshot(t *testing.T) {
	c := New()

	c.Put("u1", []models.Task{{Title: "old"}})
	c.Put("u1", []models.Task{{Title: "new"}})

	tasks, _, ok := c.Get("u1")
	if !ok || len(tasks) != 1 {
		t.Fatalf("got %d tasks (ok=%v), want 1", len(tasks), ok)
	}
	if tasks[0].Title != "new" {
		t.Errorf("Title = %q, want %q", tasks[0].Title, "new")
	}
}

func TestSnapshotsAreIsolatedFromCallers(t *testing.T) {
	c := New()

	in := []models.Task{{Title: "original"}}
	c.Put("u1", in)
	in[0].Title = "mutated after put"

	tasks, _, _ := c.Get("u1")
	if tasks[0].Title != "original" {
		t.Errorf("snapshot shares memory with caller slice: %q", tasks[0].Title)
	}

	tasks[0].Title = "mutated after get"
	again, _, _ := c.Get("u1")
	if again[0].Title != "original" {
		t.Errorf("returned slice shares memory with snapshot: %q", again[0].Title)
	}
}

func TestConcurrentAccess(t *testing.T) {
	c := New()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Put("u1", []models.Task{{Title: "t"}})
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Get("u1")
			}
		}()
	}
	wg.Wait()
}
