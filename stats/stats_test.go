package stats

import (
	"testing"
	"time"

	"github.com/LouayBenCerifa/GestionDeProjet/models"
)

func TestCompletionRate(t *testing.T) {
	tests := []struct {
		name      string
		completed int
		total     int
		want      float64
	}{
		{"zero tasks", 0, 0, 0},
		{"none done", 0, 4, 0},
		{"half done", 2, 4, 50},
		{"all done", 3, 3, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CompletionRate(tt.completed, tt.total); got != tt.want {
				t.Errorf("CompletionRate(%d, %d) = %v, want %v", tt.completed, tt.total, got, tt.want)
			}
		})
	}
}

func TestOverdueTasksIsDateOnly(t *testing.T) {
	now := time.Date(2026, 8, 28, 9, 30, 0, 0, time.UTC)
	yesterday := now.AddDate(0, 0, -1)
	tomorrow := now.AddDate(0, 0, 1)
	// Due today but at an earlier hour: not overdue until tomorrow
	earlierToday := time.Date(2026, 8, 28, 1, 0, 0, 0, time.UTC)

	tasks := []models.Task{
		{Status: models.TaskInProgress, Deadline: yesterday},
		{Status: models.TaskDone, Deadline: yesterday},
		{Status: models.TaskTodo, Deadline: earlierToday},
		{Status: models.TaskTodo, Deadline: tomorrow},
	}

	if got := OverdueTasks(tasks, now); got != 1 {
		t.Errorf("OverdueTasks = %d, want 1 (only the unfinished task due yesterday)", got)
	}
}

func TestActiveProjects(t *testing.T) {
	projects := []models.Project{
		{Status: models.ProjectPlanning},
		{Status: models.ProjectInProgress},
		{Status: models.ProjectOnHold},
		{Status: models.ProjectCompleted},
	}

	if got := ActiveProjects(projects); got != 2 {
		t.Errorf("ActiveProjects = %d, want 2 (planning and in-progress only)", got)
	}
}

func TestEmployeeStats(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	yesterday := now.AddDate(0, 0, -1)
	nextWeek := now.AddDate(0, 0, 7)

	tasks := []models.Task{
		{Status: models.TaskDone, Deadline: yesterday},
		{Status: models.TaskInProgress, Deadline: yesterday},
		{Status: models.TaskTodo, Deadline: nextWeek},
		{Status: models.TaskInProgress, Deadline: nextWeek},
	}

	got := EmployeeStats(tasks, now)

	if got.AssignedTasks != 4 {
		t.Errorf("AssignedTasks = %d, want 4", got.AssignedTasks)
	}
	if got.CompletedTasks != 1 {
		t.Errorf("CompletedTasks = %d, want 1", got.CompletedTasks)
	}
	if got.InProgressTasks != 2 {
		t.Errorf("InProgressTasks = %d, want 2", got.InProgressTasks)
	}
	if got.OverdueTaskCount != 1 {
		t.Errorf("OverdueTaskCount = %d, want 1", got.OverdueTaskCount)
	}
	if got.TaskCompletionRate != 25 {
		t.Errorf("TaskCompletionRate = %v, want 25", got.TaskCompletionRate)
	}
}

func TestEmployeeStatsEmpty(t *testing.T) {
	got := EmployeeStats(nil, time.Now())
	if got.TaskCompletionRate != 0 {
		t.Errorf("TaskCompletionRate on no tasks = %v, want 0", got.TaskCompletionRate)
	}
}

func TestAdminStats(t *testing.T) {
	projects := []models.Project{
		{Name: "Alpha", Status: models.ProjectInProgress, TaskCount: 2, CompletedTaskCount: 1, CompletionPercentage: 50},
		{Name: "Beta", Status: models.ProjectCompleted, TaskCount: 1, CompletedTaskCount: 1, CompletionPercentage: 100},
	}
	tasks := []models.Task{
		{Status: models.TaskDone},
		{Status: models.TaskDone},
		{Status: models.TaskTodo},
	}

	got := AdminStats(projects, tasks, 5)

	if got.TotalProjects != 2 || got.ActiveProjects != 1 {
		t.Errorf("projects = (%d total, %d active), want (2, 1)", got.TotalProjects, got.ActiveProjects)
	}
	if got.TotalTasks != 3 || got.CompletedTasks != 2 {
		t.Errorf("tasks = (%d total, %d completed), want (3, 2)", got.TotalTasks, got.CompletedTasks)
	}
	if got.ActiveEmployees != 5 {
		t.Errorf("ActiveEmployees = %d, want 5", got.ActiveEmployees)
	}
	if len(got.ProjectProgress) != 2 || got.ProjectProgress[0].ProjectName != "Alpha" {
		t.Errorf("unexpected project progress list: %+v", got.ProjectProgress)
	}
}
