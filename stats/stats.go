// Package stats computes dashboard figures from in-memory snapshots of
// the task and project collections. Everything here is pure: callers
// fetch, these functions only count.
package stats

import (
	"time"

	"github.com/LouayBenCerifa/GestionDeProjet/models"
)

type AdminDashboardStats struct {
	TotalProjects      int               `json:"totalProjects"`
	ActiveProjects     int               `json:"activeProjects"`
	TotalTasks         int               `json:"totalTasks"`
	CompletedTasks     int               `json:"completedTasks"`
	TaskCompletionRate float64           `json:"taskCompletionRate"`
	ActiveEmployees    int               `json:"activeEmployees"`
	ProjectProgress    []ProjectProgress `json:"projectProgress"`
}

type ProjectProgress struct {
	ProjectID   string    `json:"projectId"`
	ProjectName string    `json:"projectName"`
	Progress    float64   `json:"progress"`
	TasksDone   int       `json:"tasksDone"`
	TasksTotal  int       `json:"tasksTotal"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
}

type EmployeeDashboardStats struct {
	AssignedTasks      int     `json:"assignedTasks"`
	CompletedTasks     int     `json:"completedTasks"`
	InProgressTasks    int     `json:"inProgressTasks"`
	OverdueTaskCount   int     `json:"overdueTaskCount"`
	TaskCompletionRate float64 `json:"taskCompletionRate"`
}

// CompletionRate is completed/total as a percentage, 0 when there is
// nothing to complete.
func CompletionRate(completed, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(completed) / float64(total) * 100
}

// OverdueTasks counts tasks whose deadline day is strictly before now's
// day and that are not done. The comparison ignores time of day: a task
// due today is not overdue until tomorrow.
func OverdueTasks(tasks []models.Task, now time.Time) int {
	today := truncateToDay(now)

	count := 0
	for _, t := range tasks {
		if t.Status == models.TaskDone {
			continue
		}
		if truncateToDay(t.Deadline).Before(today) {
			count++
		}
	}
	return count
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ActiveProjects counts projects in planning or in-progress. On-hold and
// completed projects are not active; this exact set matters to callers.
func ActiveProjects(projects []models.Project) int {
	count := 0
	for _, p := range projects {
		if p.Status == models.ProjectInProgress || p.Status == models.ProjectPlanning {
			count++
		}
	}
	return count
}

// CountByStatus counts tasks with the given status.
func CountByStatus(tasks []models.Task, status string) int {
	count := 0
	for _, t := range tasks {
		if t.Status == status {
			count++
		}
	}
	return count
}

// AdminStats builds the admin dashboard from snapshots of the admin's
// projects, the task collection and the employee head count.
func AdminStats(projects []models.Project, tasks []models.Task, activeEmployees int) AdminDashboardStats {
	completed := CountByStatus(tasks, models.TaskDone)

	progress := make([]ProjectProgress, len(projects))
	for i, p := range projects {
		progress[i] = ProjectProgress{
			ProjectID:   p.ID.Hex(),
			ProjectName: p.Name,
			Progress:    p.CompletionPercentage,
			TasksDone:   p.CompletedTaskCount,
			TasksTotal:  p.TaskCount,
			StartDate:   p.StartDate,
			EndDate:     p.EndDate,
		}
	}

	return AdminDashboardStats{
		TotalProjects:      len(projects),
		ActiveProjects:     ActiveProjects(projects),
		TotalTasks:         len(tasks),
		CompletedTasks:     completed,
		TaskCompletionRate: CompletionRate(completed, len(tasks)),
		ActiveEmployees:    activeEmployees,
		ProjectProgress:    progress,
	}
}

// EmployeeStats builds the employee dashboard from a snapshot of the
// employee's assigned tasks.
func EmployeeStats(tasks []models.Task, now time.Time) EmployeeDashboardStats {
	completed := CountByStatus(tasks, models.TaskDone)

	return EmployeeDashboardStats{
		AssignedTasks:      len(tasks),
		CompletedTasks:     completed,
		InProgressTasks:    CountByStatus(tasks, models.TaskInProgress),
		OverdueTaskCount:   OverdueTasks(tasks, now),
		TaskCompletionRate: CompletionRate(completed, len(tasks)),
	}
}
