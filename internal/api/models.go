package api

import (
	"time"

	"github.com/phrazzld/taskward/internal/domain"
	"github.com/phrazzld/taskward/internal/service"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,max=80"`
	Password string `json:"password" validate:"required"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse defines the successful response for the login endpoint.
type LoginResponse struct {
	// AccessToken is the signed bearer token used for API authorization
	AccessToken string `json:"access_token"`
}

// MessageResponse defines the confirmation payload for write endpoints.
type MessageResponse struct {
	Message string `json:"message"`
}

// CreateTaskRequest defines the payload for the task creation endpoint.
// DueDate must be a calendar date in YYYY-MM-DD form.
type CreateTaskRequest struct {
	Title    string `json:"title"    validate:"required,max=120"`
	Priority string `json:"priority" validate:"required,oneof=Low Medium High"`
	DueDate  string `json:"due_date" validate:"required"`
}

// TaskResponse defines the serialized form of a task.
type TaskResponse struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Status   string `json:"status"`
	Priority string `json:"priority"`
	DueDate  string `json:"due_date"`
}

// NewTaskResponse converts a domain task into its wire representation.
func NewTaskResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:       task.ID.String(),
		Title:    task.Title,
		Status:   string(task.Status),
		Priority: string(task.Priority),
		DueDate:  task.DueDate.Format(time.DateOnly),
	}
}

// StatsResponse defines the aggregate statistics payload.
type StatsResponse struct {
	Status   StatusCounts   `json:"status"`
	Priority PriorityCounts `json:"priority"`
}

// StatusCounts tallies a user's tasks per status.
type StatusCounts struct {
	Completed int `json:"completed"`
	Pending   int `json:"pending"`
}

// PriorityCounts tallies a user's tasks per priority, independent of status.
type PriorityCounts struct {
	Low    int `json:"Low"`
	Medium int `json:"Medium"`
	High   int `json:"High"`
}

// NewStatsResponse converts service-layer stats into the wire representation.
func NewStatsResponse(stats *service.TaskStats) StatsResponse {
	return StatsResponse{
		Status: StatusCounts{
			Completed: stats.Completed,
			Pending:   stats.Pending,
		},
		Priority: PriorityCounts{
			Low:    stats.ByPriority[domain.TaskPriorityLow],
			Medium: stats.ByPriority[domain.TaskPriorityMedium],
			High:   stats.ByPriority[domain.TaskPriorityHigh],
		},
	}
}

// ReminderItem carries just the title of a due or overdue task.
type ReminderItem struct {
	Title string `json:"title"`
}

// RemindersResponse groups open tasks by urgency relative to today.
type RemindersResponse struct {
	Overdue []ReminderItem `json:"overdue"`
	Today   []ReminderItem `json:"today"`
}

// NewRemindersResponse converts service-layer reminders into the wire representation.
func NewRemindersResponse(reminders *service.TaskReminders) RemindersResponse {
	resp := RemindersResponse{
		Overdue: make([]ReminderItem, 0, len(reminders.Overdue)),
		Today:   make([]ReminderItem, 0, len(reminders.Today)),
	}
	for _, task := range reminders.Overdue {
		resp.Overdue = append(resp.Overdue, ReminderItem{Title: task.Title})
	}
	for _, task := range reminders.Today {
		resp.Today = append(resp.Today, ReminderItem{Title: task.Title})
	}
	return resp
}
