package models

import "time"

const (
	ServiceRequestStatusPending    = "PENDING"
	ServiceRequestStatusInProgress = "IN_PROGRESS"
	ServiceRequestStatusCompleted  = "COMPLETED"
	ServiceRequestStatusRejected   = "REJECTED"
)

const (
	ServiceRequestPriorityLow    = "LOW"
	ServiceRequestPriorityMedium = "MEDIUM"
	ServiceRequestPriorityHigh   = "HIGH"
)

type ServiceRequest struct {
	ID              int        `json:"id" db:"id"`
	Title           string     `json:"title" db:"title"`
	Description     string     `json:"description" db:"description"`
	Priority        string     `json:"priority" db:"priority"`
	Status          string     `json:"status" db:"status"`
	DepartmentID    int        `json:"department_id" db:"department_id"`
	DepartmentName  string     `json:"department_name,omitempty" db:"department_name"`
	CreatedByID     int        `json:"created_by_id" db:"created_by_id"`
	CreatedByName   string     `json:"created_by_name,omitempty" db:"created_by_name"`
	AssignedToID    *int       `json:"assigned_to_id,omitempty" db:"assigned_to_id"`
	ProcessedByID   *int       `json:"processed_by_id,omitempty" db:"processed_by_id"`
	ProcessedAt     *time.Time `json:"processed_at,omitempty" db:"processed_at"`
	RejectionReason *string    `json:"rejection_reason,omitempty" db:"rejection_reason"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at" db:"updated_at"`
}

type CreateServiceRequestRequest struct {
	Title        string `json:"title" binding:"required"`
	Description  string `json:"description"`
	Priority     string `json:"priority"`
	DepartmentID int    `json:"department_id" binding:"required"`
}

type ServiceRequestStatusRequest struct {
	Status          string `json:"status" binding:"required"`
	RejectionReason string `json:"rejection_reason"`
}
