package models

import "time"

type User struct {
	ID           int         `json:"id" db:"id"`
	Email        string      `json:"email" db:"email"`
	Fullname     string      `json:"fullname" db:"fullname"`
	PasswordHash string      `json:"-" db:"password_hash"`
	Role         string      `json:"role" db:"role"`
	DepartmentID *int        `json:"department_id,omitempty" db:"department_id"`
	Department   *Department `json:"department,omitempty" db:"-"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`
}

type CreateUserRequest struct {
	Email        string `json:"email" binding:"required,email"`
	Fullname     string `json:"fullname" binding:"required"`
	Password     string `json:"password" binding:"required,min=6"`
	Role         string `json:"role" binding:"required"`
	DepartmentID *int   `json:"department_id"`
}

type UpdateUserRequest struct {
	Fullname     *string `json:"fullname"`
	Password     *string `json:"password"`
	Role         *string `json:"role"`
	DepartmentID *int    `json:"department_id"`
}

// UserChanges holds only the columns that actually differ so updates stay minimal.
type UserChanges struct {
	Fullname     *string
	PasswordHash *string
	Role         *string
	DepartmentID *int
}

func (c *UserChanges) HasChanges() bool {
	return c.Fullname != nil || c.PasswordHash != nil || c.Role != nil || c.DepartmentID != nil
}
