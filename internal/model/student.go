package model

import "time"

// Student represents a student account. Accounts are created by
// administrative seeding; the request path only ever reads them.
type Student struct {
	ID           int       `json:"id"`
	StudentID    string    `json:"student_id"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// StudentLoginRequest is the payload for student authentication.
type StudentLoginRequest struct {
	StudentID string `json:"student_id" binding:"required,min=2,max=32"`
	Password  string `json:"password" binding:"required,min=4,max=128"`
}
