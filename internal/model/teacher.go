package model

import "time"

// Teacher represents a teacher account.
type Teacher struct {
	ID           int       `json:"id"`
	TeacherID    string    `json:"teacher_id"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// TeacherLoginRequest is the payload for teacher authentication.
type TeacherLoginRequest struct {
	TeacherID string `json:"teacher_id" binding:"required,min=2,max=32"`
	Password  string `json:"password" binding:"required,min=4,max=128"`
}
