package model

import "time"

// Question is a coding exercise in the bank. ExpectedOutput is the answer
// key and must never be serialized to clients.
type Question struct {
	ID             int       `json:"id"`
	QuestionID     string    `json:"question_id"`
	Content        string    `json:"content"`
	TestInput      string    `json:"test_input"`
	ExpectedOutput string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
}
