package models

import (
	"time"
)

type Role string

const (
	RoleInterviewer Role = "interviewer"
	RoleCandidate   Role = "candidate"
)

// ModelParams are the completion parameters sent with every request.
type ModelParams struct {
	Model       string   `json:"model" yaml:"model"`
	MaxTokens   int      `json:"max_tokens" yaml:"max_tokens"`
	Temperature float64  `json:"temperature" yaml:"temperature"`
	Stop        []string `json:"stop,omitempty" yaml:"stop"`
	BestOf      int      `json:"best_of,omitempty" yaml:"best_of"`
	Retry       bool     `json:"retry,omitempty" yaml:"retry"`
}

// Input message

type PromptRequest struct {
	Template string            `json:"template"`
	Params   ModelParams       `json:"params"`
	Inputs   map[string]string `json:"inputs,omitempty"`
	Input    string            `json:"input"`
}

// One completion's output. Exactly one of Output and Error is meaningful.
type CompletionResult struct {
	Input    string        `json:"input"`
	Output   string        `json:"output,omitempty"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration_ns"`
}

// Failed reports whether the completion for this input failed.
func (r CompletionResult) Failed() bool {
	return r.Error != ""
}

// BatchSummary is the aggregate emitted by the batch CLI summary format.
type BatchSummary struct {
	Total    int           `json:"total"`
	Success  int           `json:"success"`
	Failed   int           `json:"failed"`
	Duration time.Duration `json:"duration_ns"`
}

// Interview session objects

type Turn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

type Session struct {
	ID         string      `json:"session_id"`
	Resume     string      `json:"resume"`
	Question   string      `json:"question"`
	Params     ModelParams `json:"params"`
	Transcript []Turn      `json:"transcript"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}
