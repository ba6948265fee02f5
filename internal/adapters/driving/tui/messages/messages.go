// Package messages defines Bubbletea message types for the TUI.
package messages

import (
	"github.com/campus-labs/deptchat/internal/core/domain"
)

// AnswerCompleted carries a finished answer back to the model.
type AnswerCompleted struct {
	Answer *domain.Answer
	Err    error
}
