package board

import (
	"strings"

	"github.com/qwertukg/boardyard/internal/models"
)

// Policy decides whether a task satisfies an agent's acceptance criteria.
// The store evaluates it when a task moves into an agent-assigned column;
// a rejection reverts the move.
type Policy interface {
	Evaluate(criteria string, task *models.Task) bool
}

// ContainsPolicy accepts a task when the criteria text appears in the
// task description, case-insensitively. It is a stand-in for a real
// evaluator; swap it out via Opts.Policy.
type ContainsPolicy struct{}

// Evaluate reports whether the description contains the criteria text.
func (ContainsPolicy) Evaluate(criteria string, task *models.Task) bool {
	return strings.Contains(
		strings.ToLower(task.Description),
		strings.ToLower(criteria),
	)
}
