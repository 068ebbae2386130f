// Package notify bridges board lifecycle events to chat platforms
// (Slack, Discord, plain log output).
package notify

import "context"

// Adapter is the interface that platform-specific implementations must
// satisfy. Adapters are outbound-only: they deliver event text to a
// single configured channel.
type Adapter interface {
	// Send delivers one message to the platform.
	Send(ctx context.Context, text string) error

	// Close shuts down the adapter connection.
	Close() error
}

// Event kinds published by the board store.
const (
	KindTaskCreated   = "task_created"
	KindTaskMoved     = "task_moved"
	KindBranchCreated = "branch_created"
	KindBranchMerged  = "branch_merged"
	KindGateRejected  = "gate_rejected"
)

// Event is a board lifecycle event formatted for delivery.
type Event struct {
	Kind   string
	Board  string // board name
	TaskID uint
	Task   string // task title
	Branch string // feature branch, when the event concerns one
	Target string // target branch, when the event concerns a git action
	Detail string // free text: column name, unmet criteria
}
