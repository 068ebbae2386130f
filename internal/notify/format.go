package notify

import "fmt"

// Format renders an event as a single chat line.
func Format(e Event) string {
	head := fmt.Sprintf("[%s] task #%d %q", e.Board, e.TaskID, e.Task)
	switch e.Kind {
	case KindTaskCreated:
		return fmt.Sprintf("%s created in column %q", head, e.Detail)
	case KindTaskMoved:
		return fmt.Sprintf("%s moved to column %q", head, e.Detail)
	case KindBranchCreated:
		return fmt.Sprintf("%s branch %s created from %s", head, e.Branch, e.Target)
	case KindBranchMerged:
		return fmt.Sprintf("%s branch %s merged into %s", head, e.Branch, e.Target)
	case KindGateRejected:
		return fmt.Sprintf("%s rejected: acceptance criteria not met: %s", head, e.Detail)
	default:
		return head
	}
}
