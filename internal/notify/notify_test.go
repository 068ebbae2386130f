package notify

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name  string
		event Event
		want  string
	}{
		{
			"branch created",
			Event{Kind: KindBranchCreated, Board: "Release", TaskID: 1, Task: "Fix login",
				Branch: "feature/1-fix-login", Target: "main"},
			`[Release] task #1 "Fix login" branch feature/1-fix-login created from main`,
		},
		{
			"branch merged",
			Event{Kind: KindBranchMerged, Board: "Release", TaskID: 1, Task: "Fix login",
				Branch: "feature/1-fix-login", Target: "main"},
			`[Release] task #1 "Fix login" branch feature/1-fix-login merged into main`,
		},
		{
			"task created",
			Event{Kind: KindTaskCreated, Board: "Release", TaskID: 2, Task: "Audit", Detail: "Review"},
			`[Release] task #2 "Audit" created in column "Review"`,
		},
		{
			"task moved",
			Event{Kind: KindTaskMoved, Board: "Release", TaskID: 2, Task: "Audit", Detail: "Dev"},
			`[Release] task #2 "Audit" moved to column "Dev"`,
		},
		{
			"gate rejected",
			Event{Kind: KindGateRejected, Board: "Release", TaskID: 2, Task: "Audit", Detail: "tested"},
			`[Release] task #2 "Audit" rejected: acceptance criteria not met: tested`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Format(tt.event); got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLogAdapter(t *testing.T) {
	var buf bytes.Buffer
	a := NewLogAdapter(&buf)

	if err := a.Send(context.Background(), "hello"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if err := a.Send(context.Background(), "world"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if got := buf.String(); got != "hello\nworld\n" {
		t.Errorf("output = %q", got)
	}
	if err := a.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

type fakeStats struct {
	counts map[string]int
	git    int64
}

func (f fakeStats) Stats() (map[string]int, int64, error) {
	return f.counts, f.git, nil
}

func TestNewDigest_BadCron(t *testing.T) {
	var buf bytes.Buffer
	_, err := NewDigest(NewLogAdapter(&buf), fakeStats{}, "not a cron")
	if err == nil {
		t.Fatal("expected error for bad cron expression")
	}
}

func TestDigest_Build(t *testing.T) {
	var buf bytes.Buffer
	d, err := NewDigest(NewLogAdapter(&buf), fakeStats{
		counts: map[string]int{"open": 2, "closed": 1},
		git:    3,
	}, "0 9 * * *")
	if err != nil {
		t.Fatalf("NewDigest: %v", err)
	}

	text, err := d.build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !strings.Contains(text, "3 tasks") {
		t.Errorf("digest %q missing task total", text)
	}
	if !strings.Contains(text, "closed=1, open=2") {
		t.Errorf("digest %q statuses not sorted", text)
	}
	if !strings.Contains(text, "3 git events") {
		t.Errorf("digest %q missing git event count", text)
	}
}

func TestDigest_BuildSuppressesEmpty(t *testing.T) {
	var buf bytes.Buffer
	d, err := NewDigest(NewLogAdapter(&buf), fakeStats{counts: map[string]int{}}, "* * * * *")
	if err != nil {
		t.Fatalf("NewDigest: %v", err)
	}
	text, err := d.build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if text != "" {
		t.Errorf("empty store digest = %q, want suppressed", text)
	}
}
