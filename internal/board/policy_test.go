package board

import (
	"testing"

	"github.com/qwertukg/boardyard/internal/models"
)

func TestContainsPolicy(t *testing.T) {
	tests := []struct {
		name        string
		criteria    string
		description string
		want        bool
	}{
		{"exact match", "tested", "this change was tested", true},
		{"case insensitive", "TESTED", "fully Tested end to end", true},
		{"missing", "tested", "no verification yet", false},
		{"substring of a word", "test", "attested by QA", true},
		{"empty description", "tested", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := &models.Task{Description: tt.description}
			if got := (ContainsPolicy{}).Evaluate(tt.criteria, task); got != tt.want {
				t.Errorf("Evaluate(%q, %q) = %v, want %v", tt.criteria, tt.description, got, tt.want)
			}
		})
	}
}
