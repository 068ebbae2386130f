package board

import (
	"fmt"
	"regexp"
	"strings"
)

// maxSlugLen caps the slug portion of a branch name.
const maxSlugLen = 40

var nonSlugChars = regexp.MustCompile("[^a-z0-9]+")

// BranchName builds the feature branch name for a task. It is a pure
// function of id and title: calling it twice on an unchanged task yields
// the same name.
func BranchName(id uint, title string) string {
	slug := nonSlugChars.ReplaceAllString(strings.ToLower(title), "-")
	slug = strings.Trim(slug, "-")
	if len(slug) > maxSlugLen {
		slug = strings.TrimRight(slug[:maxSlugLen], "-")
	}
	if slug == "" {
		slug = "task"
	}
	return fmt.Sprintf("feature/%d-%s", id, slug)
}
