package models

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

func requireText(entity, field, value string, max int) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{Entity: entity, Field: field, Reason: "is required"}
	}
	if max > 0 && utf8.RuneCountInString(value) > max {
		return &ValidationError{Entity: entity, Field: field, Reason: fmt.Sprintf("must be at most %d characters", max)}
	}
	return nil
}

func validateUser(firstName, lastName string) error {
	if err := requireText("user", "first_name", firstName, maxNameLen); err != nil {
		return err
	}
	return requireText("user", "last_name", lastName, maxNameLen)
}

func validatePost(title, content string) error {
	if err := requireText("post", "title", title, maxTitleLen); err != nil {
		return err
	}
	return requireText("post", "content", content, 0)
}

// uniqueIDs drops repeats while keeping first-seen order.
func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
