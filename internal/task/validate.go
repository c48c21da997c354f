package task

import (
	"fmt"
	"strings"
	"unicode/utf8"

	reeferr "github.com/mworkman/reef/internal/errors"
)

// Validation limits for task fields. Lengths are counted in runes so
// multi-byte text is not penalized.
const (
	// MaxNameLength is the longest allowed task name.
	MaxNameLength = 100
	// MinDescriptionLength applies to descriptions supplied through the
	// structured batch path.
	MinDescriptionLength = 10
	// MinSummaryLength applies to completion summaries and to the
	// corrective feedback recorded on a failed verification.
	MinSummaryLength = 30
)

// ValidateName checks that a name is non-empty and within the length cap.
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return reeferr.ErrValidation("name", "task name must not be empty")
	}
	if utf8.RuneCountInString(trimmed) > MaxNameLength {
		return reeferr.ErrValidation("name",
			fmt.Sprintf("task name exceeds %d characters", MaxNameLength))
	}
	return nil
}

// ValidateDescription checks the minimum description length.
func ValidateDescription(desc string) error {
	if utf8.RuneCountInString(strings.TrimSpace(desc)) < MinDescriptionLength {
		return reeferr.ErrValidation("description",
			fmt.Sprintf("description must be at least %d characters", MinDescriptionLength))
	}
	return nil
}

// ValidateSummary checks the minimum length shared by completion summaries
// and verification feedback.
func ValidateSummary(text string) error {
	if utf8.RuneCountInString(strings.TrimSpace(text)) < MinSummaryLength {
		return reeferr.ErrValidation("summary",
			fmt.Sprintf("summary must be at least %d characters", MinSummaryLength))
	}
	return nil
}

// ValidateRelatedFiles checks every entry's path, type, and line range.
// An invalid entry rejects the whole list; nothing is coerced.
func ValidateRelatedFiles(files []RelatedFile) error {
	for i, f := range files {
		if strings.TrimSpace(f.Path) == "" {
			return reeferr.ErrValidation("relatedFiles",
				fmt.Sprintf("entry %d has an empty path", i))
		}
		if !IsValidRelatedFileType(f.Type) {
			return reeferr.ErrValidation("relatedFiles",
				fmt.Sprintf("entry %d has unknown type %q", i, f.Type))
		}
		if (f.LineStart == nil) != (f.LineEnd == nil) {
			return reeferr.ErrValidation("relatedFiles",
				fmt.Sprintf("entry %d must set both lineStart and lineEnd or neither", i))
		}
		if f.LineStart != nil {
			if *f.LineStart < 1 {
				return reeferr.ErrValidation("relatedFiles",
					fmt.Sprintf("entry %d has lineStart %d, must be >= 1", i, *f.LineStart))
			}
			if *f.LineStart > *f.LineEnd {
				return reeferr.ErrValidation("relatedFiles",
					fmt.Sprintf("entry %d has lineStart %d greater than lineEnd %d", i, *f.LineStart, *f.LineEnd))
			}
		}
	}
	return nil
}
