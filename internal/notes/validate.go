package notes

import (
	"strings"

	"github.com/prepdeck/prepdeck-backend/internal/apierr"
)

// ValidatePolicy holds the deployment-configurable parts of note validation.
type ValidatePolicy struct {
	RequireCategory bool
}

// Validate checks field-level invariants and normalizes the document in
// place: tags are deduplicated, difficulty is coerced into the enum.
// Cross-document invariants are out of scope here.
func (d *Document) Validate(policy ValidatePolicy) error {
	d.Question.Heading = strings.TrimSpace(d.Question.Heading)
	if d.Question.Heading == "" {
		return apierr.Validation("question.heading is required")
	}
	d.Category = strings.TrimSpace(d.Category)
	if policy.RequireCategory && d.Category == "" {
		return apierr.Validation("category is required")
	}
	for gi, g := range d.Question.Examples {
		for ii, it := range g.Items {
			if err := validateItem(it, GroupExample, gi, ii); err != nil {
				return err
			}
		}
	}
	for gi, g := range d.Solutions {
		for ii, it := range g.Items {
			if err := validateItem(it, GroupSolution, gi, ii); err != nil {
				return err
			}
		}
	}
	d.SubCategory = strings.TrimSpace(d.SubCategory)
	d.Tags = NormalizeTags(d.Tags)
	d.Difficulty = d.Difficulty.Normalize()
	return nil
}

func validateItem(it ContentItem, kind GroupKind, groupIdx, itemIdx int) error {
	switch it.Kind {
	case ItemText, ItemImage:
	case ItemCode:
		if kind == GroupExample {
			return apierr.Validation("%s_%d_%d: code items are only allowed in solutions", kind, groupIdx, itemIdx)
		}
	default:
		return apierr.Validation("%s_%d_%d: unknown content item type %q", kind, groupIdx, itemIdx, string(it.Kind))
	}
	return nil
}
