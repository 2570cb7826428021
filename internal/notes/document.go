// Package notes defines the canonical Note document shape: a structured
// question with example groups, solution groups, and mixed text/image/code
// content items. This is the only schema the system reads or writes.
package notes

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// ItemKind discriminates the content item union.
type ItemKind string

const (
	ItemText  ItemKind = "text"
	ItemImage ItemKind = "image"
	ItemCode  ItemKind = "code"
)

// Difficulty is the closed set of note difficulties.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// DefaultDifficulty is what an absent or unrecognized difficulty coerces to.
// Invalid values coerce silently instead of rejecting; existing clients rely
// on that.
const DefaultDifficulty = DifficultyMedium

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Normalize maps anything outside the enum (including "") to the default.
func (d Difficulty) Normalize() Difficulty {
	if d.Valid() {
		return d
	}
	return DefaultDifficulty
}

// ContentItem is one renderable unit inside an example or solution group.
// The wire key for the discriminator is "type" (historical contract with the
// web client).
type ContentItem struct {
	Kind     ItemKind `json:"type"`
	Value    string   `json:"value"`
	Language string   `json:"language,omitempty"`
}

// ContentGroup is an ordered run of content items. Order is significant and
// preserved exactly as submitted.
type ContentGroup struct {
	Items []ContentItem `json:"items"`
}

type Question struct {
	Heading     string         `json:"heading"`
	Description string         `json:"description,omitempty"`
	Examples    []ContentGroup `json:"examples,omitempty"`
}

// Document is the full Note payload as submitted and persisted, minus the
// server-assigned identity and timestamps.
type Document struct {
	Question    Question       `json:"question"`
	Solutions   []ContentGroup `json:"solutions,omitempty"`
	Category    string         `json:"category,omitempty"`
	SubCategory string         `json:"subCategory,omitempty"`
	Tags        []string       `json:"tags,omitempty"`
	Difficulty  Difficulty     `json:"difficulty,omitempty"`
	Source      string         `json:"source,omitempty"`
	Video       string         `json:"video,omitempty"`
}

func ParseDocument(raw []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode note document: %w", err)
	}
	return &doc, nil
}

// NormalizeTags trims, drops empties, and collapses duplicates while keeping
// first-seen order for display.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// GroupKind names which side of the document a content group belongs to.
// It doubles as the prefix of upload placeholder tokens.
type GroupKind string

const (
	GroupExample  GroupKind = "example"
	GroupSolution GroupKind = "solution"
)

var placeholderRe = regexp.MustCompile(`^(example|solution)_\d+_\d+$`)

// PlaceholderToken builds the synthetic field name that ties an uploaded file
// to the image item at (group, item) during ingestion.
func PlaceholderToken(kind GroupKind, groupIdx, itemIdx int) string {
	return fmt.Sprintf("%s_%d_%d", kind, groupIdx, itemIdx)
}

// IsPlaceholder reports whether an image item's value is still an unresolved
// upload token rather than a URL.
func IsPlaceholder(value string) bool {
	return placeholderRe.MatchString(value)
}

// ImagePlaceholders returns every unresolved placeholder token in the
// document, keyed by token. Tokens are matched by value, not by position, so
// reordering between client and server cannot misalign the mapping.
func (d *Document) ImagePlaceholders() map[string]struct{} {
	tokens := make(map[string]struct{})
	collect := func(groups []ContentGroup) {
		for _, g := range groups {
			for _, it := range g.Items {
				if it.Kind == ItemImage && IsPlaceholder(it.Value) {
					tokens[it.Value] = struct{}{}
				}
			}
		}
	}
	collect(d.Question.Examples)
	collect(d.Solutions)
	return tokens
}

// ResolveImages substitutes resolved URLs for placeholder values and returns
// any tokens that stayed unresolved. The caller must treat leftovers as a
// hard failure; a placeholder must never reach the store.
func (d *Document) ResolveImages(urls map[string]string) []string {
	var unresolved []string
	resolve := func(groups []ContentGroup) {
		for gi := range groups {
			for ii := range groups[gi].Items {
				it := &groups[gi].Items[ii]
				if it.Kind != ItemImage || !IsPlaceholder(it.Value) {
					continue
				}
				if url, ok := urls[it.Value]; ok {
					it.Value = url
				} else {
					unresolved = append(unresolved, it.Value)
				}
			}
		}
	}
	resolve(d.Question.Examples)
	resolve(d.Solutions)
	return unresolved
}
