// Package refs recognizes inline reference tokens such as TASK-1 and
// INST-2 in free text, and owns the mapping between internal entity IDs
// (task-1, inst-2) and their user-facing display tokens.
package refs

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/secmon-lab/themis/pkg/domain/types"
)

type Kind string

const (
	KindTask     Kind = "task"
	KindInstance Kind = "instance"
)

// Reference is a single recognized token. ID holds only the numeric part,
// Matched the exact substring as it appeared in the text.
type Reference struct {
	Kind    Kind   `json:"kind"`
	ID      string `json:"id"`
	Matched string `json:"matched"`
}

var tokenPattern = regexp.MustCompile(`(?i)(TASK|INST)-(\d+)`)

// Parse extracts references in first-occurrence order. The dedup key is
// (matched substring, offset): the same literal at two offsets yields two
// references, and no position is ever counted twice.
func Parse(text string) []Reference {
	matches := tokenPattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := map[string]struct{}{}
	refs := make([]Reference, 0, len(matches))
	for _, m := range matches {
		matched := text[m[0]:m[1]]
		key := matched + "@" + strconv.Itoa(m[0])
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		kind := KindTask
		if strings.EqualFold(text[m[2]:m[3]], "INST") {
			kind = KindInstance
		}
		refs = append(refs, Reference{
			Kind:    kind,
			ID:      text[m[4]:m[5]],
			Matched: matched,
		})
	}
	return refs
}

// TaskIDs returns the unique numeric task ids referenced in text, in
// first-occurrence order.
func TaskIDs(text string) []string {
	return uniqueIDs(Parse(text), KindTask)
}

// InstanceIDs returns the unique numeric instance ids referenced in text,
// in first-occurrence order.
func InstanceIDs(text string) []string {
	return uniqueIDs(Parse(text), KindInstance)
}

func uniqueIDs(refs []Reference, kind Kind) []string {
	seen := map[string]struct{}{}
	var ids []string
	for _, ref := range refs {
		if ref.Kind != kind {
			continue
		}
		if _, ok := seen[ref.ID]; ok {
			continue
		}
		seen[ref.ID] = struct{}{}
		ids = append(ids, ref.ID)
	}
	return ids
}

// TaskToken renders the display token for an internal task id
// (task-1 becomes TASK-1). IDs without the expected prefix are upcased
// as-is so the output is still recognizable.
func TaskToken(id types.TaskID) string {
	return strings.ToUpper(string(id))
}

// InstanceToken renders the display token for an internal instance id
// (inst-2 becomes INST-2).
func InstanceToken(id types.InstanceID) string {
	return strings.ToUpper(string(id))
}

// TaskIDFromRef converts a parsed reference id back to the internal form.
func TaskIDFromRef(numericID string) types.TaskID {
	return types.TaskID("task-" + numericID)
}

// InstanceIDFromRef converts a parsed reference id back to the internal form.
func InstanceIDFromRef(numericID string) types.InstanceID {
	return types.InstanceID("inst-" + numericID)
}

// FromToken resolves a display token (TASK-1, INST-2) to its kind and
// internal id. The second return is false when the token is not a
// recognized reference.
func FromToken(token string) (Kind, string, bool) {
	m := tokenPattern.FindStringSubmatch(token)
	if m == nil || m[0] != token {
		return "", "", false
	}
	if strings.EqualFold(m[1], "INST") {
		return KindInstance, "inst-" + m[2], true
	}
	return KindTask, "task-" + m[2], true
}
