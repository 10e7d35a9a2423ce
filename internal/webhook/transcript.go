package webhook

import "strings"

// AssembleTranscript builds one human-readable transcript string from
// whichever representation the payload carries. Priority, first non-empty
// wins:
//
//  1. a raw transcript string, used verbatim
//  2. a transcript array of {role, message} turns
//  3. a messages array of {role, content|message} turns, skipping system turns
//
// Turn order is source order; no truncation. Returns nil when no
// representation yields text.
func AssembleTranscript(artifact, call map[string]any) *string {
	for _, src := range []map[string]any{artifact, call} {
		if src == nil {
			continue
		}
		switch v := src["transcript"].(type) {
		case string:
			if v != "" {
				return &v
			}
		case []any:
			if s := joinTurns(v, false); s != "" {
				return &s
			}
		}
	}

	for _, src := range []map[string]any{artifact, call} {
		if src == nil {
			continue
		}
		if msgs := asSlice(src["messages"]); msgs != nil {
			if s := joinTurns(msgs, true); s != "" {
				return &s
			}
		}
	}

	return nil
}

func joinTurns(turns []any, skipSystem bool) string {
	var lines []string
	for _, t := range turns {
		turn := asMap(t)
		if turn == nil {
			continue
		}
		role := stringAt(turn, "role")
		if skipSystem && role == "system" {
			continue
		}
		text := stringAt(turn, "message")
		if text == "" {
			text = stringAt(turn, "content")
		}
		if role == "" && text == "" {
			continue
		}
		lines = append(lines, role+": "+text)
	}
	return strings.Join(lines, "\n")
}
