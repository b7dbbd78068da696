package llm

import (
	"strings"

	"github.com/goccy/go-json"
)

// SegmentKind discriminates the content blocks of a model response.
type SegmentKind string

// Segment kinds returned by the Messages API.
const (
	SegmentText             SegmentKind = "text"
	SegmentThinking         SegmentKind = "thinking"
	SegmentRedactedThinking SegmentKind = "redacted_thinking"
	SegmentServerToolUse    SegmentKind = "server_tool_use"
	SegmentWebSearchResult  SegmentKind = "web_search_tool_result"
	SegmentToolUse          SegmentKind = "tool_use"
	SegmentOther            SegmentKind = "other"
)

// Segment is one content block of a response.
// Only the fields relevant to Kind are set; Raw always holds the original block.
type Segment struct {
	Kind     SegmentKind
	Text     string
	Thinking string
	ToolName string
	Raw      json.RawMessage
}

type rawSegment struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	Thinking string `json:"thinking,omitempty"`
	Name     string `json:"name,omitempty"`
}

// UnmarshalJSON decodes a content block by its "type" field.
// Unknown types decode as SegmentOther.
func (s *Segment) UnmarshalJSON(data []byte) error {
	var raw rawSegment
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*s = Segment{Raw: append(json.RawMessage(nil), data...)}

	switch kind := SegmentKind(raw.Type); kind {
	case SegmentText:
		s.Kind = kind
		s.Text = raw.Text
	case SegmentThinking:
		s.Kind = kind
		s.Thinking = raw.Thinking
	case SegmentRedactedThinking, SegmentWebSearchResult:
		s.Kind = kind
	case SegmentServerToolUse, SegmentToolUse:
		s.Kind = kind
		s.ToolName = raw.Name
	default:
		s.Kind = SegmentOther
	}
	return nil
}

// MarshalJSON re-emits the original block, or a minimal one for hand-built segments.
func (s Segment) MarshalJSON() ([]byte, error) {
	if len(s.Raw) > 0 {
		return s.Raw, nil
	}
	switch s.Kind {
	case SegmentText:
		return json.Marshal(rawSegment{Type: string(s.Kind), Text: s.Text})
	case SegmentThinking:
		return json.Marshal(rawSegment{Type: string(s.Kind), Thinking: s.Thinking})
	default:
		return json.Marshal(rawSegment{Type: string(s.Kind), Name: s.ToolName})
	}
}

// TextSegment builds a text segment.
func TextSegment(text string) Segment {
	return Segment{Kind: SegmentText, Text: text}
}

// JoinText concatenates the text segments in order, separated by a blank line.
func JoinText(segments []Segment) string {
	var parts []string
	for _, s := range segments {
		if s.Kind == SegmentText {
			parts = append(parts, s.Text)
		}
	}
	return strings.Join(parts, "\n\n")
}
