package llm

import "context"

// Role of a conversation turn.
type Role string

const (
	RoleUser Role = "user"
)

// Message is one conversation turn with plain text content.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// UserMessage builds a single user turn.
func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// Thinking enables extended thinking with a token budget.
type Thinking struct {
	BudgetTokens int
}

// Tool is a server-side tool the model may call.
type Tool struct {
	WebSearch *WebSearch
}

// WebSearch configures the hosted web search tool.
type WebSearch struct {
	MaxUses int
}

// Request is a generation request.
type Request struct {
	Model     string
	MaxTokens int
	Messages  []Message
	Thinking  *Thinking
	Tools     []Tool
}

// Usage reports token accounting for a response.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// Response is a model reply.
type Response struct {
	ID         string    `json:"id"`
	Model      string    `json:"model"`
	StopReason string    `json:"stop_reason"`
	Segments   []Segment `json:"content"`
	Usage      Usage     `json:"usage"`
}

// Text joins every text segment with a blank line between them.
// Thinking, tool and search segments are never included.
func (r *Response) Text() string {
	if r == nil {
		return ""
	}
	return JoinText(r.Segments)
}

// FirstText returns the first text segment, or "".
func (r *Response) FirstText() string {
	if r == nil {
		return ""
	}
	for _, s := range r.Segments {
		if s.Kind == SegmentText {
			return s.Text
		}
	}
	return ""
}

// Generator produces model responses.
type Generator interface {
	Generate(ctx context.Context, req Request) (*Response, error)
}
