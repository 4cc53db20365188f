package services

import "github.com/talenthive/hrbot-backend/internal/models"

// Response is the outbound webhook reply: ordered text segments,
// suggestion chips, and optionally the next context to persist
// client-side.
type Response struct {
	Action      string             `json:"action"`
	Replies     []string           `json:"replies"`
	Suggestions []string           `json:"suggestions"`
	Context     *models.BotContext `json:"context,omitempty"`
}

// TopLevelSuggestions are the chips offered at the main menu and on
// fallback.
func TopLevelSuggestions() []string {
	return []string{"Apply for Jobs", "Find a Job", "My Jobs"}
}

// NewReply builds a reply response. Slices are always non-nil so the
// JSON carries [] rather than null, matching what chat clients expect.
func NewReply(replies ...string) *Response {
	if replies == nil {
		replies = []string{}
	}
	return &Response{
		Action:      "reply",
		Replies:     replies,
		Suggestions: []string{},
	}
}

// SystemErrorReply is the generic catch-all reply. Internals are never
// exposed to the visitor.
func SystemErrorReply() *Response {
	return NewReply("System Error.")
}

// WithSuggestions sets the suggestion chips.
func (r *Response) WithSuggestions(suggestions ...string) *Response {
	r.Suggestions = suggestions
	return r
}

// WithContext attaches the next conversation context.
func (r *Response) WithContext(botCtx *models.BotContext) *Response {
	r.Context = botCtx
	return r
}
