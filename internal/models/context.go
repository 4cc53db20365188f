package models

// Conversation state ids. A session's StateID is always one of these;
// an absent session means the visitor is at the top-level menu.
const (
	StateCheckStatus       = "check_status"
	StateSearchSkill       = "search_skill"
	StateCollectName       = "collect_name"
	StateCollectEmail      = "collect_email"
	StateCollectPhoneOTP   = "collect_phone_for_otp"
	StateVerifyOTP         = "verify_otp_sms"
	StateCollectPhoneFinal = "collect_phone"
)

// Param keys accumulated across apply-flow states.
const (
	ParamJobID = "job_id"
	ParamName  = "name"
	ParamEmail = "email"
	ParamPhone = "phone"
)

// BotContext is the persisted conversation context for one visitor:
// which state the dialogue is in and the application draft collected
// so far. Params only grow as the flow advances; a restart deletes the
// whole context.
type BotContext struct {
	StateID string            `json:"id"`
	Params  map[string]string `json:"params"`
}

// NewBotContext returns a context in the given state with an empty
// params map.
func NewBotContext(stateID string) *BotContext {
	return &BotContext{
		StateID: stateID,
		Params:  make(map[string]string),
	}
}

// WithParam sets a param and returns the context for chaining.
func (c *BotContext) WithParam(key, value string) *BotContext {
	if c.Params == nil {
		c.Params = make(map[string]string)
	}
	c.Params[key] = value
	return c
}

// Param returns a param value, empty string when absent.
func (c *BotContext) Param(key string) string {
	if c == nil || c.Params == nil {
		return ""
	}
	return c.Params[key]
}
