package handlers

import (
	"encoding/json"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/talenthive/hrbot-backend/internal/models"
	"github.com/talenthive/hrbot-backend/internal/services"
)

// ConversationHandler processes inbound conversation webhook events
type ConversationHandler struct {
	bot *services.BotService
}

// NewConversationHandler creates a new conversation handler
func NewConversationHandler(bot *services.BotService) *ConversationHandler {
	return &ConversationHandler{bot: bot}
}

// ConversationPayload is the inbound webhook event. The message field
// arrives either as a plain string or as an object carrying text or an
// attachment.
type ConversationPayload struct {
	Visitor struct {
		ID string `json:"id"`
	} `json:"visitor"`
	Message json.RawMessage    `json:"message"`
	Context *models.BotContext `json:"context"`
}

type messageObject struct {
	Text       string          `json:"text"`
	Attachment json.RawMessage `json:"attachment"`
}

// messageText flattens the message union: plain string, {text}, or
// {attachment} which becomes the FILE_UPLOAD marker.
func (p *ConversationPayload) messageText() string {
	if len(p.Message) == 0 {
		return ""
	}

	var asString string
	if err := json.Unmarshal(p.Message, &asString); err == nil {
		return asString
	}

	var asObject messageObject
	if err := json.Unmarshal(p.Message, &asObject); err == nil {
		if asObject.Text != "" {
			return asObject.Text
		}
		if len(asObject.Attachment) > 0 {
			return "FILE_UPLOAD"
		}
	}
	return ""
}

// HandleWebhook processes one conversation turn. Every logical
// outcome, business failures included, answers HTTP 200; the generic
// system-error reply covers anything unexpected so no request is left
// unanswered.
func (h *ConversationHandler) HandleWebhook(c *fiber.Ctx) error {
	var payload ConversationPayload
	if err := c.BodyParser(&payload); err != nil {
		log.Printf("Error parsing webhook: %v", err)
		return c.JSON(services.SystemErrorReply())
	}

	visitorID := payload.Visitor.ID
	if visitorID == "" {
		visitorID = "unknown_user"
	}

	response, err := h.process(c, visitorID, &payload)
	if err != nil {
		log.Printf("SYSTEM ERROR for %s: %v", visitorID, err)
		response = services.SystemErrorReply()
	}
	return c.JSON(response)
}

// process wraps the engine call so a panic anywhere in a turn
// degrades to the generic reply instead of a transport-level error.
func (h *ConversationHandler) process(c *fiber.Ctx, visitorID string, payload *ConversationPayload) (response *services.Response, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("PANIC processing message from %s: %v", visitorID, r)
			response = services.SystemErrorReply()
			err = nil
		}
	}()

	return h.bot.ProcessMessage(c.UserContext(), visitorID, payload.messageText(), payload.Context)
}
