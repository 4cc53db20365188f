package services

import (
	"fmt"
	"log"
	"os"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// Notifier dispatches a verification code to a destination phone
// number. Implementations are fire-and-forget from the engine's point
// of view: the reply goes out once dispatch is initiated.
type Notifier interface {
	SendVerificationCode(to, code string) error
}

// TwilioService sends verification SMS via Twilio
type TwilioService struct {
	client *twilio.RestClient
	from   string
}

// NewTwilioService creates a new Twilio service instance
func NewTwilioService() (*TwilioService, error) {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")
	from := os.Getenv("TWILIO_FROM_NUMBER")

	if accountSid == "" || authToken == "" || from == "" {
		return nil, fmt.Errorf("missing Twilio credentials in environment variables")
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSid,
		Password: authToken,
	})

	return &TwilioService{
		client: client,
		from:   from,
	}, nil
}

// SendVerificationCode sends the OTP as an SMS
func (t *TwilioService) SendVerificationCode(to, code string) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetFrom(t.from)
	params.SetTo(to)
	params.SetBody(fmt.Sprintf("Your verification code is: %s", code))

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		log.Printf("❌ Failed to send verification SMS: %v", err)
		return err
	}

	log.Printf("✅ Verification SMS sent! SID: %s", *resp.Sid)
	return nil
}

// LogNotifier stands in when Twilio is not configured: the code is
// logged server-side instead of dispatched.
type LogNotifier struct{}

func (LogNotifier) SendVerificationCode(to, code string) error {
	log.Printf("📤 SMS not sent (Twilio not configured) - code for %s: %s", to, code)
	return nil
}
