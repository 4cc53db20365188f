package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/talenthive/hrbot-backend/internal/models"
	"github.com/talenthive/hrbot-backend/internal/storage"
	"github.com/talenthive/hrbot-backend/internal/utils"
)

const (
	maxJobsPerReply      = 5
	descriptionCharLimit = 400
	candidateSource      = "Chatbot"
	applicationStage     = "Applied"
	applicationComments  = "Verified via SMS OTP"
)

// BotService is the conversation engine: it routes each inbound
// message through the global commands and the per-state branches of
// the application flow, issuing talent-store and OTP side effects and
// producing the reply.
type BotService struct {
	store       storage.TalentStore
	sessions    *SessionManager
	otp         *OTPService
	notifier    Notifier
	callTimeout time.Duration
}

// NewBotService creates a new conversation engine
func NewBotService(store storage.TalentStore, sessions *SessionManager, otp *OTPService, notifier Notifier) *BotService {
	return &BotService{
		store:       store,
		sessions:    sessions,
		otp:         otp,
		notifier:    notifier,
		callTimeout: 10 * time.Second,
	}
}

// ProcessMessage handles one inbound message for one visitor and
// returns the reply. The whole call runs under the visitor's lock so
// a double-submit cannot race on the session context.
func (b *BotService) ProcessMessage(ctx context.Context, visitorID, rawMessage string, hint *models.BotContext) (*Response, error) {
	unlock := b.sessions.Lock(visitorID)
	defer unlock()

	message := strings.TrimSpace(rawMessage)
	cmd := ParseCommand(message)

	// Context from the event wins; otherwise fall back to the saved
	// session
	botCtx := hint
	if botCtx == nil || botCtx.StateID == "" {
		botCtx = b.sessions.Get(ctx, visitorID)
	}

	stateID := ""
	if botCtx != nil {
		stateID = botCtx.StateID
	}
	log.Printf("IN: %q from %s | CTX: %q", message, visitorID, stateID)

	// Global commands run before any context branch and clear the
	// active session
	switch cmd.Kind {
	case CmdGreeting:
		b.sessions.Clear(ctx, visitorID)
		return NewReply("Hi! I am your HR Assistant. How can I help you?").
			WithSuggestions(TopLevelSuggestions()...), nil

	case CmdListJobs:
		b.sessions.Clear(ctx, visitorID)
		return b.handleListJobs(ctx), nil

	case CmdMyJobs:
		b.sessions.Clear(ctx, visitorID)
		next := models.NewBotContext(models.StateCheckStatus)
		b.persist(ctx, visitorID, next)
		return NewReply("Please enter your Email Address to check your application status.").
			WithContext(next), nil

	case CmdFindJob:
		b.sessions.Clear(ctx, visitorID)
		next := models.NewBotContext(models.StateSearchSkill)
		b.persist(ctx, visitorID, next)
		return NewReply("What is your primary skill? (e.g., Java, Sales)").
			WithContext(next), nil

	case CmdDetails:
		// Detail lookups work mid-flow and leave the session alone
		return b.handleJobDetails(ctx, cmd.JobID), nil

	case CmdApply:
		// Jumping into an apply flow overwrites whatever was active
		next := models.NewBotContext(models.StateCollectName).
			WithParam(models.ParamJobID, cmd.JobID)
		b.persist(ctx, visitorID, next)
		return NewReply("Let's start. What is your Full Name?").
			WithContext(next), nil
	}

	// Context-specific branches
	if botCtx != nil {
		switch botCtx.StateID {
		case models.StateCheckStatus:
			return b.handleCheckStatus(ctx, visitorID, message), nil
		case models.StateSearchSkill:
			return b.handleSearchSkill(ctx, visitorID, message), nil
		case models.StateCollectName:
			return b.handleCollectName(ctx, visitorID, message, botCtx), nil
		case models.StateCollectEmail:
			return b.handleCollectEmail(ctx, visitorID, message, botCtx), nil
		case models.StateCollectPhoneOTP:
			return b.handleCollectPhone(ctx, visitorID, message, botCtx), nil
		case models.StateVerifyOTP:
			return b.handleVerifyOTP(ctx, visitorID, message, botCtx), nil
		case models.StateCollectPhoneFinal:
			return b.submitApplication(ctx, visitorID, botCtx), nil
		}
	}

	// Fallback: the active session, if any, is left untouched
	log.Printf("Fallback: %q", message)
	return NewReply("I did not quite catch that. Please select an option:").
		WithSuggestions(TopLevelSuggestions()...), nil
}

func (b *BotService) handleListJobs(ctx context.Context) *Response {
	tctx, cancel := b.storeContext(ctx)
	defer cancel()

	jobs, err := b.store.ListOpenJobs(tctx)
	if err != nil {
		log.Printf("List jobs failed: %v", err)
		return NewReply("Error loading jobs.")
	}
	if len(jobs) == 0 {
		return NewReply("Sorry, no open positions right now.")
	}

	var msg strings.Builder
	msg.WriteString("Here are the latest openings:\n")
	var chips []string
	for i, job := range jobs {
		if i >= maxJobsPerReply {
			break
		}
		title := utils.CleanText(job.Title)
		msg.WriteString(fmt.Sprintf("\n**%d. %s**\n", i+1, title))
		chips = append(chips, "Apply: "+job.ID, "Details: "+job.ID)
	}
	return NewReply(msg.String()).WithSuggestions(chips...)
}

func (b *BotService) handleJobDetails(ctx context.Context, jobID string) *Response {
	tctx, cancel := b.storeContext(ctx)
	defer cancel()

	job, err := b.store.GetJob(tctx, jobID)
	if err != nil {
		log.Printf("Job details failed for %s: %v", jobID, err)
		return NewReply("Error loading details.")
	}

	title := utils.CleanText(job.Title)
	desc := utils.CleanText(job.Description)
	if desc == "" {
		desc = "No description."
	}
	desc = utils.Truncate(desc, descriptionCharLimit)

	return NewReply(fmt.Sprintf("**%s**\n\n%s", title, desc)).
		WithSuggestions("Apply: " + jobID)
}

func (b *BotService) handleCheckStatus(ctx context.Context, visitorID, message string) *Response {
	// This branch always ends the flow, whatever the outcome
	defer b.sessions.Clear(ctx, visitorID)

	tctx, cancel := b.storeContext(ctx)
	defer cancel()

	email := utils.CleanText(message)
	resp := b.statusReport(tctx, email)
	return resp.WithSuggestions("My Jobs", "Apply for Jobs")
}

func (b *BotService) statusReport(ctx context.Context, email string) *Response {
	candidate, err := b.store.SearchCandidateByEmail(ctx, email)
	if storage.IsNotFound(err) {
		return NewReply("I couldn't find an application with that email.")
	}
	if err != nil {
		log.Printf("Candidate search failed: %v", err)
		return NewReply("Error fetching status.")
	}

	apps, err := b.store.ListApplications(ctx, candidate.ID)
	if err != nil {
		log.Printf("Application lookup failed for %s: %v", candidate.ID, err)
		return NewReply("Error fetching status.")
	}
	if len(apps) == 0 {
		return NewReply("Profile found, but no active applications.")
	}

	var report strings.Builder
	report.WriteString("Your Applications:\n")
	for _, app := range apps {
		jobName := app.JobTitle
		if jobName == "" {
			jobName = "Job"
		}
		stage := app.Stage
		if stage == "" {
			stage = applicationStage
		}
		report.WriteString(fmt.Sprintf("\n• %s\n   Status: %s\n", jobName, stage))
	}
	return NewReply(report.String())
}

func (b *BotService) handleSearchSkill(ctx context.Context, visitorID, message string) *Response {
	tctx, cancel := b.storeContext(ctx)
	defer cancel()

	skill := strings.ToLower(utils.CleanText(message))

	jobs, err := b.store.ListOpenJobs(tctx)
	if err != nil {
		// Retryable read: keep the session so the visitor can try the
		// same skill again
		log.Printf("Skill search failed: %v", err)
		return NewReply("Error loading jobs.")
	}

	var matched []*models.JobOpening
	for _, job := range jobs {
		if strings.Contains(strings.ToLower(job.RequiredSkills), skill) ||
			strings.Contains(strings.ToLower(job.Title), skill) {
			matched = append(matched, job)
		}
	}

	b.sessions.Clear(ctx, visitorID)

	if len(matched) == 0 {
		return NewReply(fmt.Sprintf("No jobs found for %q.", utils.CleanText(message))).
			WithSuggestions("Apply for Jobs")
	}

	var report strings.Builder
	report.WriteString(fmt.Sprintf("Found %d job(s):\n", len(matched)))
	var chips []string
	for i, job := range matched {
		if i >= maxJobsPerReply {
			break
		}
		report.WriteString(fmt.Sprintf("\n- %s\n", utils.CleanText(job.Title)))
		chips = append(chips, "Apply: "+job.ID)
	}
	return NewReply(report.String()).WithSuggestions(chips...)
}

func (b *BotService) handleCollectName(ctx context.Context, visitorID, message string, botCtx *models.BotContext) *Response {
	next := botCtx.WithParam(models.ParamName, utils.CleanText(message))
	next.StateID = models.StateCollectEmail
	b.persist(ctx, visitorID, next)
	return NewReply("Thanks. What is your Email?").WithContext(next)
}

func (b *BotService) handleCollectEmail(ctx context.Context, visitorID, message string, botCtx *models.BotContext) *Response {
	email := utils.CleanText(message)
	if !utils.IsValidEmail(email) {
		// Re-prompt in the same state; previously collected params are
		// untouched and the TTL refreshes
		b.persist(ctx, visitorID, botCtx)
		return NewReply("That doesn't look like a valid email. Please try again.").
			WithContext(botCtx)
	}

	next := botCtx.WithParam(models.ParamEmail, email)
	next.StateID = models.StateCollectPhoneOTP
	b.persist(ctx, visitorID, next)
	return NewReply("Email saved. Please enter your Mobile Number (with country code, e.g., +919876543210).").
		WithContext(next)
}

func (b *BotService) handleCollectPhone(ctx context.Context, visitorID, message string, botCtx *models.BotContext) *Response {
	phone := utils.CleanText(message)

	code, err := b.otp.Issue(ctx, phone)
	if err != nil {
		log.Printf("OTP issue failed for %s: %v", phone, err)
		return NewReply("Sorry, something went wrong. Please try again.").
			WithContext(botCtx)
	}

	next := botCtx.WithParam(models.ParamPhone, phone)
	next.StateID = models.StateVerifyOTP
	b.persist(ctx, visitorID, next)

	b.dispatchCode(phone, code)

	return NewReply(
		"A verification code has been sent to your mobile number.",
		"Please enter the 6-digit OTP.",
	).WithContext(next)
}

func (b *BotService) handleVerifyOTP(ctx context.Context, visitorID, message string, botCtx *models.BotContext) *Response {
	phone := botCtx.Param(models.ParamPhone)
	entered := utils.CleanText(message)

	result, err := b.otp.Verify(ctx, phone, entered)
	if err != nil {
		log.Printf("OTP verify failed for %s: %v", phone, err)
		return NewReply("Sorry, something went wrong. Please try again.").
			WithContext(botCtx)
	}

	switch result {
	case VerifyMatch:
		next := botCtx
		next.StateID = models.StateCollectPhoneFinal
		// Submission runs immediately on entering the final state
		outcome := b.submitApplication(ctx, visitorID, next)
		outcome.Replies = append(
			[]string{"Mobile number verified. Proceeding with your application."},
			outcome.Replies...,
		)
		return outcome

	case VerifyExpired, VerifyNotFound:
		code, err := b.otp.Issue(ctx, phone)
		if err != nil {
			log.Printf("OTP re-issue failed for %s: %v", phone, err)
			return NewReply("Sorry, something went wrong. Please try again.").
				WithContext(botCtx)
		}
		b.dispatchCode(phone, code)
		b.persist(ctx, visitorID, botCtx)
		return NewReply("That code has expired. A new verification code has been sent to your mobile number.").
			WithContext(botCtx)

	default: // VerifyMismatch
		b.persist(ctx, visitorID, botCtx)
		return NewReply("Incorrect OTP. Please check the code sent to your phone and try again.").
			WithContext(botCtx)
	}
}

// submitApplication runs the two-phase terminal submission: create the
// candidate, then associate it with the stored job. The phases are not
// atomic; when the association fails the created record is kept and
// its id logged, and the visitor gets the softer failure reply. The
// session is cleared in every outcome since there is no retry path.
func (b *BotService) submitApplication(ctx context.Context, visitorID string, botCtx *models.BotContext) *Response {
	defer b.sessions.Clear(ctx, visitorID)

	tctx, cancel := b.storeContext(ctx)
	defer cancel()

	firstName, lastName := splitName(botCtx.Param(models.ParamName))
	candidate := &models.Candidate{
		FirstName: firstName,
		LastName:  lastName,
		Email:     botCtx.Param(models.ParamEmail),
		Phone:     botCtx.Param(models.ParamPhone),
		Source:    candidateSource,
	}

	created, err := b.store.CreateCandidate(tctx, candidate)
	if err != nil {
		log.Printf("Candidate creation failed: %v", err)
		return NewReply("Saved your details, but failed to link the job.")
	}

	// Logged before association so a partial failure can be resumed
	// manually without duplicating the candidate
	log.Printf("Candidate created: %s", created.ID)

	jobID := botCtx.Param(models.ParamJobID)
	if err := b.store.Associate(tctx, created.ID, jobID, applicationStage, applicationComments); err != nil {
		log.Printf("Association failed for candidate %s, job %s: %v", created.ID, jobID, err)
		return NewReply("Saved your details, but failed to link the job.")
	}

	return NewReply("Application Successful. Your profile has been created.").
		WithSuggestions("My Jobs", "Find a Job")
}

// dispatchCode initiates the SMS send without blocking the reply path.
func (b *BotService) dispatchCode(phone, code string) {
	go func() {
		if err := b.notifier.SendVerificationCode(phone, code); err != nil {
			log.Printf("SMS send failed for %s: %v", phone, err)
		}
	}()
}

// persist saves the context, logging rather than failing the turn when
// the session store is unhealthy; the reply still carries the context
// so the channel can echo it back on the next event.
func (b *BotService) persist(ctx context.Context, visitorID string, botCtx *models.BotContext) {
	if err := b.sessions.Set(ctx, visitorID, botCtx); err != nil {
		log.Printf("Session persist failed for %s: %v", visitorID, err)
	}
}

func (b *BotService) storeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, b.callTimeout)
}

func splitName(fullName string) (string, string) {
	parts := strings.Fields(fullName)
	if len(parts) == 0 {
		return "-", "-"
	}
	lastName := strings.Join(parts[1:], " ")
	if lastName == "" {
		lastName = "-"
	}
	return parts[0], lastName
}
