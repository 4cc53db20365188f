package services

import "strings"

// CommandKind tags an inbound message with the global command it
// carries, decoded once at the boundary instead of prefix-matching
// throughout the engine.
type CommandKind int

const (
	CmdText CommandKind = iota // no global command, routed by context
	CmdGreeting
	CmdListJobs
	CmdMyJobs
	CmdFindJob
	CmdApply
	CmdDetails
)

// Command is the decoded form of one inbound message.
type Command struct {
	Kind  CommandKind
	JobID string // set for CmdApply and CmdDetails
	Text  string // trimmed original message
}

// ParseCommand decodes global commands and chip payloads. Chips arrive
// either in display form ("Apply: 123") or id form ("apply_id::123").
func ParseCommand(message string) Command {
	trimmed := strings.TrimSpace(message)
	lower := strings.ToLower(trimmed)

	switch lower {
	case "restart", "hi", "hello":
		return Command{Kind: CmdGreeting, Text: trimmed}
	case "apply for jobs", "jobs":
		return Command{Kind: CmdListJobs, Text: trimmed}
	case "my jobs", "status":
		return Command{Kind: CmdMyJobs, Text: trimmed}
	case "find a job", "search":
		return Command{Kind: CmdFindJob, Text: trimmed}
	}

	if id, ok := chipPayload(trimmed, "Apply: ", "apply_id::"); ok {
		return Command{Kind: CmdApply, JobID: id, Text: trimmed}
	}
	if id, ok := chipPayload(trimmed, "Details: ", "details_id::"); ok {
		return Command{Kind: CmdDetails, JobID: id, Text: trimmed}
	}

	return Command{Kind: CmdText, Text: trimmed}
}

func chipPayload(message, displayPrefix, idPrefix string) (string, bool) {
	if strings.HasPrefix(message, displayPrefix) {
		id := strings.TrimSpace(strings.TrimPrefix(message, displayPrefix))
		return id, id != ""
	}
	if strings.HasPrefix(message, idPrefix) {
		id := strings.TrimSpace(strings.TrimPrefix(message, idPrefix))
		return id, id != ""
	}
	return "", false
}
