package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCommandGlobals(t *testing.T) {
	for _, message := range []string{"hi", "Hello", "RESTART", " hi "} {
		cmd := ParseCommand(message)
		assert.Equal(t, CmdGreeting, cmd.Kind, "message %q", message)
	}

	assert.Equal(t, CmdListJobs, ParseCommand("Apply for Jobs").Kind)
	assert.Equal(t, CmdListJobs, ParseCommand("jobs").Kind)
	assert.Equal(t, CmdMyJobs, ParseCommand("My Jobs").Kind)
	assert.Equal(t, CmdMyJobs, ParseCommand("status").Kind)
	assert.Equal(t, CmdFindJob, ParseCommand("Find a Job").Kind)
	assert.Equal(t, CmdFindJob, ParseCommand("search").Kind)
}

func TestParseCommandChips(t *testing.T) {
	cmd := ParseCommand("Apply: 123")
	assert.Equal(t, CmdApply, cmd.Kind)
	assert.Equal(t, "123", cmd.JobID)

	cmd = ParseCommand("apply_id::456")
	assert.Equal(t, CmdApply, cmd.Kind)
	assert.Equal(t, "456", cmd.JobID)

	cmd = ParseCommand("Details: 789")
	assert.Equal(t, CmdDetails, cmd.Kind)
	assert.Equal(t, "789", cmd.JobID)

	cmd = ParseCommand("details_id::321")
	assert.Equal(t, CmdDetails, cmd.Kind)
	assert.Equal(t, "321", cmd.JobID)

	// Empty payloads are plain text, not commands
	assert.Equal(t, CmdText, ParseCommand("Apply: ").Kind)
}

func TestParseCommandText(t *testing.T) {
	cmd := ParseCommand("Jane Doe")
	assert.Equal(t, CmdText, cmd.Kind)
	assert.Equal(t, "Jane Doe", cmd.Text)
}
