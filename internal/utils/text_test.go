package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanText(t *testing.T) {
	assert.Equal(t, "hello", CleanText("<b>hello</b>"))
	assert.Equal(t, "line one line two", CleanText("line one\nline two"))
	assert.Equal(t, "spaced", CleanText("  spaced \r\n"))
	assert.Equal(t, "", CleanText(""))
	assert.Equal(t, "", CleanText("<script>"))
}

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("jane@x.com"))
	assert.True(t, IsValidEmail("a@b.co"))
	assert.False(t, IsValidEmail("not-an-email"))
	assert.False(t, IsValidEmail("missing@domain"))
	assert.False(t, IsValidEmail("has space@x.com"))
	assert.False(t, IsValidEmail(""))
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("a", 450)
	truncated := Truncate(long, 400)
	assert.Len(t, truncated, 403)
	assert.True(t, strings.HasSuffix(truncated, "..."))

	exact := strings.Repeat("b", 400)
	assert.Equal(t, exact, Truncate(exact, 400))

	assert.Equal(t, "short", Truncate("short", 400))
}
