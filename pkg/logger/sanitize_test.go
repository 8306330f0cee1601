package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizedEmail(t *testing.T) {
	assert.Equal(t, "a****@*******.com", SanitizedEmail("alice@example.com"))
	assert.Equal(t, "[invalid-email]", SanitizedEmail("not-an-email"))
	assert.Equal(t, "j@*****.local", SanitizedEmail("j@mylab.local"))
}

func TestSensitiveQueryString(t *testing.T) {
	assert.True(t, SensitiveQueryString("token=abc123"))
	assert.True(t, SensitiveQueryString("newPassword=secret"))
	assert.True(t, SensitiveQueryString("email=alice%40example.com"))
	assert.False(t, SensitiveQueryString("limit=10&offset=20"))
	assert.False(t, SensitiveQueryString(""))
}
