package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvPositiveInt(t *testing.T) {
	t.Setenv("SOME_INT", "42")
	assert.Equal(t, 42, GetEnvPositiveInt("SOME_INT", 7))

	t.Setenv("SOME_INT", "-3")
	assert.Equal(t, 7, GetEnvPositiveInt("SOME_INT", 7))

	t.Setenv("SOME_INT", "abc")
	assert.Equal(t, 7, GetEnvPositiveInt("SOME_INT", 7))
}

func TestGetEnvDuration(t *testing.T) {
	t.Setenv("SOME_DURATION", "250ms")
	assert.Equal(t, 250*time.Millisecond, GetEnvDuration("SOME_DURATION", time.Second))

	t.Setenv("SOME_DURATION", "soon")
	assert.Equal(t, time.Second, GetEnvDuration("SOME_DURATION", time.Second))
}

func TestGetEnvBool(t *testing.T) {
	t.Setenv("SOME_BOOL", "true")
	assert.True(t, GetEnvBool("SOME_BOOL", false))

	t.Setenv("SOME_BOOL", "nope")
	assert.True(t, GetEnvBool("SOME_BOOL", true))
}

func TestSplitCSV(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, SplitCSV(" a, ,b ,"))
	assert.Empty(t, SplitCSV(""))
}

func TestOTelServiceName_Default(t *testing.T) {
	t.Setenv("OTEL_SERVICE_NAME", "")
	assert.Equal(t, "noctura-landing", OTelServiceName())
}
