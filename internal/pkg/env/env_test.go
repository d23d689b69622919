package env

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvPrefersLoadedValues(t *testing.T) {
	t.Setenv("BALU_TEST_KEY", "from-os")
	Env = map[string]string{"BALU_TEST_KEY": "from-file"}
	defer func() { Env = nil }()

	assert.Equal(t, "from-file", GetEnv("BALU_TEST_KEY", "def"))
}

func TestGetEnvFallbacks(t *testing.T) {
	Env = nil
	t.Setenv("BALU_TEST_OS", "os")

	assert.Equal(t, "os", GetEnv("BALU_TEST_OS", "def"))
	assert.Equal(t, "def", GetEnv("BALU_TEST_MISSING", "def"))
}

func TestGetEnvIntAndDuration(t *testing.T) {
	Env = map[string]string{
		"WORKERS":  "4",
		"BROKEN":   "four",
		"INTERVAL": "15m",
	}
	defer func() { Env = nil }()

	assert.Equal(t, 4, GetEnvInt("WORKERS", 1))
	assert.Equal(t, 1, GetEnvInt("BROKEN", 1))
	assert.Equal(t, 15*time.Minute, GetEnvDuration("INTERVAL", time.Hour))
	assert.Equal(t, time.Hour, GetEnvDuration("MISSING", time.Hour))
}
