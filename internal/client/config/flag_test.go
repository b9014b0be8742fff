package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	// Test cases
	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "Test1 OK", args: []string{"cmd", "-a", "http://127.0.0.1:9090/api", "-t", "5", "-i", "10", "-d", "x.db"}, expectPanic: false,
			expected: &Config{APIBaseURL: "http://127.0.0.1:9090/api", RequestTimeout: 5 * time.Second, OnlineCheckInterval: 10 * time.Second, DatabaseDSN: "x.db"}},
		{name: "Test2 unknown flags ignored", args: []string{"cmd", "-x", "1", "-i", "2"}, expectPanic: false,
			expected: &Config{OnlineCheckInterval: 2 * time.Second}},
		{name: "Test3 incorrect check interval", args: []string{"cmd", "-i", "abc"}, expectPanic: true, expected: &Config{}},
		{name: "Test4 zero check interval", args: []string{"cmd", "-i", "0"}, expectPanic: true, expected: &Config{}},
		{name: "Test5 negative timeout", args: []string{"cmd", "-t=-1"}, expectPanic: true, expected: &Config{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args

			config := &Config{}

			if !tt.expectPanic {
				require.NotPanics(t, func() { parseFlags(config) })
				assert.Empty(t, cmp.Diff(config, tt.expected))
			} else {
				require.Panics(t, func() { parseFlags(config) })
			}
		})
	}
}

func TestParseFlags_KeepsSubSecondDurationsWithoutFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"cmd", "-a", "http://x/api"}

	cfg := &Config{RequestTimeout: 500 * time.Millisecond, OnlineCheckInterval: 1500 * time.Millisecond}
	require.NotPanics(t, func() { parseFlags(cfg) })

	assert.Equal(t, 500*time.Millisecond, cfg.RequestTimeout)
	assert.Equal(t, 1500*time.Millisecond, cfg.OnlineCheckInterval)
	assert.Equal(t, "http://x/api", cfg.APIBaseURL)
}
