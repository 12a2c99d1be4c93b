package utils

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSessionConfigTimeouts(t *testing.T) {
	cfg := SessionConfig{
		IdleTimeoutMinutes:   30,
		AbsoluteTimeoutHours: 24,
	}

	assert.Equal(t, 30*time.Minute, cfg.IdleTimeout())
	assert.Equal(t, 24*time.Hour, cfg.AbsoluteTimeout())
}

func TestSessionConfigSameSite(t *testing.T) {
	cases := []struct {
		value string
		want  http.SameSite
	}{
		{"strict", http.SameSiteStrictMode},
		{"Strict", http.SameSiteStrictMode},
		{"none", http.SameSiteNoneMode},
		{"lax", http.SameSiteLaxMode},
		{"", http.SameSiteLaxMode},
		{"bogus", http.SameSiteLaxMode},
	}

	for _, tc := range cases {
		cfg := SessionConfig{CookieSameSite: tc.value}
		assert.Equal(t, tc.want, cfg.SameSite(), "samesite %q", tc.value)
	}
}
