package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLinkLifetime(t *testing.T) {
	tests := []struct {
		name string
		d    time.Duration
		want string
	}{
		{"default invite expiry", 72 * time.Hour, "72 hours"},
		{"default reset expiry", time.Hour, "1 hour"},
		{"two days", 48 * time.Hour, "48 hours"},
		{"half hour", 30 * time.Minute, "30 minutes"},
		{"single minute", time.Minute, "1 minute"},
		{"sub-minute rounds up", 20 * time.Second, "1 minute"},
		{"ninety minutes truncates to hours", 90 * time.Minute, "1 hour"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, linkLifetime(tc.d))
		})
	}
}
