package discord

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatFriendlyError(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "User Not Found",
			input:    "API error: User not found",
			expected: MsgUserNotFound,
		},
		{
			name:     "Item Not Found",
			input:    "API error: Item not found",
			expected: MsgItemNotFound,
		},
		{
			name:     "Not Enough Items",
			input:    "API error: Not enough items",
			expected: MsgNotEnoughItems,
		},
		{
			name:     "Minion Busy",
			input:    "API error: Your minion is busy",
			expected: MsgMinionBusy,
		},
		{
			name:     "No Activity",
			input:    "API error: No activity in progress",
			expected: MsgNoActivity,
		},
		{
			name:     "Slot Empty",
			input:    "API error: Nothing equipped there",
			expected: MsgSlotEmpty,
		},
		{
			name:     "Invalid Setup",
			input:    "API error: Invalid gear setup",
			expected: MsgInvalidSetup,
		},
		{
			name:     "Preset Not Found",
			input:    "API error: Preset not found",
			expected: MsgPresetNotFound,
		},
		{
			name:     "Bank Conflict",
			input:    "API error: Someone else changed your bank, try again",
			expected: MsgBankConflict,
		},
		{
			name:     "Server Unreachable",
			input:    "request failed after 3 attempts: connection refused",
			expected: MsgAPIUnavailable,
		},
		{
			name:     "Unmapped Error",
			input:    "some random error",
			expected: MsgGenericError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := formatFriendlyError(errors.New(tt.input))
			assert.Equal(t, tt.expected, result)
		})
	}
}
