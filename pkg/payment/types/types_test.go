package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusTerminal(t *testing.T) {
	tests := []struct {
		status   Status
		terminal bool
		pollable bool
	}{
		{StatusPending, false, true},
		{StatusCreated, false, true},
		{StatusPaid, true, false},
		{StatusFailed, true, false},
		{StatusClosed, true, false},
		{StatusRefunded, true, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.terminal, tt.status.IsTerminal())
			assert.Equal(t, tt.pollable, tt.status.IsPollable())
		})
	}
}
