package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSessionTokens(t *testing.T) {
	tests := []struct {
		wantErr error
		name    string
		access  string
		refresh string
	}{
		{
			name:    "valid pair",
			access:  "A1",
			refresh: "R1",
		},
		{
			name:    "values are trimmed",
			access:  "  A1  ",
			refresh: "\tR1\n",
		},
		{
			name:    "empty access token",
			access:  "   ",
			refresh: "R1",
			wantErr: ErrEmptyAccessToken,
		},
		{
			name:    "empty refresh token",
			access:  "A1",
			refresh: "",
			wantErr: ErrEmptyRefreshToken,
		},
		{
			name:    "both empty reports access first",
			access:  "",
			refresh: "",
			wantErr: ErrEmptyAccessToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := NewSessionTokens(tt.access, tt.refresh)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "A1", tokens.Access)
			assert.Equal(t, "R1", tokens.Refresh)
		})
	}
}
