package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEmail(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{
			name:  "simple address",
			input: "user@example.com",
			want:  "user@example.com",
		},
		{
			name:  "trim and lowercase",
			input: "  User@Example.COM ",
			want:  "user@example.com",
		},
		{
			name:  "plus addressing",
			input: "user+tag@example.com",
			want:  "user+tag@example.com",
		},
		{
			name:    "missing at sign",
			input:   "user.example.com",
			wantErr: true,
		},
		{
			name:    "missing domain dot",
			input:   "user@localhost",
			wantErr: true,
		},
		{
			name:    "whitespace inside",
			input:   "us er@example.com",
			wantErr: true,
		},
		{
			name:    "empty",
			input:   "   ",
			wantErr: true,
		},
		{
			name:    "over 254 characters",
			input:   strings.Repeat("a", 250) + "@b.co",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			email, err := NewEmail(tt.input)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, email.String())
		})
	}
}

func TestEmail_Parts(t *testing.T) {
	email, err := NewEmail("jane.doe@mail.example.com")
	require.NoError(t, err)

	assert.Equal(t, "jane.doe", email.LocalPart())
	assert.Equal(t, "mail.example.com", email.Domain())
}
