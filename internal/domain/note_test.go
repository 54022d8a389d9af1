package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateTitle(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		wantErr error
	}{
		{
			name:    "valid",
			title:   "Groceries",
			wantErr: nil,
		},
		{
			name:    "exactly max length",
			title:   strings.Repeat("a", MaxTitleLength),
			wantErr: nil,
		},
		{
			name:    "one over max length",
			title:   strings.Repeat("a", MaxTitleLength+1),
			wantErr: ErrTitleTooLong,
		},
		{
			name:    "empty",
			title:   "",
			wantErr: ErrTitleRequired,
		},
		{
			name:    "whitespace only",
			title:   "   ",
			wantErr: ErrTitleRequired,
		},
		{
			name:    "multibyte runes counted as characters",
			title:   strings.Repeat("ä", MaxTitleLength),
			wantErr: nil,
		},
		{
			name:    "multibyte runes over limit",
			title:   strings.Repeat("ä", MaxTitleLength+1),
			wantErr: ErrTitleTooLong,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTitle(tt.title)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateTitle(%q) = %v, want %v", tt.title, err, tt.wantErr)
			}
		})
	}
}

func TestValidateBody(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
	}{
		{
			name:    "valid",
			body:    "Milk, eggs, bread",
			wantErr: nil,
		},
		{
			name:    "exactly max length",
			body:    strings.Repeat("b", MaxBodyLength),
			wantErr: nil,
		},
		{
			name:    "one over max length",
			body:    strings.Repeat("b", MaxBodyLength+1),
			wantErr: ErrNoteBodyTooLong,
		},
		{
			name:    "empty",
			body:    "",
			wantErr: ErrBodyRequired,
		},
		{
			name:    "whitespace only",
			body:    "\t\n ",
			wantErr: ErrBodyRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBody(tt.body)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateBody() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestIsValidationError(t *testing.T) {
	for _, err := range []error{
		ErrDuplicateTitle, ErrTitleRequired, ErrTitleTooLong,
		ErrBodyRequired, ErrNoteBodyTooLong,
	} {
		if !IsValidationError(err) {
			t.Errorf("IsValidationError(%v) = false, want true", err)
		}
	}

	for _, err := range []error{ErrNoteNotFound, ErrUserNotFound, errors.New("boom")} {
		if IsValidationError(err) {
			t.Errorf("IsValidationError(%v) = true, want false", err)
		}
	}
}
