package coldemail_test

import (
	"context"
	"strings"
	"testing"

	"github.com/sheetsprojectsofficial/coldemail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegexExtractor_ExtractEmails(t *testing.T) {
	t.Parallel()

	t.Run("finds addresses in text, html and mailto links", func(t *testing.T) {
		t.Parallel()

		page := &coldemail.ParsedPage{
			Text:   "Write to Sales@Acme.com for quotes.",
			HTML:   `<div data-contact="support@acme.com"></div><!-- hr@acme.com -->`,
			Mailto: []string{"mailto:info%40acme.com?subject=Hello"},
		}

		emails, err := coldemail.NewRegexExtractor().ExtractEmails(context.Background(), page)

		require.NoError(t, err)
		assert.Equal(t, []string{"sales@acme.com", "support@acme.com", "hr@acme.com", "info@acme.com"}, emails)
	})

	t.Run("accepts upper-case mailto scheme", func(t *testing.T) {
		t.Parallel()

		page := &coldemail.ParsedPage{Mailto: []string{"MAILTO:Team@Acme.io"}}

		emails, err := coldemail.NewRegexExtractor().ExtractEmails(context.Background(), page)

		require.NoError(t, err)
		assert.Equal(t, []string{"team@acme.io"}, emails)
	})

	t.Run("returns nothing for nil page", func(t *testing.T) {
		t.Parallel()

		emails, err := coldemail.NewRegexExtractor().ExtractEmails(context.Background(), nil)

		require.NoError(t, err)
		assert.Empty(t, emails)
	})

	t.Run("applies to all pages", func(t *testing.T) {
		t.Parallel()

		e := coldemail.NewRegexExtractor()
		assert.Equal(t, "regex", e.Name())
		assert.Equal(t, coldemail.ScopeAllPages, e.Scope())
	})
}

func TestIsValidEmail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		email string
		want  bool
	}{
		{"info@acme.com", true},
		{"First.Last+tag@sub.acme.co.uk", true},
		{"logo@2x.png", false},
		{"banner@acme.jpeg", false},
		{"john@example.com", false},
		{"qa@test.com", false},
		{"hello@contest.com", true},
		{"noreply@acme.com", false},
		{"no-reply@acme.com", false},
		{"donotreply@acme.com", false},
		{"email@acme.com", false},
		{"info@email.com", false},
		{"your-email@acme.com", false},
		{"missing-at.acme.com", false},
		{"nodot@localhost", false},
		{strings.Repeat("a", 95) + "@acme.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, coldemail.IsValidEmail(tt.email))
		})
	}
}

func TestIsStrictEmail(t *testing.T) {
	t.Parallel()

	assert.True(t, coldemail.IsStrictEmail("info@acme.com"))
	assert.False(t, coldemail.IsStrictEmail("Contact: info@acme.com"))
	assert.False(t, coldemail.IsStrictEmail("NONE"))
}

func TestFilterEmails(t *testing.T) {
	t.Parallel()

	t.Run("lower-cases and dedupes case-insensitively", func(t *testing.T) {
		t.Parallel()

		got := coldemail.FilterEmails([]string{"Info@Acme.com", "info@acme.com", " sales@acme.com "})

		assert.Equal(t, []string{"info@acme.com", "sales@acme.com"}, got)
	})

	t.Run("drops rejected addresses", func(t *testing.T) {
		t.Parallel()

		got := coldemail.FilterEmails([]string{"icon@2x.gif", "noreply@acme.com", "user@example.org", "ceo@acme.com"})

		assert.Equal(t, []string{"ceo@acme.com"}, got)
	})

	t.Run("returns empty slice for no input", func(t *testing.T) {
		t.Parallel()

		got := coldemail.FilterEmails(nil)

		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}
