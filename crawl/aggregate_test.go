package crawl_test

import (
	"context"
	"errors"
	"testing"

	"github.com/sheetsprojectsofficial/coldemail"
	"github.com/sheetsprojectsofficial/coldemail/crawl"
	"github.com/stretchr/testify/assert"
)

func TestAggregate(t *testing.T) {
	t.Parallel()

	t.Run("unions emails in first-seen order", func(t *testing.T) {
		t.Parallel()

		pages := []*coldemail.PageResult{
			{URL: "https://acme.com", Emails: []string{"Sales@acme.com", "info@acme.com"}},
			{URL: "https://acme.com/contact", Emails: []string{"info@acme.com", "hr@acme.com"}},
		}

		report := crawl.Aggregate("Acme", 2, pages, 2, nil)

		assert.Equal(t, []string{"sales@acme.com", "info@acme.com", "hr@acme.com"}, report.Emails)
		assert.Equal(t, coldemail.StatusCompleted, report.Status)
		assert.Equal(t, 2, report.ProcessedURLCount)
		assert.False(t, report.CreatedAt.IsZero())
	})

	t.Run("re-validates emails", func(t *testing.T) {
		t.Parallel()

		pages := []*coldemail.PageResult{
			{Emails: []string{"user@example.com", "logo@acme.png"}},
		}

		report := crawl.Aggregate("Acme", 1, pages, 1, nil)

		assert.Equal(t, []string{}, report.Emails)
		assert.Equal(t, coldemail.StatusNoEmailsFound, report.Status)
	})

	t.Run("reports no_results without candidates", func(t *testing.T) {
		t.Parallel()

		report := crawl.Aggregate("Acme", 0, nil, 0, nil)

		assert.Equal(t, coldemail.StatusNoResults, report.Status)
	})

	t.Run("reports error when the run failed before any page", func(t *testing.T) {
		t.Parallel()

		report := crawl.Aggregate("Acme", 3, nil, 0, context.Canceled)

		assert.Equal(t, coldemail.StatusError, report.Status)
		assert.Equal(t, "context canceled", report.Error)
	})

	t.Run("uses the message of application errors", func(t *testing.T) {
		t.Parallel()

		report := crawl.Aggregate("Acme", 3, nil, 0, coldemail.Errorf(coldemail.EINTERNAL, "crawler misconfigured"))

		assert.Equal(t, "crawler misconfigured", report.Error)
	})

	t.Run("keeps partial results after a late failure", func(t *testing.T) {
		t.Parallel()

		pages := []*coldemail.PageResult{{Emails: []string{"sales@acme.com"}}}

		report := crawl.Aggregate("Acme", 3, pages, 1, errors.New("deadline"))

		assert.Equal(t, coldemail.StatusCompleted, report.Status)
		assert.Empty(t, report.Error)
	})
}
