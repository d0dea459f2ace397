package coldemail_test

import (
	"testing"

	"github.com/sheetsprojectsofficial/coldemail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func candidateURLs(candidates []coldemail.CandidateURL) []string {
	urls := make([]string, len(candidates))
	for i, c := range candidates {
		urls[i] = c.URL
	}
	return urls
}

func TestGenerateCandidates(t *testing.T) {
	t.Parallel()

	t.Run("includes root and contact URLs for Acme Corp", func(t *testing.T) {
		t.Parallel()

		urls := candidateURLs(coldemail.GenerateCandidates("Acme Corp"))

		assert.Contains(t, urls, "https://www.acmecorp.com")
		assert.Contains(t, urls, "https://acmecorp.com/contact")
		assert.Contains(t, urls, "https://www.acme.com")
		assert.Contains(t, urls, "https://acme-corp.in")
	})

	t.Run("orders com roots first", func(t *testing.T) {
		t.Parallel()

		urls := candidateURLs(coldemail.GenerateCandidates("Acme Corp"))

		require.GreaterOrEqual(t, len(urls), 6)
		assert.Equal(t, []string{
			"https://www.acme.com",
			"https://acme.com",
			"https://www.acmecorp.com",
			"https://acmecorp.com",
			"https://www.acme-corp.com",
			"https://acme-corp.com",
		}, urls[:6])
		assert.Equal(t, "https://www.acme.com/contact", urls[6])
	})

	t.Run("is deterministic", func(t *testing.T) {
		t.Parallel()

		first := coldemail.GenerateCandidates("Globex Private Limited")
		second := coldemail.GenerateCandidates("Globex Private Limited")

		assert.Equal(t, first, second)
	})

	t.Run("marks every candidate as generated", func(t *testing.T) {
		t.Parallel()

		for _, c := range coldemail.GenerateCandidates("Initech LLC") {
			assert.Equal(t, coldemail.SourceGenerated, c.Source)
		}
	})

	t.Run("strips legal suffixes case-insensitively", func(t *testing.T) {
		t.Parallel()

		urls := candidateURLs(coldemail.GenerateCandidates("Umbrella PVT. LTD."))

		assert.Equal(t, "https://www.umbrella.com", urls[0])
		assert.Contains(t, urls, "https://umbrellapvtltd.com")
	})

	t.Run("hyphenates multi-word names", func(t *testing.T) {
		t.Parallel()

		urls := candidateURLs(coldemail.GenerateCandidates("Blue Sky Labs"))

		assert.Contains(t, urls, "https://blueskylabs.com")
		assert.Contains(t, urls, "https://www.blue-sky-labs.io")
	})

	t.Run("only adds path suffixes to the first roots", func(t *testing.T) {
		t.Parallel()

		urls := candidateURLs(coldemail.GenerateCandidates("Acme Corp"))

		assert.Contains(t, urls, "https://acmecorp.com/team")
		assert.NotContains(t, urls, "https://acme-corp.com/contact")
		assert.NotContains(t, urls, "https://acme.in/contact")
	})

	t.Run("contains no duplicates", func(t *testing.T) {
		t.Parallel()

		urls := candidateURLs(coldemail.GenerateCandidates("Acme"))
		seen := make(map[string]bool)
		for _, u := range urls {
			assert.False(t, seen[u], "duplicate %s", u)
			seen[u] = true
		}
		// one variant: 9 suffixes x 2 prefixes + 2 roots x 5 paths
		assert.Len(t, urls, 28)
	})

	t.Run("keeps the name when it only contains suffixes", func(t *testing.T) {
		t.Parallel()

		urls := candidateURLs(coldemail.GenerateCandidates("Limited"))

		assert.Equal(t, "https://www.limited.com", urls[0])
	})

	t.Run("returns nothing for names without letters or digits", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, coldemail.GenerateCandidates("  &&  "))
	})
}

func TestMergeCandidates(t *testing.T) {
	t.Parallel()

	t.Run("keeps first occurrence and its provenance", func(t *testing.T) {
		t.Parallel()

		search := []coldemail.CandidateURL{{URL: "https://acme.com", Source: coldemail.SourceSearch, Title: "Acme"}}
		generated := []coldemail.CandidateURL{
			{URL: "https://acme.com", Source: coldemail.SourceGenerated},
			{URL: "https://www.acme.com", Source: coldemail.SourceGenerated},
		}

		merged := coldemail.MergeCandidates(search, generated)

		require.Len(t, merged, 2)
		assert.Equal(t, coldemail.SourceSearch, merged[0].Source)
		assert.Equal(t, "Acme", merged[0].Title)
		assert.Equal(t, "https://www.acme.com", merged[1].URL)
	})

	t.Run("merging the same candidate twice leaves size unchanged", func(t *testing.T) {
		t.Parallel()

		c := coldemail.CandidateURL{URL: "https://acme.com", Source: coldemail.SourceGenerated}
		once := coldemail.MergeCandidates([]coldemail.CandidateURL{c})
		twice := coldemail.MergeCandidates(once, []coldemail.CandidateURL{c})

		assert.Len(t, twice, len(once))
	})

	t.Run("skips empty URLs", func(t *testing.T) {
		t.Parallel()

		merged := coldemail.MergeCandidates([]coldemail.CandidateURL{{URL: ""}, {URL: "https://a.io"}})
		assert.Len(t, merged, 1)
	})
}
