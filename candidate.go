package coldemail

import (
	"context"
	"strings"
)

// Source records where a candidate URL came from.
type Source string

// Candidate provenance.
const (
	SourceGenerated Source = "generated"
	SourceSearch    Source = "search"
	SourceFallback  Source = "fallback"
)

// CandidateURL is a URL hypothesized to belong to the target company.
type CandidateURL struct {
	URL     string `json:"url"`
	Source  Source `json:"source"`
	Title   string `json:"title,omitempty"`
	Snippet string `json:"snippet,omitempty"`
}

// CandidateResolver produces the ranked candidate list for a company.
type CandidateResolver interface {
	// Resolve returns deduplicated candidates, search results first.
	// Returns EINVALID for a blank company name.
	Resolve(ctx context.Context, company string) ([]CandidateURL, error)
}

// legalSuffixes are dropped from company names before variants are built.
var legalSuffixes = map[string]bool{
	"ltd":     true,
	"inc":     true,
	"corp":    true,
	"llc":     true,
	"pvt":     true,
	"private": true,
	"limited": true,
}

// DomainSuffixes are the TLDs tried for every name variant, in order.
var DomainSuffixes = []string{".com", ".in", ".co.in", ".io", ".net", ".org", ".co", ".co.uk", ".ai"}

// PathSuffixes are appended to the first few root URLs.
var PathSuffixes = []string{"/contact", "/about", "/contact-us", "/about-us", "/team"}

const (
	// maxNameVariants bounds the number of name spellings tried.
	maxNameVariants = 4
	// pathRoots is the number of leading root URLs that get path suffixes.
	pathRoots = 4
)

// GenerateCandidates expands a company name into plausible company URLs.
// The result is deterministic: the same name always yields the same
// candidates in the same order. It performs no I/O.
//
// Ordering: every ".com" root (www first) for each name variant, then the
// path suffixes on the first few roots, then the roots for the remaining
// domain suffixes.
func GenerateCandidates(company string) []CandidateURL {
	variants := nameVariants(company)
	if len(variants) == 0 {
		return nil
	}

	roots := func(suffix string) []string {
		out := make([]string, 0, 2*len(variants))
		for _, v := range variants {
			out = append(out, "https://www."+v+suffix, "https://"+v+suffix)
		}
		return out
	}

	comRoots := roots(DomainSuffixes[0])
	urls := append([]string{}, comRoots...)

	for i, root := range comRoots {
		if i >= pathRoots {
			break
		}
		for _, p := range PathSuffixes {
			urls = append(urls, root+p)
		}
	}

	for _, suffix := range DomainSuffixes[1:] {
		urls = append(urls, roots(suffix)...)
	}

	seen := make(map[string]bool, len(urls))
	candidates := make([]CandidateURL, 0, len(urls))
	for _, u := range urls {
		if seen[u] {
			continue
		}
		seen[u] = true
		candidates = append(candidates, CandidateURL{URL: u, Source: SourceGenerated})
	}
	return candidates
}

// nameVariants returns up to maxNameVariants distinct domain labels for a
// company name: stripped-concatenated, stripped-hyphenated,
// raw-concatenated and raw-hyphenated.
func nameVariants(company string) []string {
	raw := nameTokens(company)
	if len(raw) == 0 {
		return nil
	}

	stripped := make([]string, 0, len(raw))
	for _, tok := range raw {
		if !legalSuffixes[tok] {
			stripped = append(stripped, tok)
		}
	}
	if len(stripped) == 0 {
		stripped = raw
	}

	candidates := []string{
		strings.Join(stripped, ""),
		strings.Join(stripped, "-"),
		strings.Join(raw, ""),
		strings.Join(raw, "-"),
	}

	var variants []string
	seen := make(map[string]bool)
	for _, v := range candidates {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		variants = append(variants, v)
		if len(variants) == maxNameVariants {
			break
		}
	}
	return variants
}

// nameTokens lower-cases the name and splits it into ASCII alphanumeric
// words. Apostrophes join their neighbours ("O'Reilly" -> "oreilly").
func nameTokens(company string) []string {
	company = strings.ReplaceAll(strings.ToLower(company), "'", "")
	return strings.FieldsFunc(company, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
}

// MergeCandidates concatenates candidate lists, keeping the first
// occurrence of each URL (exact string match). Provenance of the kept
// entry is preserved.
func MergeCandidates(lists ...[]CandidateURL) []CandidateURL {
	var merged []CandidateURL
	seen := make(map[string]bool)
	for _, list := range lists {
		for _, c := range list {
			if c.URL == "" || seen[c.URL] {
				continue
			}
			seen[c.URL] = true
			merged = append(merged, c)
		}
	}
	return merged
}
