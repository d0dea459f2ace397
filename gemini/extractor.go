// Package gemini implements an AI email extraction strategy using Google
// Gemini.
package gemini

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/sheetsprojectsofficial/coldemail"
	"google.golang.org/genai"
)

// Extractor defaults.
const (
	DefaultModel    = "gemini-2.5-flash"
	DefaultMaxChars = 10000
)

// noneAnswer is the reply requested when a page lists no addresses.
const noneAnswer = "NONE"

// Ensure Extractor implements coldemail.EmailExtractor at compile time.
var _ coldemail.EmailExtractor = (*Extractor)(nil)

// Extractor asks Gemini to list the contact addresses on a page. It only
// runs on root pages.
type Extractor struct {
	client *genai.Client

	// Model defaults to DefaultModel.
	Model string
	// MaxChars bounds the page text sent in the prompt.
	// Defaults to DefaultMaxChars.
	MaxChars int
}

// NewExtractor creates a new Extractor.
func NewExtractor(client *genai.Client) *Extractor {
	return &Extractor{client: client, Model: DefaultModel, MaxChars: DefaultMaxChars}
}

// Name returns "gemini".
func (e *Extractor) Name() string { return "gemini" }

// Scope returns coldemail.ScopeRootPages.
func (e *Extractor) Scope() coldemail.ExtractionScope { return coldemail.ScopeRootPages }

// ExtractEmails sends the page text to Gemini and returns the addresses it
// reports that pass the strict email check.
func (e *Extractor) ExtractEmails(ctx context.Context, page *coldemail.ParsedPage) ([]string, error) {
	if page == nil || strings.TrimSpace(page.Text) == "" {
		return nil, nil
	}
	if e.client == nil {
		return nil, coldemail.Errorf(coldemail.EINTERNAL, "gemini client not configured")
	}

	model := e.Model
	if model == "" {
		model = DefaultModel
	}
	maxChars := e.MaxChars
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}

	prompt := BuildUserPrompt(page.URL, Truncate(page.Text, maxChars))
	result, err := e.client.Models.GenerateContent(ctx, model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: prompt}},
		}},
		BuildConfig(),
	)
	if err != nil {
		return nil, fmt.Errorf("gemini generate: %w", err)
	}
	if result == nil {
		return nil, coldemail.Errorf(coldemail.EINTERNAL, "gemini returned nil result")
	}

	return ParseEmails(result.Text()), nil
}

// BuildConfig returns the GenerateContentConfig for extraction calls.
func BuildConfig() *genai.GenerateContentConfig {
	temp := float32(0)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{
				Text: "You extract business contact email addresses from website text. Only report addresses that appear verbatim in the text. Never guess or construct addresses.",
			}},
		},
		Temperature:    &temp,
		CandidateCount: 1,
	}
}

// BuildUserPrompt builds the prompt for the page at sourceURL.
func BuildUserPrompt(sourceURL, text string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "<source>%s</source>\n", sourceURL)
	fmt.Fprintf(&sb, "<content>%s</content>\n\n", text)
	fmt.Fprintf(&sb, "List every email address in the content above as a comma-separated list. If there are none, answer %s.", noneAnswer)
	return sb.String()
}

// ParseEmails reads a comma-separated answer. Tokens that are not a single
// well-formed address are dropped.
func ParseEmails(answer string) []string {
	answer = strings.TrimSpace(answer)
	if answer == "" || strings.EqualFold(answer, noneAnswer) {
		return nil
	}

	var out []string
	for _, token := range strings.FieldsFunc(answer, func(r rune) bool {
		return r == ',' || r == '\n' || r == ';'
	}) {
		token = strings.ToLower(strings.Trim(token, " \t\r\"'`<>*.-"))
		if coldemail.IsStrictEmail(token) {
			out = append(out, token)
		}
	}
	return out
}

// Truncate returns at most maxChars characters of s.
func Truncate(s string, maxChars int) string {
	if maxChars <= 0 || utf8.RuneCountInString(s) <= maxChars {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxChars])
}
