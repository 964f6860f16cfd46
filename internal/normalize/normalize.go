// Package normalize turns raw model output (HTML paragraphs or plain prose)
// into the paragraph contract served to the front end: every paragraph is
// rendered as <p>— Text.</p> with a capitalized lead word and terminal
// punctuation, and the draft carries a minimum number of paragraphs when the
// text allows it.
package normalize

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	// Marker prefixes every rendered paragraph.
	Marker = "— "

	// DefaultMinParagraphs is the paragraph count a draft is expanded to.
	DefaultMinParagraphs = 5
)

var (
	paragraphTag = regexp.MustCompile(`(?i)<p[\s>]`)
	codeFence    = regexp.MustCompile("```(?:html)?")
	lineBreakTag = regexp.MustCompile(`(?i)<br\s*/?>`)
	plainBreak   = regexp.MustCompile(`\n[ \t]*\n\s*|\.\s{2,}`)
	asciiSpace   = regexp.MustCompile(`[ \t\r\n\f\v]+`)
)

// Paragraph is the text of one output paragraph, without marker or tags.
type Paragraph string

// HTML renders the paragraph with its marker.
func (p Paragraph) HTML() string {
	return "<p>" + Marker + escaper.Replace(string(p)) + "</p>"
}

// Result is an ordered draft.
type Result []Paragraph

// HTML concatenates the rendered paragraphs, one per line, without wrapper.
func (r Result) HTML() string {
	parts := make([]string, len(r))
	for i, p := range r {
		parts[i] = p.HTML()
	}
	return strings.Join(parts, "\n")
}

// Only the characters that would change the parse are escaped; quotes stay
// literal so the lead-letter rules see them on a second pass.
var escaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// Normalizer applies the paragraph contract with a fixed minimum count.
// The zero value uses DefaultMinParagraphs.
type Normalizer struct {
	MinParagraphs int
}

// Normalize returns the cleaned paragraphs of text.
func (n Normalizer) Normalize(text string) Result {
	minCount := n.MinParagraphs
	if minCount <= 0 {
		minCount = DefaultMinParagraphs
	}
	return Normalize(text, minCount)
}

// HTML returns the rendered draft for text.
func (n Normalizer) HTML(text string) string {
	return n.Normalize(text).HTML()
}

// Normalize cleans every candidate paragraph of text and, when fewer than
// minCount remain, splits them at sentence boundaries until minCount is
// reached or no boundary is left. It is deterministic and safe for concurrent
// use.
func Normalize(text string, minCount int) Result {
	var out Result
	for _, c := range candidates(text) {
		if p := cleanParagraph(c); p != "" {
			out = append(out, p)
		}
	}
	return expand(out, minCount)
}

// HTML is Normalize followed by rendering.
func HTML(text string, minCount int) string {
	return Normalize(text, minCount).HTML()
}

// HasParagraphs reports whether text carries <p> markup.
func HasParagraphs(text string) bool {
	return paragraphTag.MatchString(text)
}

func candidates(text string) []string {
	text = strings.ReplaceAll(text, "\r", "")
	text = codeFence.ReplaceAllString(text, "")

	var raw []string
	if HasParagraphs(text) {
		raw = paragraphTexts(lineBreakTag.ReplaceAllString(text, " "))
	} else {
		raw = splitPlain(text)
	}

	out := raw[:0]
	for _, c := range raw {
		c = strings.TrimSpace(asciiSpace.ReplaceAllString(c, " "))
		if c != "" {
			out = append(out, c)
		}
	}
	return out
}

// paragraphTexts returns the decoded text of every <p> element. Content
// outside paragraphs is dropped.
func paragraphTexts(html string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return splitPlain(html)
	}
	var out []string
	doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		out = append(out, s.Text())
	})
	return out
}

// splitPlain breaks prose on blank lines and on a period followed by two or
// more spaces. The period stays with the paragraph it closes.
func splitPlain(text string) []string {
	var out []string
	start := 0
	for _, loc := range plainBreak.FindAllStringIndex(text, -1) {
		end := loc[0]
		if text[end] == '.' {
			end++
		}
		out = append(out, text[start:end])
		start = loc[1]
	}
	return append(out, text[start:])
}
