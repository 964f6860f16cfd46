package normalize

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// openers may precede the lead letter; the letter after them is the one
	// capitalized. They also start a new sentence when splitting.
	openers = "«“\"'‘¿¡"

	// closers may follow terminal punctuation.
	closers = "»”\"'’)]"

	terminals = ".!?…"
)

var (
	leadJunk    = regexp.MustCompile(`^[\s\x{00A0}\-–—]+`)
	filler      = regexp.MustCompile(`^(?i:qu[eé])(?:[\s\x{00A0},;:]+|$)`)
	sentenceEnd = regexp.MustCompile(`\.\s+`)
)

// cleanParagraph applies the per-paragraph rules. It returns "" when nothing
// is left. Applying it to its own output is a no-op.
func cleanParagraph(t string) Paragraph {
	t = stripLead(strings.TrimSpace(t))
	if t == "" {
		return ""
	}
	return Paragraph(ensureTerminal(capitalizeLead(t)))
}

// stripLead removes dashes, spaces and "que"/"qué" fillers from the start of
// t until none are left, so "— que, que se..." and "Que — se..." both reduce
// to "se...".
func stripLead(t string) string {
	for {
		next := leadJunk.ReplaceAllString(t, "")
		next = filler.ReplaceAllString(next, "")
		if next == t {
			return t
		}
		t = next
	}
}

// capitalizeLead uppercases the first letter after any run of openers, so
// "¿«hola»?" becomes "¿«Hola»?".
func capitalizeLead(t string) string {
	body := strings.TrimLeft(t, openers)
	r, size := utf8.DecodeRuneInString(body)
	if size == 0 || r == utf8.RuneError {
		return t
	}
	lead := len(t) - len(body)
	return t[:lead] + string(unicode.ToUpper(r)) + body[size:]
}

// ensureTerminal drops dangling ",;:" and appends a period unless t already
// ends in terminal punctuation, possibly followed by closing quotes.
func ensureTerminal(t string) string {
	t = strings.TrimRightFunc(t, func(r rune) bool {
		return r == ',' || r == ';' || r == ':' || unicode.IsSpace(r)
	})
	if t == "" {
		return t
	}
	if body := strings.TrimRight(t, closers); body != "" {
		last, _ := utf8.DecodeLastRuneInString(body)
		if strings.ContainsRune(terminals, last) {
			return t
		}
	}
	return t + "."
}

// splitSentences cuts p after every period followed by whitespace and an
// uppercase letter or opening quote.
func splitSentences(p string) []string {
	var out []string
	start := 0
	for _, loc := range sentenceEnd.FindAllStringIndex(p, -1) {
		r, _ := utf8.DecodeRuneInString(p[loc[1]:])
		if !unicode.IsUpper(r) && !strings.ContainsRune(openers, r) {
			continue
		}
		out = append(out, p[start:loc[0]+1])
		start = loc[1]
	}
	return append(out, p[start:])
}

// expand splits paragraphs, first to last, until the draft has minCount
// paragraphs. A paragraph is only cut as far as needed; the remaining
// sentences stay together in its last piece. When every boundary is used up
// the shorter draft is returned as is.
func expand(paras Result, minCount int) Result {
	if len(paras) >= minCount {
		return paras
	}
	out := make(Result, 0, minCount)
	for i, p := range paras {
		missing := minCount - len(out) - (len(paras) - i)
		if missing <= 0 {
			return append(out, paras[i:]...)
		}
		pieces := splitSentences(string(p))
		if len(pieces) > missing+1 {
			pieces = append(pieces[:missing:missing], strings.Join(pieces[missing:], " "))
		}
		for _, piece := range pieces {
			if c := cleanParagraph(piece); c != "" {
				out = append(out, c)
			}
		}
	}
	return out
}
