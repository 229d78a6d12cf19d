package cipher

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/batoget/batodl/errs"
)

// Markers names the site-format constants the extractor looks for. They are
// configuration rather than inline literals so a site markup change needs an
// edit in exactly one place (or a site profile override, see bato/site).
type Markers struct {
	// ScriptMarker is the constant declaration that identifies the inline
	// script block holding the artifacts, e.g. "const imgHttps =".
	ScriptMarker string `yaml:"script_marker"`
	// PasswordVar is the variable whose assignment carries the password
	// expression, e.g. "batoPass".
	PasswordVar string `yaml:"password_var"`
	// WordVar is the variable whose assignment carries the base64 encoded
	// word, e.g. "batoWord".
	WordVar string `yaml:"word_var"`
}

// DefaultMarkers returns the markers used by bato.to chapter pages.
func DefaultMarkers() Markers {
	return Markers{
		ScriptMarker: "const imgHttps =",
		PasswordVar:  "batoPass",
		WordVar:      "batoWord",
	}
}

// Artifacts holds the three literals pulled out of a chapter page.
type Artifacts struct {
	// BaseURLs is the public base URL array, in document order.
	BaseURLs []string
	// PasswordExpr is the opaque password expression. It is never parsed
	// here; an evaluator.Evaluator turns it into the password.
	PasswordExpr string
	// EncodedWord is the base64 encoded encrypted payload with surrounding
	// quotes already stripped.
	EncodedWord string
}

type patterns struct {
	baseURLs *regexp.Regexp
	password *regexp.Regexp
	word     *regexp.Regexp
}

// compile builds the literal patterns for a marker set. The base URL array
// may span lines; the two assignments run to the statement separator.
func (m Markers) compile() (*patterns, error) {
	if m.ScriptMarker == "" || m.PasswordVar == "" || m.WordVar == "" {
		return nil, fmt.Errorf("%w: incomplete markers", errs.ErrExtractionFailed)
	}
	decl := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(m.ScriptMarker), "="))
	tokens := strings.Fields(decl)
	for i, tok := range tokens {
		tokens[i] = regexp.QuoteMeta(tok)
	}
	baseURLs, err := regexp.Compile(`(?s)` + strings.Join(tokens, `\s+`) + `\s*=\s*(\[[^\]]*\])`)
	if err != nil {
		return nil, fmt.Errorf("%w: base url pattern: %v", errs.ErrExtractionFailed, err)
	}
	password, err := regexp.Compile(regexp.QuoteMeta(m.PasswordVar) + `\s*=\s*([^;]+);`)
	if err != nil {
		return nil, fmt.Errorf("%w: password pattern: %v", errs.ErrExtractionFailed, err)
	}
	word, err := regexp.Compile(regexp.QuoteMeta(m.WordVar) + `\s*=\s*([^;]+);`)
	if err != nil {
		return nil, fmt.Errorf("%w: word pattern: %v", errs.ErrExtractionFailed, err)
	}
	return &patterns{baseURLs: baseURLs, password: password, word: word}, nil
}

// Extract locates the inline script block identified by m.ScriptMarker and
// pulls the three artifacts out of it.
func Extract(pageHTML string, m Markers) (*Artifacts, error) {
	pats, err := m.compile()
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		return nil, fmt.Errorf("%w: parse page: %v", errs.ErrExtractionFailed, err)
	}

	var script string
	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := s.Text()
		if strings.Contains(text, m.ScriptMarker) {
			script = text
			return false
		}
		return true
	})
	if script == "" {
		return nil, fmt.Errorf("%w: script block with %q not found", errs.ErrExtractionFailed, m.ScriptMarker)
	}

	arrMatch := pats.baseURLs.FindStringSubmatch(script)
	if arrMatch == nil {
		return nil, fmt.Errorf("%w: base url array literal not found", errs.ErrExtractionFailed)
	}
	var baseURLs []string
	if err := json.Unmarshal([]byte(arrMatch[1]), &baseURLs); err != nil {
		return nil, fmt.Errorf("%w: base url literal is not a JSON string array: %v", errs.ErrExtractionFailed, err)
	}

	passMatch := pats.password.FindStringSubmatch(script)
	if passMatch == nil {
		return nil, fmt.Errorf("%w: %s assignment not found", errs.ErrExtractionFailed, m.PasswordVar)
	}
	wordMatch := pats.word.FindStringSubmatch(script)
	if wordMatch == nil {
		return nil, fmt.Errorf("%w: %s assignment not found", errs.ErrExtractionFailed, m.WordVar)
	}

	word := strings.TrimSpace(wordMatch[1])
	word = strings.Trim(word, `'"`)
	if word == "" {
		return nil, fmt.Errorf("%w: %s literal is empty", errs.ErrExtractionFailed, m.WordVar)
	}

	return &Artifacts{
		BaseURLs:     baseURLs,
		PasswordExpr: strings.TrimSpace(passMatch[1]),
		EncodedWord:  word,
	}, nil
}
