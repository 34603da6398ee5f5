package css

import "strings"

// Parser is a streaming stylesheet parser (spec §4.2): it accepts chunks of
// CSS text and emits complete rules as soon as their outer braces balance.
// Incomplete tails are buffered until the next Feed or until Finish
// discards them.
type Parser struct {
	buf         strings.Builder
	sourceOrder int
	origin      Origin
}

// NewParser creates a streaming parser that tags every rule it emits with
// the given origin.
func NewParser(origin Origin) *Parser {
	return &Parser{origin: origin}
}

// Feed appends a chunk of CSS text and returns every rule that could be
// fully parsed (selector + balanced `{ ... }`) from the buffered text so
// far, consuming it from the internal buffer.
func (p *Parser) Feed(chunk string) []Rule {
	p.buf.WriteString(chunk)
	text := p.buf.String()
	rules, consumed := parseAvailable(text, &p.sourceOrder, p.origin)
	p.buf.Reset()
	p.buf.WriteString(text[consumed:])
	return rules
}

// Finish parses any residual complete rules in the buffer and discards an
// incomplete trailer (spec §4.2 "finish() parses residual complete rules
// and discards incomplete trailers").
func (p *Parser) Finish() []Rule {
	text := p.buf.String()
	rules, _ := parseAvailable(text, &p.sourceOrder, p.origin)
	p.buf.Reset()
	return rules
}

// ParseStylesheet parses a complete, non-streamed CSS string in one shot —
// a convenience used for embedded UA/<style> sheets where no chunking is
// needed.
func ParseStylesheet(text string, origin Origin) *Stylesheet {
	p := NewParser(origin)
	rules := p.Feed(text)
	rules = append(rules, p.Finish()...)
	return &Stylesheet{Rules: rules}
}

// parseAvailable extracts every complete rule from text, returning the
// rules and the byte offset up to which text was consumed. *order is
// advanced once per emitted rule.
func parseAvailable(text string, order *int, origin Origin) ([]Rule, int) {
	// Rules are found in comment-stripped text; the consumed offset is
	// tracked in clean space and mapped back onto text before returning.
	clean := stripComments(text)
	var rules []Rule
	pos := 0
	lastConsumed := 0
	for pos < len(clean) {
		for pos < len(clean) && isSpace(clean[pos]) {
			pos++
		}
		if pos >= len(clean) {
			break
		}
		braceStart := strings.IndexByte(clean[pos:], '{')
		if braceStart == -1 {
			break // incomplete: selector with no opening brace yet
		}
		braceStart += pos

		braceEnd := findMatchingBrace(clean, braceStart)
		if braceEnd == -1 {
			break // incomplete: unbalanced braces, wait for more input
		}

		selectorText := strings.TrimSpace(clean[pos:braceStart])
		body := clean[braceStart+1 : braceEnd]
		if selectorText != "" {
			selectors := ParseSelectorList(selectorText)
			decls := parseDeclarations(body)
			if len(selectors) > 0 && len(decls) > 0 {
				rules = append(rules, Rule{
					Selectors:    selectors,
					Declarations: decls,
					Origin:       origin,
					SourceOrder:  *order,
				})
				*order++
			}
		}
		pos = braceEnd + 1
		lastConsumed = pos
	}
	orig, kept := 0, 0
	for orig < len(text) && kept < lastConsumed {
		if orig+1 < len(text) && text[orig] == '/' && text[orig+1] == '*' {
			end := strings.Index(text[orig+2:], "*/")
			if end == -1 {
				break
			}
			orig += end + 4
			continue
		}
		orig++
		kept++
	}
	return rules, orig
}

func isSpace(c byte) bool { return c == ' ' || c == '\t' || c == '\n' || c == '\r' }

func stripComments(s string) string {
	var out strings.Builder
	i := 0
	for i < len(s) {
		if i+1 < len(s) && s[i] == '/' && s[i+1] == '*' {
			end := strings.Index(s[i+2:], "*/")
			if end == -1 {
				// Unterminated comment: treat the rest as still-buffered
				// (caller will see it as trailing whitespace-ish text).
				return out.String()
			}
			i = i + 2 + end + 2
			continue
		}
		out.WriteByte(s[i])
		i++
	}
	return out.String()
}

func findMatchingBrace(s string, start int) int {
	depth := 1
	var quote byte
	for i := start + 1; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// parseDeclarations splits a rule body on `;`, respecting nesting of
// ()/[]/{} and quoted strings (spec §4.2), stripping a trailing
// `!important` flag from each value.
func parseDeclarations(body string) []Declaration {
	var out []Declaration
	for _, part := range splitDeclarations(body) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		colon := strings.IndexByte(part, ':')
		if colon == -1 {
			continue
		}
		prop := strings.ToLower(strings.TrimSpace(part[:colon]))
		val := strings.TrimSpace(part[colon+1:])
		important := false
		lower := strings.ToLower(val)
		if idx := strings.LastIndex(lower, "!important"); idx != -1 {
			important = true
			val = strings.TrimSpace(val[:idx])
		}
		if prop == "" || val == "" {
			continue
		}
		out = append(out, Declaration{Property: prop, Value: val, Important: important})
	}
	return out
}

func splitDeclarations(body string) []string {
	var out []string
	depth := 0
	var quote byte
	var cur strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		switch {
		case quote != 0:
			cur.WriteByte(c)
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
			cur.WriteByte(c)
		case c == '(' || c == '[' || c == '{':
			depth++
			cur.WriteByte(c)
		case c == ')' || c == ']' || c == '}':
			depth--
			cur.WriteByte(c)
		case c == ';' && depth == 0:
			out = append(out, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	out = append(out, cur.String())
	return out
}

// ParseInlineStyle parses a `style="..."` attribute value into a
// Declaration list (no selector; the caller applies these with a synthetic
// highest specificity and an inline-boost flag, per spec §4.4).
func ParseInlineStyle(styleAttr string) []Declaration {
	return parseDeclarations(styleAttr)
}
