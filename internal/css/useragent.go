package css

// DefaultUserAgentSheet is the engine's built-in UA stylesheet: the handful
// of default-display rules every HTML renderer needs before any author CSS
// is applied (spec §4.2's "merged view ordered UA rules first"). No
// retrieved repo ships one verbatim; this is the minimal conventional set
// matching the browser engines' own html.css.
const DefaultUserAgentSheet = `
html, body, div, section, article, header, footer, nav, main, aside,
p, h1, h2, h3, h4, h5, h6, ul, ol, li, form, figure, figcaption,
blockquote, pre, table, thead, tbody, tfoot, tr, fieldset {
	display: block;
}
span, a, strong, em, b, i, u, small, code, label, abbr, sub, sup, time,
mark, cite, q, button, select, textarea, img, input, td, th {
	display: inline;
}
table { display: table; }
tr { display: table-row; }
td, th { display: table-cell; }
head, title, style, script, meta, link, noscript {
	display: none;
}
body { margin: 8px; }
h1 { font-size: 2em; font-weight: bold; }
h2 { font-size: 1.5em; font-weight: bold; }
h3 { font-size: 1.17em; font-weight: bold; }
p, ul, ol, blockquote { margin-top: 1em; margin-bottom: 1em; }
ul, ol { padding-left: 40px; }
a { color: #0000ee; }
strong, b { font-weight: bold; }
em, i { font-style: italic; }
`

// BuildUserAgentStylesheet parses DefaultUserAgentSheet once.
func BuildUserAgentStylesheet() *Stylesheet {
	return ParseStylesheet(DefaultUserAgentSheet, OriginUserAgent)
}
