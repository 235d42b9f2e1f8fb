package responder

import "strings"

var jsEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	"\n", `\n`,
	"\r", `\r`,
	"\u2028", `\u2028`,
	"\u2029", `\u2029`,
)

// QuoteJS wraps s as a single-quoted JavaScript string literal.
func QuoteJS(s string) string {
	return "'" + jsEscaper.Replace(s) + "'"
}

// InjectToken replaces the first occurrence of placeholder in src with the quoted token.
// Every other byte of src is left as is.
func InjectToken(src, placeholder, token string) string {
	return strings.Replace(src, placeholder, QuoteJS(token), 1)
}
