// Package render expands [fieldName] placeholders in message templates.
package render

import "regexp"

var placeholder = regexp.MustCompile(`\[([^\[\]]+)\]`)

// Expand replaces every [key] in tmpl with fields[key], or with the empty
// string when the key is unknown. The output is not scanned again, so values
// that look like placeholders are kept as they are.
func Expand(tmpl string, fields map[string]string) string {
	return placeholder.ReplaceAllStringFunc(tmpl, func(m string) string {
		return fields[m[1:len(m)-1]]
	})
}
