package dispatch

import "strings"

// Merge substitutes every {{Key}} and {Key} occurrence in template with the
// mapped value. The double-brace form is replaced first so "{{Name}}" never
// degenerates into "{<value>}". Keys present in the template but absent from
// the map are left as literal text.
//
// Merge performs no I/O and is safe for concurrent use.
func Merge(template string, placeholders map[string]string) string {
	if template == "" {
		return ""
	}

	if len(placeholders) == 0 {
		return template
	}

	merged := template

	for key, value := range placeholders {
		merged = strings.ReplaceAll(merged, "{{"+key+"}}", value)
		merged = strings.ReplaceAll(merged, "{"+key+"}", value)
	}

	return merged
}
