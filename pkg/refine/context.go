package refine

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// ContextLimit bounds how much surrounding page text a candidate carries.
const ContextLimit = 300

var (
	contextPolicyOnce sync.Once
	contextPolicy     *bluemonday.Policy
)

// ContextText reduces a fragment of page markup to the plain text a human
// would read around a field: tags are stripped, the contents of nested form
// controls and non-visible elements are dropped entirely, whitespace is
// collapsed, and the result is cut at ContextLimit characters.
func ContextText(markup string) string {
	trimmed := strings.TrimSpace(markup)
	if trimmed == "" {
		return ""
	}
	cleaned := html.UnescapeString(contextSanitizer().Sanitize(trimmed))
	collapsed := strings.Join(strings.Fields(cleaned), " ")
	runes := []rune(collapsed)
	if len(runes) > ContextLimit {
		return string(runes[:ContextLimit])
	}
	return collapsed
}

func contextSanitizer() *bluemonday.Policy {
	contextPolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		policy.SkipElementsContent(
			"input", "select", "textarea", "option", "button",
			"script", "style", "noscript", "template",
		)
		contextPolicy = policy
	})
	return contextPolicy
}
