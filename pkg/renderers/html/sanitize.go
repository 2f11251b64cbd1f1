package html

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	questionPolicyOnce sync.Once
	questionPolicy     *bluemonday.Policy
)

// sanitizeQuestion strips everything from remote question text except light
// inline formatting. The result is HTML and must be emitted unescaped.
func sanitizeQuestion(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(questionSanitizer().Sanitize(trimmed))
}

func questionSanitizer() *bluemonday.Policy {
	questionPolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		policy.AllowElements("b", "strong", "i", "em", "code", "br")
		questionPolicy = policy
	})
	return questionPolicy
}
