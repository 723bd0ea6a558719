// Package markdown turns model output into HTML that is safe to embed in a page.
package markdown

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/russross/blackfriday/v2"
)

// Renderer converts markdown to sanitized HTML.
type Renderer struct {
	policy *bluemonday.Policy
}

// NewRenderer returns a Renderer using bluemonday's user generated content policy.
func NewRenderer() *Renderer {
	policy := bluemonday.UGCPolicy()
	policy.RequireNoFollowOnLinks(true)
	policy.AddTargetBlankToFullyQualifiedLinks(true)
	return &Renderer{policy: policy}
}

// Render converts src to HTML and strips anything outside the policy.
func (r *Renderer) Render(src string) string {
	html := blackfriday.Run([]byte(src), blackfriday.WithExtensions(blackfriday.CommonExtensions))
	return strings.TrimSpace(string(r.policy.SanitizeBytes(html)))
}
