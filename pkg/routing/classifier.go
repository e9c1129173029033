package routing

import (
	"net/http"
	"path"
	"sort"
	"strings"
)

// Classifier maps request paths to a RouteClass using the longest matching
// allowlist prefix.
type Classifier struct {
	rules []AllowlistRule
}

func NewClassifier(rules []AllowlistRule) *Classifier {
	copied := make([]AllowlistRule, 0, len(rules))
	for _, rule := range rules {
		rule.Prefix = strings.TrimSpace(rule.Prefix)
		if rule.Prefix == "" {
			continue
		}
		copied = append(copied, rule)
	}

	sort.SliceStable(copied, func(i, j int) bool {
		return len(copied[i].Prefix) > len(copied[j].Prefix)
	})
	return &Classifier{rules: copied}
}

// Classify is what the server middleware uses. Ops routes only serve reads,
// so a write aimed at an ops prefix is treated as an API call and must carry
// a token.
func (c *Classifier) Classify(r *http.Request) RouteClass {
	class := c.ClassifyPath(r.URL.Path)
	if class == RouteClassOps && r.Method != http.MethodGet && r.Method != http.MethodHead {
		return RouteClassAPI
	}
	return class
}

// ClassifyPath falls back to RouteClassAPI, so an unlisted route is
// authenticated. Dot segments are resolved first so /health/../api/x
// cannot pass as an ops route.
func (c *Classifier) ClassifyPath(p string) RouteClass {
	if class, ok := c.match(cleanPath(p)); ok {
		return class
	}
	return RouteClassAPI
}

func (c *Classifier) match(p string) (RouteClass, bool) {
	for _, rule := range c.rules {
		if HasPathPrefixOnBoundary(p, rule.Prefix) {
			return rule.Class, true
		}
	}
	return "", false
}

func cleanPath(p string) string {
	if p == "" {
		return "/"
	}
	if p[0] != '/' {
		p = "/" + p
	}
	cleaned := path.Clean(p)
	if strings.HasSuffix(p, "/") && cleaned != "/" {
		cleaned += "/"
	}
	return cleaned
}

// HasPathPrefixOnBoundary reports whether prefix covers path up to a segment
// boundary. A ':' also ends a segment, so /api/vendors covers the collection
// action /api/vendors:concentration.
func HasPathPrefixOnBoundary(p, prefix string) bool {
	if prefix == "" {
		return false
	}
	if prefix == "/" {
		return strings.HasPrefix(p, "/")
	}
	if !strings.HasPrefix(p, prefix) {
		return false
	}
	if len(p) == len(prefix) || strings.HasSuffix(prefix, "/") {
		return true
	}
	switch p[len(prefix)] {
	case '/', ':':
		return true
	default:
		return false
	}
}
