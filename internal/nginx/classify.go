package nginx

import (
	"strings"

	"github.com/ksyq12/sitectl/internal/site"
)

// RedirectMarker is the comment the generator writes into the HTTP to
// HTTPS companion block. Its presence tells the parser that the paired
// HTTPS site owns the redirect, so the stub itself is not an
// independent site.
const RedirectMarker = "# managed-redirect-for:"

// IsRedirectStub reports whether a server block is a pure HTTP to HTTPS
// redirect companion. Such blocks carry a return directive pointing at
// https:// or a 30x status and serve no content of their own, so they
// are excluded from the site list; their existence is driven by the
// paired site's enable_http_redirect flag instead.
func IsRedirectStub(directives *DirectiveMap, locations []Block) bool {
	ret, ok := directives.Get("return")
	if !ok {
		return false
	}

	mentionsRedirect := strings.Contains(ret, "https://") ||
		strings.HasPrefix(ret, "301") ||
		strings.HasPrefix(ret, "302") ||
		strings.HasPrefix(ret, "307") ||
		strings.HasPrefix(ret, "308")
	if !mentionsRedirect {
		return false
	}

	if directives.Has("root") || directives.Has("proxy_pass") || directives.Has("fastcgi_pass") {
		return false
	}
	for _, loc := range locations {
		if strings.Contains(loc.Body, "root") ||
			strings.Contains(loc.Body, "proxy_pass") ||
			strings.Contains(loc.Body, "fastcgi_pass") {
			return false
		}
	}
	return true
}

// RedirectTarget returns the site name named by the managed redirect
// marker inside a block, if any.
func RedirectTarget(blockText string) (string, bool) {
	idx := strings.Index(blockText, RedirectMarker)
	if idx < 0 {
		return "", false
	}
	rest := blockText[idx+len(RedirectMarker):]
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		rest = rest[:nl]
	}
	name := strings.TrimSpace(rest)
	if name == "" {
		return "", false
	}
	return name, true
}

// Classify assigns a site kind from a block's directives and locations,
// or reports false for blocks that are not independent sites (pure
// redirect stubs). First match wins, in a fixed precedence order: a
// php-named directive, then a fastcgi_pass location, then a proxy_pass
// location, then a root directive; anything else defaults to static. A
// block showing signals for more than one kind is resolved by this
// order.
func Classify(directives *DirectiveMap, locations []Block) (site.Kind, bool) {
	if IsRedirectStub(directives, locations) {
		return "", false
	}

	for _, name := range directives.Names() {
		if strings.Contains(strings.ToLower(name), "php") {
			return site.KindPHP, true
		}
	}

	for _, loc := range locations {
		if strings.Contains(strings.ToLower(loc.Body), "fastcgi_pass") {
			return site.KindPHP, true
		}
	}
	for _, loc := range locations {
		if strings.Contains(strings.ToLower(loc.Body), "proxy_pass") {
			return site.KindProxy, true
		}
	}

	// A root directive and no signals at all land in the same place:
	// static is the default.
	return site.KindStatic, true
}
