// Package nginx reads existing nginx configuration text and turns the
// server blocks it recognizes into typed sites.
//
// The reader is deliberately not a grammar for the full nginx
// configuration language. It understands server and location blocks,
// "name value;" leaf directives, and # line comments, and it tracks
// brace depth with an explicit cursor so that arbitrarily nested block
// bodies are handled correctly (a single regular expression cannot
// balance nesting).
//
// Parsing is best effort throughout: a malformed block is logged and
// skipped, a missing FastCGI target falls back to the default socket,
// and a missing file yields an empty result rather than an error. The
// goal is that one broken block in a hand-edited file never prevents
// the well-formed sites around it from loading.
package nginx
