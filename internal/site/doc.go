// Package site defines the typed in-memory representation of a managed
// nginx server entry.
//
// A Site is a tagged union discriminated by Kind: a static file site, a
// PHP site served through FastCGI, or a reverse proxy. All three variants
// share the common listen/server_name/HTTPS fields and always carry the
// mandatory performance and security baselines, which are filled in with
// fixed defaults whenever they are not explicitly supplied.
//
// Sites come from two places: the parser (internal/nginx) infers them
// from existing configuration text, and the CLI constructs them from
// validated flag input. Parser-sourced sites are validated leniently,
// with missing or malformed fields degraded to defaults; CLI-sourced
// sites are validated strictly and return a *ValidationError naming the
// offending field.
package site
