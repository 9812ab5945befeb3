// Package render generates canonical nginx configuration text for a
// typed site.
//
// Each site kind has its own embedded template. Every rendered server
// block carries the mandatory performance and security baselines; the
// HTTPS hardening fragment is added only for sites with HTTPS enabled.
// Output is deterministic for a given site value.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"github.com/ksyq12/sitectl/internal/site"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Generator renders sites into nginx server blocks.
type Generator struct {
	tmpl *template.Template
}

// generatedBy is the informational header comment. It carries no clock
// or random state so repeated renders stay byte-identical.
const generatedBy = "sitectl"

// RedirectMarker mirrors the parser's marker comment for HTTP to HTTPS
// companion blocks.
const RedirectMarker = "# managed-redirect-for:"

// NewGenerator parses the embedded templates. Template errors are
// programming errors, so they surface immediately.
func NewGenerator() (*Generator, error) {
	funcs := template.FuncMap{
		"nginxBool": nginxBool,
		"nginxSize": nginxSize,
		"nginxTime": nginxTime,
		"join":      strings.Join,
	}
	tmpl, err := template.New("nginx").Funcs(funcs).ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Generator{tmpl: tmpl}, nil
}

// context is the data handed to the templates: the site itself plus the
// injected fragments.
type context struct {
	*site.Site
	Generator string
	HTTPS     site.HTTPSHardening
	Marker    string
}

// Render produces the configuration text for one site. The site must
// have passed validation; rendering itself has no failure modes beyond
// an unknown kind.
func (g *Generator) Render(s *site.Site) (string, error) {
	name := string(s.Kind) + ".conf.tmpl"
	if t := g.tmpl.Lookup(name); t == nil {
		return "", fmt.Errorf("no template for site kind %q", s.Kind)
	}

	ctx := context{
		Site:      s,
		Generator: generatedBy,
		HTTPS:     site.HTTPSHardeningDefaults(),
		Marker:    RedirectMarker,
	}

	var buf bytes.Buffer
	if err := g.tmpl.ExecuteTemplate(&buf, name, ctx); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", s.SiteName, err)
	}
	return buf.String(), nil
}

// nginxBool formats a bool as nginx's on/off.
func nginxBool(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

// nginxSize passes through values that already carry a size unit and
// appends "m" to bare numbers. Anything else falls back to 10m.
func nginxSize(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "10m"
	}
	switch v[len(v)-1] {
	case 'k', 'K', 'm', 'M', 'g', 'G':
		if _, err := strconv.Atoi(v[:len(v)-1]); err == nil {
			return v
		}
		return "10m"
	}
	if _, err := strconv.Atoi(v); err == nil {
		return v + "m"
	}
	return "10m"
}

// nginxTime passes through values that already carry a time unit and
// appends "s" to bare numbers.
func nginxTime(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "65s"
	}
	if _, err := strconv.Atoi(v); err == nil {
		return v + "s"
	}
	return v
}
