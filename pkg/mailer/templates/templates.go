// Package templates renders the embedded notification email bodies.
package templates

import (
	"bytes"
	"embed"
	"fmt"
	htmpl "html/template"
)

//go:embed *.tmpl
var FS embed.FS

var tmpl = htmpl.Must(htmpl.New("email").ParseFS(FS, "*.tmpl"))

// Render executes the named template ("donation_status", "account_blocked",
// "welcome") with data and returns the HTML body.
func Render(name string, data map[string]any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name+".tmpl", data); err != nil {
		return "", fmt.Errorf("render email template %s: %w", name, err)
	}
	return buf.String(), nil
}
