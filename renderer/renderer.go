package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"

	"github.com/etnz/performance"
)

//go:embed *.md
var templates embed.FS

// SnapshotRenderOptions holds configuration for rendering a snapshot report.
type SnapshotRenderOptions struct {
	SkipPositions bool // Do not render the positions table.
	SkipHistory   bool // Do not render the daily history.
}

// RenderSnapshot renders a portfolio snapshot to a markdown string.
func RenderSnapshot(s *performance.PortfolioSnapshot, opts SnapshotRenderOptions) string {
	partials := map[string]string{
		"snapshot_title":  "snapshot_title.md",
		"snapshot_totals": "snapshot_totals.md",
		"snapshot_errors": "snapshot_errors.md",
	}
	// An empty file name results in an empty template.
	partials["snapshot_positions"] = ""
	if !opts.SkipPositions {
		partials["snapshot_positions"] = "snapshot_positions.md"
	}
	partials["snapshot_history"] = ""
	if !opts.SkipHistory {
		partials["snapshot_history"] = "snapshot_history.md"
	}
	return renderTemplate("snapshot", "snapshot.md", partials, NewSnapshot(s))
}

// RenderPositions renders only the positions table of a snapshot.
func RenderPositions(s *performance.PortfolioSnapshot) string {
	return renderTemplate("positions", "snapshot_positions.md", nil, NewSnapshot(s))
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Funcs(funcs).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		var content []byte
		if file != "" {
			content, err = fs.ReadFile(templates, file)
			if err != nil {
				return fmt.Sprintf("error reading partial template %q: %v", file, err)
			}
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
