// Package report builds the browsable index page for an output directory.
package report

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"pricecharts/domain/run"
)

// IndexFile is the index page's file name inside the output directory
const IndexFile = "index.html"

const pageTitle = "Product Catalogue Charts"

const pageCSS = `<style>
body { font-family: sans-serif; max-width: 960px; margin: 2em auto; color: #222; }
table { border-collapse: collapse; }
th, td { border: 1px solid #ccc; padding: 4px 10px; text-align: left; }
img { max-width: 480px; }
</style>
`

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`, "`", "\\`", "*", `\*`, "_", `\_`, "[", `\[`, "]", `\]`,
	"|", `\|`, "<", "&lt;", ">", "&gt;", "#", `\#`,
)

func escape(s string) string {
	return markdownEscaper.Replace(s)
}

func number(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// Markdown renders the run summary as Markdown
func Markdown(m *run.Manifest) []byte {
	var b bytes.Buffer

	fmt.Fprintf(&b, "# %s\n\n", pageTitle)
	fmt.Fprintf(&b, "Source: `%s` with %d rows and %d columns.\n\n", filepath.Base(m.Input), m.Rows, len(m.Columns))
	if len(m.Columns) > 0 {
		cols := make([]string, len(m.Columns))
		for i, c := range m.Columns {
			cols[i] = escape(c)
		}
		fmt.Fprintf(&b, "Columns: %s\n\n", strings.Join(cols, ", "))
	}

	if len(m.Profiles) > 0 {
		b.WriteString("## Numeric columns\n\n")
		b.WriteString("| Column | Count | Missing | Mean | Std | Min | Median | Max | Outliers |\n|---|---|---|---|---|---|---|---|---|\n")
		for _, p := range m.Profiles {
			fmt.Fprintf(&b, "| %s | %d | %d | %s | %s | %s | %s | %s | %d |\n",
				escape(p.Name), p.Count, p.Missing,
				number(p.Mean), number(p.StdDev), number(p.Min), number(p.Median), number(p.Max),
				p.Outliers)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Charts\n\n")
	if len(m.Artifacts) == 0 {
		b.WriteString("No charts were produced.\n\n")
	} else {
		b.WriteString("| Chart | Interactive | Image |\n|---|---|---|\n")
		for _, a := range m.Artifacts {
			image := "-"
			if a.PNG != "" {
				image = fmt.Sprintf("[%s](%s)", a.PNG, a.PNG)
			}
			fmt.Fprintf(&b, "| %s | [%s](%s) | %s |\n", escape(a.Title), a.HTML, a.HTML, image)
		}
		b.WriteString("\n")
	}

	if len(m.Skipped) > 0 {
		b.WriteString("## Skipped\n\n")
		for _, s := range m.Skipped {
			fmt.Fprintf(&b, "- `%s`: %s\n", s.Chart, escape(s.Reason))
		}
		b.WriteString("\n")
	}

	if len(m.Failures) > 0 {
		b.WriteString("## Image export failures\n\n")
		for _, f := range m.Failures {
			fmt.Fprintf(&b, "- `%s` (%s): %s\n", f.Chart, f.Exporter, escape(f.Error))
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "_Run %s, generated %s._\n", m.RunID, m.FinishedAt)
	return b.Bytes()
}

// RenderIndex converts the run summary to a complete HTML page
func RenderIndex(m *run.Manifest) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags | html.CompletePage,
		Title: pageTitle,
		Head:  []byte(pageCSS),
	})
	return markdown.ToHTML(Markdown(m), p, renderer)
}

// WriteIndex writes the index page to path, replacing any existing file
func WriteIndex(path string, m *run.Manifest) error {
	return os.WriteFile(path, RenderIndex(m), 0o644)
}
