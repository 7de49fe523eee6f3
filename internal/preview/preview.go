// Package preview composes a project's files into one self-contained HTML
// document for sandboxed rendering.
//
// Output depends only on the file contents and the options, so the same
// inputs always give byte-identical documents.
package preview

import (
	"crypto/sha256"
	"encoding/hex"
	"html"
	"strings"

	"sparrow-backend/internal/models"
)

// SandboxPolicy is the CSP sent with previews: scripts run, but the document
// gets an opaque origin with no access to the host page or its storage.
const SandboxPolicy = "sandbox allow-scripts allow-forms allow-modals allow-popups"

const attributionLabel = `<div id="sparrow-label" style="
  position: fixed !important;
  bottom: 16px !important;
  right: 16px !important;
  background: rgba(0, 0, 0, 0.9) !important;
  color: white !important;
  padding: 8px 12px !important;
  border-radius: 6px !important;
  font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif !important;
  font-size: 12px !important;
  z-index: 999999 !important;
  pointer-events: none !important;
">
  Made by <strong>Sparrow</strong>
</div>`

type Options struct {
	// Attribution appends the fixed "Made by Sparrow" overlay.
	Attribution bool
	// Title is used when a bare fragment has to be wrapped in boilerplate.
	Title string
}

// ForEditor is the in-editor preview variant.
func ForEditor() Options {
	return Options{Title: "Sparrow Preview"}
}

// ForDeploy is the variant published to a static host.
func ForDeploy() Options {
	return Options{Attribution: true, Title: "Deployed by Sparrow"}
}

// Assemble builds the preview document. It returns "" when files contain no
// HTML file.
func Assemble(files []models.ProjectFile, opts Options) string {
	var (
		page    *models.ProjectFile
		styles  []string
		scripts []string
	)
	for i := range files {
		f := &files[i]
		switch {
		case isHTML(f):
			if page == nil {
				page = f
			}
		case isCSS(f):
			styles = append(styles, f.Content)
		case isJS(f):
			scripts = append(scripts, f.Content)
		}
	}
	if page == nil {
		return ""
	}

	doc := page.Content
	if !hasDoctype(doc) {
		doc = wrap(doc, opts.Title)
	}

	if len(styles) > 0 {
		doc = insertStyles(doc, "<style>\n"+strings.Join(styles, "\n")+"\n</style>")
	}

	if len(scripts) > 0 {
		doc = insertBeforeBodyEnd(doc, "<script>\n"+strings.Join(scripts, "\n")+"\n</script>")
	}

	if opts.Attribution {
		doc = insertBeforeBodyEnd(doc, attributionLabel)
	}
	return doc
}

// ETag is a strong validator for an assembled document.
func ETag(doc string) string {
	sum := sha256.Sum256([]byte(doc))
	return `"` + hex.EncodeToString(sum[:16]) + `"`
}

// insertStyles places tag inside the document head, creating one after the
// <html> or doctype tag when the page has none. Tag names match in any case.
func insertStyles(doc, tag string) string {
	lower := lowerASCII(doc)
	if i := strings.Index(lower, "</head>"); i >= 0 {
		return doc[:i] + tag + "\n" + doc[i:]
	}
	if i := openTagEnd(lower, "head"); i >= 0 {
		return doc[:i] + "\n" + tag + doc[i:]
	}
	head := "<head>\n" + tag + "\n</head>"
	if i := openTagEnd(lower, "html"); i >= 0 {
		return doc[:i] + "\n" + head + doc[i:]
	}
	if i := openTagEnd(lower, "!doctype"); i >= 0 {
		return doc[:i] + "\n" + head + doc[i:]
	}
	return head + "\n" + doc
}

func insertBeforeBodyEnd(doc, tag string) string {
	if i := strings.Index(lowerASCII(doc), "</body>"); i >= 0 {
		return doc[:i] + tag + "\n" + doc[i:]
	}
	return doc + "\n" + tag
}

// openTagEnd returns the offset just past the '>' of the first <name> or
// <name ...> tag in lower, or -1. It does not match longer names such as
// <header> for "head".
func openTagEnd(lower, name string) int {
	open := "<" + name
	from := 0
	for {
		i := strings.Index(lower[from:], open)
		if i < 0 {
			return -1
		}
		j := from + i + len(open)
		if j < len(lower) && (lower[j] == '>' || isSpace(lower[j])) {
			k := strings.IndexByte(lower[j:], '>')
			if k < 0 {
				return -1
			}
			return j + k + 1
		}
		from = j
	}
}

// lowerASCII lowercases only ASCII letters so byte offsets stay valid for the
// original string.
func lowerASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if 'A' <= c && c <= 'Z' {
			b[i] = c + 'a' - 'A'
		}
	}
	return string(b)
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

func wrap(body, title string) string {
	if title == "" {
		title = "Sparrow Preview"
	}
	return "<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n" +
		"<meta charset=\"UTF-8\">\n" +
		"<meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n" +
		"<title>" + html.EscapeString(title) + "</title>\n" +
		"</head>\n<body>\n" + body + "\n</body>\n</html>"
}

func hasDoctype(doc string) bool {
	return strings.Contains(strings.ToLower(doc), "<!doctype html")
}

func isHTML(f *models.ProjectFile) bool {
	return strings.HasSuffix(f.Name, ".html") || f.Language == "html"
}

func isCSS(f *models.ProjectFile) bool {
	return strings.HasSuffix(f.Name, ".css") || f.Language == "css"
}

func isJS(f *models.ProjectFile) bool {
	return strings.HasSuffix(f.Name, ".js") || f.Language == "javascript"
}
