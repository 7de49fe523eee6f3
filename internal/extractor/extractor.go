// Package extractor pulls an intended file list, fenced code blocks and the
// remaining prose out of a model reply.
//
// Blocks are resolved to filenames with explicit annotations only: a block
// carrying file="name" goes to that name, every other block gets a name
// inferred from its own content and language tag. Blocks are never bucketed
// by type and concatenated.
package extractor

import (
	"regexp"
	"strings"

	"sparrow-backend/internal/models"
)

// FallbackNarrative is returned by Narrative when nothing but code was sent.
const FallbackNarrative = "Complete web application has been generated with HTML, CSS, and JavaScript! Check the Code tab to see all files and the Preview tab to see your app in action."

var (
	structureHeadingRe = regexp.MustCompile(`(?i)##?\s*File\s*Structure`)
	codeFilesHeadingRe = regexp.MustCompile(`(?i)##?\s*Code\s*Files`)
	structureItemRe    = regexp.MustCompile(`(?i)[-*]\s*([a-zA-Z0-9._-]+\.(?:html|css|js|javascript|json|txt))\b`)

	// opening fence, optional language, optional file annotation, newline
	fenceHeaderRe = regexp.MustCompile("```(\\w+)?[ \\t]*(?:file[=:]?[ \\t]*[\"']?([^\"'\\n]+?)[\"']?)?[ \\t]*\\r?\\n")
	fenceBlockRe  = regexp.MustCompile("(?s)```(\\w+)?[ \\t]*(?:file[=:]?[ \\t]*[\"']?([^\"'\\n]+?)[\"']?)?[ \\t]*\\r?\\n(.*?)```")
	anyFenceRe    = regexp.MustCompile("(?s)```.*?```")
	blankRunRe    = regexp.MustCompile(`\n\s*\n\s*\n`)
	htmlRootRe    = regexp.MustCompile(`(?i)<!doctype\s+html|<html[\s>]`)
)

var extensions = map[string]string{
	"html":       "html",
	"css":        "css",
	"javascript": "js",
	"js":         "js",
	"typescript": "ts",
	"ts":         "ts",
	"jsx":        "jsx",
	"tsx":        "tsx",
	"json":       "json",
	"python":     "py",
	"java":       "java",
	"cpp":        "cpp",
	"c":          "c",
}

// Result is everything one reply yields.
type Result struct {
	Filenames []string
	Blocks    []models.CodeBlock
	Narrative string
}

// Extract runs the three extraction passes over text.
func Extract(text string) Result {
	return Result{
		Filenames: FileStructure(text),
		Blocks:    CodeBlocks(text),
		Narrative: Narrative(text),
	}
}

// FileStructure returns the filenames the reply announces, with the canonical
// files appended when missing.
func FileStructure(text string) []string {
	var files []string
	seen := make(map[string]bool)
	add := func(name string) {
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		files = append(files, name)
	}

	if section, ok := headingSection(text, structureHeadingRe); ok {
		for _, m := range structureItemRe.FindAllStringSubmatch(section, -1) {
			add(m[1])
		}
	}

	if len(files) == 0 {
		for _, m := range fenceHeaderRe.FindAllStringSubmatch(text, -1) {
			add(cleanFilename(m[2]))
		}
	}

	for _, name := range models.CanonicalFiles {
		add(name)
	}
	return files
}

// CodeBlocks returns every non-empty fenced block in order of appearance.
func CodeBlocks(text string) []models.CodeBlock {
	var blocks []models.CodeBlock
	for _, m := range fenceBlockRe.FindAllStringSubmatch(text, -1) {
		body := strings.TrimSpace(m[3])
		if body == "" {
			continue
		}
		lang := strings.ToLower(m[1])
		filename := cleanFilename(m[2])
		if filename == "" {
			filename = InferFilename(lang, body)
		}
		blocks = append(blocks, models.CodeBlock{
			Language: lang,
			Filename: filename,
			Content:  body,
		})
	}
	return blocks
}

// InferFilename names a block that carries no file annotation.
func InferFilename(lang, body string) string {
	switch {
	case htmlRootRe.MatchString(body):
		return models.IndexHTML
	case lang == "css":
		return models.StylesCSS
	case lang == "javascript" || lang == "js":
		return models.ScriptJS
	}
	return "untitled." + Extension(lang)
}

// Extension maps a fence language tag to a file extension; unknown tags map to txt.
func Extension(lang string) string {
	if ext, ok := extensions[strings.ToLower(lang)]; ok {
		return ext
	}
	return "txt"
}

// Narrative is the human readable part of the reply.
func Narrative(text string) string {
	out := anyFenceRe.ReplaceAllString(text, "")
	out = removeSection(out, structureHeadingRe)
	out = removeSection(out, codeFilesHeadingRe)
	out = blankRunRe.ReplaceAllString(out, "\n\n")
	out = strings.TrimSpace(out)
	if out == "" {
		return FallbackNarrative
	}
	return out
}

// headingSection returns the text from the first heading match up to the next
// "##" or the end of text.
func headingSection(text string, heading *regexp.Regexp) (string, bool) {
	loc := heading.FindStringIndex(text)
	if loc == nil {
		return "", false
	}
	end := len(text)
	if i := strings.Index(text[loc[1]:], "##"); i >= 0 {
		end = loc[1] + i
	}
	return text[loc[0]:end], true
}

func removeSection(text string, heading *regexp.Regexp) string {
	loc := heading.FindStringIndex(text)
	if loc == nil {
		return text
	}
	end := len(text)
	if i := strings.Index(text[loc[1]:], "##"); i >= 0 {
		end = loc[1] + i
	}
	return text[:loc[0]] + text[end:]
}

func cleanFilename(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, `"'`)
	return strings.TrimSpace(s)
}
