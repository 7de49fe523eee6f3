package preview_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"sparrow-backend/internal/models"
	"sparrow-backend/internal/preview"
)

func files(pairs ...string) []models.ProjectFile {
	var out []models.ProjectFile
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, models.ProjectFile{Name: pairs[i], Content: pairs[i+1]})
	}
	return out
}

func TestAssemble_NoHTMLIsEmpty(t *testing.T) {
	got := preview.Assemble(files("styles.css", "a{}", "script.js", "x()"), preview.ForEditor())
	assert.Equal(t, "", got)
}

func TestAssemble_FullDocumentWithoutAssetsIsUnchanged(t *testing.T) {
	page := "<!DOCTYPE html><html><body>Hi</body></html>"
	assert.Equal(t, page, preview.Assemble(files("index.html", page), preview.ForEditor()))
}

func TestAssemble_InlinesStylesAndScripts(t *testing.T) {
	page := "<!DOCTYPE html>\n<html><head><title>t</title></head><body><p>x</p></body></html>"
	got := preview.Assemble(files(
		"index.html", page,
		"styles.css", "a{color:red}",
		"theme.css", "b{color:blue}",
		"script.js", "one()",
		"extra.js", "two()",
	), preview.ForEditor())

	assert.Equal(t, 1, strings.Count(got, "<style>"))
	assert.Equal(t, 1, strings.Count(got, "<script>"))
	assert.Contains(t, got, "<style>\na{color:red}\nb{color:blue}\n</style>\n</head>")
	assert.Contains(t, got, "<script>\none()\ntwo()\n</script>\n</body>")
	assert.Less(t, strings.Index(got, "<style>"), strings.Index(got, "</head>"))
	assert.NotContains(t, got, "sparrow-label")
}

func TestAssemble_HeadWithoutCloseTag(t *testing.T) {
	page := "<!DOCTYPE html><html><head><body>x</body></html>"
	got := preview.Assemble(files("index.html", page, "a.css", "p{}"), preview.ForEditor())
	assert.Contains(t, got, "<head>\n<style>\np{}\n</style>")
}

func TestAssemble_ScriptAppendedWithoutBody(t *testing.T) {
	page := "<!DOCTYPE html><p>x</p>"
	got := preview.Assemble(files("index.html", page, "a.js", "go()"), preview.ForEditor())
	assert.True(t, strings.HasSuffix(got, "<p>x</p>\n<script>\ngo()\n</script>"))
}

func TestAssemble_WrapsFragments(t *testing.T) {
	got := preview.Assemble(files("index.html", "<h1>Hello</h1>"), preview.ForEditor())
	assert.True(t, strings.HasPrefix(got, "<!DOCTYPE html>"))
	assert.Contains(t, got, `<meta charset="UTF-8">`)
	assert.Contains(t, got, `<meta name="viewport"`)
	assert.Contains(t, got, "<title>Sparrow Preview</title>")
	assert.Contains(t, got, "<body>\n<h1>Hello</h1>\n</body>")
}

func TestAssemble_DeployAddsAttribution(t *testing.T) {
	got := preview.Assemble(files("index.html", "<h1>Hello</h1>", "s.js", "x()"), preview.ForDeploy())
	assert.Contains(t, got, "<title>Deployed by Sparrow</title>")
	assert.Contains(t, got, `id="sparrow-label"`)
	assert.Contains(t, got, "Made by <strong>Sparrow</strong>")
	assert.Less(t, strings.Index(got, "<script>"), strings.Index(got, "sparrow-label"))
	assert.Less(t, strings.Index(got, "sparrow-label"), strings.Index(got, "</body>"))
}

func TestAssemble_FirstHTMLFileWins(t *testing.T) {
	got := preview.Assemble(files(
		"index.html", "<!DOCTYPE html><p>home</p>",
		"about.html", "<!DOCTYPE html><p>about</p>",
	), preview.ForEditor())
	assert.Contains(t, got, "home")
	assert.NotContains(t, got, "about")
}

func TestAssemble_LanguageFieldCounts(t *testing.T) {
	in := []models.ProjectFile{
		{Name: "page", Language: "html", Content: "<!DOCTYPE html><body></body>"},
		{Name: "app", Language: "javascript", Content: "run()"},
	}
	got := preview.Assemble(in, preview.ForEditor())
	assert.Contains(t, got, "<script>\nrun()\n</script>\n</body>")
}

func TestAssemble_Deterministic(t *testing.T) {
	in := files("index.html", "<p>a</p>", "a.css", "x{}", "b.js", "y()")
	first := preview.Assemble(in, preview.ForDeploy())
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, preview.Assemble(in, preview.ForDeploy()))
	}
	assert.Equal(t, preview.ETag(first), preview.ETag(preview.Assemble(in, preview.ForDeploy())))
	assert.NotEqual(t, preview.ETag(first), preview.ETag(preview.Assemble(in, preview.ForEditor())))
}

func TestAssemble_StylesWithoutHeadKeepDoctypeFirst(t *testing.T) {
	page := "<!DOCTYPE html><html><body>Hi</body></html>"
	got := preview.Assemble(files("index.html", page, "styles.css", "p{color:red}"), preview.ForEditor())
	assert.True(t, strings.HasPrefix(got, "<!DOCTYPE html><html>"), got)
	assert.Equal(t,
		"<!DOCTYPE html><html>\n<head>\n<style>\np{color:red}\n</style>\n</head><body>Hi</body></html>",
		got)
}

func TestAssemble_StylesWithoutHTMLTag(t *testing.T) {
	page := "<!doctype html>\n<body><header>top</header></body>"
	got := preview.Assemble(files("index.html", page, "a.css", "p{}"), preview.ForEditor())
	assert.True(t, strings.HasPrefix(got, "<!doctype html>\n<head>\n<style>\np{}\n</style>\n</head>"), got)
	assert.Contains(t, got, "<header>top</header>")
}

func TestAssemble_TagsMatchInAnyCase(t *testing.T) {
	page := `<!DOCTYPE HTML><HTML lang="en"><HEAD><TITLE>t</TITLE></HEAD><BODY>x</BODY></HTML>`
	got := preview.Assemble(files("index.html", page, "a.css", "p{}", "a.js", "go()"), preview.ForDeploy())
	assert.True(t, strings.HasPrefix(got, "<!DOCTYPE HTML>"))
	assert.Contains(t, got, "<style>\np{}\n</style>\n</HEAD>")
	assert.Contains(t, got, "<script>\ngo()\n</script>\n")
	assert.Less(t, strings.Index(got, "sparrow-label"), strings.Index(got, "</BODY>"))
	assert.Equal(t, 1, strings.Count(got, "<style>"))
}

func TestAssemble_HeadWithAttributes(t *testing.T) {
	page := `<!DOCTYPE html><html><head data-x="1"><body>x</body></html>`
	got := preview.Assemble(files("index.html", page, "a.css", "p{}"), preview.ForEditor())
	assert.Contains(t, got, `<head data-x="1">`+"\n<style>\np{}\n</style><body>")
}
