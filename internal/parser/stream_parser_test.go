package parser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"ingenio_ai_server/internal/types"
)

func TestParseSingleCompletedFile(t *testing.T) {
	result := ParseFilesFromResponse(`<file path="src/App.tsx">
export default function App() {}
</file>`)

	require.Len(t, result.Files, 1)
	require.Nil(t, result.CurrentFile)

	f := result.Files[0]
	require.Equal(t, "src/App.tsx", f.Path)
	require.Equal(t, "export default function App() {}", f.Content)
	require.Equal(t, "typescript", f.Type)
	require.True(t, f.Completed)
}

func TestParseMultipleFilesKeepsOrder(t *testing.T) {
	result := ParseFilesFromResponse(
		`<file path="index.html"><h1>hi</h1></file>` +
			`<file path="styles/main.css">body {}</file>` +
			`<file path="app.js">console.log(1)</file>`)

	require.Len(t, result.Files, 3)
	require.Equal(t, "index.html", result.Files[0].Path)
	require.Equal(t, "styles/main.css", result.Files[1].Path)
	require.Equal(t, "app.js", result.Files[2].Path)
	require.Equal(t, "css", result.Files[1].Type)
	require.Equal(t, "javascript", result.Files[2].Type)
}

func TestParseSingleQuotedPathAttribute(t *testing.T) {
	result := ParseFilesFromResponse(`<file path='src/main.ts'>const x = 1</file>`)

	require.Len(t, result.Files, 1)
	require.Equal(t, "src/main.ts", result.Files[0].Path)
}

func TestUnclosedTailBecomesCurrentFile(t *testing.T) {
	result := ParseFilesFromResponse(
		`<file path="done.css">body {}</file>` +
			`<file path="src/App.tsx">partial content that is still stream`)

	require.Len(t, result.Files, 1)
	require.Equal(t, "done.css", result.Files[0].Path)

	require.NotNil(t, result.CurrentFile)
	require.Equal(t, "src/App.tsx", result.CurrentFile.Path)
	require.False(t, result.CurrentFile.Completed)
	require.Contains(t, result.CurrentFile.Content, "partial")
}

// A truncated regeneration produces two back-to-back blocks for the same
// path. The dropped first block must not leak into the second.
func TestInterruptedBlockIsDiscarded(t *testing.T) {
	result := ParseFilesFromResponse(
		`<file path="src/App.tsx">old truncated half` +
			`<file path="src/App.tsx">fresh version</file>`)

	require.Len(t, result.Files, 1)
	f := result.Files[0]
	require.Equal(t, "src/App.tsx", f.Path)
	require.Equal(t, "fresh version", f.Content)
	require.NotContains(t, f.Content, "old truncated")
	require.NotContains(t, f.Content, "<file path=")
	require.Nil(t, result.CurrentFile)
}

func TestInterruptedBlockDifferentPaths(t *testing.T) {
	result := ParseFilesFromResponse(
		`<file path="a.ts">never closed` +
			`<file path="b.ts">closed fine</file>`)

	require.Len(t, result.Files, 1)
	require.Equal(t, "b.ts", result.Files[0].Path)
	require.Equal(t, "closed fine", result.Files[0].Content)
}

func TestLastWriteWinsOnDuplicatePaths(t *testing.T) {
	result := ParseFilesFromResponse(
		`<file path="t.js">v1</file><file path="t.js">v2</file>`)

	require.Len(t, result.Files, 1)
	require.Equal(t, "v2", result.Files[0].Content)
}

func TestOpenTailForAlreadyCompletedPathIsDropped(t *testing.T) {
	result := ParseFilesFromResponse(
		`<file path="a.ts">done</file><file path="a.ts">regenerating`)

	require.Len(t, result.Files, 1)
	require.Equal(t, "done", result.Files[0].Content)
	require.Nil(t, result.CurrentFile)
}

func TestStrayOpenTokenWithoutPathIsSkipped(t *testing.T) {
	result := ParseFilesFromResponse(
		`some prose <file mentions a tag <file path="real.css">ok</file>`)

	require.Len(t, result.Files, 1)
	require.Equal(t, "real.css", result.Files[0].Path)
	require.Equal(t, "ok", result.Files[0].Content)
}

func TestParseBoltActionBlocks(t *testing.T) {
	result := ParseFilesFromResponse(
		`<boltAction type="file" filePath="src/index.jsx">render()</boltAction>
<boltAction type="file" filePath="package.json">{"name":"app"}</boltAction>`)

	require.Len(t, result.Files, 2)
	require.Equal(t, "src/index.jsx", result.Files[0].Path)
	require.Equal(t, "javascript", result.Files[0].Type)
	require.Equal(t, `{"name":"app"}`, result.Files[1].Content)
	require.True(t, result.Files[0].Completed)
}

func TestFenceWithFilenameAttribute(t *testing.T) {
	result := ParseFilesFromResponse("```ts filename=\"src/x.ts\"\nexport const x = 1\n```")

	require.Len(t, result.Files, 1)
	f := result.Files[0]
	require.Equal(t, "src/x.ts", f.Path)
	require.Equal(t, "typescript", f.Type)
	require.Equal(t, "export const x = 1", f.Content)
	require.True(t, f.Completed)
}

func TestFenceWithTitleAttribute(t *testing.T) {
	result := ParseFilesFromResponse("```css title='styles/app.css'\nbody {}\n```")

	require.Len(t, result.Files, 1)
	require.Equal(t, "styles/app.css", result.Files[0].Path)
}

func TestFenceWithBarePathToken(t *testing.T) {
	result := ParseFilesFromResponse("```tsx src/components/Navbar.tsx\n<nav />\n```")

	require.Len(t, result.Files, 1)
	require.Equal(t, "src/components/Navbar.tsx", result.Files[0].Path)
	require.Equal(t, "typescript", result.Files[0].Type)
}

func TestFencePathFromFirstLineComment(t *testing.T) {
	cases := map[string]string{
		"```js\n// src/utils/api.js\nfetch()\n```":        "src/utils/api.js",
		"```python\n# scripts/build.py\nprint(1)\n```":    "scripts/build.py",
		"```html\n<!-- public/index.html -->\n<html>```":  "public/index.html",
		"```ts\n// filename: src/hooks/use.ts\nhook\n```": "src/hooks/use.ts",
	}
	for input, wantPath := range cases {
		result := ParseFilesFromResponse(input)
		require.Len(t, result.Files, 1, "input %q", input)
		require.Equal(t, wantPath, result.Files[0].Path, "input %q", input)
		// The comment line is markup, not file content.
		require.NotContains(t, result.Files[0].Content, wantPath, "input %q", input)
	}
}

func TestFenceLanguageOverridesExtension(t *testing.T) {
	result := ParseFilesFromResponse("```scss filename=\"theme.config\"\n$primary: blue;\n```")

	require.Len(t, result.Files, 1)
	require.Equal(t, "scss", result.Files[0].Type)
}

func TestPlainFencesAreNotFiles(t *testing.T) {
	result := ParseFilesFromResponse("Run it like this:\n```bash\nnpm install\n```\nand done.")

	require.Empty(t, result.Files)
	require.Nil(t, result.CurrentFile)
}

func TestUnclosedFenceBecomesCurrentFile(t *testing.T) {
	result := ParseFilesFromResponse(
		"```json filename=\"package.json\"\n{\"name\":\"app\"}\n```\n" +
			"```tsx filename=\"src/App.tsx\"\nexport default partial")

	require.Len(t, result.Files, 1)
	require.Equal(t, "package.json", result.Files[0].Path)

	require.NotNil(t, result.CurrentFile)
	require.Equal(t, "src/App.tsx", result.CurrentFile.Path)
	require.False(t, result.CurrentFile.Completed)
	require.Contains(t, result.CurrentFile.Content, "partial")
}

func TestXMLCurrentFileTakesPriorityOverOpenFence(t *testing.T) {
	result := ParseFilesFromResponse(
		"```ts filename=\"fence.ts\"\nfenced partial\n" +
			`<file path="tag.ts">tag partial`)

	require.NotNil(t, result.CurrentFile)
	require.Equal(t, "tag.ts", result.CurrentFile.Path)
}

func TestCurrentFileNeverDuplicatesCompletedPath(t *testing.T) {
	// The path left open by the tag scan is later completed by a fence.
	result := ParseFilesFromResponse(
		"```ts filename=\"src/x.ts\"\nfinal fence version\n```\n" +
			`<file path="src/x.ts">tag still open`)

	require.Len(t, result.Files, 1)
	require.Equal(t, "final fence version", result.Files[0].Content)
	require.Nil(t, result.CurrentFile)
}

func TestParseIsDeterministic(t *testing.T) {
	input := `<file path="a.ts">A</file>` + "```js\n// b.js\nB\n```" + `<file path="c.css">open`
	first := ParseFilesFromResponse(input)
	second := ParseFilesFromResponse(input)
	require.Equal(t, first, second)
}

func TestParseEmptyAndProseOnlyInput(t *testing.T) {
	for _, input := range []string{"", "Sure! Here is your app.", "no markup at all"} {
		result := ParseFilesFromResponse(input)
		require.Empty(t, result.Files)
		require.Nil(t, result.CurrentFile)
	}
}

func TestGetFileType(t *testing.T) {
	cases := map[string]string{
		"a.js":              "javascript",
		"a.jsx":             "javascript",
		"a.ts":              "typescript",
		"src/App.tsx":       "typescript",
		"a.css":             "css",
		"a.scss":            "scss",
		"a.html":            "html",
		"a.json":            "json",
		"README.md":         "markdown",
		"a.xyz":             "text",
		"Makefile":          "text",
		"UPPER.TSX":         "typescript",
		"nested/dir/x.json": "json",
	}
	for path, want := range cases {
		require.Equal(t, want, GetFileType(path), "path %q", path)
		require.Equal(t, GetFileType(path), GetFileType(path), "path %q", path)
	}
}

func TestMergeUpdatesAndPreservesFiles(t *testing.T) {
	previous := []types.GeneratedFile{
		{Path: "A", Content: "v1", Completed: true},
		{Path: "B", Content: "v1", Completed: true},
	}
	next := []types.GeneratedFile{
		{Path: "A", Content: "v2", Completed: true},
	}

	merged := MergeGeneratedFiles(previous, next)
	require.Len(t, merged, 2)
	require.Equal(t, "A", merged[0].Path)
	require.Equal(t, "v2", merged[0].Content)
	require.Equal(t, "B", merged[1].Path)
	require.Equal(t, "v1", merged[1].Content)
}

func TestMergeAppendsNewFilesAfterExisting(t *testing.T) {
	merged := MergeGeneratedFiles(
		[]types.GeneratedFile{{Path: "A", Content: "v1"}},
		[]types.GeneratedFile{{Path: "C", Content: "v1"}, {Path: "D", Content: "v1"}},
	)

	require.Len(t, merged, 3)
	require.Equal(t, "A", merged[0].Path)
	require.Equal(t, "C", merged[1].Path)
	require.Equal(t, "D", merged[2].Path)
}

func TestMergeWithEmptySides(t *testing.T) {
	files := []types.GeneratedFile{{Path: "A", Content: "v1"}}

	require.Equal(t, files, MergeGeneratedFiles(nil, files))
	require.Equal(t, files, MergeGeneratedFiles(files, nil))
	require.Empty(t, MergeGeneratedFiles(nil, nil))
}

func TestMergeCopiesInput(t *testing.T) {
	files := []types.GeneratedFile{{Path: "A", Content: "v1"}}
	merged := MergeGeneratedFiles(nil, files)

	merged[0].Content = "mutated"
	require.Equal(t, "v1", files[0].Content)
}

func TestMergeSkipsEntriesWithoutPath(t *testing.T) {
	merged := MergeGeneratedFiles(
		[]types.GeneratedFile{{Path: "", Content: "junk"}, {Path: "A", Content: "v1"}},
		[]types.GeneratedFile{{Path: "", Content: "more junk"}},
	)

	require.Len(t, merged, 1)
	require.Equal(t, "A", merged[0].Path)
}

// Simulates a stream arriving in chunks: each snapshot re-parses the full
// accumulated text, and the in-progress file graduates to completed once its
// closing tag arrives.
func TestIncrementalSnapshotsConverge(t *testing.T) {
	full := `<file path="index.html"><h1>hi</h1></file><file path="app.js">console.log(1)</file>`

	var last ParseResult
	for i := 10; i <= len(full); i += 7 {
		last = ParseFilesFromResponse(full[:i])
		for _, f := range last.Files {
			require.True(t, f.Completed)
		}
		if last.CurrentFile != nil {
			require.False(t, last.CurrentFile.Completed)
		}
	}

	final := ParseFilesFromResponse(full)
	require.Len(t, final.Files, 2)
	require.Nil(t, final.CurrentFile)
}
