// Package parser extracts project files from raw LLM output.
//
// The input is always the full response text accumulated so far, not the
// newest delta: the caller re-invokes ParseFilesFromResponse on every chunk
// and the parser decides which blocks are complete and which one (at most)
// is still being streamed. Three markup dialects are recognized, in order:
// <file path="..."> tags, <boltAction type="file"> tags, and fenced code
// blocks. Results are keyed by path, so a later dialect silently overwrites
// an earlier one for the same path.
package parser

import (
	"regexp"
	"strings"

	"ingenio_ai_server/internal/types"
)

// ParseResult holds everything extractable from one response snapshot.
// CurrentFile is nil unless the text ends inside an unterminated block.
type ParseResult struct {
	Files       []types.GeneratedFile `json:"files"`
	CurrentFile *types.GeneratedFile  `json:"currentFile"`
}

const (
	fileOpenToken  = "<file"
	fileCloseToken = "</file>"
	fenceToken     = "```"
)

var (
	fileOpenTagRe = regexp.MustCompile(`^<file\s+path=(?:"([^"]*)"|'([^']*)')\s*>`)
	boltActionRe  = regexp.MustCompile(`(?s)<boltAction\s+type="file"\s+filePath=(?:"([^"]*)"|'([^']*)')\s*>(.*?)</boltAction>`)
	fenceRe       = regexp.MustCompile("(?s)```([^\\n]*)\\n(.*?)```")
	fenceAttrRe   = regexp.MustCompile(`(?:filename|title)=["']([^"']+)["']`)
	commentPathRe = regexp.MustCompile(`^(?://|#|<!--)\s*(?:filename:|file:)?\s*(\S+?)\s*(?:-->)?\s*$`)
)

// ParseFilesFromResponse parses the accumulated response text into the set
// of files found so far plus, at most, one still-open file. It is a pure
// function: the same text always yields the same result, and a path never
// appears both in Files and as CurrentFile.
func ParseFilesFromResponse(text string) ParseResult {
	found := newFileSet()

	current := scanFileTags(text, found)
	extractBoltActions(text, found)
	fenceCurrent := extractCodeFences(text, found, current == nil)
	if current == nil {
		current = fenceCurrent
	}
	// A later pass may have closed the path the earlier pass left open.
	if current != nil && found.has(current.Path) {
		current = nil
	}

	return ParseResult{Files: found.list(), CurrentFile: current}
}

// scanFileTags walks the text left to right extracting <file path="...">
// blocks. For every opening tag it compares the position of the next opening
// tag against the next closing tag and resolves one of three cases: the
// block is closed, the block was interrupted by a fresh opening tag, or the
// block runs to the end of the text.
//
// An interrupted block is dropped entirely. Merging it into its successor is
// exactly the failure mode this scan exists to prevent: a truncated
// regeneration emits two back-to-back blocks for the same path, and a single
// greedy regex would fuse both into one corrupted file.
func scanFileTags(text string, found *fileSet) *types.GeneratedFile {
	pos := 0
	for {
		rel := strings.Index(text[pos:], fileOpenToken)
		if rel < 0 {
			return nil
		}
		start := pos + rel

		tag := fileOpenTagRe.FindStringSubmatch(text[start:])
		if tag == nil {
			// Stray "<file" with no usable path attribute. Skip the token
			// and keep scanning.
			pos = start + len(fileOpenToken)
			continue
		}
		path := tag[1]
		if path == "" {
			path = tag[2]
		}
		if path == "" {
			pos = start + len(tag[0])
			continue
		}

		contentStart := start + len(tag[0])
		nextOpen := strings.Index(text[contentStart:], fileOpenToken)
		nextClose := strings.Index(text[contentStart:], fileCloseToken)

		switch {
		case nextClose >= 0 && (nextOpen < 0 || nextClose < nextOpen):
			// Properly terminated block. Later blocks for the same path
			// overwrite earlier ones.
			found.put(types.GeneratedFile{
				Path:      path,
				Type:      GetFileType(path),
				Content:   strings.TrimSpace(text[contentStart : contentStart+nextClose]),
				Completed: true,
			})
			pos = contentStart + nextClose + len(fileCloseToken)
		case nextOpen >= 0:
			// A new block opened before this one closed: discard the
			// truncated block and resume at the fresh opening tag.
			pos = contentStart + nextOpen
		default:
			// Open at end of text: this is the file currently streaming,
			// unless a completed block already claimed the path.
			if found.has(path) {
				return nil
			}
			return &types.GeneratedFile{
				Path:      path,
				Type:      GetFileType(path),
				Content:   strings.TrimSpace(text[contentStart:]),
				Completed: false,
			}
		}
	}
}

// extractBoltActions handles the <boltAction type="file" filePath="...">
// dialect. Only fully closed actions are taken; a truncated trailing action
// is left for the next snapshot.
func extractBoltActions(text string, found *fileSet) {
	for _, m := range boltActionRe.FindAllStringSubmatch(text, -1) {
		path := m[1]
		if path == "" {
			path = m[2]
		}
		if path == "" {
			continue
		}
		found.put(types.GeneratedFile{
			Path:      path,
			Type:      GetFileType(path),
			Content:   strings.TrimSpace(m[3]),
			Completed: true,
		})
	}
}

// extractCodeFences handles fenced code blocks whose header or first line
// names a file. Fences with no discoverable path are explanatory prose and
// are dropped without comment. When allowOpen is set and the text ends
// inside an unterminated fence, that fence becomes the in-progress
// candidate.
func extractCodeFences(text string, found *fileSet, allowOpen bool) *types.GeneratedFile {
	lastEnd := 0
	for _, loc := range fenceRe.FindAllStringSubmatchIndex(text, -1) {
		header := text[loc[2]:loc[3]]
		body := text[loc[4]:loc[5]]
		lastEnd = loc[1]
		if f, ok := fenceFile(header, body, true); ok {
			found.put(f)
		}
	}

	if !allowOpen {
		return nil
	}
	// Anything after the last completed fence that still opens a fence is a
	// block whose closing marker has not arrived yet.
	rel := strings.LastIndex(text[lastEnd:], fenceToken)
	if rel < 0 {
		return nil
	}
	tail := text[lastEnd+rel+len(fenceToken):]
	header, body, _ := strings.Cut(tail, "\n")
	f, ok := fenceFile(header, body, false)
	if !ok || found.has(f.Path) {
		return nil
	}
	return &f
}

// fenceFile resolves a fence's path and type from its header line or, as a
// fallback, from a path-bearing comment on the first line of its body.
func fenceFile(header, body string, completed bool) (types.GeneratedFile, bool) {
	lang, path := splitFenceHeader(header)
	if path == "" {
		first, rest, _ := strings.Cut(body, "\n")
		if m := commentPathRe.FindStringSubmatch(strings.TrimSpace(first)); m != nil && looksLikePath(m[1]) {
			path = m[1]
			body = rest
		}
	}
	if path == "" {
		return types.GeneratedFile{}, false
	}

	fileType := GetFileType(path)
	if lang != "" {
		// An explicit fence language wins over extension inference.
		fileType = normalizeLanguage(lang)
	}
	return types.GeneratedFile{
		Path:      path,
		Type:      fileType,
		Content:   strings.TrimSpace(body),
		Completed: completed,
	}, true
}

// splitFenceHeader picks the language tag and path out of a fence header
// such as `tsx filename="src/App.tsx"` or `ts src/utils/api.ts`.
func splitFenceHeader(header string) (lang, path string) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", ""
	}

	if m := fenceAttrRe.FindStringSubmatch(header); m != nil {
		path = m[1]
	}

	fields := strings.Fields(header)
	if len(fields) > 0 && !strings.ContainsAny(fields[0], "/.=\"'") {
		lang = fields[0]
	}
	if path != "" {
		return lang, path
	}
	for i, tok := range fields {
		if i == 0 && lang != "" {
			continue
		}
		if !looksLikePath(tok) {
			continue
		}
		return lang, tok
	}
	return lang, ""
}

func looksLikePath(tok string) bool {
	return !strings.Contains(tok, "=") && strings.ContainsAny(tok, "/.")
}
