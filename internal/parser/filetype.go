package parser

import (
	"path/filepath"
	"strings"
)

// GetFileType maps a file path to a language tag by extension. Unknown or
// missing extensions fall back to "text".
func GetFileType(path string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch ext {
	case "js", "jsx":
		return "javascript"
	case "ts", "tsx":
		return "typescript"
	case "css":
		return "css"
	case "scss":
		return "scss"
	case "html":
		return "html"
	case "json":
		return "json"
	case "md":
		return "markdown"
	default:
		return "text"
	}
}

// normalizeLanguage reconciles fence language tags with the tags GetFileType
// produces, so ```ts and a .ts extension agree.
func normalizeLanguage(lang string) string {
	switch l := strings.ToLower(lang); l {
	case "js", "jsx", "javascript":
		return "javascript"
	case "ts", "tsx", "typescript":
		return "typescript"
	case "md", "markdown":
		return "markdown"
	case "htm", "html":
		return "html"
	default:
		return l
	}
}
