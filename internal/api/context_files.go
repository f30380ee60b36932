package api

import (
	"fmt"
	"strings"

	"ingenio_ai_server/internal/types"
)

// renderContextFiles lays out the existing project files as the context
// block fed back to the model during a refinement round.
func renderContextFiles(files []types.GeneratedFile) string {
	var b strings.Builder
	for _, f := range files {
		fmt.Fprintf(&b, "<file path=%q>\n%s\n</file>\n", f.Path, f.Content)
	}
	return b.String()
}
