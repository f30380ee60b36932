package parser

import "ingenio_ai_server/internal/types"

// MergeGeneratedFiles combines a previously accumulated file list with the
// files parsed from a newer generation round. Refinement rounds usually
// return only the files they changed, so files missing from next are kept
// rather than dropped. Order is first-seen across previous then next; for a
// path present in both, next wins. Entries without a path are ignored.
func MergeGeneratedFiles(previous, next []types.GeneratedFile) []types.GeneratedFile {
	merged := newFileSet()
	for _, f := range previous {
		if f.Path == "" {
			continue
		}
		merged.put(f)
	}
	for _, f := range next {
		if f.Path == "" {
			continue
		}
		merged.put(f)
	}
	return merged.list()
}

// fileSet is an insertion-order-preserving map of files keyed by path.
// Re-putting a path overwrites the value but keeps the original position.
type fileSet struct {
	order  []string
	byPath map[string]types.GeneratedFile
}

func newFileSet() *fileSet {
	return &fileSet{byPath: make(map[string]types.GeneratedFile)}
}

func (s *fileSet) put(f types.GeneratedFile) {
	if _, ok := s.byPath[f.Path]; !ok {
		s.order = append(s.order, f.Path)
	}
	s.byPath[f.Path] = f
}

func (s *fileSet) has(path string) bool {
	_, ok := s.byPath[path]
	return ok
}

func (s *fileSet) list() []types.GeneratedFile {
	out := make([]types.GeneratedFile, 0, len(s.order))
	for _, p := range s.order {
		out = append(out, s.byPath[p])
	}
	return out
}
