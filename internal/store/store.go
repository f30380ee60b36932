// Package store persists generated file sets on disk, one directory per
// project, so a finished generation survives a server restart and can be
// served back to the preview UI.
package store

import (
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"ingenio_ai_server/internal/parser"
	"ingenio_ai_server/internal/types"
)

type ProjectStore struct {
	root string
}

func NewProjectStore(root string) *ProjectStore {
	return &ProjectStore{root: root}
}

// Save writes every file of the set under root/projectID, creating
// subdirectories as needed. Files whose path would escape the project
// directory are skipped with a warning.
func (s *ProjectStore) Save(projectID string, files []types.GeneratedFile) error {
	projectDir := filepath.Join(s.root, projectID)
	if err := os.MkdirAll(projectDir, 0755); err != nil {
		return fmt.Errorf("failed to create project dir: %w", err)
	}

	saved := 0
	for _, f := range files {
		if f.Path == "" {
			continue
		}
		target := filepath.Join(projectDir, filepath.FromSlash(f.Path))
		rel, err := filepath.Rel(projectDir, target)
		if err != nil || strings.HasPrefix(rel, "..") {
			log.Printf("WARN: Skipping file with path escaping project dir: %s", f.Path)
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return fmt.Errorf("failed to create subdirectories for %s: %w", f.Path, err)
		}
		if err := os.WriteFile(target, []byte(f.Content), 0644); err != nil {
			return fmt.Errorf("failed to write file %s: %w", f.Path, err)
		}
		saved++
	}

	log.Printf("Stored project %s: %d files written.", projectID, saved)
	if saved != len(files) {
		log.Printf("WARN: Mismatch between parsed files (%d) and stored files (%d) for project %s.", len(files), saved, projectID)
	}
	return nil
}

// Load reads a project's files back. Types are re-inferred from extensions.
func (s *ProjectStore) Load(projectID string) ([]types.GeneratedFile, error) {
	projectDir := filepath.Join(s.root, projectID)
	if _, err := os.Stat(projectDir); err != nil {
		return nil, fmt.Errorf("project %s not found: %w", projectID, err)
	}

	var files []types.GeneratedFile
	err := filepath.WalkDir(projectDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(projectDir, path)
		if err != nil {
			return err
		}
		relPath := filepath.ToSlash(rel)
		files = append(files, types.GeneratedFile{
			Path:      relPath,
			Type:      parser.GetFileType(relPath),
			Content:   string(content),
			Completed: true,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read project %s: %w", projectID, err)
	}
	return files, nil
}

// List returns the IDs of all stored projects.
func (s *ProjectStore) List() ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	var ids []string
	for _, e := range entries {
		if e.IsDir() {
			ids = append(ids, e.Name())
		}
	}
	return ids, nil
}
