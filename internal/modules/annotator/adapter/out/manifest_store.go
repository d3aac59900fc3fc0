package out

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"tasktrail/internal/modules/annotator/domain"
	annotatorout "tasktrail/internal/modules/annotator/port/out"
)

// FileManifestStore reads <data>/plugins/plugins.json. Every entry is
// validated on load so a broken file fails before any binary is launched.
type FileManifestStore struct {
	basePath string
	path     string
}

func NewFileManifestStore(basePath string) annotatorout.ManifestStore {
	return &FileManifestStore{basePath: basePath, path: filepath.Join(basePath, "plugins", "plugins.json")}
}

func (s *FileManifestStore) Load(_ context.Context) ([]domain.Manifest, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []domain.Manifest{}, nil
		}
		return nil, fmt.Errorf("read annotator manifests: %w", err)
	}
	var manifests []domain.Manifest
	decoder := json.NewDecoder(bytes.NewReader(b))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&manifests); err != nil {
		return nil, fmt.Errorf("decode annotator manifests: %w", err)
	}
	seen := make(map[string]int, len(manifests))
	for i := range manifests {
		m := &manifests[i]
		if err := m.Validate(); err != nil {
			return nil, fmt.Errorf("annotator manifest %d (%q): %w", i, m.Name, err)
		}
		if first, ok := seen[m.Name]; ok {
			return nil, fmt.Errorf("annotator manifest %d: name %q already declared by manifest %d", i, m.Name, first)
		}
		seen[m.Name] = i
		// Relative binaries resolve against the data dir.
		if !filepath.IsAbs(m.Binary) {
			m.Binary = filepath.Clean(filepath.Join(s.basePath, m.Binary))
		}
	}
	return manifests, nil
}
