package catalog

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/MikeSquared-Agency/Pledge/internal/allocation"
)

// FileSource reads the catalog from a YAML document of the form
//
//	categories:
//	  - id: flood
//	    name: Flood Relief
//	    urgency: high
//	    base_impact_score: 92
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

type fileDocument struct {
	Categories []allocation.Category `yaml:"categories"`
}

func (s *FileSource) Categories(_ context.Context) ([]allocation.Category, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return ParseYAML(data)
}

// ParseYAML decodes and validates a catalog document.
func ParseYAML(data []byte) ([]allocation.Category, error) {
	var doc fileDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if err := allocation.ValidateCatalog(doc.Categories); err != nil {
		return nil, err
	}
	return doc.Categories, nil
}
