package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/tailscale/hujson"
	"gopkg.in/yaml.v3"

	"estate_browser/models"
)

// SeedFile is the on-disk layout of mock listing data
type SeedFile struct {
	Properties []models.Property      `json:"properties" yaml:"properties"`
	Saved      []models.SavedProperty `json:"saved" yaml:"saved"`
}

// LoadSeedFile reads listings from YAML, JSON or JSON with comments (.jsonc).
func LoadSeedFile(path string) (*SeedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var seed SeedFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &seed); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".json", ".jsonc":
		std, err := hujson.Standardize(data)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		if err := json.Unmarshal(std, &seed); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported seed format %q", filepath.Ext(path))
	}

	for i := range seed.Properties {
		if err := seed.Properties[i].Validate(); err != nil {
			return nil, fmt.Errorf("%s: property %d: %w", path, i, err)
		}
	}
	return &seed, nil
}

// StaticStore keeps the listing store in memory. It backs the mock-data mode
// and tests; writes are not persisted.
type StaticStore struct {
	mu         sync.RWMutex
	properties []models.Property
}

func NewStaticStore(properties []models.Property) *StaticStore {
	return &StaticStore{properties: slices.Clone(properties)}
}

func (s *StaticStore) ListProperties(ctx context.Context) ([]models.Property, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Property, len(s.properties))
	copy(out, s.properties)
	return out, nil
}

func (s *StaticStore) GetProperty(ctx context.Context, id string) (*models.Property, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		p := s.properties[i]
		return &p, nil
	}
	return nil, nil
}

func (s *StaticStore) UpsertProperty(ctx context.Context, p *models.Property) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(p.ID); i >= 0 {
		s.properties[i] = *p
		return nil
	}
	s.properties = append(s.properties, *p)
	return nil
}

func (s *StaticStore) DeleteProperty(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("property %s: %w", id, models.ErrNotFound)
	}
	s.properties = slices.Delete(s.properties, i, i+1)
	return nil
}

func (s *StaticStore) indexOf(id string) int {
	return slices.IndexFunc(s.properties, func(p models.Property) bool { return p.ID == id })
}
