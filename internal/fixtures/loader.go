package fixtures

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/okian/leadboard/internal/domain/model"
)

// LoadFile reads a seed from a YAML (.yaml/.yml) or JSON (.json) file.
// Leads live under "leads" and the snapshot under "metrics". A file without
// a metrics section keeps the built-in snapshot.
func LoadFile(_ context.Context, path string) (Seed, error) {
	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return Seed{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), parser); err != nil {
		return Seed{}, fmt.Errorf("%w: %v", ErrLoadSeed, err)
	}

	seed := Seed{Metrics: Metrics()}
	conf := koanf.UnmarshalConf{Tag: "json"}
	if err := k.UnmarshalWithConf("leads", &seed.Leads, conf); err != nil {
		return Seed{}, fmt.Errorf("%w: leads: %v", ErrLoadSeed, err)
	}
	if k.Exists("metrics") {
		seed.Metrics = model.DashboardMetrics{}
		if err := k.UnmarshalWithConf("metrics", &seed.Metrics, conf); err != nil {
			return Seed{}, fmt.Errorf("%w: metrics: %v", ErrLoadSeed, err)
		}
	}
	if err := Validate(seed); err != nil {
		return Seed{}, err
	}
	return seed, nil
}

// Validate rejects seeds with blank or repeated lead ids.
func Validate(s Seed) error {
	seen := make(map[string]struct{}, len(s.Leads))
	for i, l := range s.Leads {
		if strings.TrimSpace(l.ID) == "" {
			return fmt.Errorf("%w: index %d", ErrEmptyLeadID, i)
		}
		if _, ok := seen[l.ID]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateLeadID, l.ID)
		}
		seen[l.ID] = struct{}{}
	}
	return nil
}
