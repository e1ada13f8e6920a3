package stage

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/aescanero/blockqueue/pkg/adapters/actor/walker"
	"github.com/aescanero/blockqueue/pkg/domain"
)

// DefaultMap is used when a stage file sets no map
var DefaultMap = []string{
	"#####",
	"#.G.#",
	"#...#",
	"#.^.#",
	"#.S.#",
	"#####",
}

// Stage describes one puzzle
type Stage struct {
	ID        string      `yaml:"id"`
	Name      string      `yaml:"name"`
	Grid      GridSpec    `yaml:"grid"`
	Inventory []string    `yaml:"inventory"`
	Map       []string    `yaml:"map"`
	Plan      []Placement `yaml:"plan"`
}

// GridSpec holds grid dimensions, zero means keep the configured value
type GridSpec struct {
	Columns int `yaml:"columns"`
	Rows    int `yaml:"rows"`
}

// Placement drops the first inventory token of Kind into Column
type Placement struct {
	Kind   string `yaml:"kind"`
	Column int    `yaml:"column"`
}

// Step is a parsed Placement
type Step struct {
	Kind   domain.Kind
	Column int
}

// Load reads and validates a stage file
func Load(path string) (*Stage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read stage file %s: %w", path, err)
	}

	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("invalid stage file %s: %w", path, err)
	}
	return s, nil
}

// Parse decodes and validates a stage document
func Parse(data []byte) (*Stage, error) {
	var s Stage
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse stage YAML: %w", err)
	}

	applyDefaults(&s)

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Default returns the stage used when no file is configured
func Default() *Stage {
	s := &Stage{}
	applyDefaults(s)
	return s
}

func applyDefaults(s *Stage) {
	if s.ID == "" {
		s.ID = "default"
	}
	if s.Name == "" {
		s.Name = s.ID
	}
	if len(s.Map) == 0 {
		s.Map = append([]string(nil), DefaultMap...)
	}
}

// Validate checks the stage for consistency
func (s *Stage) Validate() error {
	if s.Grid.Columns < 0 || s.Grid.Rows < 0 {
		return fmt.Errorf("grid dimensions must not be negative")
	}

	if _, err := walker.ParseMap(s.Map); err != nil {
		return fmt.Errorf("invalid map: %w", err)
	}

	kinds, err := s.Kinds()
	if err != nil {
		return fmt.Errorf("invalid inventory: %w", err)
	}

	steps, err := s.Steps()
	if err != nil {
		return err
	}

	available := make(map[domain.Kind]int)
	for _, k := range kinds {
		available[k]++
	}
	for i, st := range steps {
		if st.Column < 0 || (s.Grid.Columns > 0 && st.Column >= s.Grid.Columns) {
			return fmt.Errorf("plan step %d: column %d outside grid", i, st.Column)
		}
		if len(kinds) > 0 {
			if available[st.Kind] == 0 {
				return fmt.Errorf("plan step %d: no %s token left in inventory", i, st.Kind)
			}
			available[st.Kind]--
		}
	}

	return nil
}

// Kinds parses the inventory templates, nil if the stage sets none
func (s *Stage) Kinds() ([]domain.Kind, error) {
	if len(s.Inventory) == 0 {
		return nil, nil
	}
	return domain.ParseKinds(s.Inventory)
}

// Steps parses the placement plan
func (s *Stage) Steps() ([]Step, error) {
	steps := make([]Step, 0, len(s.Plan))
	for i, p := range s.Plan {
		k, err := domain.ParseKind(p.Kind)
		if err != nil {
			return nil, fmt.Errorf("plan step %d: %w", i, err)
		}
		steps = append(steps, Step{Kind: k, Column: p.Column})
	}
	return steps, nil
}

// TileMap parses the walker map
func (s *Stage) TileMap() (*walker.Map, error) {
	return walker.ParseMap(s.Map)
}
