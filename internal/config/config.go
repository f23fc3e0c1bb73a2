package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/liqdesk/spread-revenue/pkg/model"
)

//go:embed defaults.yaml
var defaultCatalog []byte

// Instrument is one traded market segment: its per-lot notional value, the
// histogram file backing it (empty means the embedded distribution) and the
// ladder it starts from before the analyst edits anything.
type Instrument struct {
	Symbol        string       `yaml:"symbol" json:"symbol"`
	UnitNotional  float64      `yaml:"unit_notional" json:"unitNotional"`
	HistogramCSV  string       `yaml:"histogram_csv" json:"histogramCsv,omitempty"`
	DefaultLadder model.Ladder `yaml:"default_ladder" json:"defaultLadder"`
}

type Catalog struct {
	Instruments []Instrument `yaml:"instruments"`
}

// Load reads the instrument catalog from path, or the embedded defaults when
// path is empty. All inputs reach the engine as explicit parameters from
// here on; nothing is fetched from ambient state at computation time.
func Load(path string) (*Catalog, error) {
	raw := defaultCatalog
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading instrument catalog: %w", err)
		}
		raw = b
	}

	var c Catalog
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parsing instrument catalog: %w", err)
	}
	if len(c.Instruments) == 0 {
		return nil, fmt.Errorf("instrument catalog is empty")
	}
	for _, inst := range c.Instruments {
		if inst.Symbol == "" {
			return nil, fmt.Errorf("instrument with empty symbol")
		}
		if inst.UnitNotional < 0 {
			return nil, fmt.Errorf("instrument %s: unit_notional must not be negative", inst.Symbol)
		}
	}
	return &c, nil
}

// Get returns the instrument with the given symbol.
func (c *Catalog) Get(symbol string) (Instrument, bool) {
	for _, inst := range c.Instruments {
		if inst.Symbol == symbol {
			return inst, true
		}
	}
	return Instrument{}, false
}
