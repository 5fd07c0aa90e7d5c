// Package model loads the regression artifact used for score prediction.
//
// The artifact is a YAML description of a fitted linear pipeline: categorical
// columns are one-hot encoded (values outside the fitted categories encode
// to all zeros), numeric columns are optionally standardised, and the
// prediction is the intercept plus the weighted sum of the encoded row.
package model

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"os"
	"slices"

	"github.com/okian/scorecast/internal/domain/prediction"
	"gopkg.in/yaml.v3"
)

// KindLinear is the only supported artifact kind.
const KindLinear = "linear"

type artifact struct {
	Name        string            `yaml:"name"`
	Version     string            `yaml:"version"`
	Kind        string            `yaml:"kind"`
	Target      string            `yaml:"target"`
	Intercept   float64           `yaml:"intercept"`
	Features    []string          `yaml:"features"`
	Categorical []categoricalSpec `yaml:"categorical"`
	Numeric     []numericSpec     `yaml:"numeric"`
}

type categoricalSpec struct {
	Name       string    `yaml:"name"`
	Categories []string  `yaml:"categories"`
	Weights    []float64 `yaml:"weights"`
}

type numericSpec struct {
	Name   string  `yaml:"name"`
	Weight float64 `yaml:"weight"`
	Mean   float64 `yaml:"mean"`
	Scale  float64 `yaml:"scale"`
}

// Info describes a loaded artifact.
type Info struct {
	Name     string   `json:"name"`
	Version  string   `json:"version"`
	Target   string   `json:"target"`
	Features []string `json:"features"`
}

type column struct {
	categorical bool
	categories  []string
	weights     map[string]float64
	weight      float64
	mean        float64
	scale       float64
}

// Linear is a loaded linear pipeline. It is immutable after loading and safe
// for concurrent use.
type Linear struct {
	info      Info
	intercept float64
	columns   map[string]column
}

// Load reads and parses the artifact at path.
func Load(ctx context.Context, path string) (*Linear, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadModel, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadModel, err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Parse decodes an artifact from YAML. Unknown keys are rejected.
func Parse(data []byte) (*Linear, error) {
	var a artifact
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&a); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadModel, err)
	}
	return build(a)
}

func build(a artifact) (*Linear, error) {
	if a.Kind != KindLinear {
		return nil, fmt.Errorf("%w: unsupported kind %q", ErrInvalidModel, a.Kind)
	}
	if len(a.Features) == 0 {
		return nil, fmt.Errorf("%w: no features", ErrInvalidModel)
	}
	if !finite(a.Intercept) {
		return nil, fmt.Errorf("%w: intercept is not finite", ErrInvalidModel)
	}

	columns := make(map[string]column, len(a.Features))
	declare := func(name string, c column) error {
		if name == "" {
			return fmt.Errorf("%w: column without a name", ErrInvalidModel)
		}
		if _, dup := columns[name]; dup {
			return fmt.Errorf("%w: column %q declared twice", ErrInvalidModel, name)
		}
		columns[name] = c
		return nil
	}

	for _, def := range a.Categorical {
		if len(def.Categories) != len(def.Weights) {
			return nil, fmt.Errorf("%w: column %q has %d categories and %d weights",
				ErrInvalidModel, def.Name, len(def.Categories), len(def.Weights))
		}
		c := column{
			categorical: true,
			categories:  slices.Clone(def.Categories),
			weights:     make(map[string]float64, len(def.Categories)),
		}
		for i, cat := range def.Categories {
			if _, dup := c.weights[cat]; dup {
				return nil, fmt.Errorf("%w: column %q repeats category %q", ErrInvalidModel, def.Name, cat)
			}
			if !finite(def.Weights[i]) {
				return nil, fmt.Errorf("%w: column %q category %q has a non-finite weight", ErrInvalidModel, def.Name, cat)
			}
			c.weights[cat] = def.Weights[i]
		}
		if err := declare(def.Name, c); err != nil {
			return nil, err
		}
	}

	for _, def := range a.Numeric {
		if !finite(def.Weight) || !finite(def.Mean) || !finite(def.Scale) || def.Scale < 0 {
			return nil, fmt.Errorf("%w: column %q has invalid coefficients", ErrInvalidModel, def.Name)
		}
		c := column{weight: def.Weight, mean: def.Mean, scale: def.Scale}
		if err := declare(def.Name, c); err != nil {
			return nil, err
		}
	}

	seen := make(map[string]struct{}, len(a.Features))
	for _, f := range a.Features {
		if _, dup := seen[f]; dup {
			return nil, fmt.Errorf("%w: feature %q listed twice", ErrInvalidModel, f)
		}
		seen[f] = struct{}{}
		if _, ok := columns[f]; !ok {
			return nil, fmt.Errorf("%w: feature %q has no coefficients", ErrInvalidModel, f)
		}
	}
	if len(columns) != len(a.Features) {
		return nil, fmt.Errorf("%w: %d columns declared but %d features listed",
			ErrInvalidModel, len(columns), len(a.Features))
	}

	return &Linear{
		info: Info{
			Name:     a.Name,
			Version:  a.Version,
			Target:   a.Target,
			Features: slices.Clone(a.Features),
		},
		intercept: a.Intercept,
		columns:   columns,
	}, nil
}

// Info returns the artifact's metadata.
func (m *Linear) Info() Info {
	info := m.info
	info.Features = slices.Clone(m.info.Features)
	return info
}

// KnownCategories returns the fitted categories of a categorical column, or
// nil when field is not categorical.
func (m *Linear) KnownCategories(field string) []string {
	c, ok := m.columns[field]
	if !ok || !c.categorical {
		return nil
	}
	return slices.Clone(c.categories)
}

// Predict scores every row. A row whose columns differ in name, order or
// type from the fitted features fails the whole batch.
func (m *Linear) Predict(ctx context.Context, rows []prediction.Record) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]float64, len(rows))
	for i, rec := range rows {
		v, err := m.score(rec.Row())
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

func (m *Linear) score(cells []prediction.Cell) (float64, error) {
	features := m.info.Features
	if len(cells) != len(features) {
		return 0, fmt.Errorf("%w: expected %d columns, got %d", ErrSchemaMismatch, len(features), len(cells))
	}
	sum := m.intercept
	for i, cell := range cells {
		if cell.Name != features[i] {
			return 0, fmt.Errorf("%w: column %d is %q, expected %q", ErrSchemaMismatch, i, cell.Name, features[i])
		}
		c := m.columns[cell.Name]
		if c.categorical != cell.Categorical {
			return 0, fmt.Errorf("%w: column %q has the wrong type", ErrSchemaMismatch, cell.Name)
		}
		if c.categorical {
			sum += c.weights[cell.Text]
			continue
		}
		x := cell.Number - c.mean
		if c.scale > 0 {
			x /= c.scale
		}
		sum += c.weight * x
	}
	return sum, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
