// Package experiment loads HCL experiment definitions and turns them into
// validated evolution configurations.
package experiment

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/evopoker/internal/evolve"
)

// File is the top-level HCL document: one or more named experiment blocks.
type File struct {
	Experiments []Experiment `hcl:"experiment,block"`
}

// Experiment defines one evolution run.
//
//	experiment "kuhn4" {
//	  ranks             = 4
//	  bet_max           = 10
//	  bet_step          = 2
//	  ante              = 2
//	  population        = 40
//	  generations       = 200
//	  parent_proportion = 0.4
//	  mutation_rate     = 0.05
//	  seed              = 1
//	}
type Experiment struct {
	Name string `hcl:"name,label"`

	Ranks   int     `hcl:"ranks"`
	BetMin  float64 `hcl:"bet_min,optional"`
	BetMax  float64 `hcl:"bet_max"`
	BetStep float64 `hcl:"bet_step"`
	Ante    float64 `hcl:"ante"`

	Population       int     `hcl:"population"`
	Generations      int     `hcl:"generations"`
	ParentProportion float64 `hcl:"parent_proportion,optional"`
	MutationRate     float64 `hcl:"mutation_rate,optional"`
	Seed             int64   `hcl:"seed,optional"`
	Workers          int     `hcl:"workers,optional"`
}

// Load parses an experiment file from disk.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read experiment file: %w", err)
	}
	return Parse(data, path)
}

// Parse decodes experiment HCL and applies defaults for optional fields.
func Parse(data []byte, filename string) (*File, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parse %s: %s", filename, diags.Error())
	}

	var file File
	diags = gohcl.DecodeBody(hclFile.Body, nil, &file)
	if diags.HasErrors() {
		return nil, fmt.Errorf("decode %s: %s", filename, diags.Error())
	}
	if len(file.Experiments) == 0 {
		return nil, fmt.Errorf("%s defines no experiments", filename)
	}

	for i := range file.Experiments {
		file.Experiments[i].applyDefaults()
	}
	return &file, nil
}

func (e *Experiment) applyDefaults() {
	if e.ParentProportion == 0 {
		e.ParentProportion = 0.5
	}
	if e.MutationRate == 0 {
		e.MutationRate = 0.05
	}
	if e.Seed == 0 {
		e.Seed = 1
	}
}

// Find returns the named experiment, or the only experiment when name is
// empty.
func (f *File) Find(name string) (*Experiment, error) {
	if name == "" {
		if len(f.Experiments) == 1 {
			return &f.Experiments[0], nil
		}
		return nil, fmt.Errorf("file defines %d experiments, name one of them", len(f.Experiments))
	}
	for i := range f.Experiments {
		if f.Experiments[i].Name == name {
			return &f.Experiments[i], nil
		}
	}
	return nil, fmt.Errorf("no experiment named %q", name)
}

// Config converts the experiment into an evolve.Config. The result still
// needs Validate before use.
func (e *Experiment) Config() evolve.Config {
	return evolve.Config{
		Ranks:            e.Ranks,
		BetMin:           e.BetMin,
		BetMax:           e.BetMax,
		BetStep:          e.BetStep,
		Ante:             e.Ante,
		PopulationSize:   e.Population,
		Generations:      e.Generations,
		ParentProportion: e.ParentProportion,
		MutationRate:     e.MutationRate,
		Seed:             e.Seed,
		Workers:          e.Workers,
	}
}
