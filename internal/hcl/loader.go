package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/flowpc/internal/config"
	"github.com/specialistvlad/flowpc/internal/ctxlog"
	"github.com/specialistvlad/flowpc/internal/fsutil"
	"github.com/specialistvlad/flowpc/internal/schema"
)

// Extension is the file extension the loader picks up.
const Extension = ".hcl"

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

var _ config.Loader = (*Loader)(nil)

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses every .hcl file under paths and merges all blocks into one
// model.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := fsutil.FindFiles(paths, Extension)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	model := config.NewModel()
	parser := hclparse.NewParser()

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root schema.File
		if diags := gohcl.DecodeBody(hclFile.Body, nil, &root); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		for _, f := range root.Flows {
			def, err := l.translateFlow(ctx, f)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", file, err)
			}
			if err := model.AddFlow(def); err != nil {
				return nil, fmt.Errorf("%s: %w", file, err)
			}
		}
		for _, s := range root.Scenarios {
			sc, err := l.translateScenario(s)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", file, err)
			}
			model.Scenarios = append(model.Scenarios, sc)
		}
	}

	logger.Debug("HCL loading complete.", "flows", len(model.Flows), "scenarios", len(model.Scenarios))
	return model, nil
}
