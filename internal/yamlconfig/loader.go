// Package yamlconfig provides a YAML implementation of config.Loader for
// the same model the HCL loader produces.
//
//	flows:
//	  - id: booking
//	    persistenceContext: true
//	    attributes: {owner: sales}
//	    endStates:
//	      - {id: confirmed, commit: true}
//	scenarios:
//	  - name: happy_path
//	    session:
//	      flow: booking
//	      outcome: confirmed
//	      subflows:
//	        - {flow: address, outcome: done}
package yamlconfig

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/specialistvlad/flowpc/internal/config"
	"github.com/specialistvlad/flowpc/internal/ctxlog"
	"github.com/specialistvlad/flowpc/internal/fsutil"
	"gopkg.in/yaml.v3"
)

// Extensions are the file extensions the loader picks up.
var Extensions = []string{".yaml", ".yml"}

type document struct {
	Flows     []flowDoc     `yaml:"flows"`
	Scenarios []scenarioDoc `yaml:"scenarios"`
}

type flowDoc struct {
	ID                 string            `yaml:"id"`
	PersistenceContext bool              `yaml:"persistenceContext"`
	Attributes         map[string]string `yaml:"attributes"`
	EndStates          []endStateDoc     `yaml:"endStates"`
}

type endStateDoc struct {
	ID     string `yaml:"id"`
	Commit bool   `yaml:"commit"`
}

type scenarioDoc struct {
	Name    string         `yaml:"name"`
	Session *invocationDoc `yaml:"session"`
}

type invocationDoc struct {
	Flow       string          `yaml:"flow"`
	Outcome    string          `yaml:"outcome"`
	Statements []string        `yaml:"statements"`
	Pause      bool            `yaml:"pause"`
	Subflows   []invocationDoc `yaml:"subflows"`
}

// Loader reads YAML configuration files.
type Loader struct{}

var _ config.Loader = (*Loader)(nil)

// NewLoader creates a new YAML configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses every YAML file under paths. A file may hold several
// documents separated by "---".
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	files, err := fsutil.FindFiles(paths, Extensions...)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered YAML files.", "count", len(files))

	model := config.NewModel()
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", file, err)
		}
		if err := decodeInto(model, data); err != nil {
			return nil, fmt.Errorf("%s: %w", file, err)
		}
	}
	logger.Debug("YAML loading complete.", "flows", len(model.Flows), "scenarios", len(model.Scenarios))
	return model, nil
}

func decodeInto(model *config.Model, data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	for {
		var doc document
		if err := dec.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("failed to decode YAML: %w", err)
		}
		for _, f := range doc.Flows {
			if f.ID == "" {
				return errors.New("flow without id")
			}
			def := &config.Flow{
				ID:                 f.ID,
				PersistenceContext: f.PersistenceContext,
				Attributes:         f.Attributes,
			}
			seen := make(map[string]struct{})
			for _, es := range f.EndStates {
				if _, dup := seen[es.ID]; dup {
					return fmt.Errorf("flow %q: end state %q defined more than once", f.ID, es.ID)
				}
				seen[es.ID] = struct{}{}
				def.EndStates = append(def.EndStates, &config.EndState{ID: es.ID, Commit: es.Commit})
			}
			if err := model.AddFlow(def); err != nil {
				return err
			}
		}
		for _, s := range doc.Scenarios {
			if s.Session == nil {
				return fmt.Errorf("scenario %q: missing session", s.Name)
			}
			model.Scenarios = append(model.Scenarios, &config.Scenario{
				Name: s.Name,
				Root: s.Session.toModel(),
			})
		}
	}
}

func (d *invocationDoc) toModel() *config.Invocation {
	inv := &config.Invocation{
		Flow:       d.Flow,
		Outcome:    d.Outcome,
		Statements: d.Statements,
		Pause:      d.Pause,
	}
	for i := range d.Subflows {
		inv.Subflows = append(inv.Subflows, d.Subflows[i].toModel())
	}
	return inv
}
