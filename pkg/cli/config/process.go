package config

import (
	"context"
	"os"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/secmon-lab/themis/pkg/domain/interfaces"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/types"
	"github.com/secmon-lab/themis/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// ProcessConfig declares the workflow templates loaded at startup.
// Templates are configuration, not data: they are written once per deploy
// and the engine never mutates them.
type ProcessConfig struct {
	Processes []ProcessTemplate `toml:"process"`
}

// ProcessTemplate is one workflow template with its ordered steps
type ProcessTemplate struct {
	ID          string         `toml:"id"`
	Name        string         `toml:"name"`
	Type        string         `toml:"type"`
	Description string         `toml:"description"`
	Steps       []StepTemplate `toml:"steps"`
}

// StepTemplate is one stage of a process template
type StepTemplate struct {
	ID          string `toml:"id"`
	Name        string `toml:"name"`
	Order       int    `toml:"order"`
	Description string `toml:"description"`
	SLA         int    `toml:"sla"`
}

// Validate checks if the StepTemplate is valid
func (s *StepTemplate) Validate() error {
	if s.ID == "" {
		return goerr.New("step id is required")
	}
	if s.Name == "" {
		return goerr.New("step name is required", goerr.V("id", s.ID))
	}
	if s.Order < 1 {
		return goerr.New("step order must be positive", goerr.V("id", s.ID), goerr.V("order", s.Order))
	}
	if s.SLA < 0 {
		return goerr.New("step sla must not be negative", goerr.V("id", s.ID), goerr.V("sla", s.SLA))
	}
	return nil
}

// Validate checks if the ProcessTemplate is valid
func (p *ProcessTemplate) Validate() error {
	if p.ID == "" {
		return goerr.New("process id is required")
	}
	if p.Name == "" {
		return goerr.New("process name is required", goerr.V("id", p.ID))
	}

	orders := make(map[int]bool)
	stepIDs := make(map[string]bool)
	for i := range p.Steps {
		step := &p.Steps[i]
		if err := step.Validate(); err != nil {
			return goerr.Wrap(err, "invalid step", goerr.V("process", p.ID))
		}
		if stepIDs[step.ID] {
			return goerr.New("duplicate step ID", goerr.V("process", p.ID), goerr.V("id", step.ID))
		}
		stepIDs[step.ID] = true
		if orders[step.Order] {
			return goerr.New("duplicate step order", goerr.V("process", p.ID), goerr.V("order", step.Order))
		}
		orders[step.Order] = true
	}
	return nil
}

// Validate checks if the ProcessConfig is valid
func (c *ProcessConfig) Validate() error {
	processIDs := make(map[string]bool)
	for i := range c.Processes {
		p := &c.Processes[i]
		if err := p.Validate(); err != nil {
			return err
		}
		if processIDs[p.ID] {
			return goerr.New("duplicate process ID", goerr.V("id", p.ID))
		}
		processIDs[p.ID] = true
	}
	return nil
}

// LoadProcessConfig reads and validates a process template file
func LoadProcessConfig(path string) (*ProcessConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read process config", goerr.V("path", path))
	}

	var cfg ProcessConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, goerr.Wrap(err, "failed to parse process config", goerr.V("path", path))
	}
	if err := cfg.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid process config", goerr.V("path", path))
	}
	return &cfg, nil
}

// Apply stores the templates in the repository. Existing templates with the
// same IDs are overwritten so that repeated startups converge on the file.
func (c *ProcessConfig) Apply(ctx context.Context, repo interfaces.Repository) error {
	now := time.Now().UTC()

	for i := range c.Processes {
		tmpl := &c.Processes[i]
		process := &model.Process{
			ID:          types.ProcessID(tmpl.ID),
			Name:        tmpl.Name,
			Type:        tmpl.Type,
			Description: tmpl.Description,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := repo.Process().Put(ctx, process); err != nil {
			return goerr.Wrap(err, "failed to store process template", goerr.V("id", tmpl.ID))
		}

		for j := range tmpl.Steps {
			st := &tmpl.Steps[j]
			step := &model.Step{
				ID:          types.StepID(st.ID),
				ProcessID:   process.ID,
				Name:        st.Name,
				Order:       st.Order,
				Description: st.Description,
				SLA:         st.SLA,
			}
			if err := repo.Process().PutStep(ctx, step); err != nil {
				return goerr.Wrap(err, "failed to store step template",
					goerr.V("process", tmpl.ID), goerr.V("id", st.ID))
			}
		}

		logging.Default().Info("Loaded process template",
			"id", tmpl.ID, "name", tmpl.Name, "steps", len(tmpl.Steps))
	}
	return nil
}

// Process holds the CLI flag for the process template file
type Process struct {
	path string
}

// Flags returns CLI flags for process template configuration
func (p *Process) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "process-config",
			Usage:       "Path to the process template TOML file",
			Sources:     cli.EnvVars("THEMIS_PROCESS_CONFIG"),
			Destination: &p.path,
		},
	}
}

// Configure loads the process templates into the repository when a file is
// configured. No file means no templates, which is valid for seeded setups.
func (p *Process) Configure(ctx context.Context, repo interfaces.Repository) error {
	if p.path == "" {
		return nil
	}

	cfg, err := LoadProcessConfig(p.path)
	if err != nil {
		return err
	}
	return cfg.Apply(ctx, repo)
}
