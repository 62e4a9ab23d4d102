package cli

import (
	"context"
	"encoding/json"
	"os"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/secmon-lab/themis/pkg/cli/config"
	"github.com/secmon-lab/themis/pkg/domain/interfaces"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/utils/safe"
)

func cmdSeed() *cli.Command {
	var seedFile string
	var repoCfg config.Repository

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "seed-file",
			Usage:       "Path to a JSON seed file",
			Required:    true,
			Sources:     cli.EnvVars("THEMIS_SEED_FILE"),
			Destination: &seedFile,
		},
	}
	flags = append(flags, repoCfg.Flags()...)

	return &cli.Command{
		Name:  "seed",
		Usage: "Import seed data into the repository",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer safe.Close(ctx, repo)

			seed, err := loadSeedData(ctx, seedFile)
			if err != nil {
				return err
			}

			summary, err := importSeedData(ctx, repo, seed)
			if err != nil {
				return err
			}
			summary.print()
			return nil
		},
	}
}

func loadSeedData(ctx context.Context, path string) (*model.SeedData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open seed file", goerr.V("path", path))
	}
	defer safe.Close(ctx, f)

	var seed model.SeedData
	if err := json.NewDecoder(f).Decode(&seed); err != nil {
		return nil, goerr.Wrap(err, "failed to parse seed file", goerr.V("path", path))
	}
	return &seed, nil
}

type seedSummary struct {
	Processes    int
	Steps        int
	Instances    int
	Tasks        int
	Comments     int
	Messages     int
	Logs         int
	Applications int
	Attachments  int
}

func (s seedSummary) print() {
	bold := color.New(color.Bold)
	count := color.New(color.FgGreen)

	_, _ = bold.Println("Seed import completed")
	rows := []struct {
		name string
		n    int
	}{
		{"processes", s.Processes},
		{"steps", s.Steps},
		{"instances", s.Instances},
		{"tasks", s.Tasks},
		{"comments", s.Comments},
		{"messages", s.Messages},
		{"logs", s.Logs},
		{"applications", s.Applications},
		{"attachments", s.Attachments},
	}
	for _, row := range rows {
		_, _ = count.Printf("  %-13s %d\n", row.name, row.n)
	}
}

// importSeedData writes all seed collections into the repository. The
// collections have no cross-collection write dependencies except that steps
// require their process and attachments their application, so those pairs
// are imported sequentially within one group task.
func importSeedData(ctx context.Context, repo interfaces.Repository, seed *model.SeedData) (*seedSummary, error) {
	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		for _, p := range seed.Processes {
			if err := repo.Process().Put(ctx, p); err != nil {
				return goerr.Wrap(err, "failed to import process", goerr.V("id", p.ID))
			}
		}
		for _, s := range seed.Steps {
			if err := repo.Process().PutStep(ctx, s); err != nil {
				return goerr.Wrap(err, "failed to import step", goerr.V("id", s.ID))
			}
		}
		return nil
	})

	eg.Go(func() error {
		for _, inst := range seed.Instances {
			if _, err := repo.Instance().Create(ctx, inst); err != nil {
				return goerr.Wrap(err, "failed to import instance", goerr.V("id", inst.ID))
			}
		}
		return nil
	})

	eg.Go(func() error {
		for _, task := range seed.Tasks {
			if _, err := repo.Task().Create(ctx, task); err != nil {
				return goerr.Wrap(err, "failed to import task", goerr.V("id", task.ID))
			}
		}
		return nil
	})

	eg.Go(func() error {
		for _, comment := range seed.Comments {
			if err := repo.Comment().Add(ctx, comment); err != nil {
				return goerr.Wrap(err, "failed to import comment", goerr.V("id", comment.ID))
			}
		}
		return nil
	})

	eg.Go(func() error {
		for _, msg := range seed.Messages {
			if err := repo.Message().Add(ctx, msg); err != nil {
				return goerr.Wrap(err, "failed to import message", goerr.V("id", msg.ID))
			}
		}
		return nil
	})

	eg.Go(func() error {
		for _, entry := range seed.Logs {
			if err := repo.Log().Add(ctx, entry); err != nil {
				return goerr.Wrap(err, "failed to import log entry", goerr.V("id", entry.ID))
			}
		}
		return nil
	})

	eg.Go(func() error {
		for _, app := range seed.Applications {
			if err := repo.Application().Put(ctx, app); err != nil {
				return goerr.Wrap(err, "failed to import application", goerr.V("id", app.ID))
			}
		}
		for _, att := range seed.Attachments {
			if err := repo.Application().PutAttachment(ctx, att); err != nil {
				return goerr.Wrap(err, "failed to import attachment", goerr.V("id", att.ID))
			}
		}
		return nil
	})

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return &seedSummary{
		Processes:    len(seed.Processes),
		Steps:        len(seed.Steps),
		Instances:    len(seed.Instances),
		Tasks:        len(seed.Tasks),
		Comments:     len(seed.Comments),
		Messages:     len(seed.Messages),
		Logs:         len(seed.Logs),
		Applications: len(seed.Applications),
		Attachments:  len(seed.Attachments),
	}, nil
}
