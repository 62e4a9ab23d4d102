package cli

import (
	"context"

	"github.com/m-mizutani/fireconf"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdMigrate() *cli.Command {
	var projectID string
	var databaseID string
	var collectionPrefix string
	var dryRun bool

	return &cli.Command{
		Name:    "migrate",
		Aliases: []string{"m"},
		Usage:   "Migrate Firestore indexes",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "firestore-project-id",
				Usage:       "Firestore Project ID (required)",
				Required:    true,
				Sources:     cli.EnvVars("THEMIS_FIRESTORE_PROJECT_ID"),
				Destination: &projectID,
			},
			&cli.StringFlag{
				Name:        "firestore-database-id",
				Usage:       "Firestore Database ID",
				Sources:     cli.EnvVars("THEMIS_FIRESTORE_DATABASE_ID"),
				Destination: &databaseID,
			},
			&cli.StringFlag{
				Name:        "firestore-collection-prefix",
				Usage:       "Prefix for Firestore collection names",
				Sources:     cli.EnvVars("THEMIS_FIRESTORE_COLLECTION_PREFIX"),
				Destination: &collectionPrefix,
			},
			&cli.BoolFlag{
				Name:        "dry-run",
				Usage:       "Preview changes without applying",
				Destination: &dryRun,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			logger.Info("Migrate configuration",
				"projectID", projectID,
				"databaseID", databaseID,
				"collectionPrefix", collectionPrefix,
				"dryRun", dryRun)

			indexConfig := getIndexConfig(collectionPrefix)

			client, err := fireconf.NewClient(ctx, projectID, databaseID)
			if err != nil {
				return goerr.Wrap(err, "failed to create fireconf client")
			}
			defer func() {
				if err := client.Close(); err != nil {
					logger.Error("failed to close fireconf client", "error", err.Error())
				}
			}()

			if dryRun {
				logger.Info("Dry run mode - previewing changes")
				plan, err := client.GetMigrationPlan(ctx, indexConfig)
				if err != nil {
					return goerr.Wrap(err, "failed to create migration plan")
				}

				if len(plan.Steps) == 0 {
					logger.Info("No changes required")
					return nil
				}

				for _, step := range plan.Steps {
					logger.Info("Migration step",
						"collection", step.Collection,
						"operation", step.Operation,
						"description", step.Description,
						"destructive", step.Destructive)
				}
			} else {
				logger.Info("Applying migrations")
				if err := client.Migrate(ctx, indexConfig); err != nil {
					return goerr.Wrap(err, "failed to apply migrations")
				}
				logger.Info("Migrations applied successfully")
			}

			return nil
		},
	}
}

// getIndexConfig returns the composite indexes required by the repository
// query methods. The prefix must match the serving configuration.
func getIndexConfig(prefix string) *fireconf.Config {
	name := func(base string) string {
		if prefix != "" {
			return prefix + "_" + base
		}
		return base
	}

	ascPair := func(first, second string) fireconf.Index {
		return fireconf.Index{
			Fields: []fireconf.IndexField{
				{Path: first, Order: fireconf.OrderAscending},
				{Path: second, Order: fireconf.OrderAscending},
			},
		}
	}

	return &fireconf.Config{
		Collections: []fireconf.Collection{
			{
				Name: name("tasks"),
				Indexes: []fireconf.Index{
					// ListByInstance
					ascPair("instance_id", "created_at"),
					// ListByAssignee
					ascPair("assigned_to", "created_at"),
					// ListByStatus
					ascPair("status", "created_at"),
				},
			},
			{
				Name: name("comments"),
				Indexes: []fireconf.Index{
					// ListByTask and CountByTaskSince
					ascPair("task_id", "created_at"),
				},
			},
			{
				Name: name("logs"),
				Indexes: []fireconf.Index{
					// ListByTask
					ascPair("task_id", "created_at"),
					// ListByInstance
					ascPair("instance_id", "created_at"),
				},
			},
			{
				Name: name("steps"),
				Indexes: []fireconf.Index{
					// ListSteps
					ascPair("process_id", "order"),
				},
			},
			{
				Name: name("attachments"),
				Indexes: []fireconf.Index{
					// ListAttachments
					ascPair("application_id", "uploaded_at"),
				},
			},
		},
	}
}
