package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-ormlens/pkg/analysis"
	"github.com/dd0wney/cluso-ormlens/pkg/loader"
	"github.com/dd0wney/cluso-ormlens/pkg/schema"
)

func newInspectCmd(a *app) *cobra.Command {
	var (
		flags      analyzeFlags
		driver     string
		dsn        string
		schemaName string
		dump       bool
	)

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Derive an entity model from a database schema",
		Long: `Reads tables and foreign keys from PostgreSQL or SQLite and turns them into
an entity model: every table is an entity, every foreign key an owning-side
ManyToOne relationship. The model is analyzed, or printed as YAML with --dump.

Example:
  ormlens inspect --driver sqlite --dsn shop.db
  ormlens inspect --driver postgres --dsn postgres://localhost/shop --schema sales --dump > shop.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.validate(); err != nil {
				return err
			}
			if dsn == "" {
				return fmt.Errorf("--dsn is required")
			}

			ctx := cmd.Context()
			insp, err := schema.Open(ctx, driver, dsn, schemaName, a.logger)
			if err != nil {
				return err
			}
			defer insp.Close()

			nodes, err := schema.Inspect(ctx, insp, a.logger, a.metrics)
			if err != nil {
				return err
			}

			if dump {
				data, err := loader.Encode(nodes, loader.FormatYAML)
				if err != nil {
					return err
				}
				_, err = a.out.Write(data)
				return err
			}

			analyzer, err := a.analyzer(flags.classifier, flags.timeout)
			if err != nil {
				return err
			}
			return a.emit([]*analysis.Report{analyzer.Analyze(ctx, nodes)}, &flags)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&driver, "driver", schema.DriverSQLite, "Database driver (postgres, sqlite)")
	cmd.Flags().StringVar(&dsn, "dsn", "", "Connection URL (postgres) or database file (sqlite)")
	cmd.Flags().StringVar(&schemaName, "schema", schema.DefaultPostgresSchema, "PostgreSQL schema to inspect")
	cmd.Flags().BoolVar(&dump, "dump", false, "Print the derived model as YAML instead of analyzing it")
	return cmd
}
