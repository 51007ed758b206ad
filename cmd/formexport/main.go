package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gratefultolord/mc_forms_bot/internal/config"
	"github.com/gratefultolord/mc_forms_bot/internal/db"
	"github.com/gratefultolord/mc_forms_bot/internal/files"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		out string
		dir string
	)

	cmd := &cobra.Command{
		Use:   "formexport",
		Short: "Export all stored forms to a semicolon-separated CSV file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), cmd, out, dir)
		},
		SilenceUsage: true,
	}

	cmd.Flags().StringVarP(&out, "out", "o", files.DefaultExportName, "output file name")
	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "directory to write the export into")

	return cmd
}

func run(ctx context.Context, cmd *cobra.Command, out, dir string) error {
	dbCfg, err := config.LoadDB()
	if err != nil {
		return err
	}

	database, err := db.New(dbCfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer database.Close()

	if err := db.RunMigrations(ctx, database.Conn); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	exporter, err := files.NewExportService(db.NewFormRepository(database.Conn), dir)
	if err != nil {
		return err
	}

	path, err := exporter.Export(ctx, out)
	if errors.Is(err, files.ErrNoForms) {
		cmd.Println("Нет данных для экспорта.")
		return nil
	}
	if err != nil {
		return err
	}

	cmd.Printf("✅ Данные экспортированы в %s\n", path)

	return nil
}
