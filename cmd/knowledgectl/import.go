package main

import (
	"database/sql"
	"fmt"

	"drillbot/internal/repository/file"
	"drillbot/internal/repository/postgres"

	"github.com/fatih/color"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newImportCommand() *cobra.Command {
	var dsn string

	command := &cobra.Command{
		Use:   "import",
		Short: "Copy a knowledge file into PostgreSQL without overwriting existing records",
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := file.OpenKnowledgeRepo(knowledgeFile)
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", knowledgeFile, err)
			}
			k, err := source.Export()
			if err != nil {
				return err
			}

			db, err := sql.Open("postgres", dsn)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer db.Close()
			if err := db.Ping(); err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}

			imported, err := postgres.NewKnowledgeRepo(db).Import(k)
			if err != nil {
				return fmt.Errorf("failed to import knowledge: %w", err)
			}

			total := 0
			for _, records := range k {
				total += len(records)
			}
			logger.Info("Knowledge imported", zap.Int("imported", imported), zap.Int("total", total))
			color.Green("%d of %d record(s) imported", imported, total)
			return nil
		},
	}

	command.Flags().StringVar(&dsn, "dsn", "", "PostgreSQL connection string")
	command.MarkFlagRequired("dsn")

	return command
}
