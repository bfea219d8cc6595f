package main

import (
	"fmt"

	"drillbot/internal/repository/file"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newMigrateCommand() *cobra.Command {
	var courseKeys []string

	command := &cobra.Command{
		Use:   "migrate",
		Short: "Merge legacy language pair buckets and move locale buckets onto courses",
		Long: `Opening the knowledge file folds "<from> to <to>" buckets into their target language.
Each --course then moves two-letter locale buckets onto the course target language.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := file.OpenKnowledgeRepo(knowledgeFile)
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", knowledgeFile, err)
			}
			courses := file.NewCourseRepo(coursesDir)

			for _, key := range courseKeys {
				course, err := courses.Get(key)
				if err != nil {
					return fmt.Errorf("failed to load course %q: %w", key, err)
				}

				written, err := repo.MigrateLocale(course)
				if err != nil {
					return fmt.Errorf("failed to migrate course %q: %w", key, err)
				}
				logger.Debug("Locale migration done", zap.String("course", key), zap.Int("records", written))
				color.Green("%s: %d record(s) migrated", key, written)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s is up to date\n", knowledgeFile)
			return nil
		},
	}

	command.Flags().StringSliceVar(&courseKeys, "course", nil, `course key like "eng to deu", repeatable`)

	return command
}
