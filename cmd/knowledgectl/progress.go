package main

import (
	"fmt"
	"io"

	"drillbot/internal/domain"
	"drillbot/internal/repository/file"
	"drillbot/internal/service"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type courseProgress struct {
	Key      string
	Progress domain.Progress
}

func newProgressCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "progress",
		Short: "Print learned, somewhat known, wrong and unseen counts per course",
		RunE: func(cmd *cobra.Command, args []string) error {
			knowledge, err := file.OpenKnowledgeRepo(knowledgeFile)
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", knowledgeFile, err)
			}
			courses := file.NewCourseRepo(coursesDir)
			stats := service.NewStatsService(courses, knowledge, logger)

			metas, err := courses.List()
			if err != nil {
				return err
			}

			var rows []courseProgress
			for _, meta := range metas {
				course, err := courses.Get(meta.Key())
				if err != nil {
					logger.Warn("Skipping course", zap.String("course", meta.Key()), zap.Error(err))
					continue
				}
				p, err := stats.CourseProgress(course)
				if err != nil {
					return err
				}
				rows = append(rows, courseProgress{Key: meta.Key(), Progress: p})
			}

			printProgress(cmd.OutOrStdout(), rows)
			return nil
		},
	}
}

func printProgress(w io.Writer, rows []courseProgress) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No courses found")
		return
	}

	bold := color.New(color.Bold)
	learned := color.New(color.FgGreen)
	somewhat := color.New(color.FgYellow)
	wrong := color.New(color.FgRed)

	for _, row := range rows {
		p := row.Progress
		bold.Fprintf(w, "%s", row.Key)
		fmt.Fprintf(w, " (%d)\n  ", p.Total())
		learned.Fprintf(w, "learned %d", p.Learned)
		fmt.Fprint(w, "  ")
		somewhat.Fprintf(w, "somewhat %d", p.Somewhat)
		fmt.Fprint(w, "  ")
		wrong.Fprintf(w, "wrong %d", p.Wrong)
		fmt.Fprintf(w, "  unseen %d\n", p.Unseen)
	}
}
