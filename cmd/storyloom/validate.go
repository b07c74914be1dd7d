package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"storyloom/internal/config"
	"storyloom/internal/story"
	"storyloom/internal/validate"
)

func validateCmd() *cobra.Command {
	var archive string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Run consistency checks against a story archive",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(archive)
		},
	}
	cmd.Flags().StringVar(&archive, "archive", "", "Archive path (defaults to the configured one)")
	return cmd
}

func runValidate(archive string) error {
	if archive == "" {
		cfg, err := config.LoadProjectConfig(config.DefaultPath)
		if err != nil {
			return err
		}
		archive = cfg.Story.Archive
	}
	if archive == "" {
		return fmt.Errorf("no archive configured; pass --archive")
	}

	project, err := story.LoadArchive(archive)
	if err != nil {
		return err
	}

	report := validate.Run(project.Metadata, project.Graph)

	var errorIssues []validate.Issue
	var warnIssues []validate.Issue
	for _, issue := range report.Issues {
		switch issue.Severity {
		case validate.SeverityError:
			errorIssues = append(errorIssues, issue)
		case validate.SeverityWarn:
			warnIssues = append(warnIssues, issue)
		}
	}

	if len(errorIssues) == 0 && len(warnIssues) == 0 {
		fmt.Fprintln(os.Stdout, "No issues found.")
		return nil
	}

	if len(errorIssues) > 0 {
		fmt.Fprintf(os.Stdout, "Errors (%d):\n", len(errorIssues))
		printIssues(os.Stdout, errorIssues)
	}
	if len(warnIssues) > 0 {
		if len(errorIssues) > 0 {
			fmt.Fprintln(os.Stdout, "")
		}
		fmt.Fprintf(os.Stdout, "Warnings (%d):\n", len(warnIssues))
		printIssues(os.Stdout, warnIssues)
	}

	if len(errorIssues) > 0 {
		return fmt.Errorf("validation found errors")
	}
	return nil
}

func printIssues(out *os.File, issues []validate.Issue) {
	for _, issue := range issues {
		fmt.Fprintf(out, "  - %s: %s (%s)\n", issue.Node, issue.Message, issue.Code)
	}
}
