package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/jobhunter/internal/tailor"
	"github.com/spigell/jobhunter/internal/utils"
)

var tailorCmd = &cobra.Command{
	Use:   "tailor",
	Short: "Tailor the profile resume to a job description",
	Run: func(cmd *cobra.Command, _ []string) {
		tailorResume(cmd)
	},
}

func init() {
	rootCmd.AddCommand(tailorCmd)

	addJobFlags(tailorCmd)
	tailorCmd.Flags().StringP("out", "o", ".", "directory for the resume files")
}

// addJobFlags registers the flags describing the target job.
func addJobFlags(cmd *cobra.Command) {
	cmd.Flags().String("description", "", "job description text")
	cmd.Flags().String("description-file", "", "file with the job description")
	cmd.Flags().String("title", "", "job title")
	cmd.Flags().String("company", "", "company name")
}

func jobFlags(e *env, cmd *cobra.Command) (description, title, company string) {
	description, _ = cmd.Flags().GetString("description")
	if path, _ := cmd.Flags().GetString("description-file"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			e.logger.Fatal("reading job description", zap.String("path", path), zap.Error(err))
		}
		description = string(data)
	}
	if strings.TrimSpace(description) == "" {
		e.logger.Fatal("job description is required", zap.String("hint", "pass --description or --description-file"))
	}

	title, _ = cmd.Flags().GetString("title")
	company, _ = cmd.Flags().GetString("company")
	return description, title, company
}

func tailorResume(cmd *cobra.Command) {
	e := setup()
	defer e.stop()

	description, title, company := jobFlags(e, cmd)
	out, _ := cmd.Flags().GetString("out")

	if err := os.MkdirAll(out, 0o755); err != nil {
		e.logger.Fatal("creating output directory", zap.Error(err))
	}

	resume := tailor.New(e.matcher(), e.logger).Tailor(e.profile(), description, title, company)

	jsonPath, textPath, err := resume.Save(out, "resume_"+utils.SafeName(company))
	if err != nil {
		e.logger.Fatal("saving resume", zap.Error(err))
	}

	fmt.Printf("skill match: %s\n", resume.MatchLabel())
	fmt.Printf("  matched: %s\n", strings.Join(resume.SkillMatch.Matched, ", "))
	fmt.Printf("  missing: %s\n", strings.Join(resume.SkillMatch.Missing, ", "))

	e.logger.Info("tailored resume saved", zap.String("json", jsonPath), zap.String("text", textPath))
}
