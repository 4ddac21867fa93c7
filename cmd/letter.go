package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/jobhunter/internal/coverletter"
)

var letterCmd = &cobra.Command{
	Use:   "letter",
	Short: "Write a cover letter for a job description",
	Run: func(cmd *cobra.Command, _ []string) {
		letter(cmd)
	},
}

func init() {
	rootCmd.AddCommand(letterCmd)

	addJobFlags(letterCmd)
	letterCmd.Flags().String("hiring-manager", coverletter.DefaultHiringManager, "greeting name")
	letterCmd.Flags().StringP("out", "o", "", "write the letter to this file instead of stdout")
}

func letter(cmd *cobra.Command) {
	e := setup()
	defer e.stop()

	description, title, company := jobFlags(e, cmd)
	manager, _ := cmd.Flags().GetString("hiring-manager")
	out, _ := cmd.Flags().GetString("out")

	p := e.profile()
	req := coverletter.Request{Description: description, JobTitle: title, Company: company, HiringManager: manager}

	text := e.letters(p).Generate(e.ctx, req)

	for _, r := range coverletter.ExtractRequirements(description) {
		e.logger.Debug("requirement found", zap.String("requirement", r))
	}

	if out == "" {
		fmt.Println(text)
		return
	}

	if err := os.WriteFile(out, []byte(text), 0o644); err != nil {
		e.logger.Fatal("saving cover letter", zap.Error(err))
	}
	e.logger.Info("cover letter saved", zap.String("path", out))
}
