package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/jobhunter/internal/jobs"
	"github.com/spigell/jobhunter/internal/priority"
)

var prepareCmd = &cobra.Command{
	Use:   "prepare",
	Short: "Prepare application folders for the prioritized postings without prompting",
	Run: func(cmd *cobra.Command, _ []string) {
		prepareBatch(cmd)
	},
}

func init() {
	rootCmd.AddCommand(prepareCmd)

	prepareCmd.Flags().String("tier", priority.MustApply.String(), "prepare this tier only (must-apply, should-apply, nice-to-have, low-priority)")
	prepareCmd.Flags().Int("extra", 0, "with must-apply, also prepare this many should-apply postings")
	prepareCmd.Flags().Int("limit", 0, "prepare at most this many postings (0 means all)")
}

func prepareBatch(cmd *cobra.Command) {
	e := setup()
	defer e.stop()

	tierName, _ := cmd.Flags().GetString("tier")
	tier, ok := priority.ParseTier(tierName)
	if !ok {
		e.logger.Fatal("unknown tier", zap.String("tier", tierName))
	}
	extra, _ := cmd.Flags().GetInt("extra")
	limit, _ := cmd.Flags().GetInt("limit")

	v, err := jobs.Load(e.config.JobsFile)
	if err != nil {
		e.logger.Fatal("loading jobs", zap.String("path", e.config.JobsFile), zap.Error(err))
	}

	tiers := e.scorer().Categorize(v)

	selected := tiers.Get(tier)
	if tier == priority.MustApply {
		selected = tiers.Select(extra)
	}
	if limit > 0 && len(selected) > limit {
		selected = selected[:limit]
	}

	if len(selected) == 0 {
		e.logger.Info("exiting", zap.String("reason", "no postings in tier"), zap.String("tier", tier.String()))
		return
	}

	if err := prepare(e, &jobs.Jobs{Items: selected}); err != nil {
		e.logger.Fatal("exiting", zap.Error(err))
	}
}
