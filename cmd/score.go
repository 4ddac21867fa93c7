package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spigell/jobhunter/internal/priority"
)

var scoreCmd = &cobra.Command{
	Use:   "score <title>",
	Short: "Score a single posting and explain which rules matched",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		score(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().String("company", "", "company name")
	scoreCmd.Flags().String("location", "", "job location")
	scoreCmd.Flags().String("source", "", "job board, e.g. LinkedIn")
}

func score(cmd *cobra.Command, title string) {
	e := setup()
	defer e.stop()

	company, _ := cmd.Flags().GetString("company")
	location, _ := cmd.Flags().GetString("location")
	source, _ := cmd.Flags().GetString("source")

	posting := priority.Posting{Title: title, Company: company, Location: location, Source: source}
	scorer := e.scorer()
	total := scorer.Score(posting)

	for _, hit := range scorer.Explain(posting) {
		fmt.Printf("  %-22s %+d\n", hit.Rule, hit.Weight)
	}
	tier := priority.TierFor(total)
	fmt.Printf("score: %s  tier: %s\n", scoreString(total), tierColor(tier)("%s", tier))
}
