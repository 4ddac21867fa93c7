package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/jobhunter/internal/filtering"
	"github.com/spigell/jobhunter/internal/jobs"
	"github.com/spigell/jobhunter/internal/priority"
)

const (
	PromptYes                 = "Yes, prepare applications"
	PromptNo                  = "No"
	PromptBack                = "back"
	PromptReportByCompanies   = "Report by companies"
	PromptManualPrepare       = "Prepare postings in manual mode"
	PromptAppendToExcludeFile = "Append all postings to exclude file"
	PromptJobsToFile          = "Dump postings to file"
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "Proceed?",
	Items: []string{PromptYes, PromptNo, PromptReportByCompanies, PromptManualPrepare, PromptJobsToFile},
}

var prioritizeCmd = &cobra.Command{
	Use:   "prioritize",
	Short: "Score scraped postings, write the prioritized file and prepare the top ones",
	Run: func(cmd *cobra.Command, _ []string) {
		prioritize(cmd)
	},
}

func init() {
	rootCmd.AddCommand(prioritizeCmd)

	prioritizeCmd.Flags().BoolP("include-applied", "f", false, "do not exclude postings already applied for")
	prioritizeCmd.Flags().BoolP("auto-approve", "y", false, "prepare applications without asking for confirmation")
	prioritizeCmd.Flags().Int("extra", 0, "number of should-apply postings prepared after the must-apply ones")
}

func prioritize(cmd *cobra.Command) {
	e := setup()
	defer e.stop()

	e.logger.Info("starting the jobhunter", zap.String("version", version))

	v, err := jobs.Load(e.config.JobsFile)
	if err != nil {
		e.logger.Fatal("loading jobs", zap.String("path", e.config.JobsFile), zap.Error(err))
	}

	if v.Len() == 0 {
		e.logger.Info("exiting", zap.String("reason", "no postings found"), zap.String("hint", "run the scrape command first"))
		return
	}

	includeApplied, _ := cmd.Flags().GetBool("include-applied")
	steps := filtering.Default()
	if includeApplied {
		steps = []filtering.Filter{
			filtering.NewDedupe(),
			filtering.NewCompanies(),
			filtering.NewExcludeFile(),
			filtering.NewApplied(true),
			filtering.NewMinScore(),
		}
	}

	tr := e.tracker()
	scorer := e.scorer()

	v, err = filtering.Run(e.ctx, e.filterConfig(), filtering.Deps{Logger: e.logger, Tracker: tr, Scorer: scorer}, steps, v)
	if err != nil {
		e.logger.Fatal("filtering failed", zap.Error(err))
	}

	if v.Len() == 0 {
		e.logger.Info("exiting", zap.String("reason", "no postings left after filters"))
		return
	}

	tiers := scorer.Categorize(v)
	output := tiers.Output()
	if err := output.ToFile(e.config.PrioritizedFile); err != nil {
		e.logger.Fatal("saving prioritized jobs", zap.Error(err))
	}

	printTiers(tiers)
	e.logger.Info("prioritized jobs saved",
		zap.String("path", e.config.PrioritizedFile),
		zap.Int("must_apply", output.Summary.Tier1Count),
		zap.Int("should_apply", output.Summary.Tier2Count),
		zap.Int("recommended_focus", output.Summary.RecommendedFocus),
	)

	extra, _ := cmd.Flags().GetInt("extra")
	selected := &jobs.Jobs{Items: tiers.Select(extra)}
	if selected.Len() == 0 {
		e.logger.Info("exiting", zap.String("reason", "no must-apply postings"), zap.String("hint", "use --extra to include should-apply ones"))
		return
	}

	autoApprove, _ := cmd.Flags().GetBool("auto-approve")
	action := PromptYes
	for {
		if !autoApprove {
			_, action, err = prompt.Run()
			if err != nil {
				e.logger.Fatal("exiting", zap.Error(err))
			}
		}

		e.logger.Info("current list of postings", zap.Int("count", selected.Len()))

		if err := handleAction(e, action, selected); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			e.logger.Fatal("exiting", zap.Error(err))
		}

		if autoApprove || selected.Len() == 0 {
			return
		}
	}
}

func handleAction(e *env, action string, selected *jobs.Jobs) error {
	switch action {
	case PromptYes:
		if err := prepare(e, selected); err != nil {
			return err
		}
		selected.Items = nil
		return nil
	case PromptNo:
		e.logger.Info("exiting", zap.String("reason", "got no from prompt"))
		return errExit
	case PromptManualPrepare:
		return manualPrepare(e, selected)
	case PromptReportByCompanies:
		pretty, _ := json.MarshalIndent(selected.ReportByCompany(), "", "  ")
		e.logger.Info(string(pretty), zap.Int("postings count", selected.Len()))
		return nil
	case PromptJobsToFile:
		filename, err := selected.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		e.logger.Info("dumping result to file", zap.String("filename", filename))
		return nil
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func manualPrepare(e *env, selected *jobs.Jobs) error {
	for {
		items := make([]string, 0, selected.Len()+2)
		for i, job := range selected.Items {
			items = append(items, fmt.Sprintf("%d [%d] %s / %s / %s", i+1, job.PriorityScore, job.Title, job.Company, job.URL))
		}

		excludeFile := e.config.ExcludeFile
		if excludeFile != "" && selected.Len() != 0 {
			items = append(items, PromptAppendToExcludeFile)
		}

		jobPrompt := promptui.Select{
			Label: "Choose a posting and press ENTER",
			Items: append(items, PromptBack),
			Size:  10,
		}

		_, choice, err := jobPrompt.Run()
		if err != nil {
			return err
		}

		switch choice {
		case PromptBack:
			return nil
		case PromptAppendToExcludeFile:
			excluded, err := jobs.ExcludedFromFile(excludeFile)
			if err != nil {
				return err
			}

			excluded.Append(selected.ToExcluded())

			if err = excluded.ToFile(excludeFile); err != nil {
				return err
			}

			e.logger.Info("appended to exclude file", zap.String("filename", excludeFile))

			selected.Exclude(jobs.JobURLField, excluded.URLs())
		default:
			n, err := strconv.Atoi(strings.Split(choice, " ")[0])
			if err != nil || n < 1 || n > selected.Len() {
				return fmt.Errorf("there is no such posting %q", choice)
			}

			job := selected.Items[n-1]
			if err := prepare(e, &jobs.Jobs{Items: []*jobs.Job{job}}); err != nil {
				return err
			}

			selected.RemoveFunc(func(j *jobs.Job) bool { return j == job })
		}
	}
}

func prepare(e *env, selected *jobs.Jobs) error {
	tr := e.tracker()

	batch, err := e.preparer(tr).Prepare(e.ctx, e.config.ApplicationsDir, selected.Items)
	if err != nil {
		return fmt.Errorf("preparing applications: %w", err)
	}

	e.logger.Info("applications prepared",
		zap.String("batch_id", batch.ID),
		zap.String("dir", batch.Dir),
		zap.Int("prepared", len(batch.Prepared)),
		zap.Int("failed", len(batch.Failed)),
	)
	return nil
}

func printTiers(tiers *priority.Tiers) {
	fmt.Println(strings.Repeat("=", 80))
	fmt.Printf("%d postings scored\n", tiers.Total)
	for _, tier := range priority.AllTiers {
		fmt.Printf("  %-14s %s\n", tier.String()+":", tierColor(tier)("%d", tiers.Count(tier)))
	}
	fmt.Printf("  recommended focus: %d\n", tiers.RecommendedFocus())
	fmt.Println(strings.Repeat("=", 80))

	for i, job := range tiers.Get(priority.MustApply) {
		fmt.Printf("%3d. %s %s at %s (%s)\n", i+1, scoreString(job.PriorityScore), job.Title, job.Company, job.Location)
	}
}
