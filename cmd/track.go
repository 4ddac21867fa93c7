package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/jobhunter/internal/tracker"
)

const defaultExportFile = "applications.csv"

var trackCmd = &cobra.Command{
	Use:   "track",
	Short: "Record and review job applications",
}

var trackAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a new application",
	Run: func(cmd *cobra.Command, _ []string) {
		trackAdd(cmd)
	},
}

var trackStatusCmd = &cobra.Command{
	Use:   "status <id> <status>",
	Short: "Change the status of an application",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		trackStatus(cmd, args[0], args[1])
	},
}

var trackFollowUpCmd = &cobra.Command{
	Use:   "follow-up <id> <YYYY-MM-DD>",
	Short: "Schedule a follow-up for an application",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		trackFollowUp(cmd, args[0], args[1])
	},
}

var trackListCmd = &cobra.Command{
	Use:   "list",
	Short: "List applications",
	Run: func(cmd *cobra.Command, _ []string) {
		trackList(cmd)
	},
}

var trackSearchCmd = &cobra.Command{
	Use:   "search <keyword>",
	Short: "Search applications by title, company or notes",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		e := setup()
		defer e.stop()

		printApplications(os.Stdout, e.tracker().Search(args[0]))
	},
}

var trackStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print application statistics as JSON",
	Run: func(_ *cobra.Command, _ []string) {
		e := setup()
		defer e.stop()

		stats := e.tracker().Statistics(time.Now())
		out, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			e.logger.Fatal("encoding statistics", zap.Error(err))
		}
		fmt.Println(string(out))
	},
}

var trackExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export applications to CSV",
	Run: func(cmd *cobra.Command, _ []string) {
		trackExport(cmd)
	},
}

var trackDashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Print the application dashboard",
	Run: func(_ *cobra.Command, _ []string) {
		e := setup()
		defer e.stop()

		printDashboard(os.Stdout, e.tracker(), time.Now())
	},
}

func init() {
	rootCmd.AddCommand(trackCmd)
	trackCmd.AddCommand(trackAddCmd, trackStatusCmd, trackFollowUpCmd, trackListCmd,
		trackSearchCmd, trackStatsCmd, trackExportCmd, trackDashboardCmd)

	trackAddCmd.Flags().String("title", "", "job title")
	trackAddCmd.Flags().String("company", "", "company name")
	trackAddCmd.Flags().String("url", "", "job posting url")
	trackAddCmd.Flags().String("location", tracker.DefaultLocation, "job location")
	trackAddCmd.Flags().String("status", string(tracker.StatusApplied), "initial status")
	trackAddCmd.Flags().String("notes", "", "free-form notes")
	_ = trackAddCmd.MarkFlagRequired("title")
	_ = trackAddCmd.MarkFlagRequired("company")

	trackStatusCmd.Flags().String("notes", "", "note appended to the application")
	trackFollowUpCmd.Flags().String("notes", "", "note appended to the application")

	trackListCmd.Flags().String("status", "", "show only applications with this status")

	trackExportCmd.Flags().StringP("out", "o", defaultExportFile, "csv file to write")
}

func parseID(e *env, s string) int {
	id, err := strconv.Atoi(s)
	if err != nil {
		e.logger.Fatal("application id must be a number", zap.String("id", s))
	}
	return id
}

func parseStatus(e *env, s string) tracker.Status {
	status, ok := tracker.ParseStatus(s)
	if !ok {
		e.logger.Fatal("unknown status", zap.String("status", s), zap.Any("valid", tracker.Statuses))
	}
	return status
}

func trackAdd(cmd *cobra.Command) {
	e := setup()
	defer e.stop()

	title, _ := cmd.Flags().GetString("title")
	company, _ := cmd.Flags().GetString("company")
	url, _ := cmd.Flags().GetString("url")
	location, _ := cmd.Flags().GetString("location")
	status, _ := cmd.Flags().GetString("status")
	notes, _ := cmd.Flags().GetString("notes")

	id, err := e.tracker().Add(tracker.NewApplication{
		JobTitle: title,
		Company:  company,
		JobURL:   url,
		Location: location,
		Status:   parseStatus(e, status),
		Notes:    notes,
	})
	if err != nil {
		e.logger.Fatal("adding application", zap.Error(err))
	}

	e.logger.Info("application added", zap.Int("id", id), zap.String("title", title), zap.String("company", company))
}

func trackStatus(cmd *cobra.Command, rawID, rawStatus string) {
	e := setup()
	defer e.stop()

	id := parseID(e, rawID)
	status := parseStatus(e, rawStatus)
	notes, _ := cmd.Flags().GetString("notes")

	if err := e.tracker().UpdateStatus(id, status, notes); err != nil {
		e.logger.Fatal("updating status", zap.Int("id", id), zap.Error(err))
	}

	e.logger.Info("status updated", zap.Int("id", id), zap.String("status", string(status)))
}

func trackFollowUp(cmd *cobra.Command, rawID, date string) {
	e := setup()
	defer e.stop()

	id := parseID(e, rawID)
	notes, _ := cmd.Flags().GetString("notes")

	if err := e.tracker().AddFollowUp(id, date, notes); err != nil {
		e.logger.Fatal("scheduling follow-up", zap.Int("id", id), zap.Error(err))
	}

	e.logger.Info("follow-up scheduled", zap.Int("id", id), zap.String("date", date))
}

func trackList(cmd *cobra.Command) {
	e := setup()
	defer e.stop()

	t := e.tracker()
	apps := t.All()
	if raw, _ := cmd.Flags().GetString("status"); raw != "" {
		apps = t.ByStatus(parseStatus(e, raw))
	}

	printApplications(os.Stdout, apps)
}

func trackExport(cmd *cobra.Command) {
	e := setup()
	defer e.stop()

	out, _ := cmd.Flags().GetString("out")

	f, err := os.Create(out)
	if err != nil {
		e.logger.Fatal("creating export file", zap.String("path", out), zap.Error(err))
	}
	defer f.Close()

	n, err := e.tracker().ExportCSV(f)
	if err != nil {
		e.logger.Fatal("exporting applications", zap.Error(err))
	}

	e.logger.Info("applications exported", zap.Int("count", n), zap.String("path", out))
}
