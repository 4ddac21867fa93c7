package cmd

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/spigell/jobhunter/internal/priority"
	"github.com/spigell/jobhunter/internal/tracker"
)

const topCompanies = 5

func tierColor(t priority.Tier) func(format string, a ...interface{}) string {
	switch t {
	case priority.MustApply:
		return color.GreenString
	case priority.ShouldApply:
		return color.YellowString
	case priority.NiceToHave:
		return color.CyanString
	default:
		return color.RedString
	}
}

func scoreString(score int) string {
	return tierColor(priority.TierFor(score))("%3d", score)
}

func statusString(s tracker.Status) string {
	switch s {
	case tracker.StatusOffer:
		return color.GreenString("%s", s)
	case tracker.StatusInterview:
		return color.CyanString("%s", s)
	case tracker.StatusRejected:
		return color.RedString("%s", s)
	case tracker.StatusWithdrawn:
		return color.HiBlackString("%s", s)
	default:
		return string(s)
	}
}

func printApplications(w io.Writer, apps []tracker.Application) {
	if len(apps) == 0 {
		fmt.Fprintln(w, "No applications yet.")
		return
	}

	for _, app := range apps {
		fmt.Fprintf(w, "#%d: %s at %s\n", app.ID, app.JobTitle, app.Company)
		fmt.Fprintf(w, "   Status: %s | Applied: %s\n", statusString(app.Status), app.DateApplied)
		fmt.Fprintf(w, "   URL: %s\n", app.JobURL)
		if app.Notes != "" {
			notes := []rune(strings.TrimSpace(app.Notes))
			if len(notes) > 100 {
				notes = append(notes[:100], []rune("...")...)
			}
			fmt.Fprintf(w, "   Notes: %s\n", string(notes))
		}
		fmt.Fprintln(w)
	}
}

func printDashboard(w io.Writer, t *tracker.Tracker, now time.Time) {
	stats := t.Statistics(now)
	rule := strings.Repeat("=", 80)
	bold := color.New(color.Bold).SprintFunc()

	fmt.Fprintf(w, "\n%s\n%s\n%s\n", rule, bold("JOB APPLICATION DASHBOARD"), rule)

	fmt.Fprintf(w, "\n%s\n", bold("STATISTICS"))
	fmt.Fprintf(w, "   Total Applications: %d\n", stats.Total)
	fmt.Fprintf(w, "   Recent (Last 7 days): %d\n", stats.RecentApplications)
	fmt.Fprintf(w, "   Response Rate: %.1f%%\n", stats.ResponseRate)

	fmt.Fprintf(w, "\n%s\n", bold("BY STATUS"))
	for _, status := range tracker.Statuses {
		if n := stats.ByStatus[status]; n > 0 {
			fmt.Fprintf(w, "   %s: %d\n", statusString(status), n)
		}
	}

	fmt.Fprintf(w, "\n%s\n", bold("TOP COMPANIES"))
	companies := make([]string, 0, len(stats.ByCompany))
	for company := range stats.ByCompany {
		companies = append(companies, company)
	}
	sort.SliceStable(companies, func(i, j int) bool {
		a, b := stats.ByCompany[companies[i]], stats.ByCompany[companies[j]]
		if a != b {
			return a > b
		}
		return companies[i] < companies[j]
	})
	if len(companies) > topCompanies {
		companies = companies[:topCompanies]
	}
	for _, company := range companies {
		fmt.Fprintf(w, "   %s: %d\n", company, stats.ByCompany[company])
	}

	if pending := t.PendingFollowUps(now); len(pending) > 0 {
		fmt.Fprintf(w, "\n%s\n", color.YellowString("PENDING FOLLOW-UPS (%d)", len(pending)))
		for _, app := range pending {
			fmt.Fprintf(w, "   #%d: %s at %s - %s\n", app.ID, app.JobTitle, app.Company, *app.FollowUpDate)
		}
	}

	fmt.Fprintf(w, "\n%s\n", bold("RECENT APPLICATIONS"))
	for _, app := range t.Recent(5) {
		fmt.Fprintf(w, "   %s at %s - %s (%s)\n", app.JobTitle, app.Company, statusString(app.Status), app.DateApplied)
	}

	fmt.Fprintf(w, "\n%s\n\n", rule)
}
