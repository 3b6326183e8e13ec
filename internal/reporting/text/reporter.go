package text

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/tayodev/snapback/internal/core/domain"
	"github.com/tayodev/snapback/internal/core/ports"
)

const ReporterTypeText = "text"

type Config struct {
	NoColor bool `yaml:"no_color"`
}

type Reporter struct {
	config Config
	writer io.Writer
	logger ports.Logger
}

func NewReporter(cfg Config, logger ports.Logger) (*Reporter, error) {
	if cfg.NoColor || !isTerminal(os.Stdout) {
		color.NoColor = true
	}

	return &Reporter{
		config: cfg,
		writer: os.Stdout,
		logger: logger,
	}, nil
}

func isTerminal(f *os.File) bool {
	stat, _ := f.Stat()
	return (stat.Mode() & os.ModeCharDevice) != 0
}

func (r *Reporter) Report(ctx context.Context, report *domain.RestoreReport) error {
	if report == nil {
		fmt.Fprintln(r.writer, "No report produced.")
		return nil
	}

	outcomes := make([]domain.CandidateOutcome, len(report.Outcomes))
	copy(outcomes, report.Outcomes)
	sort.SliceStable(outcomes, func(i, j int) bool {
		if outcomes[i].Tier != outcomes[j].Tier {
			return outcomes[i].Tier < outcomes[j].Tier
		}
		return outcomes[i].ResourceARN < outcomes[j].ResourceARN
	})

	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	magenta := color.New(color.FgMagenta).SprintFunc()

	title := "Restore Report"
	if report.Operation.Mode == domain.ModeDryRun {
		title = "Restore Preview (dry-run, nothing deleted)"
	}
	fmt.Fprintln(r.writer, title)
	fmt.Fprintln(r.writer, "==========================================")
	fmt.Fprintf(r.writer, "Operation: %s\n", report.Operation.OperationID)
	fmt.Fprintf(r.writer, "Baseline:  %s    Current: %s    Account: %s\n\n",
		report.Operation.BaselineSnapshot, report.Operation.CurrentSnapshot, report.Operation.AccountID)

	tw := tabwriter.NewWriter(r.writer, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "State\tTier\tType\tResource\tDetails")
	fmt.Fprintln(tw, "-----\t----\t----\t--------\t-------")

	for _, out := range outcomes {
		var state, details string
		switch out.State {
		case domain.StateSucceeded:
			state = green("DELETED")
		case domain.StateSkipped:
			state = yellow("SKIPPED")
			details = "already absent"
		case domain.StateFailed:
			state = red("FAILED")
			details = fmt.Sprintf("[%s] %s", out.ErrorClass, out.ErrorMessage)
		default:
			state = cyan("PLANNED")
		}
		if out.Synthetic {
			details = joinDetails("implicit dependent", details)
		}
		if out.CancelledAfter {
			details = joinDetails("completed after cancellation", details)
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\n", state, out.Tier, out.ResourceType, out.ResourceARN, details)
	}
	tw.Flush()

	if len(report.Blocked) > 0 {
		fmt.Fprintf(r.writer, "\n%s\n", magenta("Protected (excluded from deletion):"))
		for _, b := range report.Blocked {
			fmt.Fprintf(r.writer, "  %s  %s\n", b.Resource.ARN, b.Reason)
		}
	}

	fmt.Fprintf(r.writer, "\nPlanned: %d  Protected: %d  Deleted: %d  Skipped: %d  Failed: %d\n",
		report.Planned, report.Protected, report.Succeeded, report.Skipped, report.Failed)
	fmt.Fprintf(r.writer, "Status: %s  Duration: %.1fs\n",
		report.Operation.Status, report.Operation.DurationSeconds())

	return nil
}

func joinDetails(first, rest string) string {
	if rest == "" {
		return first
	}
	return first + "; " + rest
}
