// Package rebuild provides the cache rebuild command
package rebuild

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tphakala/rps-results/internal/app"
	"github.com/tphakala/rps-results/internal/cachebuilder"
	rebuildjob "github.com/tphakala/rps-results/internal/rebuild"
)

// Command creates and returns the rebuild command
func Command(ctx *app.Context) *cobra.Command {
	var background bool

	cmd := &cobra.Command{
		Use:   "rebuild <result-set-id> [category-id...]",
		Short: "Regenerate the result cache of a result set",
		Long: `Rebuild regenerates the cached result matrices of a result set from its
normalized records. Without category ids every category of the result set is
rebuilt. A result type that fails is reported and the remaining types are
still rebuilt.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := app.ParseIDs(args)
			if err != nil {
				return err
			}
			a, err := ctx.App()
			if err != nil {
				return err
			}
			if background {
				return runBackground(cmd, a, ids[0], ids[1:])
			}
			return runForeground(cmd, a, ids[0], ids[1:])
		},
	}

	cmd.Flags().BoolVar(&background, "background", false, "Rebuild categories in parallel on the background runner")
	return cmd
}

func runForeground(cmd *cobra.Command, a *app.App, resultSetID uint, categoryIDs []uint) error {
	var reports []*cachebuilder.BuildReport
	if len(categoryIDs) == 0 {
		var err error
		if reports, err = a.Service.RebuildResultSet(cmd.Context(), resultSetID); err != nil {
			printReports(cmd.OutOrStdout(), reports)
			return err
		}
	}
	for _, id := range categoryIDs {
		report, err := a.Service.RebuildCache(cmd.Context(), resultSetID, id)
		if report != nil {
			reports = append(reports, report)
		}
		if err != nil {
			printReports(cmd.OutOrStdout(), reports)
			return err
		}
	}
	printReports(cmd.OutOrStdout(), reports)
	return nil
}

func runBackground(cmd *cobra.Command, a *app.App, resultSetID uint, categoryIDs []uint) error {
	jobID, err := a.Service.SubmitRebuild(cmd.Context(), resultSetID, categoryIDs...)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Submitted rebuild job %s\n", jobID)

	var completion rebuildjob.Completion
	select {
	case completion = <-a.Runner.Completions():
	case <-cmd.Context().Done():
		return cmd.Context().Err()
	}

	printReports(cmd.OutOrStdout(), completion.Reports)
	return a.Service.Apply(completion)
}

func printReports(w io.Writer, reports []*cachebuilder.BuildReport) {
	for _, r := range reports {
		fmt.Fprintf(w, "Result set %d, category %d (%s): %d result types in %s\n",
			r.ResultSetID, r.ResultCategoryID, r.Scope, len(r.Built), r.Duration.Round(time.Millisecond))
		for _, resultType := range r.Built {
			fmt.Fprintf(w, "  %-24s %d rows\n", resultType, r.Rows[resultType])
		}
		for _, resultType := range r.Skipped {
			fmt.Fprintf(w, "  %-24s skipped\n", resultType)
		}
		for _, f := range r.Failures {
			fmt.Fprintf(w, "  %-24s FAILED: %v\n", f.ResultType, f.Err)
		}
	}
	if failed := failedTypes(reports); len(failed) > 0 {
		fmt.Fprintf(w, "Failed result types: %s\n", strings.Join(failed, ", "))
	}
}

func failedTypes(reports []*cachebuilder.BuildReport) []string {
	var out []string
	for _, r := range reports {
		out = append(out, r.FailedTypes()...)
	}
	return out
}
