// Package compare provides the result set comparison command
package compare

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tphakala/rps-results/internal/app"
	"github.com/tphakala/rps-results/internal/dataset"
	"github.com/tphakala/rps-results/internal/export"
)

// options holds the compare flags.
type options struct {
	resultSets []string
	elementID  uint
	joint      bool
	format     string
	path       string
}

// Command creates and returns the compare command
func Command(ctx *app.Context) *cobra.Command {
	var o options

	cmd := &cobra.Command{
		Use:   "compare <result-type> [direction]",
		Short: "Align one result type across result sets",
		Long: `Compare prints one dataset per result set with rows aligned on the shared
story, element or joint identity. Joint results are compared as magnitudes.`,
		Example: `  rps compare Drifts X --result-sets 1,2
  rps compare WallShears V2 --element 12 --result-sets 1,2,3
  rps compare SoilPressures --joint --result-sets 1,2 --out pressures.xlsx`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, ctx, &o, args)
		},
	}

	cmd.Flags().StringSliceVarP(&o.resultSets, "result-sets", "r", nil, "Result set ids to compare (at least two)")
	cmd.Flags().UintVar(&o.elementID, "element", 0, "Compare one element's results")
	cmd.Flags().BoolVar(&o.joint, "joint", false, "Compare joint results")
	cmd.Flags().StringVarP(&o.format, "format", "f", export.FormatYAML,
		"Output format: "+strings.Join(export.Formats, ", "))
	cmd.Flags().StringVarP(&o.path, "out", "o", "", "Write to this file instead of stdout")
	_ = cmd.MarkFlagRequired("result-sets")
	cmd.MarkFlagsMutuallyExclusive("element", "joint")

	return cmd
}

func run(cmd *cobra.Command, ctx *app.Context, o *options, args []string) error {
	ids, err := app.ParseIDs(o.resultSets)
	if err != nil {
		return err
	}
	resultType := args[0]
	direction := ""
	if len(args) > 1 {
		direction = args[1]
	}

	a, err := ctx.App()
	if err != nil {
		return err
	}

	var groups []*dataset.Dataset
	switch {
	case o.joint:
		groups, err = a.Service.BuildJointComparison(cmd.Context(), resultType, ids)
	case o.elementID != 0:
		groups, err = a.Service.BuildElementComparison(cmd.Context(), o.elementID, resultType, direction, ids)
	default:
		groups, err = a.Service.BuildComparison(cmd.Context(), resultType, direction, ids)
	}
	if err != nil {
		return err
	}
	if len(groups) == 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), "No data")
		return nil
	}

	if o.path != "" {
		return export.WriteFile(o.path, o.format, groups...)
	}
	return export.Write(cmd.OutOrStdout(), o.format, groups...)
}
