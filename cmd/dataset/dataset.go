// Package dataset provides commands that print result datasets
package dataset

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tphakala/rps-results/internal/app"
	ds "github.com/tphakala/rps-results/internal/dataset"
	"github.com/tphakala/rps-results/internal/export"
	"github.com/tphakala/rps-results/internal/shorthand"
)

// output holds the flags shared by every dataset subcommand.
type output struct {
	format string
	path   string
}

func (o *output) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.format, "format", "f", export.FormatYAML,
		"Output format: "+strings.Join(export.Formats, ", "))
	cmd.Flags().StringVarP(&o.path, "out", "o", "", "Write to this file instead of stdout")
}

// write prints datasets, or reports that there is no data.
func (o *output) write(cmd *cobra.Command, datasets ...*ds.Dataset) error {
	empty := true
	for _, d := range datasets {
		if d != nil {
			empty = false
		}
	}
	if empty {
		fmt.Fprintln(cmd.ErrOrStderr(), "No data")
		return nil
	}
	if o.path != "" {
		return export.WriteFile(o.path, o.format, datasets...)
	}
	return export.Write(cmd.OutOrStdout(), o.format, datasets...)
}

// Command creates and returns the dataset command
func Command(ctx *app.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dataset",
		Short: "Print cached result datasets",
	}
	cmd.AddCommand(
		standardCommand(ctx),
		elementCommand(ctx),
		jointCommand(ctx),
		maxMinCommand(ctx),
		driftMaxMinCommand(ctx),
		shorthandCommand(ctx),
	)
	return cmd
}

func standardCommand(ctx *app.Context) *cobra.Command {
	var out output
	var ascending bool

	cmd := &cobra.Command{
		Use:     "standard <result-type> <direction> <result-set-id>",
		Short:   "Story level dataset, e.g. Drifts X 1",
		Args:    cobra.ExactArgs(3),
		Example: "  rps dataset standard Drifts X 1 --format xlsx --out drifts.xlsx",
		RunE: func(cmd *cobra.Command, args []string) error {
			rsID, err := app.ParseID(args[2])
			if err != nil {
				return err
			}
			a, err := ctx.App()
			if err != nil {
				return err
			}
			get := a.Service.GetStandardDataset
			if ascending {
				get = a.Service.GetStandardDatasetAscending
			}
			d, err := get(cmd.Context(), args[0], args[1], rsID)
			if err != nil {
				return err
			}
			return out.write(cmd, d)
		},
	}
	out.register(cmd)
	cmd.Flags().BoolVar(&ascending, "ascending", false, "List the bottom story first")
	return cmd
}

func elementCommand(ctx *app.Context) *cobra.Command {
	var out output

	cmd := &cobra.Command{
		Use:   "element <element-id> <result-type> <direction> <result-set-id>",
		Short: "Dataset of one element, e.g. 12 WallShears V2 1",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			elementID, err := app.ParseID(args[0])
			if err != nil {
				return err
			}
			rsID, err := app.ParseID(args[3])
			if err != nil {
				return err
			}
			a, err := ctx.App()
			if err != nil {
				return err
			}
			d, err := a.Service.GetElementDataset(cmd.Context(), elementID, args[1], args[2], rsID)
			if err != nil {
				return err
			}
			return out.write(cmd, d)
		},
	}
	out.register(cmd)
	return cmd
}

func jointCommand(ctx *app.Context) *cobra.Command {
	var out output

	cmd := &cobra.Command{
		Use:   "joint <result-type> <result-set-id>",
		Short: "Joint dataset, e.g. SoilPressures 1",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rsID, err := app.ParseID(args[1])
			if err != nil {
				return err
			}
			a, err := ctx.App()
			if err != nil {
				return err
			}
			d, err := a.Service.GetJointDataset(cmd.Context(), args[0], rsID)
			if err != nil {
				return err
			}
			return out.write(cmd, d)
		},
	}
	out.register(cmd)
	return cmd
}

func maxMinCommand(ctx *app.Context) *cobra.Command {
	var out output

	cmd := &cobra.Command{
		Use:   "maxmin <result-type> <result-set-id>",
		Short: "Signed max/min envelope of a result type, e.g. ColumnAxials 1",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rsID, err := app.ParseID(args[1])
			if err != nil {
				return err
			}
			a, err := ctx.App()
			if err != nil {
				return err
			}
			d, err := a.Service.GetGenericMaxMinDataset(cmd.Context(), rsID, args[0])
			if err != nil {
				return err
			}
			return out.write(cmd, d)
		},
	}
	out.register(cmd)
	return cmd
}

func driftMaxMinCommand(ctx *app.Context) *cobra.Command {
	var out output
	var absolute bool

	cmd := &cobra.Command{
		Use:   "drift-maxmin <result-set-id>",
		Short: "Signed max/min drift envelope",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rsID, err := app.ParseID(args[0])
			if err != nil {
				return err
			}
			a, err := ctx.App()
			if err != nil {
				return err
			}
			get := a.Service.GetDriftMaxMinDataset
			if absolute {
				get = a.Service.GetAbsoluteMaxMinDrifts
			}
			d, err := get(cmd.Context(), rsID)
			if err != nil {
				return err
			}
			return out.write(cmd, d)
		},
	}
	out.register(cmd)
	cmd.Flags().BoolVar(&absolute, "absolute", false, "Keep only the signed value of larger magnitude per load case")
	return cmd
}

func shorthandCommand(ctx *app.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "shorthand <result-set-id>",
		Short: "Load case aliases of a pushover result set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rsID, err := app.ParseID(args[0])
			if err != nil {
				return err
			}
			a, err := ctx.App()
			if err != nil {
				return err
			}
			m, err := a.Service.GetShorthandMapping(cmd.Context(), rsID)
			if err != nil {
				return err
			}
			if len(m) == 0 {
				fmt.Fprintln(cmd.ErrOrStderr(), "No pushover load cases")
				return nil
			}
			for _, name := range sortedKeys(m) {
				fmt.Fprintf(cmd.OutOrStdout(), "%-8s %s\n", m[name], name)
			}
			return nil
		},
	}
}

// sortedKeys orders load case names by alias, then by name.
func sortedKeys(m shorthand.Mapping) []string {
	return slices.SortedFunc(maps.Keys(m), func(a, b string) int {
		return cmp.Or(cmp.Compare(m[a], m[b]), cmp.Compare(a, b))
	})
}
