// Package export provides the workbook export command
package export

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tphakala/rps-results/internal/app"
	"github.com/tphakala/rps-results/internal/dataset"
	dsexport "github.com/tphakala/rps-results/internal/export"
	"github.com/tphakala/rps-results/internal/resulttypes"
)

// Command creates and returns the export command
func Command(ctx *app.Context) *cobra.Command {
	var path string
	var bases []string

	cmd := &cobra.Command{
		Use:   "export <result-set-id> --out <file>",
		Short: "Export every story level dataset of a result set",
		Long: `Export writes one sheet (or document) per story level result type and
direction that has cached data. The format follows the file extension.`,
		Example: "  rps export 1 --out des.xlsx --type Drifts --type Accelerations",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rsID, err := app.ParseID(args[0])
			if err != nil {
				return err
			}
			a, err := ctx.App()
			if err != nil {
				return err
			}

			selected, err := selectBases(bases)
			if err != nil {
				return err
			}

			var datasets []*dataset.Dataset
			for _, base := range selected {
				for _, dir := range resulttypes.Directions(base) {
					d, err := a.Service.GetStandardDataset(cmd.Context(), string(base), string(dir), rsID)
					if err != nil {
						return err
					}
					if d != nil {
						datasets = append(datasets, d)
					}
				}
			}
			if len(datasets) == 0 {
				return fmt.Errorf("result set %d has no cached story results", rsID)
			}

			if err := dsexport.WriteFile(path, dsexport.FormatXLSX, datasets...); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d datasets to %s\n", len(datasets), path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&path, "out", "o", "", "Output file (.xlsx, .json or .yaml)")
	cmd.Flags().StringSliceVarP(&bases, "type", "t", nil, "Result types to export, default all story level types")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

// selectBases returns the story level bases named, or all of them.
func selectBases(names []string) ([]resulttypes.Base, error) {
	var out []resulttypes.Base
	if len(names) == 0 {
		for _, base := range resulttypes.Bases() {
			cfg := resulttypes.For(base, resulttypes.DirNone)
			if cfg.Scope == resulttypes.ScopeGlobal {
				out = append(out, base)
			}
		}
		return out, nil
	}

	for _, name := range names {
		base, ok := resulttypes.ParseBase(name)
		if !ok {
			return nil, fmt.Errorf("unknown result type %q", name)
		}
		if resulttypes.For(base, resulttypes.DirNone).Scope != resulttypes.ScopeGlobal {
			return nil, fmt.Errorf("%s is not a story level result type", name)
		}
		out = append(out, base)
	}
	return out, nil
}
