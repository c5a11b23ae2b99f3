package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chipgrid/trackplan/pkg/pipeline"
	"github.com/chipgrid/trackplan/pkg/wire"
)

func newCheckCmd() *cobra.Command {
	var (
		specPath string
		align    string
		ptype    string
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate a wire specification",
		Long: `Check normalizes a wire specification, expands bus notation, and
builds the ordering graph, reporting cycles, malformed names, and
shared-wire boundary violations. No placement is performed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			defAlign, err := wire.ParseAlignment(align)
			if err != nil {
				return err
			}

			prog := newProgress(logger)
			runner := pipeline.NewRunner(logger)
			opts := pipeline.Options{
				SpecPath:         specPath,
				DefaultAlign:     defAlign,
				DefaultPlaceType: ptype,
				Logger:           logger,
			}
			if err := opts.ValidateAndSetDefaults(); err != nil {
				return err
			}

			data, groups, shared, err := runner.Parse(cmd.Context(), &opts)
			if err != nil {
				return err
			}
			g, err := runner.Build(cmd.Context(), groups, shared)
			if err != nil {
				return err
			}

			prog.done(fmt.Sprintf("spec ok: %d wires, %d edges, %d groups, %d shared",
				g.NodeCount(), g.EdgeCount(), len(data.Groups), len(shared)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&specPath, "spec", "s", "", "wire specification YAML file (required)")
	cmd.Flags().StringVar(&align, "align", string(pipeline.DefaultAlign), "default alignment policy")
	cmd.Flags().StringVar(&ptype, "ptype", "", "default placement type")
	_ = cmd.MarkFlagRequired("spec")

	return cmd
}
