package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chipgrid/trackplan/pkg/pipeline"
	"github.com/chipgrid/trackplan/pkg/render"
	"github.com/chipgrid/trackplan/pkg/wire"
)

func newGraphCmd() *cobra.Command {
	var (
		specPath string
		align    string
		ptype    string
		format   string
		output   string
		ordinals bool
	)

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Render the wire ordering graph",
		Long: `Graph builds the ordering graph from a wire specification and
renders it as Graphviz DOT or SVG. With --ordinals the ordinal solver
runs first and each node is labeled with its resolved track.`,
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

			_, groups, shared, err := runner.Parse(cmd.Context(), &opts)
			if err != nil {
				return err
			}
			g, err := runner.Build(cmd.Context(), groups, shared)
			if err != nil {
				return err
			}

			var renderOpts render.Options
			if ordinals {
				ords, _, err := runner.SolveOrdinals(cmd.Context(), g, groups, opts)
				if err != nil {
					return err
				}
				renderOpts.Ordinals = ords
			}

			dot := render.ToDOT(g, renderOpts)

			var out []byte
			switch format {
			case "dot":
				out = []byte(dot)
			case "svg":
				out, err = render.RenderSVG(cmd.Context(), dot)
				if err != nil {
					return err
				}
			default:
				return fmt.Errorf("invalid format: %q (must be one of: dot, svg)", format)
			}

			prog.done(fmt.Sprintf("rendered graph: %d wires, %d edges", g.NodeCount(), g.EdgeCount()))
			return writeOutput(output, out)
		},
	}

	cmd.Flags().StringVarP(&specPath, "spec", "s", "", "wire specification YAML file (required)")
	cmd.Flags().StringVar(&align, "align", string(pipeline.DefaultAlign), "default alignment policy")
	cmd.Flags().StringVar(&ptype, "ptype", "", "default placement type")
	cmd.Flags().StringVarP(&format, "format", "f", "dot", "output format: dot, svg")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&ordinals, "ordinals", false, "solve ordinals and label nodes with tracks")
	_ = cmd.MarkFlagRequired("spec")

	return cmd
}
