package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/chipgrid/trackplan/pkg/pipeline"
	"github.com/chipgrid/trackplan/pkg/render"
	"github.com/chipgrid/trackplan/pkg/wire"
)

func newPlaceCmd() *cobra.Command {
	var (
		specPath string
		techPath string
		layer    int
		tracks   int
		origin   int64
		align    string
		ptype    string
		format   string
		output   string
	)

	cmd := &cobra.Command{
		Use:   "place",
		Short: "Resolve wire positions from a specification",
		Long: `Place runs the full placement pipeline: it normalizes the wire
specification, expands bus notation, builds and validates the ordering
graph, solves ordinals group by group, and resolves coordinates against
the technology table. Without --tech a uniform unit table is used, so
coordinates equal track indices.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			defAlign, err := wire.ParseAlignment(align)
			if err != nil {
				return err
			}

			prog := newProgress(logger)
			runner := pipeline.NewRunner(logger)
			result, err := runner.Execute(cmd.Context(), pipeline.Options{
				SpecPath:         specPath,
				TechPath:         techPath,
				Layer:            layer,
				Tracks:           tracks,
				Origin:           origin,
				DefaultAlign:     defAlign,
				DefaultPlaceType: ptype,
				Logger:           logger,
			})
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("placed %d wires on %d tracks", result.Stats.WireCount, result.Tracks))

			out, err := formatResult(result, format)
			if err != nil {
				return err
			}
			return writeOutput(output, out)
		},
	}

	cmd.Flags().StringVarP(&specPath, "spec", "s", "", "wire specification YAML file (required)")
	cmd.Flags().StringVarP(&techPath, "tech", "t", "", "technology table TOML file")
	cmd.Flags().IntVarP(&layer, "layer", "l", 0, "routing layer ID")
	cmd.Flags().IntVar(&tracks, "tracks", 0, "available track count (0 = auto-size)")
	cmd.Flags().Int64Var(&origin, "origin", 0, "coordinate of track 0")
	cmd.Flags().StringVar(&align, "align", string(pipeline.DefaultAlign), "default alignment policy")
	cmd.Flags().StringVar(&ptype, "ptype", "", "default placement type")
	cmd.Flags().StringVarP(&format, "format", "f", "table", "output format: table, json, dot")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	_ = cmd.MarkFlagRequired("spec")

	return cmd
}

// placedWire is one row of the JSON placement output.
type placedWire struct {
	Wire       string `json:"wire"`
	WireType   string `json:"wire_type"`
	Ordinal    int    `json:"ordinal"`
	Coordinate int64  `json:"coordinate"`
	Shared     bool   `json:"shared,omitempty"`
}

type placement struct {
	Tracks int          `json:"tracks"`
	Low    int64        `json:"low"`
	High   int64        `json:"high"`
	Wires  []placedWire `json:"wires"`
}

func formatResult(result *pipeline.Result, format string) ([]byte, error) {
	switch format {
	case "table":
		return formatTable(result), nil
	case "json":
		return json.MarshalIndent(buildPlacement(result), "", "  ")
	case "dot":
		dot := render.ToDOT(result.Graph, render.Options{
			Ordinals:    result.Ordinals,
			Coordinates: result.Coordinates,
		})
		return []byte(dot), nil
	default:
		return nil, fmt.Errorf("invalid format: %q (must be one of: table, json, dot)", format)
	}
}

func buildPlacement(result *pipeline.Result) placement {
	p := placement{
		Tracks: result.Tracks,
		Low:    result.Extent.Low,
		High:   result.Extent.High,
	}
	for _, n := range result.Graph.Nodes() {
		p.Wires = append(p.Wires, placedWire{
			Wire:       n.ID.String(),
			WireType:   n.WireType,
			Ordinal:    result.Ordinals[n.ID],
			Coordinate: result.Coordinates[n.ID],
			Shared:     n.Shared,
		})
	}
	sort.Slice(p.Wires, func(i, j int) bool {
		if p.Wires[i].Ordinal != p.Wires[j].Ordinal {
			return p.Wires[i].Ordinal < p.Wires[j].Ordinal
		}
		return p.Wires[i].Wire < p.Wires[j].Wire
	})
	return p
}

func formatTable(result *pipeline.Result) []byte {
	p := buildPlacement(result)

	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ORDINAL\tWIRE\tTYPE\tCOORD\tSHARED")
	for _, pw := range p.Wires {
		shared := ""
		if pw.Shared {
			shared = "yes"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\n", pw.Ordinal, pw.Wire, pw.WireType, pw.Coordinate, shared)
	}
	w.Flush()
	fmt.Fprintf(&buf, "\ntracks: %d  extent: [%d, %d]\n", p.Tracks, p.Low, p.High)
	return buf.Bytes()
}
