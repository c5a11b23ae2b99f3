// Package pipeline runs the complete wire placement pipeline.
//
// A placement request flows through six stages, each consuming the
// previous stage's output, executed once per layout-generation call:
//
//  1. Normalize: validate the polymorphic wire specification
//  2. Expand: resolve bus notation into individual wires
//  3. Build: merge groups into the ordering graph
//  4. Validate: check shared wires sit on the graph boundary
//  5. Solve: resolve an ordinal per wire, group by group
//  6. Resolve: convert ordinals into physical coordinates
//
// There is no feedback loop and no shared state across invocations;
// identical inputs and provider responses always yield identical
// results, so a request can be re-run freely during iterative sizing.
//
// # Usage
//
//	runner := pipeline.NewRunner(logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Spec:  spec,
//	    Layer: 4,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	ord := result.Ordinals[wire.ID{Name: "clk"}]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/chipgrid/trackplan/pkg/place"
	"github.com/chipgrid/trackplan/pkg/tech"
	"github.com/chipgrid/trackplan/pkg/wire"
	"github.com/chipgrid/trackplan/pkg/wiregraph"
)

// DefaultAlign is the alignment used when the specification gives none
// at any level and the caller does not override it.
const DefaultAlign = wire.AlignLowerCompact

// Options contains all configuration for one placement request.
type Options struct {
	// Spec is the polymorphic wire specification value (typically
	// decoded from YAML). Exactly one of Spec and SpecPath is used;
	// SpecPath wins when both are set.
	Spec     any
	SpecPath string

	// DefaultAlign is the fallback alignment when the spec declares
	// none. Defaults to LOWER_COMPACT.
	DefaultAlign wire.Alignment

	// DefaultPlaceType is applied to tokens without a placement type.
	DefaultPlaceType string

	// Provider supplies width/spacing rules. When nil, TechPath is
	// loaded; when that is empty too, a uniform unit table is used so
	// coordinates degrade to plain track indices.
	Provider place.Provider
	TechPath string

	// Layer is the routing layer the wires live on.
	Layer int

	// Tracks fixes the number of available ordinals. Zero means
	// auto-size: start from the compact minimum and grow until the
	// alignment constraints fit.
	Tracks int

	// Origin is the coordinate of track 0.
	Origin int64

	// PreLocked fixes wire ordinals before any group is processed.
	PreLocked place.Ordinals

	// Logger receives stage progress. Defaults to a discard logger.
	Logger *log.Logger

	// validated tracks whether ValidateAndSetDefaults has run.
	validated bool
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.DefaultAlign == wire.AlignInherit {
		o.DefaultAlign = DefaultAlign
	}
	if _, err := wire.ParseAlignment(string(o.DefaultAlign)); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if o.Provider == nil && o.TechPath == "" {
		o.Provider = tech.Uniform(1, 0, 1)
	}
	o.validated = true
	return nil
}

// Result contains the outputs of a placement run.
type Result struct {
	// Data is the normalized specification.
	Data wire.Data

	// Groups are the bus-expanded wire groups.
	Groups []wire.ExpandedGroup

	// Graph is the merged ordering graph.
	Graph *wiregraph.Graph

	// Tracks is the number of ordinals actually used (after
	// auto-sizing, if requested).
	Tracks int

	// Ordinals is the resolved ordinal per wire.
	Ordinals place.Ordinals

	// Coordinates is the physical coordinate per wire.
	Coordinates place.Coordinates

	// Extent is the occupied interval of the placement axis.
	Extent place.Extent

	// Lookup gives indexed access to the finished placement.
	Lookup *place.Lookup

	// Stats contains counts and per-stage timings.
	Stats Stats
}

// Stats contains placement execution statistics.
type Stats struct {
	WireCount  int
	EdgeCount  int
	GroupCount int

	ParseTime time.Duration
	BuildTime time.Duration
	SolveTime time.Duration
	CoordTime time.Duration
}
