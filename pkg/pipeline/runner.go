package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/chipgrid/trackplan/pkg/errors"
	"github.com/chipgrid/trackplan/pkg/place"
	"github.com/chipgrid/trackplan/pkg/tech"
	"github.com/chipgrid/trackplan/pkg/wire"
	"github.com/chipgrid/trackplan/pkg/wiregraph"
)

// Runner executes placement requests. It is stateless except for the
// logger: every request builds its own graph and lock map, so one
// Runner can serve many requests.
type Runner struct {
	Logger *log.Logger
}

// NewRunner creates a runner. A nil logger falls back to log.Default().
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Logger: logger}
}

// Execute runs the complete placement pipeline. All errors abort the
// request; no partial result is ever returned.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	// Stage 1+2: normalize and expand the specification.
	parseStart := time.Now()
	data, groups, shared, err := r.Parse(ctx, &opts)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	result.Data = data
	result.Groups = groups
	result.Stats.ParseTime = time.Since(parseStart)
	result.Stats.GroupCount = len(groups)

	// Stage 3+4: build the ordering graph and validate boundaries.
	buildStart := time.Now()
	g, err := r.Build(ctx, groups, shared)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	result.Graph = g
	result.Stats.BuildTime = time.Since(buildStart)
	result.Stats.WireCount = g.NodeCount()
	result.Stats.EdgeCount = g.EdgeCount()

	opts.Logger.Info("built ordering graph",
		"wires", g.NodeCount(),
		"edges", g.EdgeCount(),
		"groups", len(groups))

	// Stage 5: resolve ordinals.
	solveStart := time.Now()
	ords, tracks, err := r.SolveOrdinals(ctx, g, groups, opts)
	if err != nil {
		return nil, fmt.Errorf("solve: %w", err)
	}
	result.Ordinals = ords
	result.Tracks = tracks
	result.Stats.SolveTime = time.Since(solveStart)

	opts.Logger.Info("resolved ordinals",
		"tracks", tracks,
		"duration", result.Stats.SolveTime)

	// Stage 6: resolve physical coordinates.
	coordStart := time.Now()
	provider, err := r.provider(opts)
	if err != nil {
		return nil, fmt.Errorf("tech: %w", err)
	}
	coords, extent, err := place.ResolveCoordinates(g, ords, tracks, provider, opts.Layer, opts.Origin)
	if err != nil {
		return nil, fmt.Errorf("resolve: %w", err)
	}
	result.Coordinates = coords
	result.Extent = extent
	result.Lookup = place.NewLookup(g, coords)
	result.Stats.CoordTime = time.Since(coordStart)

	opts.Logger.Info("resolved coordinates",
		"low", extent.Low,
		"high", extent.High,
		"duration", result.Stats.CoordTime)

	return result, nil
}

// Parse normalizes the raw specification and expands bus notation.
func (r *Runner) Parse(ctx context.Context, opts *Options) (wire.Data, []wire.ExpandedGroup, []wire.ID, error) {
	raw := opts.Spec
	if opts.SpecPath != "" {
		loaded, err := wire.LoadSpec(opts.SpecPath)
		if err != nil {
			return wire.Data{}, nil, nil, err
		}
		raw = loaded
	}

	data, err := wire.Normalize(raw, opts.DefaultAlign, opts.DefaultPlaceType)
	if err != nil {
		return wire.Data{}, nil, nil, err
	}
	groups, err := wire.Expand(data.Groups)
	if err != nil {
		return wire.Data{}, nil, nil, err
	}
	shared, err := wire.ParseSharedNames(data.Shared)
	if err != nil {
		return wire.Data{}, nil, nil, err
	}
	return data, groups, shared, nil
}

// Build merges the expanded groups into the ordering graph and checks
// the shared-wire boundary constraint over the complete merged graph.
func (r *Runner) Build(ctx context.Context, groups []wire.ExpandedGroup, shared []wire.ID) (*wiregraph.Graph, error) {
	g, err := wiregraph.Build(groups, shared)
	if err != nil {
		return nil, err
	}
	if err := g.ValidateBoundary(); err != nil {
		return nil, err
	}
	return g, nil
}

// SolveOrdinals resolves ordinals, auto-sizing the track count when the
// caller did not fix one: starting from the compact minimum, the solve
// is retried with one extra track whenever alignment renders the
// current count unsatisfiable. The retry budget is bounded by the wire
// count; a spec that cannot be placed within that budget reports the
// last UNSATISFIABLE error.
func (r *Runner) SolveOrdinals(ctx context.Context, g *wiregraph.Graph, groups []wire.ExpandedGroup, opts Options) (place.Ordinals, int, error) {
	if opts.Tracks > 0 {
		solver := place.Solver{Graph: g, Groups: groups, Tracks: opts.Tracks, PreLocked: opts.PreLocked}
		ords, err := solver.Run()
		return ords, opts.Tracks, err
	}

	minTracks, err := place.MinTracks(g, groups)
	if err != nil {
		return nil, 0, err
	}
	if minTracks == 0 {
		return place.Ordinals{}, 0, nil
	}

	var lastErr error
	for tracks := minTracks; tracks <= minTracks+g.NodeCount(); tracks++ {
		solver := place.Solver{Graph: g, Groups: groups, Tracks: tracks, PreLocked: opts.PreLocked}
		ords, err := solver.Run()
		if err == nil {
			if tracks > minTracks {
				opts.Logger.Debug("auto-sized track count", "min", minTracks, "tracks", tracks)
			}
			return ords, tracks, nil
		}
		if !errors.Is(err, errors.ErrCodeUnsatisfiable) {
			return nil, 0, err
		}
		lastErr = err
	}
	return nil, 0, lastErr
}

func (r *Runner) provider(opts Options) (place.Provider, error) {
	if opts.Provider != nil {
		return opts.Provider, nil
	}
	return tech.Load(opts.TechPath)
}
