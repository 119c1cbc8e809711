package tradevolume

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/rickgao/xiv-marketboard/internal/metrics"
	"github.com/rickgao/xiv-marketboard/internal/model"
	"github.com/rickgao/xiv-marketboard/internal/writer"
)

// Config holds engine settings.
type Config struct {
	ChunkSize           int             // Item ids per history request (default: 90)
	FetchConcurrency    int             // Max in-flight history requests, <= 0 = unbounded
	VelocityConcurrency int             // Max in-flight velocity requests, <= 0 = unbounded
	ZeroPricePolicy     ZeroPricePolicy // fail (default) or skip
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		ChunkSize:           90,
		FetchConcurrency:    32,
		VelocityConcurrency: 32,
		ZeroPricePolicy:     ZeroPriceFail,
	}
}

// RunSummary describes a completed run.
type RunSummary struct {
	RunID      string
	DataCenter string
	HomeWorld  model.World
	Worlds     int
	Items      int // Catalog size
	Chunks     int
	Reduced    int     // Items with a valid average in at least one world
	Skipped    []int64 // Items dropped by the zero price policy
	Written    writer.Result
	Duration   time.Duration
}

// Engine runs trade volume aggregations.
type Engine struct {
	cfg      Config
	market   MarketSource
	topology Topology
	catalog  Catalog
	sink     Sink
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// New creates a new Engine.
func New(cfg Config, market MarketSource, topology Topology, catalog Catalog, sink Sink, logger *slog.Logger, m *metrics.Metrics) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.ChunkSize < 1 {
		cfg.ChunkSize = DefaultConfig().ChunkSize
	}
	if cfg.ZeroPricePolicy == "" {
		cfg.ZeroPricePolicy = ZeroPriceFail
	}
	return &Engine{
		cfg:      cfg,
		market:   market,
		topology: topology,
		catalog:  catalog,
		sink:     sink,
		logger:   logger,
		metrics:  m,
	}
}

// Run aggregates every catalog item across the data center's worlds relative
// to the home world and persists the result.
func (e *Engine) Run(ctx context.Context, dataCenter, homeWorld string) (summary RunSummary, err error) {
	start := time.Now()
	summary = RunSummary{RunID: uuid.NewString(), DataCenter: dataCenter}
	logger := e.logger.With("run_id", summary.RunID, "data_center", dataCenter, "home_world", homeWorld)

	defer func() {
		summary.Duration = time.Since(start)
		e.metrics.RunFinished(err, time.Now())
	}()

	// Resolve inputs
	server, err := e.topology.DataCenterByName(ctx, dataCenter)
	if err != nil {
		return summary, fmt.Errorf("resolve data center: %w", err)
	}
	home, ok := findWorld(server.Worlds, homeWorld)
	if !ok {
		return summary, fmt.Errorf("home world %q in data center %q: %w", homeWorld, dataCenter, ErrUnknownWorld)
	}
	summary.HomeWorld = home

	itemIDs, err := e.catalog.ItemIDs(ctx)
	if err != nil {
		return summary, fmt.Errorf("load catalog: %w", err)
	}

	worlds := OrderWorlds(server.Worlds, home.ID)
	chunks := Chunk(itemIDs, e.cfg.ChunkSize)
	summary.Worlds = len(worlds)
	summary.Items = len(itemIDs)
	summary.Chunks = len(chunks)
	e.metrics.SetItems("catalog", len(itemIDs))

	logger.Info("aggregation started",
		"worlds", len(worlds),
		"items", len(itemIDs),
		"chunks", len(chunks),
		"requests", len(worlds)*len(chunks),
	)

	// Fetch
	stage := time.Now()
	histories, err := fetchHistories(ctx, e.market, worlds, chunks, e.cfg.FetchConcurrency)
	if err != nil {
		return summary, fmt.Errorf("fetch sale history: %w", err)
	}
	e.metrics.ObserveStage("fetch", time.Since(stage))
	logger.Debug("sale history fetched", "duration", time.Since(stage))

	// Reduce
	stage = time.Now()
	reducer := NewReducer(home.ID)
	for _, h := range histories {
		reducer.Observe(h.WorldID, h.History)
	}
	records := reducer.Records()
	if err := checkRecords(records, worlds, home.ID); err != nil {
		return summary, err
	}
	summary.Reduced = len(records)
	e.metrics.ObserveStage("reduce", time.Since(stage))
	e.metrics.SetItems("reduced", len(records))
	logger.Debug("sale history reduced", "items", len(records), "dropped", len(itemIDs)-len(records))

	// Score
	stage = time.Now()
	rows, skipped, err := scoreAll(ctx, e.market, home, records, e.cfg.VelocityConcurrency, e.cfg.ZeroPricePolicy)
	if err != nil {
		return summary, fmt.Errorf("score: %w", err)
	}
	summary.Skipped = skipped
	e.metrics.ObserveStage("score", time.Since(stage))
	e.metrics.SetItems("scored", len(rows))
	if len(skipped) > 0 {
		logger.Warn("items skipped with zero cheapest price", "count", len(skipped), "item_ids", skipped)
	}

	// Persist
	stage = time.Now()
	written, err := e.sink.Upsert(ctx, rows)
	summary.Written = written
	if err != nil {
		return summary, fmt.Errorf("persist: %w", err)
	}
	e.metrics.ObserveStage("persist", time.Since(stage))

	logger.Info("aggregation finished",
		"rows", len(rows),
		"inserted", written.Inserted,
		"ignored", written.Ignored,
		"skipped", len(skipped),
		"duration", time.Since(start),
	)
	return summary, nil
}

func findWorld(worlds []model.World, name string) (model.World, bool) {
	for _, w := range worlds {
		if w.Name == name {
			return w, true
		}
	}
	return model.World{}, false
}

// checkRecords verifies every record points at a fetched world and that a
// home-cheapest record carries the home price.
func checkRecords(records []model.LowestPriceRecord, worlds []model.World, homeID int64) error {
	member := make(map[int64]struct{}, len(worlds))
	for _, w := range worlds {
		member[w.ID] = struct{}{}
	}

	for _, rec := range records {
		if _, ok := member[rec.CheapestWorldID]; !ok {
			return &LookupInvariantError{
				Stage:  "reduce",
				ItemID: rec.ItemID,
				Detail: fmt.Sprintf("cheapest world %d is not a member world", rec.CheapestWorldID),
			}
		}
		if rec.CheapestWorldID == homeID && !rec.HasHomePrice {
			return &LookupInvariantError{
				Stage:  "reduce",
				ItemID: rec.ItemID,
				Detail: "home world is cheapest but has no home average",
			}
		}
	}
	return nil
}
