// Package matrix assembles demand matrices and is the single public entry
// point of the forecasting core. Generation never fails outward: on a
// structural error the caller receives a minimal valid empty matrix and the
// failure lands in the diagnostics stream.
package matrix

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/jcorreia/practiva/internal/forecast/demand"
	"github.com/jcorreia/practiva/internal/forecast/diagnostics"
	"github.com/jcorreia/practiva/internal/forecast/domain"
	"github.com/jcorreia/practiva/internal/forecast/revenue"
	"github.com/jcorreia/practiva/internal/forecast/skills"
	"github.com/jcorreia/practiva/internal/forecast/storage"
	"github.com/jcorreia/practiva/internal/forecast/validate"
)

const defaultHorizonMonths = 12

// Deps wires the generator's collaborators. Tasks and Resolver are required;
// the rest degrade to empty data when nil or failing.
type Deps struct {
	Tasks         storage.TaskStore
	Clients       storage.ClientStore
	FeeRates      storage.FeeRateStore
	ClientRevenue storage.ClientRevenueStore
	Resolver      *skills.Resolver
	Diagnostics   *diagnostics.Emitter

	// HorizonMonths is the forecast window length; zero selects 12.
	HorizonMonths int
	// FallbackRate overrides the default skill fee fallback when positive.
	FallbackRate float64
	// Permissive keeps structurally flawed tasks in the matrix.
	Permissive bool
	// Cache overrides the default matrix cache.
	Cache *Cache
	// Clock overrides time.Now, for tests.
	Clock func() time.Time
}

// Generator coordinates validation, aggregation, revenue, and caching.
type Generator struct {
	deps      Deps
	validator *validate.Validator
	cache     *Cache
	clock     func() time.Time
	horizon   int
	tracer    trace.Tracer
}

// NewGenerator creates a matrix generator.
func NewGenerator(deps Deps) *Generator {
	cache := deps.Cache
	if cache == nil {
		cache = NewCache(0, 0)
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	horizon := deps.HorizonMonths
	if horizon <= 0 {
		horizon = defaultHorizonMonths
	}
	return &Generator{
		deps:      deps,
		validator: validate.New(deps.Resolver, deps.Diagnostics),
		cache:     cache,
		clock:     clock,
		horizon:   horizon,
		tracer:    otel.Tracer("practiva/forecast"),
	}
}

// Generate produces the demand matrix for mode and filters. It never
// propagates a failure: structural errors degrade to an empty matrix.
func (g *Generator) Generate(ctx context.Context, mode domain.Mode, filters domain.Filters) domain.MatrixData {
	if mode == "" {
		mode = domain.ModeDemandOnly
	}
	strategy := filters.Strategy()

	ctx, span := g.tracer.Start(ctx, "forecast.generate",
		trace.WithAttributes(
			attribute.String("forecast.mode", string(mode)),
			attribute.String("forecast.strategy", string(strategy)),
			attribute.Int("forecast.horizon_months", g.horizon),
		))
	defer span.End()

	data, err := g.generateGuarded(ctx, mode, strategy, filters)
	if err != nil {
		span.RecordError(err)
		log.Printf("matrix: generation failed, serving empty matrix: %v", err)
		g.deps.Diagnostics.Emit(ctx, diagnostics.SeverityError, "matrix", err.Error(), string(mode))
		return domain.EmptyMatrix()
	}
	return data
}

// CacheKey exposes the cache key derivation for diagnostics and tests.
func (g *Generator) CacheKey(mode domain.Mode, start time.Time, strategy domain.AggregationStrategy) string {
	return Key(mode, start, strategy)
}

// ClearCache drops all memoized matrices.
func (g *Generator) ClearCache() {
	g.cache.Clear()
}

// Cache returns the underlying matrix cache for admin surfaces.
func (g *Generator) Cache() *Cache {
	return g.cache
}

// generateGuarded converts panics anywhere in the pipeline into errors so a
// forecasting widget can never crash its host.
func (g *Generator) generateGuarded(ctx context.Context, mode domain.Mode, strategy domain.AggregationStrategy, filters domain.Filters) (data domain.MatrixData, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("generation panic: %v", r)
		}
	}()
	return g.generate(ctx, mode, strategy, filters)
}

func (g *Generator) generate(ctx context.Context, mode domain.Mode, strategy domain.AggregationStrategy, filters domain.Filters) (domain.MatrixData, error) {
	start := monthStart(g.clock())
	key := Key(mode, start, strategy)
	if cached, ok := g.cache.Get(key); ok {
		return cached, nil
	}

	if g.deps.Tasks == nil {
		return domain.MatrixData{}, fmt.Errorf("task store is not configured")
	}
	records, err := g.deps.Tasks.ListActiveRecurringTasks(ctx)
	if err != nil {
		return domain.MatrixData{}, fmt.Errorf("load recurring tasks: %w", err)
	}

	result, err := g.validator.Validate(ctx, records, g.deps.Permissive)
	if err != nil {
		return domain.MatrixData{}, fmt.Errorf("validate tasks: %w", err)
	}
	tasks := result.Valid

	periods := domain.Periods(start, g.horizon)
	if len(periods) == 0 {
		return domain.MatrixData{}, fmt.Errorf("empty forecast horizon")
	}

	clientNames := g.resolveClients(ctx, tasks)

	var skillNames []string
	if strategy == domain.StrategySkillBased {
		for _, skill := range demand.SkillsOf(tasks) {
			if filters.WantsSkill(skill) {
				skillNames = append(skillNames, skill)
			}
		}
	}

	// Periods have no ordering dependency on each other; compute them
	// concurrently and merge period-major, skill-minor for reproducibility.
	perPeriod := make([][]domain.DataPoint, len(periods))
	grp, grpCtx := errgroup.WithContext(ctx)
	for i, p := range periods {
		grp.Go(func() error {
			if err := grpCtx.Err(); err != nil {
				return err
			}
			if strategy == domain.StrategyStaffBased {
				perPeriod[i] = demand.StaffDataPoints(p, tasks, filters, clientNames)
				return nil
			}
			points := make([]domain.DataPoint, 0, len(skillNames))
			for _, skill := range skillNames {
				totals := demand.ForSkillPeriod(skill, p, tasks)
				points = append(points, domain.DataPoint{
					SkillType:   skill,
					Month:       p.Key(),
					MonthLabel:  p.Label(),
					DemandHours: totals.Hours,
					TaskCount:   totals.Tasks,
					ClientCount: totals.Clients,
					Breakdown:   demand.Breakdown(skill, p, tasks, clientNames),
				})
			}
			perPeriod[i] = points
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return domain.MatrixData{}, fmt.Errorf("compute data points: %w", err)
	}

	var points []domain.DataPoint
	for _, batch := range perPeriod {
		points = append(points, batch...)
	}

	m := assemble(periods, points, strategy)

	rates := g.loadFeeRates(ctx)
	expected := g.loadExpectedRevenue(ctx)
	calc := revenue.NewCalculator(rates, expected, g.deps.FallbackRate, g.deps.Diagnostics)
	calc.Apply(ctx, &m, g.horizon)

	g.cache.Set(key, m)
	return m, nil
}

// resolveClients batch-resolves client display names once per generation
// pass. Resolution failure degrades to the joined names on the tasks.
func (g *Generator) resolveClients(ctx context.Context, tasks []domain.RecurringTask) map[string]string {
	if g.deps.Clients == nil {
		return nil
	}
	seen := map[string]bool{}
	var ids []string
	for _, task := range tasks {
		if task.ClientID != "" && !seen[task.ClientID] {
			seen[task.ClientID] = true
			ids = append(ids, task.ClientID)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	names, err := g.deps.Clients.ResolveClientIDs(ctx, ids)
	if err != nil {
		log.Printf("matrix: resolve client names: %v", err)
		g.deps.Diagnostics.Emit(ctx, diagnostics.SeverityWarn, "clients", "client name resolution failed", "")
		return nil
	}
	return names
}

func (g *Generator) loadFeeRates(ctx context.Context) map[string]float64 {
	if g.deps.FeeRates == nil {
		return nil
	}
	rates, err := g.deps.FeeRates.SkillFeeRates(ctx)
	if err != nil {
		log.Printf("matrix: load fee rates: %v", err)
		g.deps.Diagnostics.Emit(ctx, diagnostics.SeverityWarn, "revenue", "fee rate load failed", "")
		return nil
	}
	return rates
}

func (g *Generator) loadExpectedRevenue(ctx context.Context) map[string]float64 {
	if g.deps.ClientRevenue == nil {
		return nil
	}
	expected, err := g.deps.ClientRevenue.ClientsWithExpectedRevenue(ctx)
	if err != nil {
		log.Printf("matrix: load expected revenue: %v", err)
		g.deps.Diagnostics.Emit(ctx, diagnostics.SeverityWarn, "revenue", "expected revenue load failed", "")
		return nil
	}
	return expected
}

func monthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
