// Package engine runs the full matching pipeline for one student against a
// catalog snapshot: cluster points, per-program eligibility and scoring, then
// tiering.
package engine

import (
	"context"
	stderrors "errors"
	"fmt"
	"runtime"
	"strings"
	"time"

	"career-matching-workers/internal/catalog"
	"career-matching-workers/internal/common/config"
	"career-matching-workers/internal/common/errors"
	"career-matching-workers/internal/common/logger"
	"career-matching-workers/internal/common/metrics"
	"career-matching-workers/internal/common/observability"
	"career-matching-workers/internal/matching/cluster"
	"career-matching-workers/internal/matching/eligibility"
	"career-matching-workers/internal/matching/recommend"
	"career-matching-workers/internal/matching/riasec"
	"career-matching-workers/internal/matching/scorer"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

// Preferences are optional; zero values are neutral.
type Preferences struct {
	BudgetCeiling      *float64 `json:"annualBudgetCeiling,omitempty"`
	CareerInterests    []string `json:"careerInterests,omitempty"`
	PreferredLocations []string `json:"preferredLocations,omitempty"`
}

type Request struct {
	Profile     cluster.Profile
	Preferences Preferences

	// Either a finished profile or raw responses; Profile wins when both are set.
	RiasecProfile *riasec.Profile
	Responses     []riasec.Response

	ProgramIDs []string  // restricts the scan; empty scans the whole snapshot
	TargetYear int       // 0 uses the snapshot's admission year
	Deadline   time.Time // zero means only ctx bounds the run
}

type Result struct {
	recommend.Recommendations
	RunID    string         `json:"runId"`
	Cluster  cluster.Result `json:"cluster"`
	Scanned  int            `json:"programsScanned"`
	Total    int            `json:"programsTotal"`
	Duration time.Duration  `json:"-"`
}

type Options struct {
	Rule          cluster.Rule
	Weights       scorer.Weights
	Bands         scorer.Bands
	Recommend     recommend.Options
	Concurrency   int
	CareerLimit   int
	Questionnaire *riasec.Questionnaire
	Careers       []riasec.Career
}

func DefaultOptions() Options {
	return Options{
		Rule:          cluster.DefaultRule(),
		Weights:       scorer.DefaultWeights(),
		Bands:         scorer.DefaultBands(),
		Recommend:     recommend.DefaultOptions(),
		CareerLimit:   10,
		Questionnaire: riasec.DefaultQuestionnaire(),
		Careers:       riasec.DefaultCareers(),
	}
}

// OptionsFromConfig overlays the matching section of the config on the defaults.
func OptionsFromConfig(cfg config.MatchingConfig, careerLimit int) Options {
	opts := DefaultOptions()
	opts.Rule = cluster.Rule{
		Compulsory:  cfg.Placement.Compulsory,
		MinSubjects: cfg.Placement.MinSubjects,
		MaxSubjects: cfg.Placement.MaxSubjects,
		TargetMax:   cfg.Placement.TargetMax,
	}
	opts.Weights = scorer.Weights{
		Gap:           cfg.Weights.Gap,
		Coverage:      cfg.Weights.Coverage,
		Affordability: cfg.Weights.Affordability,
		Alignment:     cfg.Weights.Alignment,
	}
	opts.Bands = scorer.Bands{
		EligibleFloor:     cfg.EligibleFloor,
		IneligibleCeiling: cfg.IneligibleCeiling,
		GapScale:          cfg.GapScale,
	}
	opts.Recommend = recommend.Options{
		StrongScore: cfg.StrongScore,
		ReachGap:    cfg.ReachGap,
		MaxPerTier:  cfg.MaxPerTier,
	}
	opts.Concurrency = cfg.Concurrency
	if careerLimit > 0 {
		opts.CareerLimit = careerLimit
	}
	return opts
}

type Engine struct {
	opts   Options
	scorer *scorer.Scorer
	obs    *observability.Observability
	logger logger.Logger
}

func New(opts Options, obs *observability.Observability, log logger.Logger) (*Engine, error) {
	if err := opts.Rule.Validate(); err != nil {
		return nil, err
	}
	sc, err := scorer.New(opts.Weights, opts.Bands)
	if err != nil {
		return nil, err
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = runtime.GOMAXPROCS(0)
	}
	if opts.Questionnaire == nil {
		opts.Questionnaire = riasec.DefaultQuestionnaire()
	}
	if opts.Careers == nil {
		opts.Careers = riasec.DefaultCareers()
	}
	return &Engine{
		opts:   opts,
		scorer: sc,
		obs:    obs,
		logger: log.WithFields(map[string]interface{}{"component": "matching-engine"}),
	}, nil
}

func (e *Engine) Questionnaire() *riasec.Questionnaire { return e.opts.Questionnaire }

// ClusterPoints runs only the cluster step under the engine's placement rule.
func (e *Engine) ClusterPoints(profile cluster.Profile) (cluster.Result, error) {
	return cluster.Calculate(profile, e.opts.Rule)
}

// Interests builds a profile from responses and ranks careers against it.
func (e *Engine) Interests(responses []riasec.Response) (riasec.Profile, []riasec.CareerMatch, error) {
	p, err := riasec.BuildProfile(e.opts.Questionnaire, responses)
	if err != nil {
		return riasec.Profile{}, nil, err
	}
	return p, e.Careers(p), nil
}

// Careers ranks the configured career catalog against p.
func (e *Engine) Careers(p riasec.Profile) []riasec.CareerMatch {
	return riasec.MatchCareers(p, e.opts.Careers, e.opts.CareerLimit)
}

// Match scores every program in snap for the request. Input validation errors
// are returned before any program is scored. When the deadline passes the
// programs scored so far are returned with Truncated set.
func (e *Engine) Match(ctx context.Context, req Request, snap *catalog.Snapshot) (Result, error) {
	start := time.Now()
	if snap == nil {
		return Result{}, errors.NewCatalogUnavailableError("no catalog snapshot supplied")
	}

	ctx, span := e.obs.StartSpan(ctx, "engine.match", attribute.String("catalog.version", snap.Version()))
	defer span.End()

	points, err := cluster.Calculate(req.Profile, e.opts.Rule)
	if err != nil {
		return Result{}, err
	}

	profile, careers, err := e.resolveInterests(req)
	if err != nil {
		return Result{}, err
	}

	programs := snap.Programs()
	if len(req.ProgramIDs) > 0 {
		programs = snap.Filter(req.ProgramIDs)
	}

	targetYear := req.TargetYear
	if targetYear == 0 {
		targetYear = snap.AdmissionYear()
	}

	base := scorer.Input{
		ClusterPoints:    points.Points,
		StudentSubjects:  points.Subjects,
		BudgetCeiling:    req.Preferences.BudgetCeiling,
		CareerInterests:  req.Preferences.CareerInterests,
		CareerMatchNames: riasec.CareerNames(careers),
	}
	if profile != nil {
		base.HollandCode = profile.HollandCode
	}

	runCtx := ctx
	if !req.Deadline.IsZero() {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithDeadline(ctx, req.Deadline)
		defer cancel()
	}

	results, scanned := e.scoreAll(runCtx, programs, base, targetYear)

	if err := ctx.Err(); err != nil && !stderrors.Is(err, context.DeadlineExceeded) {
		return Result{}, err
	}

	recs := recommend.Aggregate(results, profile, careers, e.opts.Recommend)
	recs.ClusterPoints = points.Points
	recs.CatalogVersion = snap.Version()
	recs.Warnings = append(recs.Warnings, points.Warnings...)
	recs.Advisories = append(recs.Advisories, locationAdvisory(recs.Tiers, req.Preferences.PreferredLocations)...)

	if scanned < len(programs) {
		recs.Truncated = true
		recs.Warnings = append(recs.Warnings, errors.AsWarning(errors.NewComputationTimeoutError(scanned, len(programs))))
		metrics.MatchRunsTruncated.Inc()
	}

	res := Result{
		Recommendations: recs,
		RunID:           uuid.NewString(),
		Cluster:         points,
		Scanned:         scanned,
		Total:           len(programs),
		Duration:        time.Since(start),
	}
	metrics.MatchRunDuration.Observe(res.Duration.Seconds())
	span.SetAttributes(
		attribute.Int("programs.scanned", scanned),
		attribute.Int("programs.total", len(programs)),
		attribute.Bool("truncated", recs.Truncated),
	)

	e.logger.Info("match run complete", map[string]interface{}{
		"runId":          res.RunID,
		"catalogVersion": snap.Version(),
		"clusterPoints":  points.Points,
		"scanned":        scanned,
		"total":          len(programs),
		"truncated":      recs.Truncated,
		"durationMs":     res.Duration.Milliseconds(),
	})
	return res, nil
}

func (e *Engine) resolveInterests(req Request) (*riasec.Profile, []riasec.CareerMatch, error) {
	switch {
	case req.RiasecProfile != nil:
		p, err := riasec.ValidateProfile(*req.RiasecProfile)
		if err != nil {
			return nil, nil, err
		}
		return &p, e.Careers(p), nil
	case len(req.Responses) > 0:
		p, careers, err := e.Interests(req.Responses)
		if err != nil {
			return nil, nil, err
		}
		return &p, careers, nil
	default:
		return nil, nil, nil
	}
}

// scoreAll fans programs out over a bounded group. Each goroutine owns one
// slot, so no locking is needed; the merge keeps slot order.
func (e *Engine) scoreAll(ctx context.Context, programs []catalog.Program, base scorer.Input, targetYear int) ([]scorer.MatchResult, int) {
	slots := make([]scorer.MatchResult, len(programs))
	filled := make([]bool, len(programs))

	var g errgroup.Group
	g.SetLimit(e.opts.Concurrency)

	for i := range programs {
		if ctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			slots[i] = e.scoreOne(programs[i], base, targetYear)
			filled[i] = true
			return nil
		})
	}
	_ = g.Wait()

	out := make([]scorer.MatchResult, 0, len(programs))
	for i, ok := range filled {
		if ok {
			out = append(out, slots[i])
			metrics.ProgramsScored.WithLabelValues(string(slots[i].EligibilityStatus)).Inc()
		}
	}
	return out, len(out)
}

func (e *Engine) scoreOne(p catalog.Program, base scorer.Input, targetYear int) scorer.MatchResult {
	in := base
	in.ProgramID = p.ID
	in.ProgramName = p.Name
	in.UniversityID = p.UniversityID
	in.UniversityName = p.UniversityName
	in.Location = p.Location
	in.Eligibility = eligibility.AnalyzeFor(p.ID, base.ClusterPoints, p.CutoffsByYear, targetYear)
	in.RequiredSubjects = p.RequiredSubjects
	in.AnnualFees = p.AnnualFees
	in.CareerOutcomes = p.CareerOutcomes
	in.ProgramRiasec = p.RiasecCodes
	in.EmploymentRate = p.EmploymentRate
	in.AverageSalary = p.AverageSalary
	return e.scorer.Score(in)
}

// locationAdvisory names up to three eligible programs in the student's
// preferred locations.
func locationAdvisory(tiers []recommend.TierGroup, locations []string) []string {
	if len(locations) == 0 {
		return nil
	}
	want := make(map[string]bool, len(locations))
	for _, l := range locations {
		want[strings.ToLower(strings.TrimSpace(l))] = true
	}

	var names []string
	for _, g := range tiers {
		if g.Tier != recommend.TierEligibleStrong && g.Tier != recommend.TierEligible {
			continue
		}
		for _, r := range g.Programs {
			if len(names) == 3 {
				break
			}
			if want[strings.ToLower(strings.TrimSpace(r.Location))] {
				names = append(names, r.ProgramName)
			}
		}
	}
	if len(names) == 0 {
		return []string{"No eligible programs found in your preferred locations."}
	}
	return []string{fmt.Sprintf("Eligible in your preferred locations: %s.", strings.Join(names, ", "))}
}
