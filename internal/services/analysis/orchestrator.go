// Package analysis turns a wheel snapshot into an AI narrative and SMART
// goals, and records the results in history.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/benvon/roda-da-vida/internal/history"
	"github.com/benvon/roda-da-vida/internal/logger"
	"github.com/benvon/roda-da-vida/internal/models"
	"github.com/benvon/roda-da-vida/internal/services/ai"
	"github.com/benvon/roda-da-vida/internal/telemetry"
)

// User-facing messages
const (
	EmptyAnalysisText = "Não foi possível gerar uma análise no momento."
	FallbackText      = "Ocorreu um erro ao conectar com a IA. Por favor, copie o prompt e use no ChatGPT ou Claude."
	GoalsErrorText    = "Não foi possível gerar as metas agora."
)

var (
	// ErrNoAnalysis is returned when goals are requested before the run has a narrative record
	ErrNoAnalysis = errors.New("no analysis record for this run")
	// ErrRunSuperseded is returned when a newer run started or the run was cancelled
	ErrRunSuperseded = errors.New("analysis run superseded")
	// ErrGoalsUnavailable wraps every goal generation failure; show GoalsErrorText
	ErrGoalsUnavailable = errors.New("smart goals unavailable")
)

// Target is the workspace an analysis writes into. Its lock guards both the
// history store and the run tracker.
type Target interface {
	sync.Locker
	History() *history.Store
	Runs() *Runs
}

// NarrativeResult is always displayable unless Dropped, in which case the
// caller should discard it.
type NarrativeResult struct {
	Text     string
	Prompt   string
	Record   *models.AnalysisRecord
	Fallback bool
	Dropped  bool
}

// Orchestrator runs generations against a TextGenerator. It holds no
// per-client state and is safe for concurrent use.
type Orchestrator struct {
	gen     ai.TextGenerator
	logger  *zap.Logger
	metrics *Metrics
}

// NewOrchestrator creates an orchestrator. metrics may be nil.
func NewOrchestrator(gen ai.TextGenerator, log *zap.Logger, metrics *Metrics) *Orchestrator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Orchestrator{gen: gen, logger: log, metrics: metrics}
}

// Narrative asks for the analysis of run's snapshot. Any provider failure
// becomes FallbackText and nothing is recorded. On success the record is
// appended to history, unless the run stopped being current meanwhile.
func (o *Orchestrator) Narrative(ctx context.Context, t Target, run *Run) NarrativeResult {
	snap := run.Snapshot
	prompt := BuildNarrativePrompt(snap.Categories, snap.Scores, snap.Notes)

	ctx, cancel := run.bind(ctx)
	defer cancel()

	ctx, span := telemetry.StartSpan(ctx, "analysis.narrative",
		attribute.Int64("run_id", int64(run.ID)),
		attribute.String("mode", string(snap.Mode)),
	)
	start := time.Now()
	text, err := o.gen.Generate(ctx, ai.Request{
		Prompt:            prompt,
		SystemInstruction: CoachInstruction,
		Temperature:       ai.Float(NarrativeTemperature),
	})
	elapsed := time.Since(start)
	telemetry.EndSpan(span, err)

	t.Lock()
	defer t.Unlock()

	if ctx.Err() != nil || !t.Runs().IsCurrent(run) {
		o.metrics.observe("narrative", outcomeDropped, elapsed)
		o.logger.Info("analysis_dropped", zap.Uint64("run_id", run.ID), zap.String("client_id", ai.ExtractClientID(ctx)))
		return NarrativeResult{Prompt: prompt, Dropped: true}
	}

	if err != nil {
		o.metrics.observe("narrative", outcomeFallback, elapsed)
		o.logger.Warn("analysis_failed",
			zap.Uint64("run_id", run.ID),
			zap.String("client_id", ai.ExtractClientID(ctx)),
			zap.Bool("rate_limited", ai.IsRateLimitError(err)),
			zap.Bool("quota_exceeded", ai.IsQuotaError(err)),
			zap.String("error", logger.SanitizeError(err)),
		)
		return NarrativeResult{Text: FallbackText, Prompt: prompt, Fallback: true}
	}

	if strings.TrimSpace(text) == "" {
		text = EmptyAnalysisText
	}
	rec := t.History().Append(history.Draft{
		Mode:       snap.Mode,
		Categories: snap.Categories,
		Scores:     snap.Scores,
		Notes:      snap.Notes,
		AIResponse: text,
	})
	run.recordID = rec.ID

	o.metrics.observe("narrative", outcomeOK, elapsed)
	o.logger.Info("analysis_completed",
		zap.Uint64("run_id", run.ID),
		zap.String("record_id", rec.ID),
		zap.String("mode", string(snap.Mode)),
		zap.Float64("average_score", rec.AverageScore),
		zap.Int64("latency_ms", elapsed.Milliseconds()),
	)
	return NarrativeResult{Text: text, Prompt: prompt, Record: &rec}
}

// SmartGoals asks for one goal per area of run's snapshot and attaches them
// to the run's record. Every failure is reported as ErrGoalsUnavailable
// except a superseded run.
func (o *Orchestrator) SmartGoals(ctx context.Context, t Target, run *Run) ([]models.SmartGoal, error) {
	t.Lock()
	current := t.Runs().IsCurrent(run)
	recordID := run.recordID
	t.Unlock()
	if !current {
		return nil, ErrRunSuperseded
	}
	if recordID == "" {
		return nil, ErrNoAnalysis
	}

	snap := run.Snapshot
	ctx, cancel := run.bind(ctx)
	defer cancel()

	ctx, span := telemetry.StartSpan(ctx, "analysis.smart_goals",
		attribute.Int64("run_id", int64(run.ID)),
		attribute.String("record_id", recordID),
	)
	start := time.Now()
	raw, err := o.gen.Generate(ctx, ai.Request{
		Prompt: BuildSmartGoalsPrompt(snap.Categories, snap.Scores, snap.Notes),
		JSON:   true,
	})
	elapsed := time.Since(start)

	var goals []models.SmartGoal
	if err == nil {
		goals, err = ParseSmartGoals(raw)
	}
	telemetry.EndSpan(span, err)

	t.Lock()
	defer t.Unlock()

	if ctx.Err() != nil || !t.Runs().IsCurrent(run) {
		o.metrics.observe("smart_goals", outcomeDropped, elapsed)
		return nil, ErrRunSuperseded
	}
	if err != nil {
		o.metrics.observe("smart_goals", outcomeFailed, elapsed)
		o.logger.Warn("smart_goals_failed",
			zap.Uint64("run_id", run.ID),
			zap.String("record_id", recordID),
			zap.String("error", logger.SanitizeError(err)),
		)
		return nil, fmt.Errorf("%w: %w", ErrGoalsUnavailable, err)
	}

	t.History().Patch(recordID, models.RecordPatch{SmartGoals: goals})
	o.metrics.observe("smart_goals", outcomeOK, elapsed)
	o.logger.Info("smart_goals_completed",
		zap.Uint64("run_id", run.ID),
		zap.String("record_id", recordID),
		zap.Int("goal_count", len(goals)),
	)
	return goals, nil
}
