package scoring

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/amoylab/hireloop/internal/apiserver/database"
	"github.com/amoylab/hireloop/internal/scoring/profile"
	"github.com/amoylab/hireloop/pkg/metrics"
	"github.com/amoylab/hireloop/pkg/trace"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Service scores applications inside one tenant and keeps the history.
type Service struct {
	logger  *zap.Logger
	metrics *metrics.Metrics
	tracer  *trace.Builder
}

// NewService creates a scoring service. m may be nil.
func NewService(logger *zap.Logger, m *metrics.Metrics) *Service {
	return &Service{
		logger:  logger.Named("scoring"),
		metrics: m,
		tracer:  trace.Tracer("hireloop/scoring"),
	}
}

// ScoreApplication evaluates the application with the tenant's scoring
// configuration and appends the result as a ScoringEvent. The application,
// its job and its candidate are all read through store, so ids owned by
// another tenant fail with cnst.ErrNotFound.
func (s *Service) ScoreApplication(ctx context.Context, store *database.TenantStore, tenant *database.Tenant, applicationID string) (*database.ScoringEvent, error) {
	if tenant.ID != store.TenantID() {
		return nil, fmt.Errorf("tenant %s does not match store bound to %s", tenant.ID, store.TenantID())
	}
	start := time.Now()
	span := s.tracer.Start(ctx, "scoring.ScoreApplication").
		WithAttrs(attribute.String("tenant_id", tenant.ID), attribute.String("application_id", applicationID))
	defer span.End()
	ctx = span.Ctx

	ev, mode, err := s.score(ctx, store, tenant, applicationID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.WithAttrs(attribute.Int("score", ev.Score), attribute.String("tier", ev.Tier))
	s.metrics.ScoreDone(mode, ev.Tier, start)

	s.logger.Info("application scored",
		zap.String("tenant_id", tenant.ID),
		zap.String("application_id", applicationID),
		zap.Int("score", ev.Score),
		zap.String("tier", ev.Tier),
		zap.String("mode", mode))
	return ev, nil
}

func (s *Service) score(ctx context.Context, store *database.TenantStore, tenant *database.Tenant, applicationID string) (*database.ScoringEvent, string, error) {
	app, err := store.Applications().Lookup(ctx, applicationID)
	if err != nil {
		return nil, "", fmt.Errorf("load application: %w", err)
	}
	job, err := store.Jobs().Lookup(ctx, app.JobID)
	if err != nil {
		return nil, "", fmt.Errorf("load job: %w", err)
	}
	cand, err := store.Candidates().Lookup(ctx, app.CandidateID)
	if err != nil {
		return nil, "", fmt.Errorf("load candidate: %w", err)
	}

	cfg := profile.MergeJSON(tenant.ScoringMode, tenant.Plan, []byte(tenant.ScoringOverrides))
	signals := SignalsFor(job, cand, app)
	res := Evaluate(cfg, signals)

	ev := &database.ScoringEvent{
		ApplicationID:  app.ID,
		Score:          res.Score,
		Tier:           string(res.Tier),
		Reason:         res.Reason,
		InterviewFocus: res.InterviewFocus,
		EngineVersion:  res.EngineVersion,
	}
	if err := store.ScoringEvents().Append(ctx, ev); err != nil {
		return nil, "", fmt.Errorf("append scoring event: %w", err)
	}

	logEntry := &database.ActivityLog{
		Action:     "application.scored",
		EntityType: "application",
		EntityID:   app.ID,
		Detail:     fmt.Sprintf("score=%d tier=%s engine=%s", res.Score, res.Tier, res.EngineVersion),
	}
	if err := store.ActivityLogs().Create(ctx, logEntry); err != nil {
		s.logger.Warn("failed to record scoring activity", zap.String("application_id", app.ID), zap.Error(err))
	}

	mode := strings.ToLower(strings.TrimSpace(signals.HiringMode))
	if mode == "" {
		mode = string(cfg.Mode)
	}
	return ev, mode, nil
}

// History lists the application's scoring events, newest first.
func (s *Service) History(ctx context.Context, store *database.TenantStore, applicationID string) ([]*database.ScoringEvent, error) {
	if _, err := store.Applications().Lookup(ctx, applicationID); err != nil {
		return nil, fmt.Errorf("load application: %w", err)
	}
	return store.ScoringEvents().List(ctx, database.Query{
		Filter: database.Filter{"application_id": applicationID},
		Order:  "created_at desc",
	})
}

// SignalsFor derives evaluator signals from stored records. The application's
// own location and LinkedIn URL take precedence over the candidate profile.
func SignalsFor(job *database.Job, cand *database.Candidate, app *database.Application) Signals {
	location := app.Location
	if strings.TrimSpace(location) == "" {
		location = cand.Location
	}
	return Signals{
		HasCV:             strings.TrimSpace(app.CVRef) != "",
		HasCoverLetter:    app.HasCoverLetter,
		HasLinkedIn:       strings.TrimSpace(app.LinkedInURL) != "" || strings.TrimSpace(cand.LinkedInURL) != "",
		JobLocation:       job.Location,
		CandidateLocation: location,
		RequiredSkills:    job.RequiredSkills,
		HiringMode:        job.HiringMode,
	}
}
