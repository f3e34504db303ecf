package scoring

import (
	"context"
	"testing"
	"time"

	"github.com/amoylab/hireloop/internal/apiserver/database"
	"github.com/amoylab/hireloop/internal/common/cnst"
	"github.com/amoylab/hireloop/internal/common/config"
	"github.com/amoylab/hireloop/pkg/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type scoringFixture struct {
	db     database.Database
	tenant *database.Tenant
	store  *database.TenantStore
	app    *database.Application
}

func newScoringFixture(t *testing.T, tenant *database.Tenant, job *database.Job, app *database.Application) scoringFixture {
	t.Helper()
	ctx := context.Background()

	db, err := database.NewSQLite(&config.DatabaseConfig{Type: "sqlite", DBName: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, db.CreateTenant(ctx, tenant))
	store, err := db.ForTenant(tenant.ID)
	require.NoError(t, err)

	cand := &database.Candidate{Email: "ana@example.com", Location: "Berlin, Germany"}
	require.NoError(t, store.Jobs().Create(ctx, job))
	require.NoError(t, store.Candidates().Create(ctx, cand))
	app.JobID, app.CandidateID = job.ID, cand.ID
	require.NoError(t, store.Applications().Create(ctx, app))

	return scoringFixture{db: db, tenant: tenant, store: store, app: app}
}

func TestService_ScoreApplication(t *testing.T) {
	f := newScoringFixture(t,
		&database.Tenant{Name: "Acme", Slug: "acme", Plan: "pro", ScoringMode: "hybrid"},
		&database.Job{Title: "Backend", Location: "Berlin", RequiredSkills: []string{"go", "sql"}, HiringMode: "balanced"},
		&database.Application{CVRef: "cv.pdf", HasCoverLetter: true},
	)
	ctx := context.Background()
	svc := NewService(zap.NewNop(), metrics.New(config.MetricsConfig{Namespace: "t"}))

	ev, err := svc.ScoreApplication(ctx, f.store, f.tenant, f.app.ID)
	require.NoError(t, err)
	// 50 + 15 + 10 + 10 (location) + 6 (skills)
	assert.Equal(t, 91, ev.Score)
	assert.Equal(t, "A", ev.Tier)
	assert.Equal(t, EngineVersion, ev.EngineVersion)
	assert.Equal(t, f.tenant.ID, ev.TenantID)
	assert.Equal(t, []string{"Validate skills: go, sql", "Verify professional references"}, ev.InterviewFocus)

	logs, err := f.store.ActivityLogs().FindMany(ctx, database.Query{Filter: database.Filter{"entity_id": f.app.ID}})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "application.scored", logs[0].Action)
}

func TestService_UsesTenantThresholds(t *testing.T) {
	f := newScoringFixture(t,
		&database.Tenant{Name: "Acme", Slug: "acme", Plan: "pro", ScoringMode: "volume", ScoringOverrides: `{"thresholds": {"tierA": 95, "tierB": 90, "tierC": 85}}`},
		&database.Job{Title: "Picker"},
		&database.Application{CVRef: "cv.pdf"},
	)
	svc := NewService(zap.NewNop(), nil)

	// job has no hiring mode, so the tenant's volume mode applies: 45 + 20*1.05 = 66
	ev, err := svc.ScoreApplication(context.Background(), f.store, f.tenant, f.app.ID)
	require.NoError(t, err)
	assert.Equal(t, 66, ev.Score)
	assert.Equal(t, "D", ev.Tier)
}

func TestService_ForeignApplicationIsNotFound(t *testing.T) {
	f := newScoringFixture(t,
		&database.Tenant{Name: "Acme", Slug: "acme"},
		&database.Job{Title: "Backend"},
		&database.Application{},
	)
	ctx := context.Background()
	other := &database.Tenant{Name: "Globex", Slug: "globex"}
	require.NoError(t, f.db.CreateTenant(ctx, other))
	otherStore, err := f.db.ForTenant(other.ID)
	require.NoError(t, err)

	svc := NewService(zap.NewNop(), nil)
	_, err = svc.ScoreApplication(ctx, otherStore, other, f.app.ID)
	assert.ErrorIs(t, err, cnst.ErrNotFound)

	_, err = svc.History(ctx, otherStore, f.app.ID)
	assert.ErrorIs(t, err, cnst.ErrNotFound)

	_, err = svc.ScoreApplication(ctx, f.store, other, f.app.ID)
	assert.Error(t, err)
}

func TestService_HistoryNewestFirst(t *testing.T) {
	f := newScoringFixture(t,
		&database.Tenant{Name: "Acme", Slug: "acme"},
		&database.Job{Title: "Backend"},
		&database.Application{},
	)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, score := range []int{40, 60, 80} {
		ev := &database.ScoringEvent{ApplicationID: f.app.ID, Score: score, Tier: "C", EngineVersion: EngineVersion}
		ev.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, f.store.ScoringEvents().Append(ctx, ev))
	}

	events, err := NewService(zap.NewNop(), nil).History(ctx, f.store, f.app.ID)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, []int{80, 60, 40}, []int{events[0].Score, events[1].Score, events[2].Score})
}

func TestSignalsFor_PrefersApplicationDetails(t *testing.T) {
	job := &database.Job{Location: "Paris", RequiredSkills: []string{"go"}, HiringMode: "exec"}
	cand := &database.Candidate{Location: "Lyon", LinkedInURL: "https://linkedin.example/ana"}

	s := SignalsFor(job, cand, &database.Application{Location: "Paris 11e", CVRef: " "})
	assert.Equal(t, "Paris 11e", s.CandidateLocation)
	assert.False(t, s.HasCV)
	assert.True(t, s.HasLinkedIn)
	assert.Equal(t, "exec", s.HiringMode)

	s = SignalsFor(job, cand, &database.Application{})
	assert.Equal(t, "Lyon", s.CandidateLocation)
}
