package scoring

import (
	"math"
	"testing"

	"github.com/amoylab/hireloop/internal/scoring/profile"
	"github.com/stretchr/testify/assert"
)

var fiveSkills = []string{"go", "sql", "k8s", "grpc", "redis"}

func TestEvaluate_AllSignalsCapAt100(t *testing.T) {
	res := Evaluate(profile.Default(), Signals{
		HasCV:             true,
		HasCoverLetter:    true,
		HasLinkedIn:       true,
		JobLocation:       "Berlin",
		CandidateLocation: "Berlin, Germany",
		RequiredSkills:    fiveSkills,
		HiringMode:        "balanced",
	})
	assert.Equal(t, 100, res.Score)
	assert.Equal(t, TierA, res.Tier)
	assert.Equal(t, EngineVersion, res.EngineVersion)
}

func TestEvaluate_NoSignalsIsBaseline(t *testing.T) {
	res := Evaluate(profile.Default(), Signals{HiringMode: "balanced"})
	assert.Equal(t, 50, res.Score)
	assert.Equal(t, TierC, res.Tier)
	assert.Equal(t, "No CV provided. No cover letter.", res.Reason)
}

func TestEvaluate_ExecutiveNudgeRoundsHalfUp(t *testing.T) {
	// raw 90 -> 40 + 50*0.85 = 82.5 -> 83
	res := Evaluate(profile.Default(), Signals{
		HasCV:             true,
		HasCoverLetter:    true,
		HasLinkedIn:       true,
		JobLocation:       "remote",
		CandidateLocation: "Remote (EU)",
		HiringMode:        "executive",
	})
	assert.Equal(t, 83, res.Score)
	assert.Equal(t, TierA, res.Tier)

	short := Evaluate(profile.Default(), Signals{
		HasCV: true, HasCoverLetter: true, HasLinkedIn: true,
		JobLocation: "remote", CandidateLocation: "Remote (EU)",
		HiringMode: "exec",
	})
	assert.Equal(t, 83, short.Score)
}

func TestEvaluate_VolumeNudge(t *testing.T) {
	// raw 65 -> 45 + 20*1.05 = 66
	res := Evaluate(profile.Default(), Signals{HasCV: true, HiringMode: "volume"})
	assert.Equal(t, 66, res.Score)

	// raw 50 -> 45 + 5*1.05 = 50.25 -> 50
	base := Evaluate(profile.Default(), Signals{HiringMode: "volume"})
	assert.Equal(t, 50, base.Score)
}

func TestEvaluate_ModeFallsBackToConfig(t *testing.T) {
	execCfg := profile.Merge("exec", "pro", profile.Overrides{})
	// raw 50 under exec -> 40 + 10*0.85 = 48.5 -> 49
	assert.Equal(t, 49, Evaluate(execCfg, Signals{}).Score)

	hybridCfg := profile.Merge("hybrid", "pro", profile.Overrides{})
	assert.Equal(t, 50, Evaluate(hybridCfg, Signals{}).Score)
}

func TestEvaluate_SkillsBonusIsCapped(t *testing.T) {
	cfg := profile.Default()
	cases := []struct {
		skills []string
		want   int
	}{
		{nil, 50},
		{[]string{}, 50},
		{[]string{"go"}, 53},
		{[]string{"go", "sql"}, 56},
		{[]string{"a", "b", "c", "d"}, 62},
		{fiveSkills, 65},
		{append(fiveSkills, "x", "y", "z"), 65},
		{[]string{"", "  ", "go"}, 53},
	}
	for _, tc := range cases {
		res := Evaluate(cfg, Signals{RequiredSkills: tc.skills, HiringMode: "none"})
		assert.Equal(t, tc.want, res.Score, "%v", tc.skills)
	}
}

func TestEvaluate_LocationMatchIsCaseInsensitiveSubstring(t *testing.T) {
	cfg := profile.Default()
	match := Evaluate(cfg, Signals{JobLocation: "LONDON", CandidateLocation: "Greater london area", HiringMode: "x"})
	assert.Equal(t, 60, match.Score)
	assert.Contains(t, match.Reason, "Location matches the job.")

	miss := Evaluate(cfg, Signals{JobLocation: "Paris", CandidateLocation: "Lyon", HiringMode: "x"})
	assert.Equal(t, 50, miss.Score)
	assert.Contains(t, miss.Reason, "Location does not match the job.")
	assert.Contains(t, miss.InterviewFocus, "Confirm location or remote arrangement")

	oneSided := Evaluate(cfg, Signals{JobLocation: "Paris", HiringMode: "x"})
	assert.NotContains(t, oneSided.Reason, "Location")
}

func TestEvaluate_TierBandsApplyInOrder(t *testing.T) {
	// thresholds out of the usual order: the first satisfied band still wins
	cfg := profile.MergeJSON("hybrid", "pro", []byte(`{"thresholds": {"tierA": 40, "tierB": 90, "tierC": 95}}`))
	res := Evaluate(cfg, Signals{HiringMode: "x"})
	assert.Equal(t, TierA, res.Tier)

	strict := profile.MergeJSON("hybrid", "pro", []byte(`{"thresholds": {"tierA": 99, "tierB": 98, "tierC": 97}}`))
	assert.Equal(t, TierD, Evaluate(strict, Signals{HiringMode: "x"}).Tier)

	assert.Equal(t, TierB, tierFor(65, profile.Default().Thresholds))
	assert.Equal(t, TierC, tierFor(64, profile.Default().Thresholds))
	assert.Equal(t, TierD, tierFor(49, profile.Default().Thresholds))
}

func TestEvaluate_RationaleAndFocusAreDeterministic(t *testing.T) {
	s := Signals{
		HasCV:             true,
		HasLinkedIn:       true,
		JobLocation:       "NYC",
		CandidateLocation: "NYC",
		RequiredSkills:    []string{"go", "sql", "aws", "docker", "terraform", "python"},
		HiringMode:        "hybrid",
	}
	a := Evaluate(profile.Default(), s)
	b := Evaluate(profile.Default(), s)
	assert.Equal(t, a, b)
	assert.Equal(t, "CV provided. No cover letter. LinkedIn profile provided. Job lists 6 required skills. Location matches the job.", a.Reason)
	assert.Equal(t, []string{
		"Probe motivation for the role",
		"Validate skills: go, sql, aws, docker, terraform",
	}, a.InterviewFocus)

	one := Evaluate(profile.Default(), Signals{RequiredSkills: []string{"go"}})
	assert.Contains(t, one.Reason, "Job lists 1 required skill.")
}

func TestEvaluate_ScoreAlwaysBounded(t *testing.T) {
	bools := []bool{false, true}
	locs := []string{"", "x", "X city"}
	modes := []string{"", "exec", "executive", "volume", "hybrid", "balanced"}
	skillSets := [][]string{nil, {"a"}, fiveSkills}
	cfgs := []profile.Config{
		profile.Default(),
		profile.MergeJSON("volume", "enterprise", nil),
		profile.MergeJSON("hybrid", "pro", []byte(`{"thresholds": {"tierA": 0}}`)),
	}
	for _, cfg := range cfgs {
		for _, cv := range bools {
			for _, cl := range bools {
				for _, li := range bools {
					for _, jl := range locs {
						for _, cand := range locs {
							for _, m := range modes {
								for _, sk := range skillSets {
									res := Evaluate(cfg, Signals{cv, cl, li, jl, cand, sk, m})
									assert.GreaterOrEqual(t, res.Score, 0)
									assert.LessOrEqual(t, res.Score, 100)
									assert.Contains(t, []Tier{TierA, TierB, TierC, TierD}, res.Tier)
								}
							}
						}
					}
				}
			}
		}
	}
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0, clamp(math.NaN()))
	assert.Equal(t, 0, clamp(math.Inf(1)))
	assert.Equal(t, 0, clamp(math.Inf(-1)))
	assert.Equal(t, 0, clamp(-12))
	assert.Equal(t, 100, clamp(104.6))
	assert.Equal(t, 83, clamp(82.5))
	assert.Equal(t, 82, clamp(82.49))
}
