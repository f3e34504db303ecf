// Package scoring ranks applications with a fixed rule table and records the
// outcome as append-only scoring events.
package scoring

import (
	"fmt"
	"math"
	"strings"

	"github.com/amoylab/hireloop/internal/scoring/profile"
)

// EngineVersion identifies the rule table below. Bump it whenever a weight or
// constant changes so stored events stay comparable.
const EngineVersion = "heuristic-v1"

const (
	baselineScore  = 50.0
	cvBonus        = 15.0
	coverBonus     = 10.0
	linkedInBonus  = 5.0
	locationBonus  = 10.0
	perSkillBonus  = 3.0
	maxSkillsBonus = 15.0
	maxFocusSkills = 5
)

// Tier is the coarse bucket derived from a score
type Tier string

const (
	TierA Tier = "A"
	TierB Tier = "B"
	TierC Tier = "C"
	TierD Tier = "D"
)

// Signals are the facts about one application the evaluator looks at.
// No CV content is parsed; presence flags stand in for it.
type Signals struct {
	HasCV             bool
	HasCoverLetter    bool
	HasLinkedIn       bool
	JobLocation       string
	CandidateLocation string
	RequiredSkills    []string
	// HiringMode overrides the configuration's mode when set
	HiringMode string
}

// Result is the evaluator output
type Result struct {
	Score          int      `json:"score"`
	Tier           Tier     `json:"tier"`
	Reason         string   `json:"reason"`
	InterviewFocus []string `json:"interviewFocus"`
	EngineVersion  string   `json:"engineVersion"`
}

type nudge int

const (
	nudgeNone nudge = iota
	nudgeExecutive
	nudgeVolume
)

func nudgeFor(mode string) nudge {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "executive", string(profile.ModeExec):
		return nudgeExecutive
	case string(profile.ModeVolume):
		return nudgeVolume
	default:
		return nudgeNone
	}
}

// Evaluate scores one application. It is deterministic for identical inputs.
func Evaluate(cfg profile.Config, s Signals) Result {
	score := baselineScore
	if s.HasCV {
		score += cvBonus
	}
	if s.HasCoverLetter {
		score += coverBonus
	}
	if s.HasLinkedIn {
		score += linkedInBonus
	}

	jobLoc := strings.TrimSpace(s.JobLocation)
	candLoc := strings.TrimSpace(s.CandidateLocation)
	bothLocations := jobLoc != "" && candLoc != ""
	locationMatch := bothLocations && strings.Contains(strings.ToLower(candLoc), strings.ToLower(jobLoc))
	if locationMatch {
		score += locationBonus
	}

	skills := nonEmpty(s.RequiredSkills)
	if len(skills) > 0 {
		score += math.Min(maxSkillsBonus, float64(len(skills))*perSkillBonus)
	}

	mode := s.HiringMode
	if strings.TrimSpace(mode) == "" {
		mode = string(cfg.Mode)
	}
	switch nudgeFor(mode) {
	case nudgeExecutive:
		score = 40 + (score-40)*0.85
	case nudgeVolume:
		score = 45 + (score-45)*1.05
	}

	final := clamp(score)
	return Result{
		Score:          final,
		Tier:           tierFor(float64(final), cfg.Thresholds),
		Reason:         rationale(s, len(skills), bothLocations, locationMatch),
		InterviewFocus: interviewFocus(s, skills, bothLocations, locationMatch),
		EngineVersion:  EngineVersion,
	}
}

// clamp rounds half away from zero and bounds the score to [0, 100].
// Non-finite values become 0.
func clamp(v float64) int {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	r := math.Round(v)
	if r < 0 {
		return 0
	}
	if r > 100 {
		return 100
	}
	return int(r)
}

// tierFor applies the bands in order A, B, C; the first satisfied band wins.
func tierFor(score float64, th profile.Thresholds) Tier {
	switch {
	case score >= th.TierA:
		return TierA
	case score >= th.TierB:
		return TierB
	case score >= th.TierC:
		return TierC
	default:
		return TierD
	}
}

func rationale(s Signals, skillCount int, bothLocations, locationMatch bool) string {
	parts := make([]string, 0, 5)
	if s.HasCV {
		parts = append(parts, "CV provided.")
	} else {
		parts = append(parts, "No CV provided.")
	}
	if s.HasCoverLetter {
		parts = append(parts, "Cover letter provided.")
	} else {
		parts = append(parts, "No cover letter.")
	}
	if s.HasLinkedIn {
		parts = append(parts, "LinkedIn profile provided.")
	}
	if skillCount == 1 {
		parts = append(parts, "Job lists 1 required skill.")
	} else if skillCount > 1 {
		parts = append(parts, fmt.Sprintf("Job lists %d required skills.", skillCount))
	}
	if bothLocations {
		if locationMatch {
			parts = append(parts, "Location matches the job.")
		} else {
			parts = append(parts, "Location does not match the job.")
		}
	}
	return strings.Join(parts, " ")
}

func interviewFocus(s Signals, skills []string, bothLocations, locationMatch bool) []string {
	focus := make([]string, 0, 5)
	if !s.HasCV {
		focus = append(focus, "Walk through work history in detail")
	}
	if !s.HasCoverLetter {
		focus = append(focus, "Probe motivation for the role")
	}
	if len(skills) > 0 {
		shown := skills
		if len(shown) > maxFocusSkills {
			shown = shown[:maxFocusSkills]
		}
		focus = append(focus, "Validate skills: "+strings.Join(shown, ", "))
	}
	if bothLocations && !locationMatch {
		focus = append(focus, "Confirm location or remote arrangement")
	}
	if !s.HasLinkedIn {
		focus = append(focus, "Verify professional references")
	}
	return focus
}

func nonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
