// Package profile builds the normalized scoring configuration for a tenant from
// a hiring-mode base profile, the tenant's plan and its stored overrides.
package profile

import "strings"

// Mode selects the base scoring profile
type Mode string

const (
	ModeExec   Mode = "exec"
	ModeVolume Mode = "volume"
	ModeHybrid Mode = "hybrid"
)

// Plan is the tenant's subscription tier
type Plan string

const (
	PlanFree       Plan = "free"
	PlanPro        Plan = "pro"
	PlanEnterprise Plan = "enterprise"
)

// ParseMode maps free-form input to a Mode; anything unrecognized is exec.
func ParseMode(s string) Mode {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeVolume:
		return ModeVolume
	case ModeHybrid:
		return ModeHybrid
	default:
		return ModeExec
	}
}

// ParsePlan maps free-form input to a Plan; anything unrecognized is free.
func ParsePlan(s string) Plan {
	switch Plan(strings.ToLower(strings.TrimSpace(s))) {
	case PlanPro:
		return PlanPro
	case PlanEnterprise:
		return PlanEnterprise
	default:
		return PlanFree
	}
}

// Weights are the per-category weights of a profile
type Weights struct {
	CoreCompetencies  float64 `json:"coreCompetencies"`
	ExperienceQuality float64 `json:"experienceQuality"`
	Education         float64 `json:"education"`
	Achievements      float64 `json:"achievements"`
	CulturalFit       float64 `json:"culturalFit"`
}

// Sum returns the total of all five weights
func (w Weights) Sum() float64 {
	return w.CoreCompetencies + w.ExperienceQuality + w.Education + w.Achievements + w.CulturalFit
}

// Thresholds are the tier cut points on a 0-100 scale
type Thresholds struct {
	TierA float64 `json:"tierA"`
	TierB float64 `json:"tierB"`
	TierC float64 `json:"tierC"`
}

// SkillsPolicy governs must-have skill matching
type SkillsPolicy struct {
	MinMustHavePct  float64 `json:"minMustHavePct"`
	MustHaveRedFlag bool    `json:"mustHaveRedFlag"`
}

// BiasPolicy governs bias mitigation in scoring views
type BiasPolicy struct {
	Anonymize    bool `json:"anonymize"`
	CapEducation bool `json:"capEducation"`
}

// NLPPolicy governs text-analysis augmentation
type NLPPolicy struct {
	Enabled  bool    `json:"enabled"`
	MaxBoost float64 `json:"maxBoost"`
}

// Config is the merged scoring configuration. It is a plain value; copies do
// not share state.
type Config struct {
	Mode       Mode         `json:"mode"`
	Plan       Plan         `json:"plan"`
	Weights    Weights      `json:"weights"`
	Normalized Weights      `json:"normalizedWeights"`
	Thresholds Thresholds   `json:"thresholds"`
	Skills     SkillsPolicy `json:"skills"`
	Bias       BiasPolicy   `json:"bias"`
	NLP        NLPPolicy    `json:"nlp"`
}

type base struct {
	weights    Weights
	thresholds Thresholds
	skills     SkillsPolicy
	bias       BiasPolicy
	nlp        NLPPolicy
}

var baseProfiles = map[Mode]base{
	ModeExec: {
		weights:    Weights{CoreCompetencies: 30, ExperienceQuality: 30, Education: 10, Achievements: 20, CulturalFit: 10},
		thresholds: Thresholds{TierA: 80, TierB: 65, TierC: 50},
		skills:     SkillsPolicy{MinMustHavePct: 70, MustHaveRedFlag: true},
		bias:       BiasPolicy{Anonymize: true, CapEducation: true},
		nlp:        NLPPolicy{Enabled: true, MaxBoost: 10},
	},
	ModeVolume: {
		weights:    Weights{CoreCompetencies: 40, ExperienceQuality: 25, Education: 5, Achievements: 10, CulturalFit: 20},
		thresholds: Thresholds{TierA: 75, TierB: 60, TierC: 45},
		skills:     SkillsPolicy{MinMustHavePct: 50, MustHaveRedFlag: false},
		bias:       BiasPolicy{Anonymize: true, CapEducation: false},
		nlp:        NLPPolicy{Enabled: true, MaxBoost: 5},
	},
	ModeHybrid: {
		weights:    Weights{CoreCompetencies: 35, ExperienceQuality: 25, Education: 10, Achievements: 15, CulturalFit: 15},
		thresholds: Thresholds{TierA: 78, TierB: 62, TierC: 50},
		skills:     SkillsPolicy{MinMustHavePct: 60, MustHaveRedFlag: true},
		bias:       BiasPolicy{Anonymize: true, CapEducation: true},
		nlp:        NLPPolicy{Enabled: true, MaxBoost: 8},
	},
}
