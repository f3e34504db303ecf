package profile

// Merge produces the scoring configuration for a tenant. It is pure and
// total: unknown modes and plans fall back to exec and free, and every
// absent override keeps the base profile value.
func Merge(mode, plan string, o Overrides) Config {
	m := ParseMode(mode)
	p := ParsePlan(plan)
	b := baseProfiles[m]

	cfg := Config{
		Mode: m,
		Plan: p,
		Weights: Weights{
			CoreCompetencies:  or(o.Weights.CoreCompetencies, b.weights.CoreCompetencies),
			ExperienceQuality: or(o.Weights.ExperienceQuality, b.weights.ExperienceQuality),
			Education:         or(o.Weights.Education, b.weights.Education),
			Achievements:      or(o.Weights.Achievements, b.weights.Achievements),
			CulturalFit:       or(o.Weights.CulturalFit, b.weights.CulturalFit),
		},
		Thresholds: Thresholds{
			TierA: or(o.Thresholds.TierA, b.thresholds.TierA),
			TierB: or(o.Thresholds.TierB, b.thresholds.TierB),
			TierC: or(o.Thresholds.TierC, b.thresholds.TierC),
		},
		Skills: SkillsPolicy{
			MinMustHavePct:  or(o.Skills.MinMustHavePct, b.skills.MinMustHavePct),
			MustHaveRedFlag: or(o.Skills.MustHaveRedFlag, b.skills.MustHaveRedFlag),
		},
		Bias: BiasPolicy{
			Anonymize:    or(o.Bias.Anonymize, b.bias.Anonymize),
			CapEducation: or(o.Bias.CapEducation, b.bias.CapEducation),
		},
		NLP: NLPPolicy{
			Enabled:  or(o.NLP.Enabled, b.nlp.Enabled),
			MaxBoost: or(o.NLP.MaxBoost, b.nlp.MaxBoost),
		},
	}

	// NLP augmentation is a paid feature
	if p == PlanFree {
		cfg.NLP = NLPPolicy{}
	}

	cfg.Normalized = normalize(cfg.Weights)
	return cfg
}

// MergeJSON is Merge over the raw override document stored on a tenant.
func MergeJSON(mode, plan string, raw []byte) Config {
	return Merge(mode, plan, ParseOverrides(raw))
}

// Default is the configuration used when a tenant has no settings at all.
func Default() Config {
	return Merge(string(ModeExec), string(PlanFree), Overrides{})
}

func normalize(w Weights) Weights {
	sum := w.Sum()
	if sum <= 0 {
		sum = 1
	}
	return Weights{
		CoreCompetencies:  w.CoreCompetencies / sum,
		ExperienceQuality: w.ExperienceQuality / sum,
		Education:         w.Education / sum,
		Achievements:      w.Achievements / sum,
		CulturalFit:       w.CulturalFit / sum,
	}
}

func or[T any](v *T, fallback T) T {
	if v == nil {
		return fallback
	}
	return *v
}
