package profile

import (
	"math"

	"github.com/tidwall/gjson"
)

// Overrides is the sparse, tenant-supplied part of a scoring configuration.
// A nil field means "use the base value".
type Overrides struct {
	Weights    WeightOverrides
	Thresholds ThresholdOverrides
	Skills     SkillsOverrides
	Bias       BiasOverrides
	NLP        NLPOverrides
}

type WeightOverrides struct {
	CoreCompetencies  *float64
	ExperienceQuality *float64
	Education         *float64
	Achievements      *float64
	CulturalFit       *float64
}

type ThresholdOverrides struct {
	TierA *float64
	TierB *float64
	TierC *float64
}

type SkillsOverrides struct {
	MinMustHavePct  *float64
	MustHaveRedFlag *bool
}

type BiasOverrides struct {
	Anonymize    *bool
	CapEducation *bool
}

type NLPOverrides struct {
	Enabled  *bool
	MaxBoost *float64
}

// ParseOverrides decodes stored tenant override JSON. It never fails: invalid
// documents yield no overrides, and fields of the wrong type, negative or
// non-finite numbers are dropped individually. Unknown keys are ignored.
func ParseOverrides(raw []byte) Overrides {
	var o Overrides
	if len(raw) == 0 || !gjson.ValidBytes(raw) {
		return o
	}
	doc := gjson.ParseBytes(raw)
	if !doc.IsObject() {
		return o
	}

	w := section(doc, "weights")
	o.Weights = WeightOverrides{
		CoreCompetencies:  number(w, "coreCompetencies"),
		ExperienceQuality: number(w, "experienceQuality"),
		Education:         number(w, "education"),
		Achievements:      number(w, "achievements"),
		CulturalFit:       number(w, "culturalFit"),
	}

	th := section(doc, "thresholds")
	o.Thresholds = ThresholdOverrides{
		TierA: number(th, "tierA"),
		TierB: number(th, "tierB"),
		TierC: number(th, "tierC"),
	}

	sk := section(doc, "skills")
	o.Skills = SkillsOverrides{
		MinMustHavePct:  number(sk, "minMustHavePct"),
		MustHaveRedFlag: boolean(sk, "mustHaveRedFlag"),
	}

	bi := section(doc, "bias")
	o.Bias = BiasOverrides{
		Anonymize:    boolean(bi, "anonymize"),
		CapEducation: boolean(bi, "capEducation"),
	}

	nl := section(doc, "nlp")
	o.NLP = NLPOverrides{
		Enabled:  boolean(nl, "enabled"),
		MaxBoost: number(nl, "maxBoost"),
	}
	return o
}

// section returns the named sub-object, or an empty result when it is absent
// or not an object.
func section(doc gjson.Result, key string) gjson.Result {
	r := doc.Get(key)
	if !r.IsObject() {
		return gjson.Result{}
	}
	return r
}

func number(obj gjson.Result, key string) *float64 {
	if !obj.Exists() {
		return nil
	}
	r := obj.Get(key)
	if r.Type != gjson.Number {
		return nil
	}
	v := r.Float()
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return nil
	}
	return &v
}

func boolean(obj gjson.Result, key string) *bool {
	if !obj.Exists() {
		return nil
	}
	r := obj.Get(key)
	if !r.IsBool() {
		return nil
	}
	v := r.Bool()
	return &v
}
