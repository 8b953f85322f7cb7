// Package risk classifies the macro credit-spread posture. Each call is a
// pure function of the current and week-ago readings; no state is carried
// between calls.
package risk

import (
	"math"

	"MarketLens/internal/domain/models"
)

const (
	// Above this absolute level the alarm is on regardless of trend.
	stressLevel = 4.0
	// Below this level spreads are considered calm.
	calmLevel = 3.0

	// Week-over-week widening that flips a calm or middle band to caution.
	calmWideningDelta = 0.2
	midWideningDelta  = 0.15
)

var assessments = map[models.RiskState]models.RiskAssessment{
	models.RiskOn: {
		State:   models.RiskOn,
		Message: "High-yield spread above 4%: credit stress is elevated, favor defensive positioning.",
		Color:   "#ffcdd2",
	},
	models.RiskCaution: {
		State:   models.RiskCaution,
		Message: "Spread is widening quickly: risk appetite is deteriorating.",
		Color:   "#fff9c4",
	},
	models.RiskOff: {
		State:   models.RiskOff,
		Message: "Spread is low and stable: credit conditions are calm.",
		Color:   "#c8e6c9",
	},
	models.RiskNeutral: {
		State:   models.RiskNeutral,
		Message: "Spread sits in the middle band with no sharp moves.",
		Color:   "#e0f7fa",
	},
	models.RiskUnknown: {
		State:   models.RiskUnknown,
		Message: "Spread data unavailable.",
		Color:   "#eeeeee",
	},
}

// Classify maps the current and week-ago spread readings to a posture. The
// absolute level check dominates the trend term; invalid input degrades to
// Unknown instead of erroring.
func Classify(current, weekAgo float64) models.RiskAssessment {
	if !isFinite(current) || !isFinite(weekAgo) {
		return assessments[models.RiskUnknown]
	}
	if current > stressLevel {
		return assessments[models.RiskOn]
	}

	change := current - weekAgo
	if current < calmLevel {
		if change >= calmWideningDelta {
			return assessments[models.RiskCaution]
		}
		return assessments[models.RiskOff]
	}
	if change >= midWideningDelta {
		return assessments[models.RiskCaution]
	}
	return assessments[models.RiskNeutral]
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
