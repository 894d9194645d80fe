package domain

import (
	"fmt"
	"strings"
)

// RiskLevel is the bucketed form of a risk score
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Risk cutoffs applied to scores in [0,1]
const (
	HighRiskThreshold   = 0.7
	MediumRiskThreshold = 0.4
)

// RiskLevelFor maps a score in [0,1] to a risk level
func RiskLevelFor(score float64) RiskLevel {
	switch {
	case score >= HighRiskThreshold:
		return RiskHigh
	case score >= MediumRiskThreshold:
		return RiskMedium
	default:
		return RiskLow
	}
}

// ParseRiskLevel validates a risk level label
func ParseRiskLevel(s string) (RiskLevel, error) {
	switch RiskLevel(strings.ToLower(s)) {
	case RiskLow, RiskMedium, RiskHigh:
		return RiskLevel(strings.ToLower(s)), nil
	}
	return "", fmt.Errorf("%w: unknown risk level %q", ErrInvalidInput, s)
}
