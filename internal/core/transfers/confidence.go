package transfers

import (
	"math"
	"strings"
	"time"

	"github.com/SscSPs/transfer_reconciler/internal/core/domain"
)

const (
	baseConfidence       = 0.5
	amountMatchBonus     = 0.4
	transferKeywordBonus = 0.1
	moveKeywordBonus     = 0.05
	hoursPerDay          = 24.0
	maxConfidence        = 1.0
	minConfidence        = 0.0
	transferKeyword      = "transfer"
	moveKeyword          = "move"
)

// Confidence scores how likely two transactions are the legs of one transfer.
// The score is informational; detection already requires exact amounts.
func Confidence(t1, t2 domain.Transaction) float64 {
	if !t1.Magnitude().Equal(t2.Magnitude()) {
		return 0
	}
	score := baseConfidence + amountMatchBonus
	score += dateBonus(dayGap(t1.Date, t2.Date))
	score += descriptionBonus(t1.Description, t2.Description)
	return math.Max(minConfidence, math.Min(maxConfidence, score))
}

func dateBonus(days float64) float64 {
	switch {
	case days == 0:
		return 0.2
	case days <= 1:
		return 0.15
	case days <= 2:
		return 0.1
	case days <= 3:
		return 0.05
	default:
		return 0
	}
}

func descriptionBonus(d1, d2 string) float64 {
	d1, d2 = strings.ToLower(d1), strings.ToLower(d2)
	switch {
	case strings.Contains(d1, transferKeyword) || strings.Contains(d2, transferKeyword):
		return transferKeywordBonus
	case strings.Contains(d1, moveKeyword) || strings.Contains(d2, moveKeyword):
		return moveKeywordBonus
	default:
		return 0
	}
}

// dayGap is the absolute distance between two instants in (fractional) days.
func dayGap(a, b time.Time) float64 {
	return math.Abs(a.Sub(b).Hours()) / hoursPerDay
}
