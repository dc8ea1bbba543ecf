package billing

import "parkledger/backend/services/ledger-service/internal/models"

// Summary holds dashboard metrics for a set of finalized sessions.
type Summary struct {
	TotalRevenue    float64                 `json:"total_revenue"`
	Count           int                     `json:"count"`
	AverageTicket   float64                 `json:"average_ticket"`
	CountByCategory map[models.Category]int `json:"count_by_category"`
}

// Summarize aggregates the charged amounts frozen on each session.
// Charges are never recomputed, so later rate changes do not alter the result.
// A session without a stored amount contributes zero revenue but is still counted.
func Summarize(sessions []models.Session) Summary {
	sum := Summary{CountByCategory: make(map[models.Category]int)}
	for _, s := range sessions {
		sum.TotalRevenue += s.ChargedAmount.ValueOrZero()
		sum.CountByCategory[s.Category]++
	}
	sum.Count = len(sessions)
	if sum.Count > 0 {
		sum.AverageTicket = sum.TotalRevenue / float64(sum.Count)
	}
	return sum
}
