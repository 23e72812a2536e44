package service

import (
	"context"
	"math"
	"time"

	"github.com/bondfi/bondfi/internal/bonds"
	"github.com/bondfi/bondfi/internal/domain"
)

const earningsHistoryDays = 30

// GetPortfolio aggregates the identity's buy transactions into per-bond
// holdings. Current value uses a fixed illustrative markup of half the
// annual yield; the earnings history is a synthesized 30-point curve from
// 70% to 100% of the total, not derived from dated events.
func (s *Service) GetPortfolio(ctx context.Context, email string) (*domain.Portfolio, error) {
	txns, err := s.repo.ListTransactions(ctx, email)
	if err != nil {
		return nil, err
	}

	holdingIdx := make(map[string]int)
	holdings := make([]domain.Holding, 0)
	for _, txn := range txns {
		if txn.TransactionType != domain.TransactionTypeBuy {
			continue
		}
		i, ok := holdingIdx[txn.BondID]
		if !ok {
			var yield float64
			if bond, found := bonds.Find(txn.BondID); found {
				yield = bond.YieldPercentage
			}
			holdings = append(holdings, domain.Holding{
				BondID:          txn.BondID,
				Country:         txn.BondCountry,
				YieldPercentage: yield,
			})
			i = len(holdings) - 1
			holdingIdx[txn.BondID] = i
		}
		holdings[i].Tokens += txn.TokensReceived
		holdings[i].Invested += txn.Amount
	}

	var totalValue, totalTokens float64
	for i := range holdings {
		holdings[i].CurrentValue = holdings[i].Invested * (1 + holdings[i].YieldPercentage/100*0.5)
		totalValue += holdings[i].CurrentValue
		totalTokens += holdings[i].Tokens
	}

	history := make([]domain.EarningsPoint, 0, earningsHistoryDays)
	now := time.Now().UTC()
	for i := 0; i < earningsHistoryDays; i++ {
		date := now.AddDate(0, 0, -(earningsHistoryDays - 1 - i)).Format("2006-01-02")
		var value float64
		if totalValue > 0 {
			value = round2(totalValue * (0.7 + float64(i)/earningsHistoryDays*0.3))
		}
		history = append(history, domain.EarningsPoint{Date: date, Value: value})
	}

	return &domain.Portfolio{
		TotalValue:      round2(totalValue),
		TotalTokens:     round2(totalTokens),
		Holdings:        holdings,
		EarningsHistory: history,
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
