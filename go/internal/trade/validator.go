package trade

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/tgrail/draftroom/go/internal/models"
)

// Validator checks a proposed trade's structural integrity before any state
// is touched: party participation, self-receipt and exact conservation of
// the contributed assets across the distribution.
type Validator struct{}

// assetKey is the matching identity for conservation checks.
type assetKey struct {
	Type        models.TradeAssetType
	DraftID     uuid.UUID
	OverallPick int
}

func keyOf(a models.TradeAsset) assetKey {
	return assetKey{Type: a.Type, DraftID: a.DraftID, OverallPick: a.OverallPick}
}

// Validate runs the structural rules against a trade and returns the
// resolved asset distribution. Two-party trades without an explicit
// distribution get one derived: each side receives exactly what the other
// contributed.
func (v Validator) Validate(trade *models.Trade) (models.AssetDistribution, error) {
	if len(trade.Parties) < 2 {
		return nil, &ValidationError{Reason: "a trade requires at least two parties"}
	}

	declared := make(map[uuid.UUID]bool, len(trade.Parties))
	for _, p := range trade.Parties {
		if declared[p.ManagerID] {
			return nil, &ValidationError{Reason: fmt.Sprintf("manager %s appears twice", p.ManagerID)}
		}
		declared[p.ManagerID] = true
		if len(p.Assets) == 0 {
			return nil, &ValidationError{Reason: "Each manager must include at least one trade asset"}
		}
	}

	dist := trade.Distribution
	if len(trade.Parties) == 2 && len(dist) == 0 {
		dist = deriveTwoPartyDistribution(trade)
	}

	if len(trade.Parties) > 2 {
		if len(dist) == 0 {
			return nil, &DistributionError{Reason: "trades with more than two parties require an explicit asset distribution"}
		}
		for _, p := range trade.Parties {
			if countReceived(dist[p.ManagerID]) == 0 {
				return nil, &DistributionError{Reason: fmt.Sprintf("manager %s receives no assets", p.ManagerID)}
			}
		}
	}

	for receiver, fromMap := range dist {
		if !declared[receiver] {
			return nil, &DistributionError{Reason: fmt.Sprintf("manager %s is not a party to the trade", receiver)}
		}
		for contributor := range fromMap {
			if !declared[contributor] {
				return nil, &DistributionError{Reason: fmt.Sprintf("manager %s is not a party to the trade", contributor)}
			}
			if contributor == receiver {
				return nil, &DistributionError{Reason: fmt.Sprintf("manager %s cannot receive assets from themselves", receiver)}
			}
		}
	}

	if err := v.checkConservation(trade, dist); err != nil {
		return nil, err
	}

	return dist, nil
}

// checkConservation verifies that the distributed assets are exactly the
// contributed assets: same total count, and each contributor's assets appear
// exactly once under that contributor, with nothing foreign mixed in.
func (v Validator) checkConservation(trade *models.Trade, dist models.AssetDistribution) error {
	// contributor -> asset identity -> count contributed
	contributed := make(map[uuid.UUID]map[assetKey]int, len(trade.Parties))
	total := 0
	for _, p := range trade.Parties {
		byKey := make(map[assetKey]int, len(p.Assets))
		for _, a := range p.Assets {
			byKey[keyOf(a)]++
			total++
		}
		contributed[p.ManagerID] = byKey
	}

	distributedTotal := 0
	for receiver, fromMap := range dist {
		for contributor, assets := range fromMap {
			for _, a := range assets {
				k := keyOf(a)
				remaining, ok := contributed[contributor][k]
				if !ok || remaining == 0 {
					return &DistributionError{Reason: fmt.Sprintf(
						"asset %s overall pick %d distributed to %s was not contributed by %s",
						a.Type, a.OverallPick, receiver, contributor)}
				}
				contributed[contributor][k] = remaining - 1
				distributedTotal++
			}
		}
	}

	if distributedTotal != total {
		return &DistributionError{Reason: fmt.Sprintf(
			"%d assets contributed but %d distributed", total, distributedTotal)}
	}
	return nil
}

// deriveTwoPartyDistribution builds the implied distribution of a two-party
// trade: A receives B's contribution and vice versa.
func deriveTwoPartyDistribution(trade *models.Trade) models.AssetDistribution {
	a, b := trade.Parties[0], trade.Parties[1]
	return models.AssetDistribution{
		a.ManagerID: {b.ManagerID: append([]models.TradeAsset(nil), b.Assets...)},
		b.ManagerID: {a.ManagerID: append([]models.TradeAsset(nil), a.Assets...)},
	}
}

func countReceived(fromMap map[uuid.UUID][]models.TradeAsset) int {
	n := 0
	for _, assets := range fromMap {
		n += len(assets)
	}
	return n
}
