package upsell

import (
	"sort"
	"strconv"

	"github.com/boostcart/models"
)

// ProductSet is the set of product ids already present in the triggering
// order. An empty set means the order's contents are unknown; product
// triggers fail closed against it.
type ProductSet map[int]struct{}

// NewProductSet builds a ProductSet from a list of product ids
func NewProductSet(ids []int) ProductSet {
	set := make(ProductSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// Contains reports whether the set holds the given product id
func (s ProductSet) Contains(id int) bool {
	_, ok := s[id]
	return ok
}

// Match selects at most one offer for an order. Candidates must already be
// filtered to active offers of a post-purchase-eligible display type; the
// caller's query does that.
//
// Candidates are ranked by priority descending, then creation time
// descending. The first candidate whose trigger is satisfied wins, unless
// its upsell product is already in the order, in which case a single alternate
// pass re-scans the ranked candidates for one that both satisfies its
// trigger and targets a product not yet purchased. No side effects;
// identical inputs always produce identical output.
func Match(candidates []models.Offer, purchased ProductSet) *models.Offer {
	ranked := make([]models.Offer, len(candidates))
	copy(ranked, candidates)

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Priority != ranked[j].Priority {
			return ranked[i].Priority > ranked[j].Priority
		}
		return ranked[i].CreatedAt.After(ranked[j].CreatedAt)
	})

	var matched *models.Offer
	for i := range ranked {
		if triggerSatisfied(&ranked[i], purchased) {
			matched = &ranked[i]
			break
		}
	}

	if matched == nil {
		return nil
	}

	if !purchased.Contains(matched.UpsellProductID) {
		return matched
	}

	// Self-purchase conflict: one alternate pass over the remaining
	// ranked candidates, same predicate plus the exclusion check.
	for i := range ranked {
		offer := &ranked[i]
		if offer.ID == matched.ID {
			continue
		}
		if triggerSatisfied(offer, purchased) && !purchased.Contains(offer.UpsellProductID) {
			return offer
		}
	}

	return nil
}

func triggerSatisfied(offer *models.Offer, purchased ProductSet) bool {
	switch offer.TriggerType {
	case models.TriggerAny:
		return true

	case models.TriggerProduct:
		// Fails closed: an unknown/empty purchased set never matches
		for _, raw := range offer.TriggerIDs {
			id, err := strconv.Atoi(raw)
			if err != nil {
				continue
			}
			if purchased.Contains(id) {
				return true
			}
		}
		return false

	case models.TriggerCategory:
		// Category membership is not resolved against the catalog yet;
		// category offers match every order. Known gap, kept on purpose.
		return true
	}

	return false
}
