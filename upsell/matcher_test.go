package upsell

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boostcart/models"
)

func makeOffer(id string, priority int, createdAt time.Time, triggerType string, triggerIDs []string, target int) models.Offer {
	return models.Offer{
		ID:              id,
		Name:            "offer " + id,
		Type:            models.OfferTypePostPurchase,
		Status:          models.OfferStatusActive,
		TriggerType:     triggerType,
		TriggerIDs:      triggerIDs,
		UpsellProductID: target,
		Priority:        priority,
		CreatedAt:       createdAt,
	}
}

func TestMatchAnyTrigger(t *testing.T) {
	now := time.Now()
	offers := []models.Offer{
		makeOffer("a", 0, now, models.TriggerAny, nil, 10),
	}

	got := Match(offers, NewProductSet([]int{1, 2}))
	require.NotNil(t, got)
	assert.Equal(t, "a", got.ID)

	// "any" matches even with an unknown purchased set
	got = Match(offers, ProductSet{})
	require.NotNil(t, got)
	assert.Equal(t, "a", got.ID)
}

func TestMatchPriorityOrdering(t *testing.T) {
	now := time.Now()
	offers := []models.Offer{
		makeOffer("low", 1, now, models.TriggerAny, nil, 10),
		makeOffer("high", 5, now.Add(-time.Hour), models.TriggerAny, nil, 11),
	}

	got := Match(offers, NewProductSet([]int{1}))
	require.NotNil(t, got)
	assert.Equal(t, "high", got.ID, "higher priority wins regardless of input order")
}

func TestMatchPriorityTieBreaksByNewest(t *testing.T) {
	now := time.Now()
	offers := []models.Offer{
		makeOffer("older", 3, now.Add(-2*time.Hour), models.TriggerAny, nil, 10),
		makeOffer("newer", 3, now, models.TriggerAny, nil, 11),
	}

	got := Match(offers, NewProductSet([]int{1}))
	require.NotNil(t, got)
	assert.Equal(t, "newer", got.ID)
}

func TestMatchProductTrigger(t *testing.T) {
	now := time.Now()
	offers := []models.Offer{
		makeOffer("a", 0, now, models.TriggerProduct, []string{"5", "6"}, 10),
	}

	got := Match(offers, NewProductSet([]int{6, 99}))
	require.NotNil(t, got)
	assert.Equal(t, "a", got.ID)

	assert.Nil(t, Match(offers, NewProductSet([]int{7, 8})), "no intersection")
}

func TestMatchProductTriggerFailsClosed(t *testing.T) {
	now := time.Now()
	offers := []models.Offer{
		makeOffer("a", 0, now, models.TriggerProduct, []string{"5"}, 10),
	}

	// Unknown/empty purchased set never satisfies a product trigger
	assert.Nil(t, Match(offers, ProductSet{}))
	assert.Nil(t, Match(offers, nil))
}

func TestMatchProductTriggerIgnoresMalformedIDs(t *testing.T) {
	now := time.Now()
	offers := []models.Offer{
		makeOffer("a", 0, now, models.TriggerProduct, []string{"not-a-number", "7"}, 10),
	}

	got := Match(offers, NewProductSet([]int{7}))
	require.NotNil(t, got)
	assert.Equal(t, "a", got.ID)
}

func TestMatchCategoryTriggerAlwaysSatisfied(t *testing.T) {
	// Category resolution is a documented gap: category offers match any
	// order, including one with unknown contents.
	now := time.Now()
	offers := []models.Offer{
		makeOffer("cat", 0, now, models.TriggerCategory, []string{"44"}, 10),
	}

	got := Match(offers, ProductSet{})
	require.NotNil(t, got)
	assert.Equal(t, "cat", got.ID)
}

func TestMatchSelfPurchaseExclusion(t *testing.T) {
	now := time.Now()
	offers := []models.Offer{
		makeOffer("primary", 5, now, models.TriggerAny, nil, 42),
		makeOffer("alternate", 1, now, models.TriggerAny, nil, 50),
	}

	// Target 42 already purchased, so the alternate pass picks the next
	// candidate whose target is not in the order.
	got := Match(offers, NewProductSet([]int{42}))
	require.NotNil(t, got)
	assert.Equal(t, "alternate", got.ID)
}

func TestMatchSelfPurchaseNoAlternate(t *testing.T) {
	now := time.Now()
	offers := []models.Offer{
		makeOffer("only", 5, now, models.TriggerAny, nil, 42),
	}

	assert.Nil(t, Match(offers, NewProductSet([]int{42})))
}

func TestMatchAlternatePassRechecksTrigger(t *testing.T) {
	now := time.Now()
	offers := []models.Offer{
		makeOffer("primary", 5, now, models.TriggerAny, nil, 42),
		// Higher-priority product offer whose trigger is NOT satisfied;
		// the alternate pass must not pick it just because its target
		// is unpurchased.
		makeOffer("wrong-trigger", 4, now, models.TriggerProduct, []string{"999"}, 50),
		makeOffer("good", 1, now, models.TriggerAny, nil, 60),
	}

	got := Match(offers, NewProductSet([]int{42}))
	require.NotNil(t, got)
	assert.Equal(t, "good", got.ID)
}

func TestMatchEmptyCandidates(t *testing.T) {
	assert.Nil(t, Match(nil, NewProductSet([]int{1})))
	assert.Nil(t, Match([]models.Offer{}, ProductSet{}))
}

func TestMatchDeterministic(t *testing.T) {
	now := time.Now()
	offers := []models.Offer{
		makeOffer("a", 2, now.Add(-time.Minute), models.TriggerAny, nil, 10),
		makeOffer("b", 2, now, models.TriggerProduct, []string{"3"}, 11),
		makeOffer("c", 7, now, models.TriggerProduct, []string{"9"}, 12),
	}
	purchased := NewProductSet([]int{3})

	first := Match(offers, purchased)
	require.NotNil(t, first)
	for i := 0; i < 10; i++ {
		again := Match(offers, purchased)
		require.NotNil(t, again)
		assert.Equal(t, first.ID, again.ID)
	}
}

func TestMatchDoesNotMutateInput(t *testing.T) {
	now := time.Now()
	offers := []models.Offer{
		makeOffer("a", 1, now, models.TriggerAny, nil, 10),
		makeOffer("b", 9, now, models.TriggerAny, nil, 11),
	}

	Match(offers, ProductSet{})
	assert.Equal(t, "a", offers[0].ID, "input slice order is preserved")
	assert.Equal(t, "b", offers[1].ID)
}
