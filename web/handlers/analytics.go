package handlers

import (
	"fmt"
	"sort"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/boostcart/database"
	"github.com/boostcart/models"
	"github.com/boostcart/web/middleware"
)

// actionRollup is one action's counters in a grouped query
type actionRollup struct {
	Action  string  `json:"action"`
	Count   int64   `json:"count"`
	Revenue float64 `json:"revenue"`
}

// analyticsSummary is the dashboard's headline numbers
type analyticsSummary struct {
	Shown             int64   `json:"shown"`
	Accepted          int64   `json:"accepted"`
	Declined          int64   `json:"declined"`
	TimedOut          int64   `json:"timedOut"`
	TotalRevenue      float64 `json:"totalRevenue"`
	ConversionRate    string  `json:"conversionRate"`
	AverageOrderValue string  `json:"averageOrderValue"`
}

type dailyRow struct {
	Date    time.Time `json:"-"`
	Action  string    `json:"-"`
	Count   int64     `json:"-"`
	Revenue float64   `json:"-"`
}

type dailyPoint struct {
	Date     string  `json:"date"`
	Shown    int64   `json:"shown"`
	Accepted int64   `json:"accepted"`
	Declined int64   `json:"declined"`
	Revenue  float64 `json:"revenue"`
}

type offerRollup struct {
	OfferID string  `json:"offerId"`
	Action  string  `json:"action"`
	Count   int64   `json:"count"`
	Revenue float64 `json:"revenue"`
}

type recentEvent struct {
	ID         string    `json:"id"`
	OfferID    string    `json:"offer_id"`
	OrderID    int       `json:"order_id"`
	Action     string    `json:"action"`
	Revenue    *float64  `json:"revenue,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	OfferName  string    `json:"offer_name"`
	OfferTitle string    `json:"offer_title"`
}

// Analytics aggregates upsell events for the merchant dashboard. The four
// groupings are independent, so they run concurrently.
func Analytics(c *fiber.Ctx) error {
	store := middleware.SessionStore(c)
	db := database.GetDB()

	days := c.QueryInt("days", 30)
	if days < 1 {
		days = 30
	}
	startDate := time.Now().UTC().AddDate(0, 0, -days)

	var (
		totals  []actionRollup
		daily   []dailyRow
		byOffer []offerRollup
		recent  []recentEvent
	)

	g, ctx := errgroup.WithContext(c.UserContext())

	g.Go(func() error {
		return db.WithContext(ctx).Raw(`
			SELECT action, COUNT(*) AS count, COALESCE(SUM(revenue), 0) AS revenue
			FROM upsell_events
			WHERE store_id = ? AND created_at >= ?
			GROUP BY action
		`, store.ID, startDate).Scan(&totals).Error
	})

	g.Go(func() error {
		return db.WithContext(ctx).Raw(`
			SELECT DATE(created_at) AS date, action, COUNT(*) AS count,
			       COALESCE(SUM(revenue), 0) AS revenue
			FROM upsell_events
			WHERE store_id = ? AND created_at >= ?
			GROUP BY DATE(created_at), action
			ORDER BY date ASC
		`, store.ID, startDate).Scan(&daily).Error
	})

	g.Go(func() error {
		return db.WithContext(ctx).Raw(`
			SELECT offer_id, action, COUNT(*) AS count,
			       COALESCE(SUM(revenue), 0) AS revenue
			FROM upsell_events
			WHERE store_id = ? AND created_at >= ?
			GROUP BY offer_id, action
		`, store.ID, startDate).Scan(&byOffer).Error
	})

	g.Go(func() error {
		return db.WithContext(ctx).Raw(`
			SELECT e.id, e.offer_id, e.order_id, e.action, e.revenue, e.created_at,
			       o.name AS offer_name, o.title AS offer_title
			FROM upsell_events e
			JOIN offers o ON o.id = e.offer_id
			WHERE e.store_id = ? AND e.created_at >= ?
			ORDER BY e.created_at DESC
			LIMIT 50
		`, store.ID, startDate).Scan(&recent).Error
	})

	if err := g.Wait(); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch analytics",
		})
	}

	return c.JSON(fiber.Map{
		"summary":      buildSummary(totals),
		"daily":        buildDaily(daily),
		"offerStats":   byOffer,
		"recentEvents": recent,
	})
}

func buildSummary(totals []actionRollup) analyticsSummary {
	summary := analyticsSummary{
		ConversionRate:    "0.0",
		AverageOrderValue: "0.00",
	}

	for _, row := range totals {
		switch row.Action {
		case models.ActionShown:
			summary.Shown = row.Count
		case models.ActionAccepted:
			summary.Accepted = row.Count
			summary.TotalRevenue = row.Revenue
		case models.ActionDeclined:
			summary.Declined = row.Count
		case models.ActionTimeout:
			summary.TimedOut = row.Count
		}
	}

	if summary.Shown > 0 {
		summary.ConversionRate = fmt.Sprintf("%.1f", float64(summary.Accepted)/float64(summary.Shown)*100)
	}
	if summary.Accepted > 0 {
		summary.AverageOrderValue = fmt.Sprintf("%.2f", summary.TotalRevenue/float64(summary.Accepted))
	}

	return summary
}

func buildDaily(rows []dailyRow) []dailyPoint {
	byDate := make(map[string]*dailyPoint)
	for _, row := range rows {
		date := row.Date.Format("2006-01-02")
		point, ok := byDate[date]
		if !ok {
			point = &dailyPoint{Date: date}
			byDate[date] = point
		}
		switch row.Action {
		case models.ActionShown:
			point.Shown = row.Count
		case models.ActionAccepted:
			point.Accepted = row.Count
			point.Revenue = row.Revenue
		case models.ActionDeclined:
			point.Declined = row.Count
		}
	}

	points := make([]dailyPoint, 0, len(byDate))
	for _, point := range byDate {
		points = append(points, *point)
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Date < points[j].Date
	})

	return points
}

// summaryForStore is the dashboard page's 30-day rollup
func summaryForStore(db *gorm.DB, storeID string, days int) (analyticsSummary, error) {
	startDate := time.Now().UTC().AddDate(0, 0, -days)

	var totals []actionRollup
	err := db.Raw(`
		SELECT action, COUNT(*) AS count, COALESCE(SUM(revenue), 0) AS revenue
		FROM upsell_events
		WHERE store_id = ? AND created_at >= ?
		GROUP BY action
	`, storeID, startDate).Scan(&totals).Error
	if err != nil {
		return analyticsSummary{}, err
	}

	return buildSummary(totals), nil
}
