package handler

import (
	"bytes"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"trendlens-go/internal/service"
	"trendlens-go/pkg/chart"
	"trendlens-go/pkg/logger"
	"trendlens-go/pkg/storage"
	"trendlens-go/pkg/trends"
)

// Controller wires the query facades, history store and chart renderer
// into the HTTP API.
type Controller struct {
	trendsSvc service.TrendsService
	history   service.HistoryService
	renderer  chart.Renderer
	cache     *storage.ResultCache
	log       *logger.Logger
}

func NewController(
	trendsSvc service.TrendsService,
	history service.HistoryService,
	renderer chart.Renderer,
	cache *storage.ResultCache,
) *Controller {
	return &Controller{
		trendsSvc: trendsSvc,
		history:   history,
		renderer:  renderer,
		cache:     cache,
		log:       logger.ForComponent("http_controller"),
	}
}

// RegisterRoutes mounts all API routes on the app.
func (c *Controller) RegisterRoutes(app *fiber.App) {
	v1 := app.Group("/api/v1")
	v1.Get("/interest-over-time", c.handleInterestOverTime)
	v1.Get("/interest-by-region", c.handleInterestByRegion)
	v1.Get("/related-queries", c.handleRelatedQueries)
	v1.Get("/history", c.handleHistory)

	app.Get("/healthz", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{"status": "ok"})
	})
}

func (c *Controller) handleInterestOverTime(ctx *fiber.Ctx) error {
	keywords := splitKeywords(ctx.Query("keywords"))
	if len(keywords) == 0 {
		return badRequest(ctx, "keywords query parameter is required")
	}
	timeframe := ctx.Query("timeframe", trends.DefaultTimeframe)
	geo := ctx.Query("geo")

	payload := trends.Payload{Keywords: keywords, Timeframe: timeframe, Geo: geo}
	cacheKey := storage.FetchKey("interest_over_time", payload)

	var series *trends.TimeSeries
	if cached, ok := c.cache.Get(cacheKey); ok {
		series = cached.(*trends.TimeSeries)
	} else {
		start := time.Now()
		fetched, err := c.trendsSvc.InterestOverTime(ctx.Context(), keywords, timeframe, geo)
		c.record(ctx, storage.FetchRecord{
			Kind:       "interest_over_time",
			Keywords:   keywords,
			Timeframe:  timeframe,
			Geo:        geo,
			RowCount:   timeSeriesRows(fetched),
			Success:    err == nil,
			Error:      errString(err),
			DurationMs: time.Since(start).Milliseconds(),
		})
		if err != nil {
			return fetchFailed(ctx, err)
		}
		series = fetched
		c.cache.Set(cacheKey, series)
	}

	if series.Empty() {
		return ctx.JSON(fiber.Map{
			"status":  "empty",
			"message": "No data retrieved for interest over time.",
		})
	}

	if ctx.Query("format") == "html" {
		var buf bytes.Buffer
		title := ctx.Query("title", "Interest Over Time")
		if err := c.renderer.RenderInterestOverTime(&buf, series, title); err != nil {
			c.log.WithError(err).Error("Chart rendering failed")
			return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"status":  "error",
				"message": err.Error(),
			})
		}
		ctx.Type("html")
		return ctx.Send(buf.Bytes())
	}

	return ctx.JSON(fiber.Map{"status": "success", "data": series})
}

func (c *Controller) handleInterestByRegion(ctx *fiber.Ctx) error {
	keyword := ctx.Query("keyword")
	if keyword == "" {
		return badRequest(ctx, "keyword query parameter is required")
	}
	resolution := trends.Resolution(ctx.Query("resolution", string(trends.ResolutionCountry)))
	geo := ctx.Query("geo")

	payload := trends.Payload{Keywords: []string{keyword}, Geo: geo, Resolution: resolution}
	cacheKey := storage.FetchKey("interest_by_region", payload)

	var table *trends.RegionTable
	if cached, ok := c.cache.Get(cacheKey); ok {
		table = cached.(*trends.RegionTable)
	} else {
		start := time.Now()
		fetched, err := c.trendsSvc.InterestByRegion(ctx.Context(), keyword, resolution, geo)
		c.record(ctx, storage.FetchRecord{
			Kind:       "interest_by_region",
			Keywords:   []string{keyword},
			Geo:        geo,
			Resolution: string(resolution),
			RowCount:   regionRows(fetched),
			Success:    err == nil,
			Error:      errString(err),
			DurationMs: time.Since(start).Milliseconds(),
		})
		if err != nil {
			return fetchFailed(ctx, err)
		}
		table = fetched
		c.cache.Set(cacheKey, table)
	}

	if table.Empty() {
		return ctx.JSON(fiber.Map{
			"status":  "empty",
			"message": "No data retrieved for regional interest.",
		})
	}

	if ctx.Query("format") == "html" {
		var buf bytes.Buffer
		title := ctx.Query("title", "Regional Interest")
		if err := c.renderer.RenderRegionalInterest(&buf, table, keyword, title); err != nil {
			c.log.WithError(err).Error("Chart rendering failed")
			return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"status":  "error",
				"message": err.Error(),
			})
		}
		ctx.Type("html")
		return ctx.Send(buf.Bytes())
	}

	return ctx.JSON(fiber.Map{"status": "success", "data": table})
}

func (c *Controller) handleRelatedQueries(ctx *fiber.Ctx) error {
	keyword := ctx.Query("keyword")
	if keyword == "" {
		return badRequest(ctx, "keyword query parameter is required")
	}
	geo := ctx.Query("geo")

	start := time.Now()
	related, err := c.trendsSvc.RelatedQueries(ctx.Context(), keyword, geo)
	c.record(ctx, storage.FetchRecord{
		Kind:       "related_queries",
		Keywords:   []string{keyword},
		Geo:        geo,
		RowCount:   relatedRows(related),
		Success:    err == nil,
		Error:      errString(err),
		DurationMs: time.Since(start).Milliseconds(),
	})
	if err != nil {
		return fetchFailed(ctx, err)
	}

	if related.Empty() {
		return ctx.JSON(fiber.Map{
			"status":  "empty",
			"message": "No related queries retrieved.",
		})
	}

	return ctx.JSON(fiber.Map{"status": "success", "data": related})
}

func (c *Controller) handleHistory(ctx *fiber.Ctx) error {
	limit := ctx.QueryInt("limit", 20)

	records, err := c.history.Recent(ctx.Context(), limit)
	if err != nil {
		c.log.WithError(err).Error("Failed to read fetch history")
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": err.Error(),
		})
	}

	return ctx.JSON(fiber.Map{"status": "success", "data": records})
}

// record persists a fetch outcome, best effort.
func (c *Controller) record(ctx *fiber.Ctx, rec storage.FetchRecord) {
	if err := c.history.Record(ctx.Context(), rec); err != nil {
		c.log.WithError(err).Warn("Failed to record fetch history")
	}
}

func badRequest(ctx *fiber.Ctx, message string) error {
	return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"status":  "error",
		"message": message,
	})
}

func fetchFailed(ctx *fiber.Ctx, err error) error {
	return ctx.Status(fiber.StatusBadGateway).JSON(fiber.Map{
		"status":  "error",
		"message": err.Error(),
	})
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func splitKeywords(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	keywords := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			keywords = append(keywords, trimmed)
		}
	}
	return keywords
}

func timeSeriesRows(series *trends.TimeSeries) int {
	if series == nil {
		return 0
	}
	return len(series.Points)
}

func regionRows(table *trends.RegionTable) int {
	if table == nil {
		return 0
	}
	return len(table.Rows)
}

func relatedRows(related *trends.RelatedQueries) int {
	if related == nil {
		return 0
	}
	return len(related.Top) + len(related.Rising)
}
