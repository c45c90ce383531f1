package api

import (
	"bytes"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lysyi3m/podcast-intel/app/analysis"
	"github.com/lysyi3m/podcast-intel/app/database"
)

const (
	feedDigestLimit = 30
	htmlContentType = "text/html; charset=utf-8"
)

func NewHandler(reports ReportsInterface, pages PagesInterface, stats database.StatsRepository,
	digests database.DigestRepository, generator GeneratorInterface, podcastCount int) *Handler {
	return &Handler{
		reports:      reports,
		pages:        pages,
		stats:        stats,
		digests:      digests,
		generator:    generator,
		podcastCount: podcastCount,
	}
}

func (h *Handler) GetOverview(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.pages.Overview(&buf, h.reports.Overview()); err != nil {
		slog.Error("Render error", "page", "overview", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Data(http.StatusOK, htmlContentType, buf.Bytes())
}

func (h *Handler) GetRightWing(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.pages.RightWing(&buf, h.reports.RightWing()); err != nil {
		slog.Error("Render error", "page", "right", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Data(http.StatusOK, htmlContentType, buf.Bytes())
}

func (h *Handler) GetCampaign(c *gin.Context) {
	hours := campaignHours(c.Query("hours"))

	var buf bytes.Buffer
	if err := h.pages.Campaign(&buf, h.reports.Campaign(hours), hours); err != nil {
		slog.Error("Render error", "page", "campaign", "hours", hours, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Data(http.StatusOK, htmlContentType, buf.Bytes())
}

// campaignHours reads the window size, falling back to 72 for anything that
// is not a positive integer.
func campaignHours(raw string) int {
	hours, err := strconv.Atoi(raw)
	if err != nil || hours <= 0 {
		return analysis.DefaultCampaignHours
	}
	return hours
}

func (h *Handler) APIGetStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.reports.Stats())
}

func (h *Handler) APIGetTopics(c *gin.Context) {
	c.JSON(http.StatusOK, h.reports.TrendingTopics())
}

func (h *Handler) GetDigestFeed(c *gin.Context) {
	digests, err := h.digests.GetRecent(feedDigestLimit)
	if err != nil {
		slog.Error("Database error", "operation", "get_digests", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	rss, err := h.generator.Run(digests)
	if err != nil {
		slog.Error("RSS generation error", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Header("X-Feed-Items", strconv.Itoa(len(digests)))
	c.Data(http.StatusOK, "application/xml; charset=utf-8", []byte(rss))
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]any{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
		"podcasts":  h.podcastCount,
	}

	if total, err := h.stats.CountEpisodes(); err == nil {
		health["episodes"] = total
	}
	if analyzed, err := h.stats.CountAnalyzed(); err == nil {
		health["analyzed"] = analyzed
	}

	c.JSON(http.StatusOK, health)
}
