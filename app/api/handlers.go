package api

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/lysyi3m/yearbook/app/config"
	"github.com/lysyi3m/yearbook/app/feed"
	"github.com/lysyi3m/yearbook/app/year"
)

func NewHandler(years YearService, generator GeneratorInterface, site *config.SiteConfig,
	cache CacheStatsProvider, version string) *Handler {
	return &Handler{
		years:     years,
		generator: generator,
		filterer:  feed.NewFilterer(),
		site:      site,
		cache:     cache,
		version:   version,
		randomYear: func() int {
			return rand.IntN(year.CurrentYear()) + 1
		},
	}
}

func parseYear(raw string) (int, error) {
	y, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("invalid year %q: %w", raw, err)
	}
	return y, nil
}

func (h *Handler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.tmpl", gin.H{
		"Flash":   popFlash(c),
		"Presets": h.site.Presets,
		"Version": h.version,
	})
}

func (h *Handler) SubmitYear(c *gin.Context) {
	y, err := parseYear(c.PostForm("year"))
	if err != nil {
		h.rejectYear(c, err)
		return
	}

	c.Redirect(http.StatusSeeOther, fmt.Sprintf("/year/%d", year.Clamp(y)))
}

func (h *Handler) GetYear(c *gin.Context) {
	y, err := parseYear(c.Param("year"))
	if err != nil {
		h.rejectYear(c, err)
		return
	}
	y = year.Clamp(y)

	data := h.years.GetYearData(c.Request.Context(), y)

	query := c.Query("q")

	c.HTML(http.StatusOK, "year.tmpl", gin.H{
		"Flash":   popFlash(c),
		"View":    newYearView(y, h.filterer.Run(data, query)),
		"Query":   query,
		"Version": h.version,
	})
}

func (h *Handler) GetYearFeed(c *gin.Context) {
	y, err := parseYear(c.Param("year"))
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}
	y = year.Clamp(y)

	data := h.years.GetYearData(c.Request.Context(), y)

	rss, err := h.generator.Run(y, h.filterer.Run(data, c.Query("q")))
	if err != nil {
		slog.Error("RSS generation error", "year", y, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Header("Content-Type", "application/xml; charset=utf-8")
	c.Header("X-Feed-Year", strconv.Itoa(y))
	c.String(http.StatusOK, rss)
}

func (h *Handler) Compare(c *gin.Context) {
	a, b, err := parseYearPair(c)
	if err != nil {
		h.rejectYear(c, err)
		return
	}

	dataA, dataB := h.loadPair(c.Request.Context(), a, b)

	c.HTML(http.StatusOK, "compare.tmpl", gin.H{
		"A":       newYearView(a, dataA),
		"B":       newYearView(b, dataB),
		"Gap":     gap(a, b),
		"Version": h.version,
	})
}

func (h *Handler) Random(c *gin.Context) {
	c.Redirect(http.StatusFound, fmt.Sprintf("/year/%d", year.Clamp(h.randomYear())))
}

func (h *Handler) APIGetYear(c *gin.Context) {
	y, err := parseYear(c.Param("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Year must be an integer"})
		return
	}
	y = year.Clamp(y)

	data := h.years.GetYearData(c.Request.Context(), y)

	c.JSON(http.StatusOK, yearPayload(y, h.filterer.Run(data, c.Query("q"))))
}

func (h *Handler) APICompare(c *gin.Context) {
	a, b, err := parseYearPair(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Parameters a and b must be integers"})
		return
	}

	dataA, dataB := h.loadPair(c.Request.Context(), a, b)

	c.JSON(http.StatusOK, gin.H{
		"a":   yearPayload(a, dataA),
		"b":   yearPayload(b, dataB),
		"gap": gap(a, b),
	})
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
		"version":   h.version,
		"memo":      h.years.Stats(),
	}

	if h.cache != nil {
		health["http_cache"] = h.cache.Stats()
	}

	c.JSON(http.StatusOK, health)
}

// rejectYear flashes the invalid-year message and sends the visitor home.
func (h *Handler) rejectYear(c *gin.Context, err error) {
	slog.Debug("Rejected year input", "path", c.Request.URL.Path, "error", err)
	setFlash(c, invalidYearMsg)
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *Handler) loadPair(ctx context.Context, a, b int) (*year.Data, *year.Data) {
	var dataA, dataB *year.Data

	var g errgroup.Group
	g.Go(func() error {
		dataA = h.years.GetYearData(ctx, a)
		return nil
	})
	g.Go(func() error {
		dataB = h.years.GetYearData(ctx, b)
		return nil
	})
	_ = g.Wait()

	return dataA, dataB
}

func parseYearPair(c *gin.Context) (int, int, error) {
	a, err := parseYear(c.Query("a"))
	if err != nil {
		return 0, 0, err
	}
	b, err := parseYear(c.Query("b"))
	if err != nil {
		return 0, 0, err
	}
	return year.Clamp(a), year.Clamp(b), nil
}

func yearPayload(y int, data *year.Data) gin.H {
	return gin.H{
		"year":     y,
		"summary":  data.Summary,
		"sections": data.Sections,
	}
}

func gap(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}
