package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/ddanilenko/newsbrief/app/database"
	"github.com/ddanilenko/newsbrief/app/dedup"
	"github.com/gin-gonic/gin"
)

func NewHandler(seenRepo database.SeenRepository, bufferRepo database.BufferRepository,
	digestRepo database.DigestRepository, articleWindow, paperWindow time.Duration,
	version string) *Handler {
	return &Handler{
		seenRepo:      seenRepo,
		bufferRepo:    bufferRepo,
		digestRepo:    digestRepo,
		articleWindow: articleWindow,
		paperWindow:   paperWindow,
		version:       version,
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   h.version,
	}

	if count, err := h.bufferRepo.Count(); err == nil {
		health["buffered_items"] = count
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	now := time.Now().UTC()
	stats := map[string]interface{}{}

	if count, err := h.seenRepo.CountLive(dedup.ScopeArticles, now.Add(-h.articleWindow)); err == nil {
		stats["seen_articles"] = count
	} else {
		slog.Error("Database error", "operation", "count_articles", "error", err)
	}
	if count, err := h.seenRepo.CountLive(dedup.ScopePapers, now.Add(-h.paperWindow)); err == nil {
		stats["seen_papers"] = count
	} else {
		slog.Error("Database error", "operation", "count_papers", "error", err)
	}
	if count, err := h.bufferRepo.Count(); err == nil {
		stats["buffered_items"] = count
	} else {
		slog.Error("Database error", "operation", "count_buffer", "error", err)
	}
	if count, err := h.digestRepo.Count(); err == nil {
		stats["digests"] = count
	} else {
		slog.Error("Database error", "operation", "count_digests", "error", err)
	}

	c.JSON(http.StatusOK, stats)
}

func (h *Handler) GetLatestDigest(c *gin.Context) {
	digest, err := h.digestRepo.GetLatest()
	if err != nil {
		slog.Error("Database error", "operation", "get_latest_digest", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if digest == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No digest published yet"})
		return
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"id":           digest.ID,
		"generated_at": digest.GeneratedAt.Format(time.RFC3339),
		"item_count":   digest.ItemCount,
		"briefing":     digest.Briefing,
		"markdown":     digest.Markdown,
		"pr_url":       digest.PRURL,
	})
}
