package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"sparkmatch/storage"

	"github.com/gin-gonic/gin"
)

// Discover returns the swipe deck: up to 10 candidates matching the query
// filters, excluding the caller and anyone already swiped on.
func Discover(c *gin.Context) {
	authUID := c.GetString("authUid")
	if authUID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	filters := storage.DiscoveryFilters{
		MaxDistance: queryFloat(c, "maxDistance", 50),
		MinAge:      queryInt(c, "minAge", 18),
		MaxAge:      queryInt(c, "maxAge", 50),
	}
	if interests := c.Query("interests"); interests != "" {
		filters.Interests = strings.Split(interests, ",")
	}

	c.JSON(http.StatusOK, store.GetPotentialMatches(authUID, filters))
}

func queryInt(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func queryFloat(c *gin.Context, key string, fallback float64) float64 {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return value
}
