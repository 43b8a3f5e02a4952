package httpx

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// ClampInt — ограничение значения v в диапазоне [lo, hi].
func ClampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ParsePage - читает page из query; всё некорректное приводится к 1.
func ParsePage(c *gin.Context) int {
	v, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || v < 1 {
		return 1
	}
	return v
}

// ParseLimit - читает limit из query; значение вне allowed заменяется дефолтом.
func ParseLimit(c *gin.Context, allowed []int, defaultLimit int) int {
	v, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if err != nil {
		return defaultLimit
	}
	for _, a := range allowed {
		if v == a {
			return v
		}
	}
	return defaultLimit
}
