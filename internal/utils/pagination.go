package utils

import (
	"strconv"

	pkgutils "github.com/aquiresolve/admin-api/pkg/utils"
	"github.com/gin-gonic/gin"
)

// PaginationParams holds pagination parameters
type PaginationParams struct {
	Limit  int
	Offset int
}

// PaginationMetadata holds pagination metadata for responses
type PaginationMetadata struct {
	Total      int  `json:"total"`
	Limit      int  `json:"limit"`
	Offset     int  `json:"offset"`
	HasMore    bool `json:"hasMore"`
	TotalPages int  `json:"totalPages"`
}

// NewPaginationParams creates a new pagination params with defaults
func NewPaginationParams(limit, offset int) *PaginationParams {
	return &PaginationParams{
		Limit:  pkgutils.ValidateLimit(limit),
		Offset: pkgutils.ValidateOffset(offset),
	}
}

// PaginationFromQuery reads limit and offset query parameters.
// Malformed values fall back to the defaults.
func PaginationFromQuery(c *gin.Context) *PaginationParams {
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))
	return NewPaginationParams(limit, offset)
}

// CalculatePaginationMetadata calculates pagination metadata
func CalculatePaginationMetadata(total, limit, offset int) *PaginationMetadata {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}

	return &PaginationMetadata{
		Total:      total,
		Limit:      limit,
		Offset:     offset,
		HasMore:    (offset + limit) < total,
		TotalPages: totalPages,
	}
}
