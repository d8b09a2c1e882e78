package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// PaginationParams holds pagination-related query parameters
type PaginationParams struct {
	Page  int
	Limit int
}

// ParsePaginationParams parses page and limit from the request.
// A limit of 0 means the caller did not ask for paging.
func ParsePaginationParams(c *gin.Context, maxLimit int) PaginationParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	if page < 1 {
		page = 1
	}
	if limit < 0 {
		limit = 0
	} else if limit > maxLimit {
		limit = maxLimit
	}

	return PaginationParams{
		Page:  page,
		Limit: limit,
	}
}

// Window returns the [start, end) bounds of the page within total items
func (p PaginationParams) Window(total int) (int, int) {
	if p.Limit <= 0 {
		return 0, total
	}
	// pages past the end are empty
	if p.Page < 1 || p.Page-1 >= CalculateTotalPages(total, p.Limit) {
		return total, total
	}
	start := (p.Page - 1) * p.Limit
	end := start + p.Limit
	if end > total {
		end = total
	}
	return start, end
}

// CalculateTotalPages calculates the total number of pages based on total items and limit
func CalculateTotalPages(totalItems, limit int) int {
	if limit <= 0 {
		return 1
	}
	totalPages := (totalItems + limit - 1) / limit
	if totalPages == 0 {
		totalPages = 1
	}
	return totalPages
}

// PaginationMetadata represents the standardized pagination metadata
type PaginationMetadata struct {
	TotalItems   int `json:"totalItems"`
	CurrentPage  int `json:"currentPage"`
	TotalPages   int `json:"totalPages"`
	ItemsPerPage int `json:"itemsPerPage"`
}

// NewPaginationMetadata creates a new pagination metadata object
func NewPaginationMetadata(totalItems int, p PaginationParams) PaginationMetadata {
	perPage := p.Limit
	if perPage == 0 {
		perPage = totalItems
	}
	return PaginationMetadata{
		TotalItems:   totalItems,
		CurrentPage:  p.Page,
		TotalPages:   CalculateTotalPages(totalItems, p.Limit),
		ItemsPerPage: perPage,
	}
}

// SendDataResponse sends a standardized data response
func SendDataResponse(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, gin.H{"data": data})
}

// SendErrorResponse sends a standardized error response
func SendErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{"error": message})
}
