package utils

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-manager-api/internal/repository"
)

// Accepted spellings of the sortable task fields
var sortFieldAliases = map[string]string{
	"description": repository.SortFieldDescription,
	"completed":   repository.SortFieldCompleted,
	"created_at":  repository.SortFieldCreatedAt,
	"createdAt":   repository.SortFieldCreatedAt,
	"updated_at":  repository.SortFieldUpdatedAt,
	"updatedAt":   repository.SortFieldUpdatedAt,
}

// TaskListParams holds the list options extracted from a request
type TaskListParams struct {
	Completed *bool
	Sort      *repository.SortOption
	Limit     int
	Skip      int
}

// GetTaskListParams reads completed, sortBy, limit and skip from the query string.
// Malformed values are dropped instead of failing the request.
func GetTaskListParams(c *gin.Context) TaskListParams {
	return TaskListParams{
		Completed: ParseCompleted(c.Query("completed")),
		Sort:      ParseSortBy(c.Query("sortBy")),
		Limit:     ParseBound(c.Query("limit")),
		Skip:      ParseBound(c.Query("skip")),
	}
}

// ParseCompleted maps "true" to true and any other non-empty value to false.
func ParseCompleted(value string) *bool {
	if value == "" {
		return nil
	}
	completed := value == "true"
	return &completed
}

// ParseSortBy parses "field:asc|desc". Unknown fields yield no sort; any
// direction other than "desc" sorts ascending.
func ParseSortBy(value string) *repository.SortOption {
	if value == "" {
		return nil
	}

	name, direction, _ := strings.Cut(value, ":")
	field, ok := sortFieldAliases[name]
	if !ok {
		return nil
	}

	return &repository.SortOption{
		Field: field,
		Desc:  direction == "desc",
	}
}

// ParseBound parses limit or skip. Non-numeric or non-positive input means no bound.
func ParseBound(value string) int {
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
