package dashboard

import (
	"github.com/gin-gonic/gin"

	"cloudtrail-explorer/internal/query"
	"cloudtrail-explorer/internal/types"
)

// parseRequest reads the query request from URL parameters.
func parseRequest(c *gin.Context, defaultSize types.PageSize) (query.Request, error) {
	return query.ParseRequest(c.Query, defaultSize)
}
