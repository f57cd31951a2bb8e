package utils

import (
	"alizia-planner/internal/errors"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ParamID reads a positive integer path parameter.
func ParamID(c *gin.Context, name string) (int64, error) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, errors.BadRequest(fmt.Sprintf("invalid %s %q", name, raw), err)
	}
	return id, nil
}

// QueryID reads an optional positive integer query parameter, 0 when absent.
func QueryID(c *gin.Context, name string) (int64, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, errors.BadRequest(fmt.Sprintf("invalid %s %q", name, raw), err)
	}
	return id, nil
}
