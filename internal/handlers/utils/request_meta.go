package utils

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// ClientIP returns the caller address recorded on consent and processing log entries
func ClientIP(c *gin.Context) *string {
	ip := c.ClientIP()
	if ip == "" {
		return nil
	}
	return &ip
}

// UserAgent returns the caller user agent, truncated to the column width
func UserAgent(c *gin.Context) *string {
	ua := strings.TrimSpace(c.Request.UserAgent())
	if ua == "" {
		return nil
	}
	if len(ua) > 512 {
		ua = ua[:512]
	}
	return &ua
}
