package v1

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ReporterAuthMiddleware пускает к приему отчетов только клиентов с известным API-ключом.
// Без настроенных ключей прием отчетов выключен.
func ReporterAuthMiddleware(keys []string, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		entry := log.WithFields(logrus.Fields{
			"path":      c.FullPath(),
			"client_ip": c.ClientIP(),
		})

		if len(keys) == 0 {
			entry.Warn("Report rejected: API_KEYS not configured")
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "report submission is disabled"})
			return
		}

		apiKey := reporterKey(c)
		if apiKey == "" {
			entry.Warn("Report rejected: API key missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "reports require an API key"})
			return
		}
		if !knownKey(keys, apiKey) {
			entry.Warn("Report rejected: unknown API key")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "API key is not allowed to submit reports"})
			return
		}

		c.Next()
	}
}

// reporterKey читает ключ из X-API-Key или Authorization: Bearer
func reporterKey(c *gin.Context) string {
	if key := strings.TrimSpace(c.GetHeader("X-API-Key")); key != "" {
		return key
	}
	if token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

func knownKey(keys []string, apiKey string) bool {
	found := 0
	for _, key := range keys {
		found |= subtle.ConstantTimeCompare([]byte(key), []byte(apiKey))
	}
	return found == 1
}
