package middleware

import (
	"net/http"

	"github.com/go-chi/httplog"
)

// AccessLog logs every request, logLevel "dev" gives human readable output
func AccessLog(serviceName, logLevel string) func(http.Handler) http.Handler {
	logger := httplog.NewLogger(serviceName, httplog.Options{
		JSON:    logLevel != "dev",
		Concise: true,
	})

	return httplog.RequestLogger(logger)
}
