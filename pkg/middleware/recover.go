package middleware

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/aldor007/imgfind/pkg/monitoring"
	"github.com/aldor007/imgfind/pkg/response"
)

// Recoverer catches panics of next handler and replies with generic internal error
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		defer func() {
			rvr := recover()
			if rvr == nil {
				return
			}

			if rvr == http.ErrAbortHandler {
				panic(rvr)
			}

			err, ok := rvr.(error)
			if !ok {
				err = fmt.Errorf("%v", rvr)
			}

			monitoring.Log().Error("Panic while handling request", zap.String("method", req.Method),
				zap.String("path", req.URL.Path), zap.Error(err), zap.Stack("stack"))
			monitoring.Report().Inc("imgfind_requests;collection:-,op:panic,status:500")
			response.NewError(http.StatusInternalServerError, err).Send(w)
		}()

		next.ServeHTTP(w, req)
	})
}
