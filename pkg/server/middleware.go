/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: middleware.go
Description: Request middleware for the inspector server. Tags every request
with a UUID, echoes it in the response headers, and logs method, path, status,
and duration.
*/

package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

// statusRecorder captures the response status for the request log.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// withRequestLogging wraps a handler with request-ID tagging and a
// structured access log.
func (s *Server) withRequestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.New().String()
		w.Header().Set("X-Request-ID", requestID)

		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		s.access.LogRequest(requestID, r.Method, r.URL.Path, recorder.status, time.Since(start), nil)
	})
}
