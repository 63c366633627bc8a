package server

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Paths excluded from request logging.
var quietPaths = map[string]bool{
	"/health": true,
}

// timedRecorder captures the response status and stamps the X-Response-Time
// header when the handler first writes, since headers are immutable after
// that point.
type timedRecorder struct {
	http.ResponseWriter
	start       time.Time
	status      int
	wroteHeader bool
}

func (w *timedRecorder) WriteHeader(status int) {
	if w.wroteHeader {
		return
	}
	w.wroteHeader = true
	w.status = status
	w.Header().Set("X-Response-Time", fmt.Sprintf("%.4f", time.Since(w.start).Seconds()))
	w.ResponseWriter.WriteHeader(status)
}

func (w *timedRecorder) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

// withRequestLog correlates each request with an ID and logs method, path,
// status, and latency.
func withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if quietPaths[r.URL.Path] {
			next.ServeHTTP(w, r)
			return
		}

		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)

		rec := &timedRecorder{ResponseWriter: w, start: time.Now(), status: http.StatusOK}
		next.ServeHTTP(rec, r)

		log.Printf("request %s %s %s -> %d (%.4fs) id=%s",
			r.Method, r.URL.Path, r.RemoteAddr, rec.status, time.Since(rec.start).Seconds(), requestID)
	})
}
