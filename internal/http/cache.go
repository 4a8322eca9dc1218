package http

import (
	"bytes"
	"net/http"
	"sync/atomic"
)

// cacheRecorder tees the response body so successful answers can be
// stored for replay.
type cacheRecorder struct {
	http.ResponseWriter
	statusCode int
	buf        bytes.Buffer
}

func (cr *cacheRecorder) WriteHeader(code int) {
	cr.statusCode = code
	cr.ResponseWriter.WriteHeader(code)
}

func (cr *cacheRecorder) Write(b []byte) (int, error) {
	cr.buf.Write(b)
	return cr.ResponseWriter.Write(b)
}

// cached serves analytics reads from the response cache, keyed by the
// full request URI so date and filter variants stay distinct. Only
// 200 responses are stored; errors are always recomputed.
func (s *Server) cached(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := r.URL.RequestURI()

		if data, ok := s.respCache.Get(key); ok {
			atomic.AddInt64(&s.metrics.cacheHits, 1)
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-Cache", "HIT")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(data)
			return
		}

		atomic.AddInt64(&s.metrics.cacheMisses, 1)
		w.Header().Set("X-Cache", "MISS")

		cr := &cacheRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next(cr, r)

		if cr.statusCode == http.StatusOK {
			s.respCache.Set(key, cr.buf.Bytes())
		}
	}
}

// recordWrite registers a successful mutation: analytics answers are
// stale now, so the response cache is dropped wholesale.
func (s *Server) recordWrite() {
	atomic.AddInt64(&s.metrics.itemWrites, 1)
	s.respCache.Purge()
}
