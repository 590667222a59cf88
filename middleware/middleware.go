package middleware

import (
	"bufio"
	"log"
	"net"
	"net/http"
	"time"
)

// we extend an interface, and then override whatever method we need
// need to pass a ref of ResWriter because we only get the new status code after
// a handler has returned. a bit annoying
type statusResponseWriter struct {
	http.ResponseWriter
	status       int
	bytesWritten int64
}

func (w *statusResponseWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(w.status)
}

func (w *statusResponseWriter) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.bytesWritten += int64(n)
	return n, err
}

// Hijack forwards to the wrapped writer so websocket upgrades still work
// behind the logger.
func (w *statusResponseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, http.ErrNotSupported
	}
	return hj.Hijack()
}

func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		srw := &statusResponseWriter{
			ResponseWriter: w,
			status:         http.StatusOK,
		}

		start := time.Now()
		next.ServeHTTP(srw, r)
		duration := time.Since(start)

		log.Printf("[REQUEST] [%s %s] [%s] [Status: %d] [Duration: %v] [Bytes written: %d]", r.Method, r.URL.Path, r.Proto, srw.status, duration, srw.bytesWritten)
	})
}
