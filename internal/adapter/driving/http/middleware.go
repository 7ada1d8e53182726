package httphandler

import (
	"log/slog"
	"net/http"
	"time"
)

// probePaths are hit by container healthchecks every few seconds.
var probePaths = map[string]bool{
	"/api/v1/health": true,
}

// trackingWriter records what a handler wrote so the middleware can log it
// and so recovery knows whether a response already started.
type trackingWriter struct {
	http.ResponseWriter
	status  int
	bytes   int
	started bool
}

func (tw *trackingWriter) WriteHeader(status int) {
	if !tw.started {
		tw.status = status
		tw.started = true
	}
	tw.ResponseWriter.WriteHeader(status)
}

func (tw *trackingWriter) Write(b []byte) (int, error) {
	if !tw.started {
		tw.status = http.StatusOK
		tw.started = true
	}
	n, err := tw.ResponseWriter.Write(b)
	tw.bytes += n
	return n, err
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (tw *trackingWriter) Unwrap() http.ResponseWriter {
	return tw.ResponseWriter
}

func requestLevel(status int, path string) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case probePaths[path]:
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}

func loggingMiddleware(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		tw := &trackingWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(tw, r)

		logger.Log(r.Context(), requestLevel(tw.status, r.URL.Path), "http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", tw.status,
			"bytes", tw.bytes,
			"duration", time.Since(start).Round(time.Microsecond),
		)
	})
}

// recoveryMiddleware turns a handler panic into a 500. When the handler had
// already started its response only the log entry is produced.
func recoveryMiddleware(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tw, ok := w.(*trackingWriter)
		if !ok {
			tw = &trackingWriter{ResponseWriter: w, status: http.StatusOK}
		}

		defer func() {
			v := recover()
			if v == nil {
				return
			}
			if v == http.ErrAbortHandler {
				panic(v)
			}

			logger.Error("panic recovered", "panic", v, "method", r.Method, "path", r.URL.Path)
			if !tw.started {
				writeError(tw, http.StatusInternalServerError, "internal server error")
			}
		}()

		next.ServeHTTP(tw, r)
	})
}
