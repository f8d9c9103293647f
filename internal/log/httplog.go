package log

import (
	"fmt"
	"sync"
	"time"
)

// httpRequestsKept bounds how much request history /api/logs/http can show
const httpRequestsKept = 500

var (
	httpRequests     *LogBuffer
	httpRequestsOnce sync.Once
)

// GetHTTPLogBuffer returns the ring of recent management API requests. It
// never reaches the zap cores, so polling the face does not flood the log file.
func GetHTTPLogBuffer() *LogBuffer {
	httpRequestsOnce.Do(func() {
		httpRequests = NewLogBuffer(httpRequestsKept)
	})
	return httpRequests
}

// LogHTTPRequest appends one served request. A handler error turns the entry
// into an error-level one.
func LogHTTPRequest(method, path string, status int, duration time.Duration, size int, remoteAddr, userAgent string, err error) {
	level := "info"
	if status >= 500 {
		level = "warn"
	}
	entry := LogEntry{
		Timestamp: time.Now(),
		Level:     level,
		Message:   fmt.Sprintf("%s %s -> %d in %v (%d bytes)", method, path, status, duration, size),
		Fields: map[string]any{
			"method":      method,
			"path":        path,
			"status":      status,
			"duration_ms": duration.Milliseconds(),
			"size":        size,
			"remote_addr": remoteAddr,
			"user_agent":  userAgent,
		},
	}

	if err != nil {
		entry.Level = "error"
		entry.Fields["error"] = err.Error()
	}

	GetHTTPLogBuffer().AddEntry(entry)
}
