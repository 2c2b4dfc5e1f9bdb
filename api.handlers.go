package main

import (
	"encoding/json"
	"expvar"
	"fmt"
	"net/http"
	"runtime"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

var EmptyData = struct{}{}

// Statistics holds app stats for ops.
type Statistics struct {
	version   string
	container bool
	runtime   string
	platform  string
	called    uint64
	started   time.Time
	status    map[int]uint64
	mu        sync.RWMutex
}

// NewStatistics provides the ops statistics of the running application.
func NewStatistics(config *Config, started time.Time) *Statistics {
	version := config.GitTag
	// Use git commit in case the tag is not set.
	if version == "" {
		version = config.GitCommit
	}
	return &Statistics{
		version:   version,
		container: IsAppRunningInDocker(),
		runtime:   runtime.Version(),
		platform:  runtime.GOOS + "/" + runtime.GOARCH,
		started:   started,
		status:    make(map[int]uint64),
	}
}

// Record counts one more response sent with the given status code.
func (s *Statistics) Record(code int) {
	s.mu.Lock()
	s.status[code]++
	s.mu.Unlock()
}

// Maintenance holds app maintenance mode infos.
type Maintenance struct {
	enabled atomic.Bool
	mu      sync.RWMutex
	message string
	started time.Time
}

func (m *Maintenance) details() (string, time.Time) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.message, m.started
}

// APIHandler defines the API handler.
type APIHandler struct {
	logger      *zap.Logger
	config      *Config
	stats       *Statistics
	mode        *Maintenance
	clock       Clocker
	bookService BookServiceProvider
	storage     BookStorage
}

// NewAPIHandler provides a new instance of APIHandler.
func NewAPIHandler(logger *zap.Logger, config *Config, stats *Statistics, clock Clocker, bs BookServiceProvider, storage BookStorage) *APIHandler {
	return &APIHandler{
		logger:      logger,
		config:      config,
		stats:       stats,
		mode:        &Maintenance{},
		clock:       clock,
		bookService: bs,
		storage:     storage,
	}
}

// sendError writes the error response and logs a failed write.
func (api *APIHandler) sendError(w http.ResponseWriter, r *http.Request, status int, message string, data interface{}) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	errResp := NewAPIError(requestID, status, message, data)
	if err := WriteErrorResponse(r.Context(), w, errResp); err != nil {
		api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// send writes the success response and logs a failed write.
func (api *APIHandler) send(w http.ResponseWriter, r *http.Request, status int, message string, total *int, data interface{}) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	resp := GenericResponse(requestID, status, message, total, data)
	if err := WriteResponse(r.Context(), w, resp); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// Index provides same details like `Status` handler by redirecting the request.
func (api *APIHandler) Index(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	http.Redirect(w, r, "/status", http.StatusSeeOther)
}

// Status provides basics details about the application to the public users.
func (api *APIHandler) Status(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	if err := json.NewEncoder(w).Encode(
		StatusResponse{
			RequestID: requestID,
			Status:    fmt.Sprintf("up & running since %.0f mins", api.clock.Now().Sub(api.stats.started).Minutes()),
			Message:   "Hello. Bookshelf api is available. Enjoy :)",
		},
	); err != nil {
		api.logger.Error("failed to send status response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// NotFound provides the handler used by the router for unknown routes.
func (api *APIHandler) NotFound() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		api.sendError(w, r, http.StatusNotFound, "the requested resource does not exist", EmptyData)
	})
}

// Maintenance handles request to enable or disable the maintenance mode of the service.
// Enable the maintenance mode : /ops/maintenance?status=enable&msg=message-to-be-displayed-to-users
// Disable the maintenance mode: /ops/maintenance?status=disable
// Show the maintenance mode   : /ops/maintenance?status=show
func (api *APIHandler) Maintenance(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	logger := api.logger.With(zap.String("request.id", requestID))
	q := r.URL.Query()
	mstatus := q.Get("status")

	var response map[string]interface{}
	switch mstatus {
	case "enable":
		api.mode.mu.Lock()
		api.mode.message = q.Get("msg")
		api.mode.started = api.clock.Now().UTC()
		api.mode.enabled.Store(true)
		response = map[string]interface{}{
			"requestid":           requestID,
			"maintenance.started": api.mode.started.Format(time.RFC1123),
			"maintenance.message": api.mode.message,
			"message":             "Maintenance mode enabled successfully.",
		}
		api.mode.mu.Unlock()
		logger.Info("maintenance mode enabled")

	case "disable":
		api.mode.mu.Lock()
		api.mode.enabled.Store(false)
		api.mode.started = time.Time{}
		api.mode.message = ""
		api.mode.mu.Unlock()
		response = map[string]interface{}{
			"requestid": requestID,
			"message":   "Maintenance mode disabled successfully.",
		}
		logger.Info("maintenance mode disabled")

	case "show", "":
		message, started := api.mode.details()
		response = map[string]interface{}{
			"requestid": requestID,
			"enabled":   api.mode.enabled.Load(),
			"reason":    message,
			"since":     formatSince(started),
		}

	default:
		api.sendError(w, r, http.StatusBadRequest, "unknown maintenance status. use enable, disable or show", EmptyData)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.Error("failed to send maintenance response", zap.String("request.maintenance", mstatus), zap.Error(err))
	}
}

func formatSince(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC1123)
}

// export goroutines to be used by expvar handler.
var goroutines = expvar.NewInt("goroutines")

// GetMemStats returns memory statistics with number of goroutines in json.
func GetMemStats(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	goroutines.Set(int64(runtime.NumGoroutine()))
	expvar.Handler().ServeHTTP(w, r)
}

// RunGC forces the run of the garbage collector asynchronously.
func (api *APIHandler) RunGC(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	go runtime.GC()
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	if err := json.NewEncoder(w).Encode(
		map[string]string{
			"called": "go runtime.GC()",
		},
	); err != nil {
		api.logger.Error("failed to send run gc response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// FreeOSMemory forces the garbage collector to and tries to returns the memory
// back to the operating system in an asynchronous fashion.
func (api *APIHandler) FreeOSMemory(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	go debug.FreeOSMemory()
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	if err := json.NewEncoder(w).Encode(
		map[string]string{
			"called": "go debug.FreeOSMemory()",
		},
	); err != nil {
		api.logger.Error("failed to send free os memory response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// GetStatistics provides useful details about the application to the internal ops users.
// The ops request which triggered the call is not counted, so 1 is removed from the
// called field value in order to match the status stats.
func (api *APIHandler) GetStatistics(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	message, started := api.mode.details()
	books := api.bookService.GetStats()

	api.stats.mu.RLock()
	status := make(map[int]uint64, len(api.stats.status))
	for code, count := range api.stats.status {
		status[code] = count
	}
	api.stats.mu.RUnlock()

	called := atomic.LoadUint64(&api.stats.called)
	if called > 0 {
		called--
	}

	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	err := json.NewEncoder(w).Encode(
		map[string]interface{}{
			"requestid":     requestID,
			"app.version":   api.stats.version,
			"app.container": api.stats.container,
			"app.platform":  api.stats.platform,
			"go.version":    api.stats.runtime,
			"called":        called,
			"started":       api.stats.started.Format(time.RFC1123),
			"uptime":        fmt.Sprintf("%.0f mins", api.clock.Now().Sub(api.stats.started).Minutes()),
			"maintenance": map[string]interface{}{
				"enabled": api.mode.enabled.Load(),
				"started": formatSince(started),
				"message": message,
			},
			"status": status,
			"books":  books,
		},
	)
	if err != nil {
		api.logger.Error("failed to send statistics response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// GetConfigs serves current in-use configurations. Secrets are masked.
func (api *APIHandler) GetConfigs(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	configs := *api.config
	if configs.Redis.Password != "" {
		configs.Redis.Password = "*****"
	}
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	if err := json.NewEncoder(w).Encode(
		map[string]interface{}{
			"requestid": requestID,
			"configs":   configs,
		},
	); err != nil {
		api.logger.Error("failed to send configs response", zap.String("request.id", requestID), zap.Error(err))
	}
}
