package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

// Status — итог выполнения пробы.
type Status string

const (
	StatusOK      Status = "ok"
	StatusFailing Status = "failing"
)

// probeTimeout ограничивает каждую пробу, чтобы зависшая зависимость
// не подвешивала весь health-эндпоинт.
const probeTimeout = 2 * time.Second

// ProbeFunc проверяет доступность одной зависимости сервиса.
type ProbeFunc func(ctx context.Context) error

// CheckResult — результат одной пробы в ответе /healthz.
type CheckResult struct {
	Status     Status `json:"status"`
	Error      string `json:"error,omitempty"`
	DurationMs int64  `json:"duration_ms"`
}

// Response — тело ответа /healthz.
type Response struct {
	Status        Status                 `json:"status"`
	Version       string                 `json:"version,omitempty"`
	UptimeSeconds int64                  `json:"uptime_seconds"`
	Checks        map[string]CheckResult `json:"checks,omitempty"`
}

type probe struct {
	name string
	fn   ProbeFunc
}

// Handler отдаёт состояние сервиса и его зависимостей.
// Пробы выполняются в порядке регистрации при каждом запросе.
type Handler struct {
	mu      sync.RWMutex
	probes  []probe
	version string
	started time.Time
}

// NewHandler создаёт health handler с версией сборки.
func NewHandler(version string) *Handler {
	return &Handler{
		version: version,
		started: time.Now(),
	}
}

// Register добавляет пробу зависимости. Повторная регистрация имени
// заменяет предыдущую пробу.
func (h *Handler) Register(name string, fn ProbeFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i := range h.probes {
		if h.probes[i].name == name {
			h.probes[i].fn = fn
			return
		}
	}
	h.probes = append(h.probes, probe{name: name, fn: fn})
}

func (h *Handler) runProbes(ctx context.Context) (Status, map[string]CheckResult) {
	h.mu.RLock()
	probes := make([]probe, len(h.probes))
	copy(probes, h.probes)
	h.mu.RUnlock()

	overall := StatusOK
	checks := make(map[string]CheckResult, len(probes))
	for _, p := range probes {
		probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
		started := time.Now()
		err := p.fn(probeCtx)
		cancel()

		result := CheckResult{Status: StatusOK, DurationMs: time.Since(started).Milliseconds()}
		if err != nil {
			result.Status = StatusFailing
			result.Error = err.Error()
			overall = StatusFailing
		}
		checks[p.name] = result
	}
	return overall, checks
}

// ServeHTTP отвечает на /healthz полным отчётом о зависимостях.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	overall, checks := h.runProbes(r.Context())

	code := http.StatusOK
	if overall == StatusFailing {
		code = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(Response{
		Status:        overall,
		Version:       h.version,
		UptimeSeconds: int64(time.Since(h.started).Seconds()),
		Checks:        checks,
	})
}

// Readiness отвечает на /readyz: готов, только если все пробы проходят.
func (h *Handler) Readiness(w http.ResponseWriter, r *http.Request) {
	overall, _ := h.runProbes(r.Context())
	if overall == StatusFailing {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("not ready"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// Liveness отвечает на /livez: процесс жив, пока умеет отвечать.
func Liveness(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
