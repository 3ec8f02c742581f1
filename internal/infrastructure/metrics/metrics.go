// Package metrics expone contadores Prometheus del flujo de tenants y de la API HTTP.
package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/Tenancy-api/internal/application/ports"
)

var _ ports.WorkflowMetrics = (*Metrics)(nil)

// Metrics agrupa los colectores sobre un registry propio.
type Metrics struct {
	registry *prometheus.Registry

	requestsSubmitted prometheus.Counter
	requestsReviewed  *prometheus.CounterVec
	tenantTransitions *prometheus.CounterVec
	userTransitions   *prometheus.CounterVec
	usersProvisioned  *prometheus.CounterVec
	loginAttempts     *prometheus.CounterVec
	notifications     *prometheus.CounterVec

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// New registra todas las métricas con el prefijo namespace.
func New(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		requestsSubmitted: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tenant_requests_submitted_total",
			Help:      "Solicitudes de tenant recibidas",
		}),
		requestsReviewed: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tenant_requests_reviewed_total",
			Help:      "Solicitudes revisadas por resultado",
		}, []string{"status"}),
		tenantTransitions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tenant_transitions_total",
			Help:      "Cambios de estado de tenants",
		}, []string{"action"}),
		userTransitions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "user_transitions_total",
			Help:      "Cambios de estado de usuarios",
		}, []string{"action"}),
		usersProvisioned: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tenant_users_provisioned_total",
			Help:      "Usuarios agregados a un tenant (created=false si ya existían)",
		}, []string{"created"}),
		loginAttempts: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "login_attempts_total",
			Help:      "Intentos de login por resultado",
		}, []string{"outcome"}),
		notifications: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Correos procesados por plantilla y resultado",
		}, []string{"template", "result"}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Peticiones HTTP por método, ruta y status",
		}, []string{"method", "route", "status"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duración de las peticiones HTTP",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

func (m *Metrics) RequestSubmitted() { m.requestsSubmitted.Inc() }
func (m *Metrics) RequestReviewed(status string) { m.requestsReviewed.WithLabelValues(status).Inc() }
func (m *Metrics) TenantTransition(action string) { m.tenantTransitions.WithLabelValues(action).Inc() }
func (m *Metrics) UserTransition(action string) { m.userTransitions.WithLabelValues(action).Inc() }
func (m *Metrics) UserProvisioned(created bool) { m.usersProvisioned.WithLabelValues(strconv.FormatBool(created)).Inc() }
func (m *Metrics) LoginAttempt(outcome string) { m.loginAttempts.WithLabelValues(outcome).Inc() }

func (m *Metrics) NotificationResult(template string, ok bool) {
	result := "sent"
	if !ok {
		result = "failed"
	}
	m.notifications.WithLabelValues(template, result).Inc()
}

// Middleware mide cada petición usando la ruta registrada (no la URL) como etiqueta.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		route := c.Route().Path
		m.httpRequests.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		m.httpDuration.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler expone /metrics.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

// Registry devuelve el registry (tests y colectores adicionales).
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
