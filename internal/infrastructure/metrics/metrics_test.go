package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContadoresDelFlujo(t *testing.T) {
	m := New("tenancy")

	m.RequestSubmitted()
	m.RequestReviewed("approved")
	m.RequestReviewed("approved")
	m.UserProvisioned(false)
	m.NotificationResult("user_welcome", false)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestsSubmitted))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.requestsReviewed.WithLabelValues("approved")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.usersProvisioned.WithLabelValues("false")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.notifications.WithLabelValues("user_welcome", "failed")))
}

func TestMiddlewareYHandler(t *testing.T) {
	m := New("tenancy")
	app := fiber.New()
	app.Use(m.Middleware())
	app.Get("/tenants/:id", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })
	app.Get("/metrics", m.Handler())

	resp, err := app.Test(httptest.NewRequest("GET", "/tenants/abc", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/tenants/:id", "204")))

	resp, err = app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "tenancy_http_requests_total")
}
