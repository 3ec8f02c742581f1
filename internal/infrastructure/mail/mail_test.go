package mail

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/sendgrid/rest"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Tenancy-api/internal/application/ports"
	"github.com/jhoicas/Tenancy-api/pkg/config"
)

// ─── dobles ─────────────────────────────────────────────────────────────────

type fakeSender struct {
	mu       sync.Mutex
	failures int // fallos antes del primer éxito
	calls    int
	sent     []Email
}

func (f *fakeSender) Send(_ context.Context, e Email) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.calls <= f.failures {
		return errors.New("smtp caído")
	}
	f.sent = append(f.sent, e)
	return nil
}

type resultMetrics struct {
	ports.NopMetrics
	mu      sync.Mutex
	results []bool
}

func (m *resultMetrics) NotificationResult(_ string, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = append(m.results, ok)
}

type fakeSendGrid struct {
	status int
	got    *sgmail.SGMailV3
}

func (f *fakeSendGrid) Send(email *sgmail.SGMailV3) (*rest.Response, error) {
	f.got = email
	return &rest.Response{StatusCode: f.status, Body: "x"}, nil
}

func newRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := NewRenderer("https://app.example.com", "Tenancy")
	require.NoError(t, err)
	return r
}

// ─── Renderer ───────────────────────────────────────────────────────────────

func TestRenderer_TodasLasPlantillas(t *testing.T) {
	r := newRenderer(t)
	for name := range templateDefs {
		e, err := r.Render(ports.Notification{To: "a@b.com", Template: name, TenantName: "Acme"})
		require.NoError(t, err, name)
		assert.NotEmpty(t, e.Subject)
		assert.Contains(t, e.HTML, "https://app.example.com/login")
	}
}

func TestRenderer_IncluyeContraseñaYEscapaHTML(t *testing.T) {
	r := newRenderer(t)
	e, err := r.Render(ports.Notification{
		To: "a@b.com", Template: ports.TemplateTenantApproved,
		TenantName: "<script>", Password: "S3cret!x",
	})
	require.NoError(t, err)
	assert.Contains(t, e.HTML, "S3cret!x")
	assert.NotContains(t, e.HTML, "<script>")

	e, err = r.Render(ports.Notification{To: "a@b.com", Template: ports.TemplateTenantRejected, TenantName: "Acme"})
	require.NoError(t, err)
	assert.NotContains(t, e.HTML, "contraseña temporal")
}

func TestRenderer_PlantillaDesconocida(t *testing.T) {
	_, err := newRenderer(t).Render(ports.Notification{To: "a@b.com", Template: "nope"})
	assert.Error(t, err)
}

// ─── Dispatcher ─────────────────────────────────────────────────────────────

func TestDispatcher_ReintentaHastaEnviar(t *testing.T) {
	sender := &fakeSender{failures: 2}
	metrics := &resultMetrics{}
	d := NewDispatcher(newRenderer(t), sender, metrics, zerolog.Nop(), DispatcherConfig{QueueSize: 4, MaxAttempts: 3, Delay: time.Millisecond})
	d.Start(context.Background())

	require.NoError(t, d.Notify(context.Background(), ports.Notification{To: "a@b.com", Template: ports.TemplateUserWelcome}))
	d.Close()

	assert.Equal(t, 3, sender.calls)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, []bool{true}, metrics.results)
}

func TestDispatcher_AgotaIntentos(t *testing.T) {
	sender := &fakeSender{failures: 10}
	metrics := &resultMetrics{}
	d := NewDispatcher(newRenderer(t), sender, metrics, zerolog.Nop(), DispatcherConfig{QueueSize: 4, MaxAttempts: 2, Delay: time.Millisecond})
	d.Start(context.Background())

	require.NoError(t, d.Notify(context.Background(), ports.Notification{To: "a@b.com", Template: ports.TemplateUserDeleted}))
	d.Close()

	assert.Equal(t, 2, sender.calls)
	assert.Equal(t, []bool{false}, metrics.results)
}

func TestDispatcher_ColaLlena(t *testing.T) {
	d := NewDispatcher(newRenderer(t), &fakeSender{}, nil, zerolog.Nop(), DispatcherConfig{QueueSize: 1})
	n := ports.Notification{To: "a@b.com", Template: ports.TemplateUserWelcome}

	require.NoError(t, d.Notify(context.Background(), n))
	assert.ErrorIs(t, d.Notify(context.Background(), n), ErrQueueFull)

	d.Close()
	assert.ErrorIs(t, d.Notify(context.Background(), n), ErrDispatcherClosed)
}

// ─── Senders ────────────────────────────────────────────────────────────────

func TestSendGridSender(t *testing.T) {
	fake := &fakeSendGrid{status: 202}
	s := &SendGridSender{client: fake, from: "no-reply@example.com", fromName: "Tenancy"}

	require.NoError(t, s.Send(context.Background(), Email{To: "a@b.com", Subject: "Hola", HTML: "<p>x</p>"}))
	assert.Equal(t, "Hola", fake.got.Subject)

	fake.status = 401
	assert.Error(t, s.Send(context.Background(), Email{To: "a@b.com"}))

	_, err := NewSendGridSender("  ", "no-reply@example.com", "")
	assert.Error(t, err)
}

func TestNewSender_DriverDesconocido(t *testing.T) {
	_, err := NewSender(configFor("fax"), zerolog.Nop())
	assert.Error(t, err)

	s, err := NewSender(configFor("log"), zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &LogSender{}, s)
}

func configFor(driver string) config.MailConfig {
	return config.MailConfig{Driver: driver, From: "no-reply@example.com"}
}
