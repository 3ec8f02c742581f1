package mail

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Tenancy-api/internal/application/ports"
)

var _ ports.Notifier = (*Dispatcher)(nil)

// ErrQueueFull la cola de correos está llena y el mensaje se descarta.
var ErrQueueFull = errors.New("cola de correos llena")

// ErrDispatcherClosed el dispatcher ya no acepta mensajes.
var ErrDispatcherClosed = errors.New("dispatcher de correos cerrado")

// DispatcherConfig opciones del dispatcher.
type DispatcherConfig struct {
	QueueSize   int
	MaxAttempts uint
	Delay       time.Duration // retardo base del backoff
}

// Dispatcher implementa ports.Notifier: renderiza y encola; un worker envía con reintentos.
type Dispatcher struct {
	renderer *Renderer
	sender   Sender
	metrics  ports.WorkflowMetrics
	log      zerolog.Logger
	cfg      DispatcherConfig

	queue  chan Email
	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher construye el dispatcher. Llamar Start para iniciar el worker.
func NewDispatcher(renderer *Renderer, sender Sender, metrics ports.WorkflowMetrics, log zerolog.Logger, cfg DispatcherConfig) *Dispatcher {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 100
	}
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.Delay <= 0 {
		cfg.Delay = 500 * time.Millisecond
	}
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &Dispatcher{
		renderer: renderer,
		sender:   sender,
		metrics:  metrics,
		log:      log,
		cfg:      cfg,
		queue:    make(chan Email, cfg.QueueSize),
	}
}

// Notify renderiza la notificación y la encola sin bloquear.
func (d *Dispatcher) Notify(_ context.Context, n ports.Notification) error {
	email, err := d.renderer.Render(n)
	if err != nil {
		d.metrics.NotificationResult(string(n.Template), false)
		return err
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrDispatcherClosed
	}
	select {
	case d.queue <- email:
		return nil
	default:
		d.metrics.NotificationResult(string(n.Template), false)
		d.log.Error().Str("to", n.To).Str("template", string(n.Template)).Msg("cola de correos llena, mensaje descartado")
		return ErrQueueFull
	}
}

// Start lanza el worker. ctx cancela los reintentos en curso.
func (d *Dispatcher) Start(ctx context.Context) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		for email := range d.queue {
			d.send(ctx, email)
		}
	}()
}

// Close deja de aceptar mensajes y espera a que el worker vacíe la cola.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()
	d.wg.Wait()
}

func (d *Dispatcher) send(ctx context.Context, email Email) {
	err := retry.Do(
		func() error { return d.sender.Send(ctx, email) },
		retry.Attempts(d.cfg.MaxAttempts),
		retry.Delay(d.cfg.Delay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
	)
	d.metrics.NotificationResult(string(email.Template), err == nil)
	if err != nil {
		d.log.Error().Err(err).
			Str("to", email.To).
			Str("template", string(email.Template)).
			Msg("no se pudo enviar el correo")
		return
	}
	d.log.Debug().Str("to", email.To).Str("template", string(email.Template)).Msg("correo enviado")
}
