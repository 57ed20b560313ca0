package notify

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"subtracker/internal/metrics"
)

const DefaultSendTimeout = 10 * time.Second

type Outcome struct {
	Provider string
	Success  bool
	Took     time.Duration
}

// Result is the tally of one fan-out.
type Result struct {
	Attempted int
	Succeeded int
	Outcomes  []Outcome
}

// Delivered reports whether the message reached at least one channel.
func (r Result) Delivered() bool {
	return r.Succeeded > 0
}

// Dispatcher owns the registered providers. The provider set is fixed after
// construction.
type Dispatcher struct {
	providers map[string]Provider
	order     []string
	timeout   time.Duration
	metrics   *metrics.Metrics
	tracer    trace.Tracer
	logger    *slog.Logger
}

func NewDispatcher(logger *slog.Logger, m *metrics.Metrics, timeout time.Duration, providers ...Provider) *Dispatcher {
	if timeout <= 0 {
		timeout = DefaultSendTimeout
	}
	d := &Dispatcher{
		providers: make(map[string]Provider, len(providers)),
		timeout:   timeout,
		metrics:   m,
		tracer:    otel.Tracer("subtracker/notify"),
		logger:    logger,
	}
	for _, p := range providers {
		if _, exists := d.providers[p.Name()]; !exists {
			d.order = append(d.order, p.Name())
		}
		d.providers[p.Name()] = p
	}

	d.logger.Info("Notification providers registered", "providers", d.order)
	return d
}

// Providers returns the names of all registered providers in registration order.
func (d *Dispatcher) Providers() []string {
	return append([]string(nil), d.order...)
}

// EnabledProviders re-evaluates IsEnabled on every call.
func (d *Dispatcher) EnabledProviders() []Provider {
	all := lo.Map(d.order, func(name string, _ int) Provider {
		return d.providers[name]
	})
	return lo.Filter(all, func(p Provider, _ int) bool {
		return p.IsEnabled()
	})
}

// Broadcast sends message to every enabled provider concurrently and waits
// for all of them. One provider failing or panicking does not affect the others.
func (d *Dispatcher) Broadcast(ctx context.Context, message string, opts Options) Result {
	enabled := d.EnabledProviders()
	if len(enabled) == 0 {
		d.logger.Warn("No notification providers enabled")
		return Result{}
	}

	outcomes := make([]Outcome, len(enabled))
	var wg sync.WaitGroup
	for i, p := range enabled {
		wg.Add(1)
		go func(i int, p Provider) {
			defer wg.Done()
			outcomes[i] = d.send(ctx, p, message, opts)
		}(i, p)
	}
	wg.Wait()

	res := Result{
		Attempted: len(outcomes),
		Succeeded: lo.CountBy(outcomes, func(o Outcome) bool { return o.Success }),
		Outcomes:  outcomes,
	}

	d.logger.Info("Notification fan-out completed",
		"succeeded", res.Succeeded,
		"attempted", res.Attempted,
		"tally", fmt.Sprintf("%d/%d", res.Succeeded, res.Attempted))

	return res
}

// SendToAll is Broadcast reduced to the delivered verdict.
func (d *Dispatcher) SendToAll(ctx context.Context, message string, opts Options) bool {
	return d.Broadcast(ctx, message, opts).Delivered()
}

func (d *Dispatcher) SendToProvider(ctx context.Context, name, message string, opts Options) bool {
	p, ok := d.providers[name]
	if !ok {
		d.logger.Error("Failed to send notification",
			"provider", name,
			"error", ErrUnknownProvider)
		return false
	}
	return d.send(ctx, p, message, opts).Success
}

func (d *Dispatcher) send(ctx context.Context, p Provider, message string, opts Options) (out Outcome) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	ctx, span := d.tracer.Start(ctx, "notify.send",
		trace.WithAttributes(attribute.String("notify.provider", p.Name())))
	defer span.End()

	out.Provider = p.Name()
	started := time.Now()

	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("Panic in notification provider",
				"provider", p.Name(),
				"panic", r)
			out.Success = false
		}
		out.Took = time.Since(started)

		span.SetAttributes(attribute.Bool("notify.success", out.Success))
		if !out.Success {
			span.SetStatus(codes.Error, "send failed")
		}
		d.metrics.ObserveSend(out.Provider, out.Success, out.Took)
	}()

	out.Success = p.Send(ctx, message, opts)
	return out
}
