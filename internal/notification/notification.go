package notification

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Notification kinds emitted across the platform.
const (
	KindRegistration        = "registration"
	KindLogin               = "login"
	KindBookingRequest      = "booking_request"
	KindBookingConfirmation = "booking_confirmation"
	KindBookingFailure      = "booking_failure"
	KindSupportTicket       = "support_ticket"
)

const channelPrefix = "notify:user:"

// ChannelFor returns the per-user channel handle. It is provisioned once at
// registration confirmation and stored on the auth record for reuse.
func ChannelFor(email string) string {
	return channelPrefix + email
}

// Message describes a notification payload bound for a user's channel.
type Message struct {
	Kind    string
	Channel string
	Subject string
	Body    string
}

// Publisher delivers a message to a channel. Implementations decide the
// transport; delivery is best-effort.
type Publisher interface {
	Publish(ctx context.Context, message Message) error
}

// LoggerPublisher writes notifications to the structured logger. Used in
// development and as the fallback when no pub/sub backend is configured.
type LoggerPublisher struct {
	logger *slog.Logger
}

// NewLoggerPublisher constructs a logging publisher.
func NewLoggerPublisher(logger *slog.Logger) *LoggerPublisher {
	return &LoggerPublisher{logger: logger}
}

// Publish writes the message to the structured logger.
func (p *LoggerPublisher) Publish(_ context.Context, message Message) error {
	if p == nil || p.logger == nil {
		return nil
	}
	p.logger.Info("notification",
		slog.String("kind", message.Kind),
		slog.String("channel", message.Channel),
		slog.String("subject", message.Subject),
		slog.String("body", message.Body),
	)
	return nil
}

// Dispatcher sends notifications fire-and-forget: dispatch never blocks the
// request path, failures are logged and swallowed, and nothing is retried.
type Dispatcher struct {
	publisher Publisher
	logger    *slog.Logger
	timeout   time.Duration
	inline    bool
}

// NewDispatcher builds a dispatcher over the given publisher.
func NewDispatcher(publisher Publisher, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{publisher: publisher, logger: logger, timeout: 5 * time.Second}
}

// NewInlineDispatcher publishes on the caller's goroutine instead of
// spawning one. Tests use it to observe deliveries deterministically.
func NewInlineDispatcher(publisher Publisher, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{publisher: publisher, logger: logger, timeout: 5 * time.Second, inline: true}
}

// Dispatch publishes asynchronously. The auth/booking result must never
// depend on the outcome, so errors only reach the log.
func (d *Dispatcher) Dispatch(message Message) {
	if d == nil || d.publisher == nil {
		return
	}
	if d.inline {
		d.DispatchSync(context.Background(), message)
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()
		if err := d.publisher.Publish(ctx, message); err != nil {
			d.logger.Warn("notification dropped",
				slog.String("kind", message.Kind),
				slog.String("channel", message.Channel),
				slog.Any("error", err),
			)
		}
	}()
}

// DispatchSync publishes on the caller's goroutine. Errors are still
// swallowed; this exists for callers that want deterministic ordering,
// mainly tests and batch jobs.
func (d *Dispatcher) DispatchSync(ctx context.Context, message Message) {
	if d == nil || d.publisher == nil {
		return
	}
	if err := d.publisher.Publish(ctx, message); err != nil {
		d.logger.Warn("notification dropped",
			slog.String("kind", message.Kind),
			slog.String("channel", message.Channel),
			slog.Any("error", err),
		)
	}
}

// Format renders the default body for a kind when the caller has none,
// mirroring the platform's canned account-event wording.
func Format(kind, detail string) string {
	switch kind {
	case KindRegistration:
		return "Welcome to ScootGate! Your account has been successfully registered."
	case KindLogin:
		return "You have successfully logged in to your ScootGate account."
	case KindBookingConfirmation:
		return fmt.Sprintf("Your booking has been confirmed. Your booking reference code is: %s", detail)
	case KindBookingFailure:
		return "We're sorry, but your booking could not be processed."
	default:
		return detail
	}
}
