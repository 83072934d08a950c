package notify

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/wneessen/go-mail"

	"github.com/donaldgifford/pricediff/internal/metrics"
)

const (
	defaultSMTPPort    = 587
	defaultSMTPTimeout = 30 * time.Second

	contentTypeCSV mail.ContentType = "text/csv"
)

// EmailConfig holds SMTP delivery settings.
type EmailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	To       []string
	StartTLS bool
	Timeout  time.Duration
}

// EmailNotifier implements Notifier via SMTP with the report attached.
type EmailNotifier struct {
	cfg EmailConfig
	log *slog.Logger
}

// EmailOption configures an EmailNotifier.
type EmailOption func(*EmailNotifier)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) EmailOption {
	return func(n *EmailNotifier) {
		n.log = l
	}
}

// NewEmailNotifier creates a new EmailNotifier. Zero Port and Timeout fall
// back to 587 and 30s.
func NewEmailNotifier(cfg EmailConfig, opts ...EmailOption) *EmailNotifier {
	if cfg.Port == 0 {
		cfg.Port = defaultSMTPPort
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultSMTPTimeout
	}

	n := &EmailNotifier{
		cfg: cfg,
		log: slog.Default(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Send builds the message and delivers it in a single SMTP session.
func (n *EmailNotifier) Send(ctx context.Context, r *Report) error {
	start := time.Now()
	defer func() {
		metrics.NotificationDuration.Observe(time.Since(start).Seconds())
	}()

	msg, err := n.Message(r)
	if err != nil {
		metrics.NotificationFailuresTotal.Inc()
		return fmt.Errorf("%w: building message: %w", ErrSendFailed, err)
	}

	client, err := mail.NewClient(n.cfg.Host, n.clientOptions()...)
	if err != nil {
		metrics.NotificationFailuresTotal.Inc()
		return fmt.Errorf("%w: creating SMTP client: %w", ErrSendFailed, err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		metrics.NotificationFailuresTotal.Inc()
		return fmt.Errorf("%w: %w", ErrSendFailed, err)
	}

	metrics.NotificationsSentTotal.Inc()
	n.log.Info("report email sent",
		"host", n.cfg.Host,
		"recipients", len(n.cfg.To),
		"path", r.Path,
	)
	return nil
}

// Message builds the email for r with the CSV report attached.
func (n *EmailNotifier) Message(r *Report) (*mail.Msg, error) {
	if _, err := os.Stat(r.Path); err != nil {
		return nil, fmt.Errorf("reading attachment: %w", err)
	}

	msg := mail.NewMsg()
	if err := msg.From(n.cfg.From); err != nil {
		return nil, fmt.Errorf("setting sender: %w", err)
	}
	if err := msg.To(n.cfg.To...); err != nil {
		return nil, fmt.Errorf("setting recipients: %w", err)
	}
	msg.Subject(r.Subject())
	msg.SetDate()
	msg.SetBodyString(mail.TypeTextPlain, r.Body())
	msg.AttachFile(r.Path,
		mail.WithFileName(r.FileName()),
		mail.WithFileContentType(contentTypeCSV),
	)
	return msg, nil
}

func (n *EmailNotifier) clientOptions() []mail.Option {
	opts := []mail.Option{
		mail.WithPort(n.cfg.Port),
		mail.WithTimeout(n.cfg.Timeout),
	}
	if n.cfg.StartTLS {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	}
	if n.cfg.User != "" && n.cfg.Password != "" {
		opts = append(opts,
			mail.WithSMTPAuth(n.authType()),
			mail.WithUsername(n.cfg.User),
			mail.WithPassword(n.cfg.Password),
		)
	}
	return opts
}

// authType picks PLAIN auth. Without STARTTLS the credentials go over the
// plaintext session, which go-mail only allows with the NoEnc variant.
func (n *EmailNotifier) authType() mail.SMTPAuthType {
	if n.cfg.StartTLS {
		return mail.SMTPAuthPlain
	}
	return mail.SMTPAuthPlainNoEnc
}
