package notify

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// SMTPConfig configures the SMTP notifier.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPNotifier sends email over SMTP.
type SMTPNotifier struct {
	dialer *gomail.Dialer
	from   string
	logger *zap.Logger
}

// NewSMTP creates an SMTP notifier. The from address defaults to the
// username when unset.
func NewSMTP(cfg SMTPConfig, log *zap.Logger) (*SMTPNotifier, error) {
	if strings.TrimSpace(cfg.Host) == "" {
		return nil, fmt.Errorf("smtp host is required")
	}
	if cfg.Port == 0 {
		cfg.Port = 465
	}

	from := strings.TrimSpace(cfg.From)
	if from == "" {
		from = strings.TrimSpace(cfg.Username)
	}
	if from == "" {
		return nil, fmt.Errorf("smtp from address is required")
	}

	if log == nil {
		log = zap.NewNop()
	}

	return &SMTPNotifier{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   from,
		logger: log,
	}, nil
}

// Send delivers the message. Failures are reported in the Result, never as
// an error.
func (n *SMTPNotifier) Send(_ context.Context, msg Message) Result {
	m := gomail.NewMessage()
	if msg.FromName != "" {
		m.SetHeader("From", m.FormatAddress(n.from, msg.FromName))
	} else {
		m.SetHeader("From", n.from)
	}
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", HTMLBody(msg.Body))

	if err := n.dialer.DialAndSend(m); err != nil {
		n.logger.Warn("email delivery failed",
			zap.String("to", msg.To),
			zap.Error(err),
		)
		return Result{Success: false, Message: fmt.Sprintf("Error sending email: %s", err)}
	}

	n.logger.Info("email sent",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
	)
	return Result{Success: true, Message: "Email sent successfully"}
}

// DryRunNotifier logs messages instead of delivering them. Used when email
// delivery is disabled in the configuration.
type DryRunNotifier struct {
	logger *zap.Logger
}

// NewDryRun creates a notifier that only logs.
func NewDryRun(log *zap.Logger) *DryRunNotifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &DryRunNotifier{logger: log}
}

func (n *DryRunNotifier) Send(_ context.Context, msg Message) Result {
	n.logger.Info("dry-run: email not sent",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
	)
	return Result{Success: true, Message: "Dry run: email not sent"}
}
