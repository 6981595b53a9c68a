package notify

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"text/template"

	"gopkg.in/gomail.v2"

	"github.com/okian/leadboard/internal/domain/model"
	"github.com/okian/leadboard/pkg/metrics"
)

var campaignTmpl = template.Must(template.New("campaign").Parse(`Hi {{.FirstName}},

Thanks for your interest in the {{.InterestedVehicle}}. {{if .AssignedTo}}{{.AssignedTo}}{{else}}Our team{{end}} has put together current offers that fit a budget of {{.Budget}}.

Reply to this email or call us to book a test drive.
`))

// SMTPConfig holds the outgoing mail server settings.
type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// SMTPMailer renders a plain-text campaign message per lead and sends it
// over SMTP.
type SMTPMailer struct {
	from string
	send func(msgs ...*gomail.Message) error
}

var _ Mailer = (*SMTPMailer)(nil)

// NewSMTPMailer dials cfg.Host for every message.
func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
	return &SMTPMailer{from: cfg.From, send: d.DialAndSend}
}

// newMailerWithSender sends through s instead of dialing.
func newMailerWithSender(from string, s gomail.Sender) *SMTPMailer {
	return &SMTPMailer{from: from, send: func(msgs ...*gomail.Message) error { return gomail.Send(s, msgs...) }}
}

// SendCampaign implements Mailer.
func (m *SMTPMailer) SendCampaign(ctx context.Context, lead model.Lead) error {
	if strings.TrimSpace(lead.Email) == "" {
		return fmt.Errorf("%w: lead %s", ErrNoAddress, lead.ID)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var body bytes.Buffer
	if err := campaignTmpl.Execute(&body, lead); err != nil {
		return fmt.Errorf("%w: render: %v", ErrSendMail, err)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetAddressHeader("To", lead.Email, lead.FullName())
	msg.SetHeader("Subject", fmt.Sprintf("Your %s inquiry", lead.InterestedVehicle))
	msg.SetBody("text/plain", body.String())

	if err := m.send(msg); err != nil {
		metrics.RecordNotification("smtp", "failed")
		return fmt.Errorf("%w: %v", ErrSendMail, err)
	}
	metrics.RecordNotification("smtp", "sent")
	return nil
}
