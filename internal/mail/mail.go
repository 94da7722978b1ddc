package mail

import (
	"context"
	"log"
	"time"

	"github.com/pkg/errors"
	"github.com/resend/resend-go/v2"
)

// SendRequest is one outgoing email.
type SendRequest struct {
	From    string
	To      []string
	Subject string
	HTML    string
}

type SendResult struct {
	MessageID string
	SentAt    time.Time
}

// Sender delivers email.
type Sender interface {
	Send(ctx context.Context, req SendRequest) (SendResult, error)
}

// ResendSender sends emails via the Resend API.
type ResendSender struct {
	client *resend.Client
	from   string
}

// NewResendSender creates a sender with the given API key and default from address.
func NewResendSender(apiKey, from string) *ResendSender {
	return &ResendSender{
		client: resend.NewClient(apiKey),
		from:   from,
	}
}

func (s *ResendSender) Send(ctx context.Context, req SendRequest) (SendResult, error) {
	if len(req.To) == 0 {
		return SendResult{}, errors.New("email has no recipients")
	}
	from := req.From
	if from == "" {
		from = s.from
	}

	sent, err := s.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    from,
		To:      req.To,
		Subject: req.Subject,
		Html:    req.HTML,
	})
	if err != nil {
		log.Printf("ERROR: Resend send failed (to=%v subject=%q): %v", req.To, req.Subject, err)
		return SendResult{}, errors.Wrap(err, "resend send failed")
	}

	log.Printf("INFO: Email %s sent to %v", sent.Id, req.To)
	return SendResult{MessageID: sent.Id, SentAt: time.Now()}, nil
}

// LogSender writes emails to the log instead of sending them. It is used when
// no Resend API key is configured.
type LogSender struct{}

func (LogSender) Send(_ context.Context, req SendRequest) (SendResult, error) {
	log.Printf("INFO: Email not sent (no provider configured) to=%v subject=%q\n%s", req.To, req.Subject, req.HTML)
	return SendResult{SentAt: time.Now()}, nil
}

// NewSender picks ResendSender when apiKey is set, LogSender otherwise.
func NewSender(apiKey, from string) Sender {
	if apiKey == "" {
		return LogSender{}
	}
	return NewResendSender(apiKey, from)
}
