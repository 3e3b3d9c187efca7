// Package mailer sends transactional mail through SendGrid. Sends are
// fire-and-forget: a fixed pool of workers drains a queue so SMTP latency
// never sits on the request path, and a failed send is logged and discarded.
package mailer

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/coursewagon/coursewagon-backend/internal/logger"
	"github.com/coursewagon/coursewagon-backend/internal/utils"
)

type Email struct {
	To      string
	ToName  string
	Subject string
	Text    string
	HTML    string
}

type Mailer interface {
	// Enqueue hands the message to the background pool. The caller gets no
	// success or failure signal.
	Enqueue(email Email)
	Start(ctx context.Context)
	Stop()
}

type sendgridMailer struct {
	log       *logger.Logger
	client    *sendgrid.Client
	fromEmail string
	fromName  string
	queue     chan Email
	workers   int
	wg        sync.WaitGroup
	startOnce sync.Once
	stopOnce  sync.Once
}

func New(log *logger.Logger) (Mailer, error) {
	apiKey := strings.TrimSpace(os.Getenv("SENDGRID_API_KEY"))
	if apiKey == "" {
		return nil, fmt.Errorf("missing SENDGRID_API_KEY")
	}
	fromEmail := utils.GetEnv("MAIL_FROM_EMAIL", "no-reply@coursewagon.app", log)
	fromName := utils.GetEnv("MAIL_FROM_NAME", "Course Wagon", log)
	workers := utils.GetEnvAsInt("MAIL_WORKERS", 4, log)
	queueSize := utils.GetEnvAsInt("MAIL_QUEUE_SIZE", 256, log)

	return &sendgridMailer{
		log:       log.With("service", "Mailer"),
		client:    sendgrid.NewSendClient(apiKey),
		fromEmail: fromEmail,
		fromName:  fromName,
		queue:     make(chan Email, queueSize),
		workers:   workers,
	}, nil
}

func (m *sendgridMailer) Start(ctx context.Context) {
	m.startOnce.Do(func() {
		for i := 0; i < m.workers; i++ {
			m.wg.Add(1)
			go m.worker(ctx)
		}
		m.log.Info("Mail workers started", "workers", m.workers)
	})
}

func (m *sendgridMailer) Stop() {
	m.stopOnce.Do(func() {
		close(m.queue)
		m.wg.Wait()
	})
}

func (m *sendgridMailer) Enqueue(email Email) {
	select {
	case m.queue <- email:
	default:
		m.log.Warn("Mail queue full, dropping message", "to", email.To, "subject", email.Subject)
	}
}

func (m *sendgridMailer) worker(ctx context.Context) {
	defer m.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case email, ok := <-m.queue:
			if !ok {
				return
			}
			m.send(email)
		}
	}
}

func (m *sendgridMailer) send(email Email) {
	from := mail.NewEmail(m.fromName, m.fromEmail)
	to := mail.NewEmail(email.ToName, email.To)
	message := mail.NewSingleEmail(from, email.Subject, to, email.Text, email.HTML)
	resp, err := m.client.Send(message)
	if err != nil {
		m.log.Warn("Mail send failed", "to", email.To, "subject", email.Subject, "error", err)
		return
	}
	if resp.StatusCode >= 400 {
		m.log.Warn("Mail send rejected", "to", email.To, "subject", email.Subject, "status", resp.StatusCode, "body", resp.Body)
	}
}
