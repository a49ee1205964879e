package service

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
	"time"

	"bkhost/internal/outbox/repository"
	"bkhost/pkg/logger"
	"bkhost/pkg/metrics"
	"bkhost/pkg/model"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

const (
	TemplateThankYou     = "thank_you"
	TemplateCancellation = "cancellation"
)

var ErrNoRecipient = errors.New("appointment has no email address")

var subjects = map[string]string{
	TemplateThankYou:     "Thank you for visiting %s",
	TemplateCancellation: "Your %s appointment has been cancelled",
}

type templateData struct {
	Shop string
	Name string
	Date string
	Time string
}

// Mailer renders customer emails and writes them to the outbox.
type Mailer struct {
	repo     repository.MailRepository
	shop     string
	location *time.Location
	log      *logger.Logger
	text     *texttemplate.Template
	html     *htmltemplate.Template
}

func NewMailer(repo repository.MailRepository, shop string, location *time.Location, log *logger.Logger) (*Mailer, error) {
	text, err := texttemplate.ParseFS(templateFS, "templates/*.txt.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse text templates: %w", err)
	}
	html, err := htmltemplate.ParseFS(templateFS, "templates/*.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse html templates: %w", err)
	}
	return &Mailer{repo: repo, shop: shop, location: location, log: log, text: text, html: html}, nil
}

func (m *Mailer) SendThankYou(ctx context.Context, a model.Appointment) error {
	return m.send(ctx, TemplateThankYou, a)
}

func (m *Mailer) SendCancellation(ctx context.Context, a model.Appointment) error {
	return m.send(ctx, TemplateCancellation, a)
}

func (m *Mailer) send(ctx context.Context, name string, a model.Appointment) error {
	to := strings.TrimSpace(a.UserInfo.Email)
	if to == "" {
		return ErrNoRecipient
	}

	email, err := m.render(name, a)
	if err != nil {
		return err
	}
	email.To = to

	if err := m.repo.Insert(ctx, email); err != nil {
		return err
	}

	metrics.OutboxEnqueued.WithLabelValues(name).Inc()
	m.log.Info("Email enqueued", "template", name, "appointment_id", a.ID, "email_id", email.ID)
	return nil
}

func (m *Mailer) render(name string, a model.Appointment) (*model.OutboxEmail, error) {
	at := a.Timestamp.In(m.location)
	data := templateData{
		Shop: m.shop,
		Name: strings.TrimSpace(a.UserInfo.Name),
		Date: at.Format("Monday 2 January 2006"),
		Time: at.Format("15:04"),
	}
	if data.Name == "" {
		data.Name = "there"
	}

	var text, html bytes.Buffer
	if err := m.text.ExecuteTemplate(&text, name+".txt.tmpl", data); err != nil {
		return nil, fmt.Errorf("failed to render %s text: %w", name, err)
	}
	if err := m.html.ExecuteTemplate(&html, name+".html.tmpl", data); err != nil {
		return nil, fmt.Errorf("failed to render %s html: %w", name, err)
	}

	return &model.OutboxEmail{
		Subject:  fmt.Sprintf(subjects[name], m.shop),
		Text:     text.String(),
		HTML:     html.String(),
		Template: name,
	}, nil
}
