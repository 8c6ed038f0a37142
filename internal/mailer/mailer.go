package mailer

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"time"

	"github.com/talentoplus/backend/internal/config"
	"github.com/talentoplus/backend/internal/domain"
	"github.com/wneessen/go-mail"
)

//go:embed templates/*.html
var templates embed.FS

type mailTemplate struct {
	subject string
	file    string
}

var mailTemplates = map[string]mailTemplate{
	domain.MailTypeWelcome:       {subject: "Bienvenido a TalentoPlus", file: "templates/welcome.html"},
	domain.MailTypeResetPassword: {subject: "TalentoPlus - Restablecer contraseña", file: "templates/reset_password.html"},
}

// Render 根据邮件类型找到对应的主题和模板
func Render(msg domain.MailMessage) (string, *template.Template, error) {
	mt, ok := mailTemplates[msg.Type]
	if !ok {
		return "", nil, fmt.Errorf("不支持的邮件类型: %s", msg.Type)
	}

	tmpl, err := template.ParseFS(templates, mt.file)
	if err != nil {
		return "", nil, err
	}

	return mt.subject, tmpl, nil
}

type SMTPMailer struct {
	sender string
	client *mail.Client
}

func NewSMTPMailer(cfg *config.Config) (*SMTPMailer, error) {
	smtp := cfg.Email.SMTP

	opts := []mail.Option{
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithPort(smtp.Port),
		mail.WithUsername(smtp.Sender),
		mail.WithPassword(smtp.Password),
		mail.WithTimeout(time.Duration(smtp.DialTimeout) * time.Second),
	}
	if smtp.EnableSSL {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	}

	client, err := mail.NewClient(smtp.Host, opts...)
	if err != nil {
		return nil, err
	}

	return &SMTPMailer{
		sender: smtp.Sender,
		client: client,
	}, nil
}

func (m *SMTPMailer) Send(ctx context.Context, message domain.MailMessage) error {
	subject, tmpl, err := Render(message)
	if err != nil {
		return err
	}

	msg := mail.NewMsg()
	if err := msg.From(m.sender); err != nil {
		return fmt.Errorf("无法设置邮件发件人: %w", err)
	}
	if err := msg.To(message.To); err != nil {
		return fmt.Errorf("无法设置邮件收件人: %w", err)
	}
	msg.Subject(subject)
	if err := msg.SetBodyHTMLTemplate(tmpl, message.Data); err != nil {
		return fmt.Errorf("无法设置邮件正文: %w", err)
	}

	return m.client.DialAndSendWithContext(ctx, msg)
}

// ConsoleMailer 在没有配置 SMTP 时使用，只把邮件内容打印到日志
type ConsoleMailer struct {
	logger *slog.Logger
}

func NewConsoleMailer(logger *slog.Logger) *ConsoleMailer {
	return &ConsoleMailer{logger: logger}
}

func (m *ConsoleMailer) Send(ctx context.Context, message domain.MailMessage) error {
	subject, tmpl, err := Render(message)
	if err != nil {
		return err
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, message.Data); err != nil {
		return err
	}

	m.logger.Info("邮件未发送 (未配置 SMTP)", "to", message.To, "subject", subject, "body", body.String())
	return nil
}
