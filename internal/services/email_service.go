package services

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"net/smtp"
	"strings"

	"github.com/example/estatedeli/internal/models"
)

// EmailService sends templated HTML mail through an SMTP relay. When no
// relay is configured it logs the payload and reports success, so local
// development works without a mail account.
type EmailService struct {
	host     string
	port     string
	username string
	password string
	from     string
}

// NewEmailService creates an EmailService.
func NewEmailService(host, port, username, password, from string) *EmailService {
	return &EmailService{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

// Send delivers a single HTML message.
func (s *EmailService) Send(to, subject, htmlBody string) error {
	if s.host == "" {
		log.Printf("[Email] SMTP not configured, skipping send to %s (subject: %s)", to, subject)
		return nil
	}

	var msg strings.Builder
	msg.WriteString("From: " + s.from + "\r\n")
	msg.WriteString("To: " + to + "\r\n")
	msg.WriteString("Subject: " + subject + "\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=utf-8\r\n\r\n")
	msg.WriteString(htmlBody)

	var auth smtp.Auth
	if s.username != "" {
		auth = smtp.PlainAuth("", s.username, s.password, s.host)
	}

	addr := s.host + ":" + s.port
	if err := smtp.SendMail(addr, auth, s.from, []string{to}, []byte(msg.String())); err != nil {
		log.Printf("[Email] Failed to send to %s: %v", to, err)
		return err
	}

	return nil
}

type otpMailData struct {
	FirstName string
	Code      string
}

// SendOTP mails a verification code to a newly registered or unverified user.
func (s *EmailService) SendOTP(to, firstName, code string) error {
	if s.host == "" {
		// Development fallback, same as logging the code to console.
		log.Printf("[Email] OTP for %s: %s", to, code)
		return nil
	}

	body, err := render(otpTemplate, otpMailData{FirstName: firstName, Code: code})
	if err != nil {
		return err
	}

	return s.Send(to, "Your Estate Deli Verification Code", body)
}

type orderMailData struct {
	OrderNumber   string
	TotalAmount   string
	PaymentMethod string
	Status        string
	Message       string
}

// SendOrderConfirmation mails the order summary after a successful placement.
func (s *EmailService) SendOrderConfirmation(to string, order *models.Order) error {
	body, err := render(orderTemplate, orderMailData{
		OrderNumber:   order.OrderNumber,
		TotalAmount:   fmt.Sprintf("%.2f", order.TotalAmount),
		PaymentMethod: strings.ToUpper(order.PaymentMethod),
		Status:        order.Status,
		Message:       "Thank you for your order!",
	})
	if err != nil {
		return err
	}

	return s.Send(to, "Order Confirmation - "+order.OrderNumber, body)
}

// SendOrderStatusUpdate notifies the customer of a status change.
func (s *EmailService) SendOrderStatusUpdate(to string, order *models.Order) error {
	body, err := render(orderTemplate, orderMailData{
		OrderNumber:   order.OrderNumber,
		TotalAmount:   fmt.Sprintf("%.2f", order.TotalAmount),
		PaymentMethod: strings.ToUpper(order.PaymentMethod),
		Status:        order.Status,
		Message:       "Your order has been " + order.Status,
	})
	if err != nil {
		return err
	}

	return s.Send(to, "Order Update - "+order.OrderNumber, body)
}

func render(t *template.Template, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

var otpTemplate = template.Must(template.New("otp").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <div style="text-align: center; margin-bottom: 30px;">
    <h1 style="color: #6c4b3c;">Estate Deli</h1>
    <p style="color: #666; font-size: 18px;">Email Verification</p>
  </div>
  <div style="background-color: #f8f9fa; padding: 30px; border-radius: 10px;">
    <h2 style="color: #6c4b3c; text-align: center;">Hi {{.FirstName}}!</h2>
    <p style="color: #555; text-align: center;">Thank you for signing up with Estate Deli. Your verification code is:</p>
    <div style="background-color: #fff; padding: 20px; text-align: center; border-radius: 8px; border: 2px solid #6c4b3c;">
      <h1 style="color: #6c4b3c; font-size: 36px; margin: 0; letter-spacing: 8px; font-family: monospace;">{{.Code}}</h1>
    </div>
    <p style="color: #666; font-size: 14px; text-align: center;">This code will expire in <strong>10 minutes</strong>.</p>
  </div>
  <div style="text-align: center; margin-top: 30px;">
    <p style="color: #666; font-size: 14px;">If you didn't request this code, please ignore this email.</p>
    <p style="color: #999; font-size: 12px;">Estate Deli - Artisanal Coffee &amp; Handcrafted Experience</p>
  </div>
</div>
`))

var orderTemplate = template.Must(template.New("order").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <div style="text-align: center; margin-bottom: 30px;">
    <h1 style="color: #6c4b3c;">Estate Deli</h1>
    <p style="color: #666; font-size: 18px;">{{.Message}}</p>
  </div>
  <div style="background-color: #f8f9fa; padding: 30px; border-radius: 10px;">
    <div style="background-color: #fff; padding: 20px; border-radius: 8px;">
      <h3 style="color: #6c4b3c;">Order Details:</h3>
      <p><strong>Order Number:</strong> {{.OrderNumber}}</p>
      <p><strong>Total Amount:</strong> &#8377;{{.TotalAmount}}</p>
      <p><strong>Payment Method:</strong> {{.PaymentMethod}}</p>
      <p><strong>Status:</strong> {{.Status}}</p>
    </div>
  </div>
  <div style="text-align: center; margin-top: 30px;">
    <p style="color: #666;">We'll send you updates on your order status.</p>
    <p style="color: #999; font-size: 12px;">Estate Deli - Artisanal Coffee &amp; Handcrafted Experience</p>
  </div>
</div>
`))
