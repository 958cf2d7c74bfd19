package auth

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"

	"github.com/AmazzarK/back-edu-math-AI/models"
	"github.com/AmazzarK/back-edu-math-AI/utils"
)

// LoadEmailConfig loads email configuration from environment
func LoadEmailConfig() *models.EmailConfig {
	return &models.EmailConfig{
		SMTPHost:    utils.GetEnvOrDefault("SMTP_HOST", "localhost"),
		SMTPPort:    utils.GetEnvInt("SMTP_PORT", 587),
		Username:    utils.GetEnvOrDefault("SMTP_USERNAME", ""),
		Password:    utils.GetEnvOrDefault("SMTP_PASSWORD", ""),
		FromAddress: utils.GetEnvOrDefault("FROM_EMAIL", "noreply@edu-math.local"),
		FromName:    utils.GetEnvOrDefault("FROM_NAME", "Math Learning Platform"),
		BaseURL:     utils.GetEnvOrDefault("BASE_URL", "http://localhost:8043"),
	}
}

// EmailService handles email sending
type EmailService struct {
	config *models.EmailConfig
}

// NewEmailService creates a new email service
func NewEmailService(config *models.EmailConfig) *EmailService {
	return &EmailService{config: config}
}

// BuildCompletionEmail renders the message sent when a student finishes an
// exercise.
func (es *EmailService) BuildCompletionEmail(user *models.User, exerciseTitle string, score float64) (string, string) {
	subject := fmt.Sprintf("You completed \"%s\"", exerciseTitle)
	body := fmt.Sprintf(`Hello %s,

Nice work! You just completed "%s" with a score of %.1f.

Head back to the platform to see your progress and keep your streak going:
%s

Best regards,
%s`, user.FullName, exerciseTitle, score, es.config.BaseURL, es.config.FromName)

	return subject, body
}

// BuildDigestEmail renders the weekly summary for one student.
func (es *EmailService) BuildDigestEmail(user *models.User, snapshot *models.AnalyticsSnapshot) (string, string) {
	subject := "Your weekly progress summary"
	body := fmt.Sprintf(`Hello %s,

Here is where you stand this week:

  Exercises completed: %d
  Average score:       %.1f
  Current streak:      %d day(s)
  Longest streak:      %d day(s)

Keep it up:
%s

Best regards,
%s`, user.FullName,
		snapshot.Summary.Completed,
		snapshot.Summary.AverageScore,
		snapshot.CurrentStreak,
		snapshot.LongestStreak,
		es.config.BaseURL, es.config.FromName)

	return subject, body
}

func (es *EmailService) SendEmail(to, subject, body string) error {
	if es.config.Username == "" || es.config.Password == "" {
		utils.LogInfo("SMTP not configured, logging email instead")
		utils.LogInfo("=== EMAIL ===")
		utils.LogInfo("To: %s", to)
		utils.LogInfo("Subject: %s", subject)
		utils.LogInfo("Body: %s", body)
		utils.LogInfo("=============")
		return nil
	}

	return es.sendEmail(to, subject, body)
}

// sendEmail sends an email using SMTP with SSL support
func (es *EmailService) sendEmail(to, subject, body string) error {
	utils.LogInfo("Sending email to %s: %s", to, subject)

	// Prepare message
	message := fmt.Sprintf("From: %s <%s>\r\n"+
		"To: %s\r\n"+
		"Subject: %s\r\n"+
		"\r\n"+
		"%s\r\n", es.config.FromName, es.config.FromAddress, to, subject, body)

	// For port 465 (implicit SSL), we need to establish SSL connection first
	addr := fmt.Sprintf("%s:%d", es.config.SMTPHost, es.config.SMTPPort)

	var conn net.Conn
	var err error

	if es.config.SMTPPort == 465 {
		// Port 465 uses implicit SSL (SMTPS)
		utils.LogDebug("Connecting to SMTP server %s with SSL", addr)
		tlsConfig := &tls.Config{
			ServerName: es.config.SMTPHost,
		}
		conn, err = tls.Dial("tcp", addr, tlsConfig)
		if err != nil {
			utils.LogError("Failed to establish SSL connection to %s: %v", addr, err)
			return err
		}
	} else {
		// Port 587 or 25 uses plain connection with STARTTLS
		utils.LogDebug("Connecting to SMTP server %s (plain)", addr)
		conn, err = net.Dial("tcp", addr)
		if err != nil {
			utils.LogError("Failed to connect to %s: %v", addr, err)
			return err
		}
	}
	defer conn.Close()

	// Create an SMTP client
	client, err := smtp.NewClient(conn, es.config.SMTPHost)
	if err != nil {
		utils.LogError("Failed to create SMTP client: %v", err)
		return err
	}
	defer client.Quit()

	// For non-SSL connections, try STARTTLS if available
	if es.config.SMTPPort != 465 {
		if ok, _ := client.Extension("STARTTLS"); ok {
			tlsConfig := &tls.Config{
				ServerName: es.config.SMTPHost,
			}
			if err = client.StartTLS(tlsConfig); err != nil {
				utils.LogError("Failed to start TLS: %v", err)
				return err
			}
			utils.LogDebug("STARTTLS initiated successfully")
		}
	}

	// Authenticate
	auth := smtp.PlainAuth("", es.config.Username, es.config.Password, es.config.SMTPHost)
	if err = client.Auth(auth); err != nil {
		utils.LogError("SMTP authentication failed: %v", err)
		return err
	}
	utils.LogDebug("SMTP authentication successful")

	// Set sender
	if err = client.Mail(es.config.FromAddress); err != nil {
		utils.LogError("Failed to set sender: %v", err)
		return err
	}

	// Set recipient
	if err = client.Rcpt(to); err != nil {
		utils.LogError("Failed to set recipient: %v", err)
		return err
	}

	// Send message body
	writer, err := client.Data()
	if err != nil {
		utils.LogError("Failed to open data writer: %v", err)
		return err
	}
	defer writer.Close()

	_, err = writer.Write([]byte(message))
	if err != nil {
		utils.LogError("Failed to write message: %v", err)
		return err
	}

	utils.LogInfo("Email sent successfully to %s", to)
	return nil
}
