package utils

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/gomail.v2"
)

// EmailConfig holds SMTP configuration
type EmailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

func emailConfigFromEnv() EmailConfig {
	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil || port == 0 {
		port = 587
	}
	return EmailConfig{
		Host:     os.Getenv("SMTP_HOST"),
		Port:     port,
		Username: os.Getenv("SMTP_USERNAME"),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     os.Getenv("SMTP_FROM"),
	}
}

// SendEmail sends an HTML email using the configured SMTP server
func SendEmail(to, subject, body string) error {
	config := emailConfigFromEnv()
	if config.Host == "" {
		return fmt.Errorf("SMTP not configured")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", config.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(config.Host, config.Port, config.Username, config.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %v", err)
	}

	return nil
}

// SendWelcomeEmail mails an ambassador their referral code and initial password
func SendWelcomeEmail(to, name, referralCode, password string) error {
	body := fmt.Sprintf(`
		<h2>Welcome to the Ambassador Program, %s!</h2>
		<p>Your referral code: <strong>%s</strong></p>
		<p>Share it with students to earn points for every signup.</p>
		<p>Portal login: %s</p>
		<p>Email: %s<br>Temporary password: <strong>%s</strong></p>
		<p>Please change your password after your first login.</p>
	`, name, referralCode, os.Getenv("FRONTEND_URL"), to, password)

	return SendEmail(to, "Your Ambassador Account", body)
}

// SendPasswordResetEmail mails an ambassador a newly generated password
func SendPasswordResetEmail(to, password string) error {
	body := fmt.Sprintf(`
		<h2>Password Reset</h2>
		<p>Your password has been reset by an administrator.</p>
		<p>New password: <strong>%s</strong></p>
		<p>Please change it after logging in.</p>
	`, password)

	return SendEmail(to, "Password Reset", body)
}
