package handlers

import (
	"fmt"
	"net/smtp"
	"os"
)

// sendOrderConfirmationEmail sends a plain-text confirmation through the
// configured SMTP relay. When SMTP_HOST is unset the email is skipped, so
// local development does not need a mail server.
func sendOrderConfirmationEmail(to string, orderId string) error {
	smtpHost := os.Getenv("SMTP_HOST")
	if smtpHost == "" {
		return nil
	}
	smtpPort := os.Getenv("SMTP_PORT")
	if smtpPort == "" {
		smtpPort = "587"
	}
	username := os.Getenv("SMTP_USERNAME")
	password := os.Getenv("SMTP_PASSWORD")
	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = "no-reply@bluepink.example"
	}

	subject := "Order Confirmation"
	body := fmt.Sprintf("Thank you for your order! Your order ID is %s. We are processing it now.", orderId)

	message := []byte("To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"\r\n" +
		body + "\r\n")

	auth := smtp.PlainAuth("", username, password, smtpHost)
	if err := smtp.SendMail(smtpHost+":"+smtpPort, auth, from, []string{to}, message); err != nil {
		return fmt.Errorf("sending email: %w", err)
	}
	return nil
}
