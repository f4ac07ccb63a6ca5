package utils

import (
	"fmt"
	"log"
	"net/smtp"
	"os"
	"strings"

	"github.com/tarkandemir/hygieia-shop/models"
)

// EmailOptions is the contract with the delivery collaborator: a recipient,
// a subject and a ready-rendered HTML body.
type EmailOptions struct {
	To      string
	Subject string
	HTML    string
}

// EmailResult reports delivery without throwing: order placement must never
// fail because SMTP did.
type EmailResult struct {
	Success bool
	Error   string
}

func smtpAddr() (addr, host string) {
	host = getenvDefault("SMTP_HOST", "smtp-mail.outlook.com")
	port := getenvDefault("SMTP_PORT", "587")
	return host + ":" + port, host
}

func getenvDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// AdminEmails returns the comma-separated ADMIN_EMAILS recipients.
func AdminEmails() []string {
	raw := getenvDefault("ADMIN_EMAILS", "")
	var out []string
	for _, e := range strings.Split(raw, ",") {
		if e = strings.TrimSpace(e); e != "" {
			out = append(out, e)
		}
	}
	return out
}

// SendEmail delivers one message over SMTP with STARTTLS. Errors are folded
// into the result; callers log and move on, there is no retry policy.
func SendEmail(opts EmailOptions) EmailResult {
	addr, host := smtpAddr()
	user := os.Getenv("SMTP_USER")
	pass := os.Getenv("SMTP_PASSWORD")
	fromEmail := getenvDefault("FROM_EMAIL", user)
	fromName := getenvDefault("FROM_NAME", "Hygieia")

	headers := fmt.Sprintf("From: %q <%s>\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n",
		fromName, fromEmail, opts.To, opts.Subject)
	msg := []byte(headers + opts.HTML)

	var auth smtp.Auth
	if user != "" {
		auth = smtp.PlainAuth("", user, pass, host)
	}
	if err := smtp.SendMail(addr, auth, fromEmail, []string{opts.To}, msg); err != nil {
		return EmailResult{Success: false, Error: err.Error()}
	}
	return EmailResult{Success: true}
}

// SendOrderEmails notifies the customer and every admin about a new order.
// It is meant to run in a goroutine after the HTTP response is written;
// failures end up in the log and nowhere else.
func SendOrderEmails(order *models.Order) {
	subject := "Siparişiniz alındı: " + order.OrderNumber
	body := orderSummaryHTML(order)

	if order.Customer.Email != "" {
		if res := SendEmail(EmailOptions{To: order.Customer.Email, Subject: subject, HTML: body}); !res.Success {
			log.Printf("[mailer] customer email for %s failed: %s", order.OrderNumber, res.Error)
		}
	}
	for _, admin := range AdminEmails() {
		if res := SendEmail(EmailOptions{To: admin, Subject: "Yeni sipariş: " + order.OrderNumber, HTML: body}); !res.Success {
			log.Printf("[mailer] admin email for %s failed: %s", order.OrderNumber, res.Error)
		}
	}
}

// orderSummaryHTML renders a plain confirmation table. Full branded
// templates live with the storefront, not here.
func orderSummaryHTML(order *models.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<h2>Sipariş %s</h2>", order.OrderNumber)
	fmt.Fprintf(&b, "<p>%s</p>", order.Customer.Name)
	b.WriteString("<table border=\"1\" cellpadding=\"4\"><tr><th>Ürün</th><th>Adet</th><th>Tutar</th></tr>")
	for _, item := range order.Items {
		fmt.Fprintf(&b, "<tr><td>%s</td><td>%d</td><td>%.2f TL</td></tr>", item.Name, item.Quantity, item.TotalPrice)
	}
	b.WriteString("</table>")
	fmt.Fprintf(&b, "<p>Ara toplam: %.2f TL<br>Kargo: %.2f TL<br><b>Toplam: %.2f TL</b></p>",
		order.Subtotal, order.ShippingCost, order.TotalAmount)
	return b.String()
}
