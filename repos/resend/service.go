package resend

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	resend "github.com/resend/resend-go/v2"

	"github.com/ccmha/rink-sync/pkg/models"
	timehelper "github.com/ccmha/rink-sync/pkg/timeHelper"
)

const subscriberDoc = "recipients"

// Service sends schedule mail through Resend and keeps the subscriber list
// in Firestore.
type Service struct {
	firestoreClient *firestore.Client
	mailClient      *resend.Client
	hostURL         string
	fromAddress     string
}

// NewService creates a new mail service.
func NewService(firestoreClient *firestore.Client, hostURL string) *Service {
	resendKey := os.Getenv("RESEND_KEY")
	fromAddress := os.Getenv("SENDER_EMAIL")
	if fromAddress == "" {
		fromAddress = "schedule@ccmha.ca"
	}
	return &Service{
		firestoreClient: firestoreClient,
		mailClient:      resend.NewClient(resendKey),
		hostURL:         hostURL,
		fromAddress:     fromAddress,
	}
}

// SendChangeReport mails the change report to every recipient. The caller
// only invokes this for non-empty reports.
func (s Service) SendChangeReport(ctx context.Context, venue string, report models.ChangeReport, recipients []string) error {
	subject := fmt.Sprintf("%s Schedule Changes (%s)", venue, time.Now().Format("Jan 2, 2006"))
	params := &resend.SendEmailRequest{
		From:    s.fromAddress,
		To:      recipients,
		Subject: subject,
		Html:    changeReportHTML(venue, report),
	}

	_, err := s.mailClient.Emails.Send(params)
	if err != nil {
		log.Printf("Failed to send change report mail: %v\n", err)
		return err
	}
	log.Printf("Change report sent to %d recipient(s)\n", len(recipients))
	return nil
}

// SendConfirmation mails a subscription confirm link carrying the access
// code.
func (s Service) SendConfirmation(ctx context.Context, email, accessCode string) error {
	body := fmt.Sprintf(
		`<p>Confirm your rink schedule alerts subscription:</p><p><a href="%s/subscribe/v1/confirm/%s">Confirm subscription</a></p>`,
		s.hostURL, accessCode)
	params := &resend.SendEmailRequest{
		From:    s.fromAddress,
		To:      []string{email},
		Subject: "Confirm your schedule alerts subscription",
		Html:    body,
	}

	_, err := s.mailClient.Emails.Send(params)
	if err != nil {
		log.Printf("Failed to send confirmation mail: %v\n", err)
		return err
	}
	return nil
}

// AddSubscriber adds the email to the recipient list if not already present.
func (s Service) AddSubscriber(ctx context.Context, email string) error {
	docRef := s.firestoreClient.Collection("Subscribers").Doc(subscriberDoc)

	err := s.firestoreClient.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		emails := readEmails(tx, docRef)
		for _, e := range emails {
			if strings.EqualFold(e, email) {
				return nil
			}
		}
		return tx.Set(docRef, map[string]interface{}{
			"emails": append(emails, email),
		})
	})
	if err != nil {
		log.Printf("Failed to add subscriber: %v\n", err)
		return err
	}
	return nil
}

// RemoveSubscriber drops the email from the recipient list.
func (s Service) RemoveSubscriber(ctx context.Context, email string) error {
	docRef := s.firestoreClient.Collection("Subscribers").Doc(subscriberDoc)

	err := s.firestoreClient.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		emails := readEmails(tx, docRef)
		var kept []string
		for _, e := range emails {
			if !strings.EqualFold(e, email) {
				kept = append(kept, e)
			}
		}
		return tx.Set(docRef, map[string]interface{}{
			"emails": kept,
		})
	})
	if err != nil {
		log.Printf("Failed to remove subscriber: %v\n", err)
		return err
	}
	return nil
}

// ListSubscribers returns the current recipient list.
func (s Service) ListSubscribers(ctx context.Context) ([]string, error) {
	doc, _ := s.firestoreClient.Collection("Subscribers").Doc(subscriberDoc).Get(ctx)
	if !doc.Exists() {
		return nil, nil
	}

	data, err := doc.DataAt("emails")
	if err != nil {
		return nil, nil
	}
	values, ok := data.([]interface{})
	if !ok {
		return nil, nil
	}
	var emails []string
	for _, v := range values {
		if email, ok := v.(string); ok {
			emails = append(emails, email)
		}
	}
	return emails, nil
}

func readEmails(tx *firestore.Transaction, docRef *firestore.DocumentRef) []string {
	doc, err := tx.Get(docRef)
	if err != nil {
		return nil
	}

	var emails []string
	if data, err := doc.DataAt("emails"); err == nil {
		if values, ok := data.([]interface{}); ok {
			for _, v := range values {
				if email, ok := v.(string); ok {
					emails = append(emails, email)
				}
			}
		}
	}
	return emails
}

func changeReportHTML(venue string, report models.ChangeReport) string {
	var b strings.Builder

	b.WriteString(`<html><body style="font-family: Arial, sans-serif;">`)
	fmt.Fprintf(&b, "<h2>%s Schedule Changes</h2>", venue)
	fmt.Fprintf(&b, "<p><strong>Detected at:</strong> %s</p>", time.Now().Format(timehelper.TimestampLayout))

	if len(report.Added) > 0 {
		b.WriteString(`<h3 style="color: green;">New Ice Times Added</h3>`)
		writeEventTable(&b, report.Added)
	}
	if len(report.Removed) > 0 {
		b.WriteString(`<h3 style="color: red;">Ice Times Cancelled/Removed</h3>`)
		writeEventTable(&b, report.Removed)
	}
	if len(report.Modified) > 0 {
		b.WriteString(`<h3 style="color: orange;">Ice Times Modified</h3>`)
		b.WriteString(tableOpen)
		b.WriteString("<tr><th>Date</th><th>Time</th><th>Type</th><th>League</th><th>Changes</th></tr>")
		for _, mod := range report.Modified {
			fmt.Fprintf(&b, "<tr><td>%s</td><td>%s - %s</td><td>%s</td><td>%s</td><td>%s</td></tr>",
				mod.New.Date, mod.New.StartTime, mod.New.EndTime, mod.New.Type, mod.New.League,
				describeModification(mod))
		}
		b.WriteString("</table>")
	}

	fmt.Fprintf(&b, "<p><strong>Summary:</strong> %d added, %d removed, %d modified</p>",
		len(report.Added), len(report.Removed), len(report.Modified))
	b.WriteString("</body></html>")

	return b.String()
}

const tableOpen = `<table border="1" cellpadding="5" cellspacing="0" style="border-collapse: collapse;">`

func writeEventTable(b *strings.Builder, events []models.Event) {
	b.WriteString(tableOpen)
	b.WriteString("<tr><th>Date</th><th>Time</th><th>Type</th><th>League</th><th>Team</th><th>Venue</th></tr>")
	for _, e := range events {
		fmt.Fprintf(b, "<tr><td>%s</td><td>%s - %s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>",
			e.Date, e.StartTime, e.EndTime, e.Type, e.League, e.Title, e.Venue)
	}
	b.WriteString("</table>")
}

func describeModification(mod models.Modification) string {
	var parts []string
	for _, field := range mod.Fields {
		switch field {
		case "title":
			parts = append(parts, fmt.Sprintf("Team: %s → %s", mod.Old.Title, mod.New.Title))
		case "end_time":
			parts = append(parts, fmt.Sprintf("End time: %s → %s", mod.Old.EndTime, mod.New.EndTime))
		case "event_type":
			parts = append(parts, fmt.Sprintf("Type: %s → %s", mod.Old.Type, mod.New.Type))
		case "venue":
			parts = append(parts, fmt.Sprintf("Venue: %s → %s", mod.Old.Venue, mod.New.Venue))
		}
	}
	return strings.Join(parts, "<br>")
}
