package gmail

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/textproto"
	"strings"
	"time"

	"groundops-service/internal/domain/entity"
	"groundops-service/internal/domain/repository"
	"groundops-service/pkg/logger"

	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// IncidentMailer sends incident reports through the Gmail API
type IncidentMailer struct {
	gmailService *gmail.Service
	sender       string
	location     *time.Location
	logger       logger.Logger
}

// NewIncidentMailer creates a new Gmail incident mailer. sender is the
// Gmail user id, "me" for the account behind the token.
func NewIncidentMailer(ctx context.Context, tokenSource oauth2.TokenSource, sender string, location *time.Location, logger logger.Logger) (repository.Mailer, error) {
	service, err := gmail.NewService(ctx, option.WithTokenSource(tokenSource))
	if err != nil {
		return nil, err
	}
	return newIncidentMailer(service, sender, location, logger), nil
}

func newIncidentMailer(service *gmail.Service, sender string, location *time.Location, logger logger.Logger) *IncidentMailer {
	if sender == "" {
		sender = "me"
	}
	if location == nil {
		location = time.UTC
	}
	return &IncidentMailer{
		gmailService: service,
		sender:       sender,
		location:     location,
		logger:       logger,
	}
}

// SendIncident sends the report to the recipient and returns the Gmail message id
func (m *IncidentMailer) SendIncident(ctx context.Context, to string, report *entity.IncidentReport) (string, error) {
	raw, err := ComposeIncident(to, report, m.location)
	if err != nil {
		return "", err
	}

	msg := &gmail.Message{Raw: base64.URLEncoding.EncodeToString(raw)}
	sent, err := m.gmailService.Users.Messages.Send(m.sender, msg).Context(ctx).Do()
	if err != nil {
		m.logger.Error("Failed to send incident email", "to", to, "error", err)
		return "", err
	}

	m.logger.Info("Incident email sent", "to", to, "messageId", sent.Id)
	return sent.Id, nil
}

// IncidentBody renders the plain text body of a report
func IncidentBody(report *entity.IncidentReport, location *time.Location) string {
	var b strings.Builder
	b.WriteString("Descrição do ocorrido:\n\n")
	b.WriteString(strings.TrimSpace(report.Description))
	b.WriteString("\n\n")

	if report.Flight != "" {
		fmt.Fprintf(&b, "Voo: %s\n", report.Flight)
	}
	if report.Reporter != "" {
		fmt.Fprintf(&b, "Reportado por: %s\n", report.Reporter)
	}
	if !report.OccurredAt.IsZero() {
		fmt.Fprintf(&b, "Data/hora: %s\n", report.OccurredAt.In(location).Format("02/01/2006 15:04"))
	}
	if report.Latitude != nil && report.Longitude != nil {
		fmt.Fprintf(&b, "GPS: %.6f, %.6f\n", *report.Latitude, *report.Longitude)
	} else {
		b.WriteString("GPS: indisponível\n")
	}
	b.WriteString("\n(Enviado via app)\n")
	return b.String()
}

// ComposeIncident builds the RFC 822 message, multipart when there are attachments
func ComposeIncident(to string, report *entity.IncidentReport, location *time.Location) ([]byte, error) {
	if location == nil {
		location = time.UTC
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "To: %s\r\n", to)
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", report.Title))
	buf.WriteString("MIME-Version: 1.0\r\n")

	body := IncidentBody(report, location)

	if len(report.Attachments) == 0 {
		buf.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
		buf.WriteString("Content-Transfer-Encoding: base64\r\n\r\n")
		writeBase64Lines(&buf, []byte(body))
		return buf.Bytes(), nil
	}

	writer := multipart.NewWriter(&buf)
	fmt.Fprintf(&buf, "Content-Type: multipart/mixed; boundary=%q\r\n\r\n", writer.Boundary())

	textPart, err := writer.CreatePart(textproto.MIMEHeader{
		"Content-Type":              {"text/plain; charset=\"UTF-8\""},
		"Content-Transfer-Encoding": {"base64"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create body part: %w", err)
	}
	writeBase64Lines(textPart, []byte(body))

	for _, a := range report.Attachments {
		contentType := a.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		part, err := writer.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {contentType},
			"Content-Transfer-Encoding": {"base64"},
			"Content-Disposition":       {mime.FormatMediaType("attachment", map[string]string{"filename": a.Filename})},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create attachment part: %w", err)
		}
		writeBase64Lines(part, a.Data)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close message: %w", err)
	}
	return buf.Bytes(), nil
}

// writeBase64Lines writes data base64-encoded in 76 character lines
func writeBase64Lines(w io.Writer, data []byte) {
	encoded := base64.StdEncoding.EncodeToString(data)
	for len(encoded) > 76 {
		w.Write([]byte(encoded[:76] + "\r\n"))
		encoded = encoded[76:]
	}
	w.Write([]byte(encoded + "\r\n"))
}
