package email

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"mime/multipart"
	"net/smtp"
	"net/textproto"
	"strings"
	"time"

	"github.com/hopital-foch/ll-report/pkg/models/domain"
)

// Sender mails the monthly report with the workbook attached. The hospital
// relay accepts unauthenticated submissions from the reporting host, so no
// SMTP auth is carried.
type Sender struct {
	Addr string
	From string
}

func NewSender(host string, port int, from string) *Sender {
	return &Sender{Addr: fmt.Sprintf("%s:%d", host, port), From: from}
}

// SendReport mails the report summary with the xlsx workbook attached.
func (s *Sender) SendReport(recipients []string, report *domain.Report, workbook []byte) error {
	if len(recipients) == 0 {
		return fmt.Errorf("no recipients configured")
	}

	msg, err := buildMessage(s.From, recipients, report, workbook)
	if err != nil {
		return err
	}
	if err := smtp.SendMail(s.Addr, nil, s.From, recipients, msg); err != nil {
		return fmt.Errorf("failed to send report mail: %w", err)
	}
	return nil
}

// buildMessage assembles a multipart MIME message: an HTML body part plus the
// workbook as a base64 attachment.
func buildMessage(from string, recipients []string, report *domain.Report, workbook []byte) ([]byte, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	subject := fmt.Sprintf("Indicateurs lettres de liaison - %s au %s",
		report.Period.Start.Format("2006-01-02"), report.Period.End.Format("2006-01-02"))

	fmt.Fprintf(&buf, "From: %s\r\n", from)
	fmt.Fprintf(&buf, "To: %s\r\n", strings.Join(recipients, ", "))
	fmt.Fprintf(&buf, "Subject: %s\r\n", subject)
	fmt.Fprintf(&buf, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/mixed; boundary=%s\r\n\r\n", mw.Boundary())

	body, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"text/html; charset=utf-8"},
	})
	if err != nil {
		return nil, err
	}
	if _, err := body.Write([]byte(htmlBody(report))); err != nil {
		return nil, err
	}

	filename := fmt.Sprintf("indicateurs_ll_%s.xlsx", report.Period.End.Format("2006-01"))
	attachment, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type":              {"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"},
		"Content-Transfer-Encoding": {"base64"},
		"Content-Disposition":       {fmt.Sprintf("attachment; filename=%s", filename)},
	})
	if err != nil {
		return nil, err
	}
	if _, err := attachment.Write([]byte(base64.StdEncoding.EncodeToString(workbook))); err != nil {
		return nil, err
	}

	if err := mw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func htmlBody(report *domain.Report) string {
	var b strings.Builder
	b.WriteString("<html><body style=\"font-family: Arial, sans-serif;\">")
	b.WriteString("<h2>Indicateurs lettres de liaison</h2>")
	fmt.Fprintf(&b, "<p>Periode du %s au %s, genere le %s.</p>",
		report.Period.Start.Format("2006-01-02"),
		report.Period.End.Format("2006-01-02"),
		report.GeneratedAt.Format(time.RFC1123))

	b.WriteString("<table border=\"1\" cellpadding=\"6\" cellspacing=\"0\">")
	b.WriteString("<tr><th>Specialite</th><th>Sejours</th><th>Validation</th><th>J0</th><th>Diffusion</th></tr>")
	for _, row := range report.Rows {
		fmt.Fprintf(&b, "<tr><td>%s</td><td>%d</td><td>%s</td><td>%s</td><td>%s</td></tr>",
			row.Specialty, row.StayCount,
			formatRate(row.ValidatedRate), formatRate(row.J0Rate), formatRate(row.DiffusedRate))
	}
	b.WriteString("</table>")

	fmt.Fprintf(&b, "<p>Lignes ignorees: %d sejours, %d documents.</p>",
		report.Stats.StaysDropped, report.Stats.DocsDropped)
	b.WriteString("<p><em>Rapport genere automatiquement. Le detail figure dans le classeur joint.</em></p>")
	b.WriteString("</body></html>")
	return b.String()
}

func formatRate(rate *float64) string {
	if rate == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.2f%%", *rate)
}
