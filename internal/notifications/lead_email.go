package notifications

import (
	"bytes"
	"html/template"

	"github.com/dertobiunddasbo/bsp-media-sub001/internal/leads"
)

const leadNotificationTemplate = `<!DOCTYPE html>
<html>
<body>
  <h3>Neue Anfrage über die Website</h3>
  <p><strong>Art:</strong> {{.KindLabel}}</p>
  <p><strong>Name:</strong> {{.Lead.Name}}</p>
  <p><strong>E-Mail:</strong> {{.Lead.Email}}</p>
  <p><strong>Telefon:</strong> {{.Lead.Phone}}</p>
  <p><strong>Firma:</strong> {{.Lead.Company}}</p>
  {{if .Lead.ProjectType}}<p><strong>Projektart:</strong> {{.Lead.ProjectType}}</p>{{end}}
  {{if .Lead.Budget}}<p><strong>Budget:</strong> {{.Lead.Budget}}</p>{{end}}
  {{if .Lead.Timeline}}<p><strong>Zeitrahmen:</strong> {{.Lead.Timeline}}</p>{{end}}
  <p><strong>ID:</strong> {{.Lead.ID}}</p>
  <p><strong>Nachricht:</strong><br/>{{.Lead.Message}}</p>
</body>
</html>`

const leadConfirmationTemplate = `<!DOCTYPE html>
<html>
<body>
  <p>Hallo {{.Lead.Name}},</p>
  <p>vielen Dank für Ihre Anfrage. Wir haben sie erhalten und melden uns in der Regel innerhalb eines Werktags bei Ihnen.</p>
  <ul>
    <li>Art der Anfrage: {{.KindLabel}}</li>
    <li>Vorgangsnummer: {{.Lead.ID}}</li>
  </ul>
  <p>Ihre Nachricht:</p>
  <p>{{.Lead.Message}}</p>
  <p>Viele Grüße<br/>Ihr BSP Media Team</p>
</body>
</html>`

var leadNotificationTmpl = template.Must(template.New("lead_notification").Parse(leadNotificationTemplate))
var leadConfirmationTmpl = template.Must(template.New("lead_confirmation").Parse(leadConfirmationTemplate))

type leadEmailData struct {
	Lead      leads.Lead
	KindLabel string
}

func buildLeadNotificationHTML(lead leads.Lead) (string, error) {
	var buf bytes.Buffer
	if err := leadNotificationTmpl.Execute(&buf, leadEmailData{Lead: lead, KindLabel: kindLabel(lead.Kind)}); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func buildLeadConfirmationHTML(lead leads.Lead) (string, error) {
	var buf bytes.Buffer
	if err := leadConfirmationTmpl.Execute(&buf, leadEmailData{Lead: lead, KindLabel: kindLabel(lead.Kind)}); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func kindLabel(kind string) string {
	switch kind {
	case leads.KindContact:
		return "Kontaktformular"
	case leads.KindIdeenCheck:
		return "Ideen-Check"
	default:
		return kind
	}
}
