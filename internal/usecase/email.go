package usecase

import (
	"fmt"
	"html/template"
	"strings"

	"solicitacao-compras/internal/domain/model"
)

const cellStyle = "border: 1px solid #ddd; padding: 8px;"

var emailTemplate = template.Must(template.New("solicitacao").Parse(`<h1>Nova Solicitação de Compras</h1>
<p><strong>Data:</strong> {{.Date}}</p>
<p><strong>Setor:</strong> {{.Sector}}</p>
<p><strong>Requisitado por:</strong> {{.RequestedBy}}</p>
<p><strong>Nível de Urgência:</strong> {{.Urgency}}</p>
<hr>
<h3>Itens Solicitados:</h3>
<table style="width: 100%; border-collapse: collapse;">
  <thead>
    <tr>
      <th style="border: 1px solid #ddd; padding: 8px; text-align: left; background-color: #f2f2f2;">Serviço/Produto</th>
      <th style="border: 1px solid #ddd; padding: 8px; text-align: left; background-color: #f2f2f2;">Quantidade</th>
    </tr>
  </thead>
  <tbody>
    {{range .Items}}<tr>
      <td style="{{$.CellStyle}}">{{.Description}}</td>
      <td style="{{$.CellStyle}}">{{.Quantity}}</td>
    </tr>
    {{end}}
  </tbody>
</table>
<hr>
<h3>Justificativa:</h3>
<p>{{.Justification}}</p>
<br>
<p><em>Cópia enviada para: {{.CcDisplay}}</em></p>
`))

type emailData struct {
	Date          string
	Sector        string
	RequestedBy   string
	Urgency       string
	Items         []model.LineItem
	Justification template.HTML
	CcDisplay     string
	CellStyle     template.CSS
}

// buildEmail renders the request into the mail message for the
// primary sink.
func buildEmail(req model.PurchaseRequest) (model.Email, error) {
	var body strings.Builder
	err := emailTemplate.Execute(&body, emailData{
		Date:          req.Date,
		Sector:        req.Sector,
		RequestedBy:   req.RequestedBy,
		Urgency:       req.Urgency,
		Items:         req.Items,
		Justification: nl2br(req.Justification),
		CcDisplay:     orNA(req.CcEmail),
		CellStyle:     template.CSS(cellStyle),
	})
	if err != nil {
		return model.Email{}, fmt.Errorf("render email body: %w", err)
	}

	fromName := req.RequestedBy
	if fromName == "" {
		fromName = defaultFromName
	}

	email := model.Email{
		FromName: fromName,
		Cc:       req.CcEmail,
		Subject:  fmt.Sprintf("Nova Solicitação de Compra - Setor: %s", req.Sector),
		HTML:     body.String(),
	}
	if req.Photo.Present() {
		email.Attachments = append(email.Attachments, req.Photo)
	}
	return email, nil
}

// nl2br escapes the text and turns newlines into HTML line breaks.
func nl2br(text string) template.HTML {
	escaped := template.HTMLEscapeString(text)
	escaped = strings.ReplaceAll(escaped, "\r\n", "\n")
	return template.HTML(strings.ReplaceAll(escaped, "\n", "<br>"))
}
