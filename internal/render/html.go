package render

import (
	"bytes"
	"html/template"
)

const documentHTML = `<!doctype html>
<html lang="{{.Language}}">
<head>
  <meta charset="utf-8" />
  <title>{{.Header.Number}}</title>
  <style>
    * { box-sizing: border-box; }
    body {
      margin: 0;
      padding: 32px;
      font-family: "Helvetica Neue", Arial, sans-serif;
      color: #111827;
      background: #ffffff;
    }
    .document { max-width: 820px; margin: 0 auto; }
    .header {
      display: flex;
      justify-content: space-between;
      border-bottom: 2px solid #111827;
      padding-bottom: 16px;
      margin-bottom: 24px;
    }
    .header img { max-height: 64px; }
    .meta { text-align: right; font-size: 14px; }
    .label { color: #6b7280; font-size: 11px; text-transform: uppercase; letter-spacing: 0.04em; }
    .section { margin-bottom: 24px; }
    table { width: 100%; border-collapse: collapse; font-size: 14px; }
    th, td { padding: 10px; border-bottom: 1px solid #e5e7eb; text-align: left; }
    th { font-size: 11px; text-transform: uppercase; letter-spacing: 0.04em; color: #6b7280; }
    .totals { margin-top: 12px; width: 280px; margin-left: auto; font-size: 14px; }
    .totals div { display: flex; justify-content: space-between; padding: 4px 0; }
    .totals .grand { font-weight: bold; border-top: 1px solid #111827; }
    .footer { border-top: 1px solid #e5e7eb; padding-top: 16px; font-size: 12px; color: #6b7280; }
  </style>
</head>
<body>
  <div class="document">
    <div class="header">
      <div>
        {{if .Header.LogoURL}}<img src="{{.Header.LogoURL}}" alt="logo" width="{{.Header.LogoSize}}%" />{{end}}
        <div><strong>{{.Header.CompanyName}}</strong></div>
        {{if .Header.CompanyAddress}}<div>{{.Header.CompanyAddress}}</div>{{end}}
        {{if .Header.CompanyEmail}}<div>{{.Header.CompanyEmail}}</div>{{end}}
      </div>
      <div class="meta">
        <div class="label">{{.Kind}}</div>
        <div><strong>{{.Header.Number}}</strong></div>
        <div>{{.Header.DateLabel}} {{.Header.Date}}</div>
        {{if .Header.DueDate}}<div>{{.Header.DueDateLabel}} {{.Header.DueDate}}</div>{{end}}
      </div>
    </div>

    <div class="section">
      <div class="label">{{.BillTo.Label}}</div>
      <div><strong>{{.BillTo.Name}}</strong></div>
      {{if .BillTo.Address}}<div>{{.BillTo.Address}}</div>{{end}}
      {{if .BillTo.Email}}<div>{{.BillTo.Email}}</div>{{end}}
      {{if .BillTo.VATID}}<div>{{.BillTo.VATID}}</div>{{end}}
    </div>

    <div class="section">
      <table>
        <thead>
          <tr>
            <th>{{.Columns.Item}}</th>
            <th>{{.Columns.Quantity}}</th>
            <th>{{.Columns.Rate}}</th>
            <th>{{.Columns.Amount}}</th>
          </tr>
        </thead>
        <tbody>
          {{range .Rows}}
          <tr>
            <td>{{.Description}}</td>
            <td>{{.Quantity}}</td>
            <td>{{.Rate}}</td>
            <td>{{.Amount}}</td>
          </tr>
          {{end}}
        </tbody>
      </table>
      <div class="totals">
        <div><span>{{.Totals.SubtotalLabel}}</span><span>{{.Totals.Subtotal}}</span></div>
        {{if .Totals.Tax}}<div><span>{{.Totals.TaxLabel}}</span><span>{{.Totals.Tax}}</span></div>{{end}}
        <div class="grand"><span>{{.Totals.TotalLabel}}</span><span>{{.Totals.Total}}</span></div>
        <div><span>{{.Totals.BalanceLabel}}</span><span>{{.Totals.Balance}}</span></div>
      </div>
    </div>

    {{if .Payment}}
    <div class="section">
      {{range .Payment}}<div><span class="label">{{.Label}}</span> {{.Value}}</div>{{end}}
    </div>
    {{end}}

    {{if or .Notes .Terms}}
    <div class="footer">
      {{if .Notes}}<div>{{.Notes}}</div>{{end}}
      {{if .Terms}}<div>{{.Terms}}</div>{{end}}
    </div>
    {{end}}
  </div>
</body>
</html>`

var documentTmpl = template.Must(template.New("document").Parse(documentHTML))

// RenderHTML renders the document as a standalone HTML page, used for
// in-app preview and as the body for dispatched invoices/proposals.
func RenderHTML(doc RenderedDocument) (string, error) {
	var buf bytes.Buffer
	if err := documentTmpl.Execute(&buf, doc); err != nil {
		return "", err
	}
	return buf.String(), nil
}
