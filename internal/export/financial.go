package export

import (
	"encoding/csv"
	"fmt"
	"html/template"
	"io"
	"sort"
	"time"

	"legendarios/internal/core"
)

var financialCSVHeaders = []string{"Data", "Descrição", "Categoria", "Tipo", "Valor"}

// FinancialReportCSV writes a month's ledger entries as CSV with
// Portuguese headers and comma decimal amounts.
func FinancialReportCSV(w io.Writer, report core.Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(financialCSVHeaders); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, e := range report.Entries {
		row := []string{
			e.Date.String(),
			e.Description,
			e.Category,
			typeLabel(e.Type),
			e.Amount.DecimalComma(),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

type financialDocRow struct {
	Date        string
	Description string
	Category    string
	Amount      string
	Sign        string
	Color       template.CSS
}

type financialDocData struct {
	PeriodLabel string
	Income      string
	Expense     string
	Balance     string
	Rows        []financialDocRow
	GeneratedAt string
}

var financialDocTemplate = template.Must(template.New("financialDoc").Parse(`<html xmlns:o='urn:schemas-microsoft-com:office:office' xmlns:w='urn:schemas-microsoft-com:office:word' xmlns='http://www.w3.org/TR/REC-html40'>
<head>
<meta charset='utf-8'>
<title>Relatório Financeiro</title>
<style>
body { font-family: 'Arial', sans-serif; font-size: 12pt; }
h1 { text-align: center; color: #1e3a8a; margin-bottom: 5px; }
h2 { text-align: center; color: #4b5563; font-size: 14pt; margin-top: 0; }
.summary-box { border: 1px solid #000; padding: 15px; margin: 20px 0; background-color: #f8fafc; }
.summary-table { width: 100%; text-align: center; }
.summary-value { font-size: 16pt; font-weight: bold; }
.green { color: #166534; }
.red { color: #991b1b; }
.blue { color: #1e40af; }
table.details { width: 100%; border-collapse: collapse; margin-top: 20px; font-size: 10pt; }
table.details th { background-color: #1e3a8a; color: white; padding: 8px; text-align: left; }
table.details td { border-bottom: 1px solid #ddd; padding: 6px; }
.footer { margin-top: 50px; width: 100%; text-align: center; }
.signature-line { border-top: 1px solid #000; width: 40%; display: inline-block; margin: 0 20px; padding-top: 5px; }
</style>
</head>
<body>
<h1>SISTEMA LEGENDÁRIOS</h1>
<h2>Relatório Financeiro Mensal - {{.PeriodLabel}}</h2>
<div class="summary-box">
<table class="summary-table">
<tr><td>TOTAL ENTRADAS</td><td>TOTAL SAÍDAS</td><td>SALDO DO PERÍODO</td></tr>
<tr>
<td class="summary-value green">{{.Income}}</td>
<td class="summary-value red">{{.Expense}}</td>
<td class="summary-value blue">{{.Balance}}</td>
</tr>
</table>
</div>
<h3>Detalhamento das Transações</h3>
<table class="details">
<thead>
<tr>
<th width="15%">Data</th>
<th width="45%">Descrição</th>
<th width="20%">Categoria</th>
<th width="20%" style="text-align:right;">Valor (R$)</th>
</tr>
</thead>
<tbody>
{{range .Rows}}<tr>
<td>{{.Date}}</td>
<td>{{.Description}}</td>
<td>{{.Category}}</td>
<td style="text-align:right; color: {{.Color}}; font-weight:bold;">{{.Sign}} {{.Amount}}</td>
</tr>
{{end}}</tbody>
</table>
<div class="footer">
<br/><br/><br/>
<div>
<div class="signature-line">Presidente</div>
<div class="signature-line">Tesoureiro</div>
</div>
<p style="font-size: 9pt; color: #888; margin-top: 20px;">Relatório gerado em {{.GeneratedAt}}</p>
</div>
</body>
</html>`))

// FinancialReportWord writes the month's report as a Word-compatible
// HTML document with a summary box and signature footer. The summary
// figures are the report's own totals.
func FinancialReportWord(w io.Writer, report core.Report, generatedAt time.Time) error {
	income, expense := core.Totals(report.Entries)
	balance := income.Sub(expense)

	// Detail rows read oldest first, unlike the on-screen ledger.
	entries := make([]core.LedgerEntry, len(report.Entries))
	copy(entries, report.Entries)
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.Before(entries[j].Date)
	})

	rows := make([]financialDocRow, len(entries))
	for i, e := range entries {
		sign, color := "+", template.CSS("#166534")
		if e.Type == core.Expense {
			sign, color = "-", template.CSS("#991b1b")
		}
		rows[i] = financialDocRow{
			Date:        formatDateBR(e.Date),
			Description: e.Description,
			Category:    e.Category,
			Amount:      e.Amount.DecimalComma(),
			Sign:        sign,
			Color:       color,
		}
	}

	return financialDocTemplate.Execute(w, financialDocData{
		PeriodLabel: report.Summary.Label(),
		Income:      income.String(),
		Expense:     expense.String(),
		Balance:     balance.String(),
		Rows:        rows,
		GeneratedAt: generatedAt.Format("02/01/2006 15:04"),
	})
}
