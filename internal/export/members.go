package export

import (
	"encoding/csv"
	"fmt"
	"html/template"
	"io"
	"strconv"
	"strings"

	"legendarios/internal/core"
)

var memberCSVHeaders = []string{
	"Nº Legendário",
	"TOP",
	"Pista Conquista",
	"Data Conquista",
	"Nome",
	"Status",
	"Motivo Inatividade",
	"Profissão",
	"Bairro",
	"Cidade",
	"Estado",
	"Telefone",
	"Email",
	"Telefone Esposa",
	"Data Nasc.",
	"Comunidade Ativo",
	"Igreja",
	"Pastor",
	"Tel. Pastor",
	"Filhos (Qtd)",
	"Nomes Filhos",
	"Histórico de Ajuda",
}

// MembersCSV writes the full roster as CSV with Portuguese headers.
func MembersCSV(w io.Writer, members []core.Member) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(memberCSVHeaders); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, m := range members {
		row := []string{
			m.LegendaryNumber,
			m.TopNumber,
			m.TrackName,
			m.ConquestDate.String(),
			m.FullName,
			StatusLabel(m.Status),
			m.InactiveReason,
			m.Profession,
			m.Neighborhood,
			m.City,
			m.State,
			m.Phone,
			m.Email,
			m.SpousePhone,
			m.BirthDate.String(),
			simNao(m.IsCommunityActive),
			m.ChurchName,
			m.PastorName,
			m.PastorPhone,
			strconv.Itoa(len(m.Children)),
			childrenSummary(m.Children),
			assistanceSummary(m.AssistanceHistory),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func simNao(b bool) string {
	if b {
		return "Sim"
	}
	return "Não"
}

func childrenSummary(children []core.Child) string {
	parts := make([]string, len(children))
	for i, c := range children {
		parts[i] = fmt.Sprintf("%s (%s)", c.Name, c.Age)
	}
	return strings.Join(parts, "; ")
}

func assistanceSummary(history []core.AssistanceRecord) string {
	parts := make([]string, len(history))
	for i, r := range history {
		end := "Atual"
		if !r.IsOngoing() {
			end = r.EndDate.String()
		}
		parts[i] = fmt.Sprintf("%s (%s - %s)", r.Description, r.StartDate, end)
	}
	return strings.Join(parts, " | ")
}

var membersDocTemplate = template.Must(template.New("membersDoc").Funcs(template.FuncMap{
	"statusLabel": StatusLabel,
	"orDash":      orDash,
}).Parse(`<html xmlns:o='urn:schemas-microsoft-com:office:office' xmlns:w='urn:schemas-microsoft-com:office:word' xmlns='http://www.w3.org/TR/REC-html40'>
<head><meta charset='utf-8'><title>Relatório Legendários</title></head>
<body>
<h1>Relatório de Membros - Legendários</h1>
<table border="1" style="border-collapse: collapse; width: 100%; font-size: 12px;">
<thead>
<tr style="background-color: #f0f0f0;">
<th>Nº / Conquista</th>
<th>Nome / Status</th>
<th>Profissão</th>
<th>Contato / Endereço</th>
<th>Família</th>
<th>Igreja</th>
<th>Assistência / Ajuda</th>
</tr>
</thead>
<tbody>
{{range .}}<tr>
<td><b>{{.LegendaryNumber}}</b>{{if or .TopNumber .TrackName}}<br/><small>TOP: {{orDash .TopNumber}} | Pista: {{orDash .TrackName}}<br/>Data: {{orDash .ConquestDate.String}}</small>{{end}}</td>
<td><b>{{.FullName}}</b><br/>{{statusLabel .Status}}{{if .InactiveReason}}<br/><i>Motivo: {{.InactiveReason}}</i>{{end}}<br/>{{if .IsCommunityActive}}(Comunidade Ativa){{else}}(Comunidade Inativa){{end}}</td>
<td>{{.Profession}}</td>
<td>{{.Phone}}<br/>{{if .Email}}Email: {{.Email}}<br/>{{end}}{{.Address}}<br/>{{if .Neighborhood}}Bairro: {{.Neighborhood}}<br/>{{end}}{{.City}}{{if .State}} - {{.State}}{{end}}</td>
<td>Esposa: {{orDash .SpouseName}}<br/>Tel Esposa: {{orDash .SpousePhone}}{{if .Children}}<br/>Filhos: {{range $i, $c := .Children}}{{if $i}}, {{end}}{{$c.Name}} ({{$c.Age}}){{end}}{{end}}</td>
<td>{{orDash .ChurchName}}<br/>Pr. {{orDash .PastorName}} ({{orDash .PastorPhone}})</td>
<td>{{if .AssistanceHistory}}<ul style="margin:0; padding-left:15px;">{{range .AssistanceHistory}}<li>{{.Description}} ({{if .IsOngoing}}<b>Vigente</b>{{else}}Encerrado{{end}})</li>{{end}}</ul>{{else}}Nenhuma{{end}}</td>
</tr>
{{end}}</tbody>
</table>
</body></html>`))

// MembersWord writes the roster as an HTML document Word opens
// natively.
func MembersWord(w io.Writer, members []core.Member) error {
	return membersDocTemplate.Execute(w, members)
}
