package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"legendarios/internal/core"
)

func exportRoster() []core.Member {
	return []core.Member{
		{
			ID: "m1", LegendaryNumber: "L-001", FullName: "João Silva",
			Profession: "Engenheiro", City: "Campinas", Phone: "19 99999-0001",
			BirthDate: core.NewDate(1985, 3, 12), Status: core.StatusActivePaying,
			IsCommunityActive: true,
			Children:          []core.Child{{Name: "Ana", Age: "7"}, {Name: "Lucas", Age: "4"}},
		},
		{
			ID: "m2", LegendaryNumber: "L-002", FullName: "Carlos, o \"Líder\"",
			Profession: "Professor", City: "Valinhos", Status: core.StatusInactive,
			InactiveReason: "Mudou de cidade",
			AssistanceHistory: []core.AssistanceRecord{
				{ID: "a1", Description: "Cesta básica", StartDate: core.NewDate(2024, 1, 5)},
			},
		},
	}
}

func TestMembersCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := MembersCSV(&buf, exportRoster()); err != nil {
		t.Fatal(err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want header + 2 rows", len(records))
	}
	if records[0][0] != "Nº Legendário" || records[0][4] != "Nome" {
		t.Errorf("headers = %v", records[0][:5])
	}

	joao := records[1]
	if joao[4] != "João Silva" || joao[5] != "Ativo (Pagante)" {
		t.Errorf("row = %v", joao)
	}
	if joao[15] != "Sim" {
		t.Errorf("community flag = %q", joao[15])
	}
	if joao[19] != "2" || joao[20] != "Ana (7); Lucas (4)" {
		t.Errorf("children columns = %q, %q", joao[19], joao[20])
	}

	carlos := records[2]
	if carlos[4] != `Carlos, o "Líder"` {
		t.Errorf("quoted name mangled: %q", carlos[4])
	}
	if carlos[6] != "Mudou de cidade" {
		t.Errorf("inactive reason = %q", carlos[6])
	}
	if !strings.Contains(carlos[21], "Atual") {
		t.Errorf("ongoing assistance should read Atual: %q", carlos[21])
	}
}

func TestMembersWord(t *testing.T) {
	var buf bytes.Buffer
	if err := MembersWord(&buf, exportRoster()); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"Relatório de Membros - Legendários",
		"João Silva",
		"Ativo (Pagante)",
		"Motivo: Mudou de cidade",
		"<b>Vigente</b>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("document missing %q", want)
		}
	}
}

func reportFixture() core.Report {
	ledger := core.BuildLedger(
		[]core.DuesPayment{
			{ID: "p1", MemberID: "m1", Month: 3, Year: 2024,
				Amount: core.Money{Cents: 5000}, PaidDate: core.NewDate(2024, 3, 10)},
		},
		[]core.Transaction{
			{ID: "t1", Description: "Compra de materiais", Amount: core.Money{Cents: 3000},
				Type: core.Expense, Category: "Materiais", Date: core.NewDate(2024, 3, 20)},
		},
		[]core.Member{{ID: "m1", FullName: "João Silva", LegendaryNumber: "L-001", Status: core.StatusActivePaying}},
	)
	return core.ReportForPeriod(ledger, 3, 2024)
}

func TestFinancialReportCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := FinancialReportCSV(&buf, reportFixture()); err != nil {
		t.Fatal(err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want header + 2 rows", len(records))
	}
	if got := strings.Join(records[0], ","); got != "Data,Descrição,Categoria,Tipo,Valor" {
		t.Errorf("headers = %q", got)
	}

	// Ledger order: newest first.
	if records[1][3] != "Saída" || records[1][4] != "30,00" {
		t.Errorf("expense row = %v", records[1])
	}
	if records[2][3] != "Entrada" || records[2][4] != "50,00" {
		t.Errorf("income row = %v", records[2])
	}
}

func TestFinancialReportWord(t *testing.T) {
	var buf bytes.Buffer
	generated := time.Date(2024, 4, 1, 9, 30, 0, 0, time.UTC)
	if err := FinancialReportWord(&buf, reportFixture(), generated); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"Relatório Financeiro Mensal - Março/2024",
		"R$ 50,00",
		"R$ 30,00",
		"R$ 20,00",
		"Tesoureiro",
		"01/04/2024 09:30",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("document missing %q", want)
		}
	}

	// Detail rows run oldest first.
	dues := strings.Index(out, "10/03/2024")
	exp := strings.Index(out, "20/03/2024")
	if dues == -1 || exp == -1 || dues > exp {
		t.Errorf("detail rows out of order: dues at %d, expense at %d", dues, exp)
	}
}
