package core

import "testing"

func censusRoster() []Member {
	return []Member{
		{ID: "m1", FullName: "João Silva", LegendaryNumber: "L-001", City: "Campinas", Neighborhood: "Centro",
			Profession: "Engenheiro", BirthDate: NewDate(1985, 3, 12), Status: StatusActivePaying},
		{ID: "m2", FullName: "Pedro Santos", LegendaryNumber: "L-002", City: "Campinas", Neighborhood: "Taquaral",
			Profession: "Professor", BirthDate: NewDate(1990, 3, 3), Status: StatusActiveExempt,
			AssistanceHistory: []AssistanceRecord{{ID: "a1", Description: "Cesta básica", StartDate: NewDate(2024, 1, 5)}}},
		{ID: "m3", FullName: "Carlos Souza", LegendaryNumber: "L-003", City: "Valinhos",
			Profession: "Engenheiro", BirthDate: NewDate(1978, 7, 20), Status: StatusInactive, InactiveReason: "Mudou de cidade",
			AssistanceHistory: []AssistanceRecord{{ID: "a2", Description: "Auxílio aluguel", StartDate: NewDate(2023, 2, 1), EndDate: NewDate(2023, 8, 1)}}},
		{ID: "m4", FullName: "Marcos Lima", LegendaryNumber: "L-004", City: "Campinas", Status: StatusActivePaying},
	}
}

func TestTakeCensus(t *testing.T) {
	c := TakeCensus(censusRoster())
	want := Census{Paying: 2, Exempt: 1, Inactive: 1, BeingHelped: 1}
	if c != want {
		t.Errorf("TakeCensus = %+v, want %+v", c, want)
	}
}

func TestFilterMembers(t *testing.T) {
	roster := censusRoster()
	tests := []struct {
		name    string
		filter  MemberFilter
		wantIDs []string
	}{
		{name: "no filter", filter: MemberFilter{}, wantIDs: []string{"m1", "m2", "m3", "m4"}},
		{name: "search by name", filter: MemberFilter{SearchText: "joão"}, wantIDs: []string{"m1"}},
		{name: "search by number", filter: MemberFilter{SearchText: "l-003"}, wantIDs: []string{"m3"}},
		{name: "search by city", filter: MemberFilter{SearchText: "valinhos"}, wantIDs: []string{"m3"}},
		{name: "search by neighborhood", filter: MemberFilter{SearchText: "taquaral"}, wantIDs: []string{"m2"}},
		{name: "profession exact", filter: MemberFilter{Profession: "Engenheiro"}, wantIDs: []string{"m1", "m3"}},
		{name: "profession partial does not match", filter: MemberFilter{Profession: "Engen"}, wantIDs: []string{}},
		{name: "birth month", filter: MemberFilter{BirthMonth: 3}, wantIDs: []string{"m1", "m2"}},
		{name: "birth month skips missing birth date", filter: MemberFilter{BirthMonth: 1}, wantIDs: []string{}},
		{name: "status", filter: MemberFilter{Status: StatusInactive}, wantIDs: []string{"m3"}},
		{name: "conjunctive", filter: MemberFilter{SearchText: "campinas", Profession: "Engenheiro"}, wantIDs: []string{"m1"}},
		{name: "no match", filter: MemberFilter{SearchText: "inexistente"}, wantIDs: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterMembers(roster, tt.filter)
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("got %d members, want %d", len(got), len(tt.wantIDs))
			}
			for i, m := range got {
				if m.ID != tt.wantIDs[i] {
					t.Errorf("member[%d] = %s, want %s", i, m.ID, tt.wantIDs[i])
				}
			}
		})
	}
}

func TestBirthdaysInMonth(t *testing.T) {
	got := BirthdaysInMonth(censusRoster(), 3)
	if len(got) != 2 {
		t.Fatalf("got %d birthdays, want 2", len(got))
	}
	// Day 3 (Pedro) before day 12 (João).
	if got[0].ID != "m2" || got[1].ID != "m1" {
		t.Errorf("order = %s, %s; want m2, m1", got[0].ID, got[1].ID)
	}
}

func TestProfessionCounts(t *testing.T) {
	counts := ProfessionCounts(censusRoster())
	byName := make(map[string]int, len(counts))
	for _, c := range counts {
		byName[c.Profession] = c.Count
	}
	if byName["Engenheiro"] != 2 || byName["Professor"] != 1 {
		t.Errorf("counts = %v", counts)
	}
	if byName["Não informado"] != 1 {
		t.Errorf("missing profession bucket = %d, want 1", byName["Não informado"])
	}
	if counts[0].Profession != "Engenheiro" {
		t.Errorf("most common first, got %q", counts[0].Profession)
	}
}

func TestAssistance(t *testing.T) {
	roster := censusRoster()
	s := TakeAssistanceStats(roster)
	want := AssistanceStats{CurrentlyHelped: 1, EverHelped: 2, OpenCases: 1, ClosedCases: 1}
	if s != want {
		t.Errorf("TakeAssistanceStats = %+v, want %+v", s, want)
	}

	helped := AssistedMembers(roster)
	if len(helped) != 1 || helped[0].ID != "m2" {
		t.Errorf("AssistedMembers = %v", helped)
	}
}
