package core

import (
	"sort"
	"strings"
)

// Census counts members by standing. BeingHelped overlaps the other
// buckets: a member is counted there on top of their status bucket.
type Census struct {
	Paying      int `json:"paying"`
	Exempt      int `json:"exempt"`
	Inactive    int `json:"inactive"`
	BeingHelped int `json:"beingHelped"`
}

// TakeCensus tallies the member list.
func TakeCensus(members []Member) Census {
	var c Census
	for _, m := range members {
		switch m.Status {
		case StatusActivePaying:
			c.Paying++
		case StatusActiveExempt:
			c.Exempt++
		case StatusInactive:
			c.Inactive++
		}
		if m.IsBeingHelped() {
			c.BeingHelped++
		}
	}
	return c
}

// MemberFilter narrows a member list. Zero-valued fields do not
// filter; set fields combine conjunctively.
type MemberFilter struct {
	// SearchText matches case-insensitively against full name,
	// legendary number, city and neighborhood.
	SearchText string
	// Profession matches exactly.
	Profession string
	// BirthMonth is 1-12; members without a birth date never match.
	BirthMonth int
	// Status matches the member's standing exactly.
	Status MemberStatus
}

// FilterMembers returns the members satisfying every set field of f.
// The input order is preserved.
func FilterMembers(members []Member, f MemberFilter) []Member {
	out := make([]Member, 0, len(members))
	for _, m := range members {
		if !matchesFilter(m, f) {
			continue
		}
		out = append(out, m)
	}
	return out
}

func matchesFilter(m Member, f MemberFilter) bool {
	if f.SearchText != "" {
		q := strings.ToLower(f.SearchText)
		if !strings.Contains(strings.ToLower(m.FullName), q) &&
			!strings.Contains(strings.ToLower(m.LegendaryNumber), q) &&
			!strings.Contains(strings.ToLower(m.City), q) &&
			!strings.Contains(strings.ToLower(m.Neighborhood), q) {
			return false
		}
	}
	if f.Profession != "" && m.Profession != f.Profession {
		return false
	}
	if f.BirthMonth != 0 {
		if m.BirthDate.IsZero() || m.BirthDate.Month() != f.BirthMonth {
			return false
		}
	}
	if f.Status != "" && m.Status != f.Status {
		return false
	}
	return true
}

// BirthdaysInMonth lists members whose birthday falls in the given
// month, sorted by day then name.
func BirthdaysInMonth(members []Member, month int) []Member {
	out := FilterMembers(members, MemberFilter{BirthMonth: month})
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].BirthDate.Day() != out[j].BirthDate.Day() {
			return out[i].BirthDate.Day() < out[j].BirthDate.Day()
		}
		return out[i].FullName < out[j].FullName
	})
	return out
}

// ProfessionCount is one row of the profession network view.
type ProfessionCount struct {
	Profession string `json:"profession"`
	Count      int    `json:"count"`
}

// ProfessionCounts tallies members per profession, most common first.
// Members with no profession recorded are grouped under "Não informado".
func ProfessionCounts(members []Member) []ProfessionCount {
	counts := make(map[string]int)
	for _, m := range members {
		p := m.Profession
		if p == "" {
			p = "Não informado"
		}
		counts[p]++
	}
	out := make([]ProfessionCount, 0, len(counts))
	for p, n := range counts {
		out = append(out, ProfessionCount{Profession: p, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Profession < out[j].Profession
	})
	return out
}

// MembersByProfession returns the members exercising the given
// profession, in input order.
func MembersByProfession(members []Member, profession string) []Member {
	return FilterMembers(members, MemberFilter{Profession: profession})
}

// AssistanceStats summarizes the assistance program.
type AssistanceStats struct {
	CurrentlyHelped int `json:"currentlyHelped"`
	EverHelped      int `json:"everHelped"`
	OpenCases       int `json:"openCases"`
	ClosedCases     int `json:"closedCases"`
}

// TakeAssistanceStats tallies assistance records across the roster.
func TakeAssistanceStats(members []Member) AssistanceStats {
	var s AssistanceStats
	for _, m := range members {
		if len(m.AssistanceHistory) > 0 {
			s.EverHelped++
		}
		if m.IsBeingHelped() {
			s.CurrentlyHelped++
		}
		for _, r := range m.AssistanceHistory {
			if r.IsOngoing() {
				s.OpenCases++
			} else {
				s.ClosedCases++
			}
		}
	}
	return s
}

// AssistedMembers lists members with at least one ongoing assistance
// record, in input order.
func AssistedMembers(members []Member) []Member {
	out := make([]Member, 0)
	for _, m := range members {
		if m.IsBeingHelped() {
			out = append(out, m)
		}
	}
	return out
}
