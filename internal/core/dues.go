package core

// PaymentFor finds a member's payment for one period. The second
// return is false when nothing was recorded.
func PaymentFor(payments []DuesPayment, memberID string, month, year int) (DuesPayment, bool) {
	for _, p := range payments {
		if p.MemberID == memberID && p.Month == month && p.Year == year {
			return p, true
		}
	}
	return DuesPayment{}, false
}

// MonthTotal sums every payment recorded against one period,
// regardless of when it was actually paid.
func MonthTotal(payments []DuesPayment, month, year int) Money {
	var total Money
	for _, p := range payments {
		if p.Month == month && p.Year == year {
			total = total.Add(p.Amount)
		}
	}
	return total
}

// MemberYearTotal sums one member's payments across a year.
func MemberYearTotal(payments []DuesPayment, memberID string, year int) Money {
	var total Money
	for _, p := range payments {
		if p.MemberID == memberID && p.Year == year {
			total = total.Add(p.Amount)
		}
	}
	return total
}

// FilterDues narrows payments to one reference period. Zero month or
// year means that dimension does not filter.
func FilterDues(payments []DuesPayment, month, year int) []DuesPayment {
	out := make([]DuesPayment, 0, len(payments))
	for _, p := range payments {
		if month != 0 && p.Month != month {
			continue
		}
		if year != 0 && p.Year != year {
			continue
		}
		out = append(out, p)
	}
	return out
}
