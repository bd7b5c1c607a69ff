// Package core holds the pure domain of the legendarios record-keeper:
// members, monthly dues, cash transactions and the derived ledger.
// Nothing here touches storage or transport.
package core

import (
	"errors"
	"strings"
)

const (
	StatusActivePaying MemberStatus = "active_paying"
	StatusActiveExempt MemberStatus = "active_exempt"
	StatusInactive     MemberStatus = "inactive"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

type (
	MemberStatus    string
	TransactionType string

	Child struct {
		Name string `json:"name"`
		Age  string `json:"age"`
	}

	// AssistanceRecord tracks one round of help given to a member.
	// An absent EndDate means the assistance is still ongoing.
	AssistanceRecord struct {
		ID          string `json:"id"`
		Description string `json:"description"`
		StartDate   Date   `json:"startDate"`
		EndDate     Date   `json:"endDate,omitempty"`
	}

	Member struct {
		ID              string `json:"id"`
		LegendaryNumber string `json:"legendaryNumber"`

		// Conquest details
		ConquestDate Date   `json:"conquestDate,omitempty"`
		TopNumber    string `json:"topNumber,omitempty"`
		TrackName    string `json:"trackName,omitempty"`

		FullName     string `json:"fullName"`
		BirthDate    Date   `json:"birthDate"`
		Profession   string `json:"profession"`
		Address      string `json:"address"`
		Neighborhood string `json:"neighborhood,omitempty"`
		City         string `json:"city"`
		State        string `json:"state,omitempty"`
		Phone        string `json:"phone"`
		Email        string `json:"email,omitempty"`

		// Family
		SpouseName  string  `json:"spouseName,omitempty"`
		SpousePhone string  `json:"spousePhone,omitempty"`
		Children    []Child `json:"children"`

		// Church / community
		ChurchName        string `json:"churchName,omitempty"`
		PastorName        string `json:"pastorName,omitempty"`
		PastorPhone       string `json:"pastorPhone,omitempty"`
		IsCommunityActive bool   `json:"isCommunityActive"`

		Status         MemberStatus `json:"status"`
		InactiveReason string       `json:"inactiveReason,omitempty"`

		AssistanceHistory []AssistanceRecord `json:"assistanceHistory"`

		SocioEconomicNotes string `json:"socioEconomicNotes,omitempty"`
		JoinedDate         Date   `json:"joinedDate"`
	}

	// DuesPayment records one month's dues for one member. MemberID is a
	// weak reference: the member may have been deleted since.
	DuesPayment struct {
		ID       string `json:"id"`
		MemberID string `json:"memberId"`
		Month    int    `json:"month"` // 1-12
		Year     int    `json:"year"`
		Amount   Money  `json:"amount"`
		PaidDate Date   `json:"paidDate"`
	}

	// Transaction is any manual cash movement not tied to dues.
	Transaction struct {
		ID          string          `json:"id"`
		Description string          `json:"description"`
		Amount      Money           `json:"amount"`
		Type        TransactionType `json:"type"`
		Category    string          `json:"category"`
		Date        Date            `json:"date"`
		MemberID    string          `json:"memberId,omitempty"`
	}
)

var (
	ErrInvalidMonth           = errors.New("invalid month")
	ErrInvalidYear            = errors.New("invalid year")
	ErrInvalidAmount          = errors.New("invalid amount")
	ErrInvalidStatus          = errors.New("invalid member status")
	ErrInvalidType            = errors.New("invalid transaction type")
	ErrEmptyDescription       = errors.New("empty description")
	ErrEmptyFullName          = errors.New("empty full name")
	ErrEmptyLegendaryNumber   = errors.New("empty legendary number")
	ErrInactiveReasonRequired = errors.New("inactive status requires a reason")
)

// IsOngoing reports whether the assistance has no end date yet.
func (r AssistanceRecord) IsOngoing() bool {
	return r.EndDate.IsZero()
}

// IsBeingHelped reports whether the member has at least one ongoing
// assistance record, independent of membership status.
func (m Member) IsBeingHelped() bool {
	for _, r := range m.AssistanceHistory {
		if r.IsOngoing() {
			return true
		}
	}
	return false
}

func (s MemberStatus) Valid() bool {
	switch s {
	case StatusActivePaying, StatusActiveExempt, StatusInactive:
		return true
	}
	return false
}

func (t TransactionType) Valid() bool {
	return t == Income || t == Expense
}

func (m Member) Validate() error {
	if strings.TrimSpace(m.FullName) == "" {
		return ErrEmptyFullName
	}
	if strings.TrimSpace(m.LegendaryNumber) == "" {
		return ErrEmptyLegendaryNumber
	}
	if !m.Status.Valid() {
		return ErrInvalidStatus
	}
	if m.Status == StatusInactive && strings.TrimSpace(m.InactiveReason) == "" {
		return ErrInactiveReasonRequired
	}
	return nil
}

func (p DuesPayment) Validate() error {
	if p.Month < 1 || p.Month > 12 {
		return ErrInvalidMonth
	}
	if p.Year < 1900 || p.Year > 9999 {
		return ErrInvalidYear
	}
	if err := p.Amount.Validate(); err != nil {
		return err
	}
	return nil
}

func (t Transaction) Validate() error {
	if len(strings.TrimSpace(t.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if !t.Type.Valid() {
		return ErrInvalidType
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	return nil
}
