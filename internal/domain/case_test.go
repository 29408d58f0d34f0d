package domain

import (
	"testing"
	"time"
)

func validCase() *Case {
	return &Case{
		Title:         "State vs Sharma",
		CaseNo:        "CRM/101/2024",
		Type:          "Criminal",
		Status:        StatusPending,
		CourtName:     "District Court",
		NextHearing:   time.Now().Add(48 * time.Hour),
		PartyName:     "Rakesh Sharma",
		Respondent:    "State",
		Lawyer:        "A. Mehta",
		ContactNumber: "9876543210",
		CaseYear:      2024,
		OnBehalfOf:    PartyPetitioner,
	}
}

func TestCaseValidate(t *testing.T) {
	if err := validCase().Validate(); err != nil {
		t.Fatalf("expected valid case: %v", err)
	}

	c := validCase()
	c.Title = ""
	if err := c.Validate(); err == nil {
		t.Error("missing title should fail")
	}

	c = validCase()
	c.Status = Status("disposed")
	if err := c.Validate(); err == nil {
		t.Error("unknown status should fail")
	}

	c = validCase()
	c.OnBehalfOf = "Bystander"
	if err := c.Validate(); err == nil {
		t.Error("unknown onBehalfOf should fail")
	}

	c = validCase()
	c.CaseYear = 1492
	if err := c.Validate(); err == nil {
		t.Error("caseYear below range should fail")
	}
	c.CaseYear = 2500
	if err := c.Validate(); err == nil {
		t.Error("caseYear above range should fail")
	}
}

func TestEnsureSections(t *testing.T) {
	c := &Case{}
	c.EnsureSections()
	if len(c.Sections) != len(SectionOrder) {
		t.Fatalf("expected %d sections, got %d", len(SectionOrder), len(c.Sections))
	}
	for _, s := range SectionOrder {
		if c.Sections[s] == nil {
			t.Errorf("section %q should be initialized", s)
		}
	}

	// Existing content is left alone.
	c.Sections[SectionDrafts] = append(c.Sections[SectionDrafts], Attachment{Name: "draft"})
	c.EnsureSections()
	if len(c.Sections[SectionDrafts]) != 1 {
		t.Error("EnsureSections must not clear existing attachments")
	}
}

func TestSectionAndStatusValidity(t *testing.T) {
	for _, s := range SectionOrder {
		if !s.IsValid() {
			t.Errorf("section %q should be valid", s)
		}
	}
	if Section("misc").IsValid() {
		t.Error("unknown section should be invalid")
	}

	for _, st := range []Status{StatusPending, StatusHearing, StatusCompleted} {
		if !st.IsValid() {
			t.Errorf("status %q should be valid", st)
		}
	}
	if Status("disposed").IsValid() {
		t.Error("unknown status should be invalid")
	}
}
