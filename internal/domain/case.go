package domain

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Section identifies one of the four fixed attachment categories of a case.
type Section string

const (
	SectionDrafts         Section = "drafts"
	SectionOpponentDrafts Section = "opponentDrafts"
	SectionCourtOrders    Section = "courtOrders"
	SectionEvidence       Section = "evidence"
)

// SectionOrder is the fixed order in which sections are scanned when an
// attachment is looked up by reference. First match wins.
var SectionOrder = []Section{
	SectionDrafts,
	SectionOpponentDrafts,
	SectionCourtOrders,
	SectionEvidence,
}

// IsValid reports whether s is one of the four known sections.
func (s Section) IsValid() bool {
	switch s {
	case SectionDrafts, SectionOpponentDrafts, SectionCourtOrders, SectionEvidence:
		return true
	}
	return false
}

// Status of a case. Any status may transition to any other; a completed
// case can be reopened.
type Status string

const (
	StatusPending   Status = "pending"
	StatusHearing   Status = "hearing"
	StatusCompleted Status = "completed"
)

// IsValid reports whether st is a known case status.
func (st Status) IsValid() bool {
	switch st {
	case StatusPending, StatusHearing, StatusCompleted:
		return true
	}
	return false
}

// Parties a case can be filed on behalf of.
const (
	PartyPetitioner  = "Petitioner"
	PartyRespondent  = "Respondent"
	PartyComplainant = "Complainant"
	PartyAccused     = "Accused"
	PartyPlaintiff   = "Plaintiff"
	PartyDHR         = "DHR"
	PartyJDR         = "JDR"
	PartyAppellant   = "Appellant"
)

// OnBehalfOfValues lists the accepted values for Case.OnBehalfOf.
var OnBehalfOfValues = []interface{}{
	PartyPetitioner, PartyRespondent, PartyComplainant, PartyAccused,
	PartyPlaintiff, PartyDHR, PartyJDR, PartyAppellant,
}

// Case is the central legal-matter aggregate. It is owned by exactly one
// user and carries four named sections of embedded attachments. Uniqueness
// of (caseNo, userId) is enforced by a compound index plus a service-level
// pre-check.
type Case struct {
	ID                       primitive.ObjectID       `bson:"_id,omitempty" json:"id"`
	Title                    string                   `bson:"title" json:"title"`
	CaseNo                   string                   `bson:"caseNo" json:"caseNo"`
	Type                     string                   `bson:"type" json:"type"`
	Status                   Status                   `bson:"status" json:"status"`
	CourtName                string                   `bson:"courtName" json:"courtName"`
	NextHearing              time.Time                `bson:"nextHearing" json:"nextHearing"`
	PartyName                string                   `bson:"partyName" json:"partyName"`
	Respondent               string                   `bson:"respondent" json:"respondent"`
	Lawyer                   string                   `bson:"lawyer" json:"lawyer"`
	ContactNumber            string                   `bson:"contactNumber" json:"contactNumber"`
	AdvocateContactNumber    string                   `bson:"advocateContactNumber,omitempty" json:"advocateContactNumber,omitempty"`
	AdversePartyAdvocateName string                   `bson:"adversePartyAdvocateName,omitempty" json:"adversePartyAdvocateName,omitempty"`
	CaseYear                 int                      `bson:"caseYear" json:"caseYear"`
	OnBehalfOf               string                   `bson:"onBehalfOf" json:"onBehalfOf"`
	Description              string                   `bson:"description,omitempty" json:"description,omitempty"`
	Sections                 map[Section][]Attachment `bson:"sections" json:"sections"`
	UserID                   primitive.ObjectID       `bson:"userId" json:"userId"`
	CreatedAt                time.Time                `bson:"createdAt" json:"createdAt"`
	UpdatedAt                time.Time                `bson:"updatedAt" json:"updatedAt"`
}

// EnsureSections guarantees every section key exists so that callers can
// index the map without nil checks. Loaded documents from older writes may
// miss keys.
func (c *Case) EnsureSections() {
	if c.Sections == nil {
		c.Sections = make(map[Section][]Attachment, len(SectionOrder))
	}
	for _, s := range SectionOrder {
		if c.Sections[s] == nil {
			c.Sections[s] = []Attachment{}
		}
	}
}

// Validate checks the required scalar fields and closed enumerations.
func (c *Case) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Title, validation.Required),
		validation.Field(&c.CaseNo, validation.Required),
		validation.Field(&c.Type, validation.Required),
		validation.Field(&c.Status, validation.Required, validation.In(StatusPending, StatusHearing, StatusCompleted)),
		validation.Field(&c.CourtName, validation.Required),
		validation.Field(&c.NextHearing, validation.Required),
		validation.Field(&c.PartyName, validation.Required),
		validation.Field(&c.Respondent, validation.Required),
		validation.Field(&c.Lawyer, validation.Required),
		validation.Field(&c.ContactNumber, validation.Required),
		validation.Field(&c.CaseYear, validation.Required, validation.Min(1900), validation.Max(2200)),
		validation.Field(&c.OnBehalfOf, validation.Required, validation.In(OnBehalfOfValues...)),
	)
}
