// Package snapshot encodes and decodes the exchange document used for
// export, import, and workspace autosave.
package snapshot

import (
	"encoding/json"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/Craig-TribeAI/org-chart-builder/internal/apperr"
	"github.com/Craig-TribeAI/org-chart-builder/internal/models"
)

// Version is the exchange schema version this build writes and accepts.
const Version = 1

// requiredKeys must all be present in an imported document. The manager
// map is deliberately not among them: it is reconstructed from the
// person nodes.
var requiredKeys = []string{
	"version",
	"selectedQuarter",
	"departments",
	"roleTemplates",
	"personNodes",
	"collapsedNodes",
}

// Document is the complete serialized state of one org chart.
type Document struct {
	Version         int                   `json:"version"`
	ExportDate      time.Time             `json:"exportDate"`
	CSVFileName     string                `json:"csvFileName"`
	SelectedQuarter models.Period         `json:"selectedQuarter"`
	Departments     []models.Department   `json:"departments"`
	RoleTemplates   []models.RoleTemplate `json:"roleTemplates"`
	PersonNodes     []*models.PersonNode  `json:"personNodes"`
	CollapsedNodes  []string              `json:"collapsedNodes"`
}

// New assembles a document from live state, stamping it with the
// current schema version and export time.
func New(departments []models.Department, templates []models.RoleTemplate,
	persons []*models.PersonNode, collapsed models.IDSet,
	period models.Period, csvFileName string) *Document {

	return &Document{
		Version:         Version,
		ExportDate:      time.Now().UTC(),
		CSVFileName:     csvFileName,
		SelectedQuarter: period,
		Departments:     departments,
		RoleTemplates:   templates,
		PersonNodes:     persons,
		CollapsedNodes:  collapsed.Sorted(),
	}
}

// Encode renders the document as indented JSON.
func Encode(doc *Document) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}

// Decode parses and validates an exchange document. Rejection is
// all-or-nothing: a missing required key, an unsupported version, or a
// structurally broken field fails the whole import so the caller's
// state stays untouched.
func Decode(data []byte) (*Document, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("not a JSON object: %w", apperr.ErrBadFormat)
	}
	for _, key := range requiredKeys {
		if _, ok := raw[key]; !ok {
			return nil, fmt.Errorf("missing key %q: %w", key, apperr.ErrBadFormat)
		}
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode: %v: %w", err, apperr.ErrBadFormat)
	}
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("%v: %w", err, apperr.ErrBadFormat)
	}
	return &doc, nil
}

// Validate checks the decoded document field by field.
func (d *Document) Validate() error {
	return validation.ValidateStruct(d,
		validation.Field(&d.Version, validation.Required, validation.In(Version)),
		validation.Field(&d.SelectedQuarter, validation.Required, validation.By(validPeriod)),
		validation.Field(&d.Departments, validation.Each(validation.By(validDepartment))),
		validation.Field(&d.RoleTemplates, validation.Each(validation.By(validTemplate))),
		validation.Field(&d.PersonNodes, validation.Each(validation.By(validPerson))),
	)
}

func validPeriod(value interface{}) error {
	p, _ := value.(models.Period)
	if _, err := models.ParsePeriod(string(p)); err != nil {
		return fmt.Errorf("unknown period %q", p)
	}
	return nil
}

func validDepartment(value interface{}) error {
	d, _ := value.(models.Department)
	if d.ID == "" || d.DisplayName == "" {
		return fmt.Errorf("department needs id and displayName")
	}
	return nil
}

func validTemplate(value interface{}) error {
	t, _ := value.(models.RoleTemplate)
	if t.ID == "" || t.CleanName == "" {
		return fmt.Errorf("role template needs id and cleanName")
	}
	return nil
}

func validPerson(value interface{}) error {
	p, _ := value.(*models.PersonNode)
	if p == nil || p.ID == "" {
		return fmt.Errorf("person node needs id")
	}
	return nil
}

// Assignments reconstructs the canonical manager map from the person
// nodes; the exchange format does not store it separately.
func (d *Document) Assignments() map[string]string {
	out := make(map[string]string)
	for _, p := range d.PersonNodes {
		if p.ManagerID != "" {
			out[p.ID] = p.ManagerID
		}
	}
	return out
}

// Customs returns the free-form person nodes, the only ones a restore
// carries over verbatim.
func (d *Document) Customs() []*models.PersonNode {
	var out []*models.PersonNode
	for _, p := range d.PersonNodes {
		if p.IsCustom {
			out = append(out, p)
		}
	}
	return out
}

// Collapsed returns the collapse set.
func (d *Document) Collapsed() models.IDSet {
	return models.NewIDSet(d.CollapsedNodes...)
}
