package timeline

import (
	"strings"

	"github.com/scknurr/tritium-v4-sub001/internal/domain"
)

// Canonical keys derived by Normalize when absent.
const (
	metaKeySkillName        = "skill_name"
	metaKeyOrganizationName = "organization_name"
	metaKeyProficiency      = "proficiency"
	metaKeyNotes            = "notes"
)

// NormalizedMetadata is the flat, canonical view of one record's metadata:
// every original key passed through, plus derived canonical fields, so
// downstream consumers need not know the alias variations.
type NormalizedMetadata struct {
	Fields       map[string]any       `json:"fields"`
	Description  string               `json:"description,omitempty"`
	FieldChanges []domain.FieldChange `json:"field_changes,omitempty"`
}

// Normalize flattens one record's metadata. Derived fields are added only
// when the canonical key is absent; an explicit value is never overwritten
// with a heuristic one.
func Normalize(rec domain.ActivityRecord) NormalizedMetadata {
	fields := make(map[string]any, len(rec.Metadata)+3)
	for k, v := range rec.Metadata {
		fields[k] = v
	}

	if _, ok := fields[metaKeySkillName]; !ok {
		if name, found := metaName(rec.Metadata, skillNameKeys, skillObjectKeys); found {
			fields[metaKeySkillName] = name
		}
	}
	if _, ok := fields[metaKeyOrganizationName]; !ok {
		if name, found := metaName(rec.Metadata, organizationNameKeys, organizationObjectKeys); found {
			fields[metaKeyOrganizationName] = name
		}
	}
	if _, ok := fields[metaKeyProficiency]; !ok {
		if p := resolveProficiency(rec); p != nil {
			fields[metaKeyProficiency] = *p
		}
	}

	return NormalizedMetadata{
		Fields:       fields,
		Description:  rec.Description,
		FieldChanges: rec.Changes,
	}
}

// Notes returns the free-text notes field, if present and non-empty.
func (m NormalizedMetadata) Notes() *string {
	if s, ok := m.Fields[metaKeyNotes].(string); ok {
		if s = strings.TrimSpace(s); s != "" {
			return &s
		}
	}
	return nil
}
