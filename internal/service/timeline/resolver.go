package timeline

import (
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/scknurr/tritium-v4-sub001/internal/domain"
)

// Metadata alias chains. Producers are inconsistent about key naming, so
// each canonical field is chased through its known flat variants and then
// through the nested object form ({"skill": {"id": ..., "name": ...}}).
var (
	skillIDKeys     = []string{"skill_id", "skillId"}
	skillNameKeys   = []string{"skill_name", "skillName"}
	skillObjectKeys = []string{"skill"}

	organizationIDKeys     = []string{"customer_id", "customerId", "organization_id", "organizationId"}
	organizationNameKeys   = []string{"customer_name", "customerName", "organization_name", "organizationName"}
	organizationObjectKeys = []string{"customer", "organization"}

	userIDKeys     = []string{"user_id", "userId"}
	userNameKeys   = []string{"user_name", "userName"}
	userObjectKeys = []string{"user"}

	proficiencyKeys = []string{"proficiency", "proficiency_level", "level"}
)

// Display names for refs whose id resolved but whose directory row is gone.
const (
	unknownSkillName        = "Unknown Skill"
	unknownOrganizationName = "Unknown Organization"
)

// metaCandidates collects the values present under any flat key, then
// under object[sub] for any object key, in chain order.
func metaCandidates(meta map[string]any, flat []string, objects []string, sub string) []any {
	if len(meta) == 0 {
		return nil
	}
	var out []any
	for _, k := range flat {
		if v, ok := meta[k]; ok && v != nil {
			out = append(out, v)
		}
	}
	for _, k := range objects {
		obj, ok := meta[k].(map[string]any)
		if !ok {
			continue
		}
		if v, ok := obj[sub]; ok && v != nil {
			out = append(out, v)
		}
	}
	return out
}

// metaName returns the first non-empty name string along the alias chain.
func metaName(meta map[string]any, flat []string, objects []string) (string, bool) {
	for _, v := range metaCandidates(meta, flat, objects, "name") {
		if s, ok := v.(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				return s, true
			}
		}
	}
	return "", false
}

// metaUUID returns the first parseable id along the alias chain. Ids
// arrive as UUID text; anything else (numbers, malformed strings) falls
// through the chain rather than erroring.
func metaUUID(meta map[string]any, flat []string, objects []string) (uuid.UUID, bool) {
	for _, v := range metaCandidates(meta, flat, objects, "id") {
		s, ok := v.(string)
		if !ok {
			continue
		}
		id, err := uuid.Parse(strings.TrimSpace(s))
		if err == nil && id != uuid.Nil {
			return id, true
		}
	}
	return uuid.Nil, false
}

// resolveActor looks the actor up in the batch-fetched user directory.
func resolveActor(actorID *uuid.UUID, users map[uuid.UUID]domain.User) domain.Actor {
	if actorID == nil {
		return domain.Actor{DisplayName: domain.UnknownUserName}
	}
	u, ok := users[*actorID]
	if !ok {
		return domain.Actor{ID: *actorID, DisplayName: domain.UnknownUserName}
	}
	return domain.Actor{ID: u.ID, DisplayName: u.DisplayName()}
}

// resolveProficiency chases the proficiency aliases, then the field-change
// entries, then gives up.
func resolveProficiency(rec domain.ActivityRecord) *string {
	for _, v := range metaCandidates(rec.Metadata, proficiencyKeys, nil, "") {
		if s, ok := v.(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				return &s
			}
		}
	}
	for _, ch := range rec.Changes {
		if !slices.Contains(proficiencyKeys, ch.Field) {
			continue
		}
		if s, ok := ch.NewValue.(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				return &s
			}
		}
	}
	return nil
}

// subjectID returns the record's entity id when its subject type matches.
func subjectID(rec domain.ActivityRecord, et domain.EntityType) *uuid.UUID {
	if canonicalEntityType(rec.EntityType) == et && rec.EntityID != nil {
		return rec.EntityID
	}
	return nil
}

// resolveRelatedSkill applies the three-tier fallback: subject id, then
// metadata id aliases, then metadata name aliases (placeholder), then for
// skill-application events a last-resort pull from the description text.
func resolveRelatedSkill(rec domain.ActivityRecord, kind domain.EventKind, skills map[uuid.UUID]domain.Skill) *domain.SkillRef {
	if id := subjectID(rec, domain.EntityTypeSkill); id != nil {
		return skillRefByID(*id, rec, skills)
	}
	if id, ok := metaUUID(rec.Metadata, skillIDKeys, skillObjectKeys); ok {
		return skillRefByID(id, rec, skills)
	}
	if name, ok := metaName(rec.Metadata, skillNameKeys, skillObjectKeys); ok {
		return &domain.SkillRef{ID: uuid.Nil, Name: name, Proficiency: resolveProficiency(rec)}
	}
	if kind.IsSkillApplicationKind() {
		if name := skillNameFromDescription(rec.Description); name != "" {
			return &domain.SkillRef{ID: uuid.Nil, Name: name, Proficiency: resolveProficiency(rec)}
		}
	}
	return nil
}

func skillRefByID(id uuid.UUID, rec domain.ActivityRecord, skills map[uuid.UUID]domain.Skill) *domain.SkillRef {
	ref := &domain.SkillRef{ID: id, Proficiency: resolveProficiency(rec)}
	if sk, ok := skills[id]; ok {
		ref.Name = sk.Name
	} else if name, ok := metaName(rec.Metadata, skillNameKeys, skillObjectKeys); ok {
		ref.Name = name
	} else {
		ref.Name = unknownSkillName
	}
	return ref
}

// resolveRelatedOrganization mirrors resolveRelatedSkill for customers.
func resolveRelatedOrganization(rec domain.ActivityRecord, kind domain.EventKind, customers map[uuid.UUID]domain.Customer) *domain.OrganizationRef {
	if id := subjectID(rec, domain.EntityTypeCustomer); id != nil {
		return organizationRefByID(*id, rec, customers)
	}
	if id, ok := metaUUID(rec.Metadata, organizationIDKeys, organizationObjectKeys); ok {
		return organizationRefByID(id, rec, customers)
	}
	if name, ok := metaName(rec.Metadata, organizationNameKeys, organizationObjectKeys); ok {
		return &domain.OrganizationRef{ID: uuid.Nil, Name: name}
	}
	if kind.IsSkillApplicationKind() {
		if name := organizationNameFromDescription(rec.Description); name != "" {
			return &domain.OrganizationRef{ID: uuid.Nil, Name: name}
		}
	}
	return nil
}

func organizationRefByID(id uuid.UUID, rec domain.ActivityRecord, customers map[uuid.UUID]domain.Customer) *domain.OrganizationRef {
	ref := &domain.OrganizationRef{ID: id}
	if c, ok := customers[id]; ok {
		ref.Name = c.Name
	} else if name, ok := metaName(rec.Metadata, organizationNameKeys, organizationObjectKeys); ok {
		ref.Name = name
	} else {
		ref.Name = unknownOrganizationName
	}
	return ref
}

// resolveRelatedUser resolves a second user involved in the event. The
// caller suppresses the ref when it resolves to the actor.
func resolveRelatedUser(rec domain.ActivityRecord, users map[uuid.UUID]domain.User) *domain.UserRef {
	if id := subjectID(rec, domain.EntityTypeProfile); id != nil {
		return userRefByID(*id, rec, users)
	}
	if id, ok := metaUUID(rec.Metadata, userIDKeys, userObjectKeys); ok {
		return userRefByID(id, rec, users)
	}
	if name, ok := metaName(rec.Metadata, userNameKeys, userObjectKeys); ok {
		return &domain.UserRef{ID: uuid.Nil, DisplayName: name}
	}
	return nil
}

func userRefByID(id uuid.UUID, rec domain.ActivityRecord, users map[uuid.UUID]domain.User) *domain.UserRef {
	ref := &domain.UserRef{ID: id}
	if u, ok := users[id]; ok {
		ref.DisplayName = u.DisplayName()
	} else if name, ok := metaName(rec.Metadata, userNameKeys, userObjectKeys); ok {
		ref.DisplayName = name
	} else {
		ref.DisplayName = domain.UnknownUserName
	}
	return ref
}

const descriptionPunct = `.,:;!?"'()`

// skillNameFromDescription pulls a skill name out of free text, taking the
// token after "applied" or after "skill". Lossy; only the last resort for
// skill-application events.
func skillNameFromDescription(desc string) string {
	fields := strings.Fields(desc)
	for i, f := range fields {
		w := strings.ToLower(strings.Trim(f, descriptionPunct))
		if w != "applied" && w != "skill" {
			continue
		}
		if i+1 >= len(fields) {
			continue
		}
		next := strings.Trim(fields[i+1], descriptionPunct)
		if next == "" || strings.EqualFold(next, "at") {
			continue
		}
		return next
	}
	return ""
}

// organizationNameFromDescription takes everything after the final " at ".
func organizationNameFromDescription(desc string) string {
	idx := strings.LastIndex(strings.ToLower(desc), " at ")
	if idx < 0 {
		return ""
	}
	return strings.Trim(strings.TrimSpace(desc[idx+len(" at "):]), descriptionPunct)
}
