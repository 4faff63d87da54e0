package timeline

import (
	"strings"

	"github.com/scknurr/tritium-v4-sub001/internal/domain"
)

// Classify maps one raw activity record to its semantic event kind.
//
// Records written by this service's own writers carry an explicit kind,
// which is trusted as-is. For untyped rows the kind is inferred, first
// match wins: the skill-application heuristic (these events historically
// appear under a variety of entity types, so it outranks everything),
// then a static (entity type, operation) table, then a generic kind by
// operation. Classification is a pure function of the record.
func Classify(rec domain.ActivityRecord) domain.EventKind {
	if rec.Kind != nil && rec.Kind.IsValid() {
		return *rec.Kind
	}

	if isSkillApplicationRecord(rec) {
		return classifySkillApplication(rec)
	}

	key := entityOp{canonicalEntityType(rec.EntityType), rec.Operation}
	if kind, ok := staticKinds[key]; ok {
		return kind
	}

	return genericKind(rec.Operation)
}

type entityOp struct {
	entityType domain.EntityType
	operation  domain.Operation
}

var staticKinds = map[entityOp]domain.EventKind{
	{domain.EntityTypeProfile, domain.OperationCreate}: domain.EventUserCreated,
	{domain.EntityTypeProfile, domain.OperationUpdate}: domain.EventUserUpdated,
	{domain.EntityTypeProfile, domain.OperationDelete}: domain.EventUserDeleted,

	{domain.EntityTypeCustomer, domain.OperationCreate}: domain.EventOrganizationCreated,
	{domain.EntityTypeCustomer, domain.OperationUpdate}: domain.EventOrganizationUpdated,
	{domain.EntityTypeCustomer, domain.OperationDelete}: domain.EventOrganizationDeleted,

	{domain.EntityTypeSkill, domain.OperationCreate}: domain.EventSkillCreated,
	{domain.EntityTypeSkill, domain.OperationUpdate}: domain.EventSkillUpdated,
	{domain.EntityTypeSkill, domain.OperationDelete}: domain.EventSkillDeleted,

	{domain.EntityTypeUserSkill, domain.OperationCreate}: domain.EventSkillAddedToProfile,
	{domain.EntityTypeUserSkill, domain.OperationUpdate}: domain.EventSkillUpdatedOnProfile,
	{domain.EntityTypeUserSkill, domain.OperationDelete}: domain.EventSkillRemovedFromProfile,

	{domain.EntityTypeUserCustomer, domain.OperationCreate}: domain.EventUserJoinedOrganization,
	{domain.EntityTypeUserCustomer, domain.OperationDelete}: domain.EventUserLeftOrganization,
}

// isSkillApplicationRecord reports whether the record describes the
// skill-application relationship: by subject type, by description wording,
// or by metadata carrying both a skill name and an organization name.
func isSkillApplicationRecord(rec domain.ActivityRecord) bool {
	if canonicalEntityType(rec.EntityType) == domain.EntityTypeSkillApplication {
		return true
	}

	desc := strings.ToLower(rec.Description)
	if strings.Contains(desc, "applied") && strings.Contains(desc, "at") {
		return true
	}

	_, hasSkillName := metaName(rec.Metadata, skillNameKeys, skillObjectKeys)
	_, hasOrgName := metaName(rec.Metadata, organizationNameKeys, organizationObjectKeys)
	return hasSkillName && hasOrgName
}

// classifySkillApplication never returns a non-skill kind, whatever the
// operation. An update to an active application reads as a continued
// application unless the text says it ended.
func classifySkillApplication(rec domain.ActivityRecord) domain.EventKind {
	switch rec.Operation {
	case domain.OperationCreate:
		return domain.EventSkillApplied
	case domain.OperationDelete:
		return domain.EventSkillRemoved
	default:
		desc := strings.ToLower(rec.Description)
		if strings.Contains(desc, "ended") || strings.Contains(desc, "removed") {
			return domain.EventSkillRemoved
		}
		return domain.EventSkillApplied
	}
}

func genericKind(op domain.Operation) domain.EventKind {
	switch op {
	case domain.OperationCreate:
		return domain.EventGenericCreated
	case domain.OperationDelete:
		return domain.EventGenericDeleted
	default:
		// UPDATE and unrecognized operations alike
		return domain.EventGenericUpdated
	}
}
