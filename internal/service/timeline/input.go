package timeline

import (
	"github.com/google/uuid"

	"github.com/scknurr/tritium-v4-sub001/internal/domain"
)

// relatedKind is the canonical family of a related-entity filter.
type relatedKind int

const (
	relatedNone relatedKind = iota
	relatedSkill
	relatedOrganization
	relatedUser
)

// Filter selects the raw records feeding one pipeline run. Subject filters
// address the entity an operation targeted; related filters address an
// entity merely referenced through metadata or description. Filter values
// are matched against stored column values as-is.
type Filter struct {
	EntityType domain.EntityType
	EntityID   *uuid.UUID

	RelatedType domain.EntityType
	RelatedID   *uuid.UUID

	Limit int

	related relatedKind
}

// canonicalEntityType folds the naming variants producers use into the
// canonical entity types. Unknown values pass through unchanged.
func canonicalEntityType(et domain.EntityType) domain.EntityType {
	switch et {
	case "users":
		return domain.EntityTypeProfile
	case "organizations":
		return domain.EntityTypeCustomer
	default:
		return et
	}
}

// normalizeFilter validates the filter, applies limit defaults and
// resolves the related-entity family.
func (s *Service) normalizeFilter(f Filter) (Filter, error) {
	if f.Limit <= 0 {
		f.Limit = s.cfg.DefaultLimit
	}
	if f.Limit > s.cfg.MaxLimit {
		f.Limit = s.cfg.MaxLimit
	}

	if f.EntityID != nil && f.EntityType == "" {
		return f, domain.NewValidationError("entity_type", "required when entity_id is set")
	}

	switch {
	case f.RelatedType == "" && f.RelatedID == nil:
		f.related = relatedNone
	case f.RelatedID == nil:
		return f, domain.NewValidationError("related_id", "required when related_type is set")
	case f.RelatedType == "":
		return f, domain.NewValidationError("related_type", "required when related_id is set")
	default:
		switch canonicalEntityType(f.RelatedType) {
		case domain.EntityTypeSkill:
			f.related = relatedSkill
		case domain.EntityTypeCustomer:
			f.related = relatedOrganization
		case domain.EntityTypeProfile:
			f.related = relatedUser
		default:
			return f, domain.NewValidationError("related_type", "must be skills, customers or profiles")
		}
	}

	return f, nil
}
