package domain

// Operation represents the store-level mutation kind recorded in the
// activity log. Raw records may carry values outside this set; the
// timeline classifier treats those as updates.
type Operation string

const (
	OperationCreate Operation = "CREATE"
	OperationUpdate Operation = "UPDATE"
	OperationDelete Operation = "DELETE"
)

func (o Operation) String() string { return string(o) }

func (o Operation) IsValid() bool {
	switch o {
	case OperationCreate, OperationUpdate, OperationDelete:
		return true
	}
	return false
}

// EntityType names the table an activity record is about. The activity log
// stores free text here — producers are not consistent — so values outside
// this set are preserved as-is and classified generically.
type EntityType string

const (
	EntityTypeProfile          EntityType = "profiles"
	EntityTypeCustomer         EntityType = "customers"
	EntityTypeSkill            EntityType = "skills"
	EntityTypeSkillApplication EntityType = "skill_applications"
	EntityTypeUserSkill        EntityType = "user_skills"
	EntityTypeUserCustomer     EntityType = "user_customers"
)

func (e EntityType) String() string { return string(e) }

func (e EntityType) IsValid() bool {
	switch e {
	case EntityTypeProfile, EntityTypeCustomer, EntityTypeSkill,
		EntityTypeSkillApplication, EntityTypeUserSkill, EntityTypeUserCustomer:
		return true
	}
	return false
}

// Proficiency represents the self-assessed level at which a skill is applied.
type Proficiency string

const (
	ProficiencyBeginner     Proficiency = "BEGINNER"
	ProficiencyIntermediate Proficiency = "INTERMEDIATE"
	ProficiencyAdvanced     Proficiency = "ADVANCED"
	ProficiencyExpert       Proficiency = "EXPERT"
)

func (p Proficiency) String() string { return string(p) }

func (p Proficiency) IsValid() bool {
	switch p {
	case ProficiencyBeginner, ProficiencyIntermediate, ProficiencyAdvanced, ProficiencyExpert:
		return true
	}
	return false
}

// UserRole represents the authorization level of a user.
type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"
)

func (r UserRole) String() string { return string(r) }

func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleUser, UserRoleAdmin:
		return true
	}
	return false
}

func (r UserRole) IsAdmin() bool {
	return r == UserRoleAdmin
}
