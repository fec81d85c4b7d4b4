package authorize

import "strings"

type Action string
type Resource string
type Role string
type Domain string

// ----------------------------
// Actions
// ----------------------------

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionList   Action = "list"

	WildcardAction Action = "*"
)

var KnownActions = map[Action]struct{}{
	ActionCreate: {}, ActionRead: {}, ActionUpdate: {}, ActionDelete: {}, ActionList: {},
}

// ----------------------------
// Resources
// ----------------------------

const (
	WildcardResource Resource = "*"

	ResourcePatient      Resource = "patient"
	ResourceIncident     Resource = "incident"
	ResourceIncidentFile Resource = "incident_file"
	ResourceDashboard    Resource = "dashboard"
	ResourceCalendar     Resource = "calendar"
	ResourceSystem       Resource = "system"
)

var KnownResources = map[Resource]struct{}{
	ResourcePatient: {}, ResourceIncident: {}, ResourceIncidentFile: {},
	ResourceDashboard: {}, ResourceCalendar: {}, ResourceSystem: {},
}

// ----------------------------
// Roles
// ----------------------------

const (
	WildcardRole Role = "*"

	RoleAdmin   Role = "role:admin"
	RolePatient Role = "role:patient"
)

var KnownRoles = map[Role]struct{}{
	RoleAdmin:   {},
	RolePatient: {},
}

// RoleFor maps a user role as stored ("Admin", "Patient") to its policy role.
func RoleFor(userRole string) (Role, bool) {
	switch userRole {
	case "Admin":
		return RoleAdmin, true
	case "Patient":
		return RolePatient, true
	default:
		return "", false
	}
}

// ----------------------------
// Domains
// ----------------------------
//
// Clinic-wide resources live in DomainClinic; the records of one patient
// live in patient:<id>.

const (
	DomainClinic        Domain = "clinic"
	DomainPrefixPatient Domain = "patient:"
	WildcardDomain      Domain = "*"
)

func PatientDomain(patientID string) Domain {
	return DomainPrefixPatient + Domain(patientID)
}

// IsValidDomain checks whether d is a recognised domain string.
func IsValidDomain(d Domain) bool {
	if d == DomainClinic || d == WildcardDomain {
		return true
	}
	id, ok := strings.CutPrefix(string(d), string(DomainPrefixPatient))
	return ok && id != "" && (id == "*" || !strings.ContainsAny(id, "*, "))
}

// ----------------------------
// Casbin tuple helpers
// ----------------------------

type PolicyEffect string

const (
	EffectAllow PolicyEffect = "allow"
	EffectDeny  PolicyEffect = "deny"
)

// GroupSubject is the g.sub in Casbin: a concrete principal.
type GroupSubject string

func UserSubject(userID string) GroupSubject { return GroupSubject("user:" + userID) }

// Permission rows: p, role, domain, resource, action, eft
type PermissionPolicy struct {
	Subject Role
	Domain  Domain
	Object  Resource
	Action  Action
	Effect  PolicyEffect
}
