package authorize

import (
	"context"
	"errors"
	"fmt"

	casbin "github.com/casbin/casbin/v2"
)

var (
	ErrForbidden   = errors.New("forbidden")
	ErrInvalidArgs = errors.New("invalid authorization arguments")
)

// clinicWide is the grouping type for roles that hold in every domain.
const clinicWide = "g2"

// IAuthorization is the only thing services/middleware should depend on.
type IAuthorization interface {
	// Enforce answers: "Is subject allowed to act on object inside domain?"
	Enforce(ctx context.Context, subject GroupSubject, domain Domain, object Resource, action Action) (bool, error)

	// MustEnforce returns ErrForbidden if not allowed.
	MustEnforce(ctx context.Context, subject GroupSubject, domain Domain, object Resource, action Action) error

	// Role management. WildcardDomain grants the role in every domain.
	AddRoleForUserInDomain(ctx context.Context, subject GroupSubject, role Role, domain Domain) (bool, error)
	RemoveRoleForUserInDomain(ctx context.Context, subject GroupSubject, role Role, domain Domain) (bool, error)
	GetRolesForUserInDomain(ctx context.Context, subject GroupSubject, domain Domain) ([]Role, error)
	// RemoveDomain drops every role granted inside domain.
	RemoveDomain(ctx context.Context, domain Domain) (bool, error)

	// Policy rows: p, role, domain, resource, action, effect.
	AddPermission(ctx context.Context, role Role, domain Domain, object Resource, action Action, effect PolicyEffect) (bool, error)
	RemovePermission(ctx context.Context, role Role, domain Domain, object Resource, action Action, effect PolicyEffect) (bool, error)

	Raw() *casbin.DistributedEnforcer
}

// Authorization keeps the clinic's RBAC rules in an in-memory casbin
// enforcer. Role grants are not persisted; callers re-grant from the user
// records (see Grant).
type Authorization struct {
	enforcer    *casbin.DistributedEnforcer
	adminBypass bool
}

// NewAuthorization wraps an already-configured Enforcer
func NewAuthorization(e *casbin.DistributedEnforcer, cfg Config) (IAuthorization, error) {
	if e == nil {
		return nil, fmt.Errorf("%w: enforcer is nil", ErrInvalidArgs)
	}
	if err := e.LoadPolicy(); err != nil {
		return nil, fmt.Errorf("load policy: %w", err)
	}
	return &Authorization{enforcer: e, adminBypass: cfg.AdminBypass}, nil
}

// New builds the enforcer from cfg and wraps it, adding audit logging when
// enabled.
func New(cfg Config) (IAuthorization, error) {
	e, err := NewEnforcer(cfg.CasbinModelPath)
	if err != nil {
		return nil, err
	}
	az, err := NewAuthorization(e, cfg)
	if err != nil {
		return nil, err
	}
	if cfg.EnableAudit {
		az = NewAuditedAuthorization(az, nil)
	}
	return az, nil
}

func (az *Authorization) Raw() *casbin.DistributedEnforcer { return az.enforcer }

// ---------------------------------------------------------------------------
// Decisions
// ---------------------------------------------------------------------------

func (az *Authorization) Enforce(_ context.Context, subject GroupSubject, domain Domain, object Resource, action Action) (bool, error) {
	if subject == "" {
		return false, invalid("subject is empty")
	}
	// a request always names one concrete domain
	if domain == WildcardDomain {
		return false, invalid("invalid domain: %q", domain)
	}
	if err := checkDomain(domain); err != nil {
		return false, err
	}
	if _, ok := KnownResources[object]; !ok {
		return false, invalid("unknown resource: %q", object)
	}
	if _, ok := KnownActions[action]; !ok {
		return false, invalid("unknown action: %q", action)
	}

	if az.adminBypass {
		isAdmin, err := az.enforcer.HasNamedGroupingPolicy(clinicWide, string(subject), string(RoleAdmin))
		if err != nil {
			return false, err
		}
		if isAdmin {
			return true, nil
		}
	}

	return az.enforcer.Enforce(string(subject), string(domain), string(object), string(action))
}

func (az *Authorization) MustEnforce(ctx context.Context, subject GroupSubject, domain Domain, object Resource, action Action) error {
	return mustEnforce(ctx, az, subject, domain, object, action)
}

func mustEnforce(ctx context.Context, az IAuthorization, subject GroupSubject, domain Domain, object Resource, action Action) error {
	allowed, err := az.Enforce(ctx, subject, domain, object, action)
	if err != nil {
		return err
	}
	if !allowed {
		return ErrForbidden
	}
	return nil
}

// ---------------------------------------------------------------------------
// Roles
// ---------------------------------------------------------------------------

func (az *Authorization) AddRoleForUserInDomain(_ context.Context, subject GroupSubject, role Role, domain Domain) (bool, error) {
	if subject == "" || role == "" {
		return false, invalid("empty subject/role")
	}
	if _, ok := KnownRoles[role]; !ok {
		return false, invalid("unknown role: %q", role)
	}
	if err := checkDomain(domain); err != nil {
		return false, err
	}
	if domain == WildcardDomain {
		return az.enforcer.AddNamedGroupingPolicy(clinicWide, string(subject), string(role))
	}
	return az.enforcer.AddGroupingPolicy(string(subject), string(role), string(domain))
}

func (az *Authorization) RemoveRoleForUserInDomain(_ context.Context, subject GroupSubject, role Role, domain Domain) (bool, error) {
	if subject == "" || role == "" {
		return false, invalid("empty subject/role")
	}
	if err := checkDomain(domain); err != nil {
		return false, err
	}
	if domain == WildcardDomain {
		return az.enforcer.RemoveNamedGroupingPolicy(clinicWide, string(subject), string(role))
	}
	return az.enforcer.RemoveGroupingPolicy(string(subject), string(role), string(domain))
}

func (az *Authorization) RemoveDomain(_ context.Context, domain Domain) (bool, error) {
	if err := checkDomain(domain); err != nil {
		return false, err
	}
	if domain == WildcardDomain {
		return false, invalid("refusing to clear the wildcard domain")
	}
	return az.enforcer.RemoveFilteredGroupingPolicy(2, string(domain))
}

func (az *Authorization) GetRolesForUserInDomain(_ context.Context, subject GroupSubject, domain Domain) ([]Role, error) {
	if subject == "" {
		return nil, invalid("subject is empty")
	}
	if err := checkDomain(domain); err != nil {
		return nil, err
	}

	var names []string
	if domain == WildcardDomain {
		rows, err := az.enforcer.GetFilteredNamedGroupingPolicy(clinicWide, 0, string(subject))
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			names = append(names, row[1])
		}
	} else {
		names = az.enforcer.GetRolesForUserInDomain(string(subject), string(domain))
	}

	roles := make([]Role, len(names))
	for i, n := range names {
		roles[i] = Role(n)
	}
	return roles, nil
}

// ---------------------------------------------------------------------------
// Policies
// ---------------------------------------------------------------------------

func (az *Authorization) AddPermission(_ context.Context, role Role, domain Domain, object Resource, action Action, effect PolicyEffect) (bool, error) {
	if role == "" || domain == "" || object == "" || action == "" || effect == "" {
		return false, invalid("empty permission fields")
	}
	if _, ok := KnownRoles[role]; !ok && role != WildcardRole {
		return false, invalid("unknown role: %q", role)
	}
	if err := checkDomain(domain); err != nil {
		return false, err
	}
	if _, ok := KnownResources[object]; !ok && object != WildcardResource {
		return false, invalid("unknown resource: %q", object)
	}
	if _, ok := KnownActions[action]; !ok && action != WildcardAction {
		return false, invalid("unknown action: %q", action)
	}
	if effect != EffectAllow && effect != EffectDeny {
		return false, invalid("invalid effect: %q", effect)
	}
	return az.enforcer.AddPolicy(string(role), string(domain), string(object), string(action), string(effect))
}

func (az *Authorization) RemovePermission(_ context.Context, role Role, domain Domain, object Resource, action Action, effect PolicyEffect) (bool, error) {
	if role == "" || domain == "" || object == "" || action == "" || effect == "" {
		return false, invalid("empty permission fields")
	}
	if err := checkDomain(domain); err != nil {
		return false, err
	}
	return az.enforcer.RemovePolicy(string(role), string(domain), string(object), string(action), string(effect))
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidArgs}, args...)...)
}

func checkDomain(d Domain) error {
	if d == "" || !IsValidDomain(d) {
		return invalid("invalid domain: %q", d)
	}
	return nil
}
