package authorize

import (
	"fmt"
	"os"
	"strings"

	casbin "github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	stringadapter "github.com/casbin/casbin/v2/persist/string-adapter"
)

// DefaultModel grants roles per domain through g and clinic-wide through g2.
const DefaultModel = `[request_definition]
r = sub, dom, obj, act

[policy_definition]
p = sub, dom, obj, act, eft

[role_definition]
g = _, _, _
g2 = _, _

[policy_effect]
e = some(where (p.eft == allow)) && !some(where (p.eft == deny))

[matchers]
m = (g(r.sub, p.sub, r.dom) || g2(r.sub, p.sub)) && (p.dom == "*" || keyMatch(r.dom, p.dom)) && (p.obj == "*" || r.obj == p.obj) && (p.act == "*" || r.act == p.act)
`

// DefaultPolicies: admins run the clinic; a patient reads their own records.
func DefaultPolicies() []PermissionPolicy {
	own := PatientDomain("*")
	return []PermissionPolicy{
		{RoleAdmin, WildcardDomain, WildcardResource, WildcardAction, EffectAllow},

		{RolePatient, own, ResourcePatient, ActionRead, EffectAllow},
		{RolePatient, own, ResourceIncident, ActionRead, EffectAllow},
		{RolePatient, own, ResourceIncident, ActionList, EffectAllow},
		{RolePatient, own, ResourceIncidentFile, ActionRead, EffectAllow},
		{RolePatient, own, ResourceDashboard, ActionRead, EffectAllow},
	}
}

// NewEnforcer builds an in-memory enforcer loaded with DefaultPolicies. The
// model comes from modelPath when set, DefaultModel otherwise. Role
// assignments are not persisted; callers grant them as users authenticate.
func NewEnforcer(modelPath string) (*casbin.DistributedEnforcer, error) {
	text := DefaultModel
	if modelPath != "" {
		b, err := os.ReadFile(modelPath)
		if err != nil {
			return nil, fmt.Errorf("read casbin model: %w", err)
		}
		text = string(b)
	}

	m, err := model.NewModelFromString(text)
	if err != nil {
		return nil, fmt.Errorf("parse casbin model: %w", err)
	}

	e, err := casbin.NewDistributedEnforcer(m, stringadapter.NewAdapter(policyLines(DefaultPolicies())))
	if err != nil {
		return nil, fmt.Errorf("create enforcer: %w", err)
	}
	e.EnableAutoSave(false)
	e.EnableEnforce(true)
	return e, nil
}

func policyLines(policies []PermissionPolicy) string {
	var b strings.Builder
	for _, p := range policies {
		fmt.Fprintf(&b, "p, %s, %s, %s, %s, %s\n", p.Subject, p.Domain, p.Object, p.Action, p.Effect)
	}
	return b.String()
}
