package authorize

import (
	"context"
	"log/slog"
	"time"

	casbin "github.com/casbin/casbin/v2"

	"github.com/ankurdental/dentaldesk/pkg/reqctx"
)

// AuditedAuthorization logs every decision and every role or permission
// change made through the wrapped IAuthorization. Denials log at warn,
// failures at error.
type AuditedAuthorization struct {
	inner IAuthorization
	log   *slog.Logger
}

func NewAuditedAuthorization(inner IAuthorization, logger *slog.Logger) IAuthorization {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditedAuthorization{inner: inner, log: logger.With(slog.String("component", "authz"))}
}

// record writes one audit line. ok=false without an error is a denial.
func (a *AuditedAuthorization) record(ctx context.Context, msg string, ok bool, err error, attrs ...slog.Attr) {
	level := slog.LevelInfo
	switch {
	case err != nil:
		level = slog.LevelError
		attrs = append(attrs, slog.String("error", err.Error()))
	case !ok && msg == "authz_decision":
		level = slog.LevelWarn
	}
	if rid := reqctx.RequestIDFromContext(ctx); rid != "" {
		attrs = append(attrs, slog.String("request_id", rid))
	}
	a.log.LogAttrs(ctx, level, msg, attrs...)
}

func (a *AuditedAuthorization) Enforce(ctx context.Context, subject GroupSubject, domain Domain, object Resource, action Action) (bool, error) {
	began := time.Now()
	allowed, err := a.inner.Enforce(ctx, subject, domain, object, action)

	a.record(ctx, "authz_decision", allowed, err,
		slog.String("subject", string(subject)),
		slog.String("domain", string(domain)),
		slog.String("resource", string(object)),
		slog.String("action", string(action)),
		slog.Bool("allowed", allowed),
		slog.Int64("duration_us", time.Since(began).Microseconds()),
	)
	return allowed, err
}

func (a *AuditedAuthorization) MustEnforce(ctx context.Context, subject GroupSubject, domain Domain, object Resource, action Action) error {
	return mustEnforce(ctx, a, subject, domain, object, action)
}

func (a *AuditedAuthorization) AddRoleForUserInDomain(ctx context.Context, subject GroupSubject, role Role, domain Domain) (bool, error) {
	added, err := a.inner.AddRoleForUserInDomain(ctx, subject, role, domain)
	if err == nil && !added {
		// re-granted by the auth middleware on every request
		return false, nil
	}
	a.record(ctx, "authz_role_change", true, err,
		slog.String("operation", "add_role"),
		slog.String("subject", string(subject)),
		slog.String("role", string(role)),
		slog.String("domain", string(domain)),
	)
	return added, err
}

func (a *AuditedAuthorization) RemoveRoleForUserInDomain(ctx context.Context, subject GroupSubject, role Role, domain Domain) (bool, error) {
	removed, err := a.inner.RemoveRoleForUserInDomain(ctx, subject, role, domain)
	a.record(ctx, "authz_role_change", true, err,
		slog.String("operation", "remove_role"),
		slog.String("subject", string(subject)),
		slog.String("role", string(role)),
		slog.String("domain", string(domain)),
		slog.Bool("removed", removed),
	)
	return removed, err
}

func (a *AuditedAuthorization) RemoveDomain(ctx context.Context, domain Domain) (bool, error) {
	removed, err := a.inner.RemoveDomain(ctx, domain)
	a.record(ctx, "authz_role_change", true, err,
		slog.String("operation", "remove_domain"),
		slog.String("domain", string(domain)),
		slog.Bool("removed", removed),
	)
	return removed, err
}

func (a *AuditedAuthorization) GetRolesForUserInDomain(ctx context.Context, subject GroupSubject, domain Domain) ([]Role, error) {
	return a.inner.GetRolesForUserInDomain(ctx, subject, domain)
}

func (a *AuditedAuthorization) AddPermission(ctx context.Context, role Role, domain Domain, object Resource, action Action, effect PolicyEffect) (bool, error) {
	added, err := a.inner.AddPermission(ctx, role, domain, object, action, effect)
	a.record(ctx, "authz_permission_change", true, err, permissionAttrs("add_permission", role, domain, object, action, effect, added)...)
	return added, err
}

func (a *AuditedAuthorization) RemovePermission(ctx context.Context, role Role, domain Domain, object Resource, action Action, effect PolicyEffect) (bool, error) {
	removed, err := a.inner.RemovePermission(ctx, role, domain, object, action, effect)
	a.record(ctx, "authz_permission_change", true, err, permissionAttrs("remove_permission", role, domain, object, action, effect, removed)...)
	return removed, err
}

func permissionAttrs(op string, role Role, domain Domain, object Resource, action Action, effect PolicyEffect, changed bool) []slog.Attr {
	return []slog.Attr{
		slog.String("operation", op),
		slog.String("role", string(role)),
		slog.String("domain", string(domain)),
		slog.String("resource", string(object)),
		slog.String("action", string(action)),
		slog.String("effect", string(effect)),
		slog.Bool("changed", changed),
	}
}

func (a *AuditedAuthorization) Raw() *casbin.DistributedEnforcer {
	return a.inner.Raw()
}
