package middleware

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/ankurdental/dentaldesk/internal/domain"
	"github.com/ankurdental/dentaldesk/internal/service/incident"
	"github.com/ankurdental/dentaldesk/pkg/authorize"
	pasetotoken "github.com/ankurdental/dentaldesk/pkg/paseto"
)

const LocalsIncident = "incident"

// ScopeFunc names the domain a request acts in.
type ScopeFunc func(c fiber.Ctx) (authorize.Domain, error)

// ClinicScope is for clinic-wide resources.
func ClinicScope(fiber.Ctx) (authorize.Domain, error) { return authorize.DomainClinic, nil }

// PatientParamScope scopes to the patient named by a route param.
func PatientParamScope(param string) ScopeFunc {
	return func(c fiber.Ctx) (authorize.Domain, error) {
		id := c.Params(param)
		if id == "" {
			return "", fiber.ErrBadRequest
		}
		return authorize.PatientDomain(id), nil
	}
}

// IncidentLookup is the part of incident.Service the scope needs.
type IncidentLookup interface {
	Get(ctx context.Context, id string) (*domain.Incident, error)
}

// IncidentScope scopes to the owner of the incident named by a route param
// and keeps the loaded incident in c.Locals(LocalsIncident).
func IncidentScope(incidents IncidentLookup, param string) ScopeFunc {
	return func(c fiber.Ctx) (authorize.Domain, error) {
		inc, err := incidents.Get(c.Context(), c.Params(param))
		if err != nil {
			if errors.Is(err, incident.ErrIncidentNotFound) {
				return "", fiber.NewError(fiber.StatusNotFound, err.Error())
			}
			return "", err
		}
		c.Locals(LocalsIncident, inc)
		return authorize.PatientDomain(inc.PatientID), nil
	}
}

// SelfScope: admins act clinic-wide, patients inside their own record.
func SelfScope(c fiber.Ctx) (authorize.Domain, error) {
	u, ok := UserFromFiber(c)
	if !ok {
		return "", fiber.ErrUnauthorized
	}
	if u.IsAdmin() {
		return authorize.DomainClinic, nil
	}
	if u.PatientID == "" {
		return "", fiber.ErrForbidden
	}
	return authorize.PatientDomain(u.PatientID), nil
}

// RequirePermission checks that the authenticated user may perform action on
// resource inside the domain picked by scope.
func RequirePermission(auth authorize.IAuthorization, resource authorize.Resource, action authorize.Action, scope ScopeFunc) fiber.Handler {
	return func(c fiber.Ctx) error {
		claims, ok := pasetotoken.ClaimsFromFiber(c)
		if !ok {
			return fiber.ErrUnauthorized
		}

		domain, err := scope(c)
		if err != nil {
			return err
		}

		subject := authorize.UserSubject(claims.UserID)
		if err := auth.MustEnforce(c.Context(), subject, domain, resource, action); err != nil {
			switch {
			case errors.Is(err, authorize.ErrForbidden):
				return fiber.ErrForbidden
			case errors.Is(err, authorize.ErrInvalidArgs):
				return fiber.ErrBadRequest
			}
			return err
		}

		return c.Next()
	}
}

func IncidentFromFiber(c fiber.Ctx) (*domain.Incident, bool) {
	inc, ok := c.Locals(LocalsIncident).(*domain.Incident)
	return inc, ok && inc != nil
}
