package middleware

import (
	"context"

	"github.com/gofiber/fiber/v3"

	"github.com/ankurdental/dentaldesk/internal/domain"
	"github.com/ankurdental/dentaldesk/pkg/authorize"
	pasetotoken "github.com/ankurdental/dentaldesk/pkg/paseto"
	"github.com/ankurdental/dentaldesk/pkg/reqctx"
)

const LocalsUser = "auth.user"

// SessionResolver is the part of session.Service the middleware needs.
type SessionResolver interface {
	Resolve(ctx context.Context, claims *pasetotoken.Claims) (*domain.User, error)
}

// AuthRequired validates a Bearer PASETO access token and checks its session
// in the store. On success the claims are in c.Locals(pasetotoken.CtxKeyClaims),
// the stored user in c.Locals(LocalsUser), and the caller holds the policy
// role of their account.
func AuthRequired(mgr *pasetotoken.Manager, sessions SessionResolver, auth authorize.IAuthorization) fiber.Handler {
	return pasetotoken.FiberAuth(mgr, func(c fiber.Ctx, claims *pasetotoken.Claims) error {
		u, err := sessions.Resolve(c.Context(), claims)
		if err != nil {
			return err
		}
		if err := authorize.Grant(c.Context(), auth, u.ID, string(u.Role), u.PatientID); err != nil {
			return err
		}
		c.Locals(LocalsUser, u)
		c.SetContext(reqctx.WithClaims(c.Context(), claims))
		return nil
	})
}

func UserFromFiber(c fiber.Ctx) (*domain.User, bool) {
	u, ok := c.Locals(LocalsUser).(*domain.User)
	return u, ok && u != nil
}
