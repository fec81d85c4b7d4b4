package pasetotoken

import (
	"log/slog"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/ankurdental/dentaldesk/config"
	"github.com/ankurdental/dentaldesk/pkg/constants"
)

const CtxKeyClaims = "auth.claims"

// SessionCheck rejects a verified token whose server-side session is gone.
// It may stash what it loaded in c.Locals for later handlers.
type SessionCheck func(c fiber.Ctx, claims *Claims) error

// FiberAuth accepts a Bearer access token, runs check when non-nil and stores
// the claims under CtxKeyClaims.
func FiberAuth(m *Manager, check SessionCheck) fiber.Handler {
	return func(c fiber.Ctx) error {
		token, ok := BearerToken(c.Get("Authorization"))
		if !ok {
			return fiber.ErrUnauthorized
		}

		claims, err := m.Verify(token)
		if err != nil || claims.Type != TokenTypeAccess {
			return fiber.ErrUnauthorized
		}
		if check != nil {
			if err := check(c, claims); err != nil {
				return fiber.ErrUnauthorized
			}
		}

		c.Locals(CtxKeyClaims, claims)
		return c.Next()
	}
}

func BearerToken(h string) (string, bool) {
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	tok := strings.TrimSpace(parts[1])
	return tok, tok != ""
}

func ClaimsFromFiber(c fiber.Ctx) (*Claims, bool) {
	cl, ok := c.Locals(CtxKeyClaims).(*Claims)
	return cl, ok && cl != nil
}

// NewPasetoManager creates a new PASETO manager from config. In development a
// missing local key is replaced by a random one, so tokens do not survive a
// restart.
func NewPasetoManager(cfg *config.Config) (*Manager, error) {
	p := cfg.Authentication.Paseto

	var (
		keys Keys
		err  error
	)
	if Mode(p.Mode) == ModeLocal && strings.TrimSpace(p.LocalKeyHex) == "" &&
		cfg.Server.Environment == constants.EnvDevelopment {
		slog.Warn("paseto local key not configured, using an ephemeral key")
		keys = NewLocalKeys()
	} else {
		keys, err = LoadKeys(KeyStrings{
			Mode:         Mode(p.Mode),
			SymmetricHex: p.LocalKeyHex,
			SecretHex:    p.SecretKeyHex,
			PublicHex:    p.PublicKeyHex,
		})
		if err != nil {
			return nil, err
		}
	}

	return New(Config{
		Mode:      Mode(p.Mode),
		Issuer:    p.Issuer,
		Audience:  p.Audience,
		AccessTTL: time.Duration(p.AccessTTLMinutes) * time.Minute,
	}, keys)
}
