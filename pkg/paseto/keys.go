package pasetotoken

import (
	"strings"

	paseto "aidanwoods.dev/go-paseto"
)

type Mode string

const (
	ModeLocal  Mode = "local"  // v4.local, encrypted with a shared key
	ModePublic Mode = "public" // v4.public, signed with an ed25519 pair
)

// Keys holds the material for one Mode. In public mode a verifier may hold
// only Public.
type Keys struct {
	Mode Mode

	Symmetric *paseto.V4SymmetricKey

	Secret *paseto.V4AsymmetricSecretKey
	Public *paseto.V4AsymmetricPublicKey
}

// KeyStrings is the hex-encoded form read from configuration.
type KeyStrings struct {
	Mode Mode

	SymmetricHex string
	SecretHex    string
	PublicHex    string
}

func LoadKeys(in KeyStrings) (Keys, error) {
	switch in.Mode {
	case ModeLocal:
		return loadLocal(strings.TrimSpace(in.SymmetricHex))
	case ModePublic:
		return loadPublic(strings.TrimSpace(in.SecretHex), strings.TrimSpace(in.PublicHex))
	default:
		return Keys{}, configErr("unknown mode %q (use local or public)", in.Mode)
	}
}

func loadLocal(symHex string) (Keys, error) {
	if symHex == "" {
		return Keys{}, configErr("local mode requires a symmetric key")
	}
	k, err := paseto.V4SymmetricKeyFromHex(symHex)
	if err != nil {
		return Keys{}, configErr("symmetric key: %v", err)
	}
	return Keys{Mode: ModeLocal, Symmetric: &k}, nil
}

func loadPublic(secretHex, publicHex string) (Keys, error) {
	out := Keys{Mode: ModePublic}
	if secretHex != "" {
		sk, err := paseto.NewV4AsymmetricSecretKeyFromHex(secretHex)
		if err != nil {
			return Keys{}, configErr("secret key: %v", err)
		}
		pk := sk.Public()
		out.Secret, out.Public = &sk, &pk
	}
	// An explicit public key wins over the derived one.
	if publicHex != "" {
		pk, err := paseto.NewV4AsymmetricPublicKeyFromHex(publicHex)
		if err != nil {
			return Keys{}, configErr("public key: %v", err)
		}
		out.Public = &pk
	}
	if out.Public == nil {
		return Keys{}, configErr("public mode requires a secret or public key")
	}
	return out, nil
}

// seal encrypts or signs tok depending on the mode.
func (k Keys) seal(tok *paseto.Token, implicit []byte) (string, error) {
	switch {
	case k.Mode == ModeLocal && k.Symmetric != nil:
		return tok.V4Encrypt(*k.Symmetric, implicit), nil
	case k.Mode == ModePublic && k.Secret != nil:
		return tok.V4Sign(*k.Secret, implicit), nil
	default:
		return "", configErr("no %s key available for issuing", k.Mode)
	}
}

// open decrypts or verifies raw with p's rules applied.
func (k Keys) open(p *paseto.Parser, raw string, implicit []byte) (*paseto.Token, error) {
	switch {
	case k.Mode == ModeLocal && k.Symmetric != nil:
		return p.ParseV4Local(*k.Symmetric, raw, implicit)
	case k.Mode == ModePublic && k.Public != nil:
		return p.ParseV4Public(*k.Public, raw, implicit)
	default:
		return nil, configErr("no %s key available for verification", k.Mode)
	}
}

func NewLocalKeys() Keys {
	k := paseto.NewV4SymmetricKey()
	return Keys{Mode: ModeLocal, Symmetric: &k}
}

func NewPublicKeys() Keys {
	sk := paseto.NewV4AsymmetricSecretKey()
	pk := sk.Public()
	return Keys{Mode: ModePublic, Secret: &sk, Public: &pk}
}
