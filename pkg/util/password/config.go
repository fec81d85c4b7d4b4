package password

import "github.com/ankurdental/dentaldesk/config"

// Config holds Argon2id password hashing parameters as configured.
type Config struct {
	// Algorithm must be "argon2id"; it is kept so config files stay explicit.
	Algorithm string

	MemoryKiB   uint32
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32

	// LowMemoryMode caps memory at 32 MiB for small clinic hardware.
	LowMemoryMode bool
}

// ToParams converts Config to Params. Zero fields take the defaults so a
// config file only needs to mention what it changes.
func (c Config) ToParams() *Params {
	base := DefaultParams()
	if c.LowMemoryMode {
		base = LowMemoryParams()
	}

	p := &Params{
		Memory:      orDefault(c.MemoryKiB, base.Memory),
		Iterations:  orDefault(c.Iterations, base.Iterations),
		Parallelism: base.Parallelism,
		SaltLength:  orDefault(c.SaltLength, base.SaltLength),
		KeyLength:   orDefault(c.KeyLength, base.KeyLength),
	}
	if c.Parallelism > 0 {
		p.Parallelism = c.Parallelism
	}
	if c.LowMemoryMode && p.Memory > 32*1024 {
		p.Memory = 32 * 1024
	}
	return p
}

func orDefault(v, def uint32) uint32 {
	if v == 0 {
		return def
	}
	return v
}

func FromCentralConfig(c config.PasswordConfig) Config {
	return Config{
		Algorithm:     c.Algorithm,
		MemoryKiB:     c.MemoryKiB,
		Iterations:    c.Iterations,
		Parallelism:   c.Parallelism,
		SaltLength:    c.SaltLength,
		KeyLength:     c.KeyLength,
		LowMemoryMode: c.LowMemoryMode,
	}
}
