package tlcp

import (
	"crypto/rand"
	"io"
)

// Config supplies the suite/RNG collaborators named in spec.md §6. The zero
// value is valid: both fields default at first use rather than requiring a
// builder or a constructor.
type Config struct {
	// Suites is the client's offered list (in preference order) or the
	// server's supported set. A nil value defaults to both registered suites.
	Suites []CipherSuiteID
	// Rand is the RNG handle shared between a connection's two HalfConns
	// (spec.md §5). A nil value defaults to crypto/rand.Reader.
	Rand io.Reader
}

func (c *Config) suites() []CipherSuiteID {
	if len(c.Suites) > 0 {
		return c.Suites
	}
	return []CipherSuiteID{SuiteECC_SM4_CBC_SM3, SuiteECC_SM4_GCM_SM3}
}

func (c *Config) rand() io.Reader {
	if c.Rand != nil {
		return c.Rand
	}
	return rand.Reader
}
