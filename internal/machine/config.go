package machine

import "io"

// Config contains settings that affect harness behavior.
type Config struct {
	Console io.Writer // sink for console port and BDOS output
	CPMStub bool      // install the warm-boot and BDOS hooks
	// Optional handlers for ports the harness does not claim.
	PortIn  func(port byte) byte
	PortOut func(port, data byte)
}

// Defaults fills missing fields with reasonable defaults.
func (c *Config) Defaults() {
	if c.Console == nil {
		c.Console = io.Discard
	}
}
