// Package config holds the adapter's connection settings (C13,
// SPEC_FULL.md §4.13). It does no file or environment parsing itself — the
// host wires values in via functional options, the way the teacher's own
// constructors take an explicit configuration rather than reach for a
// global.
package config

import "github.com/okulmus/rdf2cypher/internal/driver"

// defaultBackendPort is FalkorDB's/Redis's standard port.
const defaultBackendPort = 6379

// Config holds the settings needed to reach a backend graph.
type Config struct {
	BackendHost string
	BackendPort int
	GraphName   string
	Driver      driver.Driver // optional override, e.g. for tests
}

// Option mutates a Config during construction.
type Option func(*Config)

// WithBackendHost sets the backend host.
func WithBackendHost(host string) Option {
	return func(c *Config) { c.BackendHost = host }
}

// WithBackendPort sets the backend port.
func WithBackendPort(port int) Option {
	return func(c *Config) { c.BackendPort = port }
}

// WithGraphName sets the graph name the adapter operates against.
func WithGraphName(name string) Option {
	return func(c *Config) { c.GraphName = name }
}

// WithDriver overrides the driver the adapter uses, bypassing BackendHost/
// BackendPort entirely. Intended for tests (memdriver) and for hosts that
// construct their own driver.Driver.
func WithDriver(d driver.Driver) Option {
	return func(c *Config) { c.Driver = d }
}

// New builds a Config from the given options, defaulting BackendPort to
// FalkorDB's standard port when unset.
func New(opts ...Option) Config {
	c := Config{BackendPort: defaultBackendPort}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
