// Package di provides a small dependency injection container wiring
// together the pieces cmd/tracecached needs to run: the engine, its
// parser, and the debug HTTP server. It is grounded on freyjadb's
// pkg/di.Container, which held factories rather than already-built
// instances so tests could substitute fakes; the shape carries over even
// though the concrete factories are new.
package di

import (
	"github.com/sirupsen/logrus"

	"github.com/mradosav-amd/cache/pkg/config"
	"github.com/mradosav-amd/cache/pkg/engine"
	"github.com/mradosav-amd/cache/pkg/httpapi"
	"github.com/mradosav-amd/cache/pkg/metrics"
	"github.com/mradosav-amd/cache/pkg/parser"
	"github.com/mradosav-amd/cache/pkg/registry"
)

// EngineFactory builds an Engine from an engine.Config.
type EngineFactory func(cfg engine.Config, m *metrics.Metrics, log *logrus.Entry) *engine.Engine

// ParserFactory builds a Parser from a Registry.
type ParserFactory func(reg *registry.Registry, m *metrics.Metrics, log *logrus.Entry) *parser.Parser

// HTTPServerFactory builds a debug HTTP server for a running engine.
type HTTPServerFactory func(eng httpapi.EngineStatus, cfg config.HTTP, log *logrus.Entry) *httpapi.Server

// Container holds the factories cmd/tracecached wires together. Tests can
// call the Set* methods to substitute fakes before calling a Build method.
type Container struct {
	engineFactory     EngineFactory
	parserFactory     ParserFactory
	httpServerFactory HTTPServerFactory

	Metrics *metrics.Metrics
	Log     *logrus.Entry
}

// NewContainer creates a container with the real, non-test factories and a
// fresh set of Prometheus metrics.
func NewContainer(log *logrus.Entry) *Container {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Container{
		engineFactory: func(cfg engine.Config, m *metrics.Metrics, l *logrus.Entry) *engine.Engine {
			return engine.New(cfg, m, l)
		},
		parserFactory: func(reg *registry.Registry, m *metrics.Metrics, l *logrus.Entry) *parser.Parser {
			return parser.New(reg, m, l)
		},
		httpServerFactory: func(eng httpapi.EngineStatus, cfg config.HTTP, l *logrus.Entry) *httpapi.Server {
			return httpapi.New(eng, cfg, l)
		},
		Metrics: metrics.New(),
		Log:     log,
	}
}

// SetEngineFactory overrides the engine factory, for testing.
func (c *Container) SetEngineFactory(f EngineFactory) { c.engineFactory = f }

// SetParserFactory overrides the parser factory, for testing.
func (c *Container) SetParserFactory(f ParserFactory) { c.parserFactory = f }

// SetHTTPServerFactory overrides the HTTP server factory, for testing.
func (c *Container) SetHTTPServerFactory(f HTTPServerFactory) { c.httpServerFactory = f }

// EngineConfigFrom translates a loaded config.Config plus the parent/child
// PIDs into the engine.Config its constructor expects.
func EngineConfigFrom(cfg *config.Config, ppid, pid int) engine.Config {
	return engine.Config{
		OutputPath:     cfg.OutputPath(ppid, pid),
		BufferSize:     cfg.BufferSize,
		FlushThreshold: cfg.FlushThreshold,
		FlushInterval:  cfg.FlushInterval(),
	}
}

// BuildEngine constructs an Engine from cfg using the container's metrics
// and logger.
func (c *Container) BuildEngine(cfg engine.Config) *engine.Engine {
	return c.engineFactory(cfg, c.Metrics, c.Log)
}

// BuildParser constructs a Parser bound to reg.
func (c *Container) BuildParser(reg *registry.Registry) *parser.Parser {
	return c.parserFactory(reg, c.Metrics, c.Log)
}

// BuildHTTPServer constructs a debug HTTP server reporting eng's status.
func (c *Container) BuildHTTPServer(eng httpapi.EngineStatus, cfg config.HTTP) *httpapi.Server {
	return c.httpServerFactory(eng, cfg, c.Log)
}
