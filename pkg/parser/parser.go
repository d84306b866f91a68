package parser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/mradosav-amd/cache/pkg/codec"
	"github.com/mradosav-amd/cache/pkg/metrics"
	"github.com/mradosav-amd/cache/pkg/registry"
	"github.com/mradosav-amd/cache/pkg/sample"
)

// Processor handles one decoded record. An error returned from Process
// aborts Load.
type Processor interface {
	Process(typeID sample.TypeID, v sample.Type) error
}

// ProcessorFunc adapts a function to the Processor interface.
type ProcessorFunc func(typeID sample.TypeID, v sample.Type) error

// Process calls f.
func (f ProcessorFunc) Process(typeID sample.TypeID, v sample.Type) error { return f(typeID, v) }

// Parser reads a single file end to end, decoding each framed record
// through reg and handing it to a Processor.
type Parser struct {
	reg        *registry.Registry
	metrics    *metrics.Metrics
	log        *logrus.Entry
	onFinished func()
}

// New builds a Parser that decodes records through reg.
func New(reg *registry.Registry, m *metrics.Metrics, log *logrus.Entry) *Parser {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Parser{reg: reg, metrics: m, log: log}
}

// OnFinished registers a callback invoked after Load has fully consumed and
// removed its file. Only one callback may be registered; a later call
// replaces an earlier one.
func (p *Parser) OnFinished(fn func()) {
	p.onFinished = fn
}

// Load reads path record by record, dispatching each to proc, then deletes
// path from disk. A record whose type identifier is not registered is
// logged and skipped rather than treated as an error, matching the
// original parser's "unsupported type detected" behavior.
func (p *Parser) Load(path string, proc Processor) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("parser: opening %s: %w", path, err)
	}

	r := bufio.NewReader(f)
	headerBuf := make([]byte, sample.HeaderSize)

	for {
		if _, err := io.ReadFull(r, headerBuf); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				break
			}
			f.Close()
			return fmt.Errorf("parser: reading header from %s: %w", path, err)
		}

		header := sample.ReadHeader(codec.NewReader(headerBuf))
		if header.PayloadSize == 0 {
			continue
		}

		payload := make([]byte, header.PayloadSize)
		if _, err := io.ReadFull(r, payload); err != nil {
			p.log.WithError(err).WithField("file", path).Warn("parser: short read, skipping record")
			p.metrics.ObserveSkipped("short_read")
			continue
		}

		if header.TypeID == sample.FragmentedSpace {
			p.metrics.ObserveSkipped("fragmented")
			continue
		}

		v, err := p.reg.Decode(header.TypeID, codec.NewReader(payload))
		if err != nil {
			p.log.WithField("type_id", header.TypeID).Warn("parser: unsupported type, skipping record")
			p.metrics.ObserveSkipped("unsupported_type")
			continue
		}

		p.metrics.ObserveDispatched(fmt.Sprintf("%d", header.TypeID))
		if err := proc.Process(header.TypeID, v); err != nil {
			f.Close()
			return fmt.Errorf("parser: processing record type %d: %w", header.TypeID, err)
		}
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("parser: closing %s: %w", path, err)
	}

	p.log.WithField("file", path).Info("parser: finished, removing file")
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("parser: removing %s: %w", path, err)
	}

	if p.onFinished != nil {
		p.onFinished()
	}
	return nil
}
