package observability

import (
	"fmt"
	"sync"
	"time"
)

// PrinterLevel is the severity of a user-facing message.
type PrinterLevel int

const (
	Info PrinterLevel = iota
	Warning
	Error
)

func (l PrinterLevel) String() string {
	switch l {
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "info"
	}
}

// PrinterMessage is a message meant for the status line, not the log file.
type PrinterMessage struct {
	Level   PrinterLevel
	Content string
}

// Printer buffers user-facing status messages produced by background work
// until the UI polls for them.
type Printer struct {
	sync.Mutex
	messages []PrinterMessage

	// For rate-limited messages, the next time a message may be sent.
	rateLimits map[string]time.Time

	// getNow allows stubbing out [time.Now] in tests.
	getNow func() time.Time
}

func NewPrinter() *Printer {
	return &Printer{
		rateLimits: make(map[string]time.Time),
		getNow:     time.Now,
	}
}

// Read returns all buffered messages and clears the buffer.
func (p *Printer) Read() []PrinterMessage {
	p.Lock()
	defer p.Unlock()

	polled := p.messages
	p.messages = nil
	return polled
}

func (p *Printer) Infof(format string, args ...any) {
	p.AtMostEvery(0).write(Info, format, args...)
}

func (p *Printer) Warnf(format string, args ...any) {
	p.AtMostEvery(0).write(Warning, format, args...)
}

func (p *Printer) Errorf(format string, args ...any) {
	p.AtMostEvery(0).write(Error, format, args...)
}

// AtMostEvery rate-limits how often a message is printed.
//
//	printer.AtMostEvery(time.Minute).Warnf("reconnecting in %v", delay)
//
// The format string is the rate-limiting key, so the same statement with
// different arguments prints at most once per duration.
func (p *Printer) AtMostEvery(duration time.Duration) writeDSL {
	return writeDSL{printer: p, rateLimitPeriod: duration}
}

type writeDSL struct {
	printer         *Printer
	rateLimitPeriod time.Duration
}

func (dsl writeDSL) Infof(format string, args ...any) {
	dsl.write(Info, format, args...)
}

func (dsl writeDSL) Warnf(format string, args ...any) {
	dsl.write(Warning, format, args...)
}

func (dsl writeDSL) Errorf(format string, args ...any) {
	dsl.write(Error, format, args...)
}

func (dsl writeDSL) write(level PrinterLevel, format string, args ...any) {
	p := dsl.printer
	p.Lock()
	defer p.Unlock()

	if dsl.rateLimitPeriod > 0 {
		now := p.getNow()
		for key, blockUntil := range p.rateLimits {
			if !now.Before(blockUntil) {
				delete(p.rateLimits, key)
			}
		}
		if _, blocked := p.rateLimits[format]; blocked {
			return
		}
		p.rateLimits[format] = now.Add(dsl.rateLimitPeriod)
	}

	p.messages = append(p.messages, PrinterMessage{
		Level:   level,
		Content: fmt.Sprintf(format, args...),
	})
}
