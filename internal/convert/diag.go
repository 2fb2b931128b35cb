package convert

import (
	"go.uber.org/zap"
)

// Severity classifies a diagnostic.
type Severity int

const (
	// SeverityInfo is verbose-only detail; it is logged at zap debug level.
	SeverityInfo Severity = iota
	// SeverityWarning marks a recoverable anomaly with usable output.
	SeverityWarning
	// SeverityError marks a definition (or the run) that could not proceed.
	SeverityError
)

// String returns the lowercase severity name.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// Diagnostics is the leveled message sink for a conversion run. Every
// message is tagged with the originating file and line when known.
type Diagnostics struct {
	logger *zap.Logger
	counts [3]int
}

// NewDiagnostics wraps logger. A nil logger discards output but still counts.
func NewDiagnostics(logger *zap.Logger) *Diagnostics {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Diagnostics{logger: logger}
}

// Logger returns the underlying zap logger.
func (d *Diagnostics) Logger() *zap.Logger { return d.logger }

// Info records a verbose-only message.
func (d *Diagnostics) Info(pos Position, msg string, fields ...zap.Field) {
	d.counts[SeverityInfo]++
	d.logger.Debug(msg, withPosition(pos, fields)...)
}

// Warn records a recoverable anomaly.
func (d *Diagnostics) Warn(pos Position, msg string, fields ...zap.Field) {
	d.counts[SeverityWarning]++
	d.logger.Warn(msg, withPosition(pos, fields)...)
}

// Error records a failure of a definition or of the run.
func (d *Diagnostics) Error(pos Position, msg string, fields ...zap.Field) {
	d.counts[SeverityError]++
	d.logger.Error(msg, withPosition(pos, fields)...)
}

// Count returns how many messages of severity s were recorded.
func (d *Diagnostics) Count(s Severity) int {
	if s < SeverityInfo || s > SeverityError {
		return 0
	}
	return d.counts[s]
}

func withPosition(pos Position, fields []zap.Field) []zap.Field {
	if pos.File == "" {
		return fields
	}
	out := make([]zap.Field, 0, len(fields)+2)
	out = append(out, zap.String("file", pos.File))
	if pos.Line > 0 {
		out = append(out, zap.Int("line", pos.Line))
	}
	return append(out, fields...)
}
