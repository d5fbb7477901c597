package report

import (
	"time"

	"go.uber.org/zap"
)

// DefaultTitle is the title of reports, unless specified otherwise
const DefaultTitle = "Dedup Experiment Report"

// Option configures a Synthesizer
type Option func(*Synthesizer)

// Title of the report
func Title(title string) Option {
	return func(s *Synthesizer) {
		if title != "" {
			s.title = title
		}
	}
}

// Stages to look for, in report order
func Stages(stages ...string) Option {
	return func(s *Synthesizer) {
		if len(stages) > 0 {
			s.stages = stages
		}
	}
}

// Clock stamps the report
func Clock(now func() time.Time) Option {
	return func(s *Synthesizer) {
		if now != nil {
			s.now = now
		}
	}
}

// Logger sets the logger
func Logger(l *zap.Logger) Option {
	return func(s *Synthesizer) {
		if l != nil {
			s.l = l
		}
	}
}
