package manager

import "github.com/rs/zerolog"

// LogPublisher writes lifecycle events to a zerolog logger. Failure events
// are logged at warn level, everything else at debug.
type LogPublisher struct {
	log zerolog.Logger
}

func NewLogPublisher(l zerolog.Logger) *LogPublisher { return &LogPublisher{log: l} }

func (p *LogPublisher) Publish(e Event) {
	ev := p.log.Debug()
	switch e.Name {
	case EventInitFailed, EventSetupFailed, EventImageFailed:
		ev = p.log.Warn()
	}
	ev.Str("event", e.Name).Str("run_id", e.RunID).Fields(e.Fields).Msg("lifecycle")
}
