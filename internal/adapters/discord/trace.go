package discord

import "time"

// step mide cuánto tarda un handler; se loguea en debug.
func step(label string) func() {
	start := time.Now()
	return func() {
		l := msgLog()
		l.Debug().Str("step", label).Dur("took", time.Since(start)).Msg("trace")
	}
}
