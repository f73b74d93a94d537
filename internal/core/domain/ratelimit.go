package domain

import "time"

// RateWindowDuration is the length of a fixed rate-limit window.
const RateWindowDuration = time.Minute

// RateWindow is the request counter of one client within a fixed window.
//
// The window starts at the first counted request and is replaced by a
// fresh one once RateWindowDuration has elapsed.
type RateWindow struct {
	Count       int
	WindowStart time.Time
}

// Expired reports whether the window has rolled over at now.
func (w RateWindow) Expired(now time.Time, window time.Duration) bool {
	return now.Sub(w.WindowStart) >= window
}
