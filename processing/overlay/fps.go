package overlay

import "time"

// InstantFPS is the frame rate implied by a single frame's latency, or 0 when
// elapsed is not positive.
func InstantFPS(elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 0
	}
	return 1 / elapsed.Seconds()
}
