package booking

import (
	"log/slog"

	"github.com/iliyamo/train-ticket-booking/internal/metrics"
)

// Available returns capacity - sold, clamped at zero.  A negative raw
// value means more tickets reference the journey than the train can
// seat; it is logged and counted but never reported to clients.
func Available(capacity, sold int) int {
	n := capacity - sold
	if n < 0 {
		slog.Warn("sold tickets exceed train capacity", "capacity", capacity, "sold", sold)
		metrics.AvailabilityClamped.Inc()
		return 0
	}
	return n
}
