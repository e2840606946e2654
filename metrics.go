package sessauth

import "sync/atomic"

// MetricID defines a public type used by sessauth APIs.
//
// MetricID instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricID uint16

const (
	// MetricConnectOk is an exported constant or variable used by the authentication engine.
	MetricConnectOk MetricID = iota
	// MetricConnectAuthNeeded is an exported constant or variable used by the authentication engine.
	MetricConnectAuthNeeded
	// MetricSessionExpired is an exported constant or variable used by the authentication engine.
	MetricSessionExpired
	// MetricLoginSuccess is an exported constant or variable used by the authentication engine.
	MetricLoginSuccess
	// MetricLoginFailure is an exported constant or variable used by the authentication engine.
	MetricLoginFailure
	// MetricForeignLoginSuccess is an exported constant or variable used by the authentication engine.
	MetricForeignLoginSuccess
	// MetricForeignLoginFailure is an exported constant or variable used by the authentication engine.
	MetricForeignLoginFailure
	// MetricLogout is an exported constant or variable used by the authentication engine.
	MetricLogout
	// MetricLogoutRejected is an exported constant or variable used by the authentication engine.
	MetricLogoutRejected
	// MetricChallengeIssued is an exported constant or variable used by the authentication engine.
	MetricChallengeIssued

	metricCount
)

// Metrics holds lock-free engine counters.
type Metrics struct {
	counters [metricCount]atomic.Uint64
}

func newMetrics() *Metrics {
	return &Metrics{}
}

// Inc describes the inc operation and its observable behavior.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || id >= metricCount {
		return
	}
	m.counters[id].Add(1)
}

// MetricsSnapshot is a point-in-time copy of all engine counters.
type MetricsSnapshot struct {
	Counters map[MetricID]uint64
}

// Snapshot describes the snapshot operation and its observable behavior.
func (m *Metrics) Snapshot() MetricsSnapshot {
	snap := MetricsSnapshot{Counters: make(map[MetricID]uint64, metricCount)}
	if m == nil {
		return snap
	}
	for id := MetricID(0); id < metricCount; id++ {
		snap.Counters[id] = m.counters[id].Load()
	}
	return snap
}
