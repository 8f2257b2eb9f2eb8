package eswifi

import (
	"github.com/puzpuzpuz/xsync/v3"
)

// DriverMetrics contains counters for a driver. Counters can be read
// concurrently while the driver runs, e.g. as the value of a prometheus
// CounterFunc.
type DriverMetrics struct {
	// CommandCount indicates the number of commands sent.
	CommandCount *xsync.Counter
	// ResponseCount indicates the number of responses decoded.
	ResponseCount *xsync.Counter
	// RetryCount indicates the total number of step-local retries.
	RetryCount *xsync.Counter
	// FaultCount indicates the number of transitions into FaultedState.
	FaultCount *xsync.Counter
}

func newDriverMetrics() DriverMetrics {
	return DriverMetrics{
		CommandCount:  xsync.NewCounter(),
		ResponseCount: xsync.NewCounter(),
		RetryCount:    xsync.NewCounter(),
		FaultCount:    xsync.NewCounter(),
	}
}

func (m *DriverMetrics) incCommandCount()  { m.CommandCount.Inc() }
func (m *DriverMetrics) incResponseCount() { m.ResponseCount.Inc() }
func (m *DriverMetrics) incRetryCount()    { m.RetryCount.Inc() }
func (m *DriverMetrics) incFaultCount()    { m.FaultCount.Inc() }
