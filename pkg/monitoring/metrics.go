package monitoring

import "time"

// Reporter collects service metrics
// metric name can contain labels in format name;label:value,label2:value2
type Reporter interface {
	Counter(metric string, val float64)
	Inc(metric string)
	Histogram(metric string, val float64)
	Gauge(metric string, val float64)
	Timer(metric string) Timer
}

// Timer measures duration of operation, result is reported in Done
type Timer struct {
	start    time.Time
	metric   string
	reporter Reporter
}

// Done reports time elapsed since timer creation in milliseconds
func (t Timer) Done() {
	if t.reporter == nil {
		return
	}

	t.reporter.Histogram(t.metric, float64(time.Since(t.start))/float64(time.Millisecond))
}

// NopReporter is default reporter which does nothing
type NopReporter struct {
}

func (n NopReporter) Counter(_ string, _ float64) {
}

func (n NopReporter) Inc(_ string) {
}

func (n NopReporter) Histogram(_ string, _ float64) {
}

func (n NopReporter) Gauge(_ string, _ float64) {
}

func (n NopReporter) Timer(_ string) Timer {
	return Timer{}
}

var reporter Reporter = &NopReporter{}

// Report returns registered reporter
func Report() Reporter {
	return reporter
}

// RegisterReporter replaces main reporter
// RegisterReporter is NOT THREAD SAFE
func RegisterReporter(r Reporter) {
	reporter = r
}
