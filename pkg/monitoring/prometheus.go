package monitoring

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// PrometheusReporter reports metrics to prometheus registry
// metrics have to be registered before usage, unknown metrics are logged and skipped
type PrometheusReporter struct {
	registerer    prometheus.Registerer
	countersVec   map[string]*prometheus.CounterVec
	counters      map[string]prometheus.Counter
	gaugesVec     map[string]*prometheus.GaugeVec
	gauges        map[string]prometheus.Gauge
	histograms    map[string]prometheus.Histogram
	histogramsVec map[string]*prometheus.HistogramVec
}

// NewPrometheusReporter creates reporter which registers collectors in default prometheus registry
func NewPrometheusReporter() *PrometheusReporter {
	return NewPrometheusReporterWithRegistry(prometheus.DefaultRegisterer)
}

// NewPrometheusReporterWithRegistry creates reporter using given registerer
func NewPrometheusReporterWithRegistry(r prometheus.Registerer) *PrometheusReporter {
	p := PrometheusReporter{registerer: r}
	p.countersVec = make(map[string]*prometheus.CounterVec)
	p.counters = make(map[string]prometheus.Counter)
	p.gaugesVec = make(map[string]*prometheus.GaugeVec)
	p.gauges = make(map[string]prometheus.Gauge)
	p.histograms = make(map[string]prometheus.Histogram)
	p.histogramsVec = make(map[string]*prometheus.HistogramVec)
	return &p
}

// Inc increments counter by one
// metric - requests;collection:images,status:200
func (p *PrometheusReporter) Inc(metric string) {
	p.Counter(metric, 1)
}

// Counter adds val to counter
func (p *PrometheusReporter) Counter(metric string, val float64) {
	name, labels := parseMetric(metric)
	if labels == nil {
		if c, ok := p.counters[name]; ok {
			c.Add(val)
			return
		}
	} else if c, ok := p.countersVec[name]; ok {
		c.With(labels).Add(val)
		return
	}

	unknownMetric("counter", metric)
}

// Gauge adds val to gauge
func (p *PrometheusReporter) Gauge(metric string, val float64) {
	name, labels := parseMetric(metric)
	if labels == nil {
		if g, ok := p.gauges[name]; ok {
			g.Add(val)
			return
		}
	} else if g, ok := p.gaugesVec[name]; ok {
		g.With(labels).Add(val)
		return
	}

	unknownMetric("gauge", metric)
}

// Histogram observes val
func (p *PrometheusReporter) Histogram(metric string, val float64) {
	name, labels := parseMetric(metric)
	if labels == nil {
		if h, ok := p.histograms[name]; ok {
			h.Observe(val)
			return
		}
	} else if h, ok := p.histogramsVec[name]; ok {
		h.With(labels).Observe(val)
		return
	}

	unknownMetric("histogram", metric)
}

// Timer starts measuring time, value in ms is reported to histogram
func (p *PrometheusReporter) Timer(metric string) Timer {
	return Timer{start: time.Now(), metric: metric, reporter: p}
}

func (p *PrometheusReporter) RegisterCounter(name string, c prometheus.Counter) error {
	if err := p.registerer.Register(c); err != nil {
		return err
	}

	p.counters[name] = c
	return nil
}

func (p *PrometheusReporter) RegisterCounterVec(name string, c *prometheus.CounterVec) error {
	if err := p.registerer.Register(c); err != nil {
		return err
	}

	p.countersVec[name] = c
	return nil
}

func (p *PrometheusReporter) RegisterGauge(name string, g prometheus.Gauge) error {
	if err := p.registerer.Register(g); err != nil {
		return err
	}

	p.gauges[name] = g
	return nil
}

func (p *PrometheusReporter) RegisterGaugeVec(name string, g *prometheus.GaugeVec) error {
	if err := p.registerer.Register(g); err != nil {
		return err
	}

	p.gaugesVec[name] = g
	return nil
}

func (p *PrometheusReporter) RegisterHistogram(name string, h prometheus.Histogram) error {
	if err := p.registerer.Register(h); err != nil {
		return err
	}

	p.histograms[name] = h
	return nil
}

func (p *PrometheusReporter) RegisterHistogramVec(name string, h *prometheus.HistogramVec) error {
	if err := p.registerer.Register(h); err != nil {
		return err
	}

	p.histogramsVec[name] = h
	return nil
}

// RegisterServiceMetrics registers all metrics reported by imgfind
func (p *PrometheusReporter) RegisterServiceMetrics() error {
	err := p.RegisterCounterVec("imgfind_requests", prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "imgfind_requests",
		Help: "number of handled requests",
	}, []string{"collection", "op", "status"}))
	if err != nil {
		return err
	}

	return p.RegisterHistogramVec("imgfind_source_time", prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "imgfind_source_time",
		Help:    "time spent in image source in ms",
		Buckets: []float64{0.5, 1, 5, 10, 50, 100, 200, 500, 1000, 5000},
	}, []string{"kind", "method"}))
}

func unknownMetric(kind, metric string) {
	Log().Warn("PrometheusReporter unknown metric", zap.String("kind", kind), zap.String("metric", metric))
}

// parseMetric splits metric in format name;label:value,label2:value2
// labels are nil when metric doesn't have them
func parseMetric(metric string) (string, prometheus.Labels) {
	parts := strings.SplitN(metric, ";", 2)
	if len(parts) == 1 {
		return parts[0], nil
	}

	return parts[0], getLabels(parts[1])
}

func getLabels(label string) prometheus.Labels {
	labels := make(prometheus.Labels)
	for _, pair := range strings.Split(label, ",") {
		kv := strings.SplitN(pair, ":", 2)
		if len(kv) != 2 || kv[0] == "" {
			continue
		}

		labels[kv[0]] = kv[1]
	}

	return labels
}
