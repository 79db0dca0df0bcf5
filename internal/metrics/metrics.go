// Package metrics records build outcomes in a Prometheus registry so a run
// can be exported through the node exporter textfile collector.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"sitegen/internal/builder"
)

const namespace = "sitegen"

// Recorder holds the build collectors on a private registry.
type Recorder struct {
	registry *prometheus.Registry

	pages    *prometheus.CounterVec
	assets   *prometheus.CounterVec
	files    prometheus.Counter
	duration prometheus.Gauge
	lastRun  prometheus.Gauge
}

// NewRecorder registers the build collectors.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		pages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pages_total",
			Help:      "Configured pages by outcome.",
		}, []string{"outcome"}),
		assets: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "asset_dirs_total",
			Help:      "Asset directories by outcome.",
		}, []string{"outcome"}),
		files: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "asset_files_copied_total",
			Help:      "Asset files copied into the publish root.",
		}),
		duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Wall time of the last build.",
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "build_last_run_timestamp_seconds",
			Help:      "Unix time the last build finished.",
		}),
	}
	r.registry.MustRegister(r.pages, r.assets, r.files, r.duration, r.lastRun)
	return r
}

// Observe adds a finished build to the collectors.
func (r *Recorder) Observe(report builder.Report) {
	r.pages.WithLabelValues("generated").Add(float64(report.PagesGenerated()))
	r.pages.WithLabelValues("failed").Add(float64(report.PagesFailed()))
	r.assets.WithLabelValues("copied").Add(float64(report.AssetsCopied()))
	r.assets.WithLabelValues("missing").Add(float64(report.AssetsMissing()))
	r.assets.WithLabelValues("failed").Add(float64(report.AssetsFailed()))
	r.files.Add(float64(report.FilesCopied()))
	r.duration.Set(report.Duration.Seconds())
	r.lastRun.SetToCurrentTime()
}

// WriteTextfile writes the current values in the text exposition format.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
