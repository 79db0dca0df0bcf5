package logfields

import "log/slog"

// Canonical log field names shared by the build stages.
const (
	KeyBuildID     = "build_id"
	KeyPage        = "page"
	KeyFile        = "file"
	KeyTemplate    = "template"
	KeyOutput      = "output"
	KeySource      = "source"
	KeyDestination = "destination"
	KeyKey         = "key"
	KeyCount       = "count"
	KeyStage       = "stage"
	KeyDurationMS  = "duration_ms"
	KeyError       = "error"
)

func BuildID(id string) slog.Attr     { return slog.String(KeyBuildID, id) }
func Page(index int) slog.Attr        { return slog.Int(KeyPage, index) }
func File(f string) slog.Attr         { return slog.String(KeyFile, f) }
func Template(t string) slog.Attr     { return slog.String(KeyTemplate, t) }
func Output(o string) slog.Attr       { return slog.String(KeyOutput, o) }
func Source(s string) slog.Attr       { return slog.String(KeySource, s) }
func Destination(d string) slog.Attr  { return slog.String(KeyDestination, d) }
func Key(k string) slog.Attr          { return slog.String(KeyKey, k) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func Stage(s string) slog.Attr        { return slog.String(KeyStage, s) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
