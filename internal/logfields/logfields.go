package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyStage      = "stage"
	KeyRepo       = "repository"
	KeyOwner      = "owner"
	KeyName       = "name"
	KeyModel      = "model"
	KeyPath       = "path"
	KeyFile       = "file"
	KeyURL        = "url"
	KeyBytes      = "bytes"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func Repository(r string) slog.Attr   { return slog.String(KeyRepo, r) }
func Owner(o string) slog.Attr        { return slog.String(KeyOwner, o) }
func Name(n string) slog.Attr         { return slog.String(KeyName, n) }
func Model(m string) slog.Attr        { return slog.String(KeyModel, m) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func File(f string) slog.Attr         { return slog.String(KeyFile, f) }
func URL(u string) slog.Attr          { return slog.String(KeyURL, u) }
func Bytes(n int) slog.Attr           { return slog.Int(KeyBytes, n) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
