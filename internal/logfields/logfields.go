package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyProject    = "project"
	KeyPattern    = "pattern"
	KeyFile       = "file"
	KeyRepo       = "repository"
	KeyRevision   = "revision"
	KeyBase       = "base"
	KeyHead       = "head"
	KeyCount      = "count"
	KeyPath       = "path"
	KeyURL        = "url"
	KeyStatus     = "status"
	KeySource     = "source"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Project(id string) slog.Attr     { return slog.String(KeyProject, id) }
func Pattern(p string) slog.Attr      { return slog.String(KeyPattern, p) }
func File(f string) slog.Attr         { return slog.String(KeyFile, f) }
func Repository(r string) slog.Attr   { return slog.String(KeyRepo, r) }
func Revision(rev string) slog.Attr   { return slog.String(KeyRevision, rev) }
func Base(rev string) slog.Attr       { return slog.String(KeyBase, rev) }
func Head(rev string) slog.Attr       { return slog.String(KeyHead, rev) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func URL(u string) slog.Attr          { return slog.String(KeyURL, u) }
func Status(code int) slog.Attr       { return slog.Int(KeyStatus, code) }
func Source(name string) slog.Attr    { return slog.String(KeySource, name) }

// Projects renders a list of project identifiers as a single attribute.
func Projects(key string, ids []string) slog.Attr { return slog.Any(key, ids) }

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
