package msdoc

import (
	"context"
	"io"
	"log/slog"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// Stats counts the structural anomalies that were recovered from during a
// decode. None of them abort the import.
type Stats struct {
	TruncatedRecords    int `json:"truncated_records"`
	OutOfRangePositions int `json:"out_of_range_positions"`
	UnknownControlCodes int `json:"unknown_control_codes"`
	IgnoredPrms         int `json:"ignored_prms"`
}

// Clean reports whether no anomaly was recorded.
func (s Stats) Clean() bool {
	return s == Stats{}
}

// diag logs recovered anomalies and counts them.
type diag struct {
	log   *slog.Logger
	stats *Stats
}

func newDiag(log *slog.Logger) *diag {
	if log == nil {
		log = discardLogger
	}
	return &diag{log: log, stats: &Stats{}}
}

func (d *diag) truncated(table string, attrs ...slog.Attr) {
	d.stats.TruncatedRecords++
	d.log.LogAttrs(context.Background(), slog.LevelWarn, "truncated record",
		append([]slog.Attr{slog.String("table", table)}, attrs...)...)
}

func (d *diag) outOfRange(what string, cp int) {
	d.stats.OutOfRangePositions++
	d.log.Warn("position out of range", "what", what, "cp", cp)
}

func (d *diag) unknownControl(cp int, code rune) {
	d.stats.UnknownControlCodes++
	d.log.Debug("unrecognized control code", "cp", cp, "code", int(code))
}

func (d *diag) ignoredPrm(cp int, prm uint16) {
	d.stats.IgnoredPrms++
	d.log.Debug("single sprm prm ignored", "cp", cp, "prm", prm)
}
