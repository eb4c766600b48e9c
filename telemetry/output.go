package telemetry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/depthcharge/config"
)

// EventRecord is one row of events.csv.
type EventRecord struct {
	Tick   int32   `csv:"tick"`
	Kind   string  `csv:"kind"`
	Entity uint32  `csv:"entity"`
	X      float64 `csv:"x"`
	Depth  float64 `csv:"depth"`
	Z      float64 `csv:"z"`
	Value  float64 `csv:"value"`
}

// VesselRecord is one row of vessels.csv: a vessel at the end of a window.
type VesselRecord struct {
	Tick      int32   `csv:"tick"`
	ID        uint32  `csv:"id"`
	Role      string  `csv:"role"`
	X         float64 `csv:"x"`
	Depth     float64 `csv:"depth"`
	Z         float64 `csv:"z"`
	Speed     float64 `csv:"speed"`
	Yaw       float64 `csv:"yaw"`
	HitPoints float64 `csv:"hp"`
	Diesel    float64 `csv:"diesel"`
	Battery   float64 `csv:"battery"`
	Ballast   float64 `csv:"ballast"`
}

// VesselRecords flattens vessel states for vessels.csv.
func VesselRecords(tick int32, vessels []VesselState) []VesselRecord {
	rows := make([]VesselRecord, len(vessels))
	for i, v := range vessels {
		rows[i] = VesselRecord{
			Tick:      tick,
			ID:        v.ID,
			Role:      v.Role,
			X:         v.Pos[0],
			Depth:     -v.Pos[1],
			Z:         v.Pos[2],
			Speed:     v.Speed(),
			Yaw:       v.Yaw,
			HitPoints: v.HitPoints,
			Diesel:    v.Diesel,
			Battery:   v.Battery,
			Ballast:   v.Ballast,
		}
	}
	return rows
}

// csvLog appends rows of T to one file. The header goes out with the first
// non-empty batch.
type csvLog[T any] struct {
	name   string
	f      *os.File
	header bool
}

func openCSV[T any](om *OutputManager, name string) (*csvLog[T], error) {
	f, err := os.Create(filepath.Join(om.dir, name))
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", name, err)
	}
	om.files = append(om.files, f)
	return &csvLog[T]{name: name, f: f}, nil
}

func (l *csvLog[T]) append(rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	marshal := gocsv.MarshalWithoutHeaders
	if !l.header {
		marshal = gocsv.Marshal
	}
	if err := marshal(rows, l.f); err != nil {
		return fmt.Errorf("writing %s: %w", l.name, err)
	}
	l.header = true
	return nil
}

// OutputManager writes a run's CSV logs and config snapshot into one
// directory. A nil manager discards everything.
type OutputManager struct {
	dir   string
	files []*os.File

	windows   *csvLog[WindowStats]
	perf      *csvLog[PerfStatsCSV]
	bookmarks *csvLog[Bookmark]
	events    *csvLog[EventRecord]
	vessels   *csvLog[VesselRecord]
}

// NewOutputManager creates dir and the CSV files in it. Returns nil if dir
// is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}
	var err error
	om.windows, err = openCSV[WindowStats](om, "telemetry.csv")
	if err == nil {
		om.perf, err = openCSV[PerfStatsCSV](om, "perf.csv")
	}
	if err == nil {
		om.bookmarks, err = openCSV[Bookmark](om, "bookmarks.csv")
	}
	if err == nil {
		om.events, err = openCSV[EventRecord](om, "events.csv")
	}
	if err == nil {
		om.vessels, err = openCSV[VesselRecord](om, "vessels.csv")
	}
	if err != nil {
		om.Close()
		return nil, err
	}
	return om, nil
}

// WriteConfig saves the configuration as config.yaml.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteTelemetry appends a window to telemetry.csv.
func (om *OutputManager) WriteTelemetry(stats WindowStats) error {
	if om == nil {
		return nil
	}
	return om.windows.append([]WindowStats{stats})
}

// WritePerf appends the step timings of the window ending at windowEnd to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, windowEnd int32) error {
	if om == nil {
		return nil
	}
	return om.perf.append([]PerfStatsCSV{stats.ToCSV(windowEnd)})
}

// WriteBookmark appends a bookmark to bookmarks.csv.
func (om *OutputManager) WriteBookmark(b Bookmark) error {
	if om == nil {
		return nil
	}
	return om.bookmarks.append([]Bookmark{b})
}

// WriteEvents appends lifecycle events to events.csv.
func (om *OutputManager) WriteEvents(rows []EventRecord) error {
	if om == nil {
		return nil
	}
	return om.events.append(rows)
}

// WriteVessels appends vessel states to vessels.csv.
func (om *OutputManager) WriteVessels(rows []VesselRecord) error {
	if om == nil {
		return nil
	}
	return om.vessels.append(rows)
}

// Enabled reports whether output is written anywhere.
func (om *OutputManager) Enabled() bool { return om != nil }

// Close closes every file. Closing twice is a no-op.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}
	var errs []error
	for _, f := range om.files {
		errs = append(errs, f.Close())
	}
	om.files = nil
	return errors.Join(errs...)
}
