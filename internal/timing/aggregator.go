package timing

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// Aggregator merges every record file of a records directory into one mapping.
type Aggregator struct {
	dir    string
	logger *slog.Logger
}

// AggregatorOption configures an Aggregator.
type AggregatorOption func(*Aggregator)

// WithAggregatorLogger sets the structured logger.
func WithAggregatorLogger(logger *slog.Logger) AggregatorOption {
	return func(a *Aggregator) {
		a.logger = logger
	}
}

// NewAggregator creates an Aggregator reading records from dir.
func NewAggregator(dir string, opts ...AggregatorOption) *Aggregator {
	a := &Aggregator{
		dir:    dir,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// LoadAll reads every timing.*.json file and merges their keys into one mapping.
//
// Files are visited in directory enumeration order and later files overwrite
// earlier ones, so a name present in two files resolves to either value.
// The first unreadable or malformed file aborts the whole aggregation.
// A missing directory yields an empty mapping.
func (a *Aggregator) LoadAll() (map[string]float64, error) {
	paths, err := a.recordPaths()
	if err != nil {
		return nil, err
	}

	res := make(map[string]float64, len(paths))
	for _, path := range paths {
		timings, err := loadFile(path)
		if err != nil {
			return nil, err
		}
		for name, seconds := range timings {
			res[name] = seconds
		}
	}

	a.logger.Debug("timing records loaded", "dir", a.dir, "files", len(paths), "names", len(res))
	return res, nil
}

// recordPaths lists the record files of the directory. The directory path is
// taken literally; only entry names are matched against FilePattern.
func (a *Aggregator) recordPaths() ([]string, error) {
	entries, err := os.ReadDir(a.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list timing records in %s: %w", a.dir, err)
	}

	var paths []string
	for _, e := range entries {
		ok, err := filepath.Match(FilePattern, e.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to match timing record %s: %w", e.Name(), err)
		}
		if ok {
			paths = append(paths, filepath.Join(a.dir, e.Name()))
		}
	}
	return paths, nil
}

// LoadRecords is LoadAll ordered by name.
func (a *Aggregator) LoadRecords() ([]Record, error) {
	timings, err := a.LoadAll()
	if err != nil {
		return nil, err
	}
	return SortedRecords(timings), nil
}

func loadFile(path string) (map[string]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open timing record %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	timings, err := decodeTimings(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode timing record %s: %w", path, err)
	}
	return timings, nil
}
