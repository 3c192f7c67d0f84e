package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/juju/loggo"
	"github.com/san-kum/turingsim/internal/dynamo"
	"github.com/san-kum/turingsim/internal/grid"
	"github.com/san-kum/turingsim/internal/metrics"
)

var logger = loggo.GetLogger("turingsim.storage")

const (
	metadataFile = "metadata.json"
	uFile        = "u.csv"
	vFile        = "v.csv"
	historyFile  = "history.csv"
)

var (
	ErrNoHistory   = errors.New("storage: run has no recorded history")
	ErrInvalidName = errors.New("storage: invalid run name")
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Timestamp  time.Time          `json:"timestamp"`
	Seed       int64              `json:"seed"`
	A          float64            `json:"a"`
	B          float64            `json:"b"`
	Tau        float64            `json:"tau"`
	K          float64            `json:"k"`
	Size       int                `json:"size"`
	HalfWidth  float64            `json:"half_width"`
	Dx         float64            `json:"dx"`
	Dt         float64            `json:"dt"`
	TotalTime  float64            `json:"total_time"`
	Steps      int                `json:"steps"`
	StepsTaken int                `json:"steps_taken"`
	ElapsedMs  float64            `json:"elapsed_ms"`
	Metrics    map[string]float64 `json:"metrics"`
}

// NewMetadata describes a finished run.
func NewMetadata(name string, p dynamo.Params, result *dynamo.Result) RunMetadata {
	return RunMetadata{
		Name:       name,
		Timestamp:  time.Now(),
		Seed:       p.Seed,
		A:          p.A,
		B:          p.B,
		Tau:        p.Tau,
		K:          p.K,
		Size:       p.Size,
		HalfWidth:  p.HalfWidth,
		Dx:         p.Dx,
		Dt:         p.Dt,
		TotalTime:  p.TotalTime,
		Steps:      p.Steps,
		StepsTaken: result.StepsTaken,
		ElapsedMs:  float64(result.Elapsed.Microseconds()) / 1000,
		Metrics:    result.Metrics,
	}
}

// Save writes metadata, the final U and V fields and the optional history
// into a fresh run directory and returns the run id.
func (s *Store) Save(name string, p dynamo.Params, result *dynamo.Result, history []metrics.Sample) (string, error) {
	if name == "" {
		name = "run"
	}
	if err := checkName(name); err != nil {
		return "", err
	}
	meta := NewMetadata(name, p, result)
	meta.ID = fmt.Sprintf("%s_%d", name, meta.Timestamp.UnixNano())
	runDir := filepath.Join(s.baseDir, meta.ID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeField(filepath.Join(runDir, uFile), result.U); err != nil {
		return "", err
	}
	if err := writeField(filepath.Join(runDir, vFile), result.V); err != nil {
		return "", err
	}
	if len(history) > 0 {
		if err := writeHistory(filepath.Join(runDir, historyFile), history); err != nil {
			return "", err
		}
	}

	logger.Infof("saved run %s to %s", meta.ID, runDir)
	return meta.ID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeField(path string, field *grid.Field) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := WriteFieldCSV(w, field); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

// WriteFieldCSV writes one CSV record per grid row with full float precision.
func WriteFieldCSV(w *csv.Writer, field *grid.Field) error {
	n := field.Size()
	record := make([]string, n)
	for i := 0; i < n; i++ {
		for j, v := range field.Row(i) {
			record[j] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return nil
}

func writeHistory(path string, history []metrics.Sample) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"step", "time", "mean_u", "mean_v", "contrast"}); err != nil {
		return err
	}
	for _, h := range history {
		row := []string{
			strconv.Itoa(h.Step),
			strconv.FormatFloat(h.Time, 'f', 6, 64),
			strconv.FormatFloat(h.MeanU, 'g', -1, 64),
			strconv.FormatFloat(h.MeanV, 'g', -1, 64),
			strconv.FormatFloat(h.Contrast, 'g', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns the metadata of every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			logger.Debugf("skipping %s: %v", entry.Name(), err)
			continue
		}
		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

// checkName rejects names that would resolve outside the base directory.
func checkName(name string) error {
	if name == "" || name == "." || strings.Contains(name, "..") || strings.ContainsAny(name, `/\`) ||
		filepath.Base(name) != name || filepath.IsAbs(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	if err := checkName(runID); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadFields reads back the final U and V of a run. Both fields must match
// the size recorded in the run's metadata.
func (s *Store) LoadFields(runID string) (u, v *grid.Field, err error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	u, err = readField(filepath.Join(s.baseDir, runID, uFile))
	if err != nil {
		return nil, nil, err
	}
	v, err = readField(filepath.Join(s.baseDir, runID, vFile))
	if err != nil {
		return nil, nil, err
	}
	for _, f := range []*grid.Field{u, v} {
		if f.Size() != meta.Size {
			return nil, nil, fmt.Errorf("%s: %w: field %d vs metadata %d", runID, grid.ErrSizeMismatch, f.Size(), meta.Size)
		}
	}
	return u, v, nil
}

func readField(path string) (*grid.Field, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, err
	}

	rows := make([][]float64, len(records))
	for i, record := range records {
		rows[i] = make([]float64, len(record))
		for j, cell := range record {
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("%s: row %d col %d: %w", filepath.Base(path), i, j, err)
			}
			rows[i][j] = v
		}
	}

	return grid.FromRows(rows)
}

func (s *Store) LoadHistory(runID string) ([]metrics.Sample, error) {
	if err := checkName(runID); err != nil {
		return nil, err
	}
	file, err := os.Open(filepath.Join(s.baseDir, runID, historyFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoHistory
		}
		return nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, ErrNoHistory
	}

	samples := make([]metrics.Sample, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) < 5 {
			continue
		}
		var smp metrics.Sample
		var perr error
		parse := func(s string) float64 {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil && perr == nil {
				perr = err
			}
			return v
		}
		step, err := strconv.Atoi(record[0])
		if err != nil {
			continue
		}
		smp.Step = step
		smp.Time = parse(record[1])
		smp.MeanU = parse(record[2])
		smp.MeanV = parse(record[3])
		smp.Contrast = parse(record[4])
		if perr != nil {
			continue
		}
		samples = append(samples, smp)
	}

	return samples, nil
}
