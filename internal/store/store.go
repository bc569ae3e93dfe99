package store

import (
	"encoding/gob"
	"io"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	json "github.com/goccy/go-json"
	"go.uber.org/multierr"

	"salarypredictor/internal/data"
	"salarypredictor/internal/models"
)

const (
	ModelFile   = "linear_model.gob"
	MetricsFile = "metrics.json"
	DataFile    = "training_data.json"
)

// TrainingData echoes the samples of a run as flat arrays for the front-end.
type TrainingData struct {
	XTrain []float64 `json:"x_train"`
	YTrain []float64 `json:"y_train"`
	XTest  []float64 `json:"x_test"`
	YTest  []float64 `json:"y_test"`
	XAll   []float64 `json:"x_all"`
	YAll   []float64 `json:"y_all"`
}

func NewTrainingData(all, train, test []data.Sample) TrainingData {
	return TrainingData{
		XTrain: data.Xs(train),
		YTrain: data.Ys(train),
		XTest:  data.Xs(test),
		YTest:  data.Ys(test),
		XAll:   data.Xs(all),
		YAll:   data.Ys(all),
	}
}

// Snapshot is everything one training run persists.
type Snapshot struct {
	Model   models.LinearModel
	Metrics models.Metrics
	Data    TrainingData
}

// Store keeps the latest snapshot as files in Dir.
type Store struct {
	Dir string
}

func New(dir string) *Store { return &Store{Dir: dir} }

func (s *Store) ModelPath() string { return filepath.Join(s.Dir, ModelFile) }

// Save replaces the persisted snapshot. Every file is renamed into place after it is fully written;
// the model file goes last so its presence marks a complete snapshot.
func (s *Store) Save(snap Snapshot) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return errors.Wrap(err, "create model dir")
	}
	if err := s.writeAtomic(DataFile, jsonEncoder(snap.Data)); err != nil {
		return err
	}
	if err := s.writeAtomic(MetricsFile, jsonEncoder(snap.Metrics)); err != nil {
		return err
	}
	return s.writeAtomic(ModelFile, func(w io.Writer) error {
		return gob.NewEncoder(w).Encode(snap.Model)
	})
}

// Load returns the persisted snapshot, or ok=false when nothing has been saved yet.
func (s *Store) Load() (*Snapshot, bool, error) {
	f, err := os.Open(s.ModelPath())
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, "open model")
	}
	defer f.Close()

	var snap Snapshot
	if err := gob.NewDecoder(f).Decode(&snap.Model); err != nil {
		return nil, false, errors.Wrapf(err, "decode %s", ModelFile)
	}
	if err := s.readJSON(MetricsFile, &snap.Metrics); err != nil {
		return nil, false, err
	}
	if err := s.readJSON(DataFile, &snap.Data); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, false, err
	}
	return &snap, true, nil
}

func (s *Store) readJSON(name string, v interface{}) error {
	b, err := os.ReadFile(filepath.Join(s.Dir, name))
	if err != nil {
		return errors.Wrapf(err, "read %s", name)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return errors.Wrapf(err, "decode %s", name)
	}
	return nil
}

func jsonEncoder(v interface{}) func(io.Writer) error {
	return func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "    ")
		return enc.Encode(v)
	}
}

func (s *Store) writeAtomic(name string, write func(io.Writer) error) (err error) {
	tmp, err := os.CreateTemp(s.Dir, "."+name+"-*.tmp")
	if err != nil {
		return errors.Wrapf(err, "create temp for %s", name)
	}
	defer func() {
		if err != nil {
			err = multierr.Append(err, removeIfExists(tmp.Name()))
		}
	}()

	if err = write(tmp); err != nil {
		_ = tmp.Close()
		return errors.Wrapf(err, "encode %s", name)
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return errors.Wrapf(err, "sync %s", name)
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrapf(err, "close %s", name)
	}
	if err = os.Rename(tmp.Name(), filepath.Join(s.Dir, name)); err != nil {
		return errors.Wrapf(err, "rename %s", name)
	}
	return nil
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
