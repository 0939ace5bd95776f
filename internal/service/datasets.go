package service

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"steam-review-service/internal/dataset"
)

// InputsRoute is the URL prefix the inputs directory is served under
const InputsRoute = "/svm/inputs"

var (
	// ErrDatasetNotFound is returned when a referenced CSV does not exist
	ErrDatasetNotFound = errors.New("dataset not found")
	// ErrInvalidName is returned for empty or directory-like file names
	ErrInvalidName = errors.New("invalid dataset name")
)

// UploadObserver is notified of stored uploads
type UploadObserver interface {
	DatasetUploaded(size int64)
}

// DatasetService manages uploaded CSV datasets
type DatasetService struct {
	inputsDir string
	observer  UploadObserver
	logger    *zap.Logger
}

// NewDatasetService stores datasets in inputsDir. observer may be nil.
func NewDatasetService(inputsDir string, observer UploadObserver, logger *zap.Logger) *DatasetService {
	return &DatasetService{
		inputsDir: inputsDir,
		observer:  observer,
		logger:    logger,
	}
}

// Save writes the content of r as name and returns its public path
func (s *DatasetService) Save(name string, r io.Reader) (string, error) {
	base := filepath.Base(name)
	if base == "." || base == ".." || base == string(filepath.Separator) || base == "" {
		return "", ErrInvalidName
	}

	if err := os.MkdirAll(s.inputsDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create inputs directory: %w", err)
	}

	dst := filepath.Join(s.inputsDir, base)
	f, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("failed to create dataset file: %w", err)
	}
	size, err := io.Copy(f, r)
	if err != nil {
		f.Close()
		return "", fmt.Errorf("failed to write dataset file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to write dataset file: %w", err)
	}

	if s.observer != nil {
		s.observer.DatasetUploaded(size)
	}
	s.logger.Info("Dataset uploaded", zap.String("path", dst), zap.Int64("bytes", size))

	return path.Join(InputsRoute, base), nil
}

// List returns the public paths of every stored CSV, sorted by name
func (s *DatasetService) List() ([]string, error) {
	if err := os.MkdirAll(s.inputsDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create inputs directory: %w", err)
	}

	matches, err := filepath.Glob(filepath.Join(s.inputsDir, "*.csv"))
	if err != nil {
		return nil, fmt.Errorf("failed to list datasets: %w", err)
	}
	sort.Strings(matches)

	paths := make([]string, 0, len(matches))
	for _, m := range matches {
		paths = append(paths, path.Join(InputsRoute, filepath.Base(m)))
	}
	return paths, nil
}

// Preview returns the columns and first head rows of a stored CSV
func (s *DatasetService) Preview(ref string, head int) (*dataset.PreviewResult, error) {
	table, err := s.load(ref)
	if err != nil {
		return nil, err
	}
	return dataset.Preview(table, head), nil
}

// Heatmap returns the correlation matrix of a stored CSV's numeric columns
func (s *DatasetService) Heatmap(ref string) (*dataset.CorrelationResult, error) {
	table, err := s.load(ref)
	if err != nil {
		return nil, err
	}
	return dataset.Correlate(table), nil
}

// load resolves ref by base name inside the inputs directory
func (s *DatasetService) load(ref string) (*dataset.Table, error) {
	base := filepath.Base(ref)
	if base == "." || base == ".." || base == string(filepath.Separator) {
		return nil, ErrInvalidName
	}

	table, err := dataset.LoadTable(filepath.Join(s.inputsDir, base))
	if errors.Is(err, dataset.ErrInputNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrDatasetNotFound, base)
	}
	return table, err
}
