// Package artifact loads the serialized model, preprocessor and metadata
// documents a serving process needs, and adapts them to the core ports.
package artifact

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/goccy/go-json"
	log "github.com/sirupsen/logrus"

	"house-price-service/internal/core/domain"
	ports "house-price-service/internal/core/ports/output"
)

// Paths locates the three artifact files.
type Paths struct {
	Model        string
	Preprocessor string
	Metadata     string
}

// Bundle is the immutable set of loaded artifacts. RawMetadata is the metadata
// file exactly as it was read.
type Bundle struct {
	Model       ports.Predictor
	Encoder     ports.FeatureEncoder
	Metadata    *domain.ModelMetadata
	RawMetadata []byte
}

// Load reads and validates all three artifacts. Every error names the file
// that caused it.
func Load(paths Paths) (*Bundle, error) {
	var modelDoc modelDocument
	if err := decodeFile(paths.Model, &modelDoc); err != nil {
		return nil, err
	}
	model, err := newModelFromDocument(modelDoc)
	if err != nil {
		return nil, fmt.Errorf("model artifact %s: %w", paths.Model, err)
	}

	var encDoc encoderDocument
	if err := decodeFile(paths.Preprocessor, &encDoc); err != nil {
		return nil, err
	}
	encoder, err := newEncoderFromDocument(encDoc)
	if err != nil {
		return nil, fmt.Errorf("preprocessor artifact %s: %w", paths.Preprocessor, err)
	}

	if model.Width() != encoder.Width() {
		return nil, fmt.Errorf("%w: model %s expects %d features, preprocessor %s produces %d",
			domain.ErrArtifactMismatch, paths.Model, model.Width(), paths.Preprocessor, encoder.Width())
	}

	raw, err := readFile(paths.Metadata)
	if err != nil {
		return nil, err
	}
	metadata, err := ParseMetadata(raw)
	if err != nil {
		return nil, fmt.Errorf("metadata artifact %s: %w", paths.Metadata, err)
	}

	log.WithFields(log.Fields{
		"model":        metadata.Name(),
		"features":     model.Width(),
		"locations":    len(encoder.Locations()),
		"model_path":   paths.Model,
		"preprocessor": paths.Preprocessor,
	}).Info("artifacts loaded")

	return &Bundle{
		Model:       model,
		Encoder:     encoder,
		Metadata:    metadata,
		RawMetadata: raw,
	}, nil
}

// ParseMetadata decodes a metadata document; it must be a JSON object.
func ParseMetadata(raw []byte) (*domain.ModelMetadata, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("%w: metadata must be a JSON object", domain.ErrArtifactCorrupt)
	}
	var m domain.ModelMetadata
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrArtifactCorrupt, err)
	}
	return &m, nil
}

func readFile(path string) ([]byte, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", domain.ErrArtifactMissing)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrArtifactMissing, path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return raw, nil
}

func decodeFile(path string, v interface{}) error {
	raw, err := readFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrArtifactCorrupt, path, err)
	}
	return nil
}
