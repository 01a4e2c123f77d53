package artifact

import (
	"fmt"
	"math"
	"sort"

	"house-price-service/internal/core/domain"
	ports "house-price-service/internal/core/ports/output"
)

const (
	encoderTypeColumnTransformer = "column_transformer"

	featureTotalSqft = "total_sqft"
	featureBath      = "bath"
	featureBHK       = "bhk"
	featureLocation  = "location"
)

// legacyNumericColumns is the fixed prefix of a legacy data_columns list.
var legacyNumericColumns = []string{featureTotalSqft, featureBath, featureBHK}

type scalerDocument struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// encoderDocument accepts both preprocessor layouts: a column transformer
// description or a legacy flat column list.
type encoderDocument struct {
	Type               string          `json:"type,omitempty"`
	NumericFeatures    []string        `json:"numeric_features,omitempty"`
	CategoricalFeature string          `json:"categorical_feature,omitempty"`
	Categories         []string        `json:"categories,omitempty"`
	Scaler             *scalerDocument `json:"scaler,omitempty"`
	DataColumns        []string        `json:"data_columns,omitempty"`
}

// OneHotEncoder emits the numeric features (optionally standardised) followed
// by a one-hot block over the fitted location vocabulary.
type OneHotEncoder struct {
	numeric   []string
	mean      []float64
	scale     []float64
	index     map[string]int
	locations []string
}

var _ ports.FeatureEncoder = (*OneHotEncoder)(nil)

// NewOneHotEncoder builds an encoder without scaling. categories keeps its
// fitted order, which fixes the position of each indicator.
func NewOneHotEncoder(numeric []string, categories []string) (*OneHotEncoder, error) {
	if len(numeric) == 0 {
		return nil, fmt.Errorf("%w: no numeric features", domain.ErrArtifactCorrupt)
	}
	seen := make(map[string]bool, len(numeric))
	for _, name := range numeric {
		switch name {
		case featureTotalSqft, featureBath, featureBHK:
		default:
			return nil, fmt.Errorf("%w: unknown numeric feature %q", domain.ErrUnsupportedFormat, name)
		}
		if seen[name] {
			return nil, fmt.Errorf("%w: duplicate numeric feature %q", domain.ErrArtifactCorrupt, name)
		}
		seen[name] = true
	}

	index := make(map[string]int, len(categories))
	for i, c := range categories {
		if _, dup := index[c]; dup {
			return nil, fmt.Errorf("%w: duplicate category %q", domain.ErrArtifactCorrupt, c)
		}
		index[c] = i
	}

	locations := make([]string, len(categories))
	copy(locations, categories)
	sort.Strings(locations)

	n := make([]string, len(numeric))
	copy(n, numeric)

	return &OneHotEncoder{numeric: n, index: index, locations: locations}, nil
}

func newEncoderFromDocument(doc encoderDocument) (*OneHotEncoder, error) {
	if doc.DataColumns != nil {
		if len(doc.DataColumns) < len(legacyNumericColumns) {
			return nil, fmt.Errorf("%w: data_columns needs at least %d entries",
				domain.ErrArtifactCorrupt, len(legacyNumericColumns))
		}
		return NewOneHotEncoder(legacyNumericColumns, doc.DataColumns[len(legacyNumericColumns):])
	}

	if doc.Type != encoderTypeColumnTransformer {
		return nil, fmt.Errorf("%w: preprocessor type %q", domain.ErrUnsupportedFormat, doc.Type)
	}
	if doc.CategoricalFeature != "" && doc.CategoricalFeature != featureLocation {
		return nil, fmt.Errorf("%w: categorical feature %q", domain.ErrUnsupportedFormat, doc.CategoricalFeature)
	}

	enc, err := NewOneHotEncoder(doc.NumericFeatures, doc.Categories)
	if err != nil {
		return nil, err
	}

	if doc.Scaler != nil {
		if len(doc.Scaler.Mean) != len(doc.NumericFeatures) || len(doc.Scaler.Scale) != len(doc.NumericFeatures) {
			return nil, fmt.Errorf("%w: scaler does not match numeric features", domain.ErrArtifactCorrupt)
		}
		for _, s := range doc.Scaler.Scale {
			if s == 0 {
				return nil, fmt.Errorf("%w: scaler has a zero scale", domain.ErrArtifactCorrupt)
			}
		}
		enc.mean = append([]float64(nil), doc.Scaler.Mean...)
		enc.scale = append([]float64(nil), doc.Scaler.Scale...)
	}
	return enc, nil
}

func (e *OneHotEncoder) Width() int {
	return len(e.numeric) + len(e.index)
}

func (e *OneHotEncoder) Locations() []string {
	out := make([]string, len(e.locations))
	copy(out, e.locations)
	return out
}

func (e *OneHotEncoder) HasLocation(location string) bool {
	_, ok := e.index[location]
	return ok
}

func (e *OneHotEncoder) Encode(attrs domain.HouseAttributes) ([]float64, error) {
	x := make([]float64, e.Width())
	for i, name := range e.numeric {
		v := numericValue(attrs, name)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%s: %w", name, domain.ErrNonFinite)
		}
		if e.scale != nil {
			v = (v - e.mean[i]) / e.scale[i]
		}
		x[i] = v
	}
	if pos, ok := e.index[attrs.Location]; ok {
		x[len(e.numeric)+pos] = 1
	}
	return x, nil
}

func numericValue(attrs domain.HouseAttributes, name string) float64 {
	switch name {
	case featureTotalSqft:
		return attrs.TotalSqft
	case featureBath:
		return attrs.Bath
	case featureBHK:
		return float64(attrs.BHK)
	}
	return 0
}
