package churn

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"

	"github.com/sells-group/churn-cli/internal/feature"
)

// Pipeline is the single persisted unit: a fitted encoder and a fitted
// classifier. The two are saved and loaded together because their
// compatibility (encoded column order and width) is the correctness
// invariant; neither is ever loaded on its own.
type Pipeline struct {
	Encoder    *feature.Encoder
	Classifier Classifier
}

// NewPipeline couples an unfitted encoder with an unfitted classifier.
func NewPipeline(enc *feature.Encoder, clf Classifier) *Pipeline {
	return &Pipeline{Encoder: enc, Classifier: clf}
}

// Fit fits the encoder on the frame, transforms it, and fits the classifier
// on the encoded matrix.
func (p *Pipeline) Fit(f feature.Frame, y []float64) error {
	if err := p.Encoder.Fit(f); err != nil {
		return err
	}
	X, err := p.Encoder.Transform(f)
	if err != nil {
		return err
	}
	return p.Classifier.Fit(X, y)
}

// PredictProba transforms the frame through the fitted encoder and returns
// the positive-class probability per row.
func (p *Pipeline) PredictProba(f feature.Frame) ([]float64, error) {
	X, err := p.Encoder.Transform(f)
	if err != nil {
		return nil, err
	}
	return p.Classifier.PredictProba(X)
}

// artifact is the serialized envelope. The classifier payload is kind-tagged
// so Load can reconstruct the right implementation.
type artifact struct {
	Version    int              `json:"version"`
	Encoder    *feature.Encoder `json:"encoder"`
	Kind       string           `json:"classifier_kind"`
	Classifier json.RawMessage  `json:"classifier"`
}

const artifactVersion = 1

// Save writes the pipeline as one JSON blob, overwriting any existing
// artifact at path. The write is atomic (temp file + rename).
func (p *Pipeline) Save(path string) error {
	clfJSON, err := json.Marshal(p.Classifier)
	if err != nil {
		return eris.Wrap(err, "churn: marshal classifier")
	}
	blob, err := json.MarshalIndent(artifact{
		Version:    artifactVersion,
		Encoder:    p.Encoder,
		Kind:       p.Classifier.Kind(),
		Classifier: clfJSON,
	}, "", "  ")
	if err != nil {
		return eris.Wrap(err, "churn: marshal artifact")
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tmp-model-*")
	if err != nil {
		return eris.Wrapf(err, "churn: create temp file in %s", dir)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck

	if _, err := tmp.Write(blob); err != nil {
		tmp.Close() //nolint:errcheck
		return eris.Wrapf(err, "churn: write artifact %s", path)
	}
	if err := tmp.Close(); err != nil {
		return eris.Wrapf(err, "churn: close artifact %s", path)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return eris.Wrapf(err, "churn: rename artifact into %s", path)
	}
	return nil
}

// Load reads a saved pipeline. A missing artifact is an error: there is no
// implicit training fallback.
func Load(path string) (*Pipeline, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "churn: read artifact %s (run train first)", path)
	}

	var a artifact
	if err := json.Unmarshal(blob, &a); err != nil {
		return nil, eris.Wrapf(err, "churn: unmarshal artifact %s", path)
	}
	if a.Version != artifactVersion {
		return nil, eris.Errorf("churn: artifact version %d, expected %d", a.Version, artifactVersion)
	}
	if a.Encoder == nil || !a.Encoder.Fitted {
		return nil, eris.Errorf("churn: artifact %s has no fitted encoder", path)
	}

	factory, ok := classifierKinds[a.Kind]
	if !ok {
		return nil, eris.Errorf("churn: unknown classifier kind %q", a.Kind)
	}
	clf := factory()
	if err := json.Unmarshal(a.Classifier, clf); err != nil {
		return nil, eris.Wrapf(err, "churn: unmarshal %s classifier", a.Kind)
	}

	return &Pipeline{Encoder: a.Encoder, Classifier: clf}, nil
}
