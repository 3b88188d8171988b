package model

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/ezoic/scoreprep/pkg/errors"
)

// FormatVersion is the only export envelope version understood by LoadSpec.
const FormatVersion = "1.0"

// Spec is the metadata header of an exported model.
type Spec struct {
	Name          string `json:"name"`           // e.g. "ColumnTransformer"
	FormatVersion string `json:"format_version"` // envelope version
	Fingerprint   string `json:"fingerprint,omitempty"`
}

// Exported is a model exported as JSON: a Spec plus raw parameters.
type Exported struct {
	Spec   Spec            `json:"model_spec"`
	Params json.RawMessage `json:"params"`
}

// ExportModel writes params under a versioned envelope named modelName.
//
// Example:
//
//	var buf bytes.Buffer
//	err := model.ExportModel("ColumnTransformer", params, &buf)
func ExportModel(modelName string, params interface{}, w io.Writer) error {
	paramsJSON, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("failed to marshal params: %w", err)
	}

	out := Exported{
		Spec: Spec{
			Name:          modelName,
			FormatVersion: FormatVersion,
			Fingerprint:   Fingerprint(params),
		},
		Params: paramsJSON,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(&out); err != nil {
		return fmt.Errorf("failed to encode model: %w", err)
	}
	return nil
}

// LoadSpecFromFile reads an exported model envelope from filename.
func LoadSpecFromFile(filename string) (*Exported, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return LoadSpec(file)
}

// LoadSpec reads and validates an exported model envelope.
func LoadSpec(r io.Reader) (*Exported, error) {
	var exported Exported
	if err := json.NewDecoder(r).Decode(&exported); err != nil {
		return nil, fmt.Errorf("failed to decode JSON: %w", err)
	}

	if exported.Spec.FormatVersion == "" {
		return nil, errors.NewValueError("LoadSpec", "format_version is required")
	}
	if exported.Spec.FormatVersion != FormatVersion {
		return nil, errors.NewValueError("LoadSpec",
			fmt.Sprintf("unsupported format version: %s", exported.Spec.FormatVersion))
	}
	if exported.Spec.Name == "" {
		return nil, errors.NewValueError("LoadSpec", "model name is required")
	}

	return &exported, nil
}

// DecodeParams unmarshals the envelope's params into v after checking the
// model name.
func (e *Exported) DecodeParams(modelName string, v interface{}) error {
	if e.Spec.Name != modelName {
		return errors.NewValueError("DecodeParams",
			fmt.Sprintf("expected %s, got %s", modelName, e.Spec.Name))
	}
	if err := json.Unmarshal(e.Params, v); err != nil {
		return fmt.Errorf("failed to unmarshal params: %w", err)
	}
	return nil
}
