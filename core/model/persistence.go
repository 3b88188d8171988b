package model

import (
	"encoding/gob"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// SaveModel writes a gob encoding of m to filename, creating the parent
// directory if needed and overwriting any existing file.
//
// Example:
//
//	if err := model.SaveModel(preprocessor, "artifacts/preprocessor.gob"); err != nil {
//	    return err
//	}
func SaveModel(m interface{}, filename string) (err error) {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close file: %w", cerr)
		}
	}()

	return SaveModelToWriter(m, file)
}

// SaveModelToWriter writes a gob encoding of m to w.
func SaveModelToWriter(m interface{}, w io.Writer) error {
	if err := gob.NewEncoder(w).Encode(m); err != nil {
		return fmt.Errorf("failed to encode model: %w", err)
	}
	return nil
}

// LoadModel decodes a model saved by SaveModel into m, which must be a
// pointer.
func LoadModel(m interface{}, filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return LoadModelFromReader(m, file)
}

// LoadModelFromReader decodes a gob-encoded model from r into m.
func LoadModelFromReader(m interface{}, r io.Reader) error {
	if err := gob.NewDecoder(r).Decode(m); err != nil {
		return fmt.Errorf("failed to decode model: %w", err)
	}
	return nil
}
