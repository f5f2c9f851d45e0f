package eval

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

var ErrInvalidParams = errors.New("invalid evaluation parameters")

// LoadParams reads a JSON parameter file. Fields missing from the file
// keep their default values.
func LoadParams(path string) (Params, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Params{}, errors.Wrapf(err, "reading %s", path)
	}
	params := DefaultParams()
	if err := json.Unmarshal(data, &params); err != nil {
		return Params{}, errors.Wrapf(ErrInvalidParams, "%s: %v", path, err)
	}
	return params, nil
}

// SaveParams writes params as indented JSON. The file is replaced
// atomically through a temporary file in the same directory.
func SaveParams(path string, params Params) error {
	data, err := json.MarshalIndent(params, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding parameters")
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp*")
	if err != nil {
		return errors.Wrap(err, "creating temporary file")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "writing %s", tmp.Name())
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "closing %s", tmp.Name())
	}
	return errors.Wrapf(os.Rename(tmp.Name(), path), "renaming onto %s", path)
}
