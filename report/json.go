package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/Yasabs10/panelreader/model"
)

// WriteJSON writes the reading-order artifact to w, indented with four
// spaces.
func WriteJSON(w io.Writer, result *model.ReadingOrder) error {
	data, err := json.MarshalIndent(result, "", "    ")
	if err != nil {
		return fmt.Errorf("report: encoding reading order: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("report: writing reading order: %w", err)
	}
	return nil
}

// WriteJSONFile writes the reading-order artifact to path.
func WriteJSONFile(path string, result *model.ReadingOrder) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("report: creating %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(f, result)
}

// ReadJSON parses a reading-order artifact from r.
func ReadJSON(r io.Reader) (*model.ReadingOrder, error) {
	var result model.ReadingOrder
	if err := json.NewDecoder(r).Decode(&result); err != nil {
		return nil, fmt.Errorf("report: decoding reading order: %w", err)
	}
	return &result, nil
}

// ReadJSONFile parses a reading-order artifact from path.
func ReadJSONFile(path string) (*model.ReadingOrder, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("report: opening %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
