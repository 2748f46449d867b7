package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// decodeData reads a --data value into out. A leading @ names a file, "-" reads in. Unknown
// fields are rejected so typos do not silently drop a change.
func decodeData(raw string, in io.Reader, out any) error {
	var data []byte
	switch {
	case raw == "":
		return fmt.Errorf("--data is required")
	case raw == "-":
		read, err := io.ReadAll(in)
		if err != nil {
			return fmt.Errorf("read data: %w", err)
		}
		data = read
	case strings.HasPrefix(raw, "@"):
		read, err := os.ReadFile(strings.TrimPrefix(raw, "@"))
		if err != nil {
			return fmt.Errorf("read data: %w", err)
		}
		data = read
	default:
		data = []byte(raw)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}

// writeOutput writes data to path, or to w when path is empty or "-".
func writeOutput(w io.Writer, path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := w.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
