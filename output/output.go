// Package output serializes an object table.
//
// The document is a list of [tag, state] pairs in table order. State is
// the entity's structural projection, so the document holds no object
// references and can be consumed without this module.
package output

import (
	"bytes"
	"io"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/ardanlabs/babbisch/errors"
	"github.com/ardanlabs/babbisch/objtable"
)

// Format names a serialization format.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
)

// Formats lists the supported formats.
var Formats = []Format{JSON, YAML}

// ParseFormat accepts a format name case-insensitively; "yml" is YAML.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	}
	return "", errors.Wrapf(errors.ErrInvalidInput, "unsupported format %q (supported: json, yaml)", s)
}

// Pairs projects the table onto [tag, state] pairs.
func Pairs(tbl *objtable.Table) [][]any {
	out := make([][]any, 0, tbl.Len())
	for _, e := range tbl.Entries() {
		out = append(out, []any{e.Tag, e.Object.State()})
	}
	return out
}

// Marshal renders the table in the given format.
func Marshal(tbl *objtable.Table, f Format) ([]byte, error) {
	if tbl == nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, "no object table")
	}

	pairs := Pairs(tbl)

	switch f {
	case JSON:
		data, err := json.MarshalIndent(pairs, "", "  ")
		if err != nil {
			return nil, errors.Wrap(err, "failed to marshal objects to JSON")
		}
		return append(data, '\n'), nil

	case YAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(pairs); err != nil {
			return nil, errors.Wrap(err, "failed to marshal objects to YAML")
		}
		if err := enc.Close(); err != nil {
			return nil, errors.Wrap(err, "failed to marshal objects to YAML")
		}
		return buf.Bytes(), nil
	}

	return nil, errors.Wrapf(errors.ErrInvalidInput, "unsupported format %q", f)
}

// Write renders the table to w.
func Write(w io.Writer, tbl *objtable.Table, f Format) error {
	data, err := Marshal(tbl, f)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return errors.Wrap(err, "failed to write objects")
	}
	return nil
}
