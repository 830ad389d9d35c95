/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package exchange reads and writes component lists as JSON documents.
// Input is validated against an embedded JSON schema before decoding.
package exchange

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"glyphedit/internal/component"
	"glyphedit/internal/entity"
)

//go:embed components.schema.json
var schemaJSON []byte

// ErrInvalid is wrapped by every schema validation failure.
var ErrInvalid = errors.New("invalid component document")

// ValidationError lists schema violations.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalid, strings.Join(e.Problems, "; "))
}

func (e *ValidationError) Unwrap() error { return ErrInvalid }

var compiled = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaJSON))
})

// Validate checks data against the component schema.
func Validate(data []byte) error {
	s, err := compiled()
	if err != nil {
		return fmt.Errorf("load schema: %w", err)
	}
	res, err := s.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		// not JSON at all
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if res.Valid() {
		return nil
	}
	ve := &ValidationError{}
	for _, re := range res.Errors() {
		ve.Problems = append(ve.Problems, re.String())
	}
	return ve
}

// DecodeComponents reads a JSON array of component records from r.
func DecodeComponents(r io.Reader) ([]component.Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read components: %w", err)
	}
	return Unmarshal(data)
}

// Unmarshal validates and decodes a component document.
func Unmarshal(data []byte) ([]component.Record, error) {
	if err := Validate(data); err != nil {
		return nil, err
	}
	var recs []component.Record
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, fmt.Errorf("decode components: %w", err)
	}
	return recs, nil
}

// EncodeComponents writes recs as an indented JSON array. Identifiers are
// never written.
func EncodeComponents(w io.Writer, recs []component.Record) error {
	data, err := Marshal(recs)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// Marshal encodes recs. Transforms must be finite.
func Marshal(recs []component.Record) ([]byte, error) {
	out := make([]component.Record, len(recs))
	for i, r := range recs {
		r.Identifier = ""
		out[i] = r
	}
	if out == nil {
		out = []component.Record{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return nil, fmt.Errorf("encode components: %w", err)
	}
	return buf.Bytes(), nil
}

// ImportList decodes data and imports every record with fresh ids from alloc.
func ImportList(alloc *entity.Allocator, data []byte) (*component.List, error) {
	recs, err := Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return component.ImportAll(alloc, recs), nil
}

// ExportList encodes l.
func ExportList(l *component.List) ([]byte, error) { return Marshal(l.ExportAll()) }
