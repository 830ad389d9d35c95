/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package component

import (
	"encoding/binary"
	"errors"
	"math"
)

var ErrCorruptSnapshot = errors.New("corrupt component snapshot")

// EncodeSnapshot packs records into the session's undo form. Coefficients
// are stored as raw float64 bits, so NaN and Inf survive unchanged.
// Identifiers are not kept.
func EncodeSnapshot(recs []Record) []byte {
	b := binary.AppendUvarint(nil, uint64(len(recs)))
	for _, r := range recs {
		b = binary.AppendUvarint(b, uint64(len(r.Base)))
		b = append(b, r.Base...)
		for _, v := range r.Transform {
			b = binary.LittleEndian.AppendUint64(b, math.Float64bits(v))
		}
	}
	return b
}

// DecodeSnapshot reverses EncodeSnapshot.
func DecodeSnapshot(b []byte) ([]Record, error) {
	n, k := binary.Uvarint(b)
	if k <= 0 {
		return nil, ErrCorruptSnapshot
	}
	b = b[k:]
	// every record needs at least one length byte and six coefficients
	if n > uint64(len(b))/49 {
		return nil, ErrCorruptSnapshot
	}
	recs := make([]Record, 0, n)
	for i := uint64(0); i < n; i++ {
		size, k := binary.Uvarint(b)
		if k <= 0 || size > uint64(len(b)-k) {
			return nil, ErrCorruptSnapshot
		}
		b = b[k:]
		r := Record{Base: string(b[:size])}
		b = b[size:]
		if len(b) < 48 {
			return nil, ErrCorruptSnapshot
		}
		for j := range r.Transform {
			r.Transform[j] = math.Float64frombits(binary.LittleEndian.Uint64(b))
			b = b[8:]
		}
		recs = append(recs, r)
	}
	if len(b) != 0 {
		return nil, ErrCorruptSnapshot
	}
	return recs, nil
}
