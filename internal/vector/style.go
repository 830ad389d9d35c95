/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

// Styles and paint definitions.

type Color struct{ R, G, B, A uint8 }

var (
	Black       = Color{0, 0, 0, 255}
	White       = Color{255, 255, 255, 255}
	Transparent = Color{0, 0, 0, 0}
)

// Grey8 returns an opaque grey with all channels set to v.
func Grey8(v uint8) Color { return Color{v, v, v, 255} }

// Grey returns an opaque grey for a level in [0,1].
func Grey(level float64) Color {
	level = max(0, min(1, level))
	return Grey8(uint8(level*255 + 0.5))
}

// Stroke describes an outline paint.
type Stroke struct {
	Color Color
	Width float64
}
