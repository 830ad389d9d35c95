/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package command defines the messages exchanged between editor components
// and the queue that defers their delivery to the end of the current event.
package command

import (
	"fmt"

	"glyphedit/internal/tools"
)

// Kind discriminates commands.
type Kind uint8

const (
	KindSetActiveTool Kind = iota + 1
	KindSetPreviewVisibility
)

// Origin says where a selection change came from. Only Local changes are
// announced on the bus; External ones arrived from the bus already.
type Origin uint8

const (
	Local Origin = iota
	External
)

func (o Origin) String() string {
	if o == External {
		return "external"
	}
	return "local"
}

// Command is a bus message. Only the field matching Kind is meaningful.
type Command struct {
	Kind    Kind
	Tool    tools.ToolID
	Preview bool
}

// SetActiveTool asks every interested component to switch to tool.
func SetActiveTool(tool tools.ToolID) Command {
	return Command{Kind: KindSetActiveTool, Tool: tool}
}

// SetPreviewVisibility announces that temporary preview is on or off.
func SetPreviewVisibility(active bool) Command {
	return Command{Kind: KindSetPreviewVisibility, Preview: active}
}

func (c Command) String() string {
	switch c.Kind {
	case KindSetActiveTool:
		return fmt.Sprintf("SetActiveTool(%s)", c.Tool)
	case KindSetPreviewVisibility:
		return fmt.Sprintf("SetPreviewVisibility(%t)", c.Preview)
	default:
		return fmt.Sprintf("Command(%d)", c.Kind)
	}
}

// Queue collects commands submitted while one input event is handled.
// The owner drains it once the event has been fully processed.
type Queue struct {
	pending []Command
}

func (q *Queue) Submit(c Command) { q.pending = append(q.pending, c) }

func (q *Queue) Len() int { return len(q.pending) }

// Drain returns the pending commands in submission order and empties the queue.
func (q *Queue) Drain() []Command {
	out := q.pending
	q.pending = nil
	return out
}
