/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import (
	"errors"
	"fmt"
)

// Script is a recorded sequence of pointer events that can be replayed
// against a controller.
type Script struct {
	Name   string  `yaml:"name,omitempty" json:"name,omitempty"`
	Canvas Canvas  `yaml:"canvas,omitempty" json:"canvas,omitempty"`
	Events []Event `yaml:"events" json:"events"`
}

// Canvas is the initial canvas extent. A zero size leaves the extent alone.
type Canvas struct {
	Width  float32 `yaml:"width" json:"width"`
	Height float32 `yaml:"height" json:"height"`
}

type EventType string

const (
	EventDown   EventType = "down"
	EventMove   EventType = "move"
	EventUp     EventType = "up"
	EventResize EventType = "resize"
)

// Event is one host input. X/Y apply to down and move, Clicks to down
// (0 means 1), Width/Height to resize.
type Event struct {
	Type   EventType `yaml:"type" json:"type"`
	X      float32   `yaml:"x,omitempty" json:"x,omitempty"`
	Y      float32   `yaml:"y,omitempty" json:"y,omitempty"`
	Clicks int       `yaml:"clicks,omitempty" json:"clicks,omitempty"`
	Width  float32   `yaml:"width,omitempty" json:"width,omitempty"`
	Height float32   `yaml:"height,omitempty" json:"height,omitempty"`
}

// ErrInvalid marks scripts that fail schema or syntax checks.
var ErrInvalid = errors.New("invalid script")

// Error represents a parse error with position context.
type Error struct {
	Line    int
	Column  int
	Message string
}

func (e Error) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
}

// MarshalYAML writes only the fields that apply to the event type, so zero
// coordinates survive a round trip.
func (e Event) MarshalYAML() (any, error) {
	switch e.Type {
	case EventDown, EventMove:
		return struct {
			Type   EventType `yaml:"type"`
			X      float32   `yaml:"x"`
			Y      float32   `yaml:"y"`
			Clicks int       `yaml:"clicks,omitempty"`
		}{e.Type, e.X, e.Y, e.Clicks}, nil
	case EventResize:
		return struct {
			Type   EventType `yaml:"type"`
			Width  float32   `yaml:"width"`
			Height float32   `yaml:"height"`
		}{e.Type, e.Width, e.Height}, nil
	}
	return struct {
		Type EventType `yaml:"type"`
	}{e.Type}, nil
}
