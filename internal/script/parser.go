/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
)

// Parse parses the line-oriented script format:
//
//	# comment
//	name demo
//	canvas 200 100
//	down 10 10        (optional third number: click count)
//	move 110 60
//	up
//	resize 400 300
//
// Keywords are case-insensitive. Every malformed line yields an Error and is
// skipped; parsing continues so all problems are reported at once.
func Parse(input string) (Script, []Error) {
	s := Script{Events: []Event{}}
	var errs []Error

	scanner := bufio.NewScanner(strings.NewReader(input))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		toks := tokenize(line)
		if len(toks) == 0 {
			continue
		}
		fail := func(t token, format string, args ...any) {
			errs = append(errs, Error{Line: lineNo, Column: t.col, Message: fmt.Sprintf(format, args...)})
		}

		kw, args := toks[0], toks[1:]
		switch strings.ToLower(kw.text) {
		case "name":
			if len(args) == 0 {
				fail(kw, "name needs a value")
				continue
			}
			s.Name = strings.TrimSpace(line[args[0].col-1:])
		case "canvas":
			w, h, ok := pair(kw, args, fail)
			if ok {
				s.Canvas = Canvas{Width: w, Height: h}
			}
		case "down":
			if len(args) != 2 && len(args) != 3 {
				fail(kw, "down takes x y [clicks]")
				continue
			}
			x, y, ok := pair(kw, args[:2], fail)
			if !ok {
				continue
			}
			ev := Event{Type: EventDown, X: x, Y: y}
			if len(args) == 3 {
				n, err := strconv.Atoi(args[2].text)
				if err != nil || n < 1 {
					fail(args[2], "clicks must be a positive integer, got %q", args[2].text)
					continue
				}
				ev.Clicks = n
			}
			s.Events = append(s.Events, ev)
		case "move":
			if x, y, ok := pair(kw, args, fail); ok {
				s.Events = append(s.Events, Event{Type: EventMove, X: x, Y: y})
			}
		case "up":
			if len(args) != 0 {
				fail(args[0], "up takes no arguments")
				continue
			}
			s.Events = append(s.Events, Event{Type: EventUp})
		case "resize":
			if w, h, ok := pair(kw, args, fail); ok {
				if w < 0 || h < 0 {
					fail(args[0], "resize extent must not be negative")
					continue
				}
				s.Events = append(s.Events, Event{Type: EventResize, Width: w, Height: h})
			}
		default:
			fail(kw, "unknown keyword %q", kw.text)
		}
	}
	if err := scanner.Err(); err != nil {
		errs = append(errs, Error{Line: lineNo, Column: 1, Message: err.Error()})
	}
	return s, errs
}

type token struct {
	text string
	col  int // 1-based
}

func tokenize(line string) []token {
	var out []token
	start := -1
	for i, r := range line {
		space := r == ' ' || r == '\t' || r == ',' || r == '\r'
		switch {
		case space && start >= 0:
			out = append(out, token{text: line[start:i], col: start + 1})
			start = -1
		case !space && start < 0:
			start = i
		}
	}
	if start >= 0 {
		out = append(out, token{text: line[start:], col: start + 1})
	}
	return out
}

func pair(kw token, args []token, fail func(token, string, ...any)) (float32, float32, bool) {
	if len(args) != 2 {
		fail(kw, "%s takes two numbers", strings.ToLower(kw.text))
		return 0, 0, false
	}
	var v [2]float32
	for i, a := range args {
		f, err := strconv.ParseFloat(a.text, 32)
		if err != nil {
			fail(a, "not a number: %q", a.text)
			return 0, 0, false
		}
		v[i] = float32(f)
	}
	return v[0], v[1], true
}
