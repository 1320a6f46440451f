// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package text

import (
	"regexp"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// ErrInvalidPattern is returned when an anchor cannot be compiled in pattern mode.
var ErrInvalidPattern = errors.Base("invalid anchor pattern")

// 📍 Match is a located anchor, as byte offsets into the searched text
type Match struct {
	Start int
	End   int
}

// 🔍 Matcher finds the first occurrence of an anchor at or after an offset
type Matcher interface {
	// Find returns the first match at or after from, with offsets relative to the full text
	Find(text string, from int) (Match, bool)
	// String returns the anchor as written
	String() string
}

// NewMatcher builds the matcher for an anchor. An empty anchor yields a nil
// matcher, which never matches.
func NewMatcher(anchor string, usePattern bool) (Matcher, error) {
	if anchor == "" {
		return nil, nil
	}
	if !usePattern {
		return LiteralMatcher(anchor), nil
	}
	re, err := regexp.Compile(anchor)
	if err != nil {
		return nil, errors.Errorf("%w: %q: %s", ErrInvalidPattern, anchor, err.Error())
	}
	return &PatternMatcher{re: re}, nil
}

// LiteralMatcher matches the anchor as a contiguous substring
type LiteralMatcher string

func (m LiteralMatcher) Find(text string, from int) (Match, bool) {
	if m == "" || from < 0 || from > len(text) {
		return Match{}, false
	}
	idx := strings.Index(text[from:], string(m))
	if idx < 0 {
		return Match{}, false
	}
	start := from + idx
	return Match{Start: start, End: start + len(m)}, true
}

func (m LiteralMatcher) String() string {
	return string(m)
}

// PatternMatcher matches the anchor as a regular expression
type PatternMatcher struct {
	re *regexp.Regexp
}

// Find searches only text[from:], so anchors like ^ bind to the search start.
func (m *PatternMatcher) Find(text string, from int) (Match, bool) {
	if m == nil || from < 0 || from > len(text) {
		return Match{}, false
	}
	loc := m.re.FindStringIndex(text[from:])
	if loc == nil {
		return Match{}, false
	}
	return Match{Start: from + loc[0], End: from + loc[1]}, true
}

func (m *PatternMatcher) String() string {
	return m.re.String()
}

// Position is an optional offset produced by anchor resolution
type Position struct {
	Offset int
	Found  bool
}

// NotFound is the zero Position
var NotFound = Position{}

// At returns a resolved Position
func At(offset int) Position {
	return Position{Offset: offset, Found: true}
}

// LocateStart resolves the start offset of the first match at or after from.
func LocateStart(m Matcher, text string, from int) Position {
	match, ok := locate(m, text, from)
	if !ok {
		return NotFound
	}
	return At(match.Start)
}

// LocateEnd resolves the end offset of the first match at or after from.
func LocateEnd(m Matcher, text string, from int) Position {
	match, ok := locate(m, text, from)
	if !ok {
		return NotFound
	}
	return At(match.End)
}

func locate(m Matcher, text string, from int) (Match, bool) {
	if m == nil {
		return Match{}, false
	}
	return m.Find(text, from)
}
