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
	"strings"

	"gitlab.com/tozd/go/errors"
)

// 📐 AnchorRule describes a single anchored edit of a text body
type AnchorRule struct {
	Content     string // Text to insert or replace with
	StartAnchor string // Optional; content goes after it
	EndAnchor   string // Optional; content goes before it
	Strict      bool   // Fail instead of appending when no anchor resolves
	UsePattern  bool   // Treat anchors as regular expressions
}

// 📄 AnchorResult contains the outcome of applying an AnchorRule
type AnchorResult struct {
	OriginalContent string
	ModifiedContent string
	Selection       Selection
	Start           Position // end offset of the start anchor
	End             Position // start offset of the end anchor
	WasModified     bool
}

// Splice produces the new text for a selection. Offsets must come from
// Select over original.
func Splice(original, content string, sel Selection) string {
	switch sel.Strategy {
	case StrategyReplaceBetween, StrategyInsertAfterStart, StrategyInsertBeforeEnd:
		var b strings.Builder
		b.Grow(len(original) - (sel.End - sel.Start) + len(content))
		b.WriteString(original[:sel.Start])
		b.WriteString(content)
		b.WriteString(original[sel.End:])
		return b.String()
	case StrategyAppend:
		if original != "" && !strings.HasSuffix(original, "\n") {
			return original + "\n" + content
		}
		return original + content
	default:
		return original
	}
}

// Apply resolves the rule's anchors against original and splices in the
// content. It returns ErrInvalidPattern for a malformed pattern anchor and
// ErrAnchorMissing when strict and nothing resolves.
func Apply(original string, rule AnchorRule) (*AnchorResult, error) {
	startMatcher, err := NewMatcher(rule.StartAnchor, rule.UsePattern)
	if err != nil {
		return nil, errors.Errorf("start anchor: %w", err)
	}
	endMatcher, err := NewMatcher(rule.EndAnchor, rule.UsePattern)
	if err != nil {
		return nil, errors.Errorf("end anchor: %w", err)
	}

	start := LocateEnd(startMatcher, original, 0)
	from := 0
	if start.Found {
		from = start.Offset
	}
	end := LocateStart(endMatcher, original, from)

	sel, err := Select(start, end, rule.Strict)
	if err != nil {
		return nil, err
	}

	modified := Splice(original, rule.Content, sel)
	return &AnchorResult{
		OriginalContent: original,
		ModifiedContent: modified,
		Selection:       sel,
		Start:           start,
		End:             end,
		WasModified:     modified != original,
	}, nil
}

// ValidateRule checks that a rule's anchors compile
func ValidateRule(rule AnchorRule) error {
	if _, err := NewMatcher(rule.StartAnchor, rule.UsePattern); err != nil {
		return errors.Errorf("start_anchor: %w", err)
	}
	if _, err := NewMatcher(rule.EndAnchor, rule.UsePattern); err != nil {
		return errors.Errorf("end_anchor: %w", err)
	}
	return nil
}
