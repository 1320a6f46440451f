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
	"gitlab.com/tozd/go/errors"
)

// ErrAnchorMissing is returned in strict mode when no anchor resolves.
var ErrAnchorMissing = errors.Base("anchors not found")

// 🧭 Strategy is the mutation chosen for a set of resolved anchors
type Strategy int

const (
	StrategyNone             Strategy = iota
	StrategyReplaceBetween            // Both anchors resolved, end after start
	StrategyInsertAfterStart          // Start resolved, end absent or not after it
	StrategyInsertBeforeEnd           // Only the end anchor resolved
	StrategyAppend                    // Nothing resolved, lenient mode
)

// String returns a string representation of Strategy
func (s Strategy) String() string {
	switch s {
	case StrategyReplaceBetween:
		return "replace_between"
	case StrategyInsertAfterStart:
		return "insert_after_start"
	case StrategyInsertBeforeEnd:
		return "insert_before_end"
	case StrategyAppend:
		return "append"
	default:
		return "none"
	}
}

// Selection is a strategy together with the offsets it splices at
type Selection struct {
	Strategy Strategy
	Start    int // splice start; the insertion point for the insert strategies
	End      int // splice end; equal to Start for inserts
}

// Select picks the mutation for the resolved anchors. start is the end offset
// of the start anchor, end the start offset of the end anchor searched from
// start. Replace-between wins over insert-after-start; an end anchor at or
// before start is ignored.
func Select(start, end Position, strict bool) (Selection, error) {
	switch {
	case start.Found && end.Found && end.Offset > start.Offset:
		return Selection{Strategy: StrategyReplaceBetween, Start: start.Offset, End: end.Offset}, nil
	case start.Found:
		return Selection{Strategy: StrategyInsertAfterStart, Start: start.Offset, End: start.Offset}, nil
	case end.Found:
		return Selection{Strategy: StrategyInsertBeforeEnd, Start: end.Offset, End: end.Offset}, nil
	case strict:
		return Selection{}, errors.WithStack(ErrAnchorMissing)
	default:
		return Selection{Strategy: StrategyAppend}, nil
	}
}
