package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

func TestMatcher_Find(t *testing.T) {
	tests := []struct {
		name       string
		anchor     string
		usePattern bool
		text       string
		from       int
		want       Match
		wantFound  bool
	}{
		{
			name:      "literal_first_occurrence",
			anchor:    "lo",
			text:      "hello lo",
			want:      Match{Start: 3, End: 5},
			wantFound: true,
		},
		{
			name:      "literal_from_offset",
			anchor:    "lo",
			text:      "hello lo",
			from:      4,
			want:      Match{Start: 6, End: 8},
			wantFound: true,
		},
		{
			name:      "literal_at_exact_offset",
			anchor:    "lo",
			text:      "hello",
			from:      3,
			want:      Match{Start: 3, End: 5},
			wantFound: true,
		},
		{
			name:   "literal_missing",
			anchor: "xyz",
			text:   "hello",
		},
		{
			name:   "from_past_end",
			anchor: "o",
			text:   "hello",
			from:   10,
		},
		{
			name:       "pattern_offsets_translated",
			anchor:     `W\w+`,
			usePattern: true,
			text:       "Hello\nWorld\n",
			from:       2,
			want:       Match{Start: 6, End: 11},
			wantFound:  true,
		},
		{
			name:       "pattern_caret_binds_to_search_start",
			anchor:     `^lo`,
			usePattern: true,
			text:       "hello",
			from:       3,
			want:       Match{Start: 3, End: 5},
			wantFound:  true,
		},
		{
			name:       "pattern_empty_match",
			anchor:     `x*`,
			usePattern: true,
			text:       "abc",
			from:       1,
			want:       Match{Start: 1, End: 1},
			wantFound:  true,
		},
		{
			name:       "pattern_missing",
			anchor:     `\d+`,
			usePattern: true,
			text:       "no digits",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewMatcher(tt.anchor, tt.usePattern)
			require.NoError(t, err)
			require.NotNil(t, m)

			got, found := m.Find(tt.text, tt.from)
			assert.Equal(t, tt.wantFound, found)
			if tt.wantFound {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestNewMatcher(t *testing.T) {
	t.Run("empty_anchor_is_absent", func(t *testing.T) {
		m, err := NewMatcher("", true)
		require.NoError(t, err)
		assert.Nil(t, m)
		assert.Equal(t, NotFound, LocateStart(m, "anything", 0))
		assert.Equal(t, NotFound, LocateEnd(m, "anything", 0))
	})

	t.Run("invalid_pattern", func(t *testing.T) {
		_, err := NewMatcher("(unclosed", true)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidPattern))
	})

	t.Run("invalid_pattern_is_fine_as_literal", func(t *testing.T) {
		m, err := NewMatcher("(unclosed", false)
		require.NoError(t, err)
		assert.Equal(t, At(4), LocateStart(m, "abc (unclosed", 0))
	})

	t.Run("string_round_trips", func(t *testing.T) {
		lit, err := NewMatcher("a.b", false)
		require.NoError(t, err)
		pat, err := NewMatcher("a.b", true)
		require.NoError(t, err)
		assert.Equal(t, "a.b", lit.String())
		assert.Equal(t, "a.b", pat.String())
	})
}

func TestLocate_PatternEquivalence(t *testing.T) {
	text := "Hello\nWorld\n"

	lit, err := NewMatcher("Hello", false)
	require.NoError(t, err)
	pat, err := NewMatcher("Hell[o]", true)
	require.NoError(t, err)

	assert.Equal(t, LocateStart(lit, text, 0), LocateStart(pat, text, 0))
	assert.Equal(t, LocateEnd(lit, text, 0), LocateEnd(pat, text, 0))
	assert.Equal(t, At(0), LocateStart(pat, text, 0))
	assert.Equal(t, At(5), LocateEnd(pat, text, 0))
}
