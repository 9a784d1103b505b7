package grades

import (
	"testing"

	"career-matching-workers/internal/common/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoints(t *testing.T) {
	tests := []struct {
		name     string
		letter   string
		expected int
	}{
		{"top grade", "A", 12},
		{"a minus", "A-", 11},
		{"b plus", "B+", 10},
		{"plain c", "C", 6},
		{"bottom grade", "E", 1},
		{"lower case and padding", "  b- ", 8},
		{"unicode minus", "C−", 5},
		{"en dash", "D–", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Points(tt.letter)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestPoints_Invalid(t *testing.T) {
	for _, letter := range []string{"", "F", "A+", "E-", "B++", "12"} {
		t.Run(letter, func(t *testing.T) {
			_, err := Points(letter)
			require.Error(t, err)
			assert.ErrorIs(t, err, errors.ErrInvalidGrade)
		})
	}
}

func TestPointsFor_NamesSubject(t *testing.T) {
	_, err := PointsFor("Chemistry", "Z")
	require.Error(t, err)

	stdErr, ok := err.(*errors.StandardError)
	require.True(t, ok)
	assert.Equal(t, "Chemistry", stdErr.Metadata["subject"])
	assert.Equal(t, "Z", stdErr.Metadata["grade"])
}

func TestVocabulary_StrictlyMonotonic(t *testing.T) {
	vocab := Vocabulary()
	require.Len(t, vocab, 12)

	prev := MaxPoints + 1
	for _, letter := range vocab {
		p, err := Points(letter)
		require.NoError(t, err)
		assert.Less(t, p, prev, "grade %s out of order", letter)
		prev = p
	}

	vocab[0] = "mutated"
	assert.Equal(t, "A", Vocabulary()[0])
}

func TestLetter(t *testing.T) {
	for p := 1; p <= MaxPoints; p++ {
		letter, ok := Letter(p)
		require.True(t, ok)
		back, err := Points(letter)
		require.NoError(t, err)
		assert.Equal(t, p, back)
	}

	_, ok := Letter(0)
	assert.False(t, ok)
	_, ok = Letter(13)
	assert.False(t, ok)
}
