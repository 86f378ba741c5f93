package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseShares(t *testing.T) {
	tests := []struct {
		input  string
		shares int64
		err    error
	}{
		{"10", 10, nil},
		{"1", 1, nil},
		{"10.0", 10, nil},
		{" 3 ", 3, nil},
		{"", 0, ErrMissingShares},
		{"   ", 0, ErrMissingShares},
		{"abc", 0, ErrNonIntegerShares},
		{"2.5", 0, ErrNonIntegerShares},
		{"1e-2", 0, ErrNonIntegerShares},
		{"10 shares", 0, ErrNonIntegerShares},
		{"0", 0, ErrNonPositiveShares},
		{"0.0", 0, ErrNonPositiveShares},
		{"-3", 0, ErrNonPositiveShares},
		{"-1.0", 0, ErrNonPositiveShares},
	}

	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			shares, err := ParseShares(test.input)

			assert.ErrorIs(t, err, test.err)
			assert.Equal(t, test.shares, shares)
		})
	}
}

func TestRejected(t *testing.T) {
	assert.True(t, Rejected(ErrInsufficientFunds))
	assert.True(t, Rejected(ErrUsernameTaken))
	assert.False(t, Rejected(nil))
	assert.False(t, Rejected(assert.AnError))
}
