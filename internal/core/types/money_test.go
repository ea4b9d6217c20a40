package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRound2(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"10.005", "10.01"},
		{"10.004", "10"},
		{"-10.005", "-10.01"},
		{"1234.5", "1234.5"},
		{"0.125", "0.13"},
	}

	for _, tt := range tests {
		got := Round2(MustMoney(tt.in))
		assert.True(t, got.Equal(MustMoney(tt.want)), "Round2(%s) = %s, want %s", tt.in, got, tt.want)
	}
}

func TestMaxMoney(t *testing.T) {
	a := MustMoney("100.50")
	b := MustMoney("100.49")

	assert.True(t, MaxMoney(a, b).Equal(a))
	assert.True(t, MaxMoney(b, a).Equal(a))
	assert.True(t, MaxMoney(Zero(), MustMoney("-5")).Equal(Zero()))
}
