package server

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"hanabi/internal/errs"
	"hanabi/internal/logger"
)

var checkKeysRequired = []KeySpec{
	{Key: "game_name", Type: "string"},
	{Key: "num_players", Type: "int"},
}

var checkKeysOptional = []KeySpec{
	{Key: "with_rainbow", Type: "bool"},
}

func TestCheckKeys(t *testing.T) {
	tests := []struct {
		description string
		args        map[string]any
		wantKey     string
	}{
		{
			"Test with all required keys",
			map[string]any{"game_name": "friday night", "num_players": float64(3)},
			"",
		},
		{
			"Test with optional key present",
			map[string]any{"game_name": "friday night", "num_players": float64(3), "with_rainbow": true},
			"",
		},
		{
			"Test with unrecognized extras accepted",
			map[string]any{"game_name": "friday night", "num_players": float64(3), "color_scheme": "dark"},
			"",
		},
		{
			"Test with missing required key",
			map[string]any{"game_name": "friday night"},
			"num_players",
		},
		{
			"Test with empty required string",
			map[string]any{"game_name": "", "num_players": float64(3)},
			"game_name",
		},
		{
			"Test with mistyped required key",
			map[string]any{"game_name": "friday night", "num_players": "three"},
			"num_players",
		},
		{
			"Test with fractional value for int key",
			map[string]any{"game_name": "friday night", "num_players": 2.5},
			"num_players",
		},
		{
			"Test with mistyped optional key",
			map[string]any{"game_name": "friday night", "num_players": float64(3), "with_rainbow": "yes"},
			"with_rainbow",
		},
	}
	log := logger.New("test_keys")
	for _, tc := range tests {
		t.Run(tc.description, func(t *testing.T) {
			err := CheckKeys(log, checkKeysRequired, checkKeysOptional, tc.args)
			if tc.wantKey == "" {
				assert.Nil(t, err)
				return
			}
			var violation *errs.ContractViolation
			assert.True(t, errors.As(err, &violation), "expected ContractViolation, got %v", err)
			assert.Equal(t, tc.wantKey, violation.Key, "violation must name the offending key")
		})
	}
}

func TestCheckKeysIntAcceptsNativeInt(t *testing.T) {
	log := logger.New("test_keys")
	err := CheckKeys(log, []KeySpec{{Key: "num_players", Type: "int"}}, nil,
		map[string]any{"num_players": 3})
	assert.Nil(t, err)
}
