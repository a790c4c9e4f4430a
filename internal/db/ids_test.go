package db

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"hanabi/internal/errs"
)

func TestCheckID(t *testing.T) {
	tests := []struct {
		description string
		id          string
		wantErr     bool
	}{
		{"Test with generated id", NewID(), false},
		{"Test with empty id", "", true},
		{"Test with short id", "abc123", true},
		{"Test with id that is almost a uuid", "4ff1cbe2-05a2-49a8-b9cf-ZZZZZZZZZZZZ", true},
	}
	for _, tc := range tests {
		t.Run(tc.description, func(t *testing.T) {
			err := CheckID("game", tc.id)
			if !tc.wantErr {
				assert.Nil(t, err)
				return
			}
			var nf *errs.NotFound
			assert.True(t, errors.As(err, &nf), "expected a NotFound error")
			assert.Equal(t, "game", nf.Kind)
		})
	}
}

func TestMalformedIdLooksLikeAbsent(t *testing.T) {
	store := NewMemoryStore()
	_, errMalformed := store.Games.Read("not-an-id")
	_, errAbsent := store.Games.Read(NewID())
	assert.Equal(t, errMalformed.Error(), errAbsent.Error(),
		"malformed and absent ids must be indistinguishable")
}
