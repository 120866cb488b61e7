package model

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorUnwrapsKindAndCause(t *testing.T) {
	err := Wrap(ErrTimeout, context.DeadlineExceeded, "call %s", "gpt")

	assert.True(t, errors.Is(err, ErrTimeout))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.False(t, errors.Is(err, ErrProviderCall))
	assert.Equal(t, "call gpt: context deadline exceeded", err.Error())
}

func TestWrapNil(t *testing.T) {
	assert.NoError(t, Wrap(ErrStorage, nil, "write"))
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"classified", Errorf(ErrNotFound, "missing %s", "a.txt"), ErrNotFound},
		{"wrapped by fmt", fmt.Errorf("outer: %w", Errorf(ErrEmptyResult, "nothing")), ErrEmptyResult},
		{"bare sentinel", ErrValidation, ErrValidation},
		{"unclassified", errors.New("boom"), nil},
		{"nil", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestParseCapability(t *testing.T) {
	c, err := ParseCapability("", APIHuggingFace)
	assert.NoError(t, err)
	assert.Equal(t, CapabilityExtractive, c)

	c, err = ParseCapability("", APIOpenAI)
	assert.NoError(t, err)
	assert.Equal(t, CapabilityGenerative, c)

	c, err = ParseCapability("generative", APIHuggingFace)
	assert.NoError(t, err)
	assert.Equal(t, CapabilityGenerative, c)

	_, err = ParseCapability("magic", APIOpenAI)
	assert.Error(t, err)
}
