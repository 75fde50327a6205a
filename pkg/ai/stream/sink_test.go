package stream

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGuardedSink_WriteAfterCloseIsIgnored(t *testing.T) {
	inner := &BufferSink{}
	sink := NewGuardedSink(inner)

	assert.NoError(t, sink.Write("hello"))
	sink.Close()
	assert.NoError(t, sink.Write(" world"))

	assert.Equal(t, "hello", inner.String())
	assert.True(t, inner.Closed())
}

func TestGuardedSink_ErrorThenCloseKeepsError(t *testing.T) {
	inner := &BufferSink{}
	sink := NewGuardedSink(inner)

	boom := errors.New("boom")
	sink.Error(boom)
	sink.Close()

	assert.Equal(t, boom, inner.Err())
	assert.False(t, inner.Closed())
}

func TestGuardedSink_CloseThenErrorIsIgnored(t *testing.T) {
	inner := &BufferSink{}
	sink := NewGuardedSink(inner)

	sink.Close()
	sink.Error(errors.New("late"))

	assert.True(t, inner.Closed())
	assert.NoError(t, inner.Err())
}

func TestGuardedSink_DoubleCloseIsIdempotent(t *testing.T) {
	inner := &BufferSink{}
	sink := NewGuardedSink(inner)

	sink.Close()
	sink.Close()

	assert.True(t, inner.Closed())
}
