// Copyright 2025 The packetd Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var crlf = []byte("\r\n")

func TestDelimitedCompleteAndIncomplete(t *testing.T) {
	p := Delimited(crlf, 4096)

	c := NewCursor([]byte("TEST"))
	v, ok, err := p.Step(c)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 0, c.Pos())

	c = NewCursor([]byte("TEST\r\nMORE"))
	v, ok, err = p.Step(c)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("TEST"), v.([]byte))
	assert.Equal(t, 6, c.Pos())
}

func TestDelimitedRepeatedPrefix(t *testing.T) {
	// "\r\r\n" must match the minimal correct CRLF at offset 1, not be
	// skipped over by a naive match-then-jump-past-pattern-length scan.
	p := Delimited(crlf, 4096)
	c := NewCursor([]byte("a\r\r\nb"))
	v, ok, err := p.Step(c)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("a\r"), v.([]byte))
	assert.Equal(t, 4, c.Pos())
}

func TestDelimitedMessageTooLong(t *testing.T) {
	p := Delimited(crlf, 8)
	c := NewCursor([]byte("01234567"))
	_, ok, err := p.Step(c)
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrMessageTooLong)
}

func TestFixed(t *testing.T) {
	p := Fixed(4)
	c := NewCursor([]byte("ab"))
	_, ok, err := p.Step(c)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 0, c.Pos())

	c = NewCursor([]byte("abcd"))
	v, ok, err := p.Step(c)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("abcd"), v.([]byte))
	assert.Equal(t, 4, c.Pos())
}

func TestJustAndFail(t *testing.T) {
	c := NewCursor(nil)

	v, ok, err := Just(42).Step(c)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 42, v)

	sentinel := assert.AnError
	_, ok, err = Fail(sentinel).Step(c)
	assert.False(t, ok)
	assert.Same(t, sentinel, err)
}

// TestBindMemoizesChildAcrossIncompleteSteps exercises the "Bind holds its
// child across incomplete results" contract directly: the outer parser (p)
// must run exactly once even though the inner parser needs two Step calls
// to complete.
func TestBindMemoizesChildAcrossIncompleteSteps(t *testing.T) {
	var pRuns int
	p := &countingParser{runs: &pRuns, inner: Fixed(1)}

	bound := Bind(p, func(v any) Parser {
		return Fixed(2)
	})

	buf := []byte{'a'}
	c := NewCursor(buf)
	_, ok, err := bound.Step(c)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1, pRuns)

	buf = append(buf, 'b', 'c')
	c = NewCursor(buf)
	v, ok, err := bound.Step(c)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("bc"), v.([]byte))
	assert.Equal(t, 1, pRuns, "p must not re-run once its child has been produced")
}

func TestBindResetClearsMemo(t *testing.T) {
	var pRuns int
	p := &countingParser{runs: &pRuns, inner: Just(byte('x'))}
	bound := Bind(p, func(v any) Parser { return Just("done") })

	c := NewCursor(nil)
	_, ok, err := bound.Step(c)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1, pRuns)

	bound.Reset()
	_, ok, err = bound.Step(c)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 2, pRuns, "Reset must allow p to run again")
}

func TestMap(t *testing.T) {
	p := Map(Just(2), func(v any) any { return v.(int) * 21 })
	v, ok, err := p.Step(NewCursor(nil))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 42, v)
}

// countingParser wraps inner and counts how many times Step actually ran
// its logic (as opposed to being skipped by a memoizing Bind).
type countingParser struct {
	runs  *int
	inner Parser
}

func (c *countingParser) Step(cur *Cursor) (any, bool, error) {
	*c.runs++
	return c.inner.Step(cur)
}

func (c *countingParser) Reset() {
	c.inner.Reset()
}
