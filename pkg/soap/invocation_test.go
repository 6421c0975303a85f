package soap

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvocationSingleMember(t *testing.T) {
	inv := discoList().Invocation()

	t.Run("empty", func(t *testing.T) {
		call, err := inv.Resolve(Args{})

		require.NoError(t, err)
		assert.Same(t, list, call.Operation)
		assert.Empty(t, call.Args)
	})

	t.Run("positional", func(t *testing.T) {
		call, err := inv.Resolve(Positional(1))

		require.NoError(t, err)
		assert.Equal(t, map[string]any{"SessionID": 1}, call.Args.Map())
	})

	t.Run("keyword", func(t *testing.T) {
		call, err := inv.Resolve(Keywords(map[string]any{"ApplianceID": 1}))

		require.NoError(t, err)
		assert.Equal(t, map[string]any{"ApplianceID": 1}, call.Args.Map())
	})
}

func TestInvocationOverloaded(t *testing.T) {
	inv := discoSubmit().Invocation()

	t.Run("round trip", func(t *testing.T) {
		call, err := inv.Resolve(Keywords(map[string]any{
			"sessionID":    1,
			"assetData":    "Data",
			"errorMessage": "No error",
		}))

		require.NoError(t, err)
		assert.Same(t, submitA, call.Operation)
		assert.Equal(t, Bound{
			{Name: "sessionID", Value: 1},
			{Name: "errorMessage", Value: "No error"},
			{Name: "assetData", Value: "Data"},
		}, call.Args)
	})

	t.Run("five parts", func(t *testing.T) {
		call, err := inv.Resolve(Keywords(map[string]any{
			"sessionID":    1,
			"jobID":        2,
			"jobComplete":  true,
			"errorMessage": "No error",
			"assetData":    "Data",
		}))

		require.NoError(t, err)
		assert.Same(t, submitB, call.Operation)
		assert.Len(t, call.Args, 5)
	})

	t.Run("no arguments", func(t *testing.T) {
		_, err := inv.Resolve(Args{})
		assert.ErrorIs(t, err, ErrOverloadedNotMatching)
	})

	t.Run("positional", func(t *testing.T) {
		_, err := inv.Resolve(Positional(1))
		assert.ErrorIs(t, err, ErrOverloadedWithPositionalArguments)
	})

	t.Run("pinned by index", func(t *testing.T) {
		pinned, err := inv.ByIndex(0)
		require.NoError(t, err)

		call, err := pinned.Resolve(Args{})

		require.NoError(t, err)
		assert.Same(t, submitA, call.Operation)
		assert.Empty(t, call.Args)
	})

	t.Run("pinned rejects too many", func(t *testing.T) {
		pinned, err := inv.ByIndex(0)
		require.NoError(t, err)

		_, err = pinned.Resolve(Positional(1, 2, 3, 4))
		assert.ErrorIs(t, err, ErrTooManyArguments)
	})

	t.Run("pinned rejects unknown keyword", func(t *testing.T) {
		pinned, err := inv.ByIndex(2)
		require.NoError(t, err)

		_, err = pinned.Resolve(Keywords(map[string]any{"sessionID": 1}))
		assert.ErrorIs(t, err, ErrMethodNotFound)
	})
}

func TestInvocationNarrowingIndex(t *testing.T) {
	inv, err := discoSubmit().AcceptingArgs("sessionID")
	require.NoError(t, err)

	pinned, err := inv.ByIndex(1)
	require.NoError(t, err)
	assert.Same(t, submitB, pinned.Method())

	_, err = inv.ByIndex(2)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestInvocationImmutable(t *testing.T) {
	inv := discoSubmit().Invocation()

	_, err := inv.ByIndex(1)
	require.NoError(t, err)

	_, err = inv.AcceptingArgs("jobID")
	require.NoError(t, err)

	_, err = inv.Resolve(Positional(1))
	require.Error(t, err)

	assert.Len(t, inv.Candidates(), 3)
	assert.False(t, inv.Resolved())
}

func TestInvocationConcurrent(t *testing.T) {
	set := discoSubmit()

	var wg sync.WaitGroup

	for i := range 32 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			inv := set.Invocation()

			switch i % 3 {
			case 0:
				call, err := inv.Resolve(Keywords(map[string]any{"sessionID": i, "assetData": "Data", "errorMessage": "x"}))

				if assert.NoError(t, err) {
					assert.Same(t, submitA, call.Operation)
				}

			case 1:
				pinned, err := inv.ByIndex(1)

				if !assert.NoError(t, err) {
					return
				}

				call, err := pinned.Resolve(Positional(i))

				if assert.NoError(t, err) {
					assert.Equal(t, map[string]any{"sessionID": i}, call.Args.Map())
				}

			default:
				_, err := inv.Resolve(Positional(i))
				assert.ErrorIs(t, err, ErrOverloadedWithPositionalArguments)
			}
		}()
	}

	wg.Wait()
}
