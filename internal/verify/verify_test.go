package verify

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCode_SixDigits(t *testing.T) {
	for i := 0; i < 20; i++ {
		code, err := NewCode()
		require.NoError(t, err)
		assert.Len(t, code, 6)
		assert.Regexp(t, `^[0-9]{6}$`, code)
	}
}

func TestMemoryStore_ConsumeOnce(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Save(ctx, "ann@example.com", "123456", time.Hour))

	assert.ErrorIs(t, s.Consume(ctx, "ann@example.com", "000000"), ErrCodeMismatch)
	require.NoError(t, s.Consume(ctx, "ann@example.com", "123456"))
	assert.ErrorIs(t, s.Consume(ctx, "ann@example.com", "123456"), ErrCodeMismatch)
}

func TestMemoryStore_Expired(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	now := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	require.NoError(t, s.Save(ctx, "bob@example.com", "654321", CodeTTL))
	now = now.Add(CodeTTL + time.Second)

	assert.ErrorIs(t, s.Consume(ctx, "bob@example.com", "654321"), ErrCodeMismatch)
}

func TestMemoryStore_AttemptsBurnCode(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Save(ctx, "eve@example.com", "111111", CodeTTL))
	for i := 1; i < MaxAttempts; i++ {
		assert.ErrorIs(t, s.Consume(ctx, "eve@example.com", "999999"), ErrCodeMismatch)
	}
	err := s.Consume(ctx, "eve@example.com", "999999")
	assert.ErrorIs(t, err, ErrTooManyAttempts)
	assert.ErrorIs(t, err, ErrCodeMismatch)

	assert.ErrorIs(t, s.Consume(ctx, "eve@example.com", "111111"), ErrCodeMismatch)

	require.NoError(t, s.Save(ctx, "eve@example.com", "222222", CodeTTL))
	assert.ErrorIs(t, s.Consume(ctx, "eve@example.com", "999999"), ErrCodeMismatch)
	require.NoError(t, s.Consume(ctx, "eve@example.com", "222222"))
}
