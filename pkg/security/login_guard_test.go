package security

import (
	"context"
	"testing"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestSubjectKeys(t *testing.T) {
	assert.Equal(t,
		[]string{"login:fail:email:ana@example.com", "login:fail:ip:10.0.0.1"},
		subjectKeys(failPrefix, " Ana@Example.com ", "10.0.0.1"))
	assert.Equal(t, []string{"login:blocked:email:ana@example.com"}, subjectKeys(blockedPrefix, "ana@example.com", ""))
}

func TestLoginGuardWithoutRedis(t *testing.T) {
	ctx := context.Background()
	g := NewLoginGuard(DefaultLoginGuardConfig())
	g.client = func() *goredis.Client { return nil }

	for i := 0; i < 10; i++ {
		blocked, err := g.RecordFailure(ctx, "ana@example.com", "10.0.0.1")
		assert.NoError(t, err)
		assert.False(t, blocked)
	}

	blocked, ttl, err := g.Blocked(ctx, "ana@example.com", "10.0.0.1")
	assert.NoError(t, err)
	assert.False(t, blocked)
	assert.Zero(t, ttl)
	assert.NoError(t, g.Clear(ctx, "ana@example.com", "10.0.0.1"))
}
