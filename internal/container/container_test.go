package container

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/fitlife-api/config"
	"github.com/oksasatya/fitlife-api/pkg/helpers"
)

func TestGetJWT_BuildsFromConfig(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	SetConfig(&config.Config{JWTSecret: "from-config", TokenTTL: 2 * time.Hour})
	m := GetJWT()
	require.NotNil(t, m)
	assert.Equal(t, []byte("from-config"), m.Secret)
	assert.Equal(t, 2*time.Hour, m.TTL)

	// Unrelated managers built elsewhere must not leak into the container.
	helpers.NewJWTManager("stray", time.Minute)
	assert.Same(t, m, GetJWT())
}

func TestGetJWT_ResetRebuilds(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	SetConfig(&config.Config{JWTSecret: "first", TokenTTL: time.Hour})
	first := GetJWT()

	Reset()
	SetConfig(&config.Config{JWTSecret: "second", TokenTTL: time.Hour})
	second := GetJWT()

	assert.NotSame(t, first, second)
	assert.Equal(t, []byte("second"), second.Secret)
}

func TestGetJWT_PrefersExplicitManager(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	SetConfig(&config.Config{JWTSecret: "from-config", TokenTTL: time.Hour})
	explicit := helpers.NewJWTManager("explicit", time.Minute)
	SetJWT(explicit)
	assert.Same(t, explicit, GetJWT())
}
