package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_ParseDBConnString(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		expect    Database
		expectErr bool
	}{
		{name: "inmem", input: "inmem", expect: Database{Type: DatabaseInMemory}},
		{name: "sqlite with dir", input: "sqlite:/data", expect: Database{Type: DatabaseSQLite, DataDir: "/data"}},
		{name: "sqlite without dir", input: "sqlite", expectErr: true},
		{name: "inmem with params", input: "inmem:foo", expectErr: true},
		{name: "none", input: "none", expectErr: true},
		{name: "unknown", input: "postgres:x", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual, err := ParseDBConnString(tc.input)
			if tc.expectErr {
				assert.Error(err)
				return
			}
			assert.NoError(err)
			assert.Equal(tc.expect, actual)
		})
	}
}

func Test_ConfigFromEnv(t *testing.T) {
	assert := assert.New(t)

	t.Setenv("VERBLY_LISTEN_ADDRESS", ":9000")
	t.Setenv("VERBLY_TOKEN_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("VERBLY_DATABASE", "sqlite:/tmp/vb")
	t.Setenv("VERBLY_WORLDS", "a.vbw, b.vbw")
	t.Setenv("VERBLY_UNAUTH_DELAY_MS", "-1")

	cfg, err := ConfigFromEnv()
	if !assert.NoError(err) {
		return
	}

	assert.Equal(":9000", cfg.ListenAddress)
	assert.Equal([]byte("0123456789abcdef0123456789abcdef"), cfg.TokenSecret)
	assert.Equal(Database{Type: DatabaseSQLite, DataDir: "/tmp/vb"}, cfg.DB)
	assert.Equal([]string{"a.vbw", "b.vbw"}, cfg.Worlds)
	assert.Equal(int64(0), int64(cfg.UnauthDelay()))
	assert.NoError(cfg.FillDefaults().Validate())
}

func Test_ConfigFromEnv_defaults(t *testing.T) {
	assert := assert.New(t)

	t.Setenv("VERBLY_DATABASE", "")

	cfg, err := ConfigFromEnv()
	if !assert.NoError(err) {
		return
	}

	filled := cfg.FillDefaults()
	assert.Equal("localhost:8080", filled.ListenAddress)
	assert.Equal(DatabaseInMemory, filled.DB.Type)
	assert.Equal(1000, filled.UnauthDelayMillis)

	// no worlds given
	assert.Error(filled.Validate())
}
