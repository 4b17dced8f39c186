package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/doingodswork/ertflix-jellyfin/pkg/jellyfin"
)

func validConfig() config {
	return config{
		BindAddr:         "localhost",
		Port:             25860,
		BaseURLertflix:   "https://api.app.ertflix.gr/",
		PlatformCodename: "www",
		PageCodename:     "mainpage",
		PageLimit:        100,
		SectionLimit:     1000,
		MovieCodename:    "ert-oles-oi-tainies",
		ShowCodename:     "ert-seires-plereis",
		Timeout:          30 * time.Second,
		MaxRetries:       3,
		RetryDelay:       250 * time.Millisecond,
		ServerName:       "Ertflix Adapter",
		LocalAddress:     "http://localhost:25860",
		UserName:         "ertflix",
		LogLevel:         "debug",
		LogEncoding:      "console",
	}
}

func TestValidate(t *testing.T) {
	c := validConfig()
	require.NoError(t, c.validate())
	require.Equal(t, "https://api.app.ertflix.gr", c.BaseURLertflix)
	require.Equal(t, jellyfin.ServerIDFromName("Ertflix Adapter"), c.ServerID)

	c = validConfig()
	c.ServerID = "foo"
	require.NoError(t, c.validate())
	require.Equal(t, "foo", c.ServerID)
}

func TestValidateCombinesErrors(t *testing.T) {
	c := validConfig()
	c.Port = 0
	c.MovieCodename = ""
	c.LogEncoding = "xml"
	c.ExtraHeaders = []string{"X-Foo"}
	c.CacheAge = -time.Second
	err := c.validate()
	require.Error(t, err)
	require.Len(t, multierr.Errors(err), 5)
}

func TestValidateRetryDelay(t *testing.T) {
	c := validConfig()
	c.RetryDelay = 0
	require.Error(t, c.validate())

	c.MaxRetries = 0
	require.NoError(t, c.validate())
}

func TestRedisCredentials(t *testing.T) {
	c := validConfig()
	username, password := c.redisCredentials()
	require.Empty(t, username)
	require.Empty(t, password)

	c.RedisCreds = "secret"
	username, password = c.redisCredentials()
	require.Empty(t, username)
	require.Equal(t, "secret", password)

	c.RedisCreds = "user:pass:word"
	username, password = c.redisCredentials()
	require.Equal(t, "user", username)
	require.Equal(t, "pass:word", password)
}

func TestSplitHeaders(t *testing.T) {
	require.Nil(t, splitHeaders(""))
	require.Equal(t, []string{"X-Foo: bar", "X-Baz: qux"}, splitHeaders("X-Foo: bar\n\n  X-Baz: qux  \n"))
}
