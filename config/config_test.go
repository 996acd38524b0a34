package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ipahub/ipahub/config"
	"github.com/ipahub/ipahub/tests"
)

func TestSetIgnoreAndSetUpdate(t *testing.T) {
	svc, err := tests.CreateTestService(t)
	require.NoError(t, err)
	defer svc.Remove()

	err = svc.Cfg.SetIgnore("TestKey", "first")
	require.NoError(t, err)

	err = svc.Cfg.SetIgnore("TestKey", "second")
	require.NoError(t, err)

	value, err := svc.Cfg.Get("TestKey")
	require.NoError(t, err)
	assert.Equal(t, "first", value)

	err = svc.Cfg.SetUpdate("TestKey", "third")
	require.NoError(t, err)

	value, err = svc.Cfg.Get("TestKey")
	require.NoError(t, err)
	assert.Equal(t, "third", value)
}

func TestGet_MissingKey(t *testing.T) {
	svc, err := tests.CreateTestService(t)
	require.NoError(t, err)
	defer svc.Remove()

	value, err := svc.Cfg.Get("NoSuchKey")
	require.NoError(t, err)
	assert.Empty(t, value)
}

func TestGetJWTSecret_StableAcrossCalls(t *testing.T) {
	svc, err := tests.CreateTestService(t)
	require.NoError(t, err)
	defer svc.Remove()

	first, err := svc.Cfg.GetJWTSecret()
	require.NoError(t, err)
	assert.Len(t, first, 64)

	second, err := svc.Cfg.GetJWTSecret()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestDefaultCountry(t *testing.T) {
	svc, err := tests.CreateTestService(t)
	require.NoError(t, err)
	defer svc.Remove()

	assert.Equal(t, "us", svc.Cfg.GetDefaultCountry())

	err = svc.Cfg.SetDefaultCountry("de")
	require.NoError(t, err)
	assert.Equal(t, "de", svc.Cfg.GetDefaultCountry())

	err = svc.Cfg.SetDefaultCountry("")
	assert.Error(t, err)
	assert.Equal(t, "de", svc.Cfg.GetDefaultCountry())
}

func TestUnlockPassword(t *testing.T) {
	svc, err := tests.CreateTestService(t)
	require.NoError(t, err)
	defer svc.Remove()

	// no password configured: auth disabled, anything unlocks
	assert.False(t, svc.Cfg.AuthEnabled())
	assert.True(t, svc.Cfg.CheckUnlockPassword(""))
	assert.True(t, svc.Cfg.CheckUnlockPassword("whatever"))

	cfg, err := config.NewConfig(&config.AppConfig{
		DefaultCountry: "us",
		UnlockPassword: "hunter2",
	}, svc.DB)
	require.NoError(t, err)

	assert.True(t, cfg.AuthEnabled())
	assert.True(t, cfg.CheckUnlockPassword("hunter2"))
	assert.False(t, cfg.CheckUnlockPassword("wrong"))
	assert.False(t, cfg.CheckUnlockPassword(""))
}
