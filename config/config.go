package config

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"path/filepath"

	"github.com/adrg/xdg"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ipahub/ipahub/db"
	"github.com/ipahub/ipahub/logger"
)

type config struct {
	Env *AppConfig
	db  *gorm.DB
}

func NewConfig(env *AppConfig, gormDB *gorm.DB) (*config, error) {
	cfg := &config{
		Env: env,
		db:  gormDB,
	}

	if env.DefaultCountry != "" {
		err := cfg.SetIgnore(DefaultCountryKey, env.DefaultCountry)
		if err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func (cfg *config) Get(key string) (string, error) {
	var userConfig db.UserConfig
	err := cfg.db.Where(&db.UserConfig{Key: key}).Limit(1).Find(&userConfig).Error
	if err != nil {
		return "", err
	}
	return userConfig.Value, nil
}

// SetIgnore only writes the value if the key does not exist yet.
func (cfg *config) SetIgnore(key string, value string) error {
	clauses := clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoNothing: true,
	}
	return cfg.set(key, value, clauses)
}

// SetUpdate overwrites any existing value for the key.
func (cfg *config) SetUpdate(key string, value string) error {
	clauses := clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}
	return cfg.set(key, value, clauses)
}

func (cfg *config) set(key string, value string, clauses clause.OnConflict) error {
	userConfig := db.UserConfig{Key: key, Value: value}
	err := cfg.db.Clauses(clauses).Create(&userConfig).Error
	if err != nil {
		logger.Logger.Error().Err(err).Str("key", key).Msg("Failed to save config value")
		return err
	}
	return nil
}

// GetJWTSecret returns the persisted JWT signing secret, generating one on
// first use.
func (cfg *config) GetJWTSecret() (string, error) {
	secret, err := cfg.Get(JWTSecretKey)
	if err != nil {
		return "", err
	}
	if secret != "" {
		return secret, nil
	}

	secret, err = randomHex(32)
	if err != nil {
		logger.Logger.Error().Err(err).Msg("failed to generate JWT secret")
		return "", err
	}
	logger.Logger.Info().Msg("Generated new JWT secret")

	err = cfg.SetUpdate(JWTSecretKey, secret)
	if err != nil {
		logger.Logger.Error().Err(err).Msg("failed to save JWT secret")
		return "", err
	}
	return secret, nil
}

func (cfg *config) GetDefaultCountry() string {
	country, err := cfg.Get(DefaultCountryKey)
	if err != nil || country == "" {
		return cfg.Env.DefaultCountry
	}
	return country
}

func (cfg *config) SetDefaultCountry(value string) error {
	if value == "" {
		return errors.New("country cannot be empty")
	}
	return cfg.SetUpdate(DefaultCountryKey, value)
}

func (cfg *config) GetEnv() *AppConfig {
	return cfg.Env
}

func (cfg *config) CheckUnlockPassword(password string) bool {
	if !cfg.AuthEnabled() {
		return true
	}
	return subtle.ConstantTimeCompare([]byte(password), []byte(cfg.Env.UnlockPassword)) == 1
}

func (cfg *config) AuthEnabled() bool {
	return cfg.Env.UnlockPassword != ""
}

func (cfg *config) GetDefaultWorkDir() string {
	return filepath.Join(xdg.DataHome, "ipahub")
}

func randomHex(n int) (string, error) {
	bytes := make([]byte, n)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
