package tests

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ipahub/ipahub/accounts"
	"github.com/ipahub/ipahub/config"
	"github.com/ipahub/ipahub/db"
	"github.com/ipahub/ipahub/db/migrations"
	"github.com/ipahub/ipahub/downloads"
	"github.com/ipahub/ipahub/logger"
	"github.com/ipahub/ipahub/lookup"
	"github.com/ipahub/ipahub/store"
)

type TestService struct {
	Cfg              config.Config
	DB               *gorm.DB
	AccountsService  accounts.AccountsService
	DownloadsService downloads.DownloadsService
	LookupService    lookup.Service
	StoreClient      *store.Client
}

func CreateTestService(t *testing.T) (*TestService, error) {
	logger.Init("4")

	gormDB, err := db.NewDB(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()), false)
	if err != nil {
		return nil, err
	}
	if err := migrations.Migrate(gormDB); err != nil {
		return nil, err
	}

	appConfig := &config.AppConfig{
		Workdir:        t.TempDir(),
		DefaultCountry: "us",
	}
	cfg, err := config.NewConfig(appConfig, gormDB)
	if err != nil {
		return nil, err
	}

	return &TestService{
		Cfg:              cfg,
		DB:               gormDB,
		AccountsService:  accounts.NewAccountsService(gormDB),
		DownloadsService: downloads.NewDownloadsService(gormDB),
		LookupService:    lookup.NewLookupService(),
		StoreClient:      store.NewClient(),
	}, nil
}

func (svc *TestService) Remove() {
	if err := db.Stop(svc.DB); err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to close test database")
	}
}
