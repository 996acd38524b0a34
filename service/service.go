package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"gorm.io/gorm"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/ipahub/ipahub/accounts"
	"github.com/ipahub/ipahub/config"
	"github.com/ipahub/ipahub/db"
	"github.com/ipahub/ipahub/db/migrations"
	"github.com/ipahub/ipahub/downloads"
	"github.com/ipahub/ipahub/logger"
	"github.com/ipahub/ipahub/lookup"
	"github.com/ipahub/ipahub/pkg/version"
	"github.com/ipahub/ipahub/store"
)

type service struct {
	cfg config.Config

	db           *gorm.DB
	accountsSvc  accounts.AccountsService
	downloadsSvc downloads.DownloadsService
	lookupSvc    lookup.Service
	storeClient  *store.Client
	ctx          context.Context
}

func NewService(ctx context.Context) (*service, error) {
	// Load config from environment variables / .env file
	godotenv.Load(".env")
	appConfig := &config.AppConfig{}
	err := envconfig.Process("", appConfig)
	if err != nil {
		return nil, err
	}

	logger.Init(appConfig.LogLevel)
	logger.Logger.Info().Msg("IPA Hub " + version.Tag)

	if appConfig.Workdir == "" {
		appConfig.Workdir = filepath.Join(xdg.DataHome, "ipahub")
		logger.Logger.Info().Str("workdir", appConfig.Workdir).Msg("No workdir specified, using default")
	}
	// make sure workdir exists
	os.MkdirAll(appConfig.Workdir, os.ModePerm)

	if appConfig.LogToFile {
		err = logger.AddFileLogger(appConfig.Workdir)
		if err != nil {
			return nil, err
		}
	}

	// If DATABASE_URI is a URI or a path, leave it unchanged.
	// If it only contains a filename, prepend the workdir.
	if !strings.HasPrefix(appConfig.DatabaseUri, "file:") {
		databasePath, _ := filepath.Split(appConfig.DatabaseUri)
		if databasePath == "" {
			appConfig.DatabaseUri = filepath.Join(appConfig.Workdir, appConfig.DatabaseUri)
		}
	}

	gormDB, err := db.NewDB(appConfig.DatabaseUri, appConfig.LogDBQueries)
	if err != nil {
		return nil, err
	}

	err = migrations.Migrate(gormDB)
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to migrate database")
		return nil, err
	}

	cfg, err := config.NewConfig(appConfig, gormDB)
	if err != nil {
		return nil, err
	}

	svc := &service{
		cfg:          cfg,
		ctx:          ctx,
		db:           gormDB,
		accountsSvc:  accounts.NewAccountsService(gormDB),
		downloadsSvc: downloads.NewDownloadsService(gormDB),
		lookupSvc:    lookup.NewLookupService(),
		storeClient:  store.NewClient(),
	}

	return svc, nil
}

func (svc *service) Shutdown() {
	err := db.Stop(svc.db)
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to close database")
	}
}

func (svc *service) GetDB() *gorm.DB {
	return svc.db
}

func (svc *service) GetConfig() config.Config {
	return svc.cfg
}

func (svc *service) GetAccountsService() accounts.AccountsService {
	return svc.accountsSvc
}

func (svc *service) GetDownloadsService() downloads.DownloadsService {
	return svc.downloadsSvc
}

func (svc *service) GetLookupService() lookup.Service {
	return svc.lookupSvc
}

func (svc *service) GetStoreClient() *store.Client {
	return svc.storeClient
}
