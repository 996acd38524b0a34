package service

import (
	"gorm.io/gorm"

	"github.com/ipahub/ipahub/accounts"
	"github.com/ipahub/ipahub/config"
	"github.com/ipahub/ipahub/downloads"
	"github.com/ipahub/ipahub/lookup"
	"github.com/ipahub/ipahub/store"
)

type Service interface {
	Shutdown()

	GetDB() *gorm.DB
	GetConfig() config.Config
	GetAccountsService() accounts.AccountsService
	GetDownloadsService() downloads.DownloadsService
	GetLookupService() lookup.Service
	GetStoreClient() *store.Client
}
