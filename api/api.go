package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/ipahub/ipahub/accounts"
	"github.com/ipahub/ipahub/config"
	"github.com/ipahub/ipahub/db"
	"github.com/ipahub/ipahub/downloads"
	"github.com/ipahub/ipahub/logger"
	"github.com/ipahub/ipahub/lookup"
	"github.com/ipahub/ipahub/pkg/version"
	"github.com/ipahub/ipahub/store"
	"github.com/ipahub/ipahub/store/cookies"
)

type api struct {
	db           *gorm.DB
	cfg          config.Config
	accountsSvc  accounts.AccountsService
	downloadsSvc downloads.DownloadsService
	lookupSvc    lookup.Service
	storeClient  *store.Client
}

func NewAPI(gormDB *gorm.DB, cfg config.Config, accountsSvc accounts.AccountsService, downloadsSvc downloads.DownloadsService, lookupSvc lookup.Service, storeClient *store.Client) *api {
	return &api{
		db:           gormDB,
		cfg:          cfg,
		accountsSvc:  accountsSvc,
		downloadsSvc: downloadsSvc,
		lookupSvc:    lookupSvc,
		storeClient:  storeClient,
	}
}

func (api *api) CreateAccount(createAccountRequest *CreateAccountRequest) (*Account, error) {
	account, err := api.accountsSvc.CreateAccount(&accounts.CreateAccountRequest{
		Email:         createAccountRequest.Email,
		DSID:          createAccountRequest.DSID,
		PasswordToken: createAccountRequest.PasswordToken,
		Storefront:    createAccountRequest.Storefront,
		Pod:           createAccountRequest.Pod,
		DeviceID:      createAccountRequest.DeviceID,
	})
	if err != nil {
		return nil, err
	}
	return toApiAccount(account), nil
}

func (api *api) ListAccounts() ([]Account, error) {
	dbAccounts, err := api.accountsSvc.ListAccounts()
	if err != nil {
		return nil, err
	}

	apiAccounts := make([]Account, 0, len(dbAccounts))
	for i := range dbAccounts {
		apiAccounts = append(apiAccounts, *toApiAccount(&dbAccounts[i]))
	}
	return apiAccounts, nil
}

func (api *api) DeleteAccount(email string) error {
	return api.accountsSvc.DeleteAccount(email)
}

func (api *api) LookupApp(ctx context.Context, bundleID string, country string) (*store.Software, error) {
	if country == "" {
		country = api.cfg.GetDefaultCountry()
	}
	return api.lookupSvc.LookupApp(ctx, bundleID, country)
}

// PurchaseApp obtains a free-app license for the account. The rotated cookie
// jar is persisted even when the purchase fails, because the backend may
// rotate session cookies on failing responses too.
func (api *api) PurchaseApp(ctx context.Context, purchaseAppRequest *PurchaseAppRequest) error {
	snapshot, err := api.accountSnapshot(purchaseAppRequest.Email)
	if err != nil {
		return err
	}

	jar, purchaseErr := api.storeClient.PurchaseLicense(ctx, snapshot, purchaseAppRequest.Software)
	api.persistJar(snapshot, jar)

	if purchaseErr != nil {
		logger.Logger.Error().
			Err(purchaseErr).
			Str("email", snapshot.Email).
			Str("appId", purchaseAppRequest.Software.ID).
			Msg("Failed to obtain license")
		return purchaseErr
	}

	logger.Logger.Info().
		Str("email", snapshot.Email).
		Str("appId", purchaseAppRequest.Software.ID).
		Msg("Obtained license")
	return nil
}

func (api *api) ListVersions(ctx context.Context, listVersionsRequest *ListVersionsRequest) (*ListVersionsResponse, error) {
	snapshot, err := api.accountSnapshot(listVersionsRequest.Email)
	if err != nil {
		return nil, err
	}

	versions, jar, listErr := api.storeClient.ListVersions(ctx, snapshot, listVersionsRequest.Software)
	api.persistJar(snapshot, jar)

	if listErr != nil {
		return nil, listErr
	}
	return &ListVersionsResponse{Versions: versions}, nil
}

// ResolveDownload resolves the signed download descriptor and registers it in
// the download registry in one step.
func (api *api) ResolveDownload(ctx context.Context, resolveDownloadRequest *ResolveDownloadRequest) (*Download, error) {
	snapshot, err := api.accountSnapshot(resolveDownloadRequest.Email)
	if err != nil {
		return nil, err
	}

	descriptor, jar, resolveErr := api.storeClient.GetDownloadInfo(ctx, snapshot, resolveDownloadRequest.Software, resolveDownloadRequest.VersionID)
	api.persistJar(snapshot, jar)

	if resolveErr != nil {
		return nil, resolveErr
	}

	download, err := api.downloadsSvc.CreateDownload(
		resolveDownloadRequest.Software,
		accounts.AccountHash(snapshot.Email),
		resolveDownloadRequest.VersionID,
		descriptor,
	)
	if err != nil {
		return nil, err
	}
	return toApiDownload(download), nil
}

func (api *api) ListDownloads(limit uint64, offset uint64) (*ListDownloadsResponse, error) {
	dbDownloads, total, err := api.downloadsSvc.ListDownloads(limit, offset)
	if err != nil {
		return nil, err
	}

	apiDownloads := make([]Download, 0, len(dbDownloads))
	for i := range dbDownloads {
		apiDownloads = append(apiDownloads, *toApiDownload(&dbDownloads[i]))
	}
	return &ListDownloadsResponse{
		Downloads:  apiDownloads,
		TotalCount: total,
	}, nil
}

func (api *api) UpdateDownloadState(downloadID uint, updateDownloadStateRequest *UpdateDownloadStateRequest) error {
	return api.downloadsSvc.UpdateDownloadState(downloadID, updateDownloadStateRequest.State, updateDownloadStateRequest.Error)
}

func (api *api) DeleteDownload(downloadID uint) error {
	return api.downloadsSvc.DeleteDownload(downloadID)
}

func (api *api) GetInfo() *InfoResponse {
	return &InfoResponse{
		Version:        version.Tag,
		AuthEnabled:    api.cfg.AuthEnabled(),
		DefaultCountry: api.cfg.GetDefaultCountry(),
		Countries:      store.Countries(),
	}
}

func (api *api) GetSettings() (*SettingsResponse, error) {
	return &SettingsResponse{
		DefaultCountry: api.cfg.GetDefaultCountry(),
	}, nil
}

func (api *api) UpdateSettings(updateSettingsRequest *UpdateSettingsRequest) error {
	if _, ok := store.StorefrontID(updateSettingsRequest.DefaultCountry); !ok {
		return fmt.Errorf("unsupported country: %s", updateSettingsRequest.DefaultCountry)
	}
	return api.cfg.SetDefaultCountry(updateSettingsRequest.DefaultCountry)
}

func (api *api) accountSnapshot(email string) (store.Account, error) {
	if email == "" {
		return store.Account{}, errors.New("email is required")
	}
	account, err := api.accountsSvc.GetAccount(email)
	if err != nil {
		return store.Account{}, err
	}
	return api.accountsSvc.StoreAccount(account)
}

func (api *api) persistJar(snapshot store.Account, jar cookies.Jar) {
	if jar == nil || !accounts.JarChanged(snapshot.Cookies, jar) {
		return
	}
	if err := api.accountsSvc.UpdateCookies(snapshot.Email, jar); err != nil {
		logger.Logger.Error().Err(err).Str("email", snapshot.Email).Msg("Failed to persist rotated cookies")
	}
}

func toApiAccount(account *db.Account) *Account {
	country, _ := store.CountryForStorefront(account.Storefront)
	return &Account{
		Email:      account.Email,
		Storefront: account.Storefront,
		Country:    country,
		Pod:        account.Pod,
		CreatedAt:  account.CreatedAt,
		LastUsedAt: account.LastUsedAt,
	}
}

func toApiDownload(download *db.Download) *Download {
	sinfCount := 0
	if len(download.Sinfs) > 0 {
		var sinfs []store.Sinf
		if err := json.Unmarshal(download.Sinfs, &sinfs); err == nil {
			sinfCount = len(sinfs)
		}
	}

	return &Download{
		ID:          download.ID,
		AppID:       download.AppID,
		BundleID:    download.BundleID,
		Name:        download.Name,
		Version:     download.Version,
		VersionID:   download.VersionID,
		ArtworkURL:  download.ArtworkURL,
		AccountHash: download.AccountHash,
		DownloadURL: download.DownloadURL,
		SinfCount:   sinfCount,
		State:       download.State,
		Error:       download.Error,
		CreatedAt:   download.CreatedAt,
	}
}
