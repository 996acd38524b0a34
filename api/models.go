package api

import (
	"context"
	"time"

	"github.com/ipahub/ipahub/store"
)

type API interface {
	CreateAccount(createAccountRequest *CreateAccountRequest) (*Account, error)
	ListAccounts() ([]Account, error)
	DeleteAccount(email string) error

	LookupApp(ctx context.Context, bundleID string, country string) (*store.Software, error)
	PurchaseApp(ctx context.Context, purchaseAppRequest *PurchaseAppRequest) error
	ListVersions(ctx context.Context, listVersionsRequest *ListVersionsRequest) (*ListVersionsResponse, error)
	ResolveDownload(ctx context.Context, resolveDownloadRequest *ResolveDownloadRequest) (*Download, error)

	ListDownloads(limit uint64, offset uint64) (*ListDownloadsResponse, error)
	UpdateDownloadState(downloadID uint, updateDownloadStateRequest *UpdateDownloadStateRequest) error
	DeleteDownload(downloadID uint) error

	GetInfo() *InfoResponse
	GetSettings() (*SettingsResponse, error)
	UpdateSettings(updateSettingsRequest *UpdateSettingsRequest) error
}

type ErrorResponse struct {
	Message string `json:"message"`
}

type InfoResponse struct {
	Version        string   `json:"version"`
	AuthEnabled    bool     `json:"authEnabled"`
	DefaultCountry string   `json:"defaultCountry"`
	Countries      []string `json:"countries"`
}

type CreateAccountRequest struct {
	Email         string `json:"email"`
	DSID          string `json:"dsid"`
	PasswordToken string `json:"passwordToken"`
	Storefront    string `json:"storefront"`
	Pod           string `json:"pod"`
	DeviceID      string `json:"deviceId"`
}

type Account struct {
	Email      string     `json:"email"`
	Storefront string     `json:"storefront"`
	Country    string     `json:"country,omitempty"`
	Pod        string     `json:"pod"`
	CreatedAt  time.Time  `json:"createdAt"`
	LastUsedAt *time.Time `json:"lastUsedAt"`
}

type PurchaseAppRequest struct {
	Email    string         `json:"email"`
	Software store.Software `json:"software"`
}

type ListVersionsRequest struct {
	Email    string         `json:"email"`
	Software store.Software `json:"software"`
}

type ListVersionsResponse struct {
	Versions []string `json:"versions"`
}

type ResolveDownloadRequest struct {
	Email     string         `json:"email"`
	Software  store.Software `json:"software"`
	VersionID string         `json:"versionId"`
}

type Download struct {
	ID          uint      `json:"id"`
	AppID       string    `json:"appId"`
	BundleID    string    `json:"bundleId"`
	Name        string    `json:"name"`
	Version     string    `json:"version"`
	VersionID   string    `json:"versionId,omitempty"`
	ArtworkURL  string    `json:"artworkUrl,omitempty"`
	AccountHash string    `json:"accountHash"`
	DownloadURL string    `json:"downloadUrl"`
	SinfCount   int       `json:"sinfCount"`
	State       string    `json:"state"`
	Error       string    `json:"error,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

type ListDownloadsResponse struct {
	Downloads  []Download `json:"downloads"`
	TotalCount int64      `json:"totalCount"`
}

type UpdateDownloadStateRequest struct {
	State string `json:"state"`
	Error string `json:"error"`
}

type SettingsResponse struct {
	DefaultCountry string `json:"defaultCountry"`
}

type UpdateSettingsRequest struct {
	DefaultCountry string `json:"defaultCountry"`
}
