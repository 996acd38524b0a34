package db

import (
	"time"

	"gorm.io/datatypes"
)

type UserConfig struct {
	ID        uint
	Key       string `gorm:"unique;not null"`
	Value     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Account struct {
	ID    uint
	Email string `validate:"required" gorm:"unique;not null"`
	// DSID is the account's directory-services identifier.
	DSID string `gorm:"column:dsid"`
	// DeviceID is the stable per-install GUID sent with every store request.
	DeviceID      string
	PasswordToken string
	Storefront    string
	Pod           string
	// Cookies holds the serialized session cookie jar. Updated after every
	// store call that reached a decoded response.
	Cookies    datatypes.JSON
	CreatedAt  time.Time
	UpdatedAt  time.Time
	LastUsedAt *time.Time
}

type Download struct {
	ID          uint
	AppID       string `gorm:"column:app_id"`
	BundleID    string
	Name        string
	Version     string
	ArtworkURL  string
	AccountHash string `validate:"required"`
	DownloadURL string
	VersionID   string
	Sinfs       datatypes.JSON
	Metadata    []byte
	State       string
	Error       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
