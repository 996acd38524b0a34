// Package store implements the client for the legacy plist-RPC store
// backend: obtaining free-app licenses, enumerating historical app versions
// and resolving signed download artifacts.
//
// Every operation takes an account snapshot and returns an updated cookie
// jar. The client holds no mutable state; callers must persist the returned
// jar before issuing another call for the same account, and must serialize
// calls per account themselves.
package store

import (
	"github.com/ipahub/ipahub/store/cookies"
	"github.com/ipahub/ipahub/store/plist"
)

// Account is a snapshot of one store account's identity and session state.
// The client never mutates it; updated session state is returned as a new
// cookie jar.
type Account struct {
	Email string
	// DeviceID is the stable per-install GUID sent as "guid".
	DeviceID string
	// DSID is the account's directory-services identifier.
	DSID string
	// PasswordToken is the session token obtained at login.
	PasswordToken string
	// Storefront is the numeric store region code.
	Storefront string
	// Pod selects which physical store host serves this account.
	Pod     string
	Cookies cookies.Jar
}

// Software references one store item. Price absent or zero means free.
type Software struct {
	ID             string  `json:"id"`
	BundleID       string  `json:"bundleId"`
	Name           string  `json:"name"`
	Version        string  `json:"version"`
	Price          float64 `json:"price"`
	ArtistName     string  `json:"artistName"`
	ArtworkURL     string  `json:"artworkUrl"`
	FormattedPrice string  `json:"formattedPrice"`
}

// Sinf is an opaque per-file signature blob required to authorize
// installation of the downloaded artifact.
type Sinf struct {
	ID   int64
	Data []byte
}

// DownloadDescriptor is the result of a successful download resolution.
// It is constructed per call and never persisted by the client.
type DownloadDescriptor struct {
	URL      string
	Sinfs    []Sinf
	Metadata plist.Dict
}
