package store

import (
	"context"

	"github.com/ipahub/ipahub/store/cookies"
	"github.com/ipahub/ipahub/store/plist"
)

// GetDownloadInfo resolves the signed download descriptor for an app the
// account already holds a license for. versionID optionally pins a specific
// historical version (an external version identifier from ListVersions); when
// empty, the latest version is resolved.
func (c *Client) GetDownloadInfo(ctx context.Context, account Account, app Software, versionID string) (*DownloadDescriptor, cookies.Jar, error) {
	doc, jar, err := c.roundTrip(ctx, account, account.Cookies, downloadPath+"?guid="+account.DeviceID, downloadPayload(account, app, versionID))
	if err != nil {
		return nil, jar, err
	}

	item, err := firstSong(doc)
	if err != nil {
		return nil, jar, err
	}

	url, ok := item.String("URL")
	if !ok {
		return nil, jar, &StoreError{Message: "download response is missing the artifact URL"}
	}

	descriptor := &DownloadDescriptor{URL: url}
	if metadata, ok := item.Dict("metadata"); ok {
		descriptor.Metadata = metadata
	}

	sinfs, _ := item.Array("sinfs")
	for _, value := range sinfs {
		entry, ok := value.(plist.Dict)
		if !ok {
			continue
		}
		id, _ := entry.Int("id")
		data, ok := entry.Data("sinf")
		if !ok {
			continue
		}
		descriptor.Sinfs = append(descriptor.Sinfs, Sinf{ID: id, Data: data})
	}

	return descriptor, jar, nil
}

func downloadPayload(account Account, app Software, versionID string) plist.Dict {
	payload := plist.Dict{
		"creditDisplay": plist.String(""),
		"guid":          plist.String(account.DeviceID),
		"salableAdamId": plist.String(app.ID),
	}
	if versionID != "" {
		payload["externalVersionId"] = plist.String(versionID)
	}
	return payload
}

// firstSong extracts the first entry of the download document's songList.
func firstSong(doc plist.Dict) (plist.Dict, error) {
	songs, ok := doc.Array("songList")
	if !ok || len(songs) == 0 {
		return nil, &StoreError{Message: "download response contains no items"}
	}
	item, ok := songs[0].(plist.Dict)
	if !ok {
		return nil, &StoreError{Message: "download response contains no items"}
	}
	return item, nil
}
