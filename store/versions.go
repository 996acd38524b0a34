package store

import (
	"context"
	"strconv"

	"github.com/ipahub/ipahub/store/cookies"
	"github.com/ipahub/ipahub/store/plist"
)

// ListVersions enumerates the external version identifiers of every
// historical version of the app, in the order the backend reports them. The
// backend exposes no dedicated version-list call; the identifiers are carried
// in the download document's metadata.
func (c *Client) ListVersions(ctx context.Context, account Account, app Software) ([]string, cookies.Jar, error) {
	doc, jar, err := c.roundTrip(ctx, account, account.Cookies, downloadPath+"?guid="+account.DeviceID, downloadPayload(account, app, ""))
	if err != nil {
		return nil, jar, err
	}

	item, err := firstSong(doc)
	if err != nil {
		return nil, jar, err
	}

	metadata, ok := item.Dict("metadata")
	if !ok {
		return nil, jar, &StoreError{Message: "download response is missing version metadata"}
	}

	identifiers, ok := metadata.Array("softwareVersionExternalIdentifiers")
	if !ok {
		return nil, jar, &StoreError{Message: "download response is missing version identifiers"}
	}

	versions := make([]string, 0, len(identifiers))
	for _, value := range identifiers {
		switch id := value.(type) {
		case plist.Integer:
			versions = append(versions, strconv.FormatInt(int64(id), 10))
		case plist.String:
			versions = append(versions, string(id))
		}
	}
	return versions, jar, nil
}
