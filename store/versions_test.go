package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ipahub/ipahub/store/plist"
)

func versionListDoc(identifiers ...plist.Value) plist.Dict {
	return plist.Dict{
		"songList": plist.Array{
			plist.Dict{
				"URL": plist.String("https://example.com/app.ipa"),
				"metadata": plist.Dict{
					"bundleShortVersionString":           plist.String("2.0.1"),
					"softwareVersionExternalIdentifiers": plist.Array(identifiers),
				},
			},
		},
	}
}

func TestListVersions(t *testing.T) {
	t.Parallel()

	client, backend := newTestClient(t, scriptedResponse{
		Doc: versionListDoc(plist.Integer(840000), plist.Integer(841500), plist.Integer(843200)),
	})

	versions, _, err := client.ListVersions(context.Background(), testAccount(), freeApp())
	require.NoError(t, err)
	// server order is preserved verbatim
	assert.Equal(t, []string{"840000", "841500", "843200"}, versions)

	requests := backend.Requests()
	require.Len(t, requests, 1)
	assert.Equal(t, downloadPath, requests[0].Path)
	assert.Equal(t, "guid=AABBCCDDEEFF", requests[0].Query)

	// no version pin on the listing request
	_, pinned := requests[0].Payload.String("externalVersionId")
	assert.False(t, pinned)
}

func TestListVersionsFoldsCookies(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, scriptedResponse{
		Doc:     versionListDoc(plist.Integer(840000)),
		Cookies: []string{"s=rotated"},
	})

	_, jar, err := client.ListVersions(context.Background(), testAccount(), freeApp())
	require.NoError(t, err)
	assert.Equal(t, "rotated", jar["s"].Value)
}

func TestListVersionsFailureUsesSharedClassification(t *testing.T) {
	t.Parallel()

	client, backend := newTestClient(t, scriptedResponse{Doc: failureDoc("2034", nil)})

	_, _, err := client.ListVersions(context.Background(), testAccount(), freeApp())
	assert.ErrorIs(t, err, ErrSessionExpired)
	// no retry branch outside the purchase flow
	assert.Len(t, backend.Requests(), 1)
}

func TestListVersions2059IsTerminal(t *testing.T) {
	t.Parallel()

	client, backend := newTestClient(t, scriptedResponse{Doc: failureDoc("2059", nil)})

	_, _, err := client.ListVersions(context.Background(), testAccount(), freeApp())
	assert.ErrorIs(t, err, ErrTemporarilyUnavailable)
	assert.Len(t, backend.Requests(), 1)
}

func TestListVersionsMissingMetadata(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, scriptedResponse{
		Doc: plist.Dict{
			"songList": plist.Array{plist.Dict{"URL": plist.String("https://example.com/app.ipa")}},
		},
	})

	_, _, err := client.ListVersions(context.Background(), testAccount(), freeApp())

	var storeErr *StoreError
	require.ErrorAs(t, err, &storeErr)
}
