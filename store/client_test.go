package store

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ipahub/ipahub/store/plist"
)

// recordedRequest captures one request the scripted backend received.
type recordedRequest struct {
	Path    string
	Query   string
	Header  http.Header
	Payload plist.Dict
}

// scriptedResponse is one canned backend response. Cookies become repeated
// Set-Cookie headers.
type scriptedResponse struct {
	Status  int
	Doc     plist.Dict
	RawBody string
	Cookies []string
}

type scriptedBackend struct {
	t         *testing.T
	mu        sync.Mutex
	responses []scriptedResponse
	requests  []recordedRequest
}

func (b *scriptedBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	body, err := io.ReadAll(r.Body)
	require.NoError(b.t, err)

	recorded := recordedRequest{
		Path:   r.URL.Path,
		Query:  r.URL.RawQuery,
		Header: r.Header.Clone(),
	}
	if len(body) > 0 {
		decoded, err := plist.Decode(body)
		require.NoError(b.t, err)
		recorded.Payload = decoded.(plist.Dict)
	}
	b.requests = append(b.requests, recorded)

	require.NotEmpty(b.t, b.responses, "backend received more requests than scripted")
	response := b.responses[0]
	b.responses = b.responses[1:]

	for _, cookie := range response.Cookies {
		w.Header().Add("Set-Cookie", cookie)
	}
	status := response.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)

	if response.RawBody != "" {
		_, _ = w.Write([]byte(response.RawBody))
		return
	}
	encoded, err := plist.Encode(response.Doc)
	require.NoError(b.t, err)
	_, _ = w.Write(encoded)
}

func (b *scriptedBackend) Requests() []recordedRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.requests
}

func newTestClient(t *testing.T, responses ...scriptedResponse) (*Client, *scriptedBackend) {
	backend := &scriptedBackend{t: t, responses: responses}
	server := httptest.NewServer(backend)
	t.Cleanup(server.Close)
	return NewClient(WithBaseURL(server.URL)), backend
}

func testAccount() Account {
	return Account{
		Email:         "user@example.com",
		DeviceID:      "AABBCCDDEEFF",
		DSID:          "12345678",
		PasswordToken: "token-abc",
		Storefront:    "143441",
		Pod:           "31",
		Cookies:       nil,
	}
}

func freeApp() Software {
	return Software{
		ID:       "361309726",
		BundleID: "com.example.app",
		Name:     "Example",
		Version:  "2.0.1",
		Price:    0,
	}
}

func successDoc() plist.Dict {
	return plist.Dict{
		"jingleDocType": plist.String("purchaseSuccess"),
		"status":        plist.Integer(0),
	}
}

func failureDoc(failureType string, extra plist.Dict) plist.Dict {
	doc := plist.Dict{"failureType": plist.String(failureType)}
	for key, value := range extra {
		doc[key] = value
	}
	return doc
}
