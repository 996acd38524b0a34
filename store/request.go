package store

import (
	"context"
	"strconv"
	"strings"

	"github.com/ipahub/ipahub/logger"
	"github.com/ipahub/ipahub/store/cookies"
	"github.com/ipahub/ipahub/store/plist"
)

// customer-facing phrases the backend uses instead of dedicated failure codes
const (
	passwordChangedMessage      = "Your password has changed."
	subscriptionRequiredMessage = "Subscription Required"
)

// roundTrip is the shared request pipeline: encode the payload, send it,
// fold any rotated cookies into the jar, decode the body and classify a
// present failureType.
//
// The returned jar reflects every path that reached a decoded response, even
// failing ones, because the backend rotates session cookies on failures too.
// Transport and decode failures return the input jar unchanged.
func (c *Client) roundTrip(ctx context.Context, account Account, jar cookies.Jar, path string, payload plist.Dict) (plist.Dict, cookies.Jar, error) {
	body, err := plist.Encode(payload)
	if err != nil {
		return nil, jar, err
	}

	resp, err := c.send(ctx, account, jar, path, body)
	if err != nil {
		return nil, jar, err
	}

	decoded, err := plist.Decode(resp.Body)
	if err != nil {
		logger.Logger.Error().
			Err(err).
			Str("email", account.Email).
			Str("path", path).
			Str("body", string(resp.Body)).
			Msg("Failed to decode store response")
		return nil, jar, &MalformedResponseError{Body: resp.Body, Err: err}
	}

	doc, ok := decoded.(plist.Dict)
	if !ok {
		return nil, jar, &MalformedResponseError{Body: resp.Body}
	}

	// fold cookies before failure classification
	jar = cookies.Merge(jar, cookies.ParseSetCookieHeaders(resp.setCookieHeaders()))

	if code, ok := failureType(doc); ok {
		return doc, jar, classifyFailure(code, doc)
	}
	return doc, jar, nil
}

// failureType reads the top-level failure indicator. The backend sends it as
// a string but has been observed to use an integer.
func failureType(doc plist.Dict) (string, bool) {
	if code, ok := doc.String("failureType"); ok {
		return code, code != ""
	}
	if code, ok := doc.Int("failureType"); ok {
		return strconv.FormatInt(code, 10), true
	}
	return "", false
}

// classifyFailure maps a failureType code to the error taxonomy. The code is
// authoritative; customer-message phrases are matched exactly only for codes
// without a dedicated mapping.
func classifyFailure(code string, doc plist.Dict) error {
	switch code {
	case "2059":
		return &StoreError{Code: code, Message: "item is temporarily unavailable", err: ErrTemporarilyUnavailable}
	case "2034", "2042":
		return &StoreError{Code: code, Message: "password token is expired", err: ErrSessionExpired}
	}

	message, _ := doc.String("customerMessage")
	switch message {
	case passwordChangedMessage:
		return &StoreError{Code: code, Message: "password token is expired", err: ErrSessionExpired}
	case subscriptionRequiredMessage:
		return &StoreError{Code: code, Message: "subscription required", err: ErrSubscriptionRequired}
	}

	if action, ok := doc.Dict("action"); ok {
		url, ok := action.String("url")
		if !ok {
			url, ok = action.String("URL")
		}
		if ok && strings.HasSuffix(url, "termsPage") {
			return &TermsError{Code: code, URL: url}
		}
	}

	return &StoreError{Code: code, Message: message}
}
