package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/ipahub/ipahub/logger"
	"github.com/ipahub/ipahub/store/cookies"
	"github.com/ipahub/ipahub/store/plist"
)

// pricingParameters are the server-side routing buckets for the purchase
// path. STDQ is the standard bucket; GAME is the documented workaround when
// the standard bucket reports the item temporarily unavailable (2059), tried
// exactly once.
var pricingParameters = []string{"STDQ", "GAME"}

// PurchaseLicense obtains a free-app license for the account. On success the
// license grant is implicit server-side; the only output is the updated
// cookie jar, which the caller must persist. The jar is also returned on
// failures that reached a decoded response.
func (c *Client) PurchaseLicense(ctx context.Context, account Account, app Software) (cookies.Jar, error) {
	if app.Price > 0 {
		return account.Cookies, ErrPaidAppsNotSupported
	}

	jar := account.Cookies
	for i, bucket := range pricingParameters {
		doc, updatedJar, err := c.roundTrip(ctx, account, jar, purchasePath, buyPayload(account, app, bucket))
		jar = updatedJar
		if err != nil {
			if errors.Is(err, ErrTemporarilyUnavailable) && i < len(pricingParameters)-1 {
				logger.Logger.Info().
					Str("email", account.Email).
					Str("appId", app.ID).
					Str("pricingParameters", bucket).
					Msg("Item temporarily unavailable, retrying with fallback pricing parameters")
				continue
			}
			return jar, err
		}

		docType, _ := doc.String("jingleDocType")
		status, hasStatus := doc.Int("status")
		if docType != "purchaseSuccess" || !hasStatus || status != 0 {
			return jar, &StoreError{Message: "failed to purchase app"}
		}
		return jar, nil
	}

	// unreachable: the final attempt always returns above
	return jar, &StoreError{Message: "failed to purchase app"}
}

func buyPayload(account Account, app Software, bucket string) plist.Dict {
	return plist.Dict{
		"appExtVrsId":               plist.String("0"),
		"hasAskedToFulfillPreorder": plist.String("true"),
		"buyWithoutAuthorization":   plist.String("true"),
		"hasDoneAgeCheck":           plist.String("true"),
		"guid":                      plist.String(account.DeviceID),
		"needDiv":                   plist.String("0"),
		"origPage":                  plist.String(fmt.Sprintf("Software-%s", app.ID)),
		"origPageLocation":          plist.String("Buy"),
		"price":                     plist.String("0"),
		"pricingParameters":         plist.String(bucket),
		"productType":               plist.String("C"),
		"salableAdamId":             plist.String(app.ID),
	}
}
