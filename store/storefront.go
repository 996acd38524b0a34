package store

// storefrontByCountry maps lowercase ISO country codes to the numeric
// storefront identifier the backend expects in X-Apple-Store-Front.
var storefrontByCountry = map[string]string{
	"ae": "143481",
	"ag": "143540",
	"ar": "143505",
	"at": "143445",
	"au": "143460",
	"be": "143446",
	"bg": "143526",
	"br": "143503",
	"ca": "143455",
	"ch": "143459",
	"cl": "143483",
	"cn": "143465",
	"co": "143501",
	"cr": "143495",
	"cz": "143489",
	"de": "143443",
	"dk": "143458",
	"do": "143508",
	"ec": "143509",
	"ee": "143518",
	"eg": "143516",
	"es": "143454",
	"fi": "143447",
	"fr": "143442",
	"gb": "143444",
	"gr": "143448",
	"hk": "143463",
	"hr": "143494",
	"hu": "143482",
	"id": "143476",
	"ie": "143449",
	"il": "143491",
	"in": "143467",
	"it": "143450",
	"jp": "143462",
	"kr": "143466",
	"kz": "143517",
	"lt": "143520",
	"lu": "143451",
	"lv": "143519",
	"mo": "143515",
	"mt": "143521",
	"mx": "143468",
	"my": "143473",
	"nl": "143452",
	"no": "143457",
	"nz": "143461",
	"pa": "143485",
	"pe": "143507",
	"ph": "143474",
	"pk": "143477",
	"pl": "143478",
	"pt": "143453",
	"qa": "143498",
	"ro": "143487",
	"ru": "143469",
	"sa": "143479",
	"se": "143456",
	"sg": "143464",
	"si": "143499",
	"sk": "143496",
	"th": "143475",
	"tr": "143480",
	"tw": "143470",
	"ua": "143492",
	"us": "143441",
	"ve": "143502",
	"vn": "143471",
	"za": "143472",
}

// StorefrontID resolves an ISO country code to its storefront identifier.
func StorefrontID(country string) (string, bool) {
	id, ok := storefrontByCountry[country]
	return id, ok
}

// CountryForStorefront resolves a storefront identifier back to its ISO
// country code.
func CountryForStorefront(storefront string) (string, bool) {
	for country, id := range storefrontByCountry {
		if id == storefront {
			return country, true
		}
	}
	return "", false
}

// Countries lists the supported ISO country codes. The caller sorts them for
// display.
func Countries() []string {
	countries := make([]string, 0, len(storefrontByCountry))
	for country := range storefrontByCountry {
		countries = append(countries, country)
	}
	return countries
}
