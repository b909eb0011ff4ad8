package domain

// countryToCurrency maps two-letter country codes to display currencies.
// Countries without an entry fall through to the default currency.
var countryToCurrency = map[string]string{
	"US": "USD",
	"IN": "INR",
	"GB": "GBP",
	"JP": "JPY",
	"AU": "AUD",
	"CA": "CAD",
	"SG": "SGD",
	"AE": "AED",
	"BR": "BRL",
	"NG": "NGN",
	"ZA": "ZAR",
	"ID": "IDR",
	"PH": "PHP",
	"MX": "MXN",
	// Eurozone members served by the platform.
	"DE": "EUR",
	"FR": "EUR",
	"ES": "EUR",
	"IT": "EUR",
	"NL": "EUR",
	"PT": "EUR",
	"IE": "EUR",
	"AT": "EUR",
	"BE": "EUR",
	"FI": "EUR",
	"GR": "EUR",
}

// CurrencyForCountry returns the display currency for a country code and
// whether a mapping exists.
func CurrencyForCountry(countryCode string) (string, bool) {
	code, ok := countryToCurrency[countryCode]
	return code, ok
}

// timezoneToCountry maps common IANA timezone identifiers to countries.
// This is the third rung of the geolocation fallback chain, so it only needs
// to cover the zones the platform's audience actually sits in.
var timezoneToCountry = map[string]string{
	"Asia/Kolkata":         "IN",
	"Asia/Calcutta":        "IN",
	"Asia/Singapore":       "SG",
	"Asia/Tokyo":           "JP",
	"Asia/Dubai":           "AE",
	"Asia/Jakarta":         "ID",
	"Asia/Manila":          "PH",
	"Europe/London":        "GB",
	"Europe/Berlin":        "DE",
	"Europe/Paris":         "FR",
	"Europe/Madrid":        "ES",
	"Europe/Rome":          "IT",
	"Europe/Amsterdam":     "NL",
	"Europe/Lisbon":        "PT",
	"Europe/Dublin":        "IE",
	"America/New_York":     "US",
	"America/Chicago":      "US",
	"America/Denver":       "US",
	"America/Los_Angeles":  "US",
	"America/Toronto":      "CA",
	"America/Vancouver":    "CA",
	"America/Sao_Paulo":    "BR",
	"America/Mexico_City":  "MX",
	"Africa/Lagos":         "NG",
	"Africa/Johannesburg":  "ZA",
	"Australia/Sydney":     "AU",
	"Australia/Melbourne":  "AU",
	"Australia/Brisbane":   "AU",
	"Australia/Perth":      "AU",
}

// CountryForTimezone returns the country for an IANA timezone identifier and
// whether a mapping exists.
func CountryForTimezone(tz string) (string, bool) {
	country, ok := timezoneToCountry[tz]
	return country, ok
}
