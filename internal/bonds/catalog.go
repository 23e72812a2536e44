// Package bonds holds the static catalog of fractional government bonds.
// The catalog is reference data: immutable, never persisted alongside user
// state, and served fresh on every call.
package bonds

import "github.com/bondfi/bondfi/internal/domain"

var catalog = []domain.Bond{
	{
		ID:              "bond_us_1",
		Country:         "United States",
		CountryCode:     "US",
		YieldPercentage: 4.2,
		MaturityDate:    "2028-12-31",
		MinimumEntry:    1.0,
		FlagURL:         "https://flagcdn.com/w80/us.png",
		Description:     "US Treasury bonds backed by the full faith of the United States government.",
		Issuer:          "U.S. Department of Treasury",
	},
	{
		ID:              "bond_sg_1",
		Country:         "Singapore",
		CountryCode:     "SG",
		YieldPercentage: 3.8,
		MaturityDate:    "2029-06-30",
		MinimumEntry:    1.0,
		FlagURL:         "https://flagcdn.com/w80/sg.png",
		Description:     "Singapore Government Securities with AAA credit rating.",
		Issuer:          "Monetary Authority of Singapore",
	},
	{
		ID:              "bond_de_1",
		Country:         "Germany",
		CountryCode:     "DE",
		YieldPercentage: 2.9,
		MaturityDate:    "2030-03-15",
		MinimumEntry:    1.0,
		FlagURL:         "https://flagcdn.com/w80/de.png",
		Description:     "German Bundesanleihen, considered one of the safest investments in Europe.",
		Issuer:          "Federal Republic of Germany",
	},
	{
		ID:              "bond_jp_1",
		Country:         "Japan",
		CountryCode:     "JP",
		YieldPercentage: 1.5,
		MaturityDate:    "2027-09-30",
		MinimumEntry:    1.0,
		FlagURL:         "https://flagcdn.com/w80/jp.png",
		Description:     "Japanese Government Bonds (JGBs) known for stability.",
		Issuer:          "Ministry of Finance Japan",
	},
	{
		ID:              "bond_ca_1",
		Country:         "Canada",
		CountryCode:     "CA",
		YieldPercentage: 3.5,
		MaturityDate:    "2029-11-15",
		MinimumEntry:    1.0,
		FlagURL:         "https://flagcdn.com/w80/ca.png",
		Description:     "Government of Canada bonds with strong credit rating.",
		Issuer:          "Government of Canada",
	},
	{
		ID:              "bond_au_1",
		Country:         "Australia",
		CountryCode:     "AU",
		YieldPercentage: 4.0,
		MaturityDate:    "2028-08-31",
		MinimumEntry:    1.0,
		FlagURL:         "https://flagcdn.com/w80/au.png",
		Description:     "Australian Government Bonds with attractive yields.",
		Issuer:          "Australian Office of Financial Management",
	},
	{
		ID:              "bond_uk_1",
		Country:         "United Kingdom",
		CountryCode:     "GB",
		YieldPercentage: 4.5,
		MaturityDate:    "2029-04-30",
		MinimumEntry:    1.0,
		FlagURL:         "https://flagcdn.com/w80/gb.png",
		Description:     "UK Gilts issued by Her Majesty's Treasury.",
		Issuer:          "UK Debt Management Office",
	},
	{
		ID:              "bond_ch_1",
		Country:         "Switzerland",
		CountryCode:     "CH",
		YieldPercentage: 1.8,
		MaturityDate:    "2030-12-31",
		MinimumEntry:    1.0,
		FlagURL:         "https://flagcdn.com/w80/ch.png",
		Description:     "Swiss Confederation bonds, ultra-safe haven assets.",
		Issuer:          "Swiss Federal Finance Administration",
	},
}

// All returns a copy of the full catalog. Callers may reorder or filter
// the returned slice without affecting other callers.
func All() []domain.Bond {
	out := make([]domain.Bond, len(catalog))
	copy(out, catalog)
	return out
}

// Find returns the catalog entry with the given id, or false if none exists.
func Find(id string) (domain.Bond, bool) {
	for _, b := range catalog {
		if b.ID == id {
			return b, true
		}
	}
	return domain.Bond{}, false
}
