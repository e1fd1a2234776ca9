// Package countries exposes the ISO 3166-1 country catalog consumed by the
// Txerpad parsing utilities. The production catalog is built from the CLDR
// data shipped with golang.org/x/text; tests substitute a fixture.
package countries

import (
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Country is a single catalog entry
type Country interface {
	// Alpha2 returns the ISO 3166-1 two-letter code
	Alpha2() string
	// Alpha3 returns the ISO 3166-1 three-letter code
	Alpha3() string
	// Name returns the canonical English name
	Name() string
	// LocalizedName returns the country name translated into the given
	// locale, comma-ok when no translation is available
	LocalizedName(locale string) (string, bool)
}

// Catalog is a read-only set of countries. Iteration order is fixed for a
// catalog instance but carries no further meaning.
type Catalog interface {
	Countries() []Country
}

// withdrawnRegions lists ISO 3166-1 codes withdrawn without a single
// successor; Canonicalize keeps those as-is, so they need an explicit skip
var withdrawnRegions = map[string]bool{
	"AN": true, // Netherlands Antilles, split 2010
	"NT": true, // Neutral Zone, dissolved 1993
}

type isoCountry struct {
	alpha2 string
	alpha3 string
	name   string
	region language.Region
}

func (c *isoCountry) Alpha2() string { return c.alpha2 }
func (c *isoCountry) Alpha3() string { return c.alpha3 }
func (c *isoCountry) Name() string   { return c.name }

func (c *isoCountry) LocalizedName(locale string) (string, bool) {
	tag, err := language.Parse(locale)
	if err != nil {
		return "", false
	}
	namer := display.Regions(tag)
	if namer == nil {
		return "", false
	}
	name := namer.Name(c.region)
	if name == "" || name == c.alpha2 {
		return "", false
	}
	return name, true
}

// ISOCatalog is the CLDR-backed catalog. Immutable after construction and
// safe for concurrent use.
type ISOCatalog struct {
	countries []Country
}

// NewISOCatalog enumerates all assigned ISO 3166-1 countries
func NewISOCatalog() *ISOCatalog {
	english := display.English.Regions()

	var list []Country
	for a := byte('A'); a <= 'Z'; a++ {
		for b := byte('A'); b <= 'Z'; b++ {
			code := string([]byte{a, b})
			region, err := language.ParseRegion(code)
			if err != nil || !region.IsCountry() || region.IsPrivateUse() {
				continue
			}
			// Skip deprecated codes (DD, FX, BU, ...) that canonicalize
			// to a successor country but still carry its CLDR name
			if region.Canonicalize() != region || withdrawnRegions[code] {
				continue
			}
			if region.String() != code {
				continue
			}
			alpha3 := region.ISO3()
			if len(alpha3) != 3 {
				continue
			}
			name := english.Name(region)
			if name == "" {
				continue
			}
			list = append(list, &isoCountry{
				alpha2: code,
				alpha3: alpha3,
				name:   name,
				region: region,
			})
		}
	}

	return &ISOCatalog{countries: list}
}

// Countries returns the catalog entries in code order
func (c *ISOCatalog) Countries() []Country {
	return c.countries
}
