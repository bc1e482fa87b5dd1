package catalogue

import "strings"

// StationCatalog maps CRS codes to display names for the stations the control
// panel offers. The board itself accepts any valid CRS; this table only seeds
// the picker and provides a nicer fallback title than the bare code when the
// feed omits locationName.
var StationCatalog = map[string]string{
	"PAD": "London Paddington",
	"EUS": "London Euston",
	"KGX": "London Kings Cross",
	"WAT": "London Waterloo",
	"VIC": "London Victoria",
	"LST": "London Liverpool Street",
	"MYB": "London Marylebone",
	"BHM": "Birmingham New Street",
	"MAN": "Manchester Piccadilly",
	"LDS": "Leeds",
	"YRK": "York",
	"NCL": "Newcastle",
	"EDB": "Edinburgh Waverley",
	"GLC": "Glasgow Central",
	"BRI": "Bristol Temple Meads",
	"BTH": "Bath Spa",
	"RDG": "Reading",
	"OXF": "Oxford",
	"SWI": "Swindon",
	"CDF": "Cardiff Central",
	"SWA": "Swansea",
	"SOU": "Southampton Central",
	"PMH": "Portsmouth Harbour",
	"EXD": "Exeter St Davids",
	"PLY": "Plymouth",
	"TRU": "Truro",
	"PNZ": "Penzance",
	"NWP": "Newport (South Wales)",
	"SAL": "Salisbury",
	"TAU": "Taunton",
	"GLD": "Guildford",
	"GTW": "Gatwick Airport",
	"SHF": "Sheffield",
	"NOT": "Nottingham",
	"LIV": "Liverpool Lime Street",
}

// IsValidCRS reports whether s looks like a CRS code: exactly three letters.
func IsValidCRS(s string) bool {
	if len(s) != 3 {
		return false
	}
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}

// DisplayName returns the catalogue name for a CRS code, or the uppercased
// code itself when unknown.
func DisplayName(crs string) string {
	up := strings.ToUpper(crs)
	if name, ok := StationCatalog[up]; ok {
		return name
	}
	return up
}
