package movas

// Train restriction presets select which transport categories a search may
// use. The codes are the backend's verkehrsmittel enumeration.
const (
	RestrictionAll = iota
	RestrictionAllWithoutHighSpeed
	RestrictionLocalOnly
	RestrictionLocalWithoutSBahn
)

func TrainRestrictionNames() []string {
	return []string{
		"All",
		"All without ICE",
		"Only local transport",
		"Local transport without S-Bahn",
	}
}

func trainRestrictionCodes(restrictions int) []string {
	switch restrictions {
	case RestrictionAllWithoutHighSpeed:
		return []string{
			"INTERCITYUNDEUROCITYZUEGE",
			"INTERREGIOUNDSCHNELLZUEGE",
			"NAHVERKEHRSONSTIGEZUEGE",
			"SBAHNEN",
			"UBAHN",
			"STRASSENBAHN",
			"BUSSE",
			"SCHIFFE",
			"ANRUFPFLICHTIGEVERKEHRE",
		}
	case RestrictionLocalOnly:
		return []string{
			"NAHVERKEHRSONSTIGEZUEGE",
			"SBAHNEN",
			"UBAHN",
			"STRASSENBAHN",
			"BUSSE",
			"SCHIFFE",
			"ANRUFPFLICHTIGEVERKEHRE",
		}
	case RestrictionLocalWithoutSBahn:
		return []string{
			"NAHVERKEHRSONSTIGEZUEGE",
			"SBAHNEN",
			"UBAHN",
			"BUSSE",
			"SCHIFFE",
			"ANRUFPFLICHTIGEVERKEHRE",
		}
	default:
		// RestrictionAll and anything unrecognised
		return []string{
			"HOCHGESCHWINDIGKEITSZUEGE",
			"INTERCITYUNDEUROCITYZUEGE",
			"INTERREGIOUNDSCHNELLZUEGE",
			"NAHVERKEHRSONSTIGEZUEGE",
			"SBAHNEN",
			"UBAHN",
			"STRASSENBAHN",
			"BUSSE",
			"SCHIFFE",
			"ANRUFPFLICHTIGEVERKEHRE",
		}
	}
}
