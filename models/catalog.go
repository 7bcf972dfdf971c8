package models

// GameSystems maps the stored key to its display label.
var GameSystems = map[string]string{
	"WARHAMMER_40K": "Warhammer 40k",
	"AGE_OF_SIGMAR": "Age of Sigmar",
	"HORUS_HERESY":  "Horus Heresy",
	"KILLTEAM":      "Killteam",
	"BLOOD_BOWL":    "Blood Bowl",
	"UNDERWORLDS":   "Underworlds",
	"NECROMUNDA":    "Necromunda",
	"OTHER":         "Other",
}

const GameSystemWarhammer40k = "WARHAMMER_40K"

var Factions = map[string]string{
	"SPACE_MARINES":          "Space Marines",
	"ADEPTA_SORORITAS":       "Adepta Sororitas",
	"ADEPTUS_CUSTODES":       "Adeptus Custodes",
	"ADEPTUS_MECHANICUS":     "Adeptus Mechanicus",
	"ASTRA_CARTOGRAPHICA":    "Astra Cartographica",
	"ASTRA_MILITARUM":        "Astra Militarum",
	"GREY_KNIGHTS":           "Grey Knights",
	"IMPERIAL_KNIGHTS":       "Imperial Knights",
	"INQUISITION":            "Inquisition",
	"OFFICIO_ASSASINORUM":    "Officio Assassinorum",
	"ROGUE_TRADERS":          "Rogue Traders",
	"TITAN_LEGIONS":          "Titan Legions",
	"CHAOS_DAEMONS":          "Chaos Daemons",
	"CHAOS_KNIGHTS":          "Chaos Knights",
	"CHAOS_SPACE_MARINES":    "Chaos Space Marines",
	"DEATH_GUARD":            "Death Guard",
	"HERETIC_TITAN_LEGIONS":  "Heretic Titan Legions",
	"RENEGADES_AND_HERETICS": "Renegades and Heretics",
	"THOUSAND_SONS":          "Thousand Sons",
	"AELDARI":                "Aeldari",
	"DRUKHARI":               "Drukhari",
	"GENESTEALER_CULTS":      "Genestealer Cults",
	"NECRONS":                "Necrons",
	"ORKS":                   "Orks",
	"TAU_EMPIRE":             "T'au Empire",
	"TYRANIDS":               "Tyranids",
	"UNALIGNED":              "Unaligned",
}
