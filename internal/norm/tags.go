package norm

// legacyTags maps legacy and vendor tag spellings to canonical GEDCOM 5.5.1
// tags. Covers PhpGedView underscore tags, FTM-style "TAG_FORMAL_NAME"
// spellings, and assorted vendor habits.
var legacyTags = map[string]string{
	"_PGVU":                "_WT_USER",
	"_PGV_OBJS":            "_WT_OBJE_SORT",
	"ABBREVIATION":         "ABBR",
	"ADDRESS":              "ADDR",
	"ADDRESS1":             "ADR1",
	"ADDRESS2":             "ADR2",
	"ADDRESS3":             "ADR3",
	"ADOPTION":             "ADOP",
	"ADULT_CHRISTENING":    "CHRA",
	"AGENCY":               "AGNC",
	"ALIAS":                "ALIA",
	"ANCESTORS":            "ANCE",
	"ANCES_INTEREST":       "ANCI",
	"ANNULMENT":            "ANUL",
	"ASSOCIATES":           "ASSO",
	"AUTHOR":               "AUTH",
	"BAPTISM":              "BAPM",
	"BAPTISM_LDS":          "BAPL",
	"BAR_MITZVAH":          "BARM",
	"BAS_MITZVAH":          "BASM",
	"BIRTH":                "BIRT",
	"BLESSING":             "BLES",
	"BURIAL":               "BURI",
	"CALL_NUMBER":          "CALN",
	"CASTE":                "CAST",
	"CAUSE":                "CAUS",
	"CENSUS":               "CENS",
	"CHANGE":               "CHAN",
	"CHARACTER":            "CHAR",
	"CHILD":                "CHIL",
	"CHILDREN_COUNT":       "NCHI",
	"CHRISTENING":          "CHR",
	"CONCATENATION":        "CONC",
	"CONFIRMATION":         "CONF",
	"CONFIRMATION_LDS":     "CONL",
	"CONTINUED":            "CONT",
	"COPYRIGHT":            "COPR",
	"CORPORATE":            "CORP",
	"COUNTRY":              "CTRY",
	"CREMATION":            "CREM",
	"DEATH":                "DEAT",
	"_DEATH_OF_SPOUSE":     "_DETS",
	"_DEGREE":              "_DEG",
	"DESCENDANTS":          "DESC",
	"DESCENDANT_INT":       "DESI",
	"DESTINATION":          "DEST",
	"DIVORCE":              "DIV",
	"DIVORCE_FILED":        "DIVF",
	"EDUCATION":            "EDUC",
	"EMIGRATION":           "EMIG",
	"ENDOWMENT":            "ENDL",
	"ENGAGEMENT":           "ENGA",
	"EVENT":                "EVEN",
	"FACSIMILE":            "FAX",
	"FAMILY":               "FAM",
	"FAMILY_CHILD":         "FAMC",
	"FAMILY_FILE":          "FAMF",
	"FAMILY_SPOUSE":        "FAMS",
	"FIRST_COMMUNION":      "FCOM",
	"_FILE":                "FILE",
	"FORMAT":               "FORM",
	"GEDCOM":               "GEDC",
	"GIVEN_NAME":           "GIVN",
	"GRADUATION":           "GRAD",
	"HEADER":               "HEAD",
	"HUSBAND":              "HUSB",
	"IDENT_NUMBER":         "IDNO",
	"IMMIGRATION":          "IMMI",
	"INDIVIDUAL":           "INDI",
	"LANGUAGE":             "LANG",
	"LATITUDE":             "LATI",
	"LONGITUDE":            "LONG",
	"MARRIAGE":             "MARR",
	"MARRIAGE_BANN":        "MARB",
	"MARRIAGE_COUNT":       "NMR",
	"MARRIAGE_CONTRACT":    "MARC",
	"MARRIAGE_LICENSE":     "MARL",
	"MARRIAGE_SETTLEMENT":  "MARS",
	"MEDIA":                "MEDI",
	"_MEDICAL":             "_MDCL",
	"_MILITARY_SERVICE":    "_MILT",
	"NAME_PREFIX":          "NPFX",
	"NAME_SUFFIX":          "NSFX",
	"NATIONALITY":          "NATI",
	"NATURALIZATION":       "NATU",
	"NICKNAME":             "NICK",
	"OBJECT":               "OBJE",
	"OCCUPATION":           "OCCU",
	"ORDINANCE":            "ORDI",
	"ORDINATION":           "ORDN",
	"PEDIGREE":             "PEDI",
	"PHONE":                "PHON",
	"PHONETIC":             "FONE",
	"PHY_DESCRIPTION":      "DSCR",
	"PLACE":                "PLAC",
	"POSTAL_CODE":          "POST",
	"PROBATE":              "PROB",
	"PROPERTY":             "PROP",
	"PUBLICATION":          "PUBL",
	"QUALITY_OF_DATA":      "QUAL",
	"REC_FILE_NUMBER":      "RFN",
	"REC_ID_NUMBER":        "RIN",
	"REFERENCE":            "REFN",
	"RELATIONSHIP":         "RELA",
	"RELIGION":             "RELI",
	"REPOSITORY":           "REPO",
	"RESIDENCE":            "RESI",
	"RESTRICTION":          "RESN",
	"RETIREMENT":           "RETI",
	"ROMANIZED":            "ROMN",
	"SEALING_CHILD":        "SLGC",
	"SEALING_SPOUSE":       "SLGS",
	"SOC_SEC_NUMBER":       "SSN",
	"SOURCE":               "SOUR",
	"STATE":                "STAE",
	"STATUS":               "STAT",
	"SUBMISSION":           "SUBN",
	"SUBMITTER":            "SUBM",
	"SURNAME":              "SURN",
	"SURN_PREFIX":          "SPFX",
	"TEMPLE":               "TEMP",
	"TITLE":                "TITL",
	"TRAILER":              "TRLR",
	"VERSION":              "VERS",
	"WEB":                  "WWW",
}

// CanonicalTag maps an already-uppercased tag through the legacy table.
func CanonicalTag(tag string) string {
	if canon, ok := legacyTags[tag]; ok {
		return canon
	}
	return tag
}
