package prose

import "strings"

var universal = map[string]string{
	"NN": "NOUN", "NNS": "NOUN",
	"NNP": "PROPN", "NNPS": "PROPN",
	"VB": "VERB", "VBD": "VERB", "VBG": "VERB", "VBN": "VERB", "VBP": "VERB", "VBZ": "VERB",
	"MD": "AUX",
	"JJ": "ADJ", "JJR": "ADJ", "JJS": "ADJ",
	"RB": "ADV", "RBR": "ADV", "RBS": "ADV", "WRB": "ADV",
	"PRP": "PRON", "PRP$": "PRON", "WP": "PRON", "WP$": "PRON", "EX": "PRON",
	"DT": "DET", "PDT": "DET", "WDT": "DET",
	"IN": "ADP",
	"CC": "CCONJ",
	"CD": "NUM",
	"UH": "INTJ",
	"RP": "PART", "TO": "PART", "POS": "PART",
	"SYM": "SYM", "$": "SYM", "#": "SYM",
	".": "PUNCT", ",": "PUNCT", ":": "PUNCT", "(": "PUNCT", ")": "PUNCT",
	"``": "PUNCT", "''": "PUNCT", "\"": "PUNCT", "-LRB-": "PUNCT", "-RRB-": "PUNCT",
	"HYPH": "PUNCT", "NFP": "PUNCT",
	"FW": "X", "LS": "X",
}

// UniversalTag maps a Penn Treebank tag to its Universal Dependencies coarse
// part-of-speech tag. Unknown tags map to "X".
func UniversalTag(tag string) string {
	if u, ok := universal[strings.TrimSpace(tag)]; ok {
		return u
	}
	return "X"
}
