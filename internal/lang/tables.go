package lang

// Changing any value here changes scoring results.

var englishFrequencies = []LetterFrequency{
	{'e', 12.7}, {'t', 9.1}, {'a', 8.2}, {'o', 7.5}, {'i', 7.0}, {'n', 6.7}, {'s', 6.3}, {'h', 6.1},
	{'r', 6.0}, {'d', 4.3}, {'l', 4.0}, {'c', 2.8}, {'u', 2.8}, {'m', 2.4}, {'w', 2.4}, {'f', 2.2},
	{'g', 2.0}, {'y', 2.0}, {'p', 1.9}, {'b', 1.3}, {'v', 1.0}, {'k', 0.8}, {'j', 0.15}, {'x', 0.15},
	{'q', 0.10}, {'z', 0.07},
}

var frenchFrequencies = []LetterFrequency{
	{'e', 14.7}, {'a', 7.6}, {'i', 7.5}, {'t', 7.2}, {'n', 7.1}, {'r', 6.6}, {'s', 6.5}, {'u', 6.3},
	{'l', 5.5}, {'o', 5.4}, {'m', 3.0}, {'d', 3.7}, {'c', 3.3}, {'p', 3.0}, {'h', 0.9}, {'g', 1.1},
	{'b', 0.9}, {'v', 1.6}, {'j', 0.5}, {'f', 1.1}, {'q', 1.4}, {'z', 0.3}, {'x', 0.4}, {'w', 0.1},
	{'y', 0.2}, {'k', 0.05},
}

var englishWords = []string{
	"the", "and", "for", "are", "but", "not", "you", "all", "can", "had", "was", "one", "our", "out",
	"day", "get", "has", "him", "his", "how", "its", "may", "new", "now", "old", "see", "two", "way",
	"who", "boy", "did", "man", "end", "few", "got", "let", "put", "say", "she", "too", "use", "over",
	"quick", "brown", "fox", "jumps", "lazy", "dog",
}

// Repeated entries ("aussi", "bien") are intentional: each list entry
// counts once toward the substring bonus in language detection.
var frenchWords = []string{
	"le", "de", "et", "un", "il", "en", "que", "pour", "dans", "ce", "son", "une", "sur", "avec",
	"ne", "se", "pas", "tout", "plus", "par", "grand", "comme", "lui", "temps", "sans", "nous", "mon",
	"bien", "encore", "aussi", "leur", "dont", "peu", "elle", "fois", "sous", "depuis", "tant",
	"toujours", "entre", "autre", "donc", "vers", "du", "au", "la", "les", "des", "cette", "ces",
	"mes", "tes", "ses", "nos", "vos", "leurs", "qui", "quoi", "celui", "celle", "ceux", "celles",
	"moi", "toi", "soi", "eux", "elles", "si", "oui", "non", "peut", "doit", "fait", "dit", "va",
	"vient", "sort", "contre", "autour", "devant", "avant", "mais", "car", "ainsi", "alors", "enfin",
	"ensuite", "puis", "beaucoup", "assez", "trop", "moins", "autant", "aussi", "fort", "bien", "mal",
	"mieux", "pire", "environ", "presque", "seulement", "jamais", "parfois", "souvent", "maintenant",
	"hier", "demain", "ici", "ailleurs", "partout", "etait", "claire", "avril", "froid", "rapidement",
	"porte", "vitree", "maisons", "victoire", "sentait", "vieux", "tapis",
}
