package normalizer

// canonTokens maps misspellings and aliases to one representative spelling.
// Keys are already normalized (lowercase, no accents); entries whose key only
// existed with accents in customer text are stored accent-stripped.
var canonTokens = map[string]string{
	// Queso
	"quedo": "queso", "quesito": "queso", "quesillos": "queso", "kueso": "queso", "qeso": "queso",
	// Cremoso
	"cremosa": "cremoso", "cremso": "cremoso", "kremoso": "cremoso",
	// Muzzarella
	"mussarela": "muzzarella", "muzarella": "muzzarella", "muza": "muzzarella",
	"muzza": "muzzarella", "mozarella": "muzzarella", "muzzarela": "muzzarella",
	// Barra / bloque
	"barra": "barra", "bld": "barra", "bloque": "barra", "barrita": "barra",
	// Tybo
	"tibo": "tybo", "tivo": "tybo",
	// Danbo
	"dambo": "danbo", "danvo": "danbo",
	// Pategras
	"pategras": "pategras", "pategrass": "pategras", "pate": "pategras",
	// Senda
	"senda": "senda",
	// Sandwich
	"sandwich": "sandwich", "sandwiche": "sandwich",
	// Ricotta
	"ricota": "ricotta", "rikotta": "ricotta", "riccota": "ricotta",
	// Azul
	"azul": "azul", "asul": "azul",
	// Cheddar
	"cheddar": "cheddar", "chedar": "cheddar", "cheder": "cheddar",
	// Untable
	"untable": "untable", "crema": "untable", "cremette": "untable",
	// Otros quesos
	"sardo": "sardo", "sardoa": "sardo",
	"reggianito": "reggianito", "regiano": "reggianito",
	"provolone": "provolone", "provolon": "provolone",
	"parmesano": "parmesano", "parmigiano": "parmesano",
	"fontina": "fontina", "fontin": "fontina",
	// Fiambres
	"bondiola": "bondiola", "boniola": "bondiola", "bondi": "bondiola",
	"jamon": "jamon", "jmn": "jamon",
	"salame": "salame", "salami": "salame",
	"mortadela": "mortadela", "mortadella": "mortadela",
	"panceta": "panceta", "pancetta": "panceta",
	"lomo": "lomo",
	// Aderezos
	"mayonesa": "mayonesa", "mayo": "mayonesa", "mayones": "mayonesa",
	"ketchup": "ketchup", "ketchap": "ketchup",
	"mostaza": "mostaza", "mostasa": "mostaza",
	"golf":     "salsa golf",
	"barbacoa": "barbacoa", "barbecue": "barbacoa", "bbq": "barbacoa",
	// Aceitunas
	"aceituna": "aceituna", "aceitunas": "aceituna", "oliva": "aceituna", "olivas": "aceituna",
	"verde": "verde", "negra": "negra", "rodaja": "rodaja", "descarozada": "descarozada",
	// Lacteos
	"cremas": "crema", "nata": "crema",
	"manteca": "manteca", "mantequilla": "manteca",
	"ddl": "dulce de leche",
	// Otros
	"pates": "pate",
	"pasta": "pasta",
	"patagonia": "patagonia",
	// Unidades
	"caja": "caja", "cajon": "caja",
	"horma":   "horma",
	"bidon":   "bidon",
	"lata":    "lata",
	"pilon":   "pilon",
	"pote":    "pote",
	"displey": "displey",
	"doypack": "doy pack",
	"porcion": "porcion", "porciones": "porcion",
	"sachet": "sachet",
	"barras": "barra",
	"pieza":  "pieza",
	"pack":   "pack",
	"cuna":   "cuna",
	"l":      "l", "litro": "l",
}

// stopwords are filler words that carry no product information.
var stopwords = buildSet(
	"de", "del", "la", "el", "los", "las", "y", "o", "un", "una", "unos", "unas",
	"al", "a", "en", "con", "sin", "por", "para", "que", "me", "te", "lo", "le",
	"les", "mi", "tu", "su", "sus", "mis", "tus",
	"tenes", "tenis", "tienen", "hay", "vendes", "venden", "vende",
	"quiero", "necesito", "precio", "precios", "lista", "catalogo", "cat", "p",
	"hola", "buenas", "hey", "hello", "cuanto", "vale", "sale", "costo",
	"costa", "esta",
)

var canonValues = func() map[string]bool {
	set := make(map[string]bool, len(canonTokens))
	for _, v := range canonTokens {
		set[v] = true
	}
	return set
}()

// KnownToken reports whether t is already part of the trained vocabulary,
// either as an alias key or as a canonical spelling.
func KnownToken(t string) bool {
	if _, ok := canonTokens[t]; ok {
		return true
	}
	return canonValues[t]
}

// IsStopword reports whether the normalized token is a filler word.
func IsStopword(t string) bool {
	return stopwords[t]
}

func buildSet(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}
