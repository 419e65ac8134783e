package normalizer

import (
	"regexp"
	"strings"
)

// UnitInference is the unit classification for a quantity phrase.
type UnitInference struct {
	BaseUnit string
	Gate     string
}

// unitChecks is a priority list: the most specific unit words come first, so
// "horma" wins over "caja" when a line mentions both. Reordering silently
// reclassifies existing order lines.
var unitChecks = []struct {
	re    *regexp.Regexp
	infer UnitInference
}{
	{regexp.MustCompile(`HORM`), UnitInference{BaseUnit: "kg", Gate: "horma"}},
	{regexp.MustCompile(`BIDON`), UnitInference{BaseUnit: "bidon", Gate: "bidon"}},
	{regexp.MustCompile(`LATA`), UnitInference{BaseUnit: "lata", Gate: "lata"}},
	{regexp.MustCompile(`SACHET`), UnitInference{BaseUnit: "sachet", Gate: "sachet"}},
	{regexp.MustCompile(`POTE`), UnitInference{BaseUnit: "pote", Gate: "pote"}},
	{regexp.MustCompile(`BARRA`), UnitInference{BaseUnit: "barra", Gate: "barra"}},
	{regexp.MustCompile(`CAJA|CAJ`), UnitInference{BaseUnit: "caja", Gate: "caja"}},
	{regexp.MustCompile(`\bL\b|LITRO`), UnitInference{BaseUnit: "l", Gate: "l"}},
}

// InferUnit classifies the unit mentioned in a quantity phrase, defaulting to
// plain units when nothing matches.
func InferUnit(text string) UnitInference {
	t := strings.ToUpper(text)
	for _, c := range unitChecks {
		if c.re.MatchString(t) {
			return c.infer
		}
	}
	return UnitInference{BaseUnit: "uni", Gate: "unidad"}
}

var (
	baseKg     = regexp.MustCompile(`kg`)
	baseUni    = regexp.MustCompile(`^uni(d|s)?\b`)
	baseCaja   = regexp.MustCompile(`caja|caj`)
	baseSachet = regexp.MustCompile(`sachet`)
	baseLata   = regexp.MustCompile(`lata|lat\b`)
	baseBidon  = regexp.MustCompile(`bidon`)
	basePote   = regexp.MustCompile(`pote`)
	baseBarra  = regexp.MustCompile(`barra`)
	baseLitro  = regexp.MustCompile(`\b(l|litro)\b`)
)

// NormalizeBaseUnit collapses a free-form unit word to the base unit used for
// pricing tiers. Unknown words pass through.
func NormalizeBaseUnit(u string) string {
	u = strings.ToLower(strings.TrimSpace(u))
	switch {
	case baseKg.MatchString(u):
		return "kg"
	case baseUni.MatchString(u):
		return "uni"
	case baseCaja.MatchString(u):
		return "caja"
	case baseSachet.MatchString(u):
		return "sachet"
	case baseLata.MatchString(u):
		return "lata"
	case baseBidon.MatchString(u):
		return "bidon"
	case basePote.MatchString(u):
		return "pote"
	case baseBarra.MatchString(u):
		return "barra"
	case baseLitro.MatchString(u):
		return "l"
	}
	return u
}

var (
	gateMediaHorma = regexp.MustCompile(`medias?\s*hormas?`)
	gateHorma      = regexp.MustCompile(`hormas?`)
	gateCaja       = regexp.MustCompile(`cajas?`)
	gateUnidad     = regexp.MustCompile(`\b(unidad|unid|uni|u)\b`)
	gateSachet     = regexp.MustCompile(`sachets?`)
	gateLata       = regexp.MustCompile(`latas?`)
	gateBidon      = regexp.MustCompile(`bidones?`)
	gatePote       = regexp.MustCompile(`potes?`)
	gateBarra      = regexp.MustCompile(`barras?`)
	gateLitro      = regexp.MustCompile(`\b(l|litros?)\b`)
	gatePieza      = regexp.MustCompile(`piezas?`)
	gateDisplay    = regexp.MustCompile(`displey`)
	gatePack       = regexp.MustCompile(`pack`)
	gateCuna       = regexp.MustCompile(`cu[nñ]a`)
)

// NormalizeGateUnit collapses a free-form unit word to the gate unit used to
// classify quantity phrases. "media horma" is checked before "horma" so the
// longer phrase is not swallowed. Unknown words pass through.
func NormalizeGateUnit(u string) string {
	u = strings.ToLower(strings.TrimSpace(u))
	switch {
	case gateMediaHorma.MatchString(u):
		return "media horma"
	case gateHorma.MatchString(u):
		return "horma"
	case gateCaja.MatchString(u):
		return "caja"
	case gateUnidad.MatchString(u):
		return "unidad"
	case gateSachet.MatchString(u):
		return "sachet"
	case gateLata.MatchString(u):
		return "lata"
	case gateBidon.MatchString(u):
		return "bidon"
	case gatePote.MatchString(u):
		return "pote"
	case gateBarra.MatchString(u):
		return "barra"
	case gateLitro.MatchString(u):
		return "l"
	case gatePieza.MatchString(u):
		return "pieza"
	case gateDisplay.MatchString(u):
		return "displey"
	case gatePack.MatchString(u):
		return "pack"
	case gateCuna.MatchString(u):
		return "cuña"
	}
	return u
}

// KnownGateUnit reports whether NormalizeGateUnit recognizes the word.
func KnownGateUnit(u string) bool {
	normalized := NormalizeGateUnit(u)
	return normalized != strings.ToLower(strings.TrimSpace(u)) || isCanonicalGate(normalized)
}

var canonicalGates = buildSet(
	"media horma", "horma", "caja", "unidad", "sachet", "lata", "bidon",
	"pote", "barra", "l", "pieza", "displey", "pack", "cuña",
)

func isCanonicalGate(u string) bool {
	return canonicalGates[u]
}

const unitTerms = `cajas?|cajones?|cjs?|cj|c|kgs?|kg|kilos?|kilogramos?|grs?|gramos?|gr|ltrs?|lts?|lt|l|litros?|hormas?|horma|potes?|pote|packs?|pack|paquetes?|paq|sachets?|sachet|displays?|display|barras?|barra|bidones?|bidon|botellas?|botella|docenas?|dz|bandejas?|bandeja|bolsas?|bolsa|piezas?|pieza|unidad(?:es)?|unid(?:ades)?|uni|u`

var (
	bulletPrefix = regexp.MustCompile(`^[\-\*\x{2022}\x{2023}\x{25cf}]+`)
	unitPrefix   = regexp.MustCompile(`(?i)^\s*(?:\d+(?:[\.,]\d+)?\s*(?:x\s*)?)?(?:de\s+)?(?:` + unitTerms + `)[\s\-\.:]*`)
	leadNumber   = regexp.MustCompile(`^\d+(?:[\.,]\d+)?\s+`)
)

// StripUnitPrefix turns an order line into a clean display title: leading
// bullets, then a quantity-plus-unit prefix, then a leading bare number are
// removed in that fixed order. If stripping leaves nothing the trimmed
// original comes back.
func StripUnitPrefix(text string) string {
	cleaned := strings.TrimSpace(text)
	if cleaned == "" {
		return ""
	}
	cleaned = strings.TrimSpace(bulletPrefix.ReplaceAllString(cleaned, ""))
	cleaned = strings.TrimSpace(unitPrefix.ReplaceAllString(cleaned, ""))
	cleaned = strings.TrimSpace(leadNumber.ReplaceAllString(cleaned, ""))
	if cleaned == "" {
		return strings.TrimSpace(text)
	}
	return cleaned
}
