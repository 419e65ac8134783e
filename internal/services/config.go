package services

import (
	"os"
	"strings"
)

// BotConfig holds the business display strings and forwarding contact used in
// outbound messages. Everything is environment-driven with local defaults.
type BotConfig struct {
	DistributorName     string
	BotFriendlyName     string
	CatalogMayoristaURL string
	CatalogMinoristaURL string
	// ForwardOrderNumber is digits only, for wa.me deep links.
	ForwardOrderNumber  string
	ForwardOrderDisplay string
}

// LoadBotConfig reads the bot configuration from environment variables.
func LoadBotConfig() BotConfig {
	forwardRaw := getenvDefault("FORWARD_ORDER_NUMBER", "+54 9 351 756-5641")
	forwardDigits := keepDigits(forwardRaw)

	cfg := BotConfig{
		DistributorName:     getenvDefault("DISTRIBUTOR_NAME", "Distribuidora Abasot del campo"),
		BotFriendlyName:     getenvDefault("BOT_FRIENDLY_NAME", "AbastoBot"),
		CatalogMayoristaURL: getenvDefault("CATALOG_MAYORISTA_URL", "https://catalogo.mi-distribuidora.com/catalogo-mayorista.html"),
		CatalogMinoristaURL: getenvDefault("CATALOG_MINORISTA_URL", "https://catalogo.mi-distribuidora.com/catalogo-minorista.html"),
		ForwardOrderNumber:  forwardDigits,
		ForwardOrderDisplay: getenvDefault("FORWARD_ORDER_DISPLAY", "+"+forwardDigits),
	}
	return cfg
}

func getenvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func keepDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
