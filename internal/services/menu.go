package services

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/simonolocco/bot-wasap/internal/normalizer"
)

// MenuOptionID identifies one entry of the main menu.
type MenuOptionID string

const (
	OptionHorarios    MenuOptionID = "horarios"
	OptionDireccion   MenuOptionID = "direccion"
	OptionListaPrecio MenuOptionID = "lista_precio"
	OptionHacerPedido MenuOptionID = "hacer_pedido"
	OptionAsesor      MenuOptionID = "asesor"
)

// MenuOption is static reference data: one selectable entry of the menu.
type MenuOption struct {
	ID       MenuOptionID
	Label    string
	Number   string
	Keywords []string
}

// MainMenuOptions is the menu catalog, in presentation order.
var MainMenuOptions = []MenuOption{
	{ID: OptionHorarios, Label: "📅 Horarios", Number: "1", Keywords: []string{"horario", "horarios", "1"}},
	{ID: OptionDireccion, Label: "📍 Dirección", Number: "2", Keywords: []string{"direccion", "ubicacion", "2"}},
	{ID: OptionListaPrecio, Label: "💲 Precios", Number: "3", Keywords: []string{"lista", "precios", "catalogo", "3"}},
	{ID: OptionHacerPedido, Label: "📝 Nuevo Pedido", Number: "4", Keywords: []string{"hacer pedido", "4"}},
	{ID: OptionAsesor, Label: "👤 Asesor Humano", Number: "5", Keywords: []string{"asesor", "comercial", "5"}},
}

var menuOptionDescriptions = map[MenuOptionID]string{
	OptionHorarios:    "Consultar horarios de atencion",
	OptionDireccion:   "Ver direccion y zona de entrega",
	OptionListaPrecio: "Descargar la lista actualizada",
	OptionHacerPedido: "Enviar productos para armar pedido",
	OptionAsesor:      "Derivarme a un asesor humano",
}

const (
	MenuHeaderText   = "👋 ¡Hola! Bienvenido"
	MenuPrompt       = "¿En qué podemos ayudarte hoy? 👇"
	MenuSectionTitle = "Seleccioná una opción"
	MenuButtonLabel  = "Abrir Menú"
)

// BusinessSchedule is the opening-hours block sent for the horarios option.
var BusinessSchedule = strings.Join([]string{
	"🕒 *Nuestros Horarios*",
	"━━━━━━━━━━━━",
	"*Lunes:* 8:15 a 16:00",
	"*Martes:* 8:15 a 16:00",
	"*Miércoles:* 8:15 a 16:00",
	"*Jueves:* 8:15 a 16:00",
	"*Viernes:* 8:15 a 16:00",
	"*Sábado:* 08:15 - 12:45",
	"*Domingo:* Cerrado",
}, "\n")

// BusinessAddress is the location block sent for the direccion option.
var BusinessAddress = strings.Join([]string{
	"📍 *Dirección*",
	"━━━━━━━━━━━━",
	"Av. Juan B. Justo00000 5048",
	"Córdoba, Argentina",
	"",
	"🗺️ *Ver en mapa:*",
	"https://maps.app.goo.gl/gCfNiJEz9Q7k4LzS6",
}, "\n")

// ResolveOptionID maps free text to a menu option: first token against the
// option numbers, then the whole normalized text against keywords, then a
// label substring check. First match wins.
func ResolveOptionID(text string) (MenuOptionID, bool) {
	normalized := normalizer.Normalize(text)
	if normalized == "" {
		return "", false
	}

	firstToken := strings.Fields(normalized)[0]
	for _, opt := range MainMenuOptions {
		if opt.Number == firstToken {
			return opt.ID, true
		}
	}

	for _, opt := range MainMenuOptions {
		for _, kw := range opt.Keywords {
			if normalized == kw {
				return opt.ID, true
			}
		}
	}

	for _, opt := range MainMenuOptions {
		if strings.Contains(normalized, normalizer.Normalize(opt.Label)) {
			return opt.ID, true
		}
	}
	return "", false
}

// BuildMenuSections builds the interactive list sections for the main menu.
func BuildMenuSections() []MenuSection {
	rows := make([]MenuRow, 0, len(MainMenuOptions))
	for _, opt := range MainMenuOptions {
		rows = append(rows, MenuRow{
			ID:          string(opt.ID),
			Title:       opt.Label,
			Description: menuOptionDescriptions[opt.ID],
		})
	}
	return []MenuSection{{Title: MenuSectionTitle, Rows: rows}}
}

// GreetingIntro builds the welcome message for a customer.
func (cfg BotConfig) GreetingIntro(displayName string) string {
	return strings.Join([]string{
		fmt.Sprintf("👋 ¡Hola *%s*!", displayName),
		fmt.Sprintf("Soy *%s*, tu asistente virtual de %s 🚛", cfg.BotFriendlyName, cfg.DistributorName),
		"",
		"Estoy acá para ayudarte a gestionar tus pedidos y consultas de forma rápida.",
	}, "\n")
}

// PriceListMessage builds the catalog links message.
func (cfg BotConfig) PriceListMessage() string {
	return strings.Join([]string{
		"📂 *Listas de Precios*",
		"━━━━━━━━━━━━",
		"Acá tenés los catálogos actualizados:",
		"",
		fmt.Sprintf("🏭 *Mayorista:*\n%s", cfg.CatalogMayoristaURL),
		"",
		fmt.Sprintf("🛒 *Minorista:*\n%s", cfg.CatalogMinoristaURL),
	}, "\n")
}

// ForwardLink builds the wa.me deep link that hands a confirmed order to the
// sales team, with the detail URL-encoded into the prefilled message.
func (cfg BotConfig) ForwardLink(detail, customerName string) string {
	if customerName == "" {
		customerName = "cliente"
	}
	message := fmt.Sprintf("Hola! Soy %s y este es mi pedido:\n%s", customerName, detail)
	return fmt.Sprintf("https://wa.me/%s?text=%s", cfg.ForwardOrderNumber, url.QueryEscape(message))
}

// AdvisorLink builds the wa.me deep link for the human-advisor option.
func (cfg BotConfig) AdvisorLink() string {
	return fmt.Sprintf("https://wa.me/%s?text=%s", cfg.ForwardOrderNumber, url.QueryEscape("Hola, tengo una consulta"))
}
