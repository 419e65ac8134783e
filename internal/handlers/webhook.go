package handlers

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"

	"github.com/simonolocco/bot-wasap/internal/services"
)

// WebhookHandler handles the Meta Cloud API webhook: the subscription
// verification handshake and the inbound event stream.
type WebhookHandler struct {
	bot         *services.BotService
	verifyToken string
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(bot *services.BotService) *WebhookHandler {
	return &WebhookHandler{
		bot:         bot,
		verifyToken: os.Getenv("META_VERIFY_TOKEN"),
	}
}

// HandleVerification answers the hub.challenge handshake Meta sends when the
// webhook subscription is configured.
func (h *WebhookHandler) HandleVerification(c *fiber.Ctx) error {
	if h.verifyToken == "" {
		log.Println("❌ Falta META_VERIFY_TOKEN en el entorno")
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode == "subscribe" && token == h.verifyToken {
		log.Println("✅ Verificacion de webhook exitosa")
		return c.SendString(challenge)
	}

	log.Println("⚠️  Verificacion de webhook rechazada")
	return c.SendStatus(fiber.StatusForbidden)
}

// webhookEnvelope is the provider-specific JSON wrapper around inbound events.
type webhookEnvelope struct {
	Object string `json:"object"`
	Entry  []struct {
		Changes []struct {
			Value struct {
				Messages []cloudMessage `json:"messages"`
				Contacts []struct {
					Profile struct {
						Name string `json:"name"`
					} `json:"profile"`
				} `json:"contacts"`
			} `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

type cloudMessage struct {
	ID   string `json:"id"`
	From string `json:"from"`
	Type string `json:"type"`
	Text *struct {
		Body string `json:"body"`
	} `json:"text"`
	Interactive *struct {
		ListReply *struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		} `json:"list_reply"`
		ButtonReply *struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		} `json:"button_reply"`
	} `json:"interactive"`
}

// HandleEvent processes one inbound webhook delivery. The event is always
// acknowledged; processing errors are logged so Meta does not retry forever.
func (h *WebhookHandler) HandleEvent(c *fiber.Ctx) error {
	var envelope webhookEnvelope
	if err := c.BodyParser(&envelope); err != nil {
		log.Printf("❌ Webhook con cuerpo invalido: %v", err)
		return c.SendStatus(fiber.StatusBadRequest)
	}

	if envelope.Object != "whatsapp_business_account" {
		return c.SendStatus(fiber.StatusNotFound)
	}

	incoming, ok := extractIncoming(&envelope)
	if !ok {
		log.Println("⚠️  Evento sin mensaje soportado, lo ignoramos")
		return c.SendStatus(fiber.StatusOK)
	}

	log.Printf("📱 Mensaje de %s: %q (opcion=%s boton=%s)", incoming.ChatID, incoming.Text, incoming.OptionID, incoming.ButtonID)
	if err := h.bot.HandleMessage(incoming, c.BaseURL()); err != nil {
		log.Printf("❌ Error procesando mensaje de %s: %v", incoming.ChatID, err)
	}
	return c.SendStatus(fiber.StatusOK)
}

// extractIncoming unwraps the first message of the envelope, mirroring the
// provider's one-message-per-delivery behavior.
func extractIncoming(envelope *webhookEnvelope) (services.IncomingMessage, bool) {
	for _, entry := range envelope.Entry {
		for _, change := range entry.Changes {
			if len(change.Value.Messages) == 0 {
				continue
			}
			msg := change.Value.Messages[0]

			incoming := services.IncomingMessage{
				MessageID: msg.ID,
				ChatID:    msg.From,
			}
			if len(change.Value.Contacts) > 0 {
				incoming.ProfileName = change.Value.Contacts[0].Profile.Name
			}

			switch msg.Type {
			case "text":
				if msg.Text != nil {
					incoming.Text = msg.Text.Body
				}
			case "interactive":
				if msg.Interactive == nil {
					return services.IncomingMessage{}, false
				}
				if reply := msg.Interactive.ListReply; reply != nil {
					incoming.Text = reply.Title
					incoming.OptionID = services.MenuOptionID(reply.ID)
				}
				if reply := msg.Interactive.ButtonReply; reply != nil {
					incoming.Text = reply.Title
					incoming.ButtonID = reply.ID
				}
			default:
				return services.IncomingMessage{}, false
			}
			return incoming, true
		}
	}
	return services.IncomingMessage{}, false
}
