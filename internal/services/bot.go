package services

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/simonolocco/bot-wasap/internal/models"
	"github.com/simonolocco/bot-wasap/internal/storage"
)

const (
	// ConfirmButtonID is the reply id of the "Si" confirmation button.
	ConfirmButtonID = "confirm_yes"
	// CancelButtonID is the reply id of the "No" confirmation button.
	CancelButtonID = "confirm_no"
)

// dedupeTTL bounds how long inbound message ids are remembered. Meta retries
// webhook deliveries with the same message id, so anything inside the window
// is a duplicate, not a new event.
const dedupeTTL = 10 * time.Minute

// IncomingMessage is one inbound chat event, already unwrapped from the
// webhook envelope.
type IncomingMessage struct {
	MessageID   string
	ChatID      string
	ProfileName string
	Text        string
	OptionID    MenuOptionID
	ButtonID    string
}

// BotService drives the per-chat conversation state machine.
type BotService struct {
	store     storage.Store
	messenger Messenger
	sessions  *SessionRegistry
	cfg       BotConfig

	seenMu sync.Mutex
	seen   map[string]time.Time
}

// NewBotService creates a new bot service
func NewBotService(store storage.Store, messenger Messenger, sessions *SessionRegistry, cfg BotConfig) *BotService {
	return &BotService{
		store:     store,
		messenger: messenger,
		sessions:  sessions,
		cfg:       cfg,
		seen:      make(map[string]time.Time),
	}
}

// Sessions exposes the session registry (for monitoring endpoints).
func (b *BotService) Sessions() *SessionRegistry {
	return b.sessions
}

// HandleMessage runs one inbound event through the state machine. Outbound
// send failures inside the order flow propagate; informational sends are
// logged and skipped. hostBaseURL is used to build absolute asset links.
func (b *BotService) HandleMessage(msg IncomingMessage, hostBaseURL string) error {
	if b.isDuplicate(msg.MessageID) {
		log.Printf("🔁 Mensaje duplicado %s de %s, ignorado", msg.MessageID, msg.ChatID)
		return nil
	}

	lock := b.sessions.LockChat(msg.ChatID)
	defer lock.Unlock()

	session := b.sessions.GetOrCreate(msg.ChatID)

	// First contact: greet, show the menu and stop. The triggering message
	// is not fed into the flow, so a customer opening with a full order text
	// is not misrouted.
	if !session.Greeted() {
		return b.greet(session, msg.ProfileName)
	}

	optionID := msg.OptionID
	if optionID == "" && !session.InOrderFlow() {
		if resolved, ok := ResolveOptionID(msg.Text); ok {
			optionID = resolved
		}
	}

	if !session.InOrderFlow() && optionID == "" {
		log.Printf("🤫 Ignoramos mensaje de %s sin seleccion de menu", msg.ChatID)
		return nil
	}

	switch session.State {
	case models.ChatStateAwaitingOrderText:
		return b.handleOrderText(session, msg.Text)
	case models.ChatStateAwaitingConfirmation:
		return b.handleConfirmation(session, msg.ButtonID)
	default:
		return b.handleMenuSelection(session, optionID, hostBaseURL)
	}
}

func (b *BotService) isDuplicate(messageID string) bool {
	if messageID == "" {
		return false
	}

	b.seenMu.Lock()
	defer b.seenMu.Unlock()

	now := time.Now()
	if seenAt, ok := b.seen[messageID]; ok && now.Sub(seenAt) < dedupeTTL {
		return true
	}
	for id, seenAt := range b.seen {
		if now.Sub(seenAt) >= dedupeTTL {
			delete(b.seen, id)
		}
	}
	b.seen[messageID] = now
	return false
}

func (b *BotService) greet(session *models.ChatSession, profileName string) error {
	name := strings.TrimSpace(profileName)
	if name == "" {
		name = "alli"
	}
	session.DisplayName = name
	session.State = models.ChatStateIdle

	if err := b.messenger.SendText(session.ChatID, b.cfg.GreetingIntro(name)); err != nil {
		return fmt.Errorf("send greeting: %w", err)
	}
	b.sendMenu(session.ChatID)
	return nil
}

// sendMenu sends the interactive main menu. Failures are logged, never fatal.
func (b *BotService) sendMenu(chatID string) {
	err := b.messenger.SendListMenu(chatID, MenuHeaderText, MenuPrompt, MenuButtonLabel, BuildMenuSections())
	if err != nil {
		log.Printf("❌ No pudimos enviar el menu a %s: %v", chatID, err)
	}
}

func (b *BotService) handleOrderText(session *models.ChatSession, text string) error {
	if strings.TrimSpace(text) == "" {
		if err := b.messenger.SendText(session.ChatID, "Necesito que me envies el detalle del pedido en texto."); err != nil {
			log.Printf("❌ No pudimos pedir el detalle a %s: %v", session.ChatID, err)
		}
		return nil
	}

	order, err := b.store.CreateOrder(session.ChatID, session.DisplayName, text)
	if err != nil {
		return fmt.Errorf("create order: %w", err)
	}

	session.State = models.ChatStateAwaitingConfirmation
	session.PendingOrder = order.ID
	session.PendingDetail = text

	if err := b.messenger.SendText(session.ChatID, "Pedido:\n"+text); err != nil {
		return fmt.Errorf("echo order detail: %w", err)
	}

	prompt := strings.Join([]string{
		"🤔 *Confirmación*",
		"━━━━━━━━━━━━",
		fmt.Sprintf("¿Querés enviar este pedido para que lo procese el equipo comercial (%s)?", b.cfg.ForwardOrderDisplay),
		"",
		"Si tocas *SÍ*, lo dejamos listo para enviar.",
		"Si tocas *NO*, podés volver a corregirlo.",
	}, "\n")
	err = b.messenger.SendButtons(session.ChatID, prompt, []ReplyButton{
		{ID: ConfirmButtonID, Title: "Si"},
		{ID: CancelButtonID, Title: "No"},
	})
	if err != nil {
		return fmt.Errorf("send confirmation buttons: %w", err)
	}
	return nil
}

func (b *BotService) handleConfirmation(session *models.ChatSession, buttonID string) error {
	switch buttonID {
	case ConfirmButtonID:
		orderID := session.PendingOrder
		detail := session.PendingDetail
		if _, err := b.store.SubmitOrder(orderID); err != nil {
			return fmt.Errorf("submit order %d: %w", orderID, err)
		}
		session.ClearFlow()

		link := b.cfg.ForwardLink(detail, session.DisplayName)
		body := strings.Join([]string{
			fmt.Sprintf("Perfecto, tu pedido #%d esta listo.", orderID),
			fmt.Sprintf("Para enviarlo al equipo comercial (%s) solo toca este link y manda el mensaje:", b.cfg.ForwardOrderDisplay),
			link,
		}, "\n")
		if err := b.messenger.SendText(session.ChatID, body); err != nil {
			return fmt.Errorf("send forward link: %w", err)
		}
		b.sendMenu(session.ChatID)
		return nil

	case CancelButtonID:
		orderID := session.PendingOrder
		if err := b.store.CancelOrder(orderID); err != nil {
			return fmt.Errorf("cancel order %d: %w", orderID, err)
		}
		session.ClearFlow()

		if err := b.messenger.SendText(session.ChatID, "Listo, lo cancelamos. Volve al menu para enviar otro pedido cuando quieras."); err != nil {
			log.Printf("❌ No pudimos avisar la cancelacion a %s: %v", session.ChatID, err)
		}
		b.sendMenu(session.ChatID)
		return nil

	default:
		if err := b.messenger.SendText(session.ChatID, "No entendi. Responde SI para confirmar o NO para corregir el pedido."); err != nil {
			log.Printf("❌ No pudimos re-preguntar a %s: %v", session.ChatID, err)
		}
		return nil
	}
}

func (b *BotService) handleMenuSelection(session *models.ChatSession, optionID MenuOptionID, hostBaseURL string) error {
	keepMenu := true

	switch optionID {
	case OptionHorarios:
		b.sendInfo(session.ChatID, "Nuestro horario de atencion es:\n"+BusinessSchedule)

	case OptionDireccion:
		b.sendInfo(session.ChatID, "Nos encontras en:\n"+BusinessAddress)

	case OptionListaPrecio:
		b.sendInfo(session.ChatID, b.cfg.PriceListMessage())
		audioURL := hostBaseURL + "/static/mensaje_bot.ogg"
		if err := b.messenger.SendAudio(session.ChatID, audioURL); err != nil {
			log.Printf("❌ Error enviando audio a %s: %v", session.ChatID, err)
		}

	case OptionHacerPedido:
		session.State = models.ChatStateAwaitingOrderText
		intro := strings.Join([]string{
			"🧾 *Armemos tu pedido*",
			"━━━━━━━━━━━━",
			"Para empezar, escribí en un mensaje *la lista de productos* que necesitás.",
			"",
			"💡 *Ejemplos:*",
			"• \"3 cajas j.cocido, 2 hormas pategras\"",
			"• \"5 uxb leche, 2 packs azúcar\"",
			"",
			"🚀 *Tip:* Cuanto más claro escribas, ¡más rápido preparamos todo!",
			"Enviá tu lista ahora 👇",
		}, "\n")
		b.sendInfo(session.ChatID, intro)
		b.sendInfo(session.ChatID, "Cuando termines podes volver al menu tocando \"Ver opciones\".")
		keepMenu = false

	case OptionAsesor:
		b.sendInfo(session.ChatID, strings.Join([]string{
			"✅ *Listo!*",
			"Si querés hablar con nuestro asesor tocá este enlace y te derivamos directamente:",
			b.cfg.AdvisorLink(),
		}, "\n"))

	default:
		b.sendInfo(session.ChatID, "No reconoci esa opcion. Probemos nuevamente.")
	}

	if keepMenu {
		// Any informational selection drops a half-started order flow.
		session.ClearFlow()
		b.sendMenu(session.ChatID)
	}
	return nil
}

func (b *BotService) sendInfo(chatID, body string) {
	if err := b.messenger.SendText(chatID, body); err != nil {
		log.Printf("❌ No pudimos responder a %s: %v", chatID, err)
	}
}
