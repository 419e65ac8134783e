package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"
)

// MenuRow is one selectable row of an interactive list message.
type MenuRow struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// MenuSection groups rows under a title in an interactive list message.
type MenuSection struct {
	Title string    `json:"title"`
	Rows  []MenuRow `json:"rows"`
}

// ReplyButton is one of the quick-reply buttons of an interactive prompt.
type ReplyButton struct {
	ID    string
	Title string
}

// Messenger is the outbound WhatsApp transport the bot talks through.
type Messenger interface {
	SendText(to, body string) error
	SendAudio(to, audioURL string) error
	SendListMenu(to, header, body, buttonLabel string, sections []MenuSection) error
	SendButtons(to, body string, buttons []ReplyButton) error
}

// CloudService sends messages through the Meta WhatsApp Cloud API.
type CloudService struct {
	client  *http.Client
	baseURL string
	phoneID string
	token   string
}

// NewCloudService creates a new Cloud API service from environment variables.
// The service is returned even when credentials are missing so the process
// can boot for local testing; sends will fail with the returned error.
func NewCloudService() (*CloudService, error) {
	svc := &CloudService{
		client:  &http.Client{Timeout: 15 * time.Second},
		baseURL: "https://graph.facebook.com/v20.0",
		phoneID: os.Getenv("WHATSAPP_PHONE_ID"),
		token:   os.Getenv("WHATSAPP_CLOUD_TOKEN"),
	}
	if svc.phoneID == "" || svc.token == "" {
		return svc, fmt.Errorf("missing WHATSAPP_PHONE_ID or WHATSAPP_CLOUD_TOKEN in environment variables")
	}
	return svc, nil
}

// Configured reports whether Cloud API credentials are present.
func (s *CloudService) Configured() bool {
	return s.phoneID != "" && s.token != ""
}

type textPayload struct {
	Body string `json:"body"`
}

type audioPayload struct {
	Link string `json:"link"`
}

type interactivePayload struct {
	Type   string             `json:"type"`
	Header *interactiveHeader `json:"header,omitempty"`
	Body   textPayload        `json:"body"`
	Action interactiveAction  `json:"action"`
}

type interactiveHeader struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type interactiveAction struct {
	Button   string        `json:"button,omitempty"`
	Sections []MenuSection `json:"sections,omitempty"`
	Buttons  []wireButton  `json:"buttons,omitempty"`
}

type wireButton struct {
	Type  string          `json:"type"`
	Reply wireButtonReply `json:"reply"`
}

type wireButtonReply struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type cloudPayload struct {
	MessagingProduct string              `json:"messaging_product"`
	To               string              `json:"to"`
	Type             string              `json:"type,omitempty"`
	Text             *textPayload        `json:"text,omitempty"`
	Audio            *audioPayload       `json:"audio,omitempty"`
	Interactive      *interactivePayload `json:"interactive,omitempty"`
}

// SendText sends a plain text message.
func (s *CloudService) SendText(to, body string) error {
	log.Printf("📱 Enviando mensaje a %s: %s", to, body)
	return s.send(cloudPayload{
		MessagingProduct: "whatsapp",
		To:               to,
		Text:             &textPayload{Body: body},
	})
}

// SendAudio sends an audio message by URL.
func (s *CloudService) SendAudio(to, audioURL string) error {
	log.Printf("🎧 Enviando audio a %s: %s", to, audioURL)
	return s.send(cloudPayload{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "audio",
		Audio:            &audioPayload{Link: audioURL},
	})
}

// SendListMenu sends an interactive list message.
func (s *CloudService) SendListMenu(to, header, body, buttonLabel string, sections []MenuSection) error {
	log.Printf("📋 Enviando menu interactivo a %s", to)
	return s.send(cloudPayload{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "interactive",
		Interactive: &interactivePayload{
			Type:   "list",
			Header: &interactiveHeader{Type: "text", Text: header},
			Body:   textPayload{Body: body},
			Action: interactiveAction{Button: buttonLabel, Sections: sections},
		},
	})
}

// SendButtons sends an interactive prompt with quick-reply buttons.
func (s *CloudService) SendButtons(to, body string, buttons []ReplyButton) error {
	log.Printf("🔘 Enviando botones a %s", to)
	wire := make([]wireButton, 0, len(buttons))
	for _, b := range buttons {
		wire = append(wire, wireButton{Type: "reply", Reply: wireButtonReply{ID: b.ID, Title: b.Title}})
	}
	return s.send(cloudPayload{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "interactive",
		Interactive: &interactivePayload{
			Type:   "button",
			Body:   textPayload{Body: body},
			Action: interactiveAction{Buttons: wire},
		},
	})
}

func (s *CloudService) send(payload cloudPayload) error {
	if !s.Configured() {
		return fmt.Errorf("missing WHATSAPP_PHONE_ID or WHATSAPP_CLOUD_TOKEN in environment variables")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", s.baseURL, s.phoneID)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		log.Printf("❌ Error sin respuesta de WhatsApp: %v", err)
		return fmt.Errorf("send message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		log.Printf("❌ Cloud API respondio %d: %s", resp.StatusCode, string(respBody))
		return fmt.Errorf("cloud api status %d", resp.StatusCode)
	}
	return nil
}
