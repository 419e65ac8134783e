package handlers

import (
	"errors"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/simonolocco/bot-wasap/internal/middleware"
	"github.com/simonolocco/bot-wasap/internal/services"
	"github.com/simonolocco/bot-wasap/internal/storage"
)

// AdminHandler serves the JSON API behind the admin panel: orders, alias
// training and the cookie-based login.
type AdminHandler struct {
	store    storage.Store
	aliases  *services.AliasService
	sessions *middleware.AdminSessionStore
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(store storage.Store, sessions *middleware.AdminSessionStore) *AdminHandler {
	return &AdminHandler{
		store:    store,
		aliases:  services.NewAliasService(store),
		sessions: sessions,
	}
}

// HandleSession reports whether the request carries a live admin session.
func (h *AdminHandler) HandleSession(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"authenticated": h.sessions.Valid(c.Cookies(middleware.AdminCookieName)),
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// HandleLogin checks the credentials against ADMIN_USERNAME/ADMIN_PASSWORD
// and sets the session cookie.
func (h *AdminHandler) HandleLogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cuerpo invalido"})
	}

	username := os.Getenv("ADMIN_USERNAME")
	password := os.Getenv("ADMIN_PASSWORD")
	if username == "" || password == "" {
		log.Println("❌ Faltan ADMIN_USERNAME o ADMIN_PASSWORD en el entorno")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Panel sin configurar"})
	}

	if req.Username != username || req.Password != password {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Credenciales invalidas"})
	}

	token := h.sessions.Create()
	c.Cookie(&fiber.Cookie{
		Name:     middleware.AdminCookieName,
		Value:    token,
		HTTPOnly: true,
		SameSite: "Lax",
		Expires:  time.Now().Add(12 * time.Hour),
	})
	return c.JSON(fiber.Map{"ok": true})
}

// HandleLogout revokes the current session.
func (h *AdminHandler) HandleLogout(c *fiber.Ctx) error {
	h.sessions.Revoke(c.Cookies(middleware.AdminCookieName))
	c.ClearCookie(middleware.AdminCookieName)
	return c.JSON(fiber.Map{"ok": true})
}

// HandleListOrders returns every order, newest first.
func (h *AdminHandler) HandleListOrders(c *fiber.Ctx) error {
	orders, err := h.store.ListOrders()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"orders": orders})
}

// HandleGetOrder returns one order by id.
func (h *AdminHandler) HandleGetOrder(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Id invalido"})
	}

	order, err := h.store.GetOrder(id)
	if err != nil {
		if errors.Is(err, storage.ErrOrderNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Pedido no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"order": order})
}

// HandleAcceptOrder marks an order as accepted, the out-of-band admin step
// after the customer submitted it.
func (h *AdminHandler) HandleAcceptOrder(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Id invalido"})
	}

	order, err := h.store.AcceptOrder(id)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrOrderNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Pedido no encontrado"})
		case errors.Is(err, storage.ErrOrderClosed):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "El pedido esta cancelado"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
	}
	return c.JSON(fiber.Map{"order": order})
}

// HandlePendingAliases lists untrained order-text tokens.
func (h *AdminHandler) HandlePendingAliases(c *fiber.Ctx) error {
	aliases, err := h.aliases.PendingAliases()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"aliases": aliases})
}

type assignAliasRequest struct {
	AliasKey    string `json:"aliasKey"`
	ProductCode string `json:"productCode"`
}

// HandleAssignAlias trains a token to a product code.
func (h *AdminHandler) HandleAssignAlias(c *fiber.Ctx) error {
	var req assignAliasRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cuerpo invalido"})
	}

	updated, err := h.aliases.AssignAlias(req.AliasKey, req.ProductCode)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"updated": updated})
}

// HandlePendingUnitAliases lists unrecognized unit words.
func (h *AdminHandler) HandlePendingUnitAliases(c *fiber.Ctx) error {
	units, err := h.aliases.PendingUnitAliases()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"units": units})
}

type assignUnitAliasRequest struct {
	AliasKey  string `json:"aliasKey"`
	Canonical string `json:"canonical"`
}

// HandleAssignUnitAlias trains a unit word to its canonical gate unit.
func (h *AdminHandler) HandleAssignUnitAlias(c *fiber.Ctx) error {
	var req assignUnitAliasRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cuerpo invalido"})
	}

	updated, err := h.aliases.AssignUnitAlias(req.AliasKey, req.Canonical)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"updated": updated})
}

// HandleProductSearch answers the alias-assignment product lookup.
func (h *AdminHandler) HandleProductSearch(c *fiber.Ctx) error {
	results, err := h.aliases.SearchProducts(c.Query("q"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"results": results})
}
