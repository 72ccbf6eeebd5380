package httpserver

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"gorm.io/gorm"

	"github.com/evolucion-dental/api-catalogo/internal/http/handlers"
	"github.com/evolucion-dental/api-catalogo/internal/logger"
	"github.com/evolucion-dental/api-catalogo/internal/service/catalog"
	"github.com/evolucion-dental/api-catalogo/internal/service/chat"
	"github.com/evolucion-dental/api-catalogo/internal/service/orders"
	"github.com/evolucion-dental/api-catalogo/internal/service/settings"
)

const APIBasePath = "/api/v1"
const ProductsBasePath = APIBasePath + "/products"
const AttachmentsBasePath = APIBasePath + "/attachments"
const OrdersBasePath = APIBasePath + "/orders"
const SettingsBasePath = APIBasePath + "/settings"
const AgentBasePath = APIBasePath + "/agent"
const ChatBasePath = APIBasePath + "/chat"
const HealthPath = APIBasePath + "/health"

type Deps struct {
	DB             *gorm.DB
	Products       catalog.ProductService
	Attachments    catalog.AttachmentService
	Orders         orders.OrderService
	Settings       settings.SettingsService
	Status         *settings.Status
	Chat           chat.ChatService
	MaxUploadBytes int64
	Log            *logger.Logger
}

func NewRouter(d Deps) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, RequestLogger(d.Log), middleware.Recoverer)

	initHealthRoutes(r, handlers.NewStatusHandler(d.DB))
	initProductRoutes(r, &handlers.ProductHandler{Service: d.Products})
	initAttachmentRoutes(r, &handlers.AttachmentHandler{Service: d.Attachments, MaxUploadBytes: d.MaxUploadBytes})
	initOrderRoutes(r, &handlers.OrderHandler{Service: d.Orders})
	initSettingsRoutes(r, &handlers.SettingsHandler{Service: d.Settings, Status: d.Status})
	initChatRoutes(r, &handlers.ChatHandler{Service: d.Chat})

	return r
}

func initHealthRoutes(r *chi.Mux, h *handlers.StatusHandler) {
	r.Get(HealthPath, h.Health)
}

func initProductRoutes(r *chi.Mux, h *handlers.ProductHandler) {
	r.Route(ProductsBasePath, func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

func initAttachmentRoutes(r *chi.Mux, h *handlers.AttachmentHandler) {
	r.Route(AttachmentsBasePath, func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Upload)
		r.Delete("/{id}", h.Delete)
	})
}

func initOrderRoutes(r *chi.Mux, h *handlers.OrderHandler) {
	r.Route(OrdersBasePath, func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Put("/{id}", h.Update)
		r.Post("/{id}/toggle", h.Toggle)
		r.Delete("/{id}", h.Delete)
	})
}

func initSettingsRoutes(r *chi.Mux, h *handlers.SettingsHandler) {
	r.Route(SettingsBasePath, func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{key}", h.Get)
		r.Put("/{key}", h.Put)
		r.Delete("/{key}", h.Delete)
	})
	r.Route(AgentBasePath, func(r chi.Router) {
		r.Get("/status", h.AgentStatus)
		r.Put("/status", h.SetAgentStatus)
	})
}

func initChatRoutes(r *chi.Mux, h *handlers.ChatHandler) {
	r.Post(ChatBasePath, h.Reply)
	r.Post(ChatBasePath+"/intent", h.Intent)
	r.Get(AgentBasePath+"/prompt", h.Prompt)
}
