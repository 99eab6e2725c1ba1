package handler

import (
	"go-pos-inventory/internal/middleware"
	"go-pos-inventory/internal/model"
	"go-pos-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Handlers bundles every HTTP handler mounted under /api
type Handlers struct {
	Auth      *AuthHandler
	User      *UserHandler
	Role      *RoleHandler
	Catalog   *CatalogHandler
	Partner   *PartnerHandler
	Sale      *SaleHandler
	Purchase  *PurchaseHandler
	Inventory *InventoryHandler
	Dashboard *DashboardHandler
	Settings  *SettingsHandler
}

// RegisterRoutes mounts the API. Every route except login and token validation
// requires a session; mutations are further limited by role.
func RegisterRoutes(app *fiber.App, h Handlers, authService service.AuthService) {
	api := app.Group("/api")

	// ============ PUBLIC ROUTES ============
	authGroup := api.Group("/auth")
	authGroup.Post("/login", h.Auth.Login)
	authGroup.Post("/validate-token", h.Auth.ValidateToken)

	// ============ PROTECTED ROUTES ============
	requireAuth := middleware.RequireAuth(authService)
	authGroup.Post("/heartbeat", requireAuth, h.Auth.Heartbeat)
	authGroup.Post("/change-password", requireAuth, h.Auth.ChangePassword)
	authGroup.Get("/me", requireAuth, h.Auth.Me)

	protected := api.Group("", requireAuth)
	staff := middleware.RequireRole(model.RoleManager)
	adminOnly := middleware.RequireRole(model.RoleAdmin)

	// Dashboard
	protected.Get("/dashboard/stats", h.Dashboard.GetDashboardStats)
	protected.Get("/dashboard/stock-movement", h.Dashboard.GetStockMovement)
	protected.Get("/dashboard/revenue", h.Dashboard.GetRevenue)

	// Products
	protected.Get("/products", h.Catalog.GetProducts)
	protected.Get("/products/:id", h.Catalog.GetProduct)
	protected.Get("/products/:id/label", h.Catalog.GetProductLabel)
	protected.Post("/products", staff, h.Catalog.CreateProduct)
	protected.Put("/products/:id", staff, h.Catalog.UpdateProduct)
	protected.Delete("/products/:id", staff, h.Catalog.DeleteProduct)

	// Categories
	protected.Get("/categories", h.Catalog.GetCategories)
	protected.Get("/categories/:id", h.Catalog.GetCategory)
	protected.Post("/categories", staff, h.Catalog.CreateCategory)
	protected.Put("/categories/:id", staff, h.Catalog.UpdateCategory)
	protected.Delete("/categories/:id", staff, h.Catalog.DeleteCategory)

	// Suppliers
	protected.Get("/suppliers", h.Partner.GetSuppliers)
	protected.Get("/suppliers/:id", h.Partner.GetSupplier)
	protected.Post("/suppliers", staff, h.Partner.CreateSupplier)
	protected.Put("/suppliers/:id", staff, h.Partner.UpdateSupplier)
	protected.Delete("/suppliers/:id", staff, h.Partner.DeleteSupplier)

	// Customers (cashiers register customers at the till)
	protected.Get("/customers", h.Partner.GetCustomers)
	protected.Get("/customers/:id", h.Partner.GetCustomer)
	protected.Post("/customers", h.Partner.CreateCustomer)
	protected.Put("/customers/:id", h.Partner.UpdateCustomer)
	protected.Delete("/customers/:id", staff, h.Partner.DeleteCustomer)

	// Sales
	protected.Get("/sales", h.Sale.GetSales)
	protected.Get("/sales/:id", h.Sale.GetSale)
	protected.Get("/sales/:id/receipt", h.Sale.GetReceipt)
	protected.Post("/sales", h.Sale.CreateSale)

	// Purchases
	protected.Get("/purchases", staff, h.Purchase.GetPurchases)
	protected.Get("/purchases/:id", staff, h.Purchase.GetPurchase)
	protected.Post("/purchases", staff, h.Purchase.CreatePurchase)
	protected.Put("/purchases/:id/status", staff, h.Purchase.UpdateStatus)

	// Inventory
	protected.Get("/inventory/forecast", staff, h.Inventory.GetForecast)
	protected.Get("/inventory/movements", staff, h.Inventory.GetMovements)
	protected.Post("/inventory/adjustments", staff, h.Inventory.AdjustStock)

	// Users & roles
	protected.Get("/users", adminOnly, h.User.GetUsers)
	protected.Get("/users/:id", adminOnly, h.User.GetUser)
	protected.Post("/users", adminOnly, h.User.CreateUser)
	protected.Put("/users/:id", adminOnly, h.User.UpdateUser)
	protected.Delete("/users/:id", adminOnly, h.User.DeleteUser)
	protected.Get("/roles", h.Role.GetRoles)

	// Settings
	protected.Get("/settings", h.Settings.GetSettings)
	protected.Put("/settings", adminOnly, h.Settings.UpdateSettings)
}
