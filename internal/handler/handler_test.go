package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-pos-inventory/internal/auth"
	"go-pos-inventory/internal/cache"
	"go-pos-inventory/internal/events"
	"go-pos-inventory/internal/model"
	"go-pos-inventory/internal/repository"
	"go-pos-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type apiEnv struct {
	app      *fiber.App
	catalog  service.CatalogService
	products repository.ProductRepository
	users    repository.UserRepository
	admin    *auth.Identity
}

func newAPIEnv(t *testing.T) *apiEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(model.AllModels()...))

	userRepo := repository.NewUserRepo(db)
	productRepo := repository.NewProductRepo(db)
	categoryRepo := repository.NewCategoryRepo(db)
	supplierRepo := repository.NewSupplierRepo(db)
	customerRepo := repository.NewCustomerRepo(db)
	saleRepo := repository.NewSaleRepo(db)
	purchaseRepo := repository.NewPurchaseRepo(db)
	movementRepo := repository.NewMovementRepo(db)
	settingRepo := repository.NewSettingRepo(db)
	statsRepo := repository.NewStatsRepo(db)

	dispatcher := events.NewDispatcher()
	c := cache.Noop{}

	authService := service.NewAuthService(userRepo, dispatcher)
	userService := service.NewUserService(userRepo)
	catalogService := service.NewCatalogService(db, productRepo, categoryRepo, movementRepo, settingRepo, dispatcher, c)
	partnerService := service.NewPartnerService(supplierRepo, customerRepo)
	saleService := service.NewSaleService(db, saleRepo, productRepo, customerRepo, movementRepo, settingRepo, dispatcher, c)
	purchaseService := service.NewPurchaseService(db, purchaseRepo, productRepo, supplierRepo, movementRepo, dispatcher, c)
	inventoryService := service.NewInventoryService(db, productRepo, movementRepo, saleRepo, dispatcher, c, time.Minute)
	dashboardService := service.NewDashboardService(statsRepo, saleRepo, productRepo, c, time.Minute)
	settingsService := service.NewSettingsService(settingRepo)

	app := fiber.New()
	RegisterRoutes(app, Handlers{
		Auth:      NewAuthHandler(authService, userService),
		User:      NewUserHandler(userService),
		Role:      NewRoleHandler(userService),
		Catalog:   NewCatalogHandler(catalogService),
		Partner:   NewPartnerHandler(partnerService),
		Sale:      NewSaleHandler(saleService),
		Purchase:  NewPurchaseHandler(purchaseService),
		Inventory: NewInventoryHandler(inventoryService),
		Dashboard: NewDashboardHandler(dashboardService),
		Settings:  NewSettingsHandler(settingsService),
	}, authService)

	env := &apiEnv{app: app, catalog: catalogService, products: productRepo, users: userRepo}
	admin := env.user(t, "admin", model.RoleAdmin)
	env.admin = &auth.Identity{UserID: admin.ID, Username: admin.Username, Email: admin.Email, Name: admin.FullName, Role: admin.Role}
	return env
}

func (e *apiEnv) user(t *testing.T, username, role string) *model.User {
	t.Helper()
	u := &model.User{Username: username, Email: username + "@pos.local", FullName: username, Role: role, IsActive: true}
	require.NoError(t, u.SetPassword("secret123"))
	require.NoError(t, e.users.Create(u))
	return u
}

func (e *apiEnv) login(t *testing.T, username string) string {
	t.Helper()
	status, body := e.do(t, http.MethodPost, "/api/auth/login", "", fiber.Map{"login": username, "password": "secret123"})
	require.Equal(t, http.StatusOK, status, "%v", body)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func (e *apiEnv) do(t *testing.T, method, path, token string, payload interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	body := map[string]interface{}{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &body))
	}
	return resp.StatusCode, body
}

func (e *apiEnv) product(t *testing.T, sku string, stock int) *model.Product {
	t.Helper()
	category, err := e.catalog.CreateCategory(&service.CategoryRequest{Name: "Cat " + sku}, e.admin)
	require.NoError(t, err)
	p, err := e.catalog.CreateProduct(&service.ProductRequest{
		SKU:           sku,
		Name:          "Product " + sku,
		Price:         decimal.RequireFromString("10.04"),
		Cost:          decimal.RequireFromString("5.00"),
		StockQuantity: stock,
		CategoryID:    category.ID,
	}, e.admin)
	require.NoError(t, err)
	return p
}

func TestLogin(t *testing.T) {
	env := newAPIEnv(t)

	status, body := env.do(t, http.MethodPost, "/api/auth/login", "", fiber.Map{"login": "admin@pos.local", "password": "secret123"})
	assert.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, body["token"])
	assert.Equal(t, model.RoleAdmin, body["role"])

	status, body = env.do(t, http.MethodPost, "/api/auth/login", "", fiber.Map{"login": "admin", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.NotEmpty(t, body["message"])

	status, body = env.do(t, http.MethodPost, "/api/auth/login", "", fiber.Map{"login": "admin"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.NotEmpty(t, body["errors"])
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	env := newAPIEnv(t)

	status, _ := env.do(t, http.MethodGet, "/api/products", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = env.do(t, http.MethodGet, "/api/products", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	token := env.login(t, "admin")
	status, _ = env.do(t, http.MethodGet, "/api/auth/me", token, nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestReplacedSessionIsRejected(t *testing.T) {
	env := newAPIEnv(t)

	first := env.login(t, "admin")
	second := env.login(t, "admin")

	status, _ := env.do(t, http.MethodGet, "/api/settings", first, nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = env.do(t, http.MethodGet, "/api/settings", second, nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestRoleGates(t *testing.T) {
	env := newAPIEnv(t)
	env.user(t, "cashier", model.RoleCashier)
	env.user(t, "manager", model.RoleManager)
	cashier := env.login(t, "cashier")
	manager := env.login(t, "manager")

	status, _ := env.do(t, http.MethodPost, "/api/categories", cashier, fiber.Map{"name": "Snacks"})
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = env.do(t, http.MethodGet, "/api/inventory/forecast", cashier, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = env.do(t, http.MethodGet, "/api/users", manager, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, body := env.do(t, http.MethodPost, "/api/categories", manager, fiber.Map{"name": "Snacks"})
	assert.Equal(t, http.StatusCreated, status, "%v", body)

	status, _ = env.do(t, http.MethodGet, "/api/products", cashier, nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestErrorResponses(t *testing.T) {
	env := newAPIEnv(t)
	token := env.login(t, "admin")

	t.Run("invalid body lists fields", func(t *testing.T) {
		status, body := env.do(t, http.MethodPost, "/api/products", token, fiber.Map{"name": "No SKU"})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "Validation failed", body["message"])
		assert.NotEmpty(t, body["errors"])
	})

	t.Run("malformed id", func(t *testing.T) {
		status, body := env.do(t, http.MethodGet, "/api/products/not-a-uuid", token, nil)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "Invalid id", body["message"])
	})

	t.Run("unknown product", func(t *testing.T) {
		status, _ := env.do(t, http.MethodGet, "/api/products/"+uuid.NewString(), token, nil)
		assert.Equal(t, http.StatusNotFound, status)
	})

	t.Run("malformed json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/categories", bytes.NewBufferString("{"))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := env.app.Test(req, -1)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestCreateSaleOverHTTP(t *testing.T) {
	env := newAPIEnv(t)
	env.user(t, "cashier", model.RoleCashier)
	token := env.login(t, "cashier")
	p := env.product(t, "RICE", 100)

	status, body := env.do(t, http.MethodPost, "/api/sales", token, fiber.Map{
		"items":          []fiber.Map{{"product_id": p.ID, "quantity": 10}},
		"tax":            "0",
		"payment_method": "cash",
	})
	require.Equal(t, http.StatusCreated, status, "%v", body)

	status, body = env.do(t, http.MethodPost, "/api/sales", token, fiber.Map{
		"items":          []fiber.Map{{"product_id": p.ID, "quantity": 95}},
		"payment_method": "cash",
	})
	assert.Equal(t, http.StatusConflict, status, "%v", body)

	fresh, err := env.products.FindByID(p.ID)
	require.NoError(t, err)
	assert.Equal(t, 90, fresh.StockQuantity)
}
