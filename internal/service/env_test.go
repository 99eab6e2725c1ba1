package service

import (
	"path/filepath"
	"testing"
	"time"

	"go-pos-inventory/internal/auth"
	"go-pos-inventory/internal/cache"
	"go-pos-inventory/internal/events"
	"go-pos-inventory/internal/model"
	"go-pos-inventory/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testEnv struct {
	db        *gorm.DB
	products  repository.ProductRepository
	movements repository.MovementRepository
	users     repository.UserRepository

	auth      AuthService
	userSvc   UserService
	catalog   CatalogService
	partners  PartnerService
	sales     SaleService
	purchases PurchaseService
	inventory InventoryService
	dashboard DashboardService
	settings  SettingsService

	admin *auth.Identity
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	// one connection keeps every query on the same in-memory database
	return newTestEnvOn(t, ":memory:", 1)
}

// newSharedTestEnv opens a database file with several pooled connections so
// transactions from different goroutines really run side by side.
func newSharedTestEnv(t *testing.T, conns int) *testEnv {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "pos.db") +
		"?_journal_mode=WAL&_busy_timeout=10000&_txlock=immediate"
	return newTestEnvOn(t, dsn, conns)
}

func newTestEnvOn(t *testing.T, dsn string, conns int) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(conns)
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

	env := &testEnv{
		db:        db,
		products:  productRepo,
		movements: movementRepo,
		users:     userRepo,
		auth:      NewAuthService(userRepo, dispatcher),
		userSvc:   NewUserService(userRepo),
		catalog:   NewCatalogService(db, productRepo, categoryRepo, movementRepo, settingRepo, dispatcher, c),
		partners:  NewPartnerService(supplierRepo, customerRepo),
		sales:     NewSaleService(db, saleRepo, productRepo, customerRepo, movementRepo, settingRepo, dispatcher, c),
		purchases: NewPurchaseService(db, purchaseRepo, productRepo, supplierRepo, movementRepo, dispatcher, c),
		inventory: NewInventoryService(db, productRepo, movementRepo, saleRepo, dispatcher, c, time.Minute),
		dashboard: NewDashboardService(statsRepo, saleRepo, productRepo, c, time.Minute),
		settings:  NewSettingsService(settingRepo),
	}

	admin := &model.User{Username: "admin", Email: "admin@pos.local", FullName: "Admin", Role: model.RoleAdmin, IsActive: true}
	require.NoError(t, admin.SetPassword("secret123"))
	require.NoError(t, userRepo.Create(admin))
	env.admin = &auth.Identity{UserID: admin.ID, Username: admin.Username, Email: admin.Email, Name: admin.FullName, Role: admin.Role}

	return env
}

func (e *testEnv) category(t *testing.T, name string) *model.Category {
	t.Helper()
	c, err := e.catalog.CreateCategory(&CategoryRequest{Name: name}, e.admin)
	require.NoError(t, err)
	return c
}

func (e *testEnv) product(t *testing.T, category *model.Category, sku string, price string, stock int) *model.Product {
	t.Helper()
	p, err := e.catalog.CreateProduct(&ProductRequest{
		SKU:           sku,
		Name:          "Product " + sku,
		Price:         decimal.RequireFromString(price),
		Cost:          decimal.RequireFromString(price).Div(decimal.NewFromInt(2)).Round(2),
		StockQuantity: stock,
		CategoryID:    category.ID,
	}, e.admin)
	require.NoError(t, err)
	return p
}

func (e *testEnv) stock(t *testing.T, p *model.Product) int {
	t.Helper()
	fresh, err := e.products.FindByID(p.ID)
	require.NoError(t, err)
	return fresh.StockQuantity
}

// ledgerMatches checks that the stock movements add up to the product's stock
func (e *testEnv) ledgerMatches(t *testing.T, p *model.Product) {
	t.Helper()
	net, err := e.movements.NetQuantity(p.ID)
	require.NoError(t, err)
	require.Equal(t, e.stock(t, p), net)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func decimalInt(n int) decimal.Decimal {
	return decimal.NewFromInt(int64(n))
}
