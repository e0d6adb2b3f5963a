package router

import (
	"time"

	"fondapos/internal/config"
	"fondapos/internal/handler"
	"fondapos/internal/middleware"
	"fondapos/internal/repository"
	"fondapos/internal/service"
	"fondapos/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	movimientoRepo := repository.NewMovimientoRepository(db)
	menuRepo := repository.NewMenuRepository(db)
	simpleRepo := repository.NewProductoSimpleRepository(db)
	comboRepo := repository.NewComboRepository(db)
	ventaRepo := repository.NewVentaRepository(db)
	devolucionRepo := repository.NewDevolucionRepository(db)
	cajaRepo := repository.NewCajaRepository(db)
	flujoRepo := repository.NewFlujoCajaRepository(db)
	mesaRepo := repository.NewMesaRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	tokenTTL := time.Duration(cfg.JWTExpirationHours) * time.Hour
	authSvc := service.NewAuthService(usuarioRepo, cfg.JWTSecret, tokenTTL)
	productoSvc := service.NewProductoService(productoRepo)
	inventarioSvc := service.NewInventarioService(productoRepo, movimientoRepo)
	resolverSvc := service.NewResolver(productoRepo, menuRepo, simpleRepo, comboRepo)
	catalogoSvc := service.NewCatalogoService(menuRepo, simpleRepo, comboRepo, productoRepo)
	cajaSvc := service.NewCajaService(cajaRepo, flujoRepo)
	flujoSvc := service.NewFlujoCajaService(flujoRepo)
	mesaSvc := service.NewMesaService(mesaRepo)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	ventaSvc := service.NewVentaService(ventaRepo, productoRepo, flujoRepo, cajaRepo, mesaRepo, resolverSvc, inventarioSvc, dispatcher)
	devolucionSvc := service.NewDevolucionService(devolucionRepo, ventaRepo, productoRepo, flujoRepo, resolverSvc, inventarioSvc, dispatcher)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	productosH := handler.NewProductosHandler(productoSvc, inventarioSvc)
	inventarioH := handler.NewInventarioHandler(inventarioSvc)
	catalogoH := handler.NewCatalogoHandler(catalogoSvc, resolverSvc)
	ventasH := handler.NewVentasHandler(ventaSvc, cfg.NombreLocal, cfg.PDFStoragePath)
	devolucionesH := handler.NewDevolucionesHandler(devolucionSvc)
	cajaH := handler.NewCajaHandler(cajaSvc)
	flujoH := handler.NewFlujoCajaHandler(flujoSvc)
	mesasH := handler.NewMesasHandler(mesaSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Roles: cajero, supervisor, administrador — declared per-endpoint
		v1.POST("/ventas", middleware.RequireRole("cajero", "supervisor", "administrador"), ventasH.RegistrarVenta)
		v1.GET("/ventas", middleware.RequireRole("cajero", "supervisor", "administrador"), ventasH.ListarVentas)
		v1.GET("/ventas/:id", middleware.RequireRole("cajero", "supervisor", "administrador"), ventasH.ObtenerVenta)
		v1.POST("/ventas/:id/completar", middleware.RequireRole("cajero", "supervisor", "administrador"), ventasH.CompletarVenta)
		v1.GET("/ventas/:id/ticket", middleware.RequireRole("cajero", "supervisor", "administrador"), ventasH.TicketPDF)
		v1.DELETE("/ventas/:id/items/:itemId", middleware.RequireRole("cajero", "supervisor", "administrador"), ventasH.CancelarItem)
		// Anular una venta completada borra su flujo de caja — solo supervisores
		v1.DELETE("/ventas/:id", middleware.RequireRole("supervisor", "administrador"), ventasH.CancelarVenta)

		dev := v1.Group("/devoluciones", middleware.RequireRole("supervisor", "administrador"))
		{
			dev.POST("", devolucionesH.ProcesarDevolucion)
			dev.GET("", devolucionesH.ListarDevoluciones)
			dev.GET("/:id", devolucionesH.ObtenerDevolucion)
		}

		// Lectura de productos para todos los roles autenticados
		v1.GET("/productos", middleware.RequireRole("cajero", "supervisor", "administrador"), productosH.ListarProductos)
		v1.GET("/productos/alertas", middleware.RequireRole("cajero", "supervisor", "administrador"), productosH.AlertasStock)
		v1.GET("/productos/:id", middleware.RequireRole("cajero", "supervisor", "administrador"), productosH.ObtenerProducto)
		// Ajuste de stock — supervisor o administrador
		v1.POST("/productos/:id/ajustar-stock", middleware.RequireRole("supervisor", "administrador"), productosH.AjustarStock)
		// Escritura — solo administrador
		prods := v1.Group("/productos", middleware.RequireRole("administrador"))
		{
			prods.POST("", productosH.CrearProducto)
			prods.PUT("/:id", productosH.ActualizarProducto)
			prods.DELETE("/:id", productosH.EliminarProducto)
		}

		inv := v1.Group("/inventario")
		{
			inv.GET("/movimientos", middleware.RequireRole("supervisor", "administrador"), inventarioH.ListarMovimientos)
			inv.GET("/disponibilidad", middleware.RequireRole("cajero", "supervisor", "administrador"), catalogoH.Disponibilidad)
		}

		// Catálogo de vendibles — lectura abierta, escritura administrador
		v1.GET("/menu/items", middleware.RequireRole("cajero", "supervisor", "administrador"), catalogoH.ListarItemsMenu)
		v1.GET("/menu/items/:id", middleware.RequireRole("cajero", "supervisor", "administrador"), catalogoH.ObtenerItemMenu)
		menu := v1.Group("/menu/items", middleware.RequireRole("administrador"))
		{
			menu.POST("", catalogoH.CrearItemMenu)
			menu.DELETE("/:id", catalogoH.EliminarItemMenu)
		}

		v1.GET("/simples", middleware.RequireRole("cajero", "supervisor", "administrador"), catalogoH.ListarSimples)
		v1.GET("/simples/:id", middleware.RequireRole("cajero", "supervisor", "administrador"), catalogoH.ObtenerSimple)
		simples := v1.Group("/simples", middleware.RequireRole("administrador"))
		{
			simples.POST("", catalogoH.CrearSimple)
			simples.DELETE("/:id", catalogoH.EliminarSimple)
		}

		v1.GET("/combos", middleware.RequireRole("cajero", "supervisor", "administrador"), catalogoH.ListarCombos)
		v1.GET("/combos/:id", middleware.RequireRole("cajero", "supervisor", "administrador"), catalogoH.ObtenerCombo)
		combos := v1.Group("/combos", middleware.RequireRole("administrador"))
		{
			combos.POST("", catalogoH.CrearCombo)
			combos.DELETE("/:id", catalogoH.EliminarCombo)
		}

		caja := v1.Group("/caja")
		{
			caja.POST("/abrir", middleware.RequireRole("cajero", "supervisor", "administrador"), cajaH.AbrirCaja)
			caja.POST("/cerrar", middleware.RequireRole("cajero", "supervisor", "administrador"), cajaH.CerrarCaja)
			caja.GET("/activa", middleware.RequireRole("cajero", "supervisor", "administrador"), cajaH.SesionActiva)
			caja.GET("/historial", middleware.RequireRole("supervisor", "administrador"), cajaH.Historial)
		}

		flujo := v1.Group("/flujo-caja", middleware.RequireRole("supervisor", "administrador"))
		{
			flujo.GET("", flujoH.ListarFlujos)
			flujo.GET("/resumen", flujoH.ResumenFlujos)
		}

		v1.GET("/mesas", middleware.RequireRole("cajero", "supervisor", "administrador"), mesasH.ListarMesas)
		v1.PUT("/mesas/:id/estado", middleware.RequireRole("cajero", "supervisor", "administrador"), mesasH.CambiarEstadoMesa)
		v1.POST("/mesas", middleware.RequireRole("administrador"), mesasH.CrearMesa)

		usuarios := v1.Group("/usuarios", middleware.RequireRole("administrador"))
		{
			usuarios.POST("", authH.CrearUsuario)
			usuarios.GET("", authH.ListarUsuarios)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
