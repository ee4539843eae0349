package router

import (
	"time"

	"farmacia/internal/config"
	"farmacia/internal/handler"
	"farmacia/internal/middleware"
	"farmacia/internal/model"
	"farmacia/internal/repository"
	"farmacia/internal/service"
	"farmacia/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
// rdb may be nil — audit logging then falls back to synchronous writes.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher) *gin.Engine {
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

	// ── Infrastructure ───────────────────────────────────────────────────────
	clock := service.NewClock()
	imageStore := service.NewDiskImageStore(cfg.ImagensDir)

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	categoriaRepo := repository.NewCategoriaRepository(db)
	medicamentoRepo := repository.NewMedicamentoRepository(db)
	movimentacaoRepo := repository.NewMovimentacaoEstoqueRepository(db)
	alertaRepo := repository.NewAlertaRepository(db)
	clienteRepo := repository.NewClienteRepository(db)
	vendaRepo := repository.NewVendaRepository(db)
	logRepo := repository.NewLogRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	logSvc := service.NewLogService(logRepo, dispatcher, clock)
	authSvc := service.NewAuthService(usuarioRepo, logSvc, cfg)
	alertaSvc := service.NewAlertaService(alertaRepo, medicamentoRepo, service.AlertaConfig{
		LimiteEstoqueBaixo:  cfg.EstoqueBaixoLimite,
		DiasValidadeProxima: cfg.ValidadeProximaDias,
	}, clock)
	estoqueSvc := service.NewEstoqueService(medicamentoRepo, movimentacaoRepo, alertaSvc, logSvc, clock)
	categoriaSvc := service.NewCategoriaService(categoriaRepo, medicamentoRepo, logSvc)
	medicamentoSvc := service.NewMedicamentoService(medicamentoRepo, categoriaRepo, vendaRepo, alertaSvc, imageStore, logSvc, clock)
	clienteSvc := service.NewClienteService(clienteRepo, vendaRepo, logSvc)
	vendaSvc := service.NewVendaService(vendaRepo, clienteRepo, medicamentoRepo, estoqueSvc, alertaSvc, logSvc, clock)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(authSvc)
	categoriasH := handler.NewCategoriasHandler(categoriaSvc)
	medicamentosH := handler.NewMedicamentosHandler(medicamentoSvc)
	estoqueH := handler.NewEstoqueHandler(estoqueSvc)
	alertasH := handler.NewAlertasHandler(alertaSvc)
	clientesH := handler.NewClientesHandler(clienteSvc, vendaSvc)
	vendasH := handler.NewVendasHandler(vendaSvc)
	logsH := handler.NewLogsHandler(logSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))
	r.Static("/uploads", cfg.ImagensDir)

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	todos := middleware.RequireRole(model.RolAdmin, model.RolVendedor)
	admin := middleware.RequireRole(model.RolAdmin)

	v1 := r.Group("/v1", jwtMW)
	{
		// Catálogo — leitura para todos, escrita só para ADMIN
		v1.GET("/medicamentos", todos, medicamentosH.Listar)
		v1.GET("/medicamentos/:id", todos, medicamentosH.Obter)
		meds := v1.Group("/medicamentos", admin)
		{
			meds.POST("", medicamentosH.Criar)
			meds.PUT("/:id", medicamentosH.Atualizar)
			meds.PATCH("/:id/status", medicamentosH.AtualizarStatus)
			meds.DELETE("/:id", medicamentosH.Excluir)
		}

		v1.GET("/categorias", todos, categoriasH.Listar)
		categorias := v1.Group("/categorias", admin)
		{
			categorias.POST("", categoriasH.Criar)
			categorias.PUT("/:id", categoriasH.Atualizar)
			categorias.DELETE("/:id", categoriasH.Excluir)
		}

		// Estoque — leitura visível a todos, ajustes só por ADMIN
		v1.GET("/estoque/movimentacoes", todos, estoqueH.Movimentacoes)
		v1.GET("/estoque/:id", todos, estoqueH.Consultar)
		estoque := v1.Group("/estoque", admin)
		{
			estoque.POST("/:id/entrada", estoqueH.Entrada)
			estoque.POST("/:id/saida", estoqueH.Saida)
		}

		// Alertas
		alertas := v1.Group("/alertas", todos)
		{
			alertas.GET("", alertasH.Listar)
			alertas.GET("/nao-lidos/count", alertasH.NaoLidosCount)
			alertas.PATCH("/:id/lido", alertasH.MarcarComoLido)
			alertas.POST("/verificar", alertasH.Verificar)
		}

		// Clientes
		clientes := v1.Group("/clientes", todos)
		{
			clientes.POST("", clientesH.Criar)
			clientes.GET("", clientesH.Listar)
			clientes.GET("/:id", clientesH.Obter)
			clientes.GET("/:id/vendas", clientesH.Vendas)
			clientes.PUT("/:id", clientesH.Atualizar)
		}
		v1.DELETE("/clientes/:id", admin, clientesH.Excluir)

		// Vendas — cancelamento restrito a ADMIN
		vendas := v1.Group("/vendas", todos)
		{
			vendas.POST("", vendasH.Criar)
			vendas.POST("/cancelada", vendasH.CriarCancelada)
			vendas.GET("", vendasH.Listar)
			vendas.GET("/:id", vendasH.Obter)
		}
		v1.POST("/vendas/:id/cancelar", admin, vendasH.Cancelar)

		// Usuários e auditoria — ADMIN
		usuarios := v1.Group("/usuarios", admin)
		{
			usuarios.POST("", usuariosH.Criar)
			usuarios.GET("", usuariosH.Listar)
			usuarios.PUT("/:id", usuariosH.Atualizar)
			usuarios.DELETE("/:id", usuariosH.Desativar)
			usuarios.PATCH("/:id/reativar", usuariosH.Reativar)
		}
		v1.GET("/logs", admin, logsH.Listar)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
