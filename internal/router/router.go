package router

import (
	"time"

	"printmonitor/internal/config"
	"printmonitor/internal/handler"
	"printmonitor/internal/infra"
	"printmonitor/internal/middleware"
	"printmonitor/internal/repository"
	"printmonitor/internal/service"
	"printmonitor/internal/web"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
// rdb may be nil; the view cache is then disabled.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, sonda infra.Sonda) (*gin.Engine, error) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	tpl, err := web.Templates()
	if err != nil {
		return nil, err
	}

	r := gin.New()
	r.SetHTMLTemplate(tpl)

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Infrastructure ───────────────────────────────────────────────────────
	cache := infra.NewPainelCache(rdb, cfg.CacheTTL())
	gate := middleware.NewAcesso(cfg.PrivatePassword, cfg.SessionSecret, cfg.SessionTTL(), cfg.IsProduction())

	// ── Repositories ─────────────────────────────────────────────────────────
	impressoraRepo := repository.NewImpressoraRepository(db)
	consumoRepo := repository.NewConsumoRepository(db)
	compraRepo := repository.NewCompraPapelRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	impressoraSvc := service.NewImpressoraService(impressoraRepo, consumoRepo, cache)
	painelSvc := service.NewPainelService(impressoraRepo, consumoRepo, compraRepo, cache, cfg.MovingAverageDays, loc)
	compraSvc := service.NewCompraPapelService(compraRepo, cache)

	// ── Handlers ─────────────────────────────────────────────────────────────
	impressorasH := handler.NewImpressorasHandler(impressoraSvc)
	painelH := handler.NewPainelHandler(painelSvc, compraSvc, loc)
	acessoH := handler.NewAcessoHandler(gate)
	snmpH := handler.NewSNMPHandler(sonda)
	apiH := handler.NewAPIHandler(impressoraSvc, painelSvc, compraSvc, loc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, sonda))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/auth", acessoH.LoginForm)
	r.POST("/auth", middleware.LoginRateLimiter(cfg.RateLimitPerMinute), acessoH.Login)
	r.POST("/auth/sair", acessoH.Sair)

	r.GET("/", impressorasH.Listar)
	r.GET("/impressoras", impressorasH.Listar)
	r.GET("/dashboard", painelH.Dashboard)
	r.GET("/historico", painelH.Historico)
	r.GET("/financeiro", painelH.Financeiro)
	r.GET("/financeiro/relatorio.pdf", painelH.RelatorioPDF)

	// Mutation pages sit behind the shared-secret gate
	protegido := r.Group("", gate.Exigir())
	{
		protegido.GET("/impressoras/nova", impressorasH.NovaForm)
		protegido.POST("/impressoras/nova", impressorasH.Criar)
		protegido.GET("/impressoras/substituir", impressorasH.SubstituirForm)
		protegido.POST("/impressoras/substituir", impressorasH.Substituir)
		protegido.GET("/impressoras/:id/editar", impressorasH.EditarForm)
		protegido.POST("/impressoras/:id/editar", impressorasH.Atualizar)
		protegido.GET("/impressoras/:id/desconto", impressorasH.DescontoForm)
		protegido.POST("/impressoras/:id/desconto", impressorasH.AtualizarDesconto)
		protegido.GET("/financeiro/papel/nova", painelH.NovaCompraForm)
		protegido.POST("/financeiro/papel/nova", painelH.RegistrarCompra)
	}
	r.GET("/impressoras/:id", impressorasH.Detalhe)

	api := r.Group("/api")
	{
		api.POST("/testar-snmp", snmpH.Testar)

		v1 := api.Group("/v1")
		v1.GET("/impressoras", apiH.ListarImpressoras)
		v1.GET("/impressoras/:id/consumo", apiH.Consumo)
		v1.GET("/dashboard", apiH.Dashboard)
		v1.GET("/historico", apiH.Historico)
		v1.GET("/financeiro", apiH.Financeiro)
		v1.GET("/compras", apiH.Compras)
	}

	// Swagger UI, only enabled outside production
	if !cfg.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r, nil
}
