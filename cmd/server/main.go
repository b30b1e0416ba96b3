package main

import (
	"context"
	"encoding/gob"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata" // 确保在精简镜像中也能识别时区

	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/user/moodflix/internal/config"
	"github.com/user/moodflix/internal/handler"
	"github.com/user/moodflix/internal/middleware"
	"github.com/user/moodflix/internal/model"
	"github.com/user/moodflix/internal/repository"
	"github.com/user/moodflix/internal/router"
	"github.com/user/moodflix/internal/service"
	"github.com/user/moodflix/internal/utils"
)

func main() {
	// 注册 Session 模型
	gob.Register(model.SessionUser{})

	// 加载环境变量
	if err := godotenv.Load(); err != nil {
		log.Println("未找到 .env 文件，使用系统环境变量")
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("%v", err)
	}

	// 初始化数据库（用户和收藏）
	db, err := repository.InitDB(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}
	sqlDB, _ := db.DB()
	defer sqlDB.Close()
	repos := repository.NewRepositories(db)

	// 构建电影目录
	catalog, err := service.NewCatalogService(cfg.DatasetPath, cfg.SnapshotPath, nil).Load()
	if err != nil {
		log.Fatalf("电影目录加载失败: %v", err)
	}

	// TMDB 补充信息
	enrichmentCache := repository.NewEnrichmentCache(cfg.EnrichmentCachePath)
	if err := enrichmentCache.Load(); err != nil {
		log.Printf("[TMDB] 读取缓存失败，将重新抓取: %v", err)
	}
	tmdb := service.NewTMDBService(service.TMDBConfig{
		APIKey:   cfg.TMDBAPIKey,
		APIToken: cfg.TMDBAPIToken,
		Enabled:  cfg.TMDBEnrichEnabled,
		CacheTTL: 24 * time.Hour,
	}, enrichmentCache, service.NewTranslator(""))
	if !tmdb.Enabled() {
		log.Println("[TMDB] 未启用 TMDB 补充，只使用占位图和数据集简介")
	}

	// 推荐服务
	engine := service.NewRecommendationEngine(
		service.DefaultEmotionMap(),
		service.WithFuzzyCutoff(cfg.FuzzyCutoff),
		service.WithRankByScore(cfg.EmotionRankByScore),
	)
	queryCache := utils.NewQueryCache(cfg.CacheTTL)
	recommend := service.NewRecommendationService(catalog, engine, tmdb, queryCache, cfg.RecommendLimit)

	// 启动定时缓存维护
	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	service.NewCacheMaintenanceService(queryCache, tmdb, cfg.CacheMaintenanceEvery).Start(ctx)

	// 初始化 Gin
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	// 启用 gzip，默认压缩级别
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	// 设置 Session 中间件
	store := cookie.NewStore([]byte(cfg.AppSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.JWTExpiry.Seconds()),
		HttpOnly: true,
		Secure:   false, // 非 HTTPS 环境必须为 false
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions("moodflix_session", store))

	r.HTMLRender = router.LoadTemplates("./web/templates")
	r.Static("/static", "./web/static")

	r.Use(middleware.Logger())
	r.Use(middleware.Security())
	r.Use(middleware.CORS())

	h := handler.NewHandler(repos, cfg, recommend)
	router.RegisterRoutes(r, h)

	srv := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   30 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		log.Printf("服务器启动于 http://localhost:%s（%d 部电影）", cfg.Port, catalog.Len())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("服务器启动失败: %v", err)
		}
	}()

	// 等待中断信号以优雅地关闭服务器
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("正在关闭服务器...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("服务器强制关闭: %v", err)
	}

	// 停止维护任务并保存补充信息缓存
	stop()
	if _, err := tmdb.PersistCache(); err != nil {
		log.Printf("[TMDB] 保存缓存失败: %v", err)
	}

	log.Println("服务器已退出")
}
