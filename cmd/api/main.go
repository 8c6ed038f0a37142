package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/talentoplus/backend/internal/auth"
	"github.com/talentoplus/backend/internal/cache"
	"github.com/talentoplus/backend/internal/config"
	"github.com/talentoplus/backend/internal/gemini"
	"github.com/talentoplus/backend/internal/handler"
	"github.com/talentoplus/backend/internal/mailer"
	"github.com/talentoplus/backend/internal/repository"
	"github.com/talentoplus/backend/internal/service"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	/**********************************************
	 * 创建 logger
	 **********************************************/
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	/**********************************************
	 * 加载配置
	 **********************************************/
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法加载配置文件", "error", err)
		return
	}

	/**********************************************
	 * 连接数据库
	 **********************************************/
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("无法创建数据库连接池", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open 只是创建数据库连接池对象，并不会立即连接到数据库，因此需要显式地 ping 一下
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("无法连接到数据库", "error", err)
		return
	}

	/**********************************************
	 * 创建 repository 并执行迁移
	 **********************************************/
	repo := repository.NewRepository(cfg, dbpool)

	if cfg.Database.AutoMigrate {
		if err := repo.Migrate(); err != nil {
			logger.Error("数据库迁移失败", "error", err)
			return
		}
		logger.Info("数据库迁移完成")
	}

	/**********************************************
	 * 连接 redis
	 **********************************************/
	rdb := cache.NewRedisClient(cfg)
	defer rdb.Close()

	if err := rdb.Ping(ctx).Err(); err != nil {
		// 验证码功能不可用，但其余接口仍然可以工作
		logger.Warn("无法连接到 redis", "error", err)
	}
	codes := cache.NewCodeStore(cfg, rdb)

	/**********************************************
	 * 创建邮件发送器
	 **********************************************/
	var sender service.Mailer
	if cfg.Email.SMTP.Host == "" {
		logger.Warn("未配置 SMTP，邮件只会打印到日志中")
		sender = mailer.NewConsoleMailer(logger)
	} else {
		smtpMailer, err := mailer.NewSMTPMailer(cfg)
		if err != nil {
			logger.Error("无法创建邮件客户端", "error", err)
			return
		}
		sender = smtpMailer
	}

	if cfg.Gemini.APIKey == "" {
		logger.Warn("未配置 Gemini API Key，智能问答将返回降级结果")
	}

	/**********************************************
	 * 创建 service
	 **********************************************/
	issuer := auth.NewIssuer(cfg)
	authService := service.NewAuthService(repo, codes, sender, issuer, time.Duration(cfg.OTP.Expiration)*time.Second, logger)

	services := &handler.Services{
		Auth:      authService,
		Employees: service.NewEmployeeService(repo),
		Importer:  service.NewImporter(repo, logger),
		Dashboard: service.NewDashboard(repo),
		Assistant: service.NewAssistant(repo, gemini.NewClient(cfg), logger),
	}

	/**********************************************
	 * 确保数据库中存在初始管理员
	 **********************************************/
	created, err := authService.EnsureAdmin(ctx, cfg.InitialAdmin.Username, cfg.InitialAdmin.Email, cfg.InitialAdmin.Password)
	if err != nil {
		logger.Error("无法创建初始管理员", "error", err)
		return
	}
	if created {
		logger.Info("已创建初始管理员", "username", cfg.InitialAdmin.Username)
	}

	/**********************************************
	 * 创建 handler
	 **********************************************/
	handler, err := handler.NewHandler(cfg, issuer, services)
	if err != nil {
		logger.Error("无法创建 handler", "error", err)
		return
	}
	handler.RegisterRoutes()

	/**********************************************
	 * 启动 HTTP 服务器
	 **********************************************/
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      handler.Mux,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("正在启动服务器...", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("无法启动服务器", slog.String("error", err.Error()))
			return
		}
	}()

	<-quit
	logger.Info("正在关闭服务器...")

	ctx, cancel = context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("关闭服务器失败", slog.String("error", err.Error()))
	}
	logger.Info("服务器已成功关闭")
}
