package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/talentoplus/backend/internal/config"
	"github.com/talentoplus/backend/internal/repository"
	"github.com/talentoplus/backend/internal/seed"
	"github.com/talentoplus/backend/internal/service"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int
	var file string
	var emailDomain string

	flag.IntVar(&op, "op", 0, "要执行的操作 (1: 插入随机员工, 2: 导入 Excel 或 CSV 文件)")
	flag.IntVar(&n, "n", 5, "要插入的记录数量")
	flag.StringVar(&file, "file", "", "要导入的文件路径")
	flag.StringVar(&emailDomain, "email-domain", "talentoplus.com", "随机员工邮箱使用的域名")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// 读取配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 创建数据库连接池
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

	// 创建 repository
	repo := repository.NewRepository(cfg, dbpool)
	if err := repo.Migrate(); err != nil {
		logger.Error("数据库迁移失败", "error", err)
		return
	}

	// 执行操作
	switch op {
	case 0:
		slog.Error("未指定操作")
	case 1:
		if n <= 0 {
			slog.Error("请输入合法的员工数量")
			return
		}

		cnt := seed.SeedRandomEmployees(context.Background(), repo, n, emailDomain)
		slog.Info("插入员工成功", slog.Int("count", cnt))
	case 2:
		if file == "" {
			slog.Error("请指定要导入的文件")
			return
		}

		importer := service.NewImporter(repo, logger)
		result, err := seed.ImportFile(context.Background(), importer, file)
		if err != nil {
			slog.Error("导入失败", slog.String("error", err.Error()))
			return
		}

		slog.Info("导入成功", slog.Int("processed", result.Processed), slog.Int("created", result.Created), slog.Int("updated", result.Updated))
	default:
		slog.Error("指定的操作非法")
	}
}
