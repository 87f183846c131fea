// storedemo 将状态同步层端到端串起来的演示程序：
// 加载配置和日志，初始化购物车持久化与目录客户端，
// 订阅两个状态机并把每次发布的快照打到日志，收到中断信号后退出。
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/drund/storedemo/internal/api"
	"github.com/drund/storedemo/internal/cache"
	"github.com/drund/storedemo/internal/config"
	"github.com/drund/storedemo/internal/logger"
	"github.com/drund/storedemo/internal/state"
	"github.com/drund/storedemo/internal/store"
)

// initConfigAndLogger 初始化配置和日志器
func initConfigAndLogger() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %v", err)
	}

	// init logger
	lg, err := logger.New(cfg.App.Env, cfg.Log.Level, cfg.Log.Encoding, cfg.App.Name, cfg.App.Version)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %v", err)
	}

	return cfg, lg, nil
}

// initCache 初始化购物车持久化介质，Redis不可用时降级到内存
func initCache(cfg *config.Config, lg *zap.Logger) cache.Cache {
	switch cfg.Store.Backend {
	case "redis":
		redisAddr := fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port)
		redisCache, err := cache.NewRedisCache(redisAddr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			lg.Sugar().Warnw("failed to connect to Redis, falling back to memory store", "err", err)
			return cache.NewMemoryCache()
		}
		lg.Sugar().Infow("cart store backend ready", "type", "redis", "addr", redisAddr)
		return redisCache
	case "memory":
		lg.Sugar().Infow("cart store backend ready", "type", "memory")
		return cache.NewMemoryCache()
	default:
		lg.Sugar().Infow("cart persistence disabled")
		return cache.NewNullCache()
	}
}

// cartKey 返回购物车存储键。
// 默认使用固定键，购物车跨重启保留；只有显式开启FreshSession时
// 才按会话生成新键，放弃历史购物车。
func cartKey(cfg *config.Config, lg *zap.Logger) string {
	if cfg.Store.CartKey != "" {
		return cfg.Store.CartKey
	}
	if cfg.Store.FreshSession {
		key := fmt.Sprintf("cart:%s", uuid.NewString())
		lg.Sugar().Infow("generated session cart key", "key", key)
		return key
	}
	return store.DefaultCartKey
}

// watchStates 订阅两个状态机并把每次发布的快照打到日志
func watchStates(catalog *state.CatalogMachine, cart *state.CartMachine, lg *zap.Logger) func() {
	catalogCh, cancelCatalog := catalog.Subscribe(8)
	cartCh, cancelCart := cart.Subscribe(8)

	go func() {
		for s := range catalogCh {
			lg.Sugar().Infow("catalog state",
				"phase", s.Phase,
				"products", len(s.Products),
				"loading", s.IsLoading,
				"error", s.Error,
			)
		}
	}()
	go func() {
		for s := range cartCh {
			lg.Sugar().Infow("cart state",
				"items", len(s.Items),
				"subtotal", s.Subtotal.String(),
				"count", s.TotalItemCount,
			)
		}
	}()

	return func() {
		cancelCatalog()
		cancelCart()
	}
}

// main 为应用入口，协调各个组件的初始化和启动
func main() {
	// 1) 加载配置和初始化日志
	cfg, lg, err := initConfigAndLogger()
	if err != nil {
		log.Fatalf("failed to initialize config and logger: %v", err)
	}
	defer lg.Sync()

	// 2) 初始化持久化介质和购物车存储
	cacheInstance := initCache(cfg, lg)
	defer cacheInstance.Close()
	cartStore := store.NewCartStore(cacheInstance, cartKey(cfg, lg), lg)

	// 3) 初始化状态机：购物车从存储恢复，目录客户端指向远端服务
	ctx := context.Background()
	cartMachine := state.NewCartMachine(ctx, cartStore, lg)
	client := api.NewCatalogClient(cfg.Catalog.BaseURL, cfg.Catalog.Timeout, lg)
	catalogMachine := state.NewCatalogMachine(client, lg)

	// 4) 订阅状态并发起首次加载
	stopWatching := watchStates(catalogMachine, cartMachine, lg)
	defer stopWatching()

	lg.Sugar().Infow("loading catalog", "base_url", cfg.Catalog.BaseURL)
	catalogMachine.Initialize(ctx)

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	lg.Sugar().Infow("shutdown signal received")
}
