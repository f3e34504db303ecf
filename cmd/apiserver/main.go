package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/amoylab/hireloop/internal/apiserver"
	"github.com/amoylab/hireloop/internal/apiserver/cache"
	"github.com/amoylab/hireloop/internal/apiserver/database"
	"github.com/amoylab/hireloop/internal/apiserver/identity"
	"github.com/amoylab/hireloop/internal/auth/jwt"
	"github.com/amoylab/hireloop/internal/common/cnst"
	"github.com/amoylab/hireloop/internal/common/config"
	"github.com/amoylab/hireloop/pkg/logger"
	"github.com/amoylab/hireloop/pkg/metrics"
	"github.com/amoylab/hireloop/pkg/trace"
	"github.com/amoylab/hireloop/pkg/version"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configPath string

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of apiserver",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("apiserver version %s\n", version.Get())
		},
	}

	migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Migrate the schema and bootstrap the default tenant and super-admins",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, lg, err := setup()
			if err != nil {
				return err
			}
			defer func() { _ = lg.Sync() }()

			db, err := database.NewDatabase(&cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			tenant, err := db.Bootstrap(cmd.Context(), cfg.SuperAdmin.Emails)
			if err != nil {
				return err
			}
			lg.Info("database ready",
				zap.String("default_tenant", tenant.Slug),
				zap.Int("super_admins", len(cfg.SuperAdmin.Emails)))
			return nil
		},
	}

	tokenCmd = &cobra.Command{
		Use:   "token <email>",
		Short: "Issue an access token for an existing user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := setup()
			if err != nil {
				return err
			}
			db, err := database.NewDatabase(&cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			user, err := db.GetUserByEmail(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			svc, err := jwt.NewService(cfg.JWT)
			if err != nil {
				return err
			}
			tok, err := svc.GenerateToken(user.ID, user.Email)
			if err != nil {
				return err
			}
			fmt.Println(tok)
			return nil
		},
	}

	rootCmd = &cobra.Command{
		Use:   "apiserver",
		Short: "hireloop API server",
		Long:  `apiserver serves the tenant-scoped recruiting and scoring API`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context())
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "conf", "c", cnst.ApiServerYaml, "path to configuration file")
	rootCmd.AddCommand(versionCmd, migrateCmd, tokenCmd)
}

func setup() (*config.APIServerConfig, *zap.Logger, error) {
	cfg, cfgPath, err := config.LoadConfig[config.APIServerConfig](configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration from %s: %w", cfgPath, err)
	}
	lg, err := logger.NewLogger(&cfg.Logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	lg.Info("configuration loaded", zap.String("path", cfgPath))
	return cfg, lg, nil
}

func run(ctx context.Context) error {
	cfg, lg, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = lg.Sync() }()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := trace.InitTracing(ctx, &cfg.Tracing, lg)
	if err != nil {
		return fmt.Errorf("failed to init tracing: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			lg.Warn("failed to flush traces", zap.Error(err))
		}
	}()

	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()
	if _, err := db.Bootstrap(ctx, cfg.SuperAdmin.Emails); err != nil {
		return fmt.Errorf("failed to bootstrap database: %w", err)
	}

	var membershipCache *cache.MembershipCache
	if cfg.Redis.Enabled {
		rdb, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer rdb.Close()
		membershipCache = cache.NewMembershipCache(rdb, cfg.Redis, lg)
		lg.Info("membership cache enabled", zap.String("addr", cfg.Redis.Addr), zap.Duration("ttl", cfg.Redis.TTL))
	}

	jwtSvc, err := jwt.NewService(cfg.JWT)
	if err != nil {
		return fmt.Errorf("invalid jwt configuration: %w", err)
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New(cfg.Metrics)
	}

	gin.SetMode(gin.ReleaseMode)
	router := apiserver.NewRouter(apiserver.Deps{
		Config:   cfg,
		DB:       db,
		JWT:      jwtSvc,
		Identity: identity.NewProvider(db, membershipCache, lg),
		Metrics:  m,
		Logger:   lg,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		lg.Info("starting apiserver", zap.String("version", version.Get()), zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	lg.Info("shutting down apiserver")
	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(sctx)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}
