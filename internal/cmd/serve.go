package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lakefront/bucketview/internal/config"
	"github.com/lakefront/bucketview/internal/observability"
	"github.com/lakefront/bucketview/internal/server"
	"github.com/lakefront/bucketview/pkg/objects"
	s3store "github.com/lakefront/bucketview/pkg/store/s3"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start the REST API server.

Configuration comes from defaults, an optional config file, and
BUCKETVIEW_-prefixed environment variables. Flags override all of them.

Example:
  bucketview serve
  bucketview serve --config /etc/bucketview/config.yaml
  bucketview serve --port 9090`,
	RunE: runServe,
}

var (
	serveConfigPath string
	serveHost       string
	servePort       int
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveConfigPath, "config", "c", "", "Path to config file")
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Override listen host")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Override listen port")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(serveConfigPath)
	if err != nil {
		return err
	}
	if serveHost != "" {
		cfg.Server.Host = serveHost
	}
	if servePort != 0 {
		cfg.Server.Port = servePort
	}

	log, err := observability.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := s3store.New(ctx, s3store.Config{
		Region:          cfg.S3.Region,
		Endpoint:        cfg.S3.Endpoint,
		Profile:         cfg.S3.Profile,
		AccessKeyID:     cfg.S3.AccessKeyID,
		SecretAccessKey: cfg.S3.SecretAccessKey,
		ForcePathStyle:  cfg.S3.ForcePathStyle,
		MaxKeys:         cfg.S3.MaxKeys,
	})
	if err != nil {
		return fmt.Errorf("connect to storage: %w", err)
	}
	defer func() { _ = st.Close() }()

	svc := objects.NewService(st, log, objects.Config{
		BatchSize: cfg.Objects.BatchSize,
		RateLimit: cfg.Objects.RateLimit,
	})

	srv := server.New(cfg.Server, svc, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info("shutdown signal received")
	}

	if err := srv.Shutdown(context.Background()); err != nil {
		log.Error("shutdown failed", zap.Error(err))
		return err
	}

	return <-errCh
}
