package main

import (
	"context"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"
	"github.com/xplshn/tracerr2"

	"tinyhttpd/config"
	"tinyhttpd/fileserver"
	"tinyhttpd/logger"
	"tinyhttpd/server"
)

// main parses the command line and runs the server until SIGINT or SIGTERM
func main() {
	app := &cli.Command{
		Name:   "tinyhttpd",
		Usage:  "Serve static files over a minimal HTTP/1.1",
		Flags:  appFlags(),
		Action: run,
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if e, ok := err.(*tracerr.Error); ok {
			e.Print()
		} else {
			log.Printf("tinyhttpd failed: %v", err)
		}
		os.Exit(1)
	}
}

func appFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "config", Value: "tinyhttpd.yaml", Usage: "Path to config file (.yaml or .toml), created with defaults if missing"},
		&cli.StringFlag{Name: "root", Usage: "Directory to serve files from (default \"" + config.DefaultRoot + "\")"},
		&cli.StringFlag{Name: "listen", Usage: "Address to listen on (default \"" + config.DefaultListen + "\")"},
		&cli.IntFlag{Name: "workers", Usage: "Connections served in parallel (default 1)"},
		&cli.StringFlag{Name: "log-dir", Usage: "Directory for tinyhttpd.log, empty for stdout only"},
	}
}

// applyFlags returns cfg with every flag given on the command line applied
func applyFlags(cfg config.Config, cmd *cli.Command) config.Config {
	if cmd.IsSet("root") {
		cfg.Root = cmd.String("root")
	}
	if cmd.IsSet("listen") {
		cfg.Listen = cmd.String("listen")
	}
	if cmd.IsSet("workers") {
		cfg.Workers = int(cmd.Int("workers"))
	}
	if cmd.IsSet("log-dir") {
		cfg.LogDir = cmd.String("log-dir")
	}
	return cfg
}

func run(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")
	fileConfig, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}

	cfg := applyFlags(*fileConfig, cmd)
	if err := cfg.Validate(); err != nil {
		return tracerr.Wrapf(err, "invalid settings")
	}

	if err := logger.InitLogger(cfg.LogDir); err != nil {
		return err
	}
	defer logger.Close()
	log := logger.Logger

	if info, err := os.Stat(cfg.Root); err != nil || !info.IsDir() {
		log.Printf("Warning: root %q is not a readable directory, every request will fail", cfg.Root)
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	limiter := server.NewLimiter(cfg.RateLimit, cfg.RateBurst)
	srv := &server.Server{
		Handler:      fileserver.NewHandler(fileserver.NewResolver(cfg.Root), log),
		Workers:      cfg.Workers,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		Limiter:      limiter,
		Logger:       log,
	}

	go func() {
		err := config.Watch(ctx, configPath, fileConfig, func(oldConfig, newConfig *config.Config) {
			log.Println("Config file changed, reloading...")
			for _, change := range config.Changes(oldConfig, newConfig) {
				log.Println(change)
			}
			limiter.SetLimit(newConfig.RateLimit, newConfig.RateBurst)
			if config.NeedsRestart(oldConfig, newConfig) {
				log.Println("Restart tinyhttpd to apply changes other than rate_limit and rate_burst")
			}
		}, func(err error) {
			log.Println("Error reloading config:", err)
		})
		if err != nil {
			log.Println("Config watcher stopped:", err)
		}
	}()

	ln, err := net.Listen("tcp", cfg.Listen)
	if err != nil {
		return tracerr.Wrapf(err, "could not bind %s", cfg.Listen)
	}
	log.Printf("Serving content from %q on http://%s", cfg.Root, ln.Addr())

	if err := srv.Serve(ctx, ln); err != nil {
		return tracerr.Wrapf(err, "server stopped")
	}
	log.Println("Shutting down...")
	return nil
}
