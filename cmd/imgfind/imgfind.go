package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/aldor007/imgfind/pkg/config"
	"github.com/aldor007/imgfind/pkg/monitoring"
	"github.com/aldor007/imgfind/pkg/processor"
	"github.com/aldor007/imgfind/pkg/server"
	"github.com/aldor007/imgfind/pkg/source"
)

const (
	// Version of imgfind
	Version = "0.1.0"
	// BANNER just fancy command line banner
	BANNER = `
 _                 ___ _         _
(_)_ __  __ _     / __(_)_ _  __| |
| | '  \/ _' |   | _|| | ' \/ _' |
|_|_|_|_\__, |   |_| |_|_||_\__,_|
        |___/
 Version: %s
`
	shutdownTimeout = 10 * time.Second
)

func main() {
	configPath := flag.String("config", "configuration/config.yml", "Path to configuration")
	flag.Parse()

	fmt.Printf(BANNER, "v"+Version)
	fmt.Printf("Config file %s\n", *configPath)

	imgConfig := &config.Config{}
	if err := imgConfig.Load(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "Unable to load config err = %s\n", err)
		os.Exit(1)
	}

	logger, err := monitoring.NewLogger(imgConfig.Server.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	zap.ReplaceGlobals(logger)
	monitoring.RegisterLogger(logger)
	defer logger.Sync() // flushes buffer, if any

	reporter := monitoring.NewPrometheusReporter()
	if err := reporter.RegisterServiceMetrics(); err != nil {
		monitoring.Log().Fatal("Unable to register metrics", zap.Error(err))
	}
	monitoring.RegisterReporter(reporter)

	sources, err := source.Open(imgConfig)
	if err != nil {
		monitoring.Log().Fatal("Unable to open image sources", zap.Error(err))
	}
	defer source.CloseAll(sources)

	rp := processor.NewRequestProcessor(imgConfig, sources)
	for _, name := range rp.Collections() {
		monitoring.Log().Info("Serving collection", zap.String("collection", name),
			zap.String("kind", sources[name].Kind()), zap.Strings("roots", sources[name].Roots()))
	}

	servers := []*http.Server{
		{
			Addr:         imgConfig.Server.Listen,
			ReadTimeout:  imgConfig.Server.ReadTimeout,
			WriteTimeout: imgConfig.Server.WriteTimeout,
			Handler:      server.NewRouter(imgConfig, rp),
		},
		{
			Addr:         imgConfig.Server.InternalListen,
			ReadTimeout:  imgConfig.Server.ReadTimeout,
			WriteTimeout: imgConfig.Server.WriteTimeout,
			Handler:      server.NewInternalRouter(rp),
		},
	}

	for _, s := range servers {
		go func(s *http.Server) {
			monitoring.Log().Info("Listening", zap.String("addr", s.Addr))
			if err := s.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				monitoring.Log().Fatal("Unable to start server", zap.String("addr", s.Addr), zap.Error(err))
			}
		}(s)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	monitoring.Log().Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	for _, s := range servers {
		if err := s.Shutdown(ctx); err != nil {
			monitoring.Log().Error("Server forced to shutdown", zap.String("addr", s.Addr), zap.Error(err))
		}
	}
}
