package main

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/kud/referrals/internal/board"
	"github.com/kud/referrals/internal/config"
	"github.com/kud/referrals/internal/gateway"
	"github.com/kud/referrals/server"
)

var (
	version = "dev"
)

//go:embed templates/*.html
var templatesFiles embed.FS

//go:embed static/*
var staticFiles embed.FS

func main() {

	var (
		tmplFunc server.ExecuteTemplateFunc
		assets   http.FileSystem
	)

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Errorf("failed to load configuration: %w", err))
	}
	slog.SetDefault(cfg.Logger())

	tmpl, err := template.New("").Funcs(template.FuncMap{
		"category": board.DisplayCategory,
	}).ParseFS(templatesFiles, "templates/*.html")
	if err != nil {
		panic(fmt.Errorf("failed to parse templates: %w", err))
	}
	tmplFunc = tmpl.ExecuteTemplate
	assets = http.FS(staticFiles)
	if _, err := fs.Stat(staticFiles, "static/board.js"); err != nil {
		panic(fmt.Errorf("missing static assets: %w", err))
	}

	source := gateway.NewNotionSource(gateway.NewNotionClient(cfg.NotionAPIKey))
	referrals := gateway.New(gateway.Config{
		APIKey:      cfg.NotionAPIKey,
		DatabaseID:  cfg.NotionDatabaseID,
		Concurrency: cfg.FetchConcurrency,
	}, source, gateway.WithRevalidate(cfg.RevalidateInterval))

	srv := server.NewServer(version, cfg.Port, assets, tmplFunc, referrals, server.Options{
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	go srv.Start()
	defer srv.Close()

	slog.Info("Started server", slog.String("listen_addr", ":"+cfg.Port), slog.String("version", version))
	si := make(chan os.Signal, 1)
	signal.Notify(si, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-si
	slog.Info("Shutting down server")
}
