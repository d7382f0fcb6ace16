package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"runtime"

	"github.com/kud/referrals/internal/board"
)

type ExecuteTemplateFunc func(wr io.Writer, name string, data any) error

type Options struct {
	RateLimitPerMinute int
	CORSAllowedOrigins []string
}

type Server struct {
	version   string
	port      string
	server    *http.Server
	assets    http.FileSystem
	tmplFunc  ExecuteTemplateFunc
	referrals board.Source
	opts      Options
}

func NewServer(version string, port string, assets http.FileSystem, tmplFunc ExecuteTemplateFunc, referrals board.Source, opts Options) *Server {
	if opts.RateLimitPerMinute <= 0 {
		opts.RateLimitPerMinute = 500
	}
	if len(opts.CORSAllowedOrigins) == 0 {
		opts.CORSAllowedOrigins = []string{"*"}
	}

	s := &Server{
		version:   version,
		port:      port,
		assets:    assets,
		tmplFunc:  tmplFunc,
		referrals: referrals,
		opts:      opts,
	}

	s.server = &http.Server{
		Addr:    ":" + port,
		Handler: s.Routes(),
	}

	return s
}

func (s *Server) Start() {
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		panic(err)
	}
}

func (s *Server) Close() {
	if err := s.server.Close(); err != nil {
		panic(err)
	}
}

func FormatBuildVersion(version string) string {
	return fmt.Sprintf("Go Version: %s\nVersion: %s\nOS/Arch: %s/%s", runtime.Version(), version, runtime.GOOS, runtime.GOARCH)
}
