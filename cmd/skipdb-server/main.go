// Command skipdb-server runs the JSON-over-HTTP harness in internal/httpapi,
// backed by a single in-process MVCC store.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/corvusdb/skipdb/internal/httpapi"
	"github.com/corvusdb/skipdb/internal/index"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	maxLevel := flag.Int("max-level", index.DefaultMaxLevel, "skip list tower height cap")
	segments := flag.Int("segments", index.DefaultSegments, "lock segment count")
	flag.Parse()

	cfg := httpapi.DefaultConfig()
	cfg.Address = *addr

	engineCfg := index.Config[string]{
		MaxLevel: *maxLevel,
		Segments: *segments,
		KeyOf:    func(k string) []byte { return []byte(k) },
	}

	srv, err := httpapi.NewServer(cfg, engineCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build server: %v\n", err)
		os.Exit(1)
	}

	if err := srv.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to start server: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("skipdb-server listening on %s\n", *addr)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	fmt.Println("shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Stop(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "shutdown error: %v\n", err)
		os.Exit(1)
	}
}
