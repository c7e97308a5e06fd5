package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/shpitdev/lumina/internal/mockcatalog"
)

func main() {
	addr := defaultString("MOCK_CATALOG_ADDR", ":8090")
	reply := defaultString("MOCK_CATALOG_REPLY", "")
	apiKey := defaultString("MOCK_CATALOG_API_KEY", "")

	fs := flag.NewFlagSet("mock-catalog", flag.ExitOnError)
	fs.StringVar(&addr, "addr", addr, "Listen address (env: MOCK_CATALOG_ADDR)")
	fs.StringVar(&reply, "reply", reply, "Fixed generateContent reply text instead of the built-in shelf (env: MOCK_CATALOG_REPLY)")
	fs.StringVar(&apiKey, "api-key", apiKey, "Reject other Google Books keys with 403 (env: MOCK_CATALOG_API_KEY)")
	_ = fs.Parse(os.Args[1:])

	srv := mockcatalog.New(mockcatalog.DefaultShelf()...)
	srv.SetReply(reply)
	srv.RequireAPIKey(apiKey)

	base := "http://localhost" + addr
	if !strings.HasPrefix(addr, ":") {
		base = "http://" + addr
	}
	_, _ = fmt.Fprintf(os.Stdout, "mock-catalog listening on %s\n", addr)
	_, _ = fmt.Fprintf(os.Stdout, "  GEMINI_BASE_URL=%s\n", base)
	_, _ = fmt.Fprintf(os.Stdout, "  LUMINA_CATALOG_GOOGLE_BOOKS_URL=%s%s\n", base, mockcatalog.VolumesPath)
	_, _ = fmt.Fprintf(os.Stdout, "  LUMINA_CATALOG_OPENLIBRARY_SEARCH_URL=%s%s\n", base, mockcatalog.SearchPath)

	hs := &http.Server{Addr: addr, Handler: srv.Handler(), ReadHeaderTimeout: 10 * time.Second}
	if err := hs.ListenAndServe(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

func defaultString(envVar string, fallback string) string {
	v := strings.TrimSpace(os.Getenv(envVar))
	if v == "" {
		return fallback
	}
	return v
}
