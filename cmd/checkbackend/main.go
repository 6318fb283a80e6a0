// Command checkbackend performs one GET against the backend root and
// reports reachability. It is a standalone diagnostic, not part of the
// application runtime.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"syscall"
	"time"

	"pianostore/internal/config"
)

func main() {
	cfgPath := flag.String("config", "", "config file (default: ./storefront.yaml)")
	timeout := flag.Duration("timeout", 5*time.Second, "probe timeout")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(2)
	}

	base := strings.TrimRight(cfg.BaseURL, "/") + "/"
	fmt.Printf("Testing backend connection...\nBackend URL: %s\n", base)

	client := &http.Client{Timeout: *timeout}
	resp, err := client.Get(base)
	if err != nil {
		fmt.Println("Backend connection failed!")
		fmt.Printf("Error details: %v\n", err)
		if errors.Is(err, syscall.ECONNREFUSED) {
			fmt.Println()
			fmt.Println("Possible causes:")
			fmt.Println("  - the backend server is not running")
			fmt.Println("  - the backend listens on a different port")
			fmt.Println("  - the baseURL in storefront.yaml is wrong")
		}
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	fmt.Println("Backend is reachable!")
	fmt.Printf("Response status: %d\n", resp.StatusCode)
	if len(body) > 0 {
		fmt.Printf("Response body: %s\n", strings.TrimSpace(string(body)))
	}
}
