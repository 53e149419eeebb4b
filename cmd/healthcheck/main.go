package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/fatih/color"
)

// Small operational probe against a running instance. Exits non-zero when
// the service reports anything but healthy.
func main() {
	baseURL := os.Getenv("HEALTHCHECK_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		color.Red("✗ Service unreachable: %v", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	var body struct {
		Data struct {
			Status string            `json:"status"`
			Checks map[string]string `json:"checks"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		color.Red("✗ Unreadable health response: %v", err)
		os.Exit(1)
	}

	for name, state := range body.Data.Checks {
		if state == "ok" {
			color.Green("  ✓ %s", name)
		} else {
			color.Yellow("  ! %s: %s", name, state)
		}
	}

	if body.Data.Status == "healthy" {
		color.Green("✓ Service is healthy")
		return
	}

	color.Red("✗ Service is %s", body.Data.Status)
	fmt.Println()
	os.Exit(1)
}
