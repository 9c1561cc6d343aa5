// FilePath: server/apiary/cmd/main.go
package main

import (
	"fmt"
	"log"
	"os"

	tm "github.com/buger/goterm"
	"github.com/itsatony/w4b_v3/server/apiary/internal/config"
	"github.com/itsatony/w4b_v3/server/apiary/internal/server"
	nuts "github.com/vaudience/go-nuts"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	// Clear console and draw logo
	ClearConsole()
	DrawLogo()
	// Initialize version info
	nuts.InitVersion()
	nuts.L.Infof("[Main] Starting Apiary Server v%s", nuts.GetVersion())

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	for _, warning := range startupChecks(cfg) {
		nuts.L.Warnf("[Main] %s", warning)
	}
	t := cfg.Ingest.Thresholds
	nuts.L.Infof("[Main] Store %s, auth %s, sensor selection %s", cfg.Database.Driver, cfg.Auth.Mode, cfg.Ingest.SensorSelection)
	nuts.L.Infof("[Main] Critical outside temp %.1f..%.1f, humidity %.1f..%.1f, weight %.1f..%.1f",
		t.TemperatureMin, t.TemperatureMax, t.HumidityMin, t.HumidityMax, t.WeightMin, t.WeightMax)

	// Create and start server
	srv := server.New(cfg)
	if err := srv.Start(); err != nil {
		nuts.L.Errorf("[Main] Server error: %v", err)
		os.Exit(1)
	}
}

// startupChecks lists settings that load fine but are risky to run with.
func startupChecks(cfg *config.Config) []string {
	var warnings []string
	if cfg.Database.Driver == "memory" {
		warnings = append(warnings, "database.driver is memory, nothing survives a restart")
	}
	if cfg.Database.Driver == "postgres" && !cfg.Database.AutoMigrate {
		warnings = append(warnings, "database.auto_migrate is off, the schema must already exist")
	}
	if cfg.Auth.Mode == "keycloak" && cfg.Auth.Keycloak.ClientSecret == "" {
		warnings = append(warnings, "auth.keycloak.client_secret is empty, token introspection will fail")
	}
	if cfg.Auth.BcryptCost < bcrypt.DefaultCost {
		warnings = append(warnings, fmt.Sprintf("auth.bcrypt_cost %d is below the default of %d", cfg.Auth.BcryptCost, bcrypt.DefaultCost))
	}
	if !cfg.Redis.Enabled {
		warnings = append(warnings, "redis is disabled, critical alerts are not published to a stream")
	}
	if !cfg.Monitoring.MetricsEnabled {
		warnings = append(warnings, "metrics are disabled")
	}
	return warnings
}

// ClearConsole clears the console screen and draws the logo.
func ClearConsole() {
	tm.Clear()
	tm.MoveCursor(1, 1)
	tm.Flush()
}

func DrawLogo() {
	fmt.Println()
	lines := []string{
		"    ___          _                  ",
		"   /   |  ____  (_)___ ________  __ ",
		"  / /| | / __ \\/ / __ `/ ___/ / / / ",
		" / ___ |/ /_/ / / /_/ / /  / /_/ /  ",
		"/_/  |_/ .___/_/\\__,_/_/   \\__, /   ",
		"      /_/                 /____/    ",
		"..........................................  " + nuts.GetVersion(),
	}

	for _, line := range lines {
		fmt.Println(line)
	}
}
