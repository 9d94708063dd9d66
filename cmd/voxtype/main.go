package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/voxtype/voxtype/internal/app"
	"github.com/voxtype/voxtype/internal/config"
	"github.com/voxtype/voxtype/internal/metrics"
)

const version = "v0.3.0"

func main() {
	var (
		resetKey       = flag.Bool("reset-key", false, "Reset/reconfigure AssemblyAI API key")
		showConfig     = flag.Bool("show-config", false, "Show current configuration location and contents")
		showVersion    = flag.Bool("version", false, "Show current version")
		showStats      = flag.Bool("stats", false, "Show usage statistics")
		resetStats     = flag.Bool("reset-stats", false, "Clear all usage statistics")
		setTypingSpeed = flag.String("set-typing-speed", "", "Set your typing speed in words per minute (e.g., --set-typing-speed=65)")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("voxtype %s\n", version)
		return
	}

	if *showConfig {
		handleShowConfig()
		return
	}

	if *showStats {
		handleShowStats()
		return
	}

	if *resetStats {
		handleResetStats()
		return
	}

	if *setTypingSpeed != "" {
		handleSetTypingSpeed(*setTypingSpeed)
		return
	}

	if *resetKey {
		handleResetKey()
	}

	daemon := app.NewDaemon()
	if err := daemon.Initialize(); err != nil {
		log.Fatalf("Failed to initialize daemon: %v", err)
	}

	if err := daemon.Run(); err != nil {
		log.Fatalf("Daemon error: %v", err)
	}
}

func handleShowConfig() {
	configPath, err := config.GetConfigPath()
	if err != nil {
		fmt.Printf("❌ Error getting config path: %v\n", err)
		os.Exit(1)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		fmt.Println("📝 Config file does not exist yet")
		return
	}

	fmt.Printf("📁 Config file location: %s\n", configPath)
	fmt.Println()
	content, err := os.ReadFile(configPath)
	if err != nil {
		fmt.Printf("❌ Error reading config file: %v\n", err)
		return
	}
	fmt.Println(string(content))
}

func handleResetKey() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("⚠️  Warning: failed to load config: %v\n", err)
		return
	}
	cfg.AssemblyAIKey = ""
	if err := config.SaveConfig(cfg); err != nil {
		fmt.Printf("⚠️  Warning: failed to clear API key: %v\n", err)
		return
	}
	fmt.Println("🔄 API key reset. You'll be prompted for a new one.")
}

func newMetricsManager() *metrics.Manager {
	metricsDir, err := config.GetMetricsDir()
	if err != nil {
		fmt.Printf("❌ Error getting metrics directory: %v\n", err)
		os.Exit(1)
	}
	manager, err := metrics.NewManager(metricsDir)
	if err != nil {
		fmt.Printf("❌ Error initializing metrics: %v\n", err)
		os.Exit(1)
	}
	return manager
}

func handleShowStats() {
	manager := newMetricsManager()

	totals, err := manager.Totals()
	if err != nil {
		fmt.Printf("❌ Error getting statistics: %v\n", err)
		os.Exit(1)
	}
	for _, line := range metrics.FormatTotals(totals, manager.TypingSpeed()) {
		fmt.Println(line)
	}
	fmt.Println("💡 Use --set-typing-speed to refine the time-saved estimate")
}

func handleResetStats() {
	if err := newMetricsManager().ClearAll(); err != nil {
		fmt.Printf("❌ Error clearing statistics: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("🗑️  All usage statistics have been cleared")
}

func handleSetTypingSpeed(speedStr string) {
	speed, err := strconv.Atoi(speedStr)
	if err != nil {
		fmt.Printf("❌ Invalid typing speed: %s (must be a number)\n", speedStr)
		os.Exit(1)
	}
	if speed < 10 || speed > 200 {
		fmt.Printf("❌ Typing speed must be between 10 and 200 WPM (got %d)\n", speed)
		os.Exit(1)
	}
	if err := newMetricsManager().SetTypingSpeed(speed); err != nil {
		fmt.Printf("❌ Error setting typing speed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✅ Typing speed updated to %d WPM\n", speed)
}
