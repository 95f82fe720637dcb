package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fastygo/todo/internal/console"
	"github.com/fastygo/todo/pkg/client"
)

func main() {
	configPath := flag.String("config", "", "path to console.toml (default "+console.DefaultConfigPath()+")")
	apiURL := flag.String("api", "", "todo API base URL, overrides config and "+console.EnvAPIURL)
	flag.Parse()

	cfg, err := console.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config error:", err)
		os.Exit(1)
	}
	if *apiURL != "" {
		cfg.APIURL = *apiURL
		if err := cfg.Validate(); err != nil {
			fmt.Fprintln(os.Stderr, "config error:", err)
			os.Exit(1)
		}
	}

	logger, closer, err := console.NewLogger(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "log error:", err)
		os.Exit(1)
	}
	defer closer.Close()

	api := client.New(cfg.APIURL, client.WithTimeout(cfg.RequestTimeout))
	model := console.NewModel(api, console.Options{
		RequestTimeout: cfg.RequestTimeout,
		ToastDuration:  cfg.ToastDuration,
		Logger:         logger,
	})

	logger.Info("console started", "api", cfg.APIURL)
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		logger.Error("console crashed", "err", err)
		closer.Close()
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
