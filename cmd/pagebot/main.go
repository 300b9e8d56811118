package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"pagebot/internal/di"
	"pagebot/internal/structures"
)

func main() {
	flags := &structures.CliFlags{}
	flag.StringVar(&flags.ConfigPath, "config", "./config.yaml", "path to the config file")
	flag.BoolVar(&flags.DebugMode, "debug", false, "enable debug logging")
	flag.Parse()

	// .env is optional; the config provider reads PAGEBOT_* variables either way.
	_ = godotenv.Load()

	if _, err := di.InitApp(flags); err != nil {
		fmt.Fprintf(os.Stderr, "pagebot: %v\n", err)
		os.Exit(1)
	}
}
