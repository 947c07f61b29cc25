// nutrichat is a terminal client for a nutrition advice chat service.
package main

import (
	"fmt"
	"os"

	"github.com/evanmaki/nutrichat/cmd"
	"github.com/evanmaki/nutrichat/config"
	"github.com/evanmaki/nutrichat/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		cfg = config.DefaultConfig()
	}
	configDir, _ := config.ConfigDir()
	if err := logger.Init(cfg.BuildLoggerConfig(), configDir); err != nil {
		fmt.Fprintln(os.Stderr, "logger init error:", err)
	}
	cmd.Execute()
}
