package main

import (
	"fmt"
	"log"

	corecmd "github.com/m3rciful/wishbot/core/cmd"
	"github.com/m3rciful/wishbot/internal/bot"
)

func main() {
	err := corecmd.Run(corecmd.Options{
		ConfigEnvVar:      "CONFIG_PATH",
		DefaultConfigPath: "config.yaml",
		LoadConfig: func(path string) (corecmd.ConfigCarrier, error) {
			return bot.LoadConfig(path)
		},
		Bootstrap: func(cfg corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
			appCfg, ok := cfg.(*bot.AppConfig)
			if !ok {
				return nil, fmt.Errorf("unexpected config type %T", cfg)
			}
			return bot.New(appCfg)
		},
	})
	if err != nil {
		log.Fatalf("wishbot: %v", err)
	}
}
