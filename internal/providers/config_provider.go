package providers

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"pagebot/internal/structures"
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	filename := filepath.Base(flags.ConfigPath)
	viper.AddConfigPath(filepath.Dir(flags.ConfigPath))
	viper.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	viper.SetConfigType("yaml")

	viper.BindEnv("bot.token", "PAGEBOT_TOKEN")
	viper.BindEnv("bot.apiUrl", "PAGEBOT_API_URL")
	viper.BindEnv("bot.adminChatId", "PAGEBOT_ADMIN_CHAT_ID")
	viper.BindEnv("logger.level", "PAGEBOT_LOG_LEVEL")
	viper.BindEnv("persistence.dataDir", "PAGEBOT_DATA_DIR")
	viper.BindEnv("persistence.saveInterval", "PAGEBOT_SAVE_INTERVAL")
	viper.BindEnv("cache.enabled", "PAGEBOT_CACHE_ENABLED")
	viper.BindEnv("cache.size", "PAGEBOT_CACHE_SIZE")

	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = viper.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "PageBot"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	if conf.Bot.RootPage == "" {
		conf.Bot.RootPage = "main_page"
	}

	return &conf, nil
}
