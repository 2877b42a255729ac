package cmd

import (
	"context"
	"log"
	"os"
	"strings"
	"time"

	"github.com/danilofalcao/coder-gateway/internal/backend"
	"github.com/danilofalcao/coder-gateway/internal/backend/llamacpp"
	llamacppconstants "github.com/danilofalcao/coder-gateway/internal/constants/llamacpp"
	"github.com/danilofalcao/coder-gateway/internal/server"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type BackendConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	PadPrompt bool   `mapstructure:"pad_prompt"`
}

type config struct {
	Llamacpp      BackendConfig `mapstructure:"llamacpp"`
	Model         string        `mapstructure:"model"`
	Port          string        `mapstructure:"port"`
	Loglevel      string        `mapstructure:"log_level"`
	Timeout       time.Duration `mapstructure:"timeout"`
	HealthTimeout time.Duration `mapstructure:"health_timeout"`
}

func Run() {
	// A missing .env is normal outside of local development
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: error loading .env file: %v", err)
	}

	cfg, err := loadConfig(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	exitCh := make(chan string, 1)

	svr, err := server.New(ctx, server.Options{
		Port:     cfg.Port,
		Backend:  newBackend(cfg),
		LogLevel: cfg.Loglevel,
		Model:    cfg.Model,
		Timeout:  cfg.Timeout.String(),
		ExitCh:   exitCh,
	})
	if err != nil {
		log.Fatalf("unable to start server %s", err.Error())
	}

	// Start reports its own failures on exitCh through the server logger
	go func() {
		_ = svr.Start()
	}()

	select {
	case s := <-exitCh:
		log.Fatalf("killed with message %s", s)
	case <-ctx.Done():
		log.Fatal("context cancelled")
	}
}

// loadConfig resolves configuration with precedence flags > env > config file
// > defaults. The model label comes from MODEL_PATH.
func loadConfig(args []string) (*config, error) {
	fs := pflag.NewFlagSet("coder-gateway", pflag.ContinueOnError)
	configPath := fs.StringP("config", "c", "", "sets the config file location e.g. $HOME/gateway-config.yaml")
	fs.String("port", "", "port to listen on")
	fs.String("log_level", "", "log level (trace, debug, info, warn, error)")
	if err := fs.Parse(args); err != nil {
		return nil, errors.Wrap(err, "error parsing flags")
	}

	// Same delimiter as the other proxies so keys may contain periods
	v := viper.NewWithOptions(
		viper.KeyDelimiter("#"),
		viper.EnvKeyReplacer(strings.NewReplacer("#", "_")),
	)

	explicit := *configPath != ""
	if explicit {
		v.SetConfigFile(*configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetDefault("port", "8000")
	v.SetDefault("log_level", "info")
	v.SetDefault("timeout", llamacppconstants.DefaultTimeout)
	v.SetDefault("health_timeout", llamacppconstants.DefaultHealthTimeout)
	v.SetDefault("llamacpp#endpoint", llamacppconstants.DefaultEndpoint)
	v.SetDefault("llamacpp#pad_prompt", false)
	v.SetDefault("model", "")

	// only flags that were actually given override lower layers
	fs.Visit(func(f *pflag.Flag) {
		if f.Name != "config" {
			v.Set(f.Name, f.Value.String())
		}
	})

	if err := v.BindEnv("model", "MODEL_PATH"); err != nil {
		return nil, errors.Wrap(err, "error binding MODEL_PATH")
	}
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "error reading config file")
		}
	}

	var cfg config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "error unmarshaling config")
	}
	return &cfg, nil
}

func newBackend(cfg *config) backend.Backend {
	return llamacpp.NewLlamacppBackend(llamacpp.Options{
		Endpoint:      cfg.Llamacpp.Endpoint,
		PadPrompt:     cfg.Llamacpp.PadPrompt,
		Timeout:       cfg.Timeout,
		HealthTimeout: cfg.HealthTimeout,
	})
}
