package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Debug    bool
	TestMode bool
	Env      string // DEV (default), TEST, QA, PROD
	AppName  string
	Build    string

	// APIBaseURL is the single backend origin all requests go to.
	APIBaseURL string

	// TokenFile is where the session bearer token is persisted between runs.
	TokenFile string

	QuizDuration time.Duration
	RevealDelay  time.Duration

	// Dev stub server settings.
	ServerAddr string
	SecretKey  []byte

	RollbarToken string
}

var Conf *Config

func init() {
	conf := viper.New()

	// defaults
	conf.SetTypeByDefaultValue(true)
	conf.SetDefault("debug", true)
	conf.SetDefault("appName", "LlamaLearn")
	conf.SetDefault("apiBaseURL", "http://localhost:8000")
	conf.SetDefault("tokenFile", defaultTokenFile())
	conf.SetDefault("quizDuration", 300*time.Second)
	conf.SetDefault("revealDelay", time.Second)
	conf.SetDefault("serverAddr", ":8000")
	conf.SetDefault("secretKey", "poq5-wer)enb$+57=dz&uoxh2(h!x)#*c2(#yg4h^$cegm2emy")
	conf.SetDefault("rollbarToken", "")
	conf.SetDefault("build", "dev")

	env := os.Getenv("ENV") // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		conf.SetDefault("testMode", true)
	case "QA", "PROD":
		conf.SetDefault("debug", false)
	}
	conf.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	conf.AutomaticEnv()

	Conf = &Config{
		Debug:        conf.GetBool("debug"),
		TestMode:     conf.GetBool("testMode"),
		Env:          env,
		AppName:      conf.GetString("appName"),
		Build:        conf.GetString("build"),
		APIBaseURL:   strings.TrimRight(conf.GetString("apiBaseURL"), "/"),
		TokenFile:    conf.GetString("tokenFile"),
		QuizDuration: conf.GetDuration("quizDuration"),
		RevealDelay:  conf.GetDuration("revealDelay"),
		ServerAddr:   conf.GetString("serverAddr"),
		SecretKey:    []byte(conf.GetString("secretKey")),
		RollbarToken: conf.GetString("rollbarToken"),
	}
}

func defaultTokenFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		home, herr := os.UserHomeDir()
		if herr != nil {
			return ".llamalearn-token"
		}
		return filepath.Join(home, ".llamalearn-token")
	}
	return filepath.Join(dir, "llamalearn", "token")
}
