package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"sharehope/pkg/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/k0kubun/pp/v3"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

const redacted = "[redacted]"

var configCommand = &cli.Command{
	Name:  "config",
	Usage: "Print the resolved configuration with secrets redacted",
	Action: func(c *cli.Context) error {
		cfg, err := loadConfig(c.String("env-prefix"))
		if err != nil {
			return err
		}

		printer := pp.New()
		printer.SetOutput(os.Stdout)
		printer.SetColoringEnabled(false)
		printer.Println(redactConfig(*cfg))

		return nil
	},
}

func loadConfig(prefix string) (*types.Config, error) {
	c := new(types.Config)
	if err := envconfig.Process(prefix, c); err != nil {
		return nil, fmt.Errorf("process environment config: %w", err)
	}

	if err := validateConfig(c); err != nil {
		return nil, err
	}

	return c, nil
}

func validateConfig(c *types.Config) error {
	if c.DatabaseURL == "" && c.DatabaseName == "" {
		return errors.New("set DATABASE_URL or DATABASE_NAME")
	}

	if c.ServerPort == 0 {
		c.ServerPort = 8080
	}

	if c.ReadTimeoutSec == 0 {
		c.ReadTimeoutSec = 10
	}

	if c.WriteTimeoutSec == 0 {
		c.WriteTimeoutSec = 15
	}

	return nil
}

// validateServeConfig adds the checks that only matter for the API server.
func validateServeConfig(c *types.Config) error {
	if c.JWTAccessSecret == "" {
		return errors.New("set JWT_ACCESS_SECRET")
	}
	return nil
}

func redactConfig(c types.Config) types.Config {
	for _, secret := range []*string{
		&c.DatabasePassword,
		&c.JWTAccessSecret,
		&c.JWTRefreshSecret,
		&c.CookieHashKey,
		&c.CookieBlockKey,
	} {
		if *secret != "" {
			*secret = redacted
		}
	}

	if c.DatabaseURL != "" {
		c.DatabaseURL = redactURL(c.DatabaseURL)
	}

	return c
}

// redactURL hides the password in user:password@host style URLs.
func redactURL(raw string) string {
	at := strings.LastIndex(raw, "@")
	if at < 0 {
		return raw
	}

	userinfo := raw[:at]
	start := strings.Index(userinfo, "://") + len("://")
	if start < len("://") {
		start = 0
	}

	colon := strings.Index(userinfo[start:], ":")
	if colon < 0 {
		return raw
	}

	return userinfo[:start+colon+1] + redacted + raw[at:]
}

func newLogger(c *types.Config) *logrus.Logger {
	logger := logrus.New()

	if c.IsDevelopment() {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		logger.WithField("level", c.LogLevel).Warn("unknown log level, using info")
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	return logger
}

func loadAWSConfig(ctx context.Context) (aws.Config, error) {
	config, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load aws config: %w", err)
	}

	return config, nil
}
