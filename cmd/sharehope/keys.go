package main

import (
	"encoding/base64"
	"fmt"

	"sharehope/internal/utils"

	"github.com/gorilla/securecookie"
	"github.com/urfave/cli/v2"
)

var keysCommand = &cli.Command{
	Name:  "keys",
	Usage: "Generate cookie keys and JWT secrets for a new environment",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:  "secret-size",
			Usage: "Length of the generated JWT secrets",
			Value: 48,
		},
	},
	Action: func(c *cli.Context) error {
		hashKey := securecookie.GenerateRandomKey(64)
		blockKey := securecookie.GenerateRandomKey(32)
		if hashKey == nil || blockKey == nil {
			return fmt.Errorf("failed to read random bytes")
		}

		size := c.Int("secret-size")
		if size < 32 {
			return fmt.Errorf("secret-size must be at least 32")
		}

		access, err := utils.Token(size)
		if err != nil {
			return fmt.Errorf("failed to generate access secret: %w", err)
		}

		refresh, err := utils.Token(size)
		if err != nil {
			return fmt.Errorf("failed to generate refresh secret: %w", err)
		}

		fmt.Printf("COOKIE_HASH_KEY=%s\n", base64.StdEncoding.EncodeToString(hashKey))
		fmt.Printf("COOKIE_BLOCK_KEY=%s\n", base64.StdEncoding.EncodeToString(blockKey))
		fmt.Printf("JWT_ACCESS_SECRET=%s\n", access)
		fmt.Printf("JWT_REFRESH_SECRET=%s\n", refresh)

		return nil
	},
}
