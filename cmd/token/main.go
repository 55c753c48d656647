// Command token mints a signed access token for catalog curation.
//
//	go run ./cmd/token -subject alice -expiry 168h
package main

import (
	"flag"
	"fmt"
	"time"

	"github.com/JoshCrouch/uq-program-planner/config"
	"github.com/JoshCrouch/uq-program-planner/utils/auth"
	"github.com/gofiber/fiber/v2/log"
)

func main() {
	subject := flag.String("subject", "curator", "token subject")
	role := flag.String("role", auth.RoleCurator, "token role")
	expiry := flag.Duration("expiry", 24*time.Hour, "token lifetime")
	flag.Parse()

	if err := config.LoadENV(); err != nil {
		log.Warnf("Failed to load .env: %v", err)
	}
	env, err := config.Get()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if env.JWT_SECRET == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}

	jwtManager := auth.NewJWTManager(auth.JWTConfig{
		Secret: env.JWT_SECRET,
		Expiry: *expiry,
		Issuer: env.JWT_ISSUER,
	})

	token, jti, err := jwtManager.GenerateAccessToken(*subject, *role)
	if err != nil {
		log.Fatalf("Failed to sign token: %v", err)
	}
	log.Infow("Token issued", "subject", *subject, "role", *role, "jti", jti, "expires", time.Now().Add(*expiry).Format(time.RFC3339))
	fmt.Println(token)
}
