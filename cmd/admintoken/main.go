package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go-vnpay/pkg/jwtfactory"

	"github.com/go-chi/jwtauth/v5"
)

const adminSecretEnv = "ADMIN_JWT_SECRET"

// Prints a bearer token for the admin review API.
func main() {
	subject := flag.String("sub", "ops", "Token subject")
	ttl := flag.Duration("ttl", 24*time.Hour, "Token lifetime, 0 for no expiry")
	flag.Parse()

	secret, ok := os.LookupEnv(adminSecretEnv)
	if !ok || secret == "" {
		log.Fatalf("%s is not set", adminSecretEnv)
	}

	tokenAuth := jwtauth.New("HS256", []byte(secret), nil)
	token, err := jwtfactory.New(tokenAuth, *ttl).GenerateAdmin(*subject)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(token)
}
