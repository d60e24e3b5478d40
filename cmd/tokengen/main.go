// Command tokengen mints a session token for a user, signed with the secret
// from USERBASE_JWT_SECRET. Operator tooling for testing authenticated calls.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"accessibledn/internal/auth"
)

func main() {
	username := flag.String("username", "", "username to embed in the token")
	email := flag.String("email", "", "email to embed in the token")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	if *username == "" || *email == "" {
		fmt.Fprintln(os.Stderr, "usage: tokengen -username <name> -email <addr> [-ttl 24h]")
		os.Exit(2)
	}

	creds, err := auth.NewManager(os.Getenv("USERBASE_JWT_SECRET"), *ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tokengen: %v\n", err)
		os.Exit(1)
	}

	token, err := creds.GenerateSessionToken(*username, *email)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tokengen: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
