// issue-token は管理API用のトークンを発行する。
//
//	go run ./cmd/issue-token -sub alice -ttl 1h
//	go run ./cmd/issue-token -sub audit01 -role AUDITOR
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"pos/internal/middleware"

	"github.com/joho/godotenv"
)

func main() {
	sub := flag.String("sub", "admin", "actor name stored in audit logs")
	ttl := flag.Duration("ttl", time.Hour, "token lifetime")
	role := flag.String("role", middleware.RoleAdmin, "ADMIN or AUDITOR")
	flag.Parse()

	_ = godotenv.Load()
	if *role != middleware.RoleAdmin && *role != middleware.RoleAuditor {
		fmt.Fprintf(os.Stderr, "unknown role %q\n", *role)
		os.Exit(2)
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		fmt.Fprintln(os.Stderr, "JWT_SECRET is required")
		os.Exit(1)
	}

	tok, err := middleware.IssueToken(secret, *sub, *role, *ttl, time.Now())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(tok)
}
