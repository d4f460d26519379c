// Command makeadmin promotes an existing user to admin by email. It is the
// bootstrap for a fresh deployment: the admin console itself is only
// reachable by admins, so the first one has to be minted from the outside.
//
// Usage: makeadmin [-config config.yaml] <email>
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"nirvana-heritage/internal/config"
	"nirvana-heritage/internal/database"
	"nirvana-heritage/internal/store"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx := context.Background()
	users, err := openDirectory(ctx, cfg)
	if err != nil {
		log.Fatalf("open user directory: %v", err)
	}

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: makeadmin [-config config.yaml] <email>")
		listUsers(ctx, users)
		os.Exit(2)
	}
	email := flag.Arg(0)

	user, err := store.PromoteByEmail(ctx, users, email)
	switch {
	case errors.Is(err, store.ErrNotFound):
		fmt.Printf("No user with email %q.\n", email)
		listUsers(ctx, users)
		os.Exit(1)
	case errors.Is(err, store.ErrAlreadyAdmin):
		fmt.Printf("%s (%s) is already an admin.\n", user.Username, user.Email)
	case err != nil:
		log.Fatalf("promote user: %v", err)
	default:
		fmt.Printf("%s (%s) is now an admin.\n", user.Username, user.Email)
	}
}

// openDirectory mirrors the backend selection of the server.
func openDirectory(ctx context.Context, cfg *config.Config) (store.UserDirectory, error) {
	if cfg.Database.Driver == "dynamo" {
		client, err := store.NewDynamoClient(ctx, cfg.Database.Region)
		if err != nil {
			return nil, err
		}
		return store.NewDynamoUserDirectory(client, cfg.Database.UsersTable), nil
	}

	db, err := database.Init(cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(db); err != nil {
		return nil, err
	}
	return store.NewGormUserDirectory(db), nil
}

func listUsers(ctx context.Context, users store.UserDirectory) {
	all, err := users.List(ctx)
	if err != nil {
		log.Printf("list users: %v", err)
		return
	}
	if len(all) == 0 {
		fmt.Println("No users exist yet; create an account first.")
		return
	}
	fmt.Println("Known users:")
	for _, u := range all {
		role := "user"
		if u.IsAdmin {
			role = "admin"
		}
		fmt.Printf("  %s (%s) - %s\n", u.Username, u.Email, role)
	}
}
