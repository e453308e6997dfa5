// Package account implements the sign-up/sign-in/sign-out commands of
// the coursedeck CLI.
package account

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/jrsteele09/coursedeck/client"
	clientcli "github.com/jrsteele09/coursedeck/client/cli"
	"github.com/jrsteele09/coursedeck/client/session"
	"github.com/jrsteele09/coursedeck/internal/config"
)

func Cmd() *cli.Command {
	return &cli.Command{
		Name:  "account",
		Usage: "Sign up, sign in, and inspect your account",
		Subcommands: []*cli.Command{
			signupCmd(),
			signinCmd(),
			signoutCmd(),
			whoamiCmd(),
		},
	}
}

func signupCmd() *cli.Command {
	return &cli.Command{
		Name:  "signup",
		Usage: "Create a new account",
		Action: func(c *cli.Context) error {
			return withSession(c.Context, func(ctx context.Context, cfg *config.Client, store *session.Store) error {
				reader := bufio.NewReader(os.Stdin)
				name, err := clientcli.GetSimpleText(reader, "Name", os.Stdout)
				if err != nil {
					return err
				}
				email, err := clientcli.GetSimpleText(reader, "Email", os.Stdout)
				if err != nil {
					return err
				}
				password, err := clientcli.GetPassword("Password", os.Stdout)
				if err != nil {
					return err
				}

				api := client.New(cfg.ServerURL)
				token, err := api.Register(ctx, name, email, password)
				if err != nil {
					return fmt.Errorf("sign up failed: %w", err)
				}
				if err := saveSession(ctx, store, token, name); err != nil {
					return err
				}
				fmt.Println("Account created, you are signed in.")
				return nil
			})
		},
	}
}

func signinCmd() *cli.Command {
	return &cli.Command{
		Name:  "signin",
		Usage: "Sign in with an existing account",
		Action: func(c *cli.Context) error {
			return withSession(c.Context, func(ctx context.Context, cfg *config.Client, store *session.Store) error {
				reader := bufio.NewReader(os.Stdin)
				email, err := clientcli.GetSimpleText(reader, "Email", os.Stdout)
				if err != nil {
					return err
				}
				password, err := clientcli.GetPassword("Password", os.Stdout)
				if err != nil {
					return err
				}

				api := client.New(cfg.ServerURL)
				token, err := api.Login(ctx, email, password)
				if err != nil {
					return fmt.Errorf("sign in failed: %w", err)
				}

				// The token encodes the subject id only; ask the server
				// for the display name we persist alongside it.
				profile, err := api.Me(ctx, token)
				if err != nil {
					return fmt.Errorf("fetch profile: %w", err)
				}
				if err := saveSession(ctx, store, token, profile.Name); err != nil {
					return err
				}
				fmt.Printf("Signed in as %s.\n", profile.Name)
				return nil
			})
		},
	}
}

func signoutCmd() *cli.Command {
	return &cli.Command{
		Name:  "signout",
		Usage: "Clear the stored session",
		Action: func(c *cli.Context) error {
			return withSession(c.Context, func(ctx context.Context, cfg *config.Client, store *session.Store) error {
				if err := store.Clear(ctx); err != nil {
					return err
				}
				fmt.Println("Signed out.")
				return nil
			})
		},
	}
}

func whoamiCmd() *cli.Command {
	return &cli.Command{
		Name:  "whoami",
		Usage: "Show the signed-in account",
		Action: func(c *cli.Context) error {
			return withSession(c.Context, func(ctx context.Context, cfg *config.Client, store *session.Store) error {
				token, err := store.Get(ctx, session.KeyUserToken)
				if err != nil {
					return err
				}
				if token == "" {
					fmt.Println("Not signed in.")
					return nil
				}

				api := client.New(cfg.ServerURL)
				profile, err := api.Me(ctx, token)
				if err != nil {
					return fmt.Errorf("session invalid or expired, sign in again: %w", err)
				}
				fmt.Printf("%s <%s>\n", profile.Name, profile.Email)
				return nil
			})
		},
	}
}

func withSession(ctx context.Context, fn func(context.Context, *config.Client, *session.Store) error) error {
	cfg, err := config.LoadClient()
	if err != nil {
		return err
	}
	dsn, err := cfg.SessionDSN()
	if err != nil {
		return err
	}
	store, err := session.Open(ctx, dsn)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(ctx, cfg, store)
}

func saveSession(ctx context.Context, store *session.Store, token, name string) error {
	if err := store.Set(ctx, session.KeyUserToken, token); err != nil {
		return err
	}
	return store.Set(ctx, session.KeyUsername, name)
}
