// Command formctl talks to the item build-up API from a terminal. It keeps the
// session in a bbolt file so consecutive runs share one login.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"itembuildup/pkg/logger"
	"itembuildup/pkg/session"
)

const usage = `usage: formctl [flags] <command> [args]

commands:
  login <employee_id>        sign in (password from -password or FORMCTL_PASSWORD)
  refresh                    mint a new access token from the stored session
  users                      list users
  nav <userType>             show the navigation menu for an account type
  companies                  list companies
  options [name]             list item form dropdown options
  items [state]              list item build-up records (Ongoing, Approved, Disapproved)
  logout <employee_id>       end the session
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, session.ErrSignedOut) {
			fmt.Fprintln(os.Stderr, "session expired, run: formctl login <employee_id>")
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "formctl:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("formctl", flag.ContinueOnError)
	fs.Usage = func() { fmt.Fprint(fs.Output(), usage); fs.PrintDefaults() }

	server := fs.String("server", envOr("FORMCTL_SERVER", "http://localhost:8080"), "API base URL")
	storePath := fs.String("store", envOr("FORMCTL_STORE", defaultStorePath()), "session file")
	password := fs.String("password", os.Getenv("FORMCTL_PASSWORD"), "password for login")
	verbose := fs.Bool("v", false, "debug logging")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return errors.New("missing command")
	}

	env := "production"
	if *verbose {
		env = "dev"
	}
	log := logger.NewWithWriter(env, os.Stderr)

	store, err := session.OpenBoltStore(*storePath)
	if err != nil {
		return err
	}
	defer store.Close()

	client, err := session.New(session.Options{
		BaseURL: *server,
		Store:   store,
		Logger:  log,
		OnSignedOut: func(route string) {
			log.Debug("signed out", "redirect", route)
		},
	})
	if err != nil {
		return err
	}

	cmd, rest := fs.Arg(0), fs.Args()[1:]
	switch cmd {
	case "login":
		if len(rest) != 1 {
			return errors.New("login needs an employee_id")
		}
		if *password == "" {
			return errors.New("password required (-password or FORMCTL_PASSWORD)")
		}
		if err := client.Login(ctx, rest[0], *password); err != nil {
			return err
		}
		fmt.Fprintln(out, "signed in as", rest[0])
		return nil

	case "refresh":
		if err := client.Navigate(ctx, "/"); err != nil {
			return err
		}
		fmt.Fprintln(out, "access token refreshed")
		return nil

	case "users":
		return getAndPrint(ctx, client, "/users", "/api/users/get-users", out)

	case "nav":
		if len(rest) != 1 {
			return errors.New("nav needs a userType")
		}
		return getAndPrint(ctx, client, "/", "/api/navigation/get-navigation/"+rest[0], out)

	case "companies":
		return getAndPrint(ctx, client, "/companies", "/api/companies/get-companies", out)

	case "options":
		path := "/api/items/add-item"
		if len(rest) == 1 {
			path += "?name=" + url.QueryEscape(rest[0])
		}
		return getAndPrint(ctx, client, "/items/new", path, out)

	case "items":
		path := "/api/items/get-items"
		if len(rest) == 1 {
			path += "?state=" + url.QueryEscape(rest[0])
		}
		return getAndPrint(ctx, client, "/items/ongoing", path, out)

	case "logout":
		if len(rest) != 1 {
			return errors.New("logout needs an employee_id")
		}
		if err := client.Logout(ctx, rest[0]); err != nil {
			return err
		}
		fmt.Fprintln(out, "signed out")
		return nil

	default:
		fs.Usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// getAndPrint navigates to route the way the web app would before loading it,
// then fetches apiPath and pretty-prints the JSON.
func getAndPrint(ctx context.Context, c *session.Client, route, apiPath string, out io.Writer) error {
	if err := c.Navigate(ctx, route); err != nil {
		return err
	}
	var v any
	if err := c.GetJSON(ctx, apiPath, &v); err != nil {
		return err
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func defaultStorePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "formctl-session.db"
	}
	dir = filepath.Join(dir, "formctl")
	_ = os.MkdirAll(dir, 0o700)
	return filepath.Join(dir, "session.db")
}
