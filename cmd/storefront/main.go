// Command storefront is a terminal storefront. Each invocation is one "page
// load": the catalog is fetched once and the requested view is projected
// from that snapshot.
//
// Usage:
//
//	storefront [-server URL] [-state DIR] <command> [flags]
//
// Commands: products, search, history, login, whoami, logout, admin.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/oksasatya/crateyy/internal/catalog"
	"github.com/oksasatya/crateyy/internal/client"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "storefront:", err)
		os.Exit(1)
	}
}

type app struct {
	api     *client.APIClient
	session *client.Session
	history *client.SearchHistory
}

func defaultStateDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "crateyy")
	}
	return ".crateyy"
}

func run(args []string) error {
	fs := flag.NewFlagSet("storefront", flag.ContinueOnError)
	server := fs.String("server", envOr("CRATEYY_API", "http://localhost:3000"), "API base URL")
	state := fs.String("state", defaultStateDir(), "directory for session and search history")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return errors.New("missing command (products, search, history, login, whoami, logout, admin)")
	}

	a := &app{
		api:     client.NewAPIClient(*server),
		session: client.NewSession(filepath.Join(*state, "session.json")),
		history: client.NewSearchHistory(filepath.Join(*state, "search_history.json")),
	}
	if err := a.session.Load(); err != nil {
		return err
	}
	a.api.Token = a.session.Token

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cmd, rest := fs.Arg(0), fs.Args()[1:]
	switch cmd {
	case "products":
		return a.products(ctx, rest)
	case "search":
		return a.search(ctx, rest)
	case "history":
		return a.showHistory(rest)
	case "login":
		return a.login(ctx, rest)
	case "whoami":
		return a.whoami(ctx)
	case "logout":
		return a.logout(ctx)
	case "admin":
		return a.admin(ctx)
	}
	return fmt.Errorf("unknown command %q", cmd)
}

func (a *app) products(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("products", flag.ContinueOnError)
	category := fs.String("category", catalog.FilterAll, "category tag, e.g. new-drops")
	typ := fs.String("type", catalog.FilterAll, "product type")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cache, err := client.LoadCatalog(ctx, a.api)
	if err != nil {
		return err
	}
	if *typ == catalog.FilterAll {
		return client.RenderCards(os.Stdout, cache.CategoryPage(*category))
	}
	products := catalog.ByType(catalog.ByCategory(cache.All(), *category), *typ)
	return client.RenderCards(os.Stdout, client.Cards(products))
}

func (a *app) search(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	q := fs.String("q", "", "text to look for in name, category and type")
	typ := fs.String("type", catalog.FilterAll, "product type or all")
	price := fs.String("price", catalog.FilterAll, "price bucket: all, 0-50, 50-100, 100+")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := a.history.Load(); err != nil {
		return err
	}
	cache, err := client.LoadCatalog(ctx, a.api)
	if err != nil {
		return err
	}
	cards := cache.Search(catalog.NewQuery(*q, *typ, *price))
	a.history.Add(*q)
	if err := a.history.Save(); err != nil {
		return err
	}
	if len(cards) == 0 {
		fmt.Println("no products found")
		return nil
	}
	return client.RenderCards(os.Stdout, cards)
}

func (a *app) showHistory(args []string) error {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	forget := fs.Bool("clear", false, "forget recent searches")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := a.history.Load(); err != nil {
		return err
	}
	if *forget {
		a.history.Clear()
		return a.history.Save()
	}
	for _, t := range a.history.Terms() {
		fmt.Println(t)
	}
	return nil
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	role := fs.String("role", "", "require this role (customer or admin)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	u, err := a.api.Login(ctx, *email, *password, *role)
	if err != nil {
		return err
	}
	a.session.Set(u, a.api.Token)
	if err := a.session.Save(); err != nil {
		return err
	}
	fmt.Printf("logged in as %s (%s)\n", u.Name, u.Role)
	return nil
}

func (a *app) whoami(ctx context.Context) error {
	u, err := a.api.CurrentUser(ctx)
	if errors.Is(err, client.ErrNotLoggedIn) {
		a.session.Clear()
		_ = a.session.Save()
		fmt.Println("not logged in")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Printf("%s <%s> %s\n", u.Name, u.Email, u.Role)
	return nil
}

func (a *app) logout(ctx context.Context) error {
	err := a.api.Logout(ctx)
	a.session.Clear()
	if sErr := a.session.Save(); sErr != nil {
		return sErr
	}
	return err
}

func (a *app) admin(ctx context.Context) error {
	if !a.session.IsAdmin() {
		return errors.New("admin login required (storefront login -role admin ...)")
	}
	cache, err := client.LoadCatalog(ctx, a.api)
	if err != nil {
		return err
	}
	return client.RenderAdmin(os.Stdout, cache.AdminTable())
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
