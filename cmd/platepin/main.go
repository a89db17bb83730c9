// Command platepin is a terminal client for the platepin API. It keeps a
// persisted session in the user config dir and drives the same state layer a
// UI would: login gates everything, saves and pantry edits go remote-first.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"platepin/internal/client"
	"platepin/internal/model"
	"platepin/internal/state"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

const defaultBaseURL = "http://localhost:8080"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

type app struct {
	api        *client.Client
	gatekeeper *state.Gatekeeper
	saved      *state.Reconciler
	pantry     *state.Pantry
}

func run(args []string) error {
	_ = godotenv.Load()

	flags := flag.NewFlagSet("platepin", flag.ExitOnError)
	baseURL := flags.String("url", envOr("PLATEPIN_URL", defaultBaseURL), "API base URL")
	verbose := flags.Bool("v", false, "enable debug logging")
	flags.Usage = usage
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() == 0 {
		usage()
		return fmt.Errorf("missing command")
	}

	level := zerolog.WarnLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()

	tokenPath, err := tokenFilePath()
	if err != nil {
		return err
	}

	session := state.NewSession()
	api := client.New(*baseURL, session, logger)
	saved := state.NewReconciler(api, logger)
	pantry := state.NewPantry(api, logger)
	gatekeeper := state.NewGatekeeper(api, session, state.NewFileTokenStore(tokenPath), logger, saved, pantry)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if err := gatekeeper.Startup(ctx); err != nil {
		logger.Warn().Err(err).Msg("startup hydration failed")
	}

	a := &app{api: api, gatekeeper: gatekeeper, saved: saved, pantry: pantry}
	command, rest := flags.Arg(0), flags.Args()[1:]
	return a.dispatch(ctx, command, rest)
}

func (a *app) dispatch(ctx context.Context, command string, args []string) error {
	switch command {
	case "register":
		return a.register(ctx, args)
	case "login":
		return a.login(ctx, args)
	case "logout":
		a.gatekeeper.Logout()
		fmt.Println("logged out")
		return nil
	case "whoami":
		return a.whoami(ctx)
	case "search":
		return a.search(ctx, args)
	case "ai":
		return a.generate(ctx, args)
	case "save":
		return a.save(ctx, args)
	case "saved":
		return a.listSaved(ctx)
	case "unsave":
		return a.unsave(ctx, args)
	case "pantry":
		return a.pantryCmd(ctx, args)
	default:
		usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func (a *app) register(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: platepin register <email> <password>")
	}
	if err := a.gatekeeper.Register(ctx, args[0], args[1]); err != nil {
		return err
	}
	fmt.Println("registered and logged in as", args[0])
	return nil
}

func (a *app) login(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: platepin login <email> <password>")
	}
	if err := a.gatekeeper.Login(ctx, args[0], args[1]); err != nil {
		return err
	}
	fmt.Println("logged in as", args[0])
	return nil
}

func (a *app) whoami(ctx context.Context) error {
	if !a.gatekeeper.IsLoggedIn() {
		fmt.Println("not logged in")
		return nil
	}
	profile, err := a.api.Profile(ctx)
	if err != nil {
		return err
	}
	fmt.Println(profile.Email)
	return nil
}

func (a *app) search(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: platepin search <ingredient> [ingredient...]")
	}
	recipes, err := a.api.SearchRecipes(ctx, args)
	if err != nil {
		return err
	}
	printRecipes(recipes, a.saved)
	return nil
}

func (a *app) generate(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("ai", flag.ExitOnError)
	cuisine := flags.String("cuisine", "", "cuisine filter")
	mealType := flags.String("meal-type", "", "meal type filter")
	difficulty := flags.String("difficulty", "", "difficulty filter")
	maxMinutes := flags.Int("max-minutes", 0, "maximum cooking time")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() == 0 {
		return fmt.Errorf("usage: platepin ai [flags] <ingredient> [ingredient...]")
	}

	var filters *model.AIFilters
	if *cuisine != "" || *mealType != "" || *difficulty != "" || *maxMinutes > 0 {
		filters = &model.AIFilters{
			Cuisine:    *cuisine,
			MealType:   *mealType,
			Difficulty: *difficulty,
			MaxMinutes: *maxMinutes,
		}
	}

	recipes, err := a.api.GenerateAIRecipes(ctx, flags.Args(), filters)
	if err != nil {
		return err
	}
	printRecipes(recipes, a.saved)
	return nil
}

// save reads a full recipe record as JSON from a file or stdin. AI recipes
// only exist client-side until saved, so the whole body has to travel.
func (a *app) save(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("save", flag.ExitOnError)
	file := flags.String("file", "-", "recipe JSON file, - for stdin")
	if err := flags.Parse(args); err != nil {
		return err
	}

	var reader io.Reader = os.Stdin
	if *file != "-" {
		f, err := os.Open(*file)
		if err != nil {
			return err
		}
		defer f.Close()
		reader = f
	}

	var recipe model.RecipeRecord
	if err := json.NewDecoder(reader).Decode(&recipe); err != nil {
		return fmt.Errorf("decode recipe: %w", err)
	}
	if err := a.saved.Save(ctx, recipe); err != nil {
		return err
	}
	fmt.Printf("saved %q (%s)\n", recipe.Title, recipe.ID)
	return nil
}

func (a *app) listSaved(ctx context.Context) error {
	if !a.gatekeeper.IsLoggedIn() {
		return fmt.Errorf("not logged in")
	}
	for _, item := range a.saved.Saved() {
		fmt.Printf("%-14s %-10s %s\n", item.RecipeID, item.Source, item.Title)
	}
	return nil
}

func (a *app) unsave(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: platepin unsave <recipe-id>")
	}
	if err := a.saved.Unsave(ctx, args[0]); err != nil {
		return err
	}
	fmt.Println("removed", args[0])
	return nil
}

func (a *app) pantryCmd(ctx context.Context, args []string) error {
	if len(args) == 0 {
		args = []string{"list"}
	}
	switch args[0] {
	case "list":
		for _, item := range a.pantry.Items() {
			expiry := ""
			if item.ExpiryDate != nil {
				expiry = item.ExpiryDate.Format("2006-01-02")
			}
			fmt.Printf("%-20s %-10s %s\n", item.Name, item.Quantity, expiry)
		}
		return nil
	case "put":
		flags := flag.NewFlagSet("pantry put", flag.ExitOnError)
		quantity := flags.String("quantity", "", "item quantity")
		expiry := flags.String("expiry", "", "expiry date, YYYY-MM-DD")
		if err := flags.Parse(args[1:]); err != nil {
			return err
		}
		if flags.NArg() != 1 {
			return fmt.Errorf("usage: platepin pantry put [flags] <name>")
		}
		req := model.PantryUpsertRequest{Name: flags.Arg(0), Quantity: *quantity}
		if *expiry != "" {
			date, err := time.Parse("2006-01-02", *expiry)
			if err != nil {
				return fmt.Errorf("parse expiry: %w", err)
			}
			req.ExpiryDate = &date
		}
		return a.pantry.Upsert(ctx, req)
	case "set-quantity":
		if len(args) != 3 {
			return fmt.Errorf("usage: platepin pantry set-quantity <name> <quantity>")
		}
		return a.pantry.Update(ctx, args[1], state.ItemPatch{Quantity: &args[2]})
	case "rm":
		if len(args) != 2 {
			return fmt.Errorf("usage: platepin pantry rm <name>")
		}
		return a.pantry.Remove(ctx, args[1])
	default:
		return fmt.Errorf("unknown pantry command %q", args[0])
	}
}

func printRecipes(recipes []model.RecipeRecord, saved *state.Reconciler) {
	for _, r := range recipes {
		marker := " "
		if saved.IsSaved(r.ID) {
			marker = "*"
		}
		fmt.Printf("%s %-14s %-10s %s\n", marker, r.ID, r.DerivedSource(), r.Title)
	}
}

func tokenFilePath() (string, error) {
	if path := os.Getenv("PLATEPIN_TOKEN_FILE"); path != "" {
		return path, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(dir, "platepin", "token"), nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func usage() {
	fmt.Fprint(os.Stderr, `usage: platepin [-url URL] [-v] <command>

commands:
  register <email> <password>   create an account and log in
  login <email> <password>      log in
  logout                        log out and forget the session
  whoami                        show the logged-in user
  search <ingredient>...        search the recipe catalog
  ai [flags] <ingredient>...    generate AI recipes
  save [-file F]                save a recipe from JSON (default stdin)
  saved                         list saved recipes
  unsave <recipe-id>            remove a saved recipe
  pantry [list]                 list pantry items
  pantry put [flags] <name>     add or replace a pantry item
  pantry set-quantity <n> <q>   change an item's quantity
  pantry rm <name>              remove a pantry item
`)
}
