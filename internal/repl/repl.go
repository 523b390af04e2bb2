package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/caloriepad/caloriepad/internal/catalog"
	"github.com/caloriepad/caloriepad/internal/diary"
	"github.com/caloriepad/caloriepad/internal/search"
	"github.com/caloriepad/caloriepad/internal/storage"
	"github.com/caloriepad/caloriepad/internal/types"
	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"go.uber.org/zap"
)

// REPL represents the interactive quick-add shell
type REPL struct {
	store         *storage.Store
	catalog       *catalog.Catalog
	search        *search.Service
	diary         *diary.Diary
	includeRemote bool
	historyFile   string
	logger        *zap.Logger

	rl       *readline.Instance
	ctx      context.Context
	out      io.Writer
	commands map[string]CommandHandler

	// results of the last search, addressed as #1, #2, ...
	lastResults []types.FoodItem
}

// CommandHandler handles a specific command
type CommandHandler func(args []string) error

// Config holds REPL configuration
type Config struct {
	Store   *storage.Store
	Catalog *catalog.Catalog
	Search  *search.Service
	Diary   *diary.Diary

	// IncludeRemote also searches the remote food database
	IncludeRemote bool

	// HistoryFile persists input history; empty keeps it in memory
	HistoryFile string

	// Out receives command output (default os.Stdout)
	Out    io.Writer
	Logger *zap.Logger
}

// New creates a new REPL instance
func New(cfg *Config) (*REPL, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("storage is required")
	}
	if cfg.Catalog == nil || cfg.Search == nil || cfg.Diary == nil {
		return nil, fmt.Errorf("catalog, search and diary are required")
	}

	out := cfg.Out
	if out == nil {
		out = os.Stdout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := &REPL{
		store:         cfg.Store,
		catalog:       cfg.Catalog,
		search:        cfg.Search,
		diary:         cfg.Diary,
		includeRemote: cfg.IncludeRemote,
		historyFile:   cfg.HistoryFile,
		logger:        logger,
		ctx:           context.Background(),
		out:           out,
		commands:      make(map[string]CommandHandler),
	}

	r.registerCommands()

	return r, nil
}

// Run starts the REPL loop
func (r *REPL) Run(ctx context.Context) error {
	r.ctx = ctx

	cyan := color.New(color.FgCyan).SprintFunc()
	prompt := cyan("caloriepad> ")

	rl, err := readline.NewEx(&readline.Config{
		Prompt:            prompt,
		HistoryFile:       r.historyFile,
		AutoComplete:      r.completer(),
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	defer rl.Close()

	r.rl = rl

	r.printWelcome()

	for {
		if ctx.Err() != nil {
			return nil
		}

		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				// Ctrl+C - just show prompt again
				continue
			} else if err == io.EOF {
				// Ctrl+D - exit
				fmt.Fprintln(r.out, "\nGoodbye!")
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if err := r.processInput(line); err != nil {
			if err == io.EOF {
				return nil
			}
			red := color.New(color.FgRed).SprintFunc()
			fmt.Fprintf(r.out, "%s %v\n", red("Error:"), err)
		}
	}
}

// processInput processes a single line of input
func (r *REPL) processInput(line string) error {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return nil
	}

	command := strings.ToLower(parts[0])
	args := parts[1:]
	r.logger.Debug("repl input", zap.String("command", command), zap.Int("args", len(args)))

	if handler, ok := r.commands[command]; ok {
		return handler(args)
	}

	// Anything else is a search
	return r.cmdSearch(parts)
}

// registerCommands registers all built-in commands
func (r *REPL) registerCommands() {
	r.commands["help"] = r.cmdHelp
	r.commands["?"] = r.cmdHelp
	r.commands["exit"] = r.cmdExit
	r.commands["quit"] = r.cmdExit
	r.commands["search"] = r.cmdSearch
	r.commands["s"] = r.cmdSearch
	r.commands["add"] = r.cmdAdd
	r.commands["a"] = r.cmdAdd
	r.commands["today"] = r.cmdToday
	r.commands["recent"] = r.cmdRecent
	r.commands["fav"] = r.cmdFav
	r.commands["goal"] = r.cmdGoal
}

func (r *REPL) completer() *readline.PrefixCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem("search"),
		readline.PcItem("add"),
		readline.PcItem("today"),
		readline.PcItem("recent"),
		readline.PcItem("fav", readline.PcItem("add"), readline.PcItem("rm")),
		readline.PcItem("goal"),
		readline.PcItem("help"),
		readline.PcItem("exit"),
	)
}

// printWelcome prints the welcome message
func (r *REPL) printWelcome() {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	fmt.Fprintf(r.out, "\n%s\n", cyan("caloriepad quick add"))
	if !r.includeRemote {
		yellow := color.New(color.FgYellow).SprintFunc()
		fmt.Fprintf(r.out, "%s remote food search is off\n", yellow("Note:"))
	}
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, "Type a food to search, 'help' for commands, 'exit' to quit")
	fmt.Fprintln(r.out)
}

// cmdHelp shows help information
func (r *REPL) cmdHelp(args []string) error {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	fmt.Fprintf(r.out, "\n%s\n\n", cyan("Available Commands:"))

	commands := []struct {
		name string
		desc string
	}{
		{"search <query>", "Search foods (or just type the query)"},
		{"add <name> <calories> [qty]", "Log a food by name"},
		{"add #<n> [qty]", "Log result n of the last search"},
		{"today", "Show today's log and goal progress"},
		{"recent", "Show foods logged in the last week"},
		{"fav", "List favorites"},
		{"fav #<n>", "Toggle result n of the last search as a favorite"},
		{"fav add #<n>", "Add result n of the last search to favorites"},
		{"fav rm <id>", "Remove a favorite"},
		{"goal [calories]", "Show or set the daily calorie goal"},
		{"help, ?", "Show this help message"},
		{"exit, quit", "Exit the REPL"},
	}

	green := color.New(color.FgGreen).SprintFunc()
	for _, cmd := range commands {
		fmt.Fprintf(r.out, "  %-30s %s\n", green(cmd.name), cmd.desc)
	}
	fmt.Fprintln(r.out)
	return nil
}

// cmdExit exits the REPL
func (r *REPL) cmdExit(args []string) error {
	green := color.New(color.FgGreen).SprintFunc()
	fmt.Fprintf(r.out, "\n%s Goodbye!\n", green("✓"))
	if r.rl != nil {
		r.rl.Close()
	}
	return io.EOF // Signal to exit the loop
}

func (r *REPL) cmdSearch(args []string) error {
	query := strings.Join(args, " ")
	if err := r.search.CheckQuery(query); err != nil {
		if errors.Is(err, search.ErrQueryTooShort) {
			fmt.Fprintf(r.out, "Keep typing: %v\n", err)
			return nil
		}
		return err
	}

	foods, err := r.search.Search(r.ctx, search.Query{Text: query, IncludeRemote: r.includeRemote})
	if err != nil {
		return err
	}
	r.lastResults = foods

	if len(foods) == 0 {
		fmt.Fprintf(r.out, "No foods match %q. Use 'add %s <calories>' to create it.\n", query, query)
		return nil
	}
	printFoods(r.out, foods)
	return nil
}

func (r *REPL) cmdAdd(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: add <name> <calories> [qty] | add #<n> [qty]")
	}

	if strings.HasPrefix(args[0], "#") {
		food, err := r.resultAt(args[0])
		if err != nil {
			return err
		}
		quantity := 1.0
		if len(args) > 1 {
			if quantity, err = parseQuantity(args[1]); err != nil {
				return err
			}
		}
		entry, err := r.diary.AddEntry(r.ctx, *food, quantity, "", time.Time{})
		if err != nil {
			return err
		}
		r.printLogged(entry, "")
		return r.printProgress()
	}

	req, err := parseAddArgs(args)
	if err != nil {
		return err
	}
	res, err := r.diary.QuickAdd(r.ctx, req)
	if err != nil {
		return err
	}

	note := ""
	switch {
	case res.Created:
		note = "new custom food"
	case res.Updated:
		note = "calories updated"
	case res.Overridden:
		note = "calories overridden for this entry"
	}
	r.printLogged(res.Entry, note)
	return r.printProgress()
}

func (r *REPL) cmdToday(args []string) error {
	day, err := r.diary.Today(r.ctx)
	if err != nil {
		return err
	}

	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	fmt.Fprintf(r.out, "\n%s\n", cyan("Today ("+day.Date+")"))
	if len(day.Entries) == 0 {
		fmt.Fprintln(r.out, "  Nothing logged yet")
	}
	for _, e := range day.Entries {
		fmt.Fprintf(r.out, "  %s  %-28s x%-4g %5d cal\n",
			e.Timestamp.Format("15:04"), e.FoodItem.Name, e.Quantity, e.TotalCalories)
	}
	fmt.Fprintf(r.out, "\n  Consumed %d  Burned %d  Net %d\n",
		day.TotalCaloriesConsumed, day.TotalCaloriesBurned, day.NetCalories)
	return r.printProgress()
}

func (r *REPL) cmdRecent(args []string) error {
	foods, err := r.diary.RecentFoods(r.ctx, diary.DefaultRecentDays, diary.DefaultRecentLimit)
	if err != nil {
		return err
	}
	if len(foods) == 0 {
		fmt.Fprintln(r.out, "No foods logged in the last week")
		return nil
	}
	r.lastResults = foods
	printFoods(r.out, foods)
	return nil
}

func (r *REPL) cmdFav(args []string) error {
	if len(args) == 0 {
		foods, err := r.catalog.Favorites(r.ctx)
		if err != nil {
			return err
		}
		if len(foods) == 0 {
			fmt.Fprintln(r.out, "No favorites yet")
			return nil
		}
		r.lastResults = foods
		printFoods(r.out, foods)
		return nil
	}

	green := color.New(color.FgGreen).SprintFunc()
	if strings.HasPrefix(args[0], "#") && len(args) == 1 {
		food, err := r.resultAt(args[0])
		if err != nil {
			return err
		}
		on, err := r.catalog.ToggleFavorite(r.ctx, *food)
		if err != nil {
			return err
		}
		if on {
			fmt.Fprintf(r.out, "%s Added %s to favorites\n", green("✓"), food.Name)
		} else {
			fmt.Fprintf(r.out, "%s Removed %s from favorites\n", green("✓"), food.Name)
		}
		return nil
	}

	switch args[0] {
	case "add":
		if len(args) != 2 {
			return fmt.Errorf("usage: fav add #<n>")
		}
		food, err := r.resultAt(args[1])
		if err != nil {
			return err
		}
		if err := r.catalog.AddFavorite(r.ctx, *food); err != nil {
			return err
		}
		fmt.Fprintf(r.out, "%s Added %s to favorites\n", green("✓"), food.Name)
		return nil
	case "rm", "remove":
		if len(args) != 2 {
			return fmt.Errorf("usage: fav rm <id>")
		}
		id := args[1]
		if strings.HasPrefix(id, "#") {
			food, err := r.resultAt(id)
			if err != nil {
				return err
			}
			id = food.ID
		}
		if err := r.catalog.RemoveFavorite(r.ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(r.out, "%s Removed %s from favorites\n", green("✓"), id)
		return nil
	default:
		return fmt.Errorf("unknown fav command: %s", args[0])
	}
}

func (r *REPL) cmdGoal(args []string) error {
	settings, err := r.store.Settings(r.ctx)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		fmt.Fprintf(r.out, "Daily goal: %d cal\n", settings.DailyCalorieGoal)
		return nil
	}

	goal, err := parseCalories(args[0])
	if err != nil {
		return err
	}
	settings.DailyCalorieGoal = goal
	if err := r.store.SaveSettings(r.ctx, settings); err != nil {
		return err
	}
	green := color.New(color.FgGreen).SprintFunc()
	fmt.Fprintf(r.out, "%s Daily goal set to %d cal\n", green("✓"), goal)
	return nil
}

// resultAt resolves "#n" against the last listed foods
func (r *REPL) resultAt(ref string) (*types.FoodItem, error) {
	n, err := parseIndex(ref)
	if err != nil {
		return nil, err
	}
	if n < 1 || n > len(r.lastResults) {
		return nil, fmt.Errorf("no result %s (search first)", ref)
	}
	food := r.lastResults[n-1]
	return &food, nil
}

func (r *REPL) printLogged(entry *types.FoodEntry, note string) {
	green := color.New(color.FgGreen).SprintFunc()
	fmt.Fprintf(r.out, "%s Logged %s x%g (%d cal)", green("✓"), entry.FoodItem.Name, entry.Quantity, entry.TotalCalories)
	if note != "" {
		fmt.Fprintf(r.out, " [%s]", note)
	}
	fmt.Fprintln(r.out)
}

func (r *REPL) printProgress() error {
	p, err := r.diary.TodayProgress(r.ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(r.out, "  "+FormatProgress(p))
	return nil
}
