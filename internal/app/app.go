package app

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"wallabago/internal/config"
	"wallabago/internal/logger"
	"wallabago/internal/wallabag"
)

const publishedAtLayout = "2006-01-02 15:04"

// App holds the application's core dependencies and configuration.
type App struct {
	Config *config.Config
	Client wallabag.ClientInterface // Use the interface
	Logger *logger.Logger
	Out    io.Writer
}

// Option is a functional option for configuring the App.
type Option func(*App)

// NewApp creates a new App instance with the given options.
func NewApp(opts ...Option) *App {
	app := &App{Out: os.Stdout}
	for _, opt := range opts {
		opt(app)
	}
	if app.Logger == nil {
		app.Logger = logger.New(logger.INFO)
	}
	return app
}

// WithConfig sets the application configuration.
func WithConfig(cfg *config.Config) Option {
	return func(a *App) {
		a.Config = cfg
	}
}

// WithClient sets the Wallabag API client.
func WithClient(client wallabag.ClientInterface) Option { // Accept the interface
	return func(a *App) {
		a.Client = client
	}
}

// WithLogger sets the logger.
func WithLogger(log *logger.Logger) Option {
	return func(a *App) {
		a.Logger = log
	}
}

// WithOutput redirects command output, mainly for tests.
func WithOutput(w io.Writer) Option {
	return func(a *App) {
		a.Out = w
	}
}

// Run dispatches a CLI subcommand.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("missing command: expected one of first, list, show, save, edit, delete")
	}

	command, rest := args[0], args[1:]
	switch command {
	case "first":
		return a.runFirst(ctx)
	case "list":
		return a.runList(ctx, rest)
	case "show":
		return a.runShow(ctx, rest)
	case "save":
		return a.runSave(ctx, rest)
	case "edit":
		return a.runEdit(ctx, rest)
	case "delete":
		return a.runDelete(ctx, rest)
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

// runFirst fetches and prints the oldest saved entry.
func (a *App) runFirst(ctx context.Context) error {
	entry, err := a.Client.GetEntries(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch first entry: %w", err)
	}
	return a.printJSON(entry)
}

func (a *App) runList(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	page := fs.Int("page", 1, "page number")
	perPage := fs.Int("per-page", 30, "entries per page")
	order := fs.String("order", "desc", "listing order: asc or desc")
	sortBy := fs.String("sort", "", "sort field: created, updated or archived")
	archive := fs.Bool("archive", false, "only archived (true) or unarchived (false) entries")
	starred := fs.Bool("starred", false, "only starred (true) or unstarred (false) entries")
	tags := fs.String("tags", "", "comma separated tags, all required")
	if err := fs.Parse(args); err != nil {
		return err
	}

	opts := wallabag.ListEntriesOptions{
		Page:    *page,
		PerPage: *perPage,
		Order:   *order,
		Sort:    *sortBy,
		Tags:    splitList(*tags),
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "archive":
			opts.Archive = archive
		case "starred":
			opts.Starred = starred
		}
	})

	result, err := a.Client.ListEntries(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to list entries: %w", err)
	}

	for _, entry := range result.Embedded.Items {
		marker := " "
		if entry.Archived() {
			marker = "A"
		}
		fmt.Fprintf(a.Out, "%6d %s %s\n", entry.ID, marker, entry.Title)
	}
	fmt.Fprintf(a.Out, "page %d of %d (%d entries)\n", result.Page, result.Pages, result.Total)
	return nil
}

func (a *App) runShow(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := entryID(fs)
	if err != nil {
		return err
	}

	entry, err := a.Client.GetEntry(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to fetch entry: %w", err)
	}

	fmt.Fprintf(a.Out, "%s\n%s\n\n", entry.Title, entry.URL)
	text, err := extractText(entry.Content)
	if err != nil {
		a.Logger.Warnf("Failed to render entry %d content: %v", entry.ID, err)
		return nil
	}
	fmt.Fprintln(a.Out, text)
	return nil
}

func (a *App) runSave(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("save", flag.ContinueOnError)
	var ef entryFlags
	ef.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("save expects exactly one URL argument")
	}

	loc, err := a.location()
	if err != nil {
		return err
	}
	opts, err := ef.options(fs, loc)
	if err != nil {
		return err
	}

	entry, err := a.Client.SaveEntry(ctx, fs.Arg(0), opts)
	if err != nil {
		return fmt.Errorf("failed to save entry: %w", err)
	}

	a.Logger.Infof("Saved entry %d", entry.ID)
	fmt.Fprintf(a.Out, "saved entry %d: %s\n", entry.ID, entry.Title)
	return nil
}

func (a *App) runEdit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("edit", flag.ContinueOnError)
	var ef entryFlags
	ef.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := entryID(fs)
	if err != nil {
		return err
	}

	loc, err := a.location()
	if err != nil {
		return err
	}
	opts, err := ef.options(fs, loc)
	if err != nil {
		return err
	}

	entry, err := a.Client.EditEntry(ctx, id, opts)
	if err != nil {
		return fmt.Errorf("failed to edit entry: %w", err)
	}

	a.Logger.Infof("Updated entry %d", entry.ID)
	fmt.Fprintf(a.Out, "updated entry %d: %s\n", entry.ID, entry.Title)
	return nil
}

func (a *App) runDelete(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := entryID(fs)
	if err != nil {
		return err
	}

	entry, err := a.Client.DeleteEntry(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}

	a.Logger.Infof("Deleted entry %d", id)
	fmt.Fprintf(a.Out, "deleted entry %d: %s\n", id, entry.Title)
	return nil
}

func (a *App) location() (*time.Location, error) {
	if a.Config == nil || a.Config.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(a.Config.Timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", a.Config.Timezone, err)
	}
	return loc, nil
}

func (a *App) printJSON(v any) error {
	enc := json.NewEncoder(a.Out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}

func entryID(fs *flag.FlagSet) (int, error) {
	if fs.NArg() != 1 {
		return 0, fmt.Errorf("expected exactly one entry id argument")
	}
	id, err := strconv.Atoi(fs.Arg(0))
	if err != nil {
		return 0, fmt.Errorf("invalid entry id %q", fs.Arg(0))
	}
	return id, nil
}

// entryFlags collects the optional entry fields shared by save and edit. A
// field only reaches the payload when its flag was set on the command line,
// so boolean flags stay tri-state.
type entryFlags struct {
	title          string
	content        string
	language       string
	previewPicture string
	originURL      string
	tags           string
	authors        string
	archive        bool
	starred        bool
	public         bool
	publishedAt    string
}

func (f *entryFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.title, "title", "", "entry title")
	fs.StringVar(&f.content, "content", "", "entry content (requires -title)")
	fs.StringVar(&f.language, "language", "", "entry language code")
	fs.StringVar(&f.previewPicture, "preview-picture", "", "preview picture URL")
	fs.StringVar(&f.originURL, "origin-url", "", "origin URL")
	fs.StringVar(&f.tags, "tags", "", "comma separated tags")
	fs.StringVar(&f.authors, "authors", "", "comma separated authors")
	fs.BoolVar(&f.archive, "archive", false, "archive flag")
	fs.BoolVar(&f.starred, "starred", false, "starred flag")
	fs.BoolVar(&f.public, "public", false, "public flag")
	fs.StringVar(&f.publishedAt, "published-at", "", `publication time, "2006-01-02 15:04" in the configured timezone`)
}

func (f *entryFlags) options(fs *flag.FlagSet, loc *time.Location) (wallabag.EntryOptions, error) {
	set := make(map[string]bool)
	fs.Visit(func(fl *flag.Flag) { set[fl.Name] = true })

	var opts wallabag.EntryOptions
	if set["title"] {
		opts.Title = &f.title
	}
	if set["content"] {
		opts.Content = &f.content
	}
	if set["language"] {
		opts.Language = &f.language
	}
	if set["preview-picture"] {
		opts.PreviewPicture = &f.previewPicture
	}
	if set["origin-url"] {
		opts.OriginURL = &f.originURL
	}
	if set["tags"] {
		opts.Tags = splitList(f.tags)
	}
	if set["authors"] {
		opts.Authors = splitList(f.authors)
	}
	if set["archive"] {
		opts.Archive = &f.archive
	}
	if set["starred"] {
		opts.Starred = &f.starred
	}
	if set["public"] {
		opts.Public = &f.public
	}
	if set["published-at"] {
		parsed, err := time.ParseInLocation(publishedAtLayout, f.publishedAt, loc)
		if err != nil {
			return opts, fmt.Errorf("failed to parse published-at %q: %w", f.publishedAt, err)
		}
		opts.PublishedAt = &parsed
	}

	return opts, nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
