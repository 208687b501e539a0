// Command assetctl is the operator console for the asset store: it logs in,
// keeps a local snapshot of the asset list and drives check-out, check-in,
// edits and bulk imports.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	hzconfig "github.com/cloudwego/hertz/pkg/common/config"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/route"
	"github.com/yi-nology/asset_tracker/biz/bootstrap"
	"github.com/yi-nology/asset_tracker/pkg/auth"
	"github.com/yi-nology/asset_tracker/pkg/client"
	"github.com/yi-nology/asset_tracker/pkg/config"
	"github.com/yi-nology/asset_tracker/pkg/lifecycle"
)

const usage = `usage: assetctl [flags] <command> [args]

commands:
  list [tab] [term]       list assets; tab is all, available or checked_out
  stats                   dashboard counters
  categories              asset count per category
  locations               distinct locations
  add -name N [...]       create an asset
  edit <id> [-name ...]   change name, price, location or quantity
  checkout <id> <holder>  hand an available asset to holder
  checkin [-yes] <id>     return a checked out asset
  delete <id>             remove an asset
  import [-server] <file> bulk import a CSV export
  section [name]          show or set the remembered section

flags:
`

var (
	configFile = flag.String("config", "config.yaml", "path to the config file")
	serverURL  = flag.String("server", "http://127.0.0.1:8080", "asset store base URL")
	local      = flag.Bool("local", false, "run the store in-process against the configured database")
	username   = flag.String("user", "", "login name (defaults to auth.username)")
	prefsPath  = flag.String("prefs", lifecycle.DefaultPreferencesPath(), "preferences file")
	timeout    = flag.Duration("timeout", 10*time.Second, "request timeout")
)

func main() {
	os.Exit(realMain())
}

// realMain returns the exit code so deferred cleanup runs before os.Exit.
func realMain() int {
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		return 2
	}

	if err := config.LoadDotEnv(".env"); err != nil {
		log.Printf("load .env: %v", err)
		return 1
	}
	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Printf("load config: %v", err)
		return 1
	}
	hlog.SetLevel(cfg.Log.HlogLevel())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, closeFn, err := newClient(cfg)
	if err != nil {
		log.Printf("%v", err)
		return 1
	}
	defer closeFn()

	cli := &console{
		cfg:    cfg,
		client: c,
		ctrl:   lifecycle.New(c, c, lifecycle.NewFilePreferences(*prefsPath)),
		in:     bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}
	if err := cli.run(ctx, flag.Arg(0), flag.Args()[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "assetctl: %v\n", err)
		return 1
	}
	return 0
}

func newClient(cfg *config.Config) (*client.Client, func(), error) {
	if !*local {
		c, err := client.NewHTTP(*serverURL, *timeout)
		return c, func() {}, err
	}
	app, err := bootstrap.New(cfg)
	if err != nil {
		return nil, nil, err
	}
	engine := route.NewEngine(hzconfig.NewOptions(nil))
	app.Register(engine)
	closeFn := func() {
		if err := app.Close(); err != nil {
			hlog.Warnf("close: %v", err)
		}
	}
	return client.New("http://assets.local", client.EngineDoer{Engine: engine}), closeFn, nil
}

type console struct {
	cfg    *config.Config
	client *client.Client
	ctrl   *lifecycle.Controller
	in     *bufio.Reader
	out    io.Writer
}

func (c *console) run(ctx context.Context, cmd string, args []string) error {
	if cmd == "section" {
		return c.section(args)
	}
	if err := c.login(ctx); err != nil {
		return err
	}
	if err := c.ctrl.Refresh(ctx); err != nil {
		hlog.Warnf("load assets: %v, continuing with an empty list", err)
	}

	switch cmd {
	case "list":
		return c.list(args)
	case "stats":
		s := c.ctrl.Cache().Stats()
		fmt.Fprintf(c.out, "total %d  assigned %d  available %d  maintenance %d\n", s.Total, s.Assigned, s.Available, s.Maintenance)
		return nil
	case "categories":
		for _, cc := range c.ctrl.Cache().CategoryCounts() {
			fmt.Fprintf(c.out, "%-24s %d\n", cc.Category, cc.Count)
		}
		return nil
	case "locations":
		for _, loc := range c.ctrl.Cache().Locations() {
			fmt.Fprintln(c.out, loc)
		}
		return nil
	case "add":
		return c.add(ctx, args)
	case "edit":
		return c.edit(ctx, args)
	case "checkout":
		return c.checkout(ctx, args)
	case "checkin":
		return c.checkin(ctx, args)
	case "delete":
		return c.remove(ctx, args)
	case "import":
		return c.importFile(ctx, args)
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (c *console) login(ctx context.Context) error {
	user := *username
	if user == "" {
		user = c.cfg.Auth.Username
	}
	password := os.Getenv("ASSET_PASSWORD")
	if password == "" {
		var err error
		if password, err = c.prompt(fmt.Sprintf("password for %s: ", user)); err != nil {
			return err
		}
	}
	identity, err := c.ctrl.Login(ctx, auth.Credentials{Username: user, Password: password})
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return errors.New("login failed: wrong username or password")
		}
		return fmt.Errorf("login: %w", err)
	}
	hlog.Debugf("logged in as %s", identity.Username)
	return nil
}

func (c *console) prompt(question string) (string, error) {
	fmt.Fprint(c.out, question)
	line, err := c.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (c *console) confirm(question string) (bool, error) {
	answer, err := c.prompt(question + " [y/N] ")
	if err != nil {
		return false, err
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes", nil
}

func (c *console) section(args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(c.out, c.ctrl.Section())
		return nil
	}
	return c.ctrl.SetSection(args[0])
}

func parseID(args []string) (uint, error) {
	if len(args) == 0 {
		return 0, errors.New("asset id required")
	}
	id, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid asset id %q", args[0])
	}
	return uint(id), nil
}

func (c *console) checkout(ctx context.Context, args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}
	asset, err := c.ctrl.CheckOut(ctx, id, strings.Join(args[1:], " "))
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "%s checked out to %s\n", asset.Name, asset.AssignedTo)
	return nil
}

func (c *console) checkin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("checkin", flag.ContinueOnError)
	yes := fs.Bool("yes", false, "skip the confirmation prompt")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := parseID(fs.Args())
	if err != nil {
		return err
	}

	confirm := lifecycle.ConfirmFunc(c.confirm)
	if *yes {
		confirm = func(string) (bool, error) { return true, nil }
	}
	asset, err := c.ctrl.CheckIn(ctx, id, confirm)
	if errors.Is(err, lifecycle.ErrCancelled) {
		fmt.Fprintln(c.out, "check-in cancelled")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "%s checked in\n", asset.Name)
	return nil
}

func (c *console) remove(ctx context.Context, args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}
	if err := c.ctrl.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "deleted %d\n", id)
	return nil
}

func (c *console) importFile(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	serverSide := fs.Bool("server", false, "upload the file and let the store import and archive it")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("import needs exactly one file")
	}
	path := fs.Arg(0)
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	if *serverSide {
		summary, err := c.client.ImportCSV(ctx, filepath.Base(path), data)
		if err != nil {
			return err
		}
		printSummary(c.out, summary)
		if summary.SourceKey != "" {
			fmt.Fprintf(c.out, "archived as %s\n", summary.SourceKey)
		}
		return c.ctrl.Refresh(ctx)
	}

	summary, err := c.ctrl.Import(ctx, data, c.cfg.Import.Delay)
	if summary != nil {
		printSummary(c.out, summary)
	}
	return err
}
