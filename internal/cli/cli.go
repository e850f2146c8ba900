package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/babarot/dlsort/internal/config"
	"github.com/babarot/dlsort/internal/debug"
	"github.com/babarot/dlsort/internal/env"
	"github.com/babarot/dlsort/internal/planner"
	"github.com/babarot/dlsort/internal/sorter"
	"github.com/babarot/dlsort/internal/ui"
	"github.com/babarot/dlsort/internal/utils/fs"
	"github.com/babarot/dlsort/internal/utils/log"
	"github.com/jessevdk/go-flags"
	"github.com/rs/xid"
)

// latestJournal is the value of a bare --undo
const latestJournal = "latest"

type Option struct {
	Downloads string `short:"d" long:"downloads" description:"Directory to organize (default: config, then ~/Downloads)" value-name:"DIR"`
	DryRun    bool   `short:"n" long:"dry-run" description:"Show what would move without moving anything"`
	Yes       bool   `short:"y" long:"yes" description:"Do not ask for confirmation"`
	Undo      string `short:"u" long:"undo" description:"Undo the moves recorded in a journal (default: the latest)" optional:"yes" optional-value:"latest" value-name:"JOURNAL"`
	List      bool   `short:"l" long:"list" description:"List the journals of the directory"`
	Config    string `long:"config" description:"Path to config file" default:""`

	Meta MetaOption `group:"Meta Options"`
}

type MetaOption struct {
	Version bool   `short:"V" long:"version" description:"Show version"`
	Debug   string `long:"debug" description:"View debug logs (default: \"full\")" optional-value:"full" optional:"yes" choice:"full" choice:"live"`
}

type CLI struct {
	version Version
	option  Option
	config  config.Config
	runID   string
	sorter  *sorter.Sorter

	stdout  io.Writer
	stderr  io.Writer
	confirm func(prompt string) bool
}

var runID = sync.OnceValue(func() string {
	id := xid.New().String()
	return id
})

func Run(v Version) error {
	var opt Option
	parser := flags.NewParser(&opt, flags.Default)
	parser.Name = v.AppName
	parser.Usage = "[-d DIR] [-n] [-y] [-u [JOURNAL] | -l]"
	args, err := parser.Parse()
	if err != nil {
		if flags.WroteHelp(err) {
			return nil
		}
		return err
	}
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %s", strings.Join(args, " "))
	}

	cfg, err := config.Parse(opt.Config)
	if err != nil {
		return err
	}

	closeLog, err := setupLogger(cfg.Logging)
	if err != nil {
		return err
	}
	defer closeLog()

	defer slog.Debug("main function finished")
	slog.Debug("main function started", "version", v.Version, "revision", v.Revision, "buildDate", v.BuildDate)

	filter, err := planner.NewFilter(cfg.Exclude)
	if err != nil {
		return err
	}

	c := &CLI{
		version: v,
		option:  opt,
		config:  cfg,
		runID:   runID(),
		stdout:  os.Stdout,
		stderr:  os.Stderr,
		confirm: ui.Confirm,
	}
	c.sorter = sorter.New(
		sorter.WithFilter(filter),
		sorter.WithLock(cfg.Core.Lock),
		sorter.OnResult(c.reportResult),
		sorter.OnStep(c.reportStep),
	)

	if err := c.Run(); err != nil {
		slog.Error("exit", "error", fmt.Errorf("cli.run failed: %w", err))
		return err
	}
	return nil
}

func (c *CLI) Run() error {
	switch {
	case c.option.Meta.Version:
		fmt.Fprint(c.stdout, c.version.Print())
		return nil

	case c.option.Meta.Debug == "live":
		return debug.Logs(c.stdout, env.DLSORT_LOG_PATH, c.config.Logging, true)

	case c.option.Meta.Debug == "full":
		return debug.Logs(c.stdout, env.DLSORT_LOG_PATH, c.config.Logging, false)

	case c.option.List:
		return c.List()

	case c.option.Undo != "":
		return c.Undo()

	default:
		return c.Sort()
	}
}

// setupLogger sends slog output to the rotating debug log, or nowhere
// when logging is disabled
func setupLogger(cfg config.Logging) (func(), error) {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("logging level: %w", err)
	}

	var (
		w       io.Writer = io.Discard
		closeFn           = func() {}
	)
	if cfg.Enabled {
		rw, err := log.NewRotateWriter(env.DLSORT_LOG_PATH, cfg.Rotation)
		if err != nil {
			return nil, fmt.Errorf("open debug log: %w", err)
		}
		w = rw
		closeFn = func() { rw.Close() }
	}

	log.New(
		log.UseOutput(w),
		log.UseLevel(level),
		log.UseReportTimestamp(true),
		log.UseReportCaller(true),
		log.UseTimeFormat(time.DateTime),
		log.UseAttrs("run_id", runID()),
		log.AsDefault(),
	)
	return closeFn, nil
}

// targetDir picks the directory to organize: the flag, then the config,
// then the platform Downloads folder
func (c *CLI) targetDir() (string, error) {
	dir := c.option.Downloads
	if dir == "" {
		dir = c.config.Core.DownloadsDir
	}
	if dir == "" {
		dir = env.DownloadsDir()
	}

	dir, err := config.ExpandPath(dir)
	if err != nil {
		return "", err
	}
	unsafe, err := fs.IsUnsafePath(dir)
	if err != nil {
		return "", err
	}
	if unsafe {
		return "", fmt.Errorf("refusing to organize %s", dir)
	}
	return dir, nil
}
