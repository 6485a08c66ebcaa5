package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/five82/bodyscale/internal/app"
	"github.com/five82/bodyscale/internal/withings"
)

const usage = `Usage:
  bodyscale [-config path] [-poll seconds]        run the dashboard
  bodyscale measures [-user id] [-key key] [...]  print getmeas JSON
  bodyscale user [-user id] [-key key]            print getbyuserid JSON
  bodyscale users -email address                  print getuserslist JSON
                                                  (password from BODYSCALE_PASSWORD in the process
                                                  environment, never .env, or the first line of stdin)
`

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var err error
	if len(args) > 0 {
		switch args[0] {
		case "measures":
			err = runMeasures(ctx, args[1:])
		case "user":
			err = runUser(ctx, args[1:])
		case "users":
			err = runUsers(ctx, args[1:])
		default:
			err = runDashboard(ctx, args)
		}
	} else {
		err = runDashboard(ctx, args)
	}

	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "bodyscale: %v\n", err)
		return 1
	}
	return 0
}

func runDashboard(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("bodyscale", flag.ContinueOnError)
	fs.Usage = func() { fmt.Fprint(fs.Output(), usage) }
	configPath := fs.String("config", "", "override config path (optional)")
	pollSeconds := fs.Int("poll", 0, "poll interval in seconds (optional, defaults to poll_seconds)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	opts := app.Options{ConfigPath: *configPath}
	if poll := *pollSeconds; poll > 0 {
		opts.PollEvery = poll
	}
	return app.Run(ctx, opts)
}

type commonFlags struct {
	config *string
	user   *int64
	key    *string
}

func addCommonFlags(fs *flag.FlagSet) commonFlags {
	return commonFlags{
		config: fs.String("config", "", "override config path (optional)"),
		user:   fs.Int64("user", 0, "user id (defaults to user_id)"),
		key:    fs.String("key", "", "public key (defaults to public_key)"),
	}
}

func runMeasures(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("measures", flag.ContinueOnError)
	common := addCommonFlags(fs)
	start := fs.String("start", "", "startdate: unix seconds, YYYY-MM-DD or RFC3339")
	end := fs.String("end", "", "enddate: unix seconds, YYYY-MM-DD or RFC3339")
	lastUpdate := fs.String("lastupdate", "", "only groups changed since: unix seconds, YYYY-MM-DD or RFC3339")
	measType := fs.Int("type", 0, "meastype (1 weight, 4 size, 5 fat free mass, 6 fat ratio, 8 fat mass)")
	category := fs.Int("category", 0, "category (1 measures, 2 objectives)")
	limit := fs.Int("limit", 0, "maximum number of groups")
	offset := fs.Int("offset", 0, "number of groups to skip")
	if err := fs.Parse(args); err != nil {
		return err
	}

	query := withings.MeasureQuery{
		MeasureType: withings.MeasureType(*measType),
		Category:    withings.Category(*category),
		Limit:       *limit,
		Offset:      *offset,
	}
	var err error
	if query.StartDate, err = app.ParseTime(*start); err != nil {
		return fmt.Errorf("-start: %w", err)
	}
	if query.EndDate, err = app.ParseTime(*end); err != nil {
		return fmt.Errorf("-end: %w", err)
	}
	if query.LastUpdate, err = app.ParseTime(*lastUpdate); err != nil {
		return fmt.Errorf("-lastupdate: %w", err)
	}

	env, err := app.NewEnv(*common.config, os.Stderr)
	if err != nil {
		return err
	}
	creds, err := env.Credentials(*common.user, *common.key)
	if err != nil {
		return err
	}
	return app.PrintMeasures(ctx, env.Client, creds, query, os.Stdout)
}

func runUser(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("user", flag.ContinueOnError)
	common := addCommonFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	env, err := app.NewEnv(*common.config, os.Stderr)
	if err != nil {
		return err
	}
	creds, err := env.Credentials(*common.user, *common.key)
	if err != nil {
		return err
	}
	return app.PrintUser(ctx, env.Client, creds, os.Stdout)
}

func runUsers(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("users", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Usage: bodyscale users -email address")
		fmt.Fprintln(fs.Output(), "The password is read from BODYSCALE_PASSWORD in the process environment (not .env) or the first line of stdin.")
		fs.PrintDefaults()
	}
	configPath := fs.String("config", "", "override config path (optional)")
	email := fs.String("email", "", "account email address")
	if err := fs.Parse(args); err != nil {
		return err
	}

	password, err := app.ReadPassword(os.Getenv("BODYSCALE_PASSWORD"), os.Stdin)
	if err != nil {
		return err
	}
	env, err := app.NewEnv(*configPath, os.Stderr)
	if err != nil {
		return err
	}
	return app.PrintUsersList(ctx, env.Client, *email, password, os.Stdout)
}
