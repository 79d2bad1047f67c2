package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/magabrotheeeer/milk-customer/internal/app/customer"
	"github.com/magabrotheeeer/milk-customer/internal/config"
	"github.com/magabrotheeeer/milk-customer/internal/lib/month"
	"github.com/magabrotheeeer/milk-customer/internal/lib/sl"
	"github.com/magabrotheeeer/milk-customer/internal/navigation"
	"github.com/magabrotheeeer/milk-customer/internal/screens"
)

var (
	errUsage       = errors.New("usage")
	errNotLoggedIn = errors.New("not logged in, run: milk-customer login")
	errLoggedIn    = errors.New("already logged in, run: milk-customer logout")
)

type command struct {
	usage string
	// flow поток, в котором команда имеет смысл.
	flow navigation.Flow
	run  func(ctx context.Context, c *cli, args []string) error
}

var commands = map[string]command{
	"login":     {"login -phone 03xxxxxxxxx -password ***", navigation.Unauthenticated, runLogin},
	"signup":    {"signup -name NAME -phone 03xxxxxxxxx -password *** [-confirm ***]", navigation.Unauthenticated, runSignup},
	"logout":    {"logout", navigation.Authenticated, runLogout},
	"whoami":    {"whoami", navigation.Authenticated, runWhoami},
	"dashboard": {"dashboard [-month YYYY-MM]", navigation.Authenticated, runDashboard},
	"milk":      {"milk [-month YYYY-MM]", navigation.Authenticated, runMilk},
	"payments":  {"payments [-refresh]", navigation.Authenticated, runPayments},
	"pay":       {"pay -amount N [-method Cash] [-date YYYY-MM-DD] [-note TEXT]", navigation.Authenticated, runPay},
	"bills":     {"bills", navigation.Authenticated, runBills},
	"pay-bill":  {"pay-bill -id ID -amount N [-method Cash]", navigation.Authenticated, runPayBill},
}

type cli struct {
	app *customer.App
	ui  *terminalUI
	out io.Writer
	log *slog.Logger
	now func() time.Time
	// bootErr ошибка загрузки главного экрана при запуске.
	bootErr error
}

// run выполняет подкоманду и возвращает код выхода.
func run(ctx context.Context, cfg *config.Config, args []string, stdout, stderr io.Writer, log *slog.Logger) int {
	if len(args) == 0 {
		printUsage(stderr)
		return 1
	}
	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n", args[0])
		printUsage(stderr)
		return 1
	}

	ui := &terminalUI{w: stderr}
	app, err := customer.New(ctx, cfg, ui, log)
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	defer func() {
		if totals, err := app.RequestTotals(); err == nil {
			log.Debug("client metrics", slog.Any("totals", totals))
		}
		_ = app.Close()
	}()

	c := &cli{app: app, ui: ui, out: stdout, log: log, now: time.Now}
	if err := c.boot(ctx, cmd.flow); err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}

	if err := cmd.run(ctx, c, args[1:]); err != nil {
		if errors.Is(err, errUsage) || errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(stderr, "usage: milk-customer", cmd.usage)
			return 1
		}
		reportError(stderr, err, ui.alerted())
		if ui.sessionExpired() {
			fmt.Fprintln(stderr, "Run: milk-customer login")
		}
		return 1
	}
	return 0
}

// boot запускает навигатор и проверяет, что команда доступна в текущем потоке.
func (c *cli) boot(ctx context.Context, want navigation.Flow) error {
	err := c.app.Navigator.Boot(ctx)
	flow := c.app.Navigator.Flow()
	if flow == navigation.Booting {
		return err
	}
	if err != nil {
		c.log.Debug("home load at boot failed", sl.Err(err))
		c.bootErr = err
	}
	switch {
	case want == navigation.Authenticated && flow != navigation.Authenticated:
		return errNotLoggedIn
	case want == navigation.Unauthenticated && flow != navigation.Unauthenticated:
		return errLoggedIn
	}
	return nil
}

// reportError печатает ошибки, которые экран не показал сам.
func reportError(w io.Writer, err error, alerted bool) {
	if fe, ok := screens.AsFieldErrors(err); ok {
		fields := make([]string, 0, len(fe))
		for f := range fe {
			fields = append(fields, f)
		}
		sort.Strings(fields)
		for _, f := range fields {
			fmt.Fprintf(w, "%s: %s\n", f, fe[f])
		}
		return
	}
	if alerted {
		return
	}
	fmt.Fprintln(w, "Error:", err)
}

func printUsage(w io.Writer) {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Fprintln(w, "usage: milk-customer <command> [flags]")
	for _, name := range names {
		fmt.Fprintln(w, "  "+commands[name].usage)
	}
}

func newFlags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

// parseMonth разбирает необязательный флаг -month.
func parseMonth(s string) (time.Time, bool, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false, nil
	}
	m, err := month.Parse(s)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("month must be YYYY-MM: %w", errUsage)
	}
	return m, true, nil
}
