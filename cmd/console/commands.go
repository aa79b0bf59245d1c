package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/licensehub/console-gateway/internal/client"
	"github.com/licensehub/console-gateway/internal/core/domain"
	"github.com/licensehub/console-gateway/internal/core/service"
)

type command struct {
	usage string
	run   func(ctx context.Context, a *app, args []string) error
}

var commands = map[string]command{
	"login":           {"login -username <user> [-password <pass>]", cmdLogin},
	"logout":          {"logout", cmdLogout},
	"whoami":          {"whoami", cmdWhoami},
	"summary":         {"summary", cmdSummary},
	"partners":        {"partners [-q <query>] [-status all|active|suspended]", cmdPartners},
	"partner":         {"partner <id>", cmdPartner},
	"partner-add":     {"partner-add -name <name> -email <email> -phone <phone>", cmdPartnerAdd},
	"partner-update":  {"partner-update <id> -name <name> -email <email> -phone <phone> [-status Active|Suspended]", cmdPartnerUpdate},
	"partner-suspend": {"partner-suspend <id>", cmdPartnerSuspend},
	"plans":           {"plans [-q <query>]", cmdPlans},
	"plan-add":        {"plan-add -name <name> -price <amount> -branches <n> -devices <n> [-description <text>]", cmdPlanAdd},
	"licenses":        {"licenses [-q <query>] [-status all|active|pending]", cmdLicenses},
}

var errUsage = errors.New("usage")

type app struct {
	console *client.Console
	out     io.Writer
}

func newApp(console *client.Console, out io.Writer) *app {
	return &app{console: console, out: out}
}

func (a *app) dispatch(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.usage()
		return errUsage
	}
	cmd, ok := commands[args[0]]
	if !ok {
		a.usage()
		return fmt.Errorf("unknown command %q", args[0])
	}
	err := cmd.run(ctx, a, args[1:])
	if errors.Is(err, errUsage) {
		return fmt.Errorf("usage: console %s", cmd.usage)
	}
	return err
}

func (a *app) usage() {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(a.out, "usage: console <command> [flags]")
	for _, name := range names {
		fmt.Fprintf(a.out, "  %s\n", commands[name].usage)
	}
}

func (a *app) table(header string, rows func(w io.Writer)) {
	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, header)
	rows(w)
	_ = w.Flush()
}

func newFlags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

// parse accepts flags before or after positional arguments.
func parse(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, errUsage
		}
		args = fs.Args()
		if len(args) == 0 {
			return positional, nil
		}
		positional = append(positional, args[0])
		args = args[1:]
	}
}

// ---------------------------------------------------------------------------
// Session
// ---------------------------------------------------------------------------

func cmdLogin(ctx context.Context, a *app, args []string) error {
	fs := newFlags("login")
	username := fs.String("username", "", "")
	password := fs.String("password", os.Getenv("CONSOLE_PASSWORD"), "")
	if _, err := parse(fs, args); err != nil {
		return err
	}
	if *username == "" || *password == "" {
		return errUsage
	}

	resp, err := a.console.Login(ctx, domain.Credentials{Username: *username, Password: *password})
	if err != nil {
		return err
	}
	msg := resp.Message
	if msg == "" {
		msg = "Login successful"
	}
	fmt.Fprintf(a.out, "%s, logged in as %s (%s)\n", msg, displayName(resp.User), resp.User.Role)
	return nil
}

func cmdLogout(ctx context.Context, a *app, _ []string) error {
	if err := a.console.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "logged out")
	return nil
}

func cmdWhoami(ctx context.Context, a *app, _ []string) error {
	s, err := a.console.Session(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "user:    %s\nrole:    %s\n", displayName(s.User), s.User.Role)
	if s.User.PartnerID != "" {
		fmt.Fprintf(a.out, "partner: %s\n", s.User.PartnerID)
	}
	if exp, ok := s.ExpiresAt(); ok {
		fmt.Fprintf(a.out, "expires: %s\n", exp.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

func displayName(u domain.User) string {
	switch {
	case u.Name != "":
		return u.Name
	case u.Email != "":
		return u.Email
	case u.ID != "":
		return u.ID
	}
	return "unknown user"
}

// ---------------------------------------------------------------------------
// Dashboard
// ---------------------------------------------------------------------------

func cmdSummary(ctx context.Context, a *app, _ []string) error {
	sum, err := a.console.Summary(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Total partners:     %d\n", sum.Partners.Total)
	fmt.Fprintf(a.out, "Active partners:    %d\n", sum.Partners.Active)
	fmt.Fprintf(a.out, "Suspended partners: %d\n", sum.Partners.Suspended)
	fmt.Fprintf(a.out, "Subscription plans: %d\n", sum.Plans)
	return nil
}

// ---------------------------------------------------------------------------
// Partners
// ---------------------------------------------------------------------------

func cmdPartners(ctx context.Context, a *app, args []string) error {
	fs := newFlags("partners")
	query := fs.String("q", "", "")
	status := fs.String("status", service.StatusAll, "")
	if _, err := parse(fs, args); err != nil {
		return err
	}

	partners, err := a.console.Partners(ctx)
	if err != nil {
		return err
	}
	st := service.CountPartners(partners)
	filtered := service.FilterPartners(partners, *query, *status)

	a.table("ID\tNAME\tEMAIL\tPHONE\tSTATUS\tJOINED", func(w io.Writer) {
		for _, p := range filtered {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", p.ID, p.BusinessName, p.BusinessEmail, p.BusinessPhone, p.Status, p.JoinedDate)
		}
	})
	fmt.Fprintf(a.out, "\n%d shown, %d total, %d active, %d suspended\n", len(filtered), st.Total, st.Active, st.Suspended)
	return nil
}

func cmdPartner(ctx context.Context, a *app, args []string) error {
	pos, err := parse(newFlags("partner"), args)
	if err != nil || len(pos) != 1 {
		return errUsage
	}
	p, err := a.console.Partner(ctx, pos[0])
	if err != nil {
		return err
	}
	return a.printJSON(p)
}

func partnerFlags(name string) (*flag.FlagSet, *domain.PartnerInput, *string) {
	fs := newFlags(name)
	in := &domain.PartnerInput{}
	fs.StringVar(&in.BusinessName, "name", "", "")
	fs.StringVar(&in.BusinessEmail, "email", "", "")
	fs.StringVar(&in.BusinessPhone, "phone", "", "")
	status := fs.String("status", "", "")
	return fs, in, status
}

func cmdPartnerAdd(ctx context.Context, a *app, args []string) error {
	fs, in, _ := partnerFlags("partner-add")
	if _, err := parse(fs, args); err != nil {
		return err
	}
	if in.BusinessName == "" || in.BusinessEmail == "" || in.BusinessPhone == "" {
		return errUsage
	}

	p, err := a.console.CreatePartner(ctx, *in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "partner %s created\n", p.ID)
	return nil
}

func cmdPartnerUpdate(ctx context.Context, a *app, args []string) error {
	fs, in, status := partnerFlags("partner-update")
	pos, err := parse(fs, args)
	if err != nil || len(pos) != 1 {
		return errUsage
	}
	if in.BusinessName == "" || in.BusinessEmail == "" || in.BusinessPhone == "" {
		return errUsage
	}
	in.Status = domain.PartnerStatus(*status)

	p, err := a.console.UpdatePartner(ctx, pos[0], *in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "partner %s updated\n", p.ID)
	return nil
}

func cmdPartnerSuspend(ctx context.Context, a *app, args []string) error {
	pos, err := parse(newFlags("partner-suspend"), args)
	if err != nil || len(pos) != 1 {
		return errUsage
	}
	msg, err := a.console.SuspendPartner(ctx, pos[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, msg)
	return nil
}

// ---------------------------------------------------------------------------
// Subscription plans
// ---------------------------------------------------------------------------

func cmdPlans(ctx context.Context, a *app, args []string) error {
	fs := newFlags("plans")
	query := fs.String("q", "", "")
	if _, err := parse(fs, args); err != nil {
		return err
	}

	plans, err := a.console.Plans(ctx)
	if err != nil {
		return err
	}
	filtered := service.FilterPlans(plans, *query)

	a.table("ID\tNAME\tPRICE\tBRANCHES\tDEVICES\tDESCRIPTION", func(w io.Writer) {
		for _, p := range filtered {
			price := service.FormatRupiah(service.ParseAmount(p.Price.String()))
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\n", p.ID, p.PlanName, price, p.BranchLimit, p.DeviceLimit, p.Description)
		}
	})
	return nil
}

func cmdPlanAdd(ctx context.Context, a *app, args []string) error {
	fs := newFlags("plan-add")
	in := domain.PlanInput{}
	fs.StringVar(&in.PlanName, "name", "", "")
	fs.Float64Var(&in.Price, "price", -1, "")
	fs.IntVar(&in.BranchLimit, "branches", -1, "")
	fs.IntVar(&in.DeviceLimit, "devices", -1, "")
	fs.StringVar(&in.Description, "description", "", "")
	if _, err := parse(fs, args); err != nil {
		return err
	}
	if in.PlanName == "" || in.Price < 0 || in.BranchLimit < 0 || in.DeviceLimit < 0 {
		return errUsage
	}

	p, err := a.console.CreatePlan(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "plan %s created (%s)\n", p.ID, service.FormatRupiah(in.Price))
	return nil
}

// ---------------------------------------------------------------------------
// Licenses
// ---------------------------------------------------------------------------

func cmdLicenses(ctx context.Context, a *app, args []string) error {
	fs := newFlags("licenses")
	query := fs.String("q", "", "")
	status := fs.String("status", service.StatusAll, "")
	if _, err := parse(fs, args); err != nil {
		return err
	}

	licenses, err := a.console.Licenses(ctx)
	if err != nil {
		return err
	}
	st := service.CountLicenses(licenses)
	filtered := service.FilterLicenses(licenses, *query, *status)

	a.table("ID\tCODE\tPARTNER\tPLAN\tDEVICE\tSTATUS\tEXPIRES", func(w io.Writer) {
		for _, l := range filtered {
			device := "-"
			if l.DeviceName != nil {
				device = *l.DeviceName
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				l.ID, l.ActivationCode, orDash(l.PartnerName), orDash(l.PlanName), device, l.Status, orDash(l.ExpiryDate))
		}
	})
	fmt.Fprintf(a.out, "\n%d shown, %d total, %d active, %d pending\n", len(filtered), st.Total, st.Active, st.Pending)
	return nil
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
