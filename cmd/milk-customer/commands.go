package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/magabrotheeeer/milk-customer/internal/lib/month"
	"github.com/magabrotheeeer/milk-customer/internal/navigation"
	"github.com/magabrotheeeer/milk-customer/internal/screens"
)

func runLogin(ctx context.Context, c *cli, args []string) error {
	fs := newFlags("login")
	phone := fs.String("phone", "", "phone number")
	password := fs.String("password", "", "password")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if err := c.app.Login.Submit(ctx, *phone, *password); err != nil {
		return err
	}
	return printHome(c)
}

func runSignup(ctx context.Context, c *cli, args []string) error {
	fs := newFlags("signup")
	name := fs.String("name", "", "full name")
	phone := fs.String("phone", "", "phone number")
	password := fs.String("password", "", "password")
	confirm := fs.String("confirm", "", "password confirmation, defaults to -password")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if *confirm == "" {
		*confirm = *password
	}
	if err := c.app.Navigator.Navigate(ctx, navigation.RouteSignup); err != nil {
		return err
	}
	return c.app.Signup.Submit(ctx, screens.SignupInput{
		Name:     *name,
		Phone:    *phone,
		Password: *password,
		Confirm:  *confirm,
	})
}

func runLogout(ctx context.Context, c *cli, _ []string) error {
	if err := c.app.Home.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "Logged out")
	return nil
}

func runWhoami(ctx context.Context, c *cli, _ []string) error {
	profile, err := c.app.Store.User(ctx)
	if err != nil {
		return err
	}
	name := profile.Username()
	if name == "" {
		name = "(unknown)"
	}
	fmt.Fprintln(c.out, name)
	if p, ok := profile["phone_number"].(string); ok && p != "" {
		fmt.Fprintln(c.out, p)
	}
	return nil
}

func runDashboard(ctx context.Context, c *cli, args []string) error {
	fs := newFlags("dashboard")
	monthFlag := fs.String("month", "", "month YYYY-MM")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	m, ok, err := parseMonth(*monthFlag)
	if err != nil {
		return err
	}
	if ok {
		if err := c.app.Home.SelectMonth(ctx, m); err != nil {
			return err
		}
	} else if c.bootErr != nil {
		return c.bootErr
	}
	return printHome(c)
}

func runMilk(ctx context.Context, c *cli, args []string) error {
	fs := newFlags("milk")
	monthFlag := fs.String("month", "", "month YYYY-MM")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	m, ok, err := parseMonth(*monthFlag)
	if err != nil {
		return err
	}
	if err := c.app.Navigator.SelectTab(ctx, navigation.RouteMilk); err != nil {
		return err
	}
	if ok {
		if err := c.app.Milk.SelectMonth(ctx, m); err != nil {
			return err
		}
	}
	printMilk(c.out, c.app.Milk.View())
	return nil
}

func runPayments(ctx context.Context, c *cli, args []string) error {
	fs := newFlags("payments")
	refresh := fs.Bool("refresh", false, "pull-to-refresh after the first load")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if err := c.app.Navigator.SelectTab(ctx, navigation.RoutePayments); err != nil {
		return err
	}
	if *refresh {
		if err := c.app.Payments.Refresh(ctx); err != nil {
			return err
		}
	}
	printPayments(c.out, c.app.Payments.View())
	return nil
}

func runPay(ctx context.Context, c *cli, args []string) error {
	fs := newFlags("pay")
	amount := fs.String("amount", "", "amount")
	method := fs.String("method", screens.PaymentMethods[0], "one of: "+strings.Join(screens.PaymentMethods, ", "))
	date := fs.String("date", "", "payment date YYYY-MM-DD, defaults to today")
	note := fs.String("note", "", "note")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	day, err := parseDay(*date, c.now())
	if err != nil {
		return err
	}
	if err := c.app.Navigator.Navigate(ctx, navigation.RouteAddPayment); err != nil {
		return err
	}
	form := c.app.AddPayment.Form()
	form.Amount = *amount
	form.Method = *method
	form.Date = day
	form.Note = *note
	if err := c.app.AddPayment.Submit(ctx, form); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "Payment submitted")
	return nil
}

func runBills(ctx context.Context, c *cli, _ []string) error {
	if err := c.app.Navigator.SelectTab(ctx, navigation.RouteBills); err != nil {
		return err
	}
	printBills(c.out, c.app.Bills.View())
	return nil
}

func runPayBill(ctx context.Context, c *cli, args []string) error {
	fs := newFlags("pay-bill")
	id := fs.String("id", "", "bill id")
	amount := fs.String("amount", "", "amount")
	method := fs.String("method", screens.PaymentMethods[0], "one of: "+strings.Join(screens.PaymentMethods, ", "))
	if err := fs.Parse(args); err != nil || *id == "" {
		return errUsage
	}
	if err := c.app.Navigator.SelectTab(ctx, navigation.RouteBills); err != nil {
		return err
	}
	form, err := c.app.Bills.Open(*id)
	if err != nil {
		return err
	}
	form.Amount = *amount
	form.Method = *method
	if err := c.app.Bills.Pay(ctx, form); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Payment submitted: %s\n", form.Note)
	printBills(c.out, c.app.Bills.View())
	return nil
}

func parseDay(s string, now time.Time) (time.Time, error) {
	if s == "" {
		return now, nil
	}
	day, err := month.ParseDate(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("date must be YYYY-MM-DD: %w", errUsage)
	}
	return day, nil
}
