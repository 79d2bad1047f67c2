package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/magabrotheeeer/milk-customer/internal/lib/money"
	"github.com/magabrotheeeer/milk-customer/internal/lib/month"
	"github.com/magabrotheeeer/milk-customer/internal/screens"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func litres(v float64) string {
	return money.Format(v) + " L"
}

func printHome(c *cli) error {
	v := c.app.Home.View()
	if v.UserName != "" {
		fmt.Fprintf(c.out, "Welcome, %s\n\n", v.UserName)
	}
	if !v.Stats.HasData {
		return nil
	}
	stats := v.Stats.Data
	tw := newTable(c.out)
	fmt.Fprintln(tw, "MONTH\tMILK\tAMOUNT")
	fmt.Fprintf(tw, "%s\t%s\t%s\n", month.Title(stats.Month), litres(stats.Current.TotalMilkSold.Float()), money.RsDecimal(stats.Current.GrandTotal.String()))
	fmt.Fprintf(tw, "%s\t%s\t%s\n", month.Title(month.Previous(stats.Month)), litres(stats.Previous.TotalMilkSold.Float()), money.RsDecimal(stats.Previous.GrandTotal.String()))
	return tw.Flush()
}

func printMilk(w io.Writer, v screens.MilkView) {
	fmt.Fprintln(w, v.Title)
	fmt.Fprintf(w, "Total: %s, %s\n\n", litres(v.Summary.TotalMilkSold.Float()), money.RsDecimal(v.Summary.GrandTotal.String()))
	if v.Empty != "" {
		fmt.Fprintln(w, v.Empty)
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "DATE\tQUANTITY\tAMOUNT\tSTATUS")
	for _, r := range v.Records {
		date := r.DisplayDate
		if date == "" {
			date = r.Date
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", date, litres(r.Quantity.Float()), money.RsDecimal(r.TotalAmount.String()), r.PaymentStatus)
	}
	_ = tw.Flush()
}

func printPayments(w io.Writer, v screens.PaymentHistoryView) {
	fmt.Fprintf(w, "Approved: %s\nPending: %s\nPayments: %s\n\n",
		money.RsDecimal(v.Summary.ApprovedAmount.String()),
		money.RsDecimal(v.Summary.PendingAmount.String()),
		v.Summary.TotalPayments.String(),
	)
	if v.Empty != "" {
		fmt.Fprintln(w, v.Empty)
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tDATE\tMETHOD\tSTATUS\tAMOUNT\tNOTE")
	for _, p := range v.Payments {
		date := p.DisplayDate
		if date == "" {
			date = p.PaymentDate
		}
		note := ""
		if p.Note != nil {
			note = *p.Note
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", p.ID, date, p.PaymentMethod, p.PaymentStatus, money.RsDecimal(p.Amount.String()), note)
	}
	_ = tw.Flush()
}

func printBills(w io.Writer, v screens.BillsView) {
	if v.Empty != "" {
		fmt.Fprintln(w, v.Empty)
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tPERIOD\tTOTAL\tPAID\tDUE\tSTATUS")
	for _, b := range v.Bills {
		fmt.Fprintf(tw, "%s\t%s - %s\t%s\t%s\t%s\t%s\n", b.ID, b.FromDate, b.ToDate,
			money.RsDecimal(b.TotalAmount.String()), money.RsDecimal(b.PaidAmount.String()), money.RsDecimal(b.DueAmount.String()), b.Status)
	}
	_ = tw.Flush()
}
