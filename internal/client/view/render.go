package view

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sangkips/invoice-desk/internal/domain/entity"
)

const paidAtLayout = "2006-01-02 15:04:05"

type styles struct {
	title   lipgloss.Style
	success lipgloss.Style
	failure lipgloss.Style
	card    lipgloss.Style
	paid    lipgloss.Style
	label   lipgloss.Style
	muted   lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	card := r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#cccccc")).
		Padding(0, 1)
	return styles{
		title:   r.NewStyle().Bold(true).MarginBottom(1),
		success: r.NewStyle().Foreground(lipgloss.Color("#222222")).Background(lipgloss.Color("#e0ffe0")).Padding(0, 1),
		failure: r.NewStyle().Foreground(lipgloss.Color("#ffffff")).Background(lipgloss.Color("#cc3333")).Padding(0, 1),
		card:    card,
		paid:    card.BorderForeground(lipgloss.Color("#4caf50")),
		label:   r.NewStyle().Bold(true),
		muted:   r.NewStyle().Faint(true),
	}
}

// Render writes the current screen to w. Colours follow w's terminal profile.
func (v *View) Render(w io.Writer) error {
	s := newStyles(lipgloss.NewRenderer(w))

	var b strings.Builder
	b.WriteString(s.title.Render("Invoices"))
	b.WriteString("\n")

	if f := v.Message(); f != nil {
		style := s.success
		if f.Kind == FlashFailure {
			style = s.failure
		}
		b.WriteString(style.Render(f.Text))
		b.WriteString("\n\n")
	}

	switch {
	case v.loading:
		b.WriteString("Loading invoices...\n")
	case v.err != nil:
		fmt.Fprintf(&b, "Error: %s\n", v.err)
	case len(v.invoices) == 0:
		b.WriteString(s.muted.Render("No invoices found."))
		b.WriteString("\n")
	default:
		for _, inv := range v.invoices {
			style := s.card
			if inv.Paid {
				style = s.paid
			}
			b.WriteString(style.Render(v.invoiceBody(s, inv)))
			b.WriteString("\n")
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func (v *View) invoiceBody(s styles, inv entity.Invoice) string {
	lines := []string{
		s.label.Render("ID: ") + strconv.FormatInt(inv.ID, 10),
		s.label.Render("Company: ") + inv.CompCode,
		s.label.Render("Amount: ") + "$" + strconv.FormatFloat(inv.Amount, 'f', -1, 64),
		s.label.Render("Paid: ") + yesNo(inv.Paid),
	}
	if inv.Paid && inv.PaidAt != nil {
		lines = append(lines, s.label.Render("Paid at: ")+inv.PaidAt.Local().Format(paidAtLayout))
	}
	lines = append(lines,
		s.label.Render("Recurring: ")+yesNo(inv.Recurring),
		s.label.Render("Card: ")+"**** "+inv.CardLast4,
		s.label.Render("Auto-bill: ")+yesNo(inv.AutoBill),
	)
	if pending, ok := v.cards[inv.ID]; ok {
		lines = append(lines, s.muted.Render("New card: "+pending))
	}
	return strings.Join(lines, "\n")
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
