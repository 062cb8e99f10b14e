package view

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const sessionHelp = `Commands:
  list                         refetch and show invoices
  new <comp_code> <amount> [recurring]
                               create an invoice
  pay <id>                     mark paid
  autobill <id>                enable auto-bill
  toggle <id>                  toggle recurring
  card <id> [digits]           update card (blank submits 0000)
  delete <id>                  delete after confirmation
  help                         show this help
  quit                         exit
`

// Session drives a View from line-oriented input
type Session struct {
	in  *bufio.Scanner
	out io.Writer
	v   *View
}

// NewSession builds a view over api whose delete confirmation reads the next
// input line
func NewSession(api API, in io.Reader, out io.Writer, opts ...Option) *Session {
	s := &Session{in: bufio.NewScanner(in), out: out}
	opts = append(opts, WithConfirmer(s.confirm))
	s.v = New(api, opts...)
	return s
}

// Run mounts the view and processes commands until quit, EOF or ctx is done
func (s *Session) Run(ctx context.Context) error {
	_ = s.v.Mount(ctx)
	if err := s.v.Render(s.out); err != nil {
		return err
	}
	fmt.Fprint(s.out, "Type 'help' for commands.\n")

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(s.out, "> ")
		if !s.in.Scan() {
			return s.in.Err()
		}
		fields := strings.Fields(s.in.Text())
		if len(fields) == 0 {
			continue
		}
		quit, err := s.dispatch(ctx, fields)
		if quit {
			return nil
		}
		if err != nil && !errors.Is(err, ErrCancelled) {
			fmt.Fprintf(s.out, "%s\n", err)
		}
		if err := s.v.Render(s.out); err != nil {
			return err
		}
	}
}

func (s *Session) dispatch(ctx context.Context, fields []string) (bool, error) {
	cmd, args := strings.ToLower(fields[0]), fields[1:]
	switch cmd {
	case "quit", "exit", "q":
		return true, nil
	case "help", "?":
		fmt.Fprint(s.out, sessionHelp)
		return false, nil
	case "list", "ls", "refresh":
		return false, s.v.Refresh(ctx)
	case "new", "create":
		if len(args) < 2 {
			return false, errors.New("usage: new <comp_code> <amount> [recurring]")
		}
		s.v.SetCompCode(args[0])
		s.v.SetAmount(args[1])
		s.v.SetRecurring(len(args) > 2 && isTruthy(args[2]))
		return false, s.v.SubmitCreate(ctx)
	}

	if len(args) < 1 {
		return false, fmt.Errorf("usage: %s <id>", cmd)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return false, fmt.Errorf("invalid invoice id %q", args[0])
	}

	switch cmd {
	case "pay":
		return false, s.v.Pay(ctx, id)
	case "autobill", "auto-bill":
		return false, s.v.EnableAutoBill(ctx, id)
	case "toggle", "recurring":
		return false, s.v.ToggleRecurring(ctx, id)
	case "card":
		digits := ""
		if len(args) > 1 {
			digits = args[1]
		}
		s.v.SetCardInput(id, digits)
		return false, s.v.UpdateCard(ctx, id)
	case "delete", "rm":
		return false, s.v.Delete(ctx, id)
	}
	return false, fmt.Errorf("unknown command %q, type 'help'", cmd)
}

func (s *Session) confirm(prompt string) bool {
	fmt.Fprintf(s.out, "%s [y/N] ", prompt)
	if !s.in.Scan() {
		return false
	}
	return isTruthy(strings.TrimSpace(s.in.Text()))
}

func isTruthy(s string) bool {
	switch strings.ToLower(s) {
	case "y", "yes", "true", "1", "recurring":
		return true
	}
	return false
}
