package cli

import (
	"bufio"
	"context"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// isTerminal is a test seam; the prompt is only shown to interactive users.
var isTerminal = func(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

var usage = []string{
	"> create_patient <username> <password>",
	"> create_caregiver <username> <password>",
	"> login_patient <username> <password>",
	"> login_caregiver <username> <password>",
	"> search_caregiver_schedule <date>",
	"> reserve <date> <vaccine>",
	"> upload_availability <date>",
	"> cancel <appointment_id>",
	"> add_doses <vaccine> <number>",
	"> show_appointments",
	"> logout",
	"> Quit",
}

func (a *App) printBanner() {
	a.println()
	a.println("Welcome to the COVID-19 Vaccine Reservation Scheduling Application!")
	a.println()
	a.println(" *** Please enter one of the following commands *** ")
	for _, line := range usage {
		a.println(line)
	}
	a.println()
}

// Run prints the banner and serves commands read from in, one per line,
// until quit or end of input.
func (a *App) Run(ctx context.Context, in io.Reader) error {
	a.printBanner()
	a.logger.Info(ctx, "session started")

	err := a.runREPL(ctx, bufio.NewScanner(in), isTerminal(in))

	a.logger.Info(ctx, "session ended")
	return err
}

// readLines feeds scanned lines to the returned channel until input ends or
// stop is closed. The scan error, if any, is sent on errc before lines closes.
func readLines(scanner *bufio.Scanner, stop <-chan struct{}) (<-chan string, <-chan error) {
	lines := make(chan string)
	errc := make(chan error, 1)

	go func() {
		defer close(lines)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-stop:
				return
			}
		}
		errc <- scanner.Err()
	}()

	return lines, errc
}

// runREPL dispatches each non-blank line on its lower-cased first token.
// Arguments keep their case. It returns when ctx is cancelled, even while
// waiting for input.
func (a *App) runREPL(ctx context.Context, scanner *bufio.Scanner, prompt bool) error {
	stop := make(chan struct{})
	defer close(stop)
	lines, errc := readLines(scanner, stop)

	for {
		if ctx.Err() != nil {
			a.logger.Info(ctx, "interrupted")
			return nil
		}
		if prompt {
			io.WriteString(a.out, "> ")
		}

		var line string
		select {
		case <-ctx.Done():
			a.logger.Info(ctx, "interrupted")
			return nil
		case l, ok := <-lines:
			if !ok {
				return <-errc
			}
			line = l
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		op := strings.ToLower(parts[0])

		if op == "quit" {
			a.println("Bye!")
			return nil
		}

		cmd, ok := a.commands[op]
		if !ok {
			a.println("Invalid operation name!")
			continue
		}
		a.logger.Debug(ctx, "command", "command", op, "args", len(parts)-1)
		cmd(ctx, parts[1:])
	}
}
