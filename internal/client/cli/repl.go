package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/pestcrm/internal/client/client"
	"github.com/dmitrijs2005/pestcrm/internal/client/models"
	"github.com/dmitrijs2005/pestcrm/internal/client/services"
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Home(ctx context.Context) error
	Login(ctx context.Context) error
	Register(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Open(ctx context.Context, path string) error
	Back(ctx context.Context) error
	Products(ctx context.Context, args []string) error
	Categories(ctx context.Context, args []string) error
	Catalog(ctx context.Context, args []string) error
	Enquiry(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the CRM admin CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. The loop exits on EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Always:
//	  - help                       show available commands
//	  - home                       public landing page
//	  - catalog [category]         public product catalog
//	  - enquiry                    submit a service enquiry
//	  - open <path>                navigate to a route
//	  - back                       previous route
//	  - exit | quit                leave the program
//
//	Not logged in:
//	  - login, register
//
//	Logged in:
//	  - whoami, logout
//	  - products [list|show|add|edit|delete] [id]
//	  - categories [list|show|add|edit|delete] [id]
//
// Handler errors are printed and the loop continues. All REPL output goes
// to out, the same writer the App handlers use.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, out io.Writer) {
	say := func(args ...any) { fmt.Fprintln(out, args...) }
	for {
		say(fmt.Sprintf("crm %s > ", statusFn()))
		line, err := readLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				say("Available commands: whoami, products, categories, catalog, enquiry, open <path>, back, home, logout, exit")
			} else {
				say("Available commands: login, register, catalog, enquiry, open <path>, back, home, exit")
			}

		case "home":
			cmdErr = a.Home(ctx)

		case "login":
			cmdErr = a.Login(ctx)

		case "register":
			cmdErr = a.Register(ctx)

		case "logout":
			cmdErr = a.Logout(ctx)

		case "whoami":
			cmdErr = a.WhoAmI(ctx)

		case "open":
			if len(args) == 0 {
				say("Usage: open <path>")
				continue
			}
			cmdErr = a.Open(ctx, args[0])

		case "back":
			cmdErr = a.Back(ctx)

		case "products":
			cmdErr = a.Products(ctx, args)

		case "categories":
			cmdErr = a.Categories(ctx, args)

		case "catalog":
			cmdErr = a.Catalog(ctx, args)

		case "enquiry":
			cmdErr = a.Enquiry(ctx)

		case "exit", "quit":
			say("Bye!")
			return

		default:
			say("Unknown command:", cmd)
		}

		if cmdErr != nil {
			say(describeError(cmdErr))
		}
	}
}

// describeError turns a handler error into a line for the user.
func describeError(err error) string {
	var authErr *services.AuthError
	var vErr *models.ValidationError
	switch {
	case errors.As(err, &authErr):
		return "Login failed: " + authErr.Message
	case errors.As(err, &vErr):
		return "Invalid input: " + strings.TrimPrefix(vErr.Error(), "validation failed: ")
	case errors.Is(err, errUsage):
		return "Usage: " + strings.TrimPrefix(err.Error(), errUsage.Error()+": ")
	case errors.Is(err, ErrUnknownRoute):
		return "Not found: " + strings.TrimPrefix(err.Error(), ErrUnknownRoute.Error()+": ")
	case errors.Is(err, client.ErrUnauthorized):
		return "Not signed in or session expired."
	case errors.Is(err, client.ErrForbidden):
		return "The server refused: insufficient permissions."
	case errors.Is(err, client.ErrNotFound):
		return "Not found."
	case errors.Is(err, client.ErrUnavailable):
		return "Server unavailable, try again later."
	}
	return "Error: " + err.Error()
}
