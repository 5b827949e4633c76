package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isSignedIn() bool
	isAdmin() bool
	Home(ctx context.Context) error
	Show(ctx context.Context, id string) error
	SignIn(ctx context.Context) error
	SignUp(ctx context.Context) error
	SignOut(ctx context.Context) error
	Account(ctx context.Context) error
	ChangePassword(ctx context.Context) error
	Admin(ctx context.Context) error
	Add(ctx context.Context) error
	Edit(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	Upload(ctx context.Context, path string) error
	Grant(ctx context.Context, userID, role string) error
}

// runREPL reads commands line by line from reader and dispatches them to a.
// The first token is the command, the rest its arguments. It returns on EOF,
// when ctx is done, or when the user types "exit" or "quit".
//
//	Anyone:
//	  - help                      show available commands
//	  - list | home               list all philosophies
//	  - show <id>                 read one philosophy
//	  - signin | signup           the sign-in page
//	  - exit | quit               leave the program
//
//	Signed in:
//	  - whoami                    account details
//	  - passwd                    change password
//	  - signout                   sign out
//
//	Admins:
//	  - admin                     the admin page
//	  - add | edit <id> | delete <id>
//	  - upload <path>             upload an image, print its URL
//	  - grant <user-id> <role>    set a user's role
//
// Errors returned by command handlers are ignored here; handlers report
// their own errors to the user.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("philosophies %s > ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			printlnFn(helpText(a))

		case "list", "home", "l":
			_ = a.Home(ctx)

		case "show":
			if len(args) != 1 {
				printlnFn("Usage: show <id>")
				continue
			}
			_ = a.Show(ctx, args[0])

		case "signin", "login":
			_ = a.SignIn(ctx)

		case "signup", "register":
			_ = a.SignUp(ctx)

		case "signout", "logout":
			_ = a.SignOut(ctx)

		case "whoami", "account":
			_ = a.Account(ctx)

		case "passwd":
			_ = a.ChangePassword(ctx)

		case "admin":
			_ = a.Admin(ctx)

		case "add":
			_ = a.Add(ctx)

		case "edit":
			if len(args) != 1 {
				printlnFn("Usage: edit <id>")
				continue
			}
			_ = a.Edit(ctx, args[0])

		case "delete":
			if len(args) != 1 {
				printlnFn("Usage: delete <id>")
				continue
			}
			_ = a.Delete(ctx, args[0])

		case "upload":
			path := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), cmd))
			if path == "" {
				printlnFn("Usage: upload <path>")
				continue
			}
			_ = a.Upload(ctx, path)

		case "grant":
			if len(args) != 2 {
				printlnFn("Usage: grant <user-id> <admin|user>")
				continue
			}
			_ = a.Grant(ctx, args[0], args[1])

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

func helpText(a execIface) string {
	cmds := []string{"list", "show <id>"}
	if a.isSignedIn() {
		cmds = append(cmds, "whoami", "passwd", "signout")
	} else {
		cmds = append(cmds, "signin", "signup")
	}
	if a.isAdmin() {
		cmds = append(cmds, "admin", "add", "edit <id>", "delete <id>", "upload <path>", "grant <user-id> <role>")
	}
	cmds = append(cmds, "exit")
	return "Available commands: " + strings.Join(cmds, ", ")
}
