package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

func (a *App) getStatus() string {
	s := ""
	if st := a.session.Snapshot(); st.Authenticated() {
		s = st.User.Username
	} else {
		s = "guest"
	}
	return fmt.Sprintf("(%s)", s)
}

// Root runs the interactive command loop until exit or EOF.
func (a *App) Root(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to GophStore (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Fprintf(a.out, "gstore %s> ", a.getStatus())
		if !scanner.Scan() {
			break
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			a.help()
		case "login":
			a.Login(ctx)
		case "register":
			a.Register(ctx)
		case "logout":
			a.Logout(ctx)
		case "whoami":
			a.whoami()
		case "overview":
			a.overview(ctx)
		case "categories":
			a.listCategories(ctx)
		case "products":
			a.listProducts(ctx, args)
		case "cart":
			a.showCart(ctx)
		case "add":
			a.addToCart(ctx, args)
		case "setqty":
			a.setQuantity(ctx, args)
		case "remove":
			a.removeFromCart(ctx, args)
		case "clear":
			a.clearCart(ctx)
		case "checkout":
			a.printWarning("Checkout is not available yet.")
		case "exit", "quit":
			fmt.Fprintln(a.out, "Bye!")
			return
		default:
			fmt.Fprintln(a.out, "Unknown command:", cmd)
		}
	}
}

func (a *App) help() {
	fmt.Fprintln(a.out, "Available commands:")
	fmt.Fprintln(a.out, "  login, register, logout, whoami")
	fmt.Fprintln(a.out, "  overview, categories, products [category-id]")
	fmt.Fprintln(a.out, "  cart, add <product-id> [qty], setqty <product-id> <qty>, remove <product-id>, clear")
	fmt.Fprintln(a.out, "  checkout (disabled), exit")
}

func (a *App) whoami() {
	st := a.session.Snapshot()
	if !st.Authenticated() {
		fmt.Fprintln(a.out, "Not logged in.")
		return
	}
	fmt.Fprintf(a.out, "%s", st.User.Username)
	if st.User.Email != "" {
		fmt.Fprintf(a.out, " <%s>", st.User.Email)
	}
	fmt.Fprintln(a.out)
}
