// Command petctl runs operator tasks against the pet adoption database.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"petadoption/internal/config"
	"petadoption/internal/domain"
	"petadoption/internal/observability/logging"
	impl "petadoption/internal/service/impl"
	"petadoption/internal/store"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

func main() {
	config.LoadDotEnv()

	slog.SetDefault(logging.NewLogger(logging.Config{
		ServiceName: "petctl",
		Environment: os.Getenv("ENVIRONMENT"),
		Level:       os.Getenv("LOG_LEVEL"),
		Output:      os.Stderr,
	}))

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "petctl",
		Short:         "Operator tools for the pet adoption backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(migrateCmd(), createAdminCmd(), promoteCmd())
	return cmd
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := openStore(cmd.Context(), config.LoadDB()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}
}

type adminOptions struct {
	Username string
	Email    string
	Password string
}

func createAdminCmd() *cobra.Command {
	var opts adminOptions

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator account",
		Long: `Create an administrator account. The password is read from
--password, then PETCTL_ADMIN_PASSWORD, then an interactive prompt.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Password == "" {
				opts.Password = os.Getenv("PETCTL_ADMIN_PASSWORD")
			}
			if opts.Password == "" {
				pw, err := promptPassword(cmd.ErrOrStderr())
				if err != nil {
					return err
				}
				opts.Password = pw
			}

			db := config.LoadDB()
			st, err := openStore(cmd.Context(), db)
			if err != nil {
				return err
			}
			id, err := createAdmin(cmd.Context(), st, db.BcryptCost, opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "admin %q created with id %d\n", opts.Username, id)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Username, "username", "admin", "Admin username")
	cmd.Flags().StringVar(&opts.Email, "email", "", "Admin email")
	cmd.Flags().StringVar(&opts.Password, "password", "", "Admin password (prompted when empty)")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func createAdmin(ctx context.Context, st *store.Store, cost int, opts adminOptions) (int64, error) {
	pw := impl.NewPasswordServiceBcrypt(cost)
	// admin provisioning never issues tokens
	as := impl.NewAuthServiceImpl(st, pw, nil, 0)
	u, err := as.ProvisionAdmin(ctx, opts.Username, opts.Email, opts.Password)
	if err != nil {
		return 0, err
	}
	return u.ID, nil
}

func promptPassword(w io.Writer) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("no password given and stdin is not a terminal")
	}
	fmt.Fprint(w, "Admin password: ")
	pw, err := readPassword(fd)
	fmt.Fprintln(w)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(pw)), nil
}

func promoteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "promote <email-or-username>",
		Short: "Grant admin rights to an existing account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db := config.LoadDB()
			st, err := openStore(cmd.Context(), db)
			if err != nil {
				return err
			}
			u, err := promote(cmd.Context(), st, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "user %q (id %d) is now an admin\n", u.Username, u.ID)
			return nil
		},
	}
}

func promote(ctx context.Context, st *store.Store, login string) (*domain.User, error) {
	// promotion never hashes or issues tokens
	as := impl.NewAuthServiceImpl(st, nil, nil, 0)
	return as.PromoteAdmin(ctx, login)
}

// openStore connects and applies pending migrations.
func openStore(ctx context.Context, db config.DB) (*store.Store, error) {
	gdb, err := store.Open(store.Config{Driver: db.Driver, DSN: db.URL, LogSQL: db.LogSQL})
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(ctx, gdb, db.Driver); err != nil {
		return nil, err
	}
	return store.New(gdb), nil
}
