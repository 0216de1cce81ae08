package main

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/kingrea/loomboard/internal/config"
	"github.com/kingrea/loomboard/internal/gateway"
	"github.com/kingrea/loomboard/internal/session"
	"github.com/kingrea/loomboard/internal/tui"
)

const version = "0.3.0"

func newRootCmd() *cobra.Command {
	var serverOverride string

	root := &cobra.Command{
		Use:   "loomboard",
		Short: "Terminal Kanban client for the loomboard ticket service",
		Long: `Loomboard is a terminal client for a remote ticket service.
Running it with no arguments opens the full-screen board.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(serverOverride)
			if err != nil {
				return err
			}
			app, err := tui.NewApp(cfg)
			if err != nil {
				return err
			}
			p := tea.NewProgram(app, tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}
	root.PersistentFlags().StringVar(&serverOverride, "server", "", "service base URL (persisted to the config file)")

	root.AddCommand(
		newLoginCmd(&serverOverride),
		newLogoutCmd(&serverOverride),
		newProjectsCmd(&serverOverride),
		newVersionCmd(),
	)
	return root
}

// loadConfig builds the config rooted in the user's home directory and
// applies a --server override by writing it through to disk.
func loadConfig(serverOverride string) (*config.Config, error) {
	cfg, err := config.NewFromHome()
	if err != nil {
		return nil, err
	}
	if serverOverride != "" && serverOverride != cfg.ServerURL() {
		if err := cfg.SetServerURL(serverOverride); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func openGateway(serverOverride string) (*config.Config, *session.Store, *gateway.Client, error) {
	cfg, err := loadConfig(serverOverride)
	if err != nil {
		return nil, nil, nil, err
	}
	store, err := session.NewStore(cfg.TokenPath())
	if err != nil {
		return nil, nil, nil, err
	}
	gw := gateway.New(cfg.ServerURL(), store, func() { _ = store.Clear() })
	return cfg, store, gw, nil
}

func newLoginCmd(serverOverride *string) *cobra.Command {
	return &cobra.Command{
		Use:   "login [email]",
		Short: "Sign in and store the session token",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, store, gw, err := openGateway(*serverOverride)
			if err != nil {
				return err
			}

			reader := bufio.NewReader(cmd.InOrStdin())
			email := ""
			if len(args) == 1 {
				email = args[0]
			} else {
				fmt.Fprint(cmd.OutOrStdout(), "Email: ")
				line, err := reader.ReadString('\n')
				if err != nil {
					return err
				}
				email = strings.TrimSpace(line)
			}

			fmt.Fprint(cmd.OutOrStdout(), "Password: ")
			pw, err := term.ReadPassword(int(syscall.Stdin))
			fmt.Fprintln(cmd.OutOrStdout())
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
			defer cancel()
			token, err := gw.Login(ctx, gateway.Credentials{Email: email, Password: string(pw)})
			if err != nil {
				return err
			}
			if err := store.Save(token); err != nil {
				return err
			}
			color.Green("Signed in to %s as %s", cfg.ServerURL(), email)
			return nil
		},
	}
}

func newLogoutCmd(serverOverride *string) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Discard the stored session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, store, _, err := openGateway(*serverOverride)
			if err != nil {
				return err
			}
			if !store.LoggedIn() {
				fmt.Fprintln(cmd.OutOrStdout(), "Not signed in")
				return nil
			}
			if err := store.Clear(); err != nil {
				return err
			}
			color.Green("Signed out")
			return nil
		},
	}
}

func newProjectsCmd(serverOverride *string) *cobra.Command {
	return &cobra.Command{
		Use:   "projects",
		Short: "List projects without opening the TUI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, store, gw, err := openGateway(*serverOverride)
			if err != nil {
				return err
			}
			if !store.LoggedIn() {
				return fmt.Errorf("not signed in, run `loomboard login` first")
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
			defer cancel()
			projects, err := gw.Projects(ctx)
			if err != nil {
				return err
			}
			if len(projects) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No projects")
				return nil
			}
			bold := color.New(color.Bold)
			for _, p := range projects {
				bold.Fprintf(cmd.OutOrStdout(), "#%-4d %s\n", p.ID, p.Name)
				if desc := strings.TrimSpace(p.Description); desc != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "      %s\n", desc)
				}
			}
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the client version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "loomboard %s\n", version)
		},
	}
}
