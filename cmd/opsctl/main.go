package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"opsctl/internal/app"
	"opsctl/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

const version = "1.0.0"

var (
	flagAPIBase  string
	flagEmail    string
	flagPassword string
	flagRegister bool
)

func buildApp() *app.Application {
	cfg, err := app.LoadConfig(app.DefaultConfigPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: config: %v\n", err)
		cfg = app.DefaultConfig()
	}
	if flagAPIBase != "" {
		cfg.APIBase = flagAPIBase
	}
	return app.NewApplication(cfg)
}

// requireSession verifies the persisted token before a subcommand talks to an
// authenticated endpoint.
func requireSession(ctx context.Context, application *app.Application) error {
	application.Session.Initialize(ctx)
	if application.Session.State() != app.StateAuthenticated {
		return fmt.Errorf("not signed in; run `opsctl login` first")
	}
	return nil
}

func generateCompletion(shell string) error {
	switch shell {
	case "bash":
		fmt.Println("# bash completion for opsctl")
		fmt.Println("_opsctl_completions() {")
		fmt.Println("    local cur")
		fmt.Println("    COMPREPLY=()")
		fmt.Println("    cur=\"${COMP_WORDS[COMP_CWORD]}\"")
		fmt.Println("    if [[ $COMP_CWORD -eq 1 ]]; then")
		fmt.Println("        COMPREPLY=( $(compgen -W \"login logout whoami tickets upload completion help version\" -- \"${cur}\") )")
		fmt.Println("    fi")
		fmt.Println("    return 0")
		fmt.Println("}")
		fmt.Println("complete -F _opsctl_completions opsctl")
	case "zsh":
		fmt.Println("# zsh completion for opsctl")
		fmt.Println("compdef _opsctl opsctl")
		fmt.Println("_opsctl() {")
		fmt.Println("    _arguments -C \\")
		fmt.Println("        '(-h --help)'{-h,--help}'[show help]' \\")
		fmt.Println("        '--api-base[backend base URL]' \\")
		fmt.Println("        '1:command:(login logout whoami tickets upload completion)'")
		fmt.Println("}")
	case "fish":
		fmt.Println("# fish completion for opsctl")
		fmt.Println("complete -c opsctl -f -a 'login logout whoami tickets upload completion'")
		fmt.Println("complete -c opsctl -l api-base -d 'Backend base URL'")
	default:
		return fmt.Errorf("unsupported shell: %s", shell)
	}
	return nil
}

func main() {
	root := &cobra.Command{
		Use:     "opsctl",
		Short:   "opsctl - terminal client for the OpsCopilot assistant",
		Long:    "opsctl is a terminal client for the OpsCopilot multi-agent assistant.\n\nRun without arguments for the interactive TUI, or use the subcommands for scripted access.",
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			application := buildApp()
			p := tea.NewProgram(tui.New(application), tea.WithAltScreen())
			_, err := p.Run()
			return err
		},
	}
	root.PersistentFlags().StringVar(&flagAPIBase, "api-base", "", "backend base URL (overrides config and OPSCTL_API_BASE)")

	loginCmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and persist the session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if flagEmail == "" || flagPassword == "" {
				return fmt.Errorf("both --email and --password are required")
			}
			application := buildApp()
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			var (
				user app.User
				err  error
			)
			if flagRegister {
				user, err = application.Session.Register(ctx, flagEmail, flagPassword)
			} else {
				user, err = application.Session.Login(ctx, flagEmail, flagPassword)
			}
			if err != nil {
				return err
			}
			color.New(color.FgGreen).Printf("signed in as %s (id %d)\n", user.Email, user.ID)
			return nil
		},
	}
	loginCmd.Flags().StringVarP(&flagEmail, "email", "e", "", "account email")
	loginCmd.Flags().StringVarP(&flagPassword, "password", "p", "", "account password")
	loginCmd.Flags().BoolVar(&flagRegister, "register", false, "create the account first")
	root.AddCommand(loginCmd)

	root.AddCommand(&cobra.Command{
		Use:   "logout",
		Short: "Clear the persisted session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			application := buildApp()
			application.Session.Logout()
			color.New(color.FgHiBlack).Println("signed out")
			return nil
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "whoami",
		Short: "Show the identity behind the persisted token",
		RunE: func(cmd *cobra.Command, args []string) error {
			application := buildApp()
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := requireSession(ctx, application); err != nil {
				return err
			}
			u := application.Session.User()
			fmt.Printf("%s (id %d)\n", u.Email, u.ID)
			return nil
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "tickets",
		Short: "List tickets the agent has filed",
		RunE: func(cmd *cobra.Command, args []string) error {
			application := buildApp()
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := requireSession(ctx, application); err != nil {
				return err
			}
			tickets, err := application.Client.Tickets(ctx)
			if err != nil {
				return err
			}
			if len(tickets) == 0 {
				color.New(color.FgHiBlack).Println("no tickets yet")
				return nil
			}
			cyan := color.New(color.FgCyan, color.Bold)
			for _, t := range tickets {
				cyan.Printf("#%d %s\n", t.ID, t.Title)
				fmt.Printf("  %s  %s\n", colorStatus(t.Status), colorSeverity(t.Severity))
				if t.Description != "" {
					color.New(color.FgHiBlack).Printf("  %s\n", t.Description)
				}
			}
			return nil
		},
	})

	uploadCmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a reference document (pdf, png, jpg, jpeg)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			application := buildApp()
			ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
			defer cancel()
			if err := requireSession(ctx, application); err != nil {
				return err
			}
			res, err := application.UploadFile(ctx, args[0])
			if err != nil {
				return err
			}
			color.New(color.FgGreen).Printf("uploaded: document_id=%d chunks=%d\n", res.DocumentID, res.Chunks)
			return nil
		},
	}
	root.AddCommand(uploadCmd)

	root.AddCommand(&cobra.Command{
		Use:   "completion [shell]",
		Short: "Generate shell completion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return generateCompletion(args[0])
		},
	})

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func colorStatus(status string) string {
	if status == "open" {
		return color.YellowString(status)
	}
	return color.GreenString(status)
}

func colorSeverity(sev string) string {
	switch sev {
	case "high", "critical":
		return color.New(color.FgRed, color.Bold).Sprint(sev)
	case "medium":
		return color.YellowString(sev)
	default:
		return color.HiBlackString(sev)
	}
}
