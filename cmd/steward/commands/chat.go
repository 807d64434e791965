package commands

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/davrd/steward/internal/audit"
	"github.com/davrd/steward/internal/config"
	"github.com/davrd/steward/internal/gateway"
	"github.com/davrd/steward/internal/policy"
	"github.com/davrd/steward/internal/session"
	"github.com/davrd/steward/internal/state"
	"github.com/davrd/steward/internal/tools"
	"github.com/spf13/cobra"
)

func NewChatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat [message]",
		Short: "Chat with Steward",
		RunE:  runChat,
	}
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	client, err := newGatewayClient(ctx, cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	classifier, err := policy.NewClassifier(policy.Config{RequireApproval: cfg.Policy.RequireApproval})
	if err != nil {
		return fmt.Errorf("invalid approval policy: %w", err)
	}

	machine, err := session.NewMachine(classifier, client)
	if err != nil {
		return err
	}
	machine.SetAuditWriter(audit.NewWriter(cfg.WorkspacePath()))

	// A pending approval from a previous run picks up where it left off.
	stateMgr := state.NewManager(cfg.WorkspacePath())
	cont, err := stateMgr.LoadPending()
	if err != nil {
		return fmt.Errorf("failed to load pending state: %w", err)
	}
	if cont != nil {
		fmt.Printf("Resuming pending approval for %s. Type APPROVE or DENY.\n", cont.Intent.Tool)
	}

	scanner := bufio.NewScanner(os.Stdin)

	if len(args) > 0 {
		message := strings.Join(args, " ")
		cont, err = runTurn(ctx, machine, message, cont)
		if err != nil {
			return err
		}
		persistPending(stateMgr, cont)
		// A destructive one-shot still needs its decision from stdin.
		for cont != nil && scanner.Scan() {
			cont, err = runTurn(ctx, machine, scanner.Text(), cont)
			if err != nil {
				return err
			}
			persistPending(stateMgr, cont)
		}
		return scanner.Err()
	}

	fmt.Println("Steward ready. Type 'exit' to quit.")

	for {
		fmt.Print("\n> ")
		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if cont == nil && (input == "exit" || input == "quit") {
			break
		}
		if input == "" {
			continue
		}

		cont, err = runTurn(ctx, machine, input, cont)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			cont = nil
		}
		persistPending(stateMgr, cont)
	}

	return scanner.Err()
}

func persistPending(mgr *state.Manager, cont *session.Continuation) {
	if err := mgr.SavePending(cont); err != nil {
		slog.Warn("persist pending state failed", "error", err)
	}
}

// runTurn feeds one input to the machine and prints what came back,
// including the audit trail when a lifecycle finishes with tool activity.
func runTurn(ctx context.Context, machine *session.Machine, input string, cont *session.Continuation) (*session.Continuation, error) {
	outcome, next, err := machine.Turn(ctx, input, cont)
	if err != nil {
		return nil, err
	}

	fmt.Println(outcome.Message)
	if outcome.Kind == session.OutcomeFinal {
		if trail := audit.Render(outcome.Trail); trail != "" {
			fmt.Println("\nAudit trail:")
			fmt.Println(trail)
		}
	}
	return next, nil
}

func newGatewayClient(ctx context.Context, cfg *config.Config) (gateway.Client, error) {
	switch cfg.Provider.Transport {
	case config.TransportStdio:
		return gateway.NewStdioClient(ctx, gateway.StdioConfig{
			Command: cfg.Provider.Command,
			Args:    cfg.Provider.Args,
		})
	default:
		registry := tools.NewRegistry()
		if err := tools.RegisterProviderTools(registry, tools.NewSeededStore()); err != nil {
			return nil, fmt.Errorf("failed to register tools: %w", err)
		}
		return gateway.NewInProcessClient(registry)
	}
}
