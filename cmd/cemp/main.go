package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	cl "github.com/TayDa64/CryptoEmpire/internal/cli"
	"github.com/TayDa64/CryptoEmpire/internal/config"
)

func main() {
	cfg, err := config.LoadCLIFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	apiBase := cfg.APIBaseURL

	root := &cobra.Command{
		Use:          "cemp",
		Short:        "CryptoEmpire terminal client",
		SilenceUsage: true,
	}

	root.AddCommand(
		newStateCmd(&apiBase),
		newAssetCmd(&apiBase),
		newGotoCmd(&apiBase),
		newTradeCmd(&apiBase, "buy"),
		newTradeCmd(&apiBase, "sell"),
		newCraftCmd(&apiBase),
		newMineCmd(&apiBase),
		newWatchCmd(&apiBase),
		newSubscribeCmd(&apiBase),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newClient(apiBase *string) *cl.Client {
	return cl.NewClient(strings.TrimRight(strings.TrimSpace(*apiBase), "/"))
}

func newStateCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "state",
		Short: "Show the current empire state",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			state, err := newClient(apiBase).State(ctx)
			if err != nil {
				return err
			}
			renderState(state)
			return nil
		},
	}
}

func newAssetCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "asset <id>",
		Short: "Show one asset with its recent price series",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			detail, err := newClient(apiBase).Asset(ctx, args[0])
			if err != nil {
				return err
			}
			renderAssetDetail(detail)
			return nil
		},
	}
}

func newGotoCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "goto <location-id>",
		Short: "Travel to a market location",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			state, err := newClient(apiBase).SelectLocation(ctx, args[0])
			if err != nil {
				return err
			}
			printSuccess("Moved to " + state.CurrentLocation.Name)
			renderNotifications(state)
			return nil
		},
	}
}

func newTradeCmd(apiBase *string, side string) *cobra.Command {
	short := "Buy units of an asset"
	if side == "sell" {
		short = "Sell units of an asset"
	}
	return &cobra.Command{
		Use:   side + " <asset-id> <quantity>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			quantity, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("quantity must be a whole number: %w", err)
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			state, err := newClient(apiBase).Order(ctx, args[0], side, quantity)
			if err != nil {
				return err
			}
			renderNotifications(state)
			printInfo(fmt.Sprintf("Funds: $%.2f", state.Funds))
			return nil
		},
	}
}

func newCraftCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "craft <asset-id>",
		Short: "Craft an asset from its ingredients",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			state, err := newClient(apiBase).Craft(ctx, args[0])
			if err != nil {
				return err
			}
			renderNotifications(state)
			return nil
		},
	}
}

func newMineCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "mine <asset-id>",
		Short: "Start a mining operation on owned equipment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			state, err := newClient(apiBase).StartMining(ctx, args[0])
			if err != nil {
				return err
			}
			printSuccess(fmt.Sprintf("Mining started (%d active operations)", len(state.MiningOperations)))
			return nil
		},
	}
}

func newWatchCmd(apiBase *string) *cobra.Command {
	var every time.Duration
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-render the empire state on an interval",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newClient(apiBase)
			ticker := time.NewTicker(every)
			defer ticker.Stop()
			for {
				ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
				state, err := client.State(ctx)
				cancel()
				if err != nil {
					printError(err.Error())
				} else {
					clearScreen()
					renderState(state)
				}
				select {
				case <-cmd.Context().Done():
					return nil
				case <-ticker.C:
				}
			}
		},
	}
	cmd.Flags().DurationVar(&every, "every", 2*time.Second, "refresh interval")
	return cmd
}

func newSubscribeCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "subscribe <email>",
		Short: "Join the newsletter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			result, err := newClient(apiBase).Subscribe(ctx, args[0])
			if err != nil {
				return err
			}
			if result.Success {
				printSuccess(result.Message)
			} else {
				printError(result.Message)
			}
			return nil
		},
	}
}
