package main

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/TayDa64/CryptoEmpire/internal/cli"
	"github.com/TayDa64/CryptoEmpire/internal/game"
)

var (
	accent  = color.New(color.FgCyan, color.Bold)
	success = color.New(color.FgGreen, color.Bold)
	warn    = color.New(color.FgYellow, color.Bold)
	danger  = color.New(color.FgRed, color.Bold)
	neutral = color.New(color.FgHiWhite)
)

func printSuccess(msg string) {
	success.Println(msg)
}

func printWarn(msg string) {
	warn.Println(msg)
}

func printError(msg string) {
	danger.Println(msg)
}

func printInfo(msg string) {
	neutral.Println(msg)
}

func clearScreen() {
	fmt.Print("\033[H\033[2J")
}

func renderState(st game.State) {
	accent.Printf("\n== CRYPTO EMPIRE ==\n")
	fmt.Printf("Location:  %s (x%.1f)\n", st.CurrentLocation.Name, st.CurrentLocation.PriceMultiplier)
	fmt.Printf("Funds:     $%.2f\n", st.Funds)
	fmt.Printf("Level:     %d (%d/%d XP)\n", st.Level, st.Experience, st.Level*game.ExperiencePerLevel)
	fmt.Printf("Trades:    %d\n", st.TotalTrades)
	if st.ActiveEvent != nil {
		warn.Printf("EVENT: %s (%s)\n", st.ActiveEvent.Name, st.ActiveEvent.Description)
	}

	accent.Println("\nAssets")
	for _, a := range st.Assets {
		tag := " "
		for _, t := range st.MarketTrends {
			if t.AssetID == a.ID {
				tag = trendTag(t)
				break
			}
		}
		fmt.Printf("  %-12s %-22s qty %-12s $%.2f %s\n", a.ID, a.Name, formatQuantity(a.Quantity), a.Price, tag)
	}

	if len(st.MiningOperations) > 0 {
		accent.Println("\nMining")
		for _, op := range st.MiningOperations {
			fmt.Printf("  %s on %s (%s)\n", op.ID[:8], op.AssetID, op.Duration)
		}
	}

	accent.Println("\nAchievements")
	for _, a := range st.Achievements {
		mark := " "
		if a.Achieved {
			mark = "*"
		}
		fmt.Printf("  [%s] %-20s %s\n", mark, a.Name, a.Description)
	}

	renderNotifications(st)
}

func renderNotifications(st game.State) {
	if len(st.Notifications) == 0 {
		return
	}
	accent.Println("\nNotifications")
	for _, n := range st.Notifications {
		switch n.Type {
		case game.SeveritySuccess:
			success.Printf("  %s\n", n.Message)
		case game.SeverityWarning:
			warn.Printf("  %s\n", n.Message)
		case game.SeverityError:
			danger.Printf("  %s\n", n.Message)
		default:
			neutral.Printf("  %s\n", n.Message)
		}
	}
}

func renderAssetDetail(d cli.AssetDetail) {
	a := d.Asset
	accent.Printf("\n== %s (%s) ==\n", a.Name, a.ID)
	fmt.Printf("Price:     $%.2f\n", a.Price)
	fmt.Printf("Owned:     %s\n", formatQuantity(a.Quantity))
	if a.IsNFT {
		neutral.Println("NFT")
	}
	if a.IsCraftable {
		neutral.Printf("Craftable from: %v\n", a.Ingredients)
	}
	if len(d.Series) == 0 {
		printInfo("No price history yet.")
		return
	}
	accent.Println("\nRecent prices")
	for _, p := range d.Series {
		fmt.Printf("  %s  $%.2f\n", p.TickAt.Format("15:04:05"), p.Price)
	}
}

func trendTag(t game.MarketTrend) string {
	switch t.Trend {
	case game.TrendUp:
		return success.Sprintf("↑%d", t.Strength)
	case game.TrendDown:
		return danger.Sprintf("↓%d", t.Strength)
	default:
		return neutral.Sprint("→")
	}
}

// formatQuantity trims float noise: whole quantities print bare, fractional
// ones (mining rewards) keep their precision.
func formatQuantity(q float64) string {
	if q == float64(int64(q)) {
		return fmt.Sprintf("%d", int64(q))
	}
	return fmt.Sprintf("%g", q)
}
