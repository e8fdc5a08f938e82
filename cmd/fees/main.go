// Command fees prints the itemized transaction cost of a single fill
// under a market's fee schedule.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/wearetvxq/stock-quant/internal/commission"
	"github.com/wearetvxq/stock-quant/internal/config"
	"github.com/wearetvxq/stock-quant/internal/domain"
)

func main() {
	market := flag.String("market", "HK", "Market identifier (HK, CN, US)")
	shares := flag.Int64("shares", 0, "Number of shares, negative for a sell (required)")
	price := flag.Float64("price", 0, "Fill price per share (required)")
	configPath := flag.String("config", "", "Optional YAML config with fee overrides")
	outputJSON := flag.Bool("json", false, "Output as JSON")
	flag.Parse()

	if *shares == 0 || *price <= 0 {
		fmt.Fprintln(os.Stderr, "usage: fees --market HK --shares 200 --price 100")
		os.Exit(2)
	}

	schedules := commission.DefaultSchedules()
	if *configPath != "" {
		cfg, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "load config: %v\n", err)
			os.Exit(1)
		}
		schedules = cfg.Schedules()
	}

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	model := commission.NewFactory(logger, schedules).Get(domain.Market(*market))
	b := model.Breakdown(*shares, *price)

	if *outputJSON {
		out := struct {
			Market   string               `json:"market"`
			Currency string               `json:"currency"`
			Shares   int64                `json:"shares"`
			Price    float64              `json:"price"`
			Fees     commission.Breakdown `json:"fees"`
		}{string(model.Market()), model.Currency(), *shares, *price, b}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			logger.Fatal("encode breakdown", zap.Error(err))
		}
		return
	}

	fmt.Printf("market:   %s (%s)\n", model.Market(), model.Currency())
	fmt.Printf("fill:     %d @ %.4f\n\n", *shares, *price)
	printFee("commission", b.Commission)
	printFee("stamp duty", b.StampDuty)
	printFee("transaction levy", b.TransactionLevy)
	printFee("transaction fee", b.TransactionFee)
	printFee("trading system fee", b.TradingSystemFee)
	printFee("settlement fee", b.SettlementFee)
	printFee("audit fee", b.AuditFee)
	fmt.Printf("%-20s %12.4f\n", "total", b.Total)
}

func printFee(name string, amount float64) {
	if amount == 0 {
		return
	}
	fmt.Printf("%-20s %12.4f\n", name, amount)
}
