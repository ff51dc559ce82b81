package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	redisRepo "github.com/iho/ledgerlens/internal/adapter/repository/redis"
	"github.com/iho/ledgerlens/internal/infrastructure/config"
	"github.com/iho/ledgerlens/internal/infrastructure/redis"
	"github.com/iho/ledgerlens/internal/xero"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	rootCmd := &cobra.Command{
		Use:   "ledgerlens-cli",
		Short: "LedgerLens CLI tool",
		Long:  `A command line interface for connecting to the accounting platform and running transaction reports.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the LedgerLens API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Minute, "Request timeout")

	var redirectURI string
	connectCmd := &cobra.Command{
		Use:   "connect [authorization-code]",
		Short: "Exchange an OAuth authorization code and store the token pair",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			connect(args[0], redirectURI)
		},
	}
	connectCmd.Flags().StringVar(&redirectURI, "redirect-uri", "http://localhost/callback", "Redirect URI registered with the platform")

	var (
		fromDate     string
		toDate       string
		accountCodes []string
		accountIDs   []string
		sourceType   string
	)
	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Run an account transactions report",
		Run: func(cmd *cobra.Command, args []string) {
			runReport(fromDate, toDate, accountCodes, accountIDs, sourceType)
		},
	}
	reportCmd.Flags().StringVar(&fromDate, "from", "", "Start date (YYYY-MM-DD)")
	reportCmd.Flags().StringVar(&toDate, "to", "", "End date (YYYY-MM-DD)")
	reportCmd.Flags().StringSliceVar(&accountCodes, "account-code", nil, "Account code filter (repeatable)")
	reportCmd.Flags().StringSliceVar(&accountIDs, "account-id", nil, "Account ID filter (repeatable)")
	reportCmd.Flags().StringVar(&sourceType, "source-type", "", "Restrict to one source type (e.g. ACCREC, CASHPAID, MANJOURNAL)")
	_ = reportCmd.MarkFlagRequired("from")
	_ = reportCmd.MarkFlagRequired("to")

	rootCmd.AddCommand(connectCmd, reportCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// connect talks straight to the token endpoint rather than through the
// server: the exchange needs client credentials, and storing the result in
// Redis is all the server needs to pick it up.
func connect(code, redirectURI string) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		fmt.Printf("Failed to connect to redis: %v\n", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	var opts []xero.TokenManagerOption
	if cfg.XeroTokenURL != "" {
		opts = append(opts, xero.WithTokenURL(cfg.XeroTokenURL))
	}
	tokens := xero.NewTokenManager(cfg.XeroClientID, cfg.XeroClientSecret, redisRepo.NewTokenStore(redisClient), log.Logger, opts...)

	if err := tokens.Connect(ctx, code, redirectURI); err != nil {
		fmt.Printf("Connect FAILED: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Connected: token pair stored")
}

func runReport(from, to string, accountCodes, accountIDs []string, sourceType string) {
	payload := map[string]any{
		"fromDate": from,
		"toDate":   to,
	}
	if len(accountCodes) > 0 {
		payload["accountCodes"] = accountCodes
	}
	if len(accountIDs) > 0 {
		payload["accountIds"] = accountIDs
	}
	if sourceType != "" {
		payload["sourceType"] = sourceType
	}

	body, err := json.Marshal(payload)
	if err != nil {
		fmt.Printf("Failed to encode request: %v\n", err)
		os.Exit(1)
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Post(baseURL+"/api/v1/reports", "application/json", bytes.NewReader(body))
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Report FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(respBody))
		os.Exit(1)
	}

	var envelope struct {
		Result *struct {
			Rows     []json.RawMessage `json:"rows"`
			Warnings []string          `json:"warnings,omitempty"`
			RunID    *string           `json:"runId,omitempty"`
		} `json:"result"`
		IsError bool    `json:"isError"`
		Error   *string `json:"error"`
	}
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	if envelope.IsError {
		msg := ""
		if envelope.Error != nil {
			msg = *envelope.Error
		}
		fmt.Printf("Report FAILED: %s\n", msg)
		os.Exit(1)
	}

	fmt.Printf("Report OK: %d rows\n", len(envelope.Result.Rows))
	for _, w := range envelope.Result.Warnings {
		fmt.Printf("Warning: %s\n", w)
	}
	if envelope.Result.RunID != nil {
		fmt.Printf("Run ID: %s\n", *envelope.Result.RunID)
	}

	out, err := json.MarshalIndent(json.RawMessage(respBody), "", "  ")
	if err == nil {
		fmt.Println(string(out))
	}
}
