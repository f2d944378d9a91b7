package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Shreyanshxcodes/LedgerPulse/internal/infrastructure/auth"
)

var (
	baseURL     string
	timeout     time.Duration
	callerID    string
	bearerToken string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ledgerpulse-cli",
		Short: "LedgerPulse CLI tool",
		Long:  `A command line interface for interacting with the LedgerPulse API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the LedgerPulse API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().StringVar(&callerID, "caller", "", "Caller identity (header-trust mode)")
	rootCmd.PersistentFlags().StringVar(&bearerToken, "token", "", "Bearer token (JWT mode)")

	rootCmd.AddCommand(bookCmd())
	rootCmd.AddCommand(ownerCmd())
	rootCmd.AddCommand(pulseCmd())
	rootCmd.AddCommand(ledgerCmd())
	rootCmd.AddCommand(tokenCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func bookCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "book",
		Short: "Owner-gated book ledger operations",
	}

	var label string
	creditCmd := &cobra.Command{
		Use:   "credit <account> <amount>",
		Short: "Record a credit entry",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			postAndPrint("/api/v1/book/credit", map[string]any{
				"account": args[0],
				"amount":  args[1],
				"label":   label,
			})
		},
	}
	creditCmd.Flags().StringVar(&label, "label", "", "Free-form entry label")

	var debitLabel string
	debitCmd := &cobra.Command{
		Use:   "debit <account> <amount>",
		Short: "Record a debit entry",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			postAndPrint("/api/v1/book/debit", map[string]any{
				"account": args[0],
				"amount":  args[1],
				"label":   debitLabel,
			})
		},
	}
	debitCmd.Flags().StringVar(&debitLabel, "label", "", "Free-form entry label")

	entriesCmd := &cobra.Command{
		Use:   "entries <account>",
		Short: "List entries for an account",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			getAndPrint("/api/v1/book/accounts/" + args[0] + "/entries")
		},
	}

	var at string
	balanceCmd := &cobra.Command{
		Use:   "balance <account>",
		Short: "Show the running balance of an account",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			path := "/api/v1/book/accounts/" + args[0] + "/balance"
			if at != "" {
				path += "?at=" + at
			}
			getAndPrint(path)
		},
	}
	balanceCmd.Flags().StringVar(&at, "at", "", "Balance as of this RFC3339 timestamp")

	cmd.AddCommand(creditCmd, debitCmd, entriesCmd, balanceCmd)
	return cmd
}

func ownerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "owner",
		Short: "Ownership operations",
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the current owner",
		Run: func(cmd *cobra.Command, args []string) {
			getAndPrint("/api/v1/owner/")
		},
	}

	transferCmd := &cobra.Command{
		Use:   "transfer <new-owner>",
		Short: "Transfer ownership to a new identity",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			postAndPrint("/api/v1/owner/transfer", map[string]any{
				"new_owner": args[0],
			})
		},
	}

	cmd.AddCommand(showCmd, transferCmd)
	return cmd
}

func pulseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pulse",
		Short: "Transaction pulse operations",
	}

	sendCmd := &cobra.Command{
		Use:   "send <receiver> <amount>",
		Short: "Record a transaction pulse",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			postAndPrint("/api/v1/pulse/transactions", map[string]any{
				"receiver": args[0],
				"amount":   args[1],
			})
		},
	}

	txCmd := &cobra.Command{
		Use:   "tx <hash>",
		Short: "Look up a transaction by hash",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			getAndPrint("/api/v1/pulse/transactions/" + args[0])
		},
	}

	var count int
	recentCmd := &cobra.Command{
		Use:   "recent",
		Short: "List the most recent transactions",
		Run: func(cmd *cobra.Command, args []string) {
			getAndPrint(fmt.Sprintf("/api/v1/pulse/transactions?count=%d", count))
		},
	}
	recentCmd.Flags().IntVar(&count, "count", 10, "Number of transactions")

	scoreCmd := &cobra.Command{
		Use:   "score <identity>",
		Short: "Show the score of an identity",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			getAndPrint("/api/v1/pulse/identities/" + args[0] + "/score")
		},
	}

	transactionsCmd := &cobra.Command{
		Use:   "transactions <identity>",
		Short: "List transaction hashes touching an identity",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			getAndPrint("/api/v1/pulse/identities/" + args[0] + "/transactions")
		},
	}

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show system-wide totals",
		Run: func(cmd *cobra.Command, args []string) {
			getAndPrint("/api/v1/pulse/stats")
		},
	}

	cmd.AddCommand(sendCmd, txCmd, recentCmd, scoreCmd, transactionsCmd, statsCmd)
	return cmd
}

func ledgerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Cross-ledger operations",
	}

	consistencyCmd := &cobra.Command{
		Use:   "consistency",
		Short: "Check consistency of both ledgers",
		Run: func(cmd *cobra.Command, args []string) {
			checkConsistency()
		},
	}

	cmd.AddCommand(consistencyCmd)
	return cmd
}

func tokenCmd() *cobra.Command {
	var (
		secret string
		expiry time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token <identity>",
		Short: "Mint a caller JWT for the given identity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				return fmt.Errorf("--secret is required")
			}
			token, err := auth.NewJWTManager(secret, expiry).Generate(args[0])
			if err != nil {
				return err
			}
			fmt.Println(token)
			return nil
		},
	}

	cmd.Flags().StringVar(&secret, "secret", "", "Signing secret shared with the server")
	cmd.Flags().DurationVar(&expiry, "expiry", 24*time.Hour, "Token lifetime")
	return cmd
}

func checkConsistency() {
	ok := true
	for _, ledger := range []struct {
		name string
		path string
	}{
		{"book", "/api/v1/book/consistency"},
		{"pulse", "/api/v1/pulse/consistency"},
	} {
		body, status := request(http.MethodGet, ledger.path, nil)
		if status != http.StatusOK {
			fmt.Printf("%s: check FAILED (Status: %d)\nResponse: %s\n", ledger.name, status, truncate(string(body), 200))
			ok = false
			continue
		}

		var result map[string]any
		if err := json.Unmarshal(body, &result); err != nil {
			fmt.Printf("%s: failed to parse response: %v\n", ledger.name, err)
			ok = false
			continue
		}

		consistent, _ := result["consistent"].(bool)
		fmt.Printf("%s: consistent=%v\n", ledger.name, consistent)
		if !consistent {
			ok = false
		}
	}

	if !ok {
		os.Exit(1)
	}
}

func getAndPrint(path string) {
	body, status := request(http.MethodGet, path, nil)
	printResponse(body, status)
}

func postAndPrint(path string, payload map[string]any) {
	body, status := request(http.MethodPost, path, payload)
	printResponse(body, status)
}

func printResponse(body []byte, status int) {
	if status < 200 || status > 299 {
		fmt.Printf("Request failed (Status: %d)\nResponse: %s\n", status, string(body))
		os.Exit(1)
	}

	var parsed any
	if err := json.Unmarshal(body, &parsed); err != nil {
		fmt.Println(string(body))
		return
	}
	printJSON(parsed)
}

func request(method, path string, payload map[string]any) ([]byte, int) {
	var reader io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			fmt.Printf("Failed to encode request: %v\n", err)
			os.Exit(1)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, baseURL+path, reader)
	if err != nil {
		fmt.Printf("Failed to build request: %v\n", err)
		os.Exit(1)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+bearerToken)
	} else if callerID != "" {
		req.Header.Set("X-Caller-Id", callerID)
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		fmt.Printf("Failed to read response: %v\n", err)
		os.Exit(1)
	}
	return body, resp.StatusCode
}

func printJSON(v any) {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("Failed to encode output: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(raw))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
