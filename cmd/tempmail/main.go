package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/devtint/tempmail"
)

var version = "dev"

var log = logrus.New()

var (
	baseURLFlag string
	historyFlag string
	timeoutFlag int
	verboseFlag bool
)

var rootCmd = &cobra.Command{
	Use:     "tempmail",
	Short:   "Disposable mailbox tool: generate addresses and catch verification emails",
	Version: version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.SetOutput(os.Stderr)
		log.SetLevel(logrus.WarnLevel)
		if verboseFlag {
			log.SetLevel(logrus.DebugLevel)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&baseURLFlag, "base-url", os.Getenv("TEMPMAIL_BASE_URL"), "provider base URL")
	rootCmd.PersistentFlags().StringVar(&historyFlag, "history", os.Getenv("TEMPMAIL_HISTORY_FILE"), "history file path")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(messagesCmd)
	rootCmd.AddCommand(messageCmd)
	rootCmd.AddCommand(waitCmd(tempmail.WaitCode, "wait-code", "Wait for a verification code"))
	rootCmd.AddCommand(waitCmd(tempmail.WaitLink, "wait-link", "Wait for a verification link"))
	rootCmd.AddCommand(waitCmd(tempmail.WaitAny, "wait-any", "Wait for a code or a link"))
	rootCmd.AddCommand(waitCmd(tempmail.WaitNewMessage, "wait-email", "Wait for any new email"))
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(domainsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(interactiveCmd)
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newClient() *tempmail.Client {
	opts := []tempmail.Option{tempmail.WithLogger(log)}
	if baseURLFlag != "" {
		opts = append(opts, tempmail.WithBaseURL(baseURLFlag))
	}
	return tempmail.New(opts...)
}

func newHistory() *tempmail.HistoryStore {
	return tempmail.NewHistoryStore(historyFlag)
}

// restoreSession re-logs-in with the most recently used history record, so
// single-shot commands keep working across CLI invocations.
func restoreSession(ctx context.Context, client *tempmail.Client, history *tempmail.HistoryStore) (*tempmail.Session, error) {
	record, found, err := history.Latest()
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: run 'tempmail generate' first", tempmail.ErrNoSession)
	}

	session, err := client.Login(ctx, record.Email, record.Password)
	if err != nil {
		return nil, err
	}
	if err := history.Record(session.Address(), session.Password(), nil, nil); err != nil {
		log.WithError(err).Warn("update history")
	}
	return session, nil
}

func printJSON(v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return
	}
	fmt.Println(string(data))
}

func waitOptions() []tempmail.WaitOption {
	return []tempmail.WaitOption{
		tempmail.WithWaitTimeout(time.Duration(timeoutFlag) * time.Second),
		tempmail.WithProgress(func(p tempmail.Progress) {
			fmt.Fprint(os.Stderr, ".")
		}),
	}
}
