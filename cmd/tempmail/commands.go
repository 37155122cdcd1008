package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/devtint/tempmail"
	"github.com/devtint/tempmail/internal/server"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a new temporary email",
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newClient()
		history := newHistory()

		session, err := client.CreateAccount(cmd.Context())
		if err != nil {
			return err
		}
		if err := history.Record(session.Address(), session.Password(), nil, nil); err != nil {
			log.WithError(err).Warn("update history")
		}

		printJSON(map[string]interface{}{
			"email":      session.Address(),
			"password":   session.Password(),
			"created_at": session.CreatedAt(),
		})
		return nil
	},
}

var loginCmd = &cobra.Command{
	Use:   "login <email> <password>",
	Short: "Login to an existing temporary email",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newClient()
		history := newHistory()

		session, err := client.Login(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		if err := history.Record(session.Address(), session.Password(), nil, nil); err != nil {
			log.WithError(err).Warn("update history")
		}

		fmt.Println("Logged in as", session.Address())
		return nil
	},
}

var messagesCmd = &cobra.Command{
	Use:   "messages",
	Short: "List messages for the current email",
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := restoreSession(cmd.Context(), newClient(), newHistory())
		if err != nil {
			return err
		}

		messages, err := session.Messages(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Printf("Found %d messages for %s\n", len(messages), session.Address())
		if len(messages) > 0 {
			printJSON(messages)
		}
		return nil
	},
}

var messageCmd = &cobra.Command{
	Use:   "message <id>",
	Short: "Fetch one message with full parsing",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := restoreSession(cmd.Context(), newClient(), newHistory())
		if err != nil {
			return err
		}

		msg, err := session.Message(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		printJSON(map[string]interface{}{
			"content": msg,
			"parsed":  tempmail.Parse(msg),
		})
		return nil
	},
}

func waitCmd(kind tempmail.WaitKind, use, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newClient()
			history := newHistory()
			session, err := restoreSession(cmd.Context(), client, history)
			if err != nil {
				return err
			}

			fmt.Fprintf(os.Stderr, "Waiting on %s (timeout %ds)\n", session.Address(), timeoutFlag)

			result, err := runWait(cmd, session, kind)
			fmt.Fprintln(os.Stderr)
			if err != nil {
				return err
			}

			harvestHistory(history, session, result)
			printWaitResult(result)
			return nil
		},
	}
	cmd.Flags().IntVarP(&timeoutFlag, "timeout", "t", 60, "wait timeout in seconds")
	return cmd
}

func runWait(cmd *cobra.Command, session *tempmail.Session, kind tempmail.WaitKind) (*tempmail.WaitResult, error) {
	opts := waitOptions()
	switch kind {
	case tempmail.WaitCode:
		return session.WaitForCode(cmd.Context(), opts...)
	case tempmail.WaitLink:
		return session.WaitForLink(cmd.Context(), opts...)
	case tempmail.WaitNewMessage:
		return session.WaitForNewMessage(cmd.Context(), opts...)
	default:
		return session.WaitForAny(cmd.Context(), opts...)
	}
}

func harvestHistory(history *tempmail.HistoryStore, session *tempmail.Session, result *tempmail.WaitResult) {
	var codes, links []string
	if result.Code != "" {
		codes = []string{result.Code}
	}
	links = append(links, result.Links...)
	if err := history.Record(session.Address(), session.Password(), codes, links); err != nil {
		log.WithError(err).Warn("update history")
	}
}

func printWaitResult(result *tempmail.WaitResult) {
	switch {
	case result.Code != "":
		fmt.Println("Code:", result.Code)
	case result.Link != "":
		fmt.Println("Link:", result.Link)
	}
	printJSON(result)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current session status",
	RunE: func(cmd *cobra.Command, args []string) error {
		record, found, err := newHistory().Latest()
		if err != nil {
			return err
		}
		if !found {
			fmt.Println("No mailbox generated yet")
			return nil
		}
		printJSON(map[string]interface{}{
			"email":     record.Email,
			"last_used": record.LastUsedAt,
			"codes":     len(record.CodesReceived),
			"links":     len(record.LinksReceived),
		})
		return nil
	},
}

var domainsCmd = &cobra.Command{
	Use:   "domains",
	Short: "List available email domains",
	RunE: func(cmd *cobra.Command, args []string) error {
		domains, err := newClient().Domains(cmd.Context())
		if err != nil {
			log.WithError(err).Warn("list domains")
		}
		for _, d := range domains {
			fmt.Println(d)
		}
		fmt.Printf("Total: %d domains available\n", len(domains))
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show generated mailbox history",
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := newHistory().List()
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Println("No history yet")
			return nil
		}
		printJSON(records)
		return nil
	},
}

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP JSON API",
	RunE: func(cmd *cobra.Command, args []string) error {
		log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
		log.SetLevel(logrus.InfoLevel)

		srv := server.New(server.Config{
			Client:  newClient(),
			History: newHistory(),
			Logger:  log,
		})

		addr := serveAddr
		if addr == "" {
			addr = os.Getenv("TEMPMAIL_ADDR")
		}
		if addr == "" {
			addr = ":3001"
		}

		log.WithField("addr", addr).Info("starting API server")
		return http.ListenAndServe(addr, srv)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default :3001)")
}
