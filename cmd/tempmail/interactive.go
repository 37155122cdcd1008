package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/devtint/tempmail"
)

var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Interactive menu mode",
	RunE: func(cmd *cobra.Command, args []string) error {
		runInteractive(cmd.Context())
		return nil
	},
}

type interactiveState struct {
	client  *tempmail.Client
	history *tempmail.HistoryStore
	session *tempmail.Session
	in      *bufio.Scanner
}

func runInteractive(ctx context.Context) {
	state := &interactiveState{
		client:  newClient(),
		history: newHistory(),
		in:      bufio.NewScanner(os.Stdin),
	}

	fmt.Println("TempMail Interactive Mode")

	for {
		fmt.Println("\nWhat would you like to do?")
		fmt.Println("1. Generate new email")
		fmt.Println("2. Load previous email (from history)")
		fmt.Println("3. Check messages")
		fmt.Println("4. Wait for verification code")
		fmt.Println("5. Wait for verification link")
		fmt.Println("6. Wait for any verification")
		fmt.Println("7. Wait for new email")
		fmt.Println("8. Status")
		fmt.Println("9. Exit")

		switch state.prompt("Choose (1-9): ") {
		case "1":
			state.generate(ctx)
		case "2":
			state.loadFromHistory(ctx)
		case "3":
			state.checkMessages(ctx)
		case "4":
			state.waitFor(ctx, tempmail.WaitCode)
		case "5":
			state.waitFor(ctx, tempmail.WaitLink)
		case "6":
			state.waitFor(ctx, tempmail.WaitAny)
		case "7":
			state.waitFor(ctx, tempmail.WaitNewMessage)
		case "8":
			state.status()
		case "9", "", "q", "exit":
			fmt.Println("Goodbye!")
			return
		default:
			fmt.Println("Invalid choice. Please choose 1-9.")
		}
	}
}

func (st *interactiveState) prompt(label string) string {
	fmt.Print(label)
	if !st.in.Scan() {
		return ""
	}
	return strings.TrimSpace(st.in.Text())
}

func (st *interactiveState) requireSession() bool {
	if st.session == nil {
		fmt.Println("No active email. Generate one first.")
		return false
	}
	return true
}

func (st *interactiveState) generate(ctx context.Context) {
	fmt.Println("Generating new email...")
	session, err := st.client.CreateAccount(ctx)
	if err != nil {
		fmt.Println("Failed to generate email:", err)
		return
	}
	st.session = session
	if err := st.history.Record(session.Address(), session.Password(), nil, nil); err != nil {
		log.WithError(err).Warn("update history")
	}
	fmt.Println("Email:", session.Address())
	fmt.Println("Password:", session.Password())
}

func (st *interactiveState) loadFromHistory(ctx context.Context) {
	records, err := st.history.List()
	if err != nil || len(records) == 0 {
		fmt.Println("No history available")
		return
	}

	// Show the last 10, most recent last.
	start := 0
	if len(records) > 10 {
		start = len(records) - 10
	}
	for i, record := range records[start:] {
		fmt.Printf("%d. %s (last used %s)\n", i+1, record.Email, record.LastUsedAt.Format(time.RFC3339))
	}

	choice, err := strconv.Atoi(st.prompt("Pick one: "))
	if err != nil || choice < 1 || choice > len(records)-start {
		fmt.Println("Invalid choice")
		return
	}

	record := records[start+choice-1]
	session, err := st.client.Login(ctx, record.Email, record.Password)
	if err != nil {
		fmt.Println("Login failed:", err)
		return
	}
	st.session = session
	if err := st.history.Record(session.Address(), session.Password(), nil, nil); err != nil {
		log.WithError(err).Warn("update history")
	}
	fmt.Println("Logged in as", session.Address())
}

func (st *interactiveState) checkMessages(ctx context.Context) {
	if !st.requireSession() {
		return
	}

	messages, err := st.session.Messages(ctx)
	if err != nil {
		fmt.Println("Could not check messages:", err)
		return
	}
	fmt.Printf("Found %d messages\n", len(messages))

	for i, msg := range messages {
		fmt.Printf("\nMessage %d:\n", i+1)
		fmt.Println("  From:", msg.From)
		fmt.Println("  Subject:", msg.Subject)
		fmt.Println("  Preview:", msg.Preview)

		if strings.EqualFold(st.prompt("  View full content? (y/n): "), "y") {
			st.showMessage(ctx, msg.ID)
		}
	}
}

func (st *interactiveState) showMessage(ctx context.Context, id string) {
	msg, err := st.session.Message(ctx, id)
	if err != nil {
		fmt.Println("  Could not fetch message:", err)
		return
	}

	parsed := tempmail.Parse(msg)
	if parsed.VerificationCode != "" {
		fmt.Println("  Verification Code:", parsed.VerificationCode)
	}
	for _, link := range parsed.VerificationLinks {
		fmt.Println("  Verification Link:", link)
	}
	fmt.Println("  Text:", parsed.TextPreview)
}

func (st *interactiveState) waitFor(ctx context.Context, kind tempmail.WaitKind) {
	if !st.requireSession() {
		return
	}

	timeout := 60
	if t, err := strconv.Atoi(st.prompt("Timeout in seconds (default 60): ")); err == nil && t > 0 {
		timeout = t
	}
	fmt.Printf("Waiting (timeout: %ds)... send the email now\n", timeout)

	opts := []tempmail.WaitOption{
		tempmail.WithWaitTimeout(time.Duration(timeout) * time.Second),
		tempmail.WithProgress(func(p tempmail.Progress) { fmt.Print(".") }),
	}

	var result *tempmail.WaitResult
	var err error
	switch kind {
	case tempmail.WaitCode:
		result, err = st.session.WaitForCode(ctx, opts...)
	case tempmail.WaitLink:
		result, err = st.session.WaitForLink(ctx, opts...)
	case tempmail.WaitNewMessage:
		result, err = st.session.WaitForNewMessage(ctx, opts...)
	default:
		result, err = st.session.WaitForAny(ctx, opts...)
	}
	fmt.Println()

	if err != nil {
		fmt.Println("Nothing received within timeout")
		return
	}

	harvestHistory(st.history, st.session, result)

	switch {
	case result.Code != "":
		fmt.Println("Code received:", result.Code)
	case result.Link != "":
		fmt.Println("Link received:", result.Link)
	case result.Parsed != nil:
		fmt.Println("New email from", result.Parsed.Sender, "-", result.Parsed.Subject)
	}
}

func (st *interactiveState) status() {
	if st.session == nil {
		fmt.Println("No active session")
		return
	}
	fmt.Println("Email:", st.session.Address())
	fmt.Println("Authenticated since:", st.session.CreatedAt().Format(time.RFC3339))
}
