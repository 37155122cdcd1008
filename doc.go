// Package tempmail is a client for mail.tm-style disposable mailbox
// providers. It creates throwaway accounts, polls for incoming messages,
// and extracts verification codes and links from message content.
//
// Basic usage:
//
//	client := tempmail.New()
//
//	session, err := client.CreateAccount(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println("mailbox:", session.Address())
//
//	result, err := session.WaitForCode(ctx,
//	    tempmail.WithWaitTimeout(2*time.Minute))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println("code:", result.Code)
//
// Sessions are explicit values: a Client holds no current-session state,
// and any number of sessions can be driven from one Client. Extraction is
// heuristic and best-effort; see ExtractVerificationCode for the caveats.
package tempmail
