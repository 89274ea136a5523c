// Command hooksign signs a hook payload the way the identity provider does,
// for poking a local auth-email-hook by hand.
//
//	hooksign -file payload.json                 # print a curl command
//	hooksign -file payload.json -url http://localhost:8090/
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/kentekart/marketplace/services/auth-email-hook/internal/security"
)

func main() {
	_ = godotenv.Load()
	if err := run(os.Args[1:], os.Stdin, os.Stdout, time.Now); err != nil {
		fmt.Fprintln(os.Stderr, "hooksign:", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer, now func() time.Time) error {
	fs := flag.NewFlagSet("hooksign", flag.ContinueOnError)
	secret := fs.String("secret", os.Getenv("SEND_AUTH_EMAIL_HOOK_SECRET"), "hook secret (v1,whsec_...)")
	file := fs.String("file", "-", "JSON payload file, - for stdin")
	id := fs.String("id", "", "webhook id (random when empty)")
	target := fs.String("url", "", "POST the signed payload here instead of printing curl")
	if err := fs.Parse(args); err != nil {
		return err
	}

	v, err := security.NewWebhookVerifier(*secret, 0)
	if err != nil {
		return err
	}

	body, err := readPayload(*file, stdin)
	if err != nil {
		return err
	}

	msgID := *id
	if msgID == "" {
		msgID = "msg_" + uuid.NewString()
	}
	headers := v.SignedHeaders(msgID, now(), body)

	if *target == "" {
		return printCurl(stdout, headers, body)
	}
	return post(stdout, *target, headers, body)
}

func readPayload(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}

func printCurl(w io.Writer, h http.Header, body []byte) error {
	_, err := fmt.Fprintf(w,
		"curl -X POST http://localhost:8090/ \\\n  -H 'Content-Type: application/json' \\\n  -H '%s: %s' \\\n  -H '%s: %s' \\\n  -H '%s: %s' \\\n  --data-raw '%s'\n",
		security.HeaderWebhookID, h.Get(security.HeaderWebhookID),
		security.HeaderWebhookTimestamp, h.Get(security.HeaderWebhookTimestamp),
		security.HeaderWebhookSignature, h.Get(security.HeaderWebhookSignature),
		strings.ReplaceAll(string(body), "'", `'\''`),
	)
	return err
}

func post(w io.Writer, url string, h http.Header, body []byte) error {
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header = h.Clone()
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	out, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	_, err = fmt.Fprintf(w, "%s\n%s\n", resp.Status, out)
	return err
}
