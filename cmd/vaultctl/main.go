package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/MKhiriev/gitvault/internal/client"
	"github.com/MKhiriev/gitvault/internal/logger"
	"github.com/MKhiriev/gitvault/models"
	"github.com/atotto/clipboard"
)

// log writes to a file next to the executable so diagnostic output never
// interleaves with command output meant for the user or for shell eval.
var log = logger.NewFileLogger("vaultctl")

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

// tokenEnvVar carries the session token between vaultctl invocations.
// `vaultctl unlock` prints an export line for it.
const tokenEnvVar = "GITVAULT_TOKEN"

const usageText = `Usage: vaultctl <command> [flags]

Commands:
  unlock    unlock the vault and print a session token
  lookup    print the stored credential for a remote URL or domain
  save      store a credential for a remote
  remove    delete the stored credential for a remote
  version   print client and daemon versions

Common flags:
  -a        daemon base URL (default "http://127.0.0.1:8537")
  -timeout  request timeout (default 15s)

Run 'vaultctl <command> -h' for command-specific flags.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usageText)
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "unlock":
		err = runUnlock(os.Args[2:])
	case "lookup":
		err = runLookup(os.Args[2:])
	case "save":
		err = runSave(os.Args[2:])
	case "remove":
		err = runRemove(os.Args[2:])
	case "version":
		err = runVersion(os.Args[2:])
	case "-h", "--help", "help":
		fmt.Print(usageText)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", os.Args[1])
		fmt.Fprint(os.Stderr, usageText)
		os.Exit(2)
	}

	if err != nil {
		log.Err(err).Str("command", os.Args[1]).Msg("command failed")
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newClientFlagSet(name string) (*flag.FlagSet, *string, *time.Duration) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	addr := fs.String("a", "http://127.0.0.1:8537", "daemon base URL")
	timeout := fs.Duration("timeout", 15*time.Second, "request timeout")
	return fs, addr, timeout
}

func newDaemonClient(addr string, timeout time.Duration) client.DaemonClient {
	c := client.NewHTTPDaemonClient(client.HTTPClientConfig{BaseURL: addr, Timeout: timeout})
	if token := os.Getenv(tokenEnvVar); token != "" {
		c.SetToken(token)
	}
	return c
}

func runUnlock(args []string) error {
	fs, addr, timeout := newClientFlagSet("unlock")
	passphrase := fs.String("passphrase", "", "vault passphrase (prompted on stdin when omitted)")
	fs.Parse(args)

	pass := *passphrase
	if pass == "" {
		var err error
		pass, err = promptLine("Passphrase: ")
		if err != nil {
			return err
		}
	}

	c := newDaemonClient(*addr, *timeout)
	if err := c.Unlock(context.Background(), pass); err != nil {
		return err
	}

	fmt.Println("Vault unlocked.")
	fmt.Printf("export %s=%s\n", tokenEnvVar, c.Token())
	return nil
}

func runLookup(args []string) error {
	fs, addr, timeout := newClientFlagSet("lookup")
	copyToClipboard := fs.Bool("copy", false, "copy the token to the clipboard instead of printing it")
	fs.Parse(args)

	url := fs.Arg(0)
	if url == "" {
		return fmt.Errorf("usage: vaultctl lookup [flags] <url>")
	}

	c := newDaemonClient(*addr, *timeout)
	record, err := c.Lookup(context.Background(), url)
	if err != nil {
		return err
	}
	if record == nil {
		fmt.Printf("No credential stored for %s\n", url)
		return nil
	}

	fmt.Println("Username:", record.Username)
	if *copyToClipboard {
		if err := clipboard.WriteAll(record.Password); err != nil {
			return fmt.Errorf("copy token to clipboard: %w", err)
		}
		fmt.Println("Token copied to clipboard.")
		return nil
	}

	fmt.Println("Token:   ", record.Password)
	return nil
}

func runSave(args []string) error {
	fs, addr, timeout := newClientFlagSet("save")
	url := fs.String("url", "", "remote URL or bare domain")
	username := fs.String("username", "", "account name")
	password := fs.String("token", "", "API token (prompted on stdin when omitted)")
	fs.Parse(args)

	if *url == "" || *username == "" {
		return fmt.Errorf("usage: vaultctl save -url <url> -username <name> [-token <token>]")
	}

	token := *password
	if token == "" {
		var err error
		token, err = promptLine("Token: ")
		if err != nil {
			return err
		}
	}

	c := newDaemonClient(*addr, *timeout)
	req := models.SaveCredentialRequest{URL: *url, Username: *username, Password: token}
	if err := c.Save(context.Background(), req); err != nil {
		return err
	}

	fmt.Printf("Credential for %s saved.\n", *url)
	return nil
}

func runRemove(args []string) error {
	fs, addr, timeout := newClientFlagSet("remove")
	fs.Parse(args)

	url := fs.Arg(0)
	if url == "" {
		return fmt.Errorf("usage: vaultctl remove [flags] <url>")
	}

	c := newDaemonClient(*addr, *timeout)
	if err := c.Remove(context.Background(), url); err != nil {
		return err
	}

	fmt.Printf("Credential for %s removed.\n", url)
	return nil
}

func runVersion(args []string) error {
	fs, addr, timeout := newClientFlagSet("version")
	fs.Parse(args)

	printBuildInfo()

	c := newDaemonClient(*addr, *timeout)
	payload, err := c.Version(context.Background())
	if err != nil {
		return fmt.Errorf("daemon unreachable: %w", err)
	}

	fmt.Printf("Daemon version: %s (built %s, commit %s)\n",
		payload["version"], payload["build_date"], payload["build_commit"])
	return nil
}

func promptLine(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}

	line = strings.TrimSpace(line)
	if line == "" {
		return "", fmt.Errorf("empty input")
	}
	return line, nil
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
