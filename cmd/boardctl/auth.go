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
	"golang.org/x/term"
)

var registerCmd = &cobra.Command{
	Use:   "register <email> <name>",
	Short: "Create an account and log in",
	Long: `Create a boardroomd account. The password is read from stdin.

Examples:
  boardctl register alice@example.com "Alice Smith"`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAuth("/api/v1/auth/register", map[string]string{
			"email":    args[0],
			"name":     args[1],
			"password": mustReadPassword(),
		})
	},
}

var loginCmd = &cobra.Command{
	Use:   "login <email>",
	Short: "Log in and cache the session token",
	Long: `Log in to boardroomd. The password is read from stdin and the issued
token is cached for later commands.

Examples:
  boardctl login alice@example.com`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAuth("/api/v1/auth/login", map[string]string{
			"email":    args[0],
			"password": mustReadPassword(),
		})
	},
}

// tokenResponse matches internal/http/handlers_auth.go TokenResponse.
type tokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	} `json:"user"`
}

func runAuth(path string, body map[string]string) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Post(serverURL+path, "application/json", bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to send request to %s: %w", serverURL+path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return fmt.Errorf("server returned status %d (failed to read response body: %w)", resp.StatusCode, readErr)
		}
		return fmt.Errorf("server returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if err := saveToken(tr.Token); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}

	fmt.Printf("Logged in as %s (%s)\n", tr.User.Name, tr.User.Email)
	fmt.Printf("Token expires: %s\n", tr.ExpiresAt.Format(time.RFC3339))
	return nil
}

// mustReadPassword reads a password from the terminal without echo, falling
// back to plain stdin when not a TTY (pipes in scripts).
func mustReadPassword() string {
	fmt.Fprint(os.Stderr, "Password: ")
	if term.IsTerminal(int(os.Stdin.Fd())) {
		data, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return ""
		}
		return string(data)
	}
	var password string
	fmt.Fscanln(os.Stdin, &password)
	return password
}
