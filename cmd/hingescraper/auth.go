package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"hingescraper/pkg/auth"
	"hingescraper/pkg/hinge"
	"hingescraper/pkg/logger"
)

// authCmd represents the auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage Hinge credentials",
	Long: `Manage stored Hinge credentials securely.

Credentials are stored using:
  - System keychain (when available)
  - Encrypted file with PBKDF2 key derivation
  - Environment variables (read-only fallback)

Never share your bearer token or config files!`,
}

// loginCmd represents the auth login command
var loginCmd = &cobra.Command{
	Use:   "login [name]",
	Short: "Store Hinge credentials securely",
	Long: `Store captured Hinge credentials in the system keychain or an
encrypted file.

You will be prompted for:
  - Account name (if not provided)
  - Bearer token (from the Authorization header)
  - Session ID (from the X-Session-Id header)
  - User ID / device IDs (optional)

To capture these values, proxy the mobile app's traffic and inspect any
request to prod-api.hingeaws.net. Run with --guide for the full
walkthrough, or use 'hingescraper auth sms' to log in directly.`,
	Example: `  # Interactive login
  hingescraper auth login

  # Login with a named account
  hingescraper auth login myaccount`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLogin,
}

// smsCmd represents the auth sms command
var smsCmd = &cobra.Command{
	Use:   "sms",
	Short: "Log in with your phone number via SMS",
	Long: `Perform the two-step SMS login the mobile app uses: an OTP code is
sent to your phone number, and verifying it yields a fresh bearer token and
session. The resulting credentials are stored like 'auth login' does.`,
	Example: `  hingescraper auth sms`,
	RunE:    runSMSLogin,
}

// logoutCmd represents the auth logout command
var logoutCmd = &cobra.Command{
	Use:   "logout [name]",
	Short: "Remove stored credentials",
	Long: `Remove stored Hinge credentials.

If no account name is provided, you will be shown a list of stored
accounts to choose from. You can also remove all accounts at once.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLogout,
}

// listCmd represents the auth list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored accounts",
	Long:  `List all stored Hinge accounts with sanitized credential information.`,
	RunE:  runList,
}

var showGuide bool

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(smsCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(listCmd)

	loginCmd.Flags().BoolVar(&showGuide, "guide", false, "show the token capture walkthrough first")
}

func runLogin(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	var name string
	if len(args) > 0 {
		name = args[0]
	}

	reader := bufio.NewReader(os.Stdin)

	if showGuide {
		auth.ShowTokenCaptureGuide()
	} else {
		auth.ShowQuickCaptureGuide()
	}

	fmt.Println()

	if name == "" {
		fmt.Print("Account name (e.g. personal): ")
		input, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read account name: %w", err)
		}
		name = strings.TrimSpace(input)
	}
	if name == "" {
		return fmt.Errorf("account name is required")
	}

	if existing, _ := manager.Retrieve(name); existing != nil {
		fmt.Printf("\n⚠️  Account '%s' already exists. Update credentials? (y/N): ", name)
		input, _ := reader.ReadString('\n')
		if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(input)), "y") {
			return nil
		}
	}

	fmt.Println("\n🔐 Enter your captured values (they will be hidden as you type):")
	fmt.Println()

	fmt.Print("Bearer token: ")
	bearerToken, err := readSecret()
	if err != nil {
		return fmt.Errorf("failed to read bearer token: %w", err)
	}
	if bearerToken == "" {
		return fmt.Errorf("bearer token is required")
	}

	fmt.Print("\nSession ID: ")
	sessionID, err := readSecret()
	if err != nil {
		return fmt.Errorf("failed to read session id: %w", err)
	}
	if sessionID == "" {
		return fmt.Errorf("session id is required")
	}

	fmt.Print("\nUser ID (X-Player-Id, press Enter to skip): ")
	userID, _ := reader.ReadString('\n')
	fmt.Print("Device ID (press Enter to skip): ")
	deviceID, _ := reader.ReadString('\n')
	fmt.Print("Install ID (press Enter to skip): ")
	installID, _ := reader.ReadString('\n')

	account := &auth.Account{
		Name:         name,
		BearerToken:  bearerToken,
		SessionID:    sessionID,
		UserID:       strings.TrimSpace(userID),
		DeviceID:     strings.TrimSpace(deviceID),
		InstallID:    strings.TrimSpace(installID),
		LastModified: time.Now(),
	}

	fmt.Println("\n💾 Storing credentials securely...")
	if err := manager.Store(account); err != nil {
		return fmt.Errorf("failed to store credentials: %w", err)
	}

	fmt.Printf("\n🎉 Account saved: %s\n", name)
	fmt.Println("\nQuick start:")
	fmt.Println("  $ hingescraper scrape")
	fmt.Println("  $ hingescraper serve")
	fmt.Println("\n⚠️  Never share your bearer token or config files!")
	return nil
}

func runSMSLogin(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	reader := bufio.NewReader(os.Stdin)

	fmt.Print("Phone number (with country code, e.g. +15551234567): ")
	phoneInput, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("failed to read phone number: %w", err)
	}
	phoneNumber := strings.TrimSpace(phoneInput)
	if phoneNumber == "" {
		return fmt.Errorf("phone number is required")
	}

	// An unauthenticated client with a stable device identity is enough for
	// the login endpoints.
	client := hinge.NewClient(hinge.Config{
		DeviceID:  uuid.NewString(),
		InstallID: uuid.NewString(),
	}, logger.GetLogger())

	fmt.Println("📨 Requesting SMS code...")
	if err := client.InitiateSMSLogin(phoneNumber); err != nil {
		return fmt.Errorf("failed to initiate SMS login: %w", err)
	}

	fmt.Print("Enter the code you received: ")
	otpInput, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("failed to read code: %w", err)
	}
	otp := strings.TrimSpace(otpInput)

	session, err := client.VerifySMSLogin(phoneNumber, otp)
	if err != nil {
		return fmt.Errorf("SMS verification failed: %w", err)
	}

	fmt.Print("Account name to store as (default: default): ")
	nameInput, _ := reader.ReadString('\n')
	name := strings.TrimSpace(nameInput)
	if name == "" {
		name = "default"
	}

	account := &auth.Account{
		Name:         name,
		BearerToken:  session.Token,
		SessionID:    session.SessionID,
		UserID:       session.PlayerID,
		LastModified: time.Now(),
	}
	if err := manager.Store(account); err != nil {
		return fmt.Errorf("failed to store credentials: %w", err)
	}

	fmt.Printf("\n🎉 Logged in and saved account: %s\n", name)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	if len(args) > 0 {
		name := args[0]
		if err := manager.Delete(name); err != nil {
			return fmt.Errorf("failed to remove account: %w", err)
		}
		fmt.Println("Account removed: " + name)
		return nil
	}

	accounts, err := manager.List()
	if err != nil || len(accounts) == 0 {
		fmt.Println("No stored accounts found.")
		return nil
	}

	reader := bufio.NewReader(os.Stdin)

	if len(accounts) == 1 {
		account := accounts[0]
		fmt.Printf("Remove account '%s'? (y/N): ", account.Name)
		input, _ := reader.ReadString('\n')
		if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(input)), "y") {
			return nil
		}
		if err := manager.Delete(account.Name); err != nil {
			return fmt.Errorf("failed to remove account: %w", err)
		}
		fmt.Println("Account removed: " + account.Name)
		return nil
	}

	fmt.Println("Select account to remove:")
	for i, account := range accounts {
		fmt.Printf("  %d. %s\n", i+1, account.Name)
	}
	fmt.Printf("  %d. Remove all accounts\n", len(accounts)+1)
	fmt.Printf("  0. Cancel\n\n")

	fmt.Print("Choice: ")
	input, _ := reader.ReadString('\n')

	var choice int
	fmt.Sscanf(strings.TrimSpace(input), "%d", &choice)

	switch {
	case choice == 0:
		return nil
	case choice == len(accounts)+1:
		fmt.Print("Remove ALL accounts? This cannot be undone! (yes/N): ")
		confirm, _ := reader.ReadString('\n')
		if strings.TrimSpace(confirm) != "yes" {
			return nil
		}
		if err := manager.DeleteAll(); err != nil {
			return fmt.Errorf("failed to remove all accounts: %w", err)
		}
		fmt.Println("All accounts removed.")
		return nil
	case choice > 0 && choice <= len(accounts):
		account := accounts[choice-1]
		if err := manager.Delete(account.Name); err != nil {
			return fmt.Errorf("failed to remove account: %w", err)
		}
		fmt.Println("Account removed: " + account.Name)
		return nil
	default:
		return fmt.Errorf("invalid choice")
	}
}

func runList(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	accounts, err := manager.List()
	if err != nil {
		return fmt.Errorf("failed to list accounts: %w", err)
	}

	if len(accounts) == 0 {
		fmt.Println("No stored accounts. Use 'hingescraper auth login' to add one.")
		return nil
	}

	fmt.Println("Stored Accounts")
	fmt.Println()
	for i, account := range accounts {
		sanitized := auth.SanitizeAccount(account)
		fmt.Printf("%d. Name: %s\n", i+1, sanitized.Name)
		fmt.Printf("   Bearer Token: %s\n", sanitized.BearerToken)
		fmt.Printf("   Session ID: %s\n", sanitized.SessionID)
		if sanitized.UserID != "" {
			fmt.Printf("   User ID: %s\n", sanitized.UserID)
		}
		fmt.Printf("   Last Modified: %s\n", sanitized.LastModified.Format("2006-01-02 15:04:05"))
		fmt.Println()
	}
	return nil
}

// readSecret reads a value from stdin without echoing it.
func readSecret() (string, error) {
	if term.IsTerminal(int(syscall.Stdin)) {
		secret, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err == nil {
			return strings.TrimSpace(string(secret)), nil
		}
	}

	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(input), nil
}
