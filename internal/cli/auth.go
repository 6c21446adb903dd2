package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage authentication",
	Long:  `Manage your account on the task board server.`,
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Login to the server",
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Logout from the server",
	RunE:  runLogout,
}

var signupCmd = &cobra.Command{
	Use:     "signup",
	Aliases: []string{"register"},
	Short:   "Create a new account on the server",
	RunE:    runSignup,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show who is logged in",
	RunE:  runStatus,
}

func init() {
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(signupCmd)
	authCmd.AddCommand(statusCmd)
}

func readLine(reader *bufio.Reader, prompt string) string {
	fmt.Print(prompt)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}

func readPassword(prompt string) string {
	fmt.Print(prompt)
	passwordBytes, _ := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	return string(passwordBytes)
}

func runLogin(cmd *cobra.Command, args []string) error {
	c, err := newClient()
	if err != nil {
		return err
	}

	reader := bufio.NewReader(os.Stdin)
	username := readLine(reader, "Username: ")
	password := readPassword("Password: ")

	fmt.Println("🔄 Logging in...")
	ctx, cancel := requestContext(cmd)
	defer cancel()
	if err := c.Login(ctx, username, password); err != nil {
		return err
	}

	fmt.Println("✅ Logged in successfully!")
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	c, err := newClient()
	if err != nil {
		return err
	}

	if !c.IsLoggedIn() {
		fmt.Println("Not logged in.")
		return nil
	}

	fmt.Println("🔄 Logging out...")
	ctx, cancel := requestContext(cmd)
	defer cancel()
	if err := c.Logout(ctx); err != nil {
		return err
	}

	fmt.Println("✅ Logged out successfully.")
	return nil
}

func runSignup(cmd *cobra.Command, args []string) error {
	c, err := newClient()
	if err != nil {
		return err
	}

	reader := bufio.NewReader(os.Stdin)
	username := readLine(reader, "Username: ")
	password := readPassword("Password: ")
	confirm := readPassword("Confirm Password: ")

	if password != confirm {
		return fmt.Errorf("passwords do not match")
	}

	fmt.Println("🔄 Creating account...")
	ctx, cancel := requestContext(cmd)
	defer cancel()
	if err := c.Signup(ctx, username, password, confirm); err != nil {
		return err
	}

	fmt.Println("✅ Account created and logged in!")
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	c, err := newClient()
	if err != nil {
		return err
	}

	s := c.Session()
	fmt.Printf("Server: %s\n", s.ServerURL)
	if !c.IsLoggedIn() {
		fmt.Println("Not logged in.")
		return nil
	}

	ctx, cancel := requestContext(cmd)
	defer cancel()
	u, err := c.Verify(ctx)
	if err != nil {
		fmt.Printf("⚠️  Stored token for %s is no longer valid: %v\n", s.Username, err)
		return nil
	}
	fmt.Printf("Logged in as %s (%s)\n", u.Username, shortID(u.ID))
	return nil
}
