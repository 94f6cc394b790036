package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/storeadmin/app/models"
	"github.com/shashiranjanraj/storeadmin/pkg/api"
)

var (
	loginEmail    string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate and persist the session token",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		email := loginEmail
		if email == "" {
			email = prompt("Email: ")
		}
		password := loginPassword
		if password == "" {
			password = prompt("Password: ")
		}

		if _, err := a.auth.Authenticate(cmd.Context(), email, password); err != nil {
			if api.IsInvalidCredentials(err) {
				return fmt.Errorf("invalid email or password")
			}
			return err
		}

		fmt.Println("logged in")
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the persisted session token",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		a.auth.Logout()
		fmt.Println("logged out")
		return nil
	},
}

var (
	regFirstname string
	regLastname  string
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a staff account",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		req := models.RegisterRequest{
			Firstname: regFirstname,
			Lastname:  regLastname,
			Email:     loginEmail,
			Password:  loginPassword,
		}
		if req.Email == "" || req.Password == "" {
			return fmt.Errorf("--email and --password are required")
		}

		if err := a.auth.Register(cmd.Context(), req); err != nil {
			return err
		}
		fmt.Println("account created")
		return nil
	},
}

func prompt(label string) string {
	fmt.Fprint(os.Stderr, label)
	line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	return strings.TrimSpace(line)
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "staff email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "password (prompted when omitted)")

	registerCmd.Flags().StringVar(&regFirstname, "firstname", "", "first name")
	registerCmd.Flags().StringVar(&regLastname, "lastname", "", "last name")
	registerCmd.Flags().StringVar(&loginEmail, "email", "", "email")
	registerCmd.Flags().StringVar(&loginPassword, "password", "", "password")
}
