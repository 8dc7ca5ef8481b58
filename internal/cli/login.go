package cli

import (
	"bufio"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/tansive/libdesk/internal/session"
)

// newLoginCmd creates and returns a new login command
func newLoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the library backend",
		Long: `Sign in with your email and password. The token returned by the backend
is stored in the state file next to the config file and sent with every
later request.

Example:
  libdesk login --email reader@example.com
  libdesk login --email reader@example.com --password secret`,
		Args: cobra.NoArgs,
		RunE: runLogin,
	}

	cmd.Flags().String("email", "", "Account email")
	cmd.Flags().String("password", "", "Account password (prompted when omitted)")
	return cmd
}

// runLogin handles the login command execution
func runLogin(cmd *cobra.Command, args []string) error {
	reader := bufio.NewReader(cmd.InOrStdin())
	email, err := flagOrPrompt(cmd, reader, "email", "Email", false)
	if err != nil {
		return err
	}
	passwd, err := flagOrPrompt(cmd, reader, "password", "Password", true)
	if err != nil {
		return err
	}

	res, err := current.auth.Login(cmd.Context(), email, passwd)
	if err != nil {
		return err
	}

	name := current.session.DisplayName()
	if jsonOutput {
		kv := map[string]any{
			"status":  "success",
			"message": "Login successful",
			"user":    res.User,
			"role":    current.session.Role(),
		}
		printJSON(cmd.OutOrStdout(), kv)
		return nil
	}
	okLabel.Fprintln(cmd.OutOrStdout(), "✓ Login successful")
	fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", name)
	return nil
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := current.auth.Logout(); err != nil {
				return err
			}
			success(cmd, "Signed out", nil)
			return nil
		},
	}
}

// whoamiView is what `whoami` reports.
type whoamiView struct {
	LoggedIn    bool          `json:"logged_in"`
	DisplayName string        `json:"display_name,omitempty"`
	Role        string        `json:"role,omitempty"`
	Admin       bool          `json:"admin"`
	User        *session.User `json:"user,omitempty"`
}

func newWhoamiCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Long: `Show the signed-in user from the stored profile. With --refresh the profile
is fetched again from the backend first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if refresh, _ := cmd.Flags().GetBool("refresh"); refresh {
				if _, err := current.auth.RefreshProfile(cmd.Context()); err != nil {
					return err
				}
			}
			s := current.session
			v := whoamiView{LoggedIn: s.IsLoggedIn()}
			if v.LoggedIn {
				v.DisplayName = s.DisplayName()
				v.Role = s.Role()
				v.Admin = s.IsAdmin()
				v.User = s.User()
			}
			return printResult(cmd, v, func(w io.Writer) error {
				if !v.LoggedIn {
					fmt.Fprintln(w, "Not signed in")
					return nil
				}
				t := newTable(w)
				t.row("Name:", v.DisplayName)
				if v.User != nil && v.User.Email != "" {
					t.row("Email:", v.User.Email)
				}
				role := title(v.Role)
				if role == "" {
					role = "-"
				}
				t.row("Role:", role)
				return t.flush()
			})
		},
	}
	cmd.Flags().Bool("refresh", false, "Fetch the profile from the backend")
	return cmd
}

func newRegisterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a reader account",
		Long: `Create a reader account. Registration does not sign you in; run
libdesk login afterwards.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reader := bufio.NewReader(cmd.InOrStdin())
			var req session.RegisterRequest
			var err error
			for _, f := range []struct {
				flag, prompt string
				secret       bool
				dst          *string
			}{
				{"first-name", "First name", false, &req.FirstName},
				{"last-name", "Last name", false, &req.LastName},
				{"email", "Email", false, &req.Email},
				{"password", "Password", true, &req.Password},
			} {
				if *f.dst, err = flagOrPrompt(cmd, reader, f.flag, f.prompt, f.secret); err != nil {
					return err
				}
			}
			user, err := current.auth.Register(cmd.Context(), req)
			if err != nil {
				return err
			}
			success(cmd, "Account created for "+req.Email+"; sign in with libdesk login", map[string]any{"user": user})
			return nil
		},
	}
	cmd.Flags().String("first-name", "", "First name")
	cmd.Flags().String("last-name", "", "Last name")
	cmd.Flags().String("email", "", "Email")
	cmd.Flags().String("password", "", "Password (prompted when omitted)")
	return cmd
}

func newPasswdCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "passwd",
		Short: "Change your password",
		Long: `Change your password. The current password is verified by signing in
again; after the change you are signed out and must log in with the new
password.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reader := bufio.NewReader(cmd.InOrStdin())
			req := session.ChangePasswordRequest{}
			if u := current.session.User(); u != nil {
				req.Email = u.Email
			}
			var err error
			if v, _ := cmd.Flags().GetString("email"); v != "" || req.Email == "" {
				if req.Email, err = flagOrPrompt(cmd, reader, "email", "Email", false); err != nil {
					return err
				}
			}
			if req.CurrentPassword, err = flagOrPrompt(cmd, reader, "current", "Current password", true); err != nil {
				return err
			}
			if req.NewPassword, err = flagOrPrompt(cmd, reader, "new", "New password", true); err != nil {
				return err
			}
			req.ConfirmPassword, _ = cmd.Flags().GetString("confirm")
			if req.ConfirmPassword == "" {
				if newFlag, _ := cmd.Flags().GetString("new"); newFlag != "" {
					req.ConfirmPassword = newFlag
				} else if req.ConfirmPassword, err = promptPassword(cmd, "Repeat new password"); err != nil {
					return err
				}
			}
			if err := current.auth.ChangePassword(cmd.Context(), req); err != nil {
				return err
			}
			success(cmd, "Password changed; sign in again with the new password", nil)
			return nil
		},
	}
	cmd.Flags().String("email", "", "Account email (defaults to the signed-in user)")
	cmd.Flags().String("current", "", "Current password")
	cmd.Flags().String("new", "", "New password")
	cmd.Flags().String("confirm", "", "New password again (defaults to --new)")
	return cmd
}

func init() {
	rootCmd.AddCommand(newLoginCmd(), newLogoutCmd(), newWhoamiCmd(), newRegisterCmd(), newPasswdCmd())
}
