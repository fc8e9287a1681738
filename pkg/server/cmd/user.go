/* Copyright 2025 Leaflog Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/leaflog/leaflog/pkg/server/app"
	"github.com/leaflog/leaflog/pkg/server/database"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	colorSuccess = color.New(color.FgGreen)
	colorAdmin   = color.New(color.FgYellow)
)

func newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}

	cmd.AddCommand(newUserCreateCmd())
	cmd.AddCommand(newUserRemoveCmd(os.Stdin))
	cmd.AddCommand(newUserPromoteCmd())
	cmd.AddCommand(newUserResetPasswordCmd())
	cmd.AddCommand(newUserListCmd())

	return cmd
}

func newUserCreateCmd() *cobra.Command {
	var username, email, password, dbPath string
	var admin bool

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new user",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup := openUserAdminApp(dbPath)
			defer cleanup()

			user, err := a.CreateUser(app.CreateUserParams{
				Username: username,
				Email:    email,
				Password: password,
			})
			if err != nil {
				return errors.Wrap(err, "creating user")
			}

			if admin {
				if err := a.DB.Model(&user).Update("role", database.RoleAdmin).Error; err != nil {
					return errors.Wrap(err, "granting admin role")
				}
			}

			colorSuccess.Println("User created successfully")
			fmt.Printf("Username: %s\nEmail: %s\n", username, email)

			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "username (required)")
	cmd.Flags().StringVar(&email, "email", "", "user email address (required)")
	cmd.Flags().StringVar(&password, "password", "", "user password (required)")
	cmd.Flags().BoolVar(&admin, "admin", false, "grant the admin role")
	cmd.Flags().StringVar(&dbPath, "dbPath", "", "path to the SQLite database file")
	cmd.MarkFlagRequired("username")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")

	return cmd
}

func newUserRemoveCmd(stdin io.Reader) *cobra.Command {
	var email, dbPath string
	var yes bool

	cmd := &cobra.Command{
		Use:   "remove",
		Short: "Remove a user and everything they created",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup := openUserAdminApp(dbPath)
			defer cleanup()

			user, err := a.GetUserByEmail(email)
			if err != nil {
				return errors.Wrap(err, "finding user")
			}

			if !yes {
				ok, err := confirm(stdin, fmt.Sprintf("Remove user %s?", email), false)
				if err != nil {
					return errors.Wrap(err, "getting confirmation")
				}
				if !ok {
					fmt.Println("Aborted by user")
					return nil
				}
			}

			if err := a.RemoveUser(user); err != nil {
				return errors.Wrap(err, "removing user")
			}

			colorSuccess.Println("User removed successfully")
			fmt.Printf("Email: %s\n", email)

			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "user email address (required)")
	cmd.Flags().BoolVar(&yes, "yes", false, "skip the confirmation prompt")
	cmd.Flags().StringVar(&dbPath, "dbPath", "", "path to the SQLite database file")
	cmd.MarkFlagRequired("email")

	return cmd
}

func newUserPromoteCmd() *cobra.Command {
	var email, dbPath string

	cmd := &cobra.Command{
		Use:   "promote",
		Short: "Grant a user the admin role",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup := openUserAdminApp(dbPath)
			defer cleanup()

			user, err := a.GetUserByEmail(email)
			if err != nil {
				return errors.Wrap(err, "finding user")
			}

			if err := a.DB.Model(&user).Update("role", database.RoleAdmin).Error; err != nil {
				return errors.Wrap(err, "updating role")
			}

			colorSuccess.Printf("User %s is now an admin\n", email)

			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "user email address (required)")
	cmd.Flags().StringVar(&dbPath, "dbPath", "", "path to the SQLite database file")
	cmd.MarkFlagRequired("email")

	return cmd
}

func newUserResetPasswordCmd() *cobra.Command {
	var email, password, dbPath string

	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Reset a user's password",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup := openUserAdminApp(dbPath)
			defer cleanup()

			user, err := a.GetUserByEmail(email)
			if err != nil {
				return errors.Wrap(err, "finding user")
			}

			if err := app.UpdateUserPassword(a.DB, &user, password); err != nil {
				return errors.Wrap(err, "updating password")
			}

			colorSuccess.Println("Password reset successfully")
			fmt.Printf("Email: %s\n", email)

			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "user email address (required)")
	cmd.Flags().StringVar(&password, "password", "", "new password (required)")
	cmd.Flags().StringVar(&dbPath, "dbPath", "", "path to the SQLite database file")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")

	return cmd
}

func newUserListCmd() *cobra.Command {
	var dbPath, search string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List users",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup := openUserAdminApp(dbPath)
			defer cleanup()

			users, err := a.ListUsers(search)
			if err != nil {
				return errors.Wrap(err, "listing users")
			}

			for _, user := range users {
				if user.Role == database.RoleAdmin {
					colorAdmin.Printf("%d\t%s\t%s\t%s\n", user.ID, user.Username, user.Email, user.Role)
				} else {
					fmt.Printf("%d\t%s\t%s\t%s\n", user.ID, user.Username, user.Email, user.Role)
				}
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "filter by username or email")
	cmd.Flags().StringVar(&dbPath, "dbPath", "", "path to the SQLite database file")

	return cmd
}
