package main

import (
	"fmt"
	"strings"

	"document-approval-server/internal/model"
	"document-approval-server/internal/repository"
	"document-approval-server/internal/service"

	"github.com/spf13/cobra"
)

func newCreateUserCmd() *cobra.Command {
	var email, password, role string
	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Создание пользователя",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, flush, err := bootstrap()
			if err != nil {
				return err
			}
			defer flush()

			db, closeDB, err := openDatabase(cfg)
			if err != nil {
				return err
			}
			defer closeDB()

			userService := service.NewUserService(db, repository.NewUserRepository(db))
			user, err := userService.CreateUser(cmd.Context(), email, password, model.Role(strings.ToUpper(role)))
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "пользователь %s создан (%s, %s)\n", user.Email, user.UUID, user.Role)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Email пользователя")
	cmd.Flags().StringVar(&password, "password", "", "Пароль (не короче 8 символов, буквы и цифры)")
	cmd.Flags().StringVar(&role, "role", string(model.RoleUser), "Роль: USER или ADMIN")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newPromoteAdminCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "promote-admin <email>",
		Short: "Выдать пользователю роль ADMIN",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, flush, err := bootstrap()
			if err != nil {
				return err
			}
			defer flush()

			db, closeDB, err := openDatabase(cfg)
			if err != nil {
				return err
			}
			defer closeDB()

			userService := service.NewUserService(db, repository.NewUserRepository(db))
			user, err := userService.PromoteAdmin(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "пользователь %s теперь %s\n", user.Email, user.Role)
			return nil
		},
	}
}
