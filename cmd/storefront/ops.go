// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"storefront/internal/config"
	"storefront/internal/models"
	"storefront/internal/store"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply SQL migrations for the postgres or sqlite metadata backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.ErrOrStderr())
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			if cfg.MetadataBackend != config.MetadataPostgres && cfg.MetadataBackend != config.MetadataSQLite {
				return fmt.Errorf("METADATA_BACKEND=%s has no SQL schema", cfg.MetadataBackend)
			}

			// newApp migrates while connecting.
			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			a.Close()
			return nil
		},
	}
}

func newSeedCmd() *cobra.Command {
	var reset bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Write the default categories document if none is stored",
		Long: "Write the default categories document if none is stored. With --reset the stored " +
			"categories are replaced by the defaults and the carousel is emptied.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.ErrOrStderr())
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			meta := store.NewMetadata(a.docs, a.catalogCache())
			if reset {
				if err := meta.SaveCategories(cmd.Context(), models.DefaultCategories()); err != nil {
					return fmt.Errorf("reset categories: %w", err)
				}
				if err := meta.SaveCarouselSlides(cmd.Context(), []models.CarouselSlide{}); err != nil {
					return fmt.Errorf("reset carousel: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "metadata reset to defaults")
				slog.Info("metadata reset")
				return nil
			}

			seeded, err := meta.SeedCategories(cmd.Context())
			if err != nil {
				return fmt.Errorf("seed categories: %w", err)
			}
			if seeded {
				fmt.Fprintln(cmd.OutOrStdout(), "default categories written")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "categories already present, nothing to do")
			}
			slog.Debug("seed finished", "seeded", seeded)
			return nil
		},
	}
	cmd.Flags().BoolVar(&reset, "reset", false, "replace stored categories with the defaults and empty the carousel")
	return cmd
}

func newHashPasswordCmd() *cobra.Command {
	var cost int
	cmd := &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Print a bcrypt hash for ADMIN_PASSWORD_HASH",
		Long:  "Print a bcrypt hash for ADMIN_PASSWORD_HASH. The password is read from stdin when not given as an argument.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var password string
			if len(args) == 1 {
				password = args[0]
			} else {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("read password: %w", err)
				}
				password = strings.TrimRight(line, "\r\n")
			}
			if password == "" {
				return errors.New("password must not be empty")
			}

			hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(hash))
			return nil
		},
	}
	cmd.Flags().IntVar(&cost, "cost", bcrypt.DefaultCost, "bcrypt cost factor")
	return cmd
}
