// Command seed loads a rates workbook into the database and creates the
// admin account, for bootstrapping a fresh install.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"netrates/internal/database"
	"netrates/internal/domain"
	"netrates/internal/modules/ratesheet"
	"netrates/internal/repository"
)

func main() {
	_ = godotenv.Load()

	var (
		dsn           = flag.String("db", envOr("APP_APP_DATABASE_URL", "netrates.db"), "database DSN")
		file          = flag.String("file", "", "rates workbook (.xlsx) to load")
		name          = flag.String("name", "", "sheet name (defaults to the file name)")
		adminEmail    = flag.String("admin-email", os.Getenv("ADMIN_EMAIL"), "admin account email")
		adminPassword = flag.String("admin-password", os.Getenv("ADMIN_PASSWORD"), "admin account password")
	)
	flag.Parse()

	db, err := database.Connect(*dsn)
	if err != nil {
		fatal("connect: %v", err)
	}
	if err := repository.AutoMigrate(db); err != nil {
		fatal("migrate: %v", err)
	}

	ctx := context.Background()

	if *file != "" {
		f, err := os.Open(*file)
		if err != nil {
			fatal("open workbook: %v", err)
		}
		items, err := ratesheet.ParseWorkbook(f)
		_ = f.Close()
		if err != nil {
			fatal("parse workbook: %v", err)
		}

		sheetName := *name
		if sheetName == "" {
			base := filepath.Base(*file)
			sheetName = strings.TrimSuffix(base, filepath.Ext(base))
		}

		sheet := &domain.RateSheet{Name: sheetName, SourceFile: filepath.Base(*file)}
		if err := repository.NewRateSheetRepository(db).CreateWithItems(ctx, sheet, items); err != nil {
			fatal("store sheet: %v", err)
		}
		fmt.Printf("loaded sheet %q with %d items\n", sheetName, len(items))
	}

	if *adminEmail != "" && *adminPassword != "" {
		users := repository.NewUserRepository(db)
		exists, err := users.ExistsByEmail(ctx, *adminEmail)
		if err != nil {
			fatal("check admin: %v", err)
		}
		if exists {
			fmt.Printf("admin %s already exists\n", *adminEmail)
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(*adminPassword), bcrypt.DefaultCost)
		if err != nil {
			fatal("hash password: %v", err)
		}
		if err := users.Create(ctx, &domain.User{
			Email:        *adminEmail,
			PasswordHash: string(hash),
			Name:         "Administrator",
			Role:         domain.RoleAdmin,
		}); err != nil {
			fatal("create admin: %v", err)
		}
		fmt.Printf("created admin %s\n", *adminEmail)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
