// Command seed prepares a fresh database: it applies migrations, creates the
// admin account and stores the default content and categories.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"time"

	"happy-jasmine/internal/access"
	"happy-jasmine/internal/config"
	"happy-jasmine/internal/database"
	"happy-jasmine/internal/domain"
	"happy-jasmine/internal/logger"
	"happy-jasmine/internal/repository"
	"happy-jasmine/internal/service"
	"happy-jasmine/internal/session"

	"go.uber.org/zap"
)

var defaultCategories = []domain.Category{
	{Name: "Jasmine Tea", Description: "Loose leaf and bagged jasmine tea", DisplayOrder: 0, IsActive: true},
	{Name: "Bottled Tea", Description: "Ready to drink jasmine tea", DisplayOrder: 1, IsActive: true},
	{Name: "Gift Sets", Description: "Boxes and hampers", DisplayOrder: 2, IsActive: true},
	{Name: "Merchandise", Description: "Cups, bottles and more", DisplayOrder: 3, IsActive: true},
}

func main() {
	migrationsDir := flag.String("migrations", "migrations", "directory holding the goose migrations")
	status := flag.Bool("status", false, "print the migration status and exit")
	flag.Parse()

	config.LoadDotEnv()
	cfg := config.Load()

	log, err := logger.New(cfg.Server.Env, cfg.Server.LogLevel)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer log.Sync()

	dbService, err := database.New(cfg.Database)
	if err != nil {
		log.Fatal("Failed to open database", zap.Error(err))
	}
	defer dbService.Close()

	if *status {
		statuses, err := database.GetMigrationStatus(context.Background(), dbService.DB(), *migrationsDir)
		if err != nil {
			log.Fatal("Failed to read migration status", zap.Error(err))
		}
		for _, s := range statuses {
			log.Info("Migration",
				zap.Int64("version", s.Source.Version),
				zap.String("file", s.Source.Path),
				zap.String("state", string(s.State)),
				zap.Time("applied_at", s.AppliedAt),
			)
		}
		return
	}

	if err := database.RunMigrations(dbService.DB(), *migrationsDir, log); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := seed(ctx, cfg, dbService, log); err != nil {
		log.Fatal("Seeding failed", zap.Error(err))
	}
	log.Info("Seeding complete")
}

func seed(ctx context.Context, cfg *config.Config, dbService *database.Service, log *zap.Logger) error {
	if cfg.Admin.Email == "" || cfg.Admin.Password == "" {
		return errors.New("ADMIN_EMAIL and ADMIN_PASSWORD are required")
	}

	db := dbService.DB()
	auth := service.NewAuthService(
		repository.NewUserRepository(db),
		repository.NewRefreshTokenRepository(db),
		service.TokenConfigFrom(cfg.JWT),
		log,
	)

	if _, err := auth.Register(ctx, cfg.Admin.Email, cfg.Admin.Password); err != nil {
		if !errors.Is(err, repository.ErrUserAlreadyExists) {
			return fmt.Errorf("failed to create admin: %w", err)
		}
		log.Info("Admin account already exists", zap.String("email", cfg.Admin.Email))
	} else {
		log.Info("Admin account created", zap.String("email", cfg.Admin.Email))
	}

	sessions := session.NewManager(auth, log, session.WithRejection(func(err error) bool {
		return errors.Is(err, service.ErrInvalidCredentials)
	}))
	unsubscribe := sessions.Subscribe(func(identity *domain.Identity) {
		if identity == nil {
			log.Info("Signed out")
			return
		}
		log.Info("Signed in", zap.String("email", identity.Email), zap.String("role", identity.Role))
	})
	defer unsubscribe()

	if res := sessions.SignIn(ctx, cfg.Admin.Email, cfg.Admin.Password); !res.Success() {
		return fmt.Errorf("admin sign in: %w", res.Cause())
	}
	defer sessions.SignOut(ctx)

	if err := seedContent(ctx, repository.NewContentRepository(db), log); err != nil {
		return err
	}
	if err := seedCategories(ctx, access.NewCategories(repository.NewCategoryRepository(db), log), log); err != nil {
		return err
	}

	pruned, err := auth.PruneRefreshTokens(ctx)
	if err != nil {
		log.Warn("Failed to prune refresh tokens", zap.Error(err))
	} else if pruned > 0 {
		log.Info("Pruned expired refresh tokens", zap.Int64("count", pruned))
	}
	return nil
}

// seedContent stores the default document unless one was saved before
func seedContent(ctx context.Context, repo repository.ContentRepository, log *zap.Logger) error {
	_, err := repo.Get(ctx)
	if err == nil {
		log.Info("Content document already present")
		return nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("failed to read content: %w", err)
	}

	res := access.NewContentStore(repo, log).Update(ctx, domain.DefaultDocument())
	if !res.Success() {
		return fmt.Errorf("failed to store default content: %w", res.Cause())
	}
	log.Info("Default content document stored")
	return nil
}

// seedCategories adds the default categories to an empty table
func seedCategories(ctx context.Context, categories *access.Categories, log *zap.Logger) error {
	existing := categories.List(ctx, domain.CategoryFilter{}, domain.FirstPage())
	if !existing.Success() {
		return fmt.Errorf("failed to list categories: %w", existing.Cause())
	}
	if existing.Count() > 0 {
		log.Info("Categories already present", zap.Int("count", existing.Count()))
		return nil
	}

	for _, c := range defaultCategories {
		category := c
		if res := categories.Create(ctx, &category); !res.Success() {
			return fmt.Errorf("failed to create category %q: %w", c.Name, res.Cause())
		}
	}
	log.Info("Default categories created", zap.Int("count", len(defaultCategories)))
	return nil
}
