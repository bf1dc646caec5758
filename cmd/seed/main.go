// Package main provides a tool to seed the catalog with its default
// taxonomy and an initial administrator.
//
// The command is idempotent: types, categories, tags, and the admin are
// skipped when they already exist.
//
// Usage:
//
//	DATA_PATH=~/AssetBay/data go run ./cmd/seed
//	DATA_PATH=~/AssetBay/data go run ./cmd/seed --admin-password=changeme
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/assetbayapp/assetbay-server/internal/auth"
	"github.com/assetbayapp/assetbay-server/internal/domain"
	domainerrors "github.com/assetbayapp/assetbay-server/internal/errors"
	"github.com/assetbayapp/assetbay-server/internal/id"
	"github.com/assetbayapp/assetbay-server/internal/store"
	"github.com/assetbayapp/assetbay-server/internal/store/sqlite"
)

var (
	adminUsername = flag.String("admin-username", "admin", "Username for the initial administrator")
	adminEmail    = flag.String("admin-email", "admin@assetbay.local", "Email for the initial administrator")
	adminPassword = flag.String("admin-password", "", "Password for the initial administrator (required when creating)")
)

type seedType struct {
	name            string
	displayName     string
	description     string
	icon            string
	fileExtensions  []string
	defaultMetadata domain.Document
}

type seedCategory struct {
	name           string
	slug           string
	description    string
	icon           string
	supportedTypes []string
}

type seedTag struct {
	name          string
	color         string
	resourceTypes []string
	weight        int
}

var defaultTypes = []seedType{
	{
		name:           "unity-assets",
		displayName:    "Unity Assets",
		description:    "Assets and tooling for the Unity engine",
		icon:           "gamepad",
		fileExtensions: []string{".unitypackage", ".unity", ".asset"},
		defaultMetadata: domain.Document{
			"unity_version": "",
			"compatibility": []any{},
			"dependencies":  []any{},
		},
	},
	{
		name:           "software-tools",
		displayName:    "Software Tools",
		description:    "Applications and developer utilities",
		icon:           "wrench",
		fileExtensions: []string{".exe", ".msi", ".dmg", ".pkg", ".deb", ".rpm"},
		defaultMetadata: domain.Document{
			"system_requirements": map[string]any{},
			"version":             "",
			"platform":            []any{"windows", "macos", "linux"},
		},
	},
	{
		name:           "design-assets",
		displayName:    "Design Assets",
		description:    "UI kits, icons, and visual design material",
		icon:           "palette",
		fileExtensions: []string{".psd", ".ai", ".sketch", ".fig", ".png", ".jpg", ".svg"},
		defaultMetadata: domain.Document{
			"resolution": "",
			"format":     "",
			"license":    "",
		},
	},
	{
		name:           "video-courses",
		displayName:    "Video Courses",
		description:    "Tutorials and online course recordings",
		icon:           "video",
		fileExtensions: []string{".mp4", ".avi", ".mov", ".mkv"},
		defaultMetadata: domain.Document{
			"duration":  "",
			"quality":   "",
			"language":  "",
			"subtitles": []any{},
		},
	},
}

var defaultCategories = []seedCategory{
	{
		name:           "Game Development",
		slug:           "game-development",
		description:    "Resources for building games",
		icon:           "gamepad",
		supportedTypes: []string{"unity-assets", "software-tools"},
	},
	{
		name:           "Design & Creative",
		slug:           "design-creative",
		description:    "Design and creative material",
		icon:           "palette",
		supportedTypes: []string{"design-assets", "software-tools"},
	},
	{
		name:           "Education & Learning",
		slug:           "education-learning",
		description:    "Courses and learning resources",
		icon:           "book",
		supportedTypes: []string{"video-courses", "software-tools"},
	},
	{
		name:           "Development Tools",
		slug:           "development-tools",
		description:    "Programming and build tooling",
		icon:           "wrench",
		supportedTypes: []string{"software-tools", "unity-assets"},
	},
}

var defaultTags = []seedTag{
	{name: "free", color: "#10b981", weight: 1},
	{name: "featured", color: "#f59e0b", weight: 2},
	{name: "trending", color: "#ef4444", weight: 3},
	{name: "beginner-friendly", color: "#3b82f6", resourceTypes: []string{"unity-assets", "video-courses"}, weight: 1},
}

func main() {
	flag.Parse()

	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("Failed to resolve home directory: %v", err)
		}
		dataPath = filepath.Join(home, "AssetBay", "data")
	}
	dbPath := filepath.Join(dataPath, "assetbay.db")

	fmt.Printf("Opening database at: %s\n", dbPath)

	if err := os.MkdirAll(dataPath, 0o700); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	s, err := sqlite.Open(dbPath, nil)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	ctx := context.Background()

	types := seedTypes(ctx, s)
	categories := seedCategories(ctx, s)
	tags := seedTags(ctx, s)
	admins := seedAdmin(ctx, s)

	fmt.Printf("Seed complete: %d types, %d categories, %d tags, %d admins created\n",
		types, categories, tags, admins)
}

func seedTypes(ctx context.Context, s store.Store) int {
	created := 0
	for _, st := range defaultTypes {
		typeID, err := id.New("type")
		if err != nil {
			log.Fatalf("Failed to generate type ID: %v", err)
		}

		now := time.Now()
		err = s.CreateResourceType(ctx, &domain.ResourceType{
			ID:              typeID,
			Name:            st.name,
			DisplayName:     st.displayName,
			Description:     st.description,
			Icon:            st.icon,
			FileExtensions:  st.fileExtensions,
			DefaultMetadata: st.defaultMetadata,
			CreatedAt:       now,
			UpdatedAt:       now,
		})
		switch {
		case err == nil:
			fmt.Printf("  created resource type %q\n", st.name)
			created++
		case domainerrors.Is(err, store.ErrAlreadyExists):
			fmt.Printf("  resource type %q already exists, skipping\n", st.name)
		default:
			log.Fatalf("Failed to create resource type %q: %v", st.name, err)
		}
	}
	return created
}

func seedCategories(ctx context.Context, s store.Store) int {
	created := 0
	for _, sc := range defaultCategories {
		categoryID, err := id.New("cat")
		if err != nil {
			log.Fatalf("Failed to generate category ID: %v", err)
		}

		now := time.Now()
		err = s.CreateCategory(ctx, &domain.Category{
			ID:             categoryID,
			Name:           sc.name,
			Slug:           sc.slug,
			Description:    sc.description,
			Icon:           sc.icon,
			SupportedTypes: sc.supportedTypes,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
		switch {
		case err == nil:
			fmt.Printf("  created category %q\n", sc.slug)
			created++
		case domainerrors.Is(err, store.ErrAlreadyExists):
			fmt.Printf("  category %q already exists, skipping\n", sc.slug)
		default:
			log.Fatalf("Failed to create category %q: %v", sc.slug, err)
		}
	}
	return created
}

func seedTags(ctx context.Context, s store.Store) int {
	created := 0
	for _, st := range defaultTags {
		tagID, err := id.New("tag")
		if err != nil {
			log.Fatalf("Failed to generate tag ID: %v", err)
		}

		resourceTypes := st.resourceTypes
		if resourceTypes == nil {
			resourceTypes = []string{}
		}

		now := time.Now()
		err = s.CreateTag(ctx, &domain.Tag{
			ID:            tagID,
			Name:          st.name,
			Color:         st.color,
			ResourceTypes: resourceTypes,
			Weight:        st.weight,
			CreatedAt:     now,
			UpdatedAt:     now,
		})
		switch {
		case err == nil:
			fmt.Printf("  created tag %q\n", st.name)
			created++
		case domainerrors.Is(err, store.ErrAlreadyExists):
			fmt.Printf("  tag %q already exists, skipping\n", st.name)
		default:
			log.Fatalf("Failed to create tag %q: %v", st.name, err)
		}
	}
	return created
}

func seedAdmin(ctx context.Context, s store.Store) int {
	count, err := s.CountAdmins(ctx)
	if err != nil {
		log.Fatalf("Failed to count administrators: %v", err)
	}
	if count > 0 {
		fmt.Printf("  %d administrator(s) already exist, skipping\n", count)
		return 0
	}

	if *adminPassword == "" {
		log.Fatal("No administrators exist; --admin-password is required to create one")
	}

	hash, err := auth.HashPassword(*adminPassword)
	if err != nil {
		log.Fatalf("Failed to hash admin password: %v", err)
	}

	adminID, err := id.New("adm")
	if err != nil {
		log.Fatalf("Failed to generate admin ID: %v", err)
	}

	now := time.Now()
	err = s.CreateAdmin(ctx, &domain.AdminUser{
		ID:           adminID,
		Username:     *adminUsername,
		Email:        *adminEmail,
		Name:         "Administrator",
		Role:         "super_admin",
		PasswordHash: hash,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		log.Fatalf("Failed to create administrator: %v", err)
	}

	fmt.Printf("  created administrator %q (%s)\n", *adminUsername, *adminEmail)
	return 1
}
