package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"clubdirectory/internal/config"
	"clubdirectory/internal/db"
	"clubdirectory/internal/model"
	"clubdirectory/internal/repository"
)

func main() {
	log.Println("Starting seed script...")

	// Load configuration
	cfg := config.Load()
	source := cfg.SeedFile
	if len(os.Args) > 1 {
		source = os.Args[1]
	}

	members, err := repository.ReadSnapshot(source)
	if err != nil {
		log.Fatalf("Failed to read seed file: %v", err)
	}
	log.Printf("Read %d members from %s", len(members), source)

	ctx := context.Background()
	repo, err := db.NewMemberRepository(ctx, cfg, slog.Default())
	if err != nil {
		log.Fatalf("Failed to open %s member store: %v", cfg.StoreDriver, err)
	}

	seeded, updated, skipped, err := seedMembers(ctx, repo, members)
	if err != nil {
		log.Fatalf("Failed to seed members: %v", err)
	}

	log.Println("Seed completed successfully!")
	log.Printf("  - New members created: %d", seeded)
	log.Printf("  - Existing members updated: %d", updated)
	log.Printf("  - Invalid members skipped: %d", skipped)
}

// seedMembers stores members, creating new ones or overwriting existing ones by id.
func seedMembers(ctx context.Context, repo repository.MemberRepository, members []model.Member) (seeded, updated, skipped int, err error) {
	for _, member := range members {
		if member.ID == "" || member.Name == "" {
			log.Printf("Skipping member without id or name: %+v", member)
			skipped++
			continue
		}

		exists, err := repo.Exists(ctx, member.ID)
		if err != nil {
			return seeded, updated, skipped, fmt.Errorf("error checking member %s: %w", member.ID, err)
		}

		if exists {
			name := member.Name
			activities := member.Activities
			patch := model.MemberPatch{Name: &name, Age: member.Age, Rating: member.Rating, Activities: &activities}
			if _, err := repo.Update(ctx, member.ID, patch); err != nil {
				return seeded, updated, skipped, fmt.Errorf("error updating member %s: %w", member.ID, err)
			}
			updated++
			continue
		}

		if err := repo.Create(ctx, &member); err != nil {
			return seeded, updated, skipped, fmt.Errorf("error creating member %s: %w", member.ID, err)
		}
		seeded++
	}
	return seeded, updated, skipped, nil
}
