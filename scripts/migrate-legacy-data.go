// Command migrate-legacy-data rewrites version 1 character records stored in Redis to
// the current format and reports records that cannot be read at all.
//
//	REDIS_URL=redis://localhost:6379 go run ./scripts/migrate-legacy-data.go [-dry-run]
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/agency-api/internal/pkg/clock"
	"github.com/KirkDiggler/agency-api/internal/pkg/idgen"
	characterrepo "github.com/KirkDiggler/agency-api/internal/repositories/character"
	"github.com/KirkDiggler/agency-api/internal/services/conversion"
)

const keyPrefix = "character:"

func main() {
	dryRun := flag.Bool("dry-run", false, "report what would change without writing")
	flag.Parse()

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Fatal("Failed to parse Redis URL:", err)
	}

	client := redis.NewClient(opt)
	defer client.Close()
	ctx := context.Background()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}

	clk := clock.New()
	converter, err := conversion.NewConverter(&conversion.ConverterConfig{
		Clock:       clk,
		IDGenerator: idgen.NewUUID(""),
	})
	if err != nil {
		log.Fatal("Failed to create converter:", err)
	}
	repo, err := characterrepo.NewRedis(&characterrepo.RedisConfig{
		Client:    client,
		Clock:     clk,
		Converter: converter,
	})
	if err != nil {
		log.Fatal("Failed to create repository:", err)
	}

	fmt.Println("Connected to Redis:", redisURL)
	fmt.Println("Scanning for legacy character data...")

	report, err := migrateAll(ctx, client, repo, converter, *dryRun)
	if err != nil {
		log.Fatal("Error during scan:", err)
	}

	fmt.Printf("\nChecked %d keys: %d current, %d migrated, %d unreadable\n",
		report.checked, report.current, report.migrated, len(report.corrupted))

	corruptedKeys := report.corrupted
	if len(corruptedKeys) == 0 || *dryRun {
		return
	}

	fmt.Println("\nUnreadable keys:")
	for _, key := range corruptedKeys {
		fmt.Printf("  - %s\n", key)
	}

	fmt.Print("\nDo you want to DELETE these unreadable entries? (yes/no): ")
	var response string
	_, _ = fmt.Scanln(&response)

	if response != "yes" {
		fmt.Println("Aborted - unreadable entries kept")
		return
	}
	for _, key := range corruptedKeys {
		id := strings.TrimPrefix(key, keyPrefix)
		if _, err := repo.Delete(ctx, characterrepo.DeleteInput{ID: id}); err != nil {
			fmt.Printf("Failed to delete %s: %v\n", key, err)
		} else {
			fmt.Printf("Deleted %s\n", key)
		}
	}
	fmt.Println("\nCleanup complete!")
}

type migrationReport struct {
	checked   int
	current   int
	migrated  int
	corrupted []string
}

// migrateAll rewrites every legacy record in place. A record is always stored under the
// key it was read from, whatever id its payload carries.
func migrateAll(ctx context.Context, client *redis.Client, repo characterrepo.Repository, converter conversion.Converter, dryRun bool) (*migrationReport, error) {
	report := &migrationReport{}
	iter := client.Scan(ctx, 0, keyPrefix+"*", 0).Iterator()

	for iter.Next(ctx) {
		key := iter.Val()
		if key == keyPrefix+"ids" || key == keyPrefix+"current" {
			continue
		}
		report.checked++

		data, err := client.Get(ctx, key).Bytes()
		if err != nil {
			fmt.Printf("Error reading %s: %v\n", key, err)
			continue
		}

		var raw map[string]any
		if err := json.Unmarshal(data, &raw); err != nil {
			fmt.Printf("✗ Corrupted JSON in %s\n", key)
			report.corrupted = append(report.corrupted, key)
			continue
		}

		if converter.IsValid(raw) {
			report.current++
			continue
		}

		record := converter.Migrate(raw)
		id := strings.TrimPrefix(key, keyPrefix)
		if record.ID != "" && record.ID != id {
			fmt.Printf("  %s carried id %q, keeping %q\n", key, record.ID, id)
		}
		record.ID = id

		fmt.Printf("→ Legacy record %s (%q) migrated to %s\n", key, record.Name, record.Version)
		if dryRun {
			continue
		}
		if _, err := repo.Put(ctx, characterrepo.PutInput{Character: record}); err != nil {
			fmt.Printf("Failed to write %s: %v\n", key, err)
			continue
		}
		report.migrated++
	}

	if err := iter.Err(); err != nil {
		return nil, err
	}
	return report, nil
}
