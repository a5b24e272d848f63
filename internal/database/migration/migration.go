package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"nutrilens/internal/applog"
)

type migrationStep struct {
	Name string
	SQL  string
}

// sentinelTable is created by the last step, so a partially applied schema is retried.
const sentinelTable = "public.users"

var steps = []migrationStep{
	{
		Name: "create_extension_uuid_ossp",
		SQL:  `CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	},
	{
		Name: "create_table_meals",
		SQL: `CREATE TABLE IF NOT EXISTS meals (
  id                  UUID             PRIMARY KEY DEFAULT uuid_generate_v4(),
  image_path          VARCHAR(500)     NOT NULL,
  food_name           VARCHAR(100)     NOT NULL,
  serving_size        VARCHAR(50)      NOT NULL DEFAULT '',
  is_healthy          BOOLEAN          NOT NULL DEFAULT false,
  calories            DOUBLE PRECISION NOT NULL CHECK (calories >= 0 AND calories <= 5000),
  macronutrients      JSONB            NOT NULL DEFAULT '{}'::jsonb,
  micronutrients      JSONB            NOT NULL DEFAULT '{}'::jsonb,
  nutrition_breakdown JSONB            NOT NULL DEFAULT '{}'::jsonb,
  health_metrics      JSONB            NOT NULL DEFAULT '{}'::jsonb,
  analysis            VARCHAR(1000)    NOT NULL DEFAULT '',
  recommendation      VARCHAR(500)     NOT NULL DEFAULT '',
  portion_estimate    JSONB,
  original_nutrition  JSONB            NOT NULL DEFAULT '{}'::jsonb,
  created_at          TIMESTAMPTZ      NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_meals_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_meals_created_at ON meals (created_at DESC);`,
	},
	{
		Name: "create_table_users",
		SQL: `CREATE TABLE IF NOT EXISTS users (
  id             UUID         PRIMARY KEY DEFAULT uuid_generate_v4(),
  user_name      VARCHAR(100) NOT NULL,
  email          VARCHAR(255) NOT NULL UNIQUE,
  password_hash  TEXT         NOT NULL,
  is_google_user BOOLEAN      NOT NULL DEFAULT false,
  avatar         TEXT         NOT NULL DEFAULT '',
  created_at     TIMESTAMPTZ  NOT NULL DEFAULT now()
);`,
	},
}

// EnsureMigrated checks if the sentinel table exists and runs migrations if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, log *applog.Logger, dbHost string) error {
	start := time.Now()

	log.Log(map[string]any{
		"component": "database",
		"event":     "db_migration_check",
		"status":    "starting",
		"db_host":   dbHost,
	})

	var exists bool
	err := db.QueryRowContext(ctx, "SELECT to_regclass($1) IS NOT NULL", sentinelTable).Scan(&exists)
	if err != nil {
		log.Log(map[string]any{
			"component":     "database",
			"event":         "db_migration_failed",
			"status":        "error",
			"error_message": fmt.Sprintf("failed to check sentinel table: %v", err),
			"db_host":       dbHost,
			"duration_ms":   time.Since(start).Milliseconds(),
		})
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.Log(map[string]any{
			"component":   "database",
			"event":       "db_migration_skip",
			"status":      "success",
			"msg":         "schema already exists, skipping migration",
			"db_host":     dbHost,
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return nil
	}

	log.Log(map[string]any{
		"component": "database",
		"event":     "db_migration_start",
		"status":    "in_progress",
		"db_host":   dbHost,
	})

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Log(map[string]any{
				"component":        "database",
				"event":            "db_migration_failed",
				"status":           "error",
				"migration_step":   step.Name,
				"error_message":    err.Error(),
				"db_host":          dbHost,
				"duration_ms":      time.Since(start).Milliseconds(),
				"step_duration_ms": time.Since(stepStart).Milliseconds(),
			})
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		log.Log(map[string]any{
			"component":        "database",
			"event":            "db_migration_step",
			"status":           "success",
			"migration_step":   step.Name,
			"db_host":          dbHost,
			"step_duration_ms": time.Since(stepStart).Milliseconds(),
		})
	}

	log.Log(map[string]any{
		"component":   "database",
		"event":       "db_migration_success",
		"status":      "success",
		"db_host":     dbHost,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return nil
}
