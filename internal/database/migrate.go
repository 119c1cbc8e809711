package database

import (
	"context"
	"fmt"
)

// Table names.
const (
	TableItems        = "items"
	TableDataCenters  = "data_centers"
	TableWorlds       = "worlds"
	TableTradeVolumes = "items_trade_volumes"
)

// Migrate creates the schema if it does not exist. Safe to run repeatedly.
func Migrate(ctx context.Context, db DB) error {
	for i, stmt := range schema(db.Dialect()) {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate statement %d: %w", i+1, err)
		}
	}
	return nil
}

func schema(d Dialect) []string {
	var idColumn, floatType, textType string
	switch d {
	case MySQL:
		idColumn = "id BIGINT AUTO_INCREMENT PRIMARY KEY"
		floatType = "DOUBLE"
		textType = "VARCHAR(255)"
	case SQLite:
		idColumn = "id INTEGER PRIMARY KEY AUTOINCREMENT"
		floatType = "REAL"
		textType = "TEXT"
	default:
		idColumn = "id BIGSERIAL PRIMARY KEY"
		floatType = "DOUBLE PRECISION"
		textType = "TEXT"
	}

	return []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			item_id BIGINT PRIMARY KEY,
			name    %s NOT NULL
		)`, TableItems, textType),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			%s,
			name   VARCHAR(64) NOT NULL UNIQUE,
			region VARCHAR(64) NOT NULL
		)`, TableDataCenters, idColumn),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			world_id       BIGINT PRIMARY KEY,
			name           VARCHAR(64) NOT NULL,
			data_center_id BIGINT NOT NULL REFERENCES %s (id)
		)`, TableWorlds, TableDataCenters),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			item_id              BIGINT NOT NULL,
			world_id             BIGINT NOT NULL,
			cheapest_world_id    BIGINT NOT NULL,
			sale_score           %[2]s NOT NULL,
			price_diff_score     %[2]s NOT NULL,
			home_world_avg_price %[2]s NOT NULL,
			PRIMARY KEY (item_id, world_id)
		)`, TableTradeVolumes, floatType),
	}
}
