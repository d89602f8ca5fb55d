// Package clickhouse provides the ClickHouse-backed product catalog store.
// Catalogs are versioned as immutable snapshots: ingestion writes a new
// snapshot, activation flips which one readers load, and running matchers
// keep whatever snapshot they already hold.
package clickhouse

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"buildmatch/catalog"
)

// CatalogSnapshot is a point-in-time capture of the product catalog.
type CatalogSnapshot struct {
	ID           uuid.UUID `ch:"id"`
	Source       string    `ch:"source"`
	Hash         string    `ch:"hash"`
	ProductCount int       `ch:"product_count"`
	FetchedAt    time.Time `ch:"fetched_at"`
	IsActive     bool      `ch:"is_active"`
	CreatedAt    time.Time `ch:"created_at"`
}

// Config holds ClickHouse connection configuration.
type Config struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
	Debug    bool
}

// DefaultConfig returns the default development configuration.
func DefaultConfig() *Config {
	return &Config{
		Host:     "localhost",
		Port:     9000,
		Database: "buildmatch",
		Username: "default",
		Password: "",
		Debug:    false,
	}
}

// Store persists catalog snapshots in ClickHouse.
type Store struct {
	conn clickhouse.Conn
	cfg  *Config
}

// NewStore connects to ClickHouse and returns a catalog store.
func NewStore(cfg *Config) (*Store, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
		Debug: cfg.Debug,
		Settings: clickhouse.Settings{
			"max_execution_time": 60,
		},
		Compression: &clickhouse.Compression{
			Method: clickhouse.CompressionLZ4,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}
	return &Store{conn: conn, cfg: cfg}, nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.conn.Ping(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

// =============================================================================
// SNAPSHOT OPERATIONS
// =============================================================================

// CreateSnapshot inserts a new catalog snapshot record.
func (s *Store) CreateSnapshot(ctx context.Context, snapshot *CatalogSnapshot) error {
	if snapshot.ID == uuid.Nil {
		snapshot.ID = uuid.New()
	}
	query := `
		INSERT INTO catalog_snapshots (
			id, source, hash, product_count, fetched_at, is_active, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	return s.conn.Exec(ctx, query,
		snapshot.ID,
		snapshot.Source,
		snapshot.Hash,
		snapshot.ProductCount,
		snapshot.FetchedAt,
		boolToUInt8(snapshot.IsActive),
		time.Now(),
	)
}

// GetSnapshot retrieves a snapshot by ID. Returns nil when not found.
func (s *Store) GetSnapshot(ctx context.Context, id uuid.UUID) (*CatalogSnapshot, error) {
	query := `
		SELECT id, source, hash, product_count, fetched_at, is_active, created_at
		FROM catalog_snapshots FINAL
		WHERE id = ? AND _deleted = 0
	`
	row := s.conn.QueryRow(ctx, query, id)
	return scanSnapshot(row, "get snapshot")
}

// GetActiveSnapshot retrieves the currently active snapshot, or nil when no
// snapshot has been activated yet.
func (s *Store) GetActiveSnapshot(ctx context.Context) (*CatalogSnapshot, error) {
	query := `
		SELECT id, source, hash, product_count, fetched_at, is_active, created_at
		FROM catalog_snapshots FINAL
		WHERE is_active = 1 AND _deleted = 0
		ORDER BY created_at DESC
		LIMIT 1
	`
	row := s.conn.QueryRow(ctx, query)
	return scanSnapshot(row, "get active snapshot")
}

// FindSnapshotByHash finds a snapshot by its content hash, for dedup of
// repeated pushes of the same file.
func (s *Store) FindSnapshotByHash(ctx context.Context, hash string) (*CatalogSnapshot, error) {
	query := `
		SELECT id, source, hash, product_count, fetched_at, is_active, created_at
		FROM catalog_snapshots FINAL
		WHERE hash = ? AND _deleted = 0
		LIMIT 1
	`
	row := s.conn.QueryRow(ctx, query, hash)
	return scanSnapshot(row, "find snapshot by hash")
}

// ActivateSnapshot marks one snapshot active and deactivates the rest.
// Readers pick the change up on their next catalog load; in-flight runs
// keep the snapshot slice they already hold.
func (s *Store) ActivateSnapshot(ctx context.Context, id uuid.UUID) error {
	snapshot, err := s.GetSnapshot(ctx, id)
	if err != nil {
		return err
	}
	if snapshot == nil {
		return fmt.Errorf("snapshot not found: %s", id)
	}

	deactivate := `
		INSERT INTO catalog_snapshots
		SELECT id, source, hash, product_count, fetched_at, 0 as is_active, created_at,
			   _version + 1 as _version, _deleted
		FROM catalog_snapshots FINAL
		WHERE is_active = 1 AND _deleted = 0 AND id != ?
	`
	if err := s.conn.Exec(ctx, deactivate, id); err != nil {
		return fmt.Errorf("failed to deactivate snapshots: %w", err)
	}

	activate := `
		INSERT INTO catalog_snapshots
		SELECT id, source, hash, product_count, fetched_at, 1 as is_active, created_at,
			   _version + 1 as _version, _deleted
		FROM catalog_snapshots FINAL
		WHERE id = ?
	`
	return s.conn.Exec(ctx, activate, id)
}

// ListSnapshots lists snapshots newest first.
func (s *Store) ListSnapshots(ctx context.Context) ([]*CatalogSnapshot, error) {
	query := `
		SELECT id, source, hash, product_count, fetched_at, is_active, created_at
		FROM catalog_snapshots FINAL
		WHERE _deleted = 0
		ORDER BY created_at DESC
	`
	rows, err := s.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []*CatalogSnapshot
	for rows.Next() {
		var snap CatalogSnapshot
		var isActive uint8
		if err := rows.Scan(
			&snap.ID, &snap.Source, &snap.Hash, &snap.ProductCount,
			&snap.FetchedAt, &isActive, &snap.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		snap.IsActive = isActive == 1
		snapshots = append(snapshots, &snap)
	}
	return snapshots, nil
}

// =============================================================================
// PRODUCT OPERATIONS
// =============================================================================

// BulkInsertProducts writes a snapshot's products with a batch insert.
func (s *Store) BulkInsertProducts(ctx context.Context, snapshotID uuid.UUID, products []catalog.Product) error {
	if len(products) == 0 {
		return nil
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO catalog_products (
			snapshot_id, id, name, category, manufacturer, unit_price, unit,
			min_order_qty, stock_qty, lead_time_days, origin_region, weight_kg,
			dimensions, restricted_regions, project_types, certifications,
			eco_friendly, recyclable, sustainably_sourced, warranty_years,
			fire_rating, install_difficulty, description, created_at
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare batch: %w", err)
	}

	now := time.Now()
	for _, p := range products {
		if err := batch.Append(
			snapshotID, p.ID, p.Name, p.Category, p.Manufacturer, p.UnitPrice, p.Unit,
			int32(p.MinOrderQty), int32(p.StockQty), int32(p.LeadTimeDays), p.OriginRegion, p.WeightKg,
			p.Dimensions, p.RestrictedRegions, p.ProjectTypes, p.Certifications,
			boolToUInt8(p.EcoFriendly), boolToUInt8(p.Recyclable), boolToUInt8(p.SustainablySourced),
			int32(p.WarrantyYears), p.FireRating, p.InstallDifficulty.String(), p.Description, now,
		); err != nil {
			return fmt.Errorf("failed to append product %s: %w", p.ID, err)
		}
	}
	return batch.Send()
}

// LoadSnapshotProducts reads all products of one snapshot, in insert order.
func (s *Store) LoadSnapshotProducts(ctx context.Context, snapshotID uuid.UUID) ([]catalog.Product, error) {
	query := `
		SELECT id, name, category, manufacturer, unit_price, unit,
			   min_order_qty, stock_qty, lead_time_days, origin_region, weight_kg,
			   dimensions, restricted_regions, project_types, certifications,
			   eco_friendly, recyclable, sustainably_sourced, warranty_years,
			   fire_rating, install_difficulty, description
		FROM catalog_products
		WHERE snapshot_id = ?
		ORDER BY created_at, id
	`
	rows, err := s.conn.Query(ctx, query, snapshotID)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	defer rows.Close()

	var products []catalog.Product
	for rows.Next() {
		var p catalog.Product
		var price decimal.Decimal
		var minQty, stockQty, leadDays, warranty int32
		var eco, recyclable, sustainable uint8
		var difficulty string
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Category, &p.Manufacturer, &price, &p.Unit,
			&minQty, &stockQty, &leadDays, &p.OriginRegion, &p.WeightKg,
			&p.Dimensions, &p.RestrictedRegions, &p.ProjectTypes, &p.Certifications,
			&eco, &recyclable, &sustainable, &warranty,
			&p.FireRating, &difficulty, &p.Description,
		); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		p.UnitPrice = price
		p.MinOrderQty = int(minQty)
		p.StockQty = int(stockQty)
		p.LeadTimeDays = int(leadDays)
		p.WarrantyYears = int(warranty)
		p.EcoFriendly = eco == 1
		p.Recyclable = recyclable == 1
		p.SustainablySourced = sustainable == 1
		parsed, err := catalog.ParseInstallDifficulty(difficulty)
		if err != nil {
			return nil, fmt.Errorf("product %s: %w", p.ID, err)
		}
		p.InstallDifficulty = parsed
		products = append(products, p)
	}
	return products, nil
}

// LoadActiveCatalog loads the products of the active snapshot. Returns an
// empty catalog when no snapshot has been activated.
func (s *Store) LoadActiveCatalog(ctx context.Context) ([]catalog.Product, error) {
	snap, err := s.GetActiveSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, nil
	}
	return s.LoadSnapshotProducts(ctx, snap.ID)
}

// PushCatalog writes a parsed catalog as a new active snapshot. Pushing the
// same content twice activates the existing snapshot instead of duplicating.
func (s *Store) PushCatalog(ctx context.Context, source string, raw []byte, products []catalog.Product) (*CatalogSnapshot, error) {
	hash := HashCatalog(raw)

	if existing, err := s.FindSnapshotByHash(ctx, hash); err != nil {
		return nil, err
	} else if existing != nil {
		if !existing.IsActive {
			if err := s.ActivateSnapshot(ctx, existing.ID); err != nil {
				return nil, err
			}
			existing.IsActive = true
		}
		return existing, nil
	}

	snap := &CatalogSnapshot{
		ID:           uuid.New(),
		Source:       source,
		Hash:         hash,
		ProductCount: len(products),
		FetchedAt:    time.Now(),
	}
	if err := s.CreateSnapshot(ctx, snap); err != nil {
		return nil, fmt.Errorf("failed to create snapshot: %w", err)
	}
	if err := s.BulkInsertProducts(ctx, snap.ID, products); err != nil {
		return nil, err
	}
	if err := s.ActivateSnapshot(ctx, snap.ID); err != nil {
		return nil, err
	}
	snap.IsActive = true
	return snap, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// HashCatalog returns the content hash used for snapshot dedup.
func HashCatalog(raw []byte) string {
	h := sha256.Sum256(raw)
	return hex.EncodeToString(h[:])
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row rowScanner, op string) (*CatalogSnapshot, error) {
	var snap CatalogSnapshot
	var isActive uint8
	err := row.Scan(
		&snap.ID, &snap.Source, &snap.Hash, &snap.ProductCount,
		&snap.FetchedAt, &isActive, &snap.CreatedAt,
	)
	if err == sql.ErrNoRows || (err != nil && strings.Contains(err.Error(), "no rows")) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to %s: %w", op, err)
	}
	snap.IsActive = isActive == 1
	return &snap, nil
}

func boolToUInt8(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
