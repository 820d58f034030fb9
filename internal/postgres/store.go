// Package postgres implements the catalog and order stores over
// PostgreSQL using pgx. Version snapshots are kept in separate tables so
// they survive deletion of the live row, and stock adjustment is a single
// UPDATE so concurrent carts cannot lose decrements.
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dukerupert/strand/internal/catalog"
	"github.com/dukerupert/strand/internal/domain"
)

// Store implements catalog.Store backed by a pgx connection pool.
type Store struct {
	pool *pgxpool.Pool
}

// Compile-time check that Store implements catalog.Store.
var _ catalog.Store = (*Store)(nil)

// NewStore creates a PostgreSQL-backed catalog store.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// =============================================================================
// Products
// =============================================================================

func (s *Store) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, title, amount_cents, currency, version, published_version, COALESCE(published_at, 'epoch'::timestamptz)
		FROM products WHERE id = $1 AND NOT deleted`, id)

	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, domain.Internal(err, "postgres.get_product", "failed to get product")
	}
	p.AttributeIDs, err = s.productAttributeIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Store) GetProductVersion(ctx context.Context, id int64, version int) (*domain.Product, error) {
	p := &domain.Product{ID: id, Version: version}
	err := s.pool.QueryRow(ctx, `
		SELECT title, amount_cents, currency, attribute_ids
		FROM product_versions WHERE product_id = $1 AND version = $2`, id, version).
		Scan(&p.Title, &p.Price.Cents, &p.Price.Currency, &p.AttributeIDs)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, domain.Internal(err, "postgres.get_product_version", "failed to get product version")
	}
	return p, nil
}

func (s *Store) GetPublishedProduct(ctx context.Context, id int64) (*domain.Product, error) {
	p := &domain.Product{ID: id}
	err := s.pool.QueryRow(ctx, `
		SELECT v.title, v.amount_cents, v.currency, v.attribute_ids, v.version, p.published_version, COALESCE(p.published_at, 'epoch'::timestamptz)
		FROM products p
		JOIN product_versions v ON v.product_id = p.id AND v.version = p.published_version
		WHERE p.id = $1 AND NOT p.deleted AND p.published_version > 0`, id).
		Scan(&p.Title, &p.Price.Cents, &p.Price.Currency, &p.AttributeIDs, &p.Version, &p.PublishedVersion, &p.PublishedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, domain.Internal(err, "postgres.get_published_product", "failed to get published product")
	}
	return p, nil
}

func (s *Store) CreateProduct(ctx context.Context, p *domain.Product) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return domain.Internal(err, "postgres.create_product", "failed to begin transaction")
	}
	defer tx.Rollback(ctx)

	p.Version = 1
	err = tx.QueryRow(ctx, `
		INSERT INTO products (title, amount_cents, currency, version)
		VALUES ($1, $2, $3, 1) RETURNING id`,
		p.Title, p.Price.Cents, p.Price.Currency).Scan(&p.ID)
	if err != nil {
		return domain.Internal(err, "postgres.create_product", "failed to insert product")
	}
	if err := insertProductVersion(ctx, tx, p); err != nil {
		return err
	}
	if err := replaceProductAttributes(ctx, tx, p.ID, p.AttributeIDs); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Internal(err, "postgres.create_product", "failed to commit")
	}
	return nil
}

func (s *Store) UpdateProduct(ctx context.Context, p *domain.Product) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return domain.Internal(err, "postgres.update_product", "failed to begin transaction")
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		UPDATE products SET title = $2, amount_cents = $3, currency = $4, version = version + 1
		WHERE id = $1 AND NOT deleted
		RETURNING version, published_version, COALESCE(published_at, 'epoch'::timestamptz)`,
		p.ID, p.Title, p.Price.Cents, p.Price.Currency).
		Scan(&p.Version, &p.PublishedVersion, &p.PublishedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrProductNotFound
		}
		return domain.Internal(err, "postgres.update_product", "failed to update product")
	}
	if err := replaceProductAttributes(ctx, tx, p.ID, p.AttributeIDs); err != nil {
		return err
	}
	if err := insertProductVersion(ctx, tx, p); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Internal(err, "postgres.update_product", "failed to commit")
	}
	return nil
}

func (s *Store) PublishProduct(ctx context.Context, id int64) (*domain.Product, error) {
	tag, err := s.pool.Exec(ctx, `
		UPDATE products SET published_version = version, published_at = now()
		WHERE id = $1 AND NOT deleted`, id)
	if err != nil {
		return nil, domain.Internal(err, "postgres.publish_product", "failed to publish product")
	}
	if tag.RowsAffected() == 0 {
		return nil, domain.ErrProductNotFound
	}
	return s.GetProduct(ctx, id)
}

func (s *Store) UnpublishProduct(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE products SET published_version = 0 WHERE id = $1 AND NOT deleted`, id)
	if err != nil {
		return domain.Internal(err, "postgres.unpublish_product", "failed to unpublish product")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (s *Store) DeleteProduct(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE products SET deleted = TRUE WHERE id = $1 AND NOT deleted`, id)
	if err != nil {
		return domain.Internal(err, "postgres.delete_product", "failed to delete product")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// =============================================================================
// Attributes and options
// =============================================================================

func (s *Store) GetAttribute(ctx context.Context, id int64) (*domain.Attribute, error) {
	a := &domain.Attribute{ID: id}
	err := s.pool.QueryRow(ctx, `
		SELECT title, label, description FROM attributes WHERE id = $1`, id).
		Scan(&a.Title, &a.Label, &a.Description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAttributeNotFound
		}
		return nil, domain.Internal(err, "postgres.get_attribute", "failed to get attribute")
	}
	return a, nil
}

func (s *Store) CreateAttribute(ctx context.Context, a *domain.Attribute) error {
	err := s.pool.QueryRow(ctx, `
		INSERT INTO attributes (title, label, description) VALUES ($1, $2, $3) RETURNING id`,
		a.Title, a.Label, a.Description).Scan(&a.ID)
	if err != nil {
		return domain.Internal(err, "postgres.create_attribute", "failed to insert attribute")
	}
	return nil
}

func (s *Store) AttachAttribute(ctx context.Context, productID, attributeID int64) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return domain.Internal(err, "postgres.attach_attribute", "failed to begin transaction")
	}
	defer tx.Rollback(ctx)

	if _, err := s.GetAttribute(ctx, attributeID); err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, `
		INSERT INTO product_attributes (product_id, attribute_id) VALUES ($1, $2)
		ON CONFLICT DO NOTHING`, productID, attributeID)
	if err != nil {
		return domain.Internal(err, "postgres.attach_attribute", "failed to attach attribute")
	}
	if tag.RowsAffected() == 0 {
		// Already attached; no new version.
		return tx.Commit(ctx)
	}
	if err := bumpAndSnapshot(ctx, tx, productID); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Internal(err, "postgres.attach_attribute", "failed to commit")
	}
	return nil
}

func (s *Store) DetachAttribute(ctx context.Context, productID, attributeID int64) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return domain.Internal(err, "postgres.detach_attribute", "failed to begin transaction")
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		DELETE FROM product_attributes WHERE product_id = $1 AND attribute_id = $2`,
		productID, attributeID)
	if err != nil {
		return domain.Internal(err, "postgres.detach_attribute", "failed to detach attribute")
	}
	if err := bumpAndSnapshot(ctx, tx, productID); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Internal(err, "postgres.detach_attribute", "failed to commit")
	}
	return nil
}

func (s *Store) ProductAttributes(ctx context.Context, productID int64) ([]domain.Attribute, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT a.id, a.title, a.label, a.description
		FROM attributes a
		JOIN product_attributes pa ON pa.attribute_id = a.id
		WHERE pa.product_id = $1
		ORDER BY a.id`, productID)
	if err != nil {
		return nil, domain.Internal(err, "postgres.product_attributes", "failed to list product attributes")
	}
	defer rows.Close()

	var attrs []domain.Attribute
	for rows.Next() {
		var a domain.Attribute
		if err := rows.Scan(&a.ID, &a.Title, &a.Label, &a.Description); err != nil {
			return nil, domain.Internal(err, "postgres.product_attributes", "failed to scan attribute")
		}
		attrs = append(attrs, a)
	}
	return attrs, rows.Err()
}

func (s *Store) ProductOptions(ctx context.Context, productID int64) ([]domain.Option, error) {
	return s.listOptions(ctx, `SELECT id, attribute_id, product_id, title FROM options WHERE product_id = $1 ORDER BY id`, productID)
}

func (s *Store) DefaultOptions(ctx context.Context, attributeID int64) ([]domain.Option, error) {
	return s.listOptions(ctx, `SELECT id, attribute_id, product_id, title FROM options WHERE product_id = 0 AND attribute_id = $1 ORDER BY id`, attributeID)
}

func (s *Store) listOptions(ctx context.Context, query string, arg int64) ([]domain.Option, error) {
	rows, err := s.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, domain.Internal(err, "postgres.list_options", "failed to list options")
	}
	defer rows.Close()

	var opts []domain.Option
	for rows.Next() {
		var o domain.Option
		if err := rows.Scan(&o.ID, &o.AttributeID, &o.ProductID, &o.Title); err != nil {
			return nil, domain.Internal(err, "postgres.list_options", "failed to scan option")
		}
		opts = append(opts, o)
	}
	return opts, rows.Err()
}

func (s *Store) GetOption(ctx context.Context, id int64) (*domain.Option, error) {
	o := &domain.Option{ID: id}
	err := s.pool.QueryRow(ctx, `
		SELECT attribute_id, product_id, title FROM options WHERE id = $1`, id).
		Scan(&o.AttributeID, &o.ProductID, &o.Title)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOptionNotFound
		}
		return nil, domain.Internal(err, "postgres.get_option", "failed to get option")
	}
	return o, nil
}

func (s *Store) CreateOption(ctx context.Context, o *domain.Option) error {
	err := s.pool.QueryRow(ctx, `
		INSERT INTO options (attribute_id, product_id, title) VALUES ($1, $2, $3) RETURNING id`,
		o.AttributeID, o.ProductID, o.Title).Scan(&o.ID)
	if err != nil {
		return domain.Internal(err, "postgres.create_option", "failed to insert option")
	}
	return nil
}

// =============================================================================
// Variations
// =============================================================================

func (s *Store) GetVariation(ctx context.Context, id int64) (*domain.Variation, error) {
	v := &domain.Variation{ID: id}
	err := s.pool.QueryRow(ctx, `
		SELECT product_id, amount_cents, currency, status, version
		FROM variations WHERE id = $1 AND NOT deleted`, id).
		Scan(&v.ProductID, &v.PriceDelta.Cents, &v.PriceDelta.Currency, &v.Status, &v.Version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrVariationNotFound
		}
		return nil, domain.Internal(err, "postgres.get_variation", "failed to get variation")
	}
	v.OptionIDs, err = s.variationOptionIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (s *Store) GetVariationVersion(ctx context.Context, id int64, version int) (*domain.Variation, error) {
	v := &domain.Variation{ID: id, Version: version}
	err := s.pool.QueryRow(ctx, `
		SELECT vn.amount_cents, vn.currency, vn.status, vn.option_ids, vs.product_id
		FROM variation_versions vn
		JOIN variations vs ON vs.id = vn.variation_id
		WHERE vn.variation_id = $1 AND vn.version = $2`, id, version).
		Scan(&v.PriceDelta.Cents, &v.PriceDelta.Currency, &v.Status, &v.OptionIDs, &v.ProductID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrVariationNotFound
		}
		return nil, domain.Internal(err, "postgres.get_variation_version", "failed to get variation version")
	}
	return v, nil
}

func (s *Store) LatestVariation(ctx context.Context, id int64) (*domain.Variation, error) {
	v := &domain.Variation{ID: id}
	err := s.pool.QueryRow(ctx, `
		SELECT vn.amount_cents, vn.currency, vn.status, vn.option_ids, vn.version, vs.product_id
		FROM variation_versions vn
		JOIN variations vs ON vs.id = vn.variation_id
		WHERE vn.variation_id = $1
		ORDER BY vn.version DESC LIMIT 1`, id).
		Scan(&v.PriceDelta.Cents, &v.PriceDelta.Currency, &v.Status, &v.OptionIDs, &v.Version, &v.ProductID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrVariationNotFound
		}
		return nil, domain.Internal(err, "postgres.latest_variation", "failed to get latest variation")
	}
	return v, nil
}

func (s *Store) ProductVariations(ctx context.Context, productID int64) ([]domain.Variation, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, product_id, amount_cents, currency, status, version
		FROM variations WHERE product_id = $1 AND NOT deleted ORDER BY id`, productID)
	if err != nil {
		return nil, domain.Internal(err, "postgres.product_variations", "failed to list variations")
	}
	defer rows.Close()

	var vars []domain.Variation
	for rows.Next() {
		var v domain.Variation
		if err := rows.Scan(&v.ID, &v.ProductID, &v.PriceDelta.Cents, &v.PriceDelta.Currency, &v.Status, &v.Version); err != nil {
			return nil, domain.Internal(err, "postgres.product_variations", "failed to scan variation")
		}
		vars = append(vars, v)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, "postgres.product_variations", "failed to read variations")
	}
	for i := range vars {
		vars[i].OptionIDs, err = s.variationOptionIDs(ctx, vars[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return vars, nil
}

func (s *Store) CreateVariation(ctx context.Context, v *domain.Variation) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return domain.Internal(err, "postgres.create_variation", "failed to begin transaction")
	}
	defer tx.Rollback(ctx)

	v.Version = 1
	err = tx.QueryRow(ctx, `
		INSERT INTO variations (product_id, amount_cents, currency, status, version)
		VALUES ($1, $2, $3, $4, 1) RETURNING id`,
		v.ProductID, v.PriceDelta.Cents, v.PriceDelta.Currency, v.Status).Scan(&v.ID)
	if err != nil {
		return domain.Internal(err, "postgres.create_variation", "failed to insert variation")
	}
	if err := replaceVariationOptions(ctx, tx, v.ID, v.OptionIDs); err != nil {
		return err
	}
	if err := insertVariationVersion(ctx, tx, v); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Internal(err, "postgres.create_variation", "failed to commit")
	}
	return nil
}

func (s *Store) UpdateVariation(ctx context.Context, v *domain.Variation) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return domain.Internal(err, "postgres.update_variation", "failed to begin transaction")
	}
	defer tx.Rollback(ctx)

	// The version counter keeps climbing from the highest snapshot even
	// across live-row edits, so snapshot keys never collide.
	err = tx.QueryRow(ctx, `
		UPDATE variations
		SET amount_cents = $2, currency = $3, status = $4,
		    version = (SELECT COALESCE(MAX(version), 0) + 1 FROM variation_versions WHERE variation_id = $1)
		WHERE id = $1 AND NOT deleted
		RETURNING version`,
		v.ID, v.PriceDelta.Cents, v.PriceDelta.Currency, v.Status).Scan(&v.Version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrVariationNotFound
		}
		return domain.Internal(err, "postgres.update_variation", "failed to update variation")
	}
	if err := replaceVariationOptions(ctx, tx, v.ID, v.OptionIDs); err != nil {
		return err
	}
	if err := insertVariationVersion(ctx, tx, v); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Internal(err, "postgres.update_variation", "failed to commit")
	}
	return nil
}

func (s *Store) DeleteVariation(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE variations SET deleted = TRUE WHERE id = $1 AND NOT deleted`, id)
	if err != nil {
		return domain.Internal(err, "postgres.delete_variation", "failed to delete variation")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrVariationNotFound
	}
	return nil
}

// =============================================================================
// Stock ledger
// =============================================================================

func (s *Store) StockLevel(ctx context.Context, ref domain.PurchasableRef) (int, error) {
	var level int
	err := s.pool.QueryRow(ctx, `
		SELECT level FROM stock_levels WHERE owner_class = $1 AND owner_id = $2`,
		ref.Class, ref.ID).Scan(&level)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.UnlimitedStock, nil
		}
		return 0, domain.Internal(err, "postgres.stock_level", "failed to get stock level")
	}
	return level, nil
}

func (s *Store) SetStockLevel(ctx context.Context, ref domain.PurchasableRef, level int) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO stock_levels (owner_class, owner_id, level) VALUES ($1, $2, $3)
		ON CONFLICT (owner_class, owner_id) DO UPDATE SET level = EXCLUDED.level`,
		ref.Class, ref.ID, level)
	if err != nil {
		return domain.Internal(err, "postgres.set_stock_level", "failed to set stock level")
	}
	return nil
}

// AdjustStock is one UPDATE so the read and write cannot interleave with
// another shopper's adjustment. The unlimited sentinel row is excluded.
func (s *Store) AdjustStock(ctx context.Context, ref domain.PurchasableRef, delta int) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE stock_levels SET level = GREATEST(level + $3, 0)
		WHERE owner_class = $1 AND owner_id = $2 AND level <> -1`,
		ref.Class, ref.ID, delta)
	if err != nil {
		return domain.Internal(err, "postgres.adjust_stock", "failed to adjust stock")
	}
	return nil
}

// =============================================================================
// Snapshot helpers
// =============================================================================

func scanProduct(row pgx.Row) (*domain.Product, error) {
	p := &domain.Product{}
	err := row.Scan(&p.ID, &p.Title, &p.Price.Cents, &p.Price.Currency, &p.Version, &p.PublishedVersion, &p.PublishedAt)
	if err != nil {
		return nil, err
	}
	if p.PublishedVersion == 0 {
		p.PublishedAt = time.Time{}
	}
	return p, nil
}

func (s *Store) productAttributeIDs(ctx context.Context, productID int64) ([]int64, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT attribute_id FROM product_attributes WHERE product_id = $1 ORDER BY attribute_id`, productID)
	if err != nil {
		return nil, domain.Internal(err, "postgres.product_attribute_ids", "failed to list attribute ids")
	}
	return collectIDs(rows)
}

func (s *Store) variationOptionIDs(ctx context.Context, variationID int64) ([]int64, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT option_id FROM variation_options WHERE variation_id = $1 ORDER BY option_id`, variationID)
	if err != nil {
		return nil, domain.Internal(err, "postgres.variation_option_ids", "failed to list option ids")
	}
	return collectIDs(rows)
}

func collectIDs(rows pgx.Rows) ([]int64, error) {
	defer rows.Close()
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, domain.Internal(err, "postgres.collect_ids", "failed to scan id")
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func insertProductVersion(ctx context.Context, tx pgx.Tx, p *domain.Product) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO product_versions (product_id, version, title, amount_cents, currency, attribute_ids)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		p.ID, p.Version, p.Title, p.Price.Cents, p.Price.Currency, p.AttributeIDs)
	if err != nil {
		return domain.Internal(err, "postgres.insert_product_version", "failed to snapshot product")
	}
	return nil
}

func insertVariationVersion(ctx context.Context, tx pgx.Tx, v *domain.Variation) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO variation_versions (variation_id, version, amount_cents, currency, status, option_ids)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		v.ID, v.Version, v.PriceDelta.Cents, v.PriceDelta.Currency, v.Status, v.OptionIDs)
	if err != nil {
		return domain.Internal(err, "postgres.insert_variation_version", "failed to snapshot variation")
	}
	return nil
}

func replaceProductAttributes(ctx context.Context, tx pgx.Tx, productID int64, attributeIDs []int64) error {
	if _, err := tx.Exec(ctx, `DELETE FROM product_attributes WHERE product_id = $1`, productID); err != nil {
		return domain.Internal(err, "postgres.replace_product_attributes", "failed to clear attributes")
	}
	for _, id := range attributeIDs {
		if _, err := tx.Exec(ctx, `
			INSERT INTO product_attributes (product_id, attribute_id) VALUES ($1, $2)`, productID, id); err != nil {
			return domain.Internal(err, "postgres.replace_product_attributes", "failed to attach attribute")
		}
	}
	return nil
}

func replaceVariationOptions(ctx context.Context, tx pgx.Tx, variationID int64, optionIDs []int64) error {
	if _, err := tx.Exec(ctx, `DELETE FROM variation_options WHERE variation_id = $1`, variationID); err != nil {
		return domain.Internal(err, "postgres.replace_variation_options", "failed to clear options")
	}
	for _, id := range optionIDs {
		if _, err := tx.Exec(ctx, `
			INSERT INTO variation_options (variation_id, option_id) VALUES ($1, $2)`, variationID, id); err != nil {
			return domain.Internal(err, "postgres.replace_variation_options", "failed to add option")
		}
	}
	return nil
}

// bumpAndSnapshot increments the draft version inside an attribute change
// and records the resulting snapshot.
func bumpAndSnapshot(ctx context.Context, tx pgx.Tx, productID int64) error {
	p := &domain.Product{ID: productID}
	err := tx.QueryRow(ctx, `
		UPDATE products SET version = version + 1
		WHERE id = $1 AND NOT deleted
		RETURNING title, amount_cents, currency, version`, productID).
		Scan(&p.Title, &p.Price.Cents, &p.Price.Currency, &p.Version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrProductNotFound
		}
		return domain.Internal(err, "postgres.bump_product", "failed to bump product version")
	}
	rows, err := tx.Query(ctx, `
		SELECT attribute_id FROM product_attributes WHERE product_id = $1 ORDER BY attribute_id`, productID)
	if err != nil {
		return domain.Internal(err, "postgres.bump_product", "failed to list attribute ids")
	}
	p.AttributeIDs, err = collectIDs(rows)
	if err != nil {
		return err
	}
	return insertProductVersion(ctx, tx, p)
}
