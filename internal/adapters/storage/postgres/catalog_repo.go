package postgres

import (
	"context"
	"database/sql"

	"vetadmin/internal/domain/catalog"
	"vetadmin/internal/platform/apperr"

	"github.com/shopspring/decimal"
)

// catalogTables mapea cada tipo de catálogo a su tabla.
var catalogTables = map[catalog.Kind]string{
	catalog.KindBreed:           "breeds",
	catalog.KindDisease:         "diseases",
	catalog.KindSurgery:         "surgery_types",
	catalog.KindProductCategory: "product_categories",
}

const catalogColumns = `id, name, description, species, estimated_minutes, estimated_cost, active, created_at, updated_at`

type CatalogRepo struct {
	db *sql.DB
}

func NewCatalogRepo(db *sql.DB) *CatalogRepo {
	return &CatalogRepo{db: db}
}

func tableFor(kind catalog.Kind) (string, error) {
	t, ok := catalogTables[kind]
	if !ok {
		return "", apperr.Invalid("unknown catalog " + string(kind))
	}
	return t, nil
}

func (r *CatalogRepo) Create(ctx context.Context, it catalog.Item) error {
	table, err := tableFor(it.Kind)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO `+table+` (`+catalogColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`,
		it.ID,
		it.Name,
		it.Description,
		string(it.Species),
		it.EstimatedMinutes,
		nullDecimal(it.EstimatedCost),
		it.Active,
		it.CreatedAt,
		it.UpdatedAt,
	)
	return err
}

func (r *CatalogRepo) Update(ctx context.Context, it catalog.Item) error {
	table, err := tableFor(it.Kind)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE `+table+`
		SET
			name = $2,
			description = $3,
			species = $4,
			estimated_minutes = $5,
			estimated_cost = $6,
			active = $7,
			updated_at = $8
		WHERE id = $1
	`,
		it.ID,
		it.Name,
		it.Description,
		string(it.Species),
		it.EstimatedMinutes,
		nullDecimal(it.EstimatedCost),
		it.Active,
		it.UpdatedAt,
	)
	return expectOne(res, err, string(it.Kind), it.ID)
}

func (r *CatalogRepo) Delete(ctx context.Context, kind catalog.Kind, id string) error {
	table, err := tableFor(kind)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = $1`, id)
	return expectOne(res, err, string(kind), id)
}

func (r *CatalogRepo) GetByID(ctx context.Context, kind catalog.Kind, id string) (catalog.Item, error) {
	table, err := tableFor(kind)
	if err != nil {
		return catalog.Item{}, err
	}
	row := r.db.QueryRowContext(ctx, `SELECT `+catalogColumns+` FROM `+table+` WHERE id = $1`, id)
	it, err := scanItem(row, kind)
	if err != nil {
		return catalog.Item{}, notFound(err, string(kind), id)
	}
	return it, nil
}

func (r *CatalogRepo) List(ctx context.Context, kind catalog.Kind) ([]catalog.Item, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, `SELECT `+catalogColumns+` FROM `+table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]catalog.Item, 0)
	for rows.Next() {
		it, err := scanItem(rows, kind)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func scanItem(s rowScanner, kind catalog.Kind) (catalog.Item, error) {
	it := catalog.Item{Kind: kind}
	var species string
	var cost decimal.NullDecimal
	if err := s.Scan(
		&it.ID,
		&it.Name,
		&it.Description,
		&species,
		&it.EstimatedMinutes,
		&cost,
		&it.Active,
		&it.CreatedAt,
		&it.UpdatedAt,
	); err != nil {
		return catalog.Item{}, err
	}
	it.Species = catalog.Species(species)
	it.EstimatedCost = fromNullDecimal(cost)
	return it, nil
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

func fromNullDecimal(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	v := d.Decimal
	return &v
}
