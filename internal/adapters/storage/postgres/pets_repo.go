package postgres

import (
	"context"
	"database/sql"

	"vetadmin/internal/domain/catalog"
	"vetadmin/internal/domain/pets"
)

type PetsRepo struct {
	db *sql.DB
}

func NewPetsRepo(db *sql.DB) *PetsRepo {
	return &PetsRepo{db: db}
}

const petColumns = `id, client_id, name, species, breed_id, sex, birth_date, created_at, updated_at`

func (r *PetsRepo) Create(ctx context.Context, p pets.Pet) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pets (`+petColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`,
		p.ID,
		p.ClientID,
		p.Name,
		string(p.Species),
		p.BreedID,
		string(p.Sex),
		toNullDate(p.BirthDate),
		p.CreatedAt,
		p.UpdatedAt,
	)
	return err
}

func (r *PetsRepo) Update(ctx context.Context, p pets.Pet) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE pets
		SET
			client_id = $2,
			name = $3,
			species = $4,
			breed_id = $5,
			sex = $6,
			birth_date = $7,
			updated_at = $8
		WHERE id = $1
	`,
		p.ID,
		p.ClientID,
		p.Name,
		string(p.Species),
		p.BreedID,
		string(p.Sex),
		toNullDate(p.BirthDate),
		p.UpdatedAt,
	)
	return expectOne(res, err, "pet", p.ID)
}

func (r *PetsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM pets WHERE id = $1`, id)
	return expectOne(res, err, "pet", id)
}

func (r *PetsRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+petColumns+` FROM pets WHERE id = $1`, id)
	p, err := scanPet(row)
	if err != nil {
		return pets.Pet{}, notFound(err, "pet", id)
	}
	return p, nil
}

func (r *PetsRepo) List(ctx context.Context) ([]pets.Pet, error) {
	return r.query(ctx, `SELECT `+petColumns+` FROM pets`)
}

func (r *PetsRepo) ListByClient(ctx context.Context, clientID string) ([]pets.Pet, error) {
	return r.query(ctx, `SELECT `+petColumns+` FROM pets WHERE client_id = $1`, clientID)
}

func (r *PetsRepo) query(ctx context.Context, q string, args ...any) ([]pets.Pet, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]pets.Pet, 0)
	for rows.Next() {
		p, err := scanPet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanPet(s rowScanner) (pets.Pet, error) {
	var p pets.Pet
	var species, sex string
	var bd sql.NullTime
	if err := s.Scan(
		&p.ID,
		&p.ClientID,
		&p.Name,
		&species,
		&p.BreedID,
		&sex,
		&bd,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return pets.Pet{}, err
	}
	p.Species = catalog.Species(species)
	p.Sex = pets.Sex(sex)
	if bd.Valid {
		// birth_date es DATE; pgx lo entrega a medianoche UTC
		t := civil(bd.Time)
		p.BirthDate = &t
	}
	return p, nil
}
