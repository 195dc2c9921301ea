package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/wecare-app/apiserver/types"
)

// SupplyRepository handles persistence for food-supply listings.
type SupplyRepository struct {
	db *sql.DB
}

func NewSupplyRepository(db *sql.DB) *SupplyRepository {
	return &SupplyRepository{db: db}
}

// List returns supplies, optionally filtered by category. An empty
// category returns everything, newest first.
func (r *SupplyRepository) List(ctx context.Context, category string) ([]types.Supply, error) {
	const baseQuery = `
		SELECT id, title, category, quantity_amount, quantity_unit, description, image, donor_name, donor_email, donor_image, created_at, updated_at
		FROM supplies`

	var (
		rows *sql.Rows
		err  error
	)
	if category != "" {
		rows, err = r.db.QueryContext(ctx, baseQuery+` WHERE category = $1 ORDER BY id DESC`, category)
	} else {
		rows, err = r.db.QueryContext(ctx, baseQuery+` ORDER BY id DESC`)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	supplies := make([]types.Supply, 0)
	for rows.Next() {
		supply, err := scanSupply(rows)
		if err != nil {
			return nil, err
		}
		supplies = append(supplies, supply)
	}
	return supplies, rows.Err()
}

func (r *SupplyRepository) Get(ctx context.Context, id int) (types.Supply, error) {
	const query = `
		SELECT id, title, category, quantity_amount, quantity_unit, description, image, donor_name, donor_email, donor_image, created_at, updated_at
		FROM supplies
		WHERE id = $1`
	supply, err := scanSupply(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Supply{}, ErrNotFound
		}
		return types.Supply{}, err
	}
	return supply, nil
}

func (r *SupplyRepository) Create(ctx context.Context, supply types.Supply) (types.Supply, error) {
	now := time.Now()
	supply.CreatedAt = now
	supply.UpdatedAt = now

	const query = `
		INSERT INTO supplies (title, category, quantity_amount, quantity_unit, description, image, donor_name, donor_email, donor_image, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		supply.Title,
		supply.Category,
		supply.Quantity.Amount,
		supply.Quantity.Unit,
		supply.Description,
		supply.Image,
		supply.DonorName,
		supply.DonorEmail,
		supply.DonorImage,
		supply.CreatedAt,
		supply.UpdatedAt,
	).Scan(&supply.ID); err != nil {
		return types.Supply{}, err
	}
	return supply, nil
}

func (r *SupplyRepository) Update(ctx context.Context, supply types.Supply) (types.UpdateResult, error) {
	const query = `
		UPDATE supplies
		SET title = $1,
			category = $2,
			quantity_amount = $3,
			quantity_unit = $4,
			description = $5,
			image = $6,
			donor_name = $7,
			donor_email = $8,
			donor_image = $9,
			updated_at = $10
		WHERE id = $11`
	result, err := r.db.ExecContext(
		ctx,
		query,
		supply.Title,
		supply.Category,
		supply.Quantity.Amount,
		supply.Quantity.Unit,
		supply.Description,
		supply.Image,
		supply.DonorName,
		supply.DonorEmail,
		supply.DonorImage,
		time.Now(),
		supply.ID,
	)
	if err != nil {
		return types.UpdateResult{}, err
	}
	return rowsUpdated(result)
}

// UpdateImage overwrites only the image field, used after a photo upload.
func (r *SupplyRepository) UpdateImage(ctx context.Context, id int, image string) (types.UpdateResult, error) {
	const query = `
		UPDATE supplies
		SET image = $1,
			updated_at = $2
		WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, image, time.Now(), id)
	if err != nil {
		return types.UpdateResult{}, err
	}
	return rowsUpdated(result)
}

func (r *SupplyRepository) Delete(ctx context.Context, id int) error {
	const query = `DELETE FROM supplies WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSupply(row rowScanner) (types.Supply, error) {
	var supply types.Supply
	err := row.Scan(
		&supply.ID,
		&supply.Title,
		&supply.Category,
		&supply.Quantity.Amount,
		&supply.Quantity.Unit,
		&supply.Description,
		&supply.Image,
		&supply.DonorName,
		&supply.DonorEmail,
		&supply.DonorImage,
		&supply.CreatedAt,
		&supply.UpdatedAt,
	)
	return supply, err
}
