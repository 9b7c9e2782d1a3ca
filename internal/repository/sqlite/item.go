package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/washday/internal/achievement"
	"github.com/sakif/washday/internal/apperror"
	"github.com/sakif/washday/internal/model"
	"github.com/sakif/washday/internal/repository"
)

// compile-time check that *DB implements repository.ItemRepository
var _ repository.ItemRepository = (*DB)(nil)

// querier is the subset of sql.DB/sql.Tx used by the row helpers, so the
// same scanning code serves both pooled queries and the wash transaction.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Every item read joins the owner: the wire representation always carries
// the owner summary, so the repository attaches it unconditionally.
const selectItems = `
	SELECT i.id, i.user_id, i.name, i.color, i.material, i.custom_washes,
	       i.accessories, i.purchase_date, i.wash_count, i.retired,
	       i.retired_date, i.created_at, i.updated_at,
	       u.id, u.username, u.email
	FROM items i
	JOIN users u ON u.id = i.user_id`

// Create inserts a new item for its owner. The service applies defaults
// and validation; this fills in ID, timestamps, and the owner summary.
func (db *DB) Create(ctx context.Context, item *model.Item) error {
	now := time.Now()
	item.ID = xid.New().String()
	item.CreatedAt = now
	item.UpdatedAt = now

	// Accessories live in a TEXT column as a JSON array.
	accessories, err := json.Marshal(item.Accessories)
	if err != nil {
		return fmt.Errorf("sqlite: encoding accessories: %w", err)
	}

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO items (id, user_id, name, color, material, custom_washes,
		                    accessories, purchase_date, wash_count, retired,
		                    created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0, 0, ?, ?)`,
		item.ID,
		item.UserID,
		item.Name,
		item.Color,
		item.Material,
		item.CustomWashes,
		string(accessories),
		item.PurchaseDate,
		item.CreatedAt,
		item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting item %q: %w", item.Name, err)
	}

	var owner model.PublicUser
	err = db.conn.QueryRowContext(ctx,
		`SELECT id, username, email FROM users WHERE id = ?`, item.UserID,
	).Scan(&owner.ID, &owner.Username, &owner.Email)
	if err != nil {
		return fmt.Errorf("sqlite: loading owner for item %q: %w", item.Name, err)
	}

	item.WashCount = 0
	item.Retired = false
	item.Achievements = []model.Achievement{}
	item.Owner = &owner

	return nil
}

// GetOwned retrieves an item by (id, owner) with achievements attached.
//
// The ownership check is part of the WHERE clause, not a separate step:
// an item owned by someone else produces the same "not found" as an item
// that doesn't exist.
func (db *DB) GetOwned(ctx context.Context, itemID, userID string) (*model.Item, error) {
	return getOwnedItem(ctx, db.conn, itemID, userID)
}

func getOwnedItem(ctx context.Context, q querier, itemID, userID string) (*model.Item, error) {
	row := q.QueryRowContext(ctx,
		selectItems+` WHERE i.id = ? AND i.user_id = ?`,
		itemID, userID,
	)

	item, err := scanItem(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("item", itemID)
		}
		return nil, fmt.Errorf("sqlite: getting item %s: %w", itemID, err)
	}

	if err := attachAchievements(ctx, q, []*model.Item{item}); err != nil {
		return nil, err
	}

	return item, nil
}

// ListByOwner returns all of a user's items, newest first, with
// achievements attached.
func (db *DB) ListByOwner(ctx context.Context, userID string) ([]model.Item, error) {
	rows, err := db.conn.QueryContext(ctx,
		selectItems+` WHERE i.user_id = ? ORDER BY i.created_at DESC, i.id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing items for user %s: %w", userID, err)
	}
	defer rows.Close()

	return collectItems(ctx, db.conn, rows)
}

// ListAll returns every item across all users, newest first. This backs
// the public leaderboard.
func (db *DB) ListAll(ctx context.Context) ([]model.Item, error) {
	rows, err := db.conn.QueryContext(ctx,
		selectItems+` ORDER BY i.created_at DESC, i.id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing all items: %w", err)
	}
	defer rows.Close()

	return collectItems(ctx, db.conn, rows)
}

// RecordWash increments the item's wash counter by exactly one and grants
// any badges the new count has earned, all inside a single transaction.
// A crash can therefore never leave the counter bumped without its badge,
// or a badge without its counter.
//
// Returns the updated item (with achievements) and the badges this wash
// newly unlocked.
func (db *DB) RecordWash(ctx context.Context, itemID, userID string) (*model.Item, []achievement.Badge, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("sqlite: beginning wash transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	result, err := tx.ExecContext(ctx,
		`UPDATE items SET wash_count = wash_count + 1, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		now, itemID, userID,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("sqlite: incrementing wash count for item %s: %w", itemID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, nil, fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, nil, apperror.NotFound("item", itemID)
	}

	var washCount int
	if err := tx.QueryRowContext(ctx,
		`SELECT wash_count FROM items WHERE id = ?`, itemID,
	).Scan(&washCount); err != nil {
		return nil, nil, fmt.Errorf("sqlite: reading wash count for item %s: %w", itemID, err)
	}

	// Grant every badge the new count has earned. The UNIQUE(item_id, name)
	// constraint plus DO NOTHING makes each grant a one-time event; the
	// insert's rows-affected tells us whether this wash unlocked it.
	var unlocked []achievement.Badge
	for _, badge := range achievement.Earned(washCount) {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO achievements (id, item_id, name, description, icon, tier, unlocked_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT(item_id, name) DO NOTHING`,
			xid.New().String(),
			itemID,
			badge.Name,
			badge.Description,
			badge.Icon,
			badge.Tier,
			now,
		)
		if err != nil {
			return nil, nil, fmt.Errorf("sqlite: granting achievement %q: %w", badge.Name, err)
		}
		inserted, err := res.RowsAffected()
		if err != nil {
			return nil, nil, fmt.Errorf("sqlite: checking achievement grant: %w", err)
		}
		if inserted > 0 {
			unlocked = append(unlocked, badge)
		}
	}

	item, err := getOwnedItem(ctx, tx, itemID, userID)
	if err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("sqlite: committing wash transaction: %w", err)
	}

	return item, unlocked, nil
}

// Retire marks the item retired. The retirement timestamp is stamped only
// on the false→true transition, so retiring twice keeps the original
// date — and retired_date stays non-null exactly while retired is true.
func (db *DB) Retire(ctx context.Context, itemID, userID string) (*model.Item, error) {
	now := time.Now()
	result, err := db.conn.ExecContext(ctx,
		`UPDATE items
		 SET retired = 1,
		     retired_date = CASE WHEN retired = 0 THEN ? ELSE retired_date END,
		     updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		now, now, itemID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: retiring item %s: %w", itemID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, apperror.NotFound("item", itemID)
	}

	return db.GetOwned(ctx, itemID, userID)
}

// Delete removes the item. Achievements cascade via the foreign key.
func (db *DB) Delete(ctx context.Context, itemID, userID string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM items WHERE id = ? AND user_id = ?`,
		itemID, userID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting item %s: %w", itemID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("item", itemID)
	}

	return nil
}

// scanner matches both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanItem(row scanner) (*model.Item, error) {
	var (
		item        model.Item
		owner       model.PublicUser
		accessories string
		retiredDate sql.NullTime
	)
	err := row.Scan(
		&item.ID, &item.UserID, &item.Name, &item.Color, &item.Material,
		&item.CustomWashes, &accessories, &item.PurchaseDate,
		&item.WashCount, &item.Retired, &retiredDate,
		&item.CreatedAt, &item.UpdatedAt,
		&owner.ID, &owner.Username, &owner.Email,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(accessories), &item.Accessories); err != nil {
		return nil, fmt.Errorf("sqlite: decoding accessories for item %s: %w", item.ID, err)
	}
	if item.Accessories == nil {
		item.Accessories = []string{}
	}
	if retiredDate.Valid {
		t := retiredDate.Time
		item.RetiredDate = &t
	}
	item.Owner = &owner

	return &item, nil
}

func collectItems(ctx context.Context, q querier, rows *sql.Rows) ([]model.Item, error) {
	var items []*model.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning item row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating items: %w", err)
	}

	if err := attachAchievements(ctx, q, items); err != nil {
		return nil, err
	}

	out := make([]model.Item, 0, len(items))
	for _, item := range items {
		out = append(out, *item)
	}
	return out, nil
}

// attachAchievements loads achievements for the given items in one query
// and distributes them, oldest unlock first. Items with no badges get an
// empty slice, not nil, so they serialize as [].
func attachAchievements(ctx context.Context, q querier, items []*model.Item) error {
	for _, item := range items {
		item.Achievements = []model.Achievement{}
	}
	if len(items) == 0 {
		return nil
	}

	byID := make(map[string]*model.Item, len(items))
	placeholders := ""
	args := make([]any, 0, len(items))
	for i, item := range items {
		if i > 0 {
			placeholders += ","
		}
		placeholders += "?"
		args = append(args, item.ID)
		byID[item.ID] = item
	}

	rows, err := q.QueryContext(ctx,
		`SELECT id, item_id, name, description, icon, tier, unlocked_at
		 FROM achievements
		 WHERE item_id IN (`+placeholders+`)
		 ORDER BY unlocked_at ASC, id ASC`,
		args...,
	)
	if err != nil {
		return fmt.Errorf("sqlite: loading achievements: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var a model.Achievement
		if err := rows.Scan(
			&a.ID, &a.ItemID, &a.Name, &a.Description, &a.Icon, &a.Tier, &a.UnlockedAt,
		); err != nil {
			return fmt.Errorf("sqlite: scanning achievement row: %w", err)
		}
		if item, ok := byID[a.ItemID]; ok {
			item.Achievements = append(item.Achievements, a)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("sqlite: iterating achievements: %w", err)
	}

	return nil
}
