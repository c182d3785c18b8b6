package store

import (
	"database/sql"
	"fmt"

	"github.com/dukerupert/leanfuel/internal/model"
)

type GroceryStore struct {
	db *sql.DB
}

func NewGroceryStore(db *sql.DB) *GroceryStore {
	return &GroceryStore{db: db}
}

func scanGroceryItem(scanner interface{ Scan(...any) error }) (*model.GroceryItem, error) {
	var item model.GroceryItem
	var checked int
	if err := scanner.Scan(&item.ID, &item.Name, &item.Category, &checked); err != nil {
		return nil, err
	}
	item.Checked = checked != 0
	return &item, nil
}

const groceryCols = `id, name, category, checked`

func (s *GroceryStore) GetByID(id string) (*model.GroceryItem, error) {
	row := s.db.QueryRow(`SELECT `+groceryCols+` FROM grocery_items WHERE id = ?`, id)
	item, err := scanGroceryItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get grocery item: %w", err)
	}
	return item, nil
}

// List returns unchecked items first, then by category and name.
func (s *GroceryStore) List() ([]model.GroceryItem, error) {
	rows, err := s.db.Query(`SELECT ` + groceryCols + ` FROM grocery_items ORDER BY checked ASC, category ASC, name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list grocery items: %w", err)
	}
	defer rows.Close()

	items := []model.GroceryItem{}
	for rows.Next() {
		item, err := scanGroceryItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan grocery item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func (s *GroceryStore) Create(item model.GroceryItem) (*model.GroceryItem, error) {
	_, err := s.db.Exec(
		`INSERT INTO grocery_items (id, name, category, checked) VALUES (?, ?, ?, ?)`,
		item.ID, item.Name, item.Category, boolToInt(item.Checked),
	)
	if err != nil {
		return nil, fmt.Errorf("insert grocery item: %w", err)
	}
	return s.GetByID(item.ID)
}

// AddMissing inserts the items whose name is not already on the list and
// returns the ones it added. Name comparison is exact.
func (s *GroceryStore) AddMissing(items []model.GroceryItem) ([]model.GroceryItem, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	existing := make(map[string]bool)
	rows, err := tx.Query(`SELECT name FROM grocery_items`)
	if err != nil {
		return nil, fmt.Errorf("list grocery names: %w", err)
	}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan grocery name: %w", err)
		}
		existing[name] = true
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	added := []model.GroceryItem{}
	for _, item := range items {
		if existing[item.Name] {
			continue
		}
		if _, err := tx.Exec(
			`INSERT INTO grocery_items (id, name, category, checked) VALUES (?, ?, ?, ?)`,
			item.ID, item.Name, item.Category, boolToInt(item.Checked),
		); err != nil {
			return nil, fmt.Errorf("insert grocery item: %w", err)
		}
		existing[item.Name] = true
		added = append(added, item)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return added, nil
}

// SetChecked returns nil if the item does not exist.
func (s *GroceryStore) SetChecked(id string, checked bool) (*model.GroceryItem, error) {
	result, err := s.db.Exec(`UPDATE grocery_items SET checked = ? WHERE id = ?`, boolToInt(checked), id)
	if err != nil {
		return nil, fmt.Errorf("set checked: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, nil
	}
	return s.GetByID(id)
}

func (s *GroceryStore) Delete(id string) error {
	_, err := s.db.Exec(`DELETE FROM grocery_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete grocery item: %w", err)
	}
	return nil
}

func (s *GroceryStore) ClearChecked() (int64, error) {
	result, err := s.db.Exec(`DELETE FROM grocery_items WHERE checked = 1`)
	if err != nil {
		return 0, fmt.Errorf("clear checked: %w", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return count, nil
}

func (s *GroceryStore) ClearAll() (int64, error) {
	result, err := s.db.Exec(`DELETE FROM grocery_items`)
	if err != nil {
		return 0, fmt.Errorf("clear grocery list: %w", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return count, nil
}

func (s *GroceryStore) CountUnchecked() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM grocery_items WHERE checked = 0`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count unchecked: %w", err)
	}
	return count, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
