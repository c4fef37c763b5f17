// Package journal persists logged meals in SQLite.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // register pure-Go SQLite driver

	"github.com/TaniaZeidan/NutriTrackAI/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS meals (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    dt TEXT NOT NULL,
    meal_type TEXT NOT NULL,
    description TEXT NOT NULL,
    total_cal REAL,
    protein_g REAL,
    carb_g REAL,
    fat_g REAL
);

CREATE TABLE IF NOT EXISTS meal_items (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    meal_id INTEGER NOT NULL,
    name TEXT NOT NULL,
    qty REAL,
    unit TEXT,
    cal REAL,
    protein_g REAL,
    carb_g REAL,
    fat_g REAL,
    estimated INTEGER DEFAULT 0,
    FOREIGN KEY(meal_id) REFERENCES meals(id)
);

CREATE INDEX IF NOT EXISTS idx_meals_dt ON meals(dt);
`

const dayFormat = "2006-01-02"

// Journal is a SQLite-backed meal log.
type Journal struct {
	db *sql.DB
}

// Open opens the journal database at path, creating the schema if
// needed.
func Open(path string) (*Journal, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("prepare journal schema: %w", err)
	}
	return &Journal{db: db}, nil
}

// Close releases the underlying database handle.
func (j *Journal) Close() error { return j.db.Close() }

// LoggedMeal is a stored meal with its rolled-up totals.
type LoggedMeal struct {
	ID     int64
	Day    time.Time
	Type   domain.MealType
	Name   string
	Totals domain.MacroTotals
}

// LogMeal stores a meal with its items and returns the meal id.
func (j *Journal) LogMeal(ctx context.Context, day time.Time, meal domain.Meal) (int64, error) {
	totals := meal.Totals()
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO meals(dt, meal_type, description, total_cal, protein_g, carb_g, fat_g)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		day.Format(dayFormat), string(meal.Type), meal.Name,
		totals.Calories, totals.ProteinG, totals.CarbG, totals.FatG)
	if err != nil {
		return 0, fmt.Errorf("insert meal: %w", err)
	}
	mealID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO meal_items(meal_id, name, qty, unit, cal, protein_g, carb_g, fat_g, estimated)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()
	for _, item := range meal.Items {
		estimated := 0
		if item.Estimated {
			estimated = 1
		}
		if _, err := stmt.ExecContext(ctx, mealID, item.Name, item.Quantity, item.Unit,
			item.Calories, item.ProteinG, item.CarbG, item.FatG, estimated); err != nil {
			return 0, fmt.Errorf("insert meal item: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return mealID, nil
}

// MealsForDay returns the meals logged on a day in insertion order.
func (j *Journal) MealsForDay(ctx context.Context, day time.Time) ([]LoggedMeal, error) {
	rows, err := j.db.QueryContext(ctx,
		`SELECT id, dt, meal_type, description, total_cal, protein_g, carb_g, fat_g
		 FROM meals WHERE dt = ? ORDER BY id`, day.Format(dayFormat))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMeals(rows)
}

// Items returns the individual items of a logged meal.
func (j *Journal) Items(ctx context.Context, mealID int64) ([]domain.MealItem, error) {
	rows, err := j.db.QueryContext(ctx,
		`SELECT name, qty, unit, cal, protein_g, carb_g, fat_g, estimated
		 FROM meal_items WHERE meal_id = ? ORDER BY id`, mealID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.MealItem
	for rows.Next() {
		var item domain.MealItem
		var estimated int
		if err := rows.Scan(&item.Name, &item.Quantity, &item.Unit,
			&item.Calories, &item.ProteinG, &item.CarbG, &item.FatG, &estimated); err != nil {
			return nil, err
		}
		item.Estimated = estimated != 0
		items = append(items, item)
	}
	return items, rows.Err()
}

// DailyTotals sums the macros logged on a day.
func (j *Journal) DailyTotals(ctx context.Context, day time.Time) (domain.MacroTotals, error) {
	meals, err := j.MealsForDay(ctx, day)
	if err != nil {
		return domain.MacroTotals{}, err
	}
	var t domain.MacroTotals
	for _, meal := range meals {
		t = t.Add(meal.Totals)
	}
	return t.Round(), nil
}

// WeeklySummary sums the macros of the seven days ending on the given
// day.
func (j *Journal) WeeklySummary(ctx context.Context, ending time.Time) (domain.MacroTotals, error) {
	start := ending.AddDate(0, 0, -6)
	rows, err := j.db.QueryContext(ctx,
		`SELECT id, dt, meal_type, description, total_cal, protein_g, carb_g, fat_g
		 FROM meals WHERE dt BETWEEN ? AND ? ORDER BY dt, id`,
		start.Format(dayFormat), ending.Format(dayFormat))
	if err != nil {
		return domain.MacroTotals{}, err
	}
	defer rows.Close()

	meals, err := scanMeals(rows)
	if err != nil {
		return domain.MacroTotals{}, err
	}
	var t domain.MacroTotals
	for _, meal := range meals {
		t = t.Add(meal.Totals)
	}
	return t.Round(), nil
}

func scanMeals(rows *sql.Rows) ([]LoggedMeal, error) {
	var meals []LoggedMeal
	for rows.Next() {
		var m LoggedMeal
		var dt, mealType string
		if err := rows.Scan(&m.ID, &dt, &mealType, &m.Name,
			&m.Totals.Calories, &m.Totals.ProteinG, &m.Totals.CarbG, &m.Totals.FatG); err != nil {
			return nil, err
		}
		day, err := time.Parse(dayFormat, dt)
		if err != nil {
			return nil, fmt.Errorf("parse meal date %q: %w", dt, err)
		}
		m.Day = day
		m.Type = domain.MealType(mealType)
		meals = append(meals, m)
	}
	return meals, rows.Err()
}
