package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"velamar/internal/models"
)

const (
	cacheKeyEquipment     = "catalog:equipment"
	cacheKeyProfessionals = "catalog:professionals"
	cacheKeySkills        = "catalog:skills"
	cacheKeyDocks         = "catalog:docks"
	cacheKeyProducts      = "catalog:products"
)

// ListEquipment returns the equipment catalog.
func (s *Store) ListEquipment(ctx context.Context) ([]models.Equipment, error) {
	var cached []models.Equipment
	if s.cache.get(ctx, cacheKeyEquipment, &cached) {
		return cached, nil
	}

	rows, err := s.QueryContext(ctx,
		"SELECT id, name, preparation_time, cleanup_time, min_staff, is_active FROM equipment ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("list equipment: %w", err)
	}
	defer rows.Close()

	var out []models.Equipment
	for rows.Next() {
		var eq models.Equipment
		if err := rows.Scan(&eq.ID, &eq.Name, &eq.PreparationTime, &eq.CleanupTime, &eq.MinStaff, &eq.Active); err != nil {
			return nil, err
		}
		out = append(out, eq)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	s.cache.set(ctx, cacheKeyEquipment, out)
	return out, nil
}

// SaveEquipment inserts or replaces an equipment item.
func (s *Store) SaveEquipment(ctx context.Context, eq models.Equipment) error {
	_, err := s.ExecContext(ctx, `
		INSERT OR REPLACE INTO equipment (id, name, preparation_time, cleanup_time, min_staff, is_active)
		VALUES (?, ?, ?, ?, ?, ?)`,
		eq.ID, eq.Name, eq.PreparationTime, eq.CleanupTime, eq.MinStaff, eq.Active)
	if err != nil {
		return fmt.Errorf("save equipment %s: %w", eq.Name, err)
	}
	s.cache.invalidate(ctx, cacheKeyEquipment)
	return nil
}

// ListProfessionals returns the staff roster.
func (s *Store) ListProfessionals(ctx context.Context) ([]models.Professional, error) {
	var cached []models.Professional
	if s.cache.get(ctx, cacheKeyProfessionals, &cached) {
		return cached, nil
	}

	rows, err := s.QueryContext(ctx,
		"SELECT id, name, priority, is_active, skills FROM professionals ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("list professionals: %w", err)
	}
	defer rows.Close()

	var out []models.Professional
	for rows.Next() {
		var p models.Professional
		var skillsJSON string
		if err := rows.Scan(&p.ID, &p.Name, &p.Priority, &p.Active, &skillsJSON); err != nil {
			return nil, err
		}
		if skillsJSON != "" {
			if err := json.Unmarshal([]byte(skillsJSON), &p.Skills); err != nil {
				s.logger.Warn().Err(err).Str("professional", p.Name).Msg("skipping malformed skills column")
			}
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	s.cache.set(ctx, cacheKeyProfessionals, out)
	return out, nil
}

// SaveProfessional inserts or replaces a professional.
func (s *Store) SaveProfessional(ctx context.Context, p models.Professional) error {
	skillsJSON, err := json.Marshal(p.Skills)
	if err != nil {
		return fmt.Errorf("marshal skills: %w", err)
	}
	_, err = s.ExecContext(ctx, `
		INSERT OR REPLACE INTO professionals (id, name, priority, is_active, skills)
		VALUES (?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Priority, p.Active, string(skillsJSON))
	if err != nil {
		return fmt.Errorf("save professional %s: %w", p.Name, err)
	}
	s.cache.invalidate(ctx, cacheKeyProfessionals)
	return nil
}

// ListSkills returns the skill catalog.
func (s *Store) ListSkills(ctx context.Context) ([]models.Skill, error) {
	var cached []models.Skill
	if s.cache.get(ctx, cacheKeySkills, &cached) {
		return cached, nil
	}

	rows, err := s.QueryContext(ctx, "SELECT id, name, cost_per_hour FROM skills ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("list skills: %w", err)
	}
	defer rows.Close()

	var out []models.Skill
	for rows.Next() {
		var sk models.Skill
		if err := rows.Scan(&sk.ID, &sk.Name, &sk.CostPerHour); err != nil {
			return nil, err
		}
		out = append(out, sk)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	s.cache.set(ctx, cacheKeySkills, out)
	return out, nil
}

// SaveSkill inserts or replaces a skill.
func (s *Store) SaveSkill(ctx context.Context, sk models.Skill) error {
	_, err := s.ExecContext(ctx,
		"INSERT OR REPLACE INTO skills (id, name, cost_per_hour) VALUES (?, ?, ?)",
		sk.ID, sk.Name, sk.CostPerHour)
	if err != nil {
		return fmt.Errorf("save skill %s: %w", sk.Name, err)
	}
	s.cache.invalidate(ctx, cacheKeySkills)
	return nil
}

// ListDocks returns the dock catalog.
func (s *Store) ListDocks(ctx context.Context) ([]models.Dock, error) {
	var cached []models.Dock
	if s.cache.get(ctx, cacheKeyDocks, &cached) {
		return cached, nil
	}

	rows, err := s.QueryContext(ctx, "SELECT id, name, travel_time FROM docks ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("list docks: %w", err)
	}
	defer rows.Close()

	var out []models.Dock
	for rows.Next() {
		var d models.Dock
		if err := rows.Scan(&d.ID, &d.Name, &d.TravelTime); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	s.cache.set(ctx, cacheKeyDocks, out)
	return out, nil
}

// SaveDock inserts or replaces a dock.
func (s *Store) SaveDock(ctx context.Context, d models.Dock) error {
	_, err := s.ExecContext(ctx,
		"INSERT OR REPLACE INTO docks (id, name, travel_time) VALUES (?, ?, ?)",
		d.ID, d.Name, d.TravelTime)
	if err != nil {
		return fmt.Errorf("save dock %s: %w", d.Name, err)
	}
	s.cache.invalidate(ctx, cacheKeyDocks)
	return nil
}

// ListProducts returns the product catalog.
func (s *Store) ListProducts(ctx context.Context) ([]models.Product, error) {
	var cached []models.Product
	if s.cache.get(ctx, cacheKeyProducts, &cached) {
		return cached, nil
	}

	rows, err := s.QueryContext(ctx, `
		SELECT id, name, department, default_equipment, default_staff,
		       default_start_time, default_end_time, recurrence
		FROM products ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var out []models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			s.logger.Warn().Err(err).Msg("skipping malformed product row")
			continue
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	s.cache.set(ctx, cacheKeyProducts, out)
	return out, nil
}

// GetProduct returns one product; a missing id wraps models.ErrNotFound.
func (s *Store) GetProduct(ctx context.Context, id string) (models.Product, error) {
	row := s.QueryRowContext(ctx, `
		SELECT id, name, department, default_equipment, default_staff,
		       default_start_time, default_end_time, recurrence
		FROM products WHERE id = ?`, id)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Product{}, fmt.Errorf("product %s: %w", id, models.ErrNotFound)
	}
	return p, err
}

func scanProduct(row rowScanner) (models.Product, error) {
	var p models.Product
	var defEquip, defStaff, recurrenceJSON string
	err := row.Scan(&p.ID, &p.Name, &p.Department, &defEquip, &defStaff,
		&p.DefaultStartTime, &p.DefaultEndTime, &recurrenceJSON)
	if err != nil {
		return models.Product{}, err
	}
	if defEquip != "" {
		if err := json.Unmarshal([]byte(defEquip), &p.DefaultEquipment); err != nil {
			return models.Product{}, fmt.Errorf("product %s default equipment: %w", p.ID, err)
		}
	}
	if defStaff != "" {
		if err := json.Unmarshal([]byte(defStaff), &p.DefaultStaff); err != nil {
			return models.Product{}, fmt.Errorf("product %s default staff: %w", p.ID, err)
		}
	}
	if recurrenceJSON != "" {
		if err := json.Unmarshal([]byte(recurrenceJSON), &p.Recurrence); err != nil {
			return models.Product{}, fmt.Errorf("product %s recurrence: %w", p.ID, err)
		}
	}
	return p, nil
}

// SaveProduct inserts or replaces a product template.
func (s *Store) SaveProduct(ctx context.Context, p models.Product) error {
	defEquip, err := json.Marshal(p.DefaultEquipment)
	if err != nil {
		return fmt.Errorf("marshal default equipment: %w", err)
	}
	defStaff, err := json.Marshal(p.DefaultStaff)
	if err != nil {
		return fmt.Errorf("marshal default staff: %w", err)
	}
	recurrenceJSON, err := json.Marshal(p.Recurrence)
	if err != nil {
		return fmt.Errorf("marshal recurrence: %w", err)
	}
	_, err = s.ExecContext(ctx, `
		INSERT OR REPLACE INTO products (
			id, name, department, default_equipment, default_staff,
			default_start_time, default_end_time, recurrence
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Department, string(defEquip), string(defStaff),
		p.DefaultStartTime, p.DefaultEndTime, string(recurrenceJSON))
	if err != nil {
		return fmt.Errorf("save product %s: %w", p.Name, err)
	}
	s.cache.invalidate(ctx, cacheKeyProducts)
	return nil
}
