package sqlite

import (
	"context"
	"time"

	"github.com/privacydesk/datamapd/internal/datamap/domain"
)

type mappingsRepo struct {
	q dbtx
}

func (r *mappingsRepo) CreateMapping(ctx context.Context, ownerID int64, m domain.DataMapping) (int64, error) {
	res, err := r.q.ExecContext(ctx,
		`INSERT INTO data_mappings (title, description, department, data_subject_type, user_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		m.Title, m.Description, m.Department, m.DataSubjectType, ownerID, formatTime(time.Now()),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *mappingsRepo) ListMappings(ctx context.Context, ownerID int64) ([]domain.DataMapping, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT id, title, description, department, data_subject_type, user_id, created_at
		 FROM data_mappings
		 WHERE user_id = ?
		 ORDER BY created_at DESC, id DESC`,
		ownerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	mappings := []domain.DataMapping{}
	for rows.Next() {
		m, err := scanMapping(rows)
		if err != nil {
			return nil, err
		}
		mappings = append(mappings, m)
	}
	return mappings, rows.Err()
}

func (r *mappingsRepo) GetMappingByID(ctx context.Context, ownerID, id int64) (domain.DataMapping, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT id, title, description, department, data_subject_type, user_id, created_at
		 FROM data_mappings
		 WHERE id = ? AND user_id = ?`,
		id, ownerID,
	)
	return scanMapping(row)
}

func (r *mappingsRepo) UpdateMapping(ctx context.Context, ownerID, id int64, m domain.DataMapping) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE data_mappings
		 SET title = ?, description = ?, department = ?, data_subject_type = ?
		 WHERE id = ? AND user_id = ?`,
		m.Title, m.Description, m.Department, m.DataSubjectType, id, ownerID,
	)
	if err != nil {
		return err
	}
	return requireRowChanged(res)
}

func (r *mappingsRepo) DeleteMapping(ctx context.Context, ownerID, id int64) error {
	res, err := r.q.ExecContext(ctx,
		`DELETE FROM data_mappings WHERE id = ? AND user_id = ?`,
		id, ownerID,
	)
	if err != nil {
		return err
	}
	return requireRowChanged(res)
}

func scanMapping(row rowScanner) (domain.DataMapping, error) {
	var m domain.DataMapping
	var createdAt string

	err := row.Scan(
		&m.ID,
		&m.Title,
		&m.Description,
		&m.Department,
		&m.DataSubjectType,
		&m.UserID,
		&createdAt,
	)
	if err != nil {
		return domain.DataMapping{}, mapNotFound(err)
	}

	m.CreatedAt = parseTime(createdAt)
	return m, nil
}
