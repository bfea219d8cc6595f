package postgres

import (
	"database/sql"
	"fmt"
	"sort"

	"drillbot/internal/domain"

	"github.com/lib/pq"
)

// KnowledgeRepo implements repository.KnowledgeRepository
type KnowledgeRepo struct {
	db *sql.DB
}

// NewKnowledgeRepo creates a new knowledge repository
func NewKnowledgeRepo(db *sql.DB) *KnowledgeRepo {
	return &KnowledgeRepo{db: db}
}

// GetLanguage returns all records of a language
func (r *KnowledgeRepo) GetLanguage(language string) (domain.LanguageKnowledge, error) {
	query := `
		SELECT exercise_id, last_answers_correct, hidden_until
		FROM exercise_knowledge
		WHERE language = $1
	`
	rows, err := r.db.Query(query, language)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(domain.LanguageKnowledge)
	for rows.Next() {
		var (
			id      string
			answers pq.BoolArray
			rec     domain.ExerciseRecord
		)
		if err := rows.Scan(&id, &answers, &rec.HiddenUntil); err != nil {
			return nil, err
		}
		rec.LastAnswersCorrect = answers
		result[id] = &rec
	}

	return result, rows.Err()
}

// Get returns the record of one exercise or nil if it was never answered
func (r *KnowledgeRepo) Get(language, exerciseID string) (*domain.ExerciseRecord, error) {
	var (
		answers pq.BoolArray
		rec     domain.ExerciseRecord
	)
	query := `
		SELECT last_answers_correct, hidden_until
		FROM exercise_knowledge
		WHERE language = $1 AND exercise_id = $2
	`
	err := r.db.QueryRow(query, language, exerciseID).Scan(&answers, &rec.HiddenUntil)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rec.LastAnswersCorrect = answers
	return &rec, nil
}

// Save upserts the record of one exercise
func (r *KnowledgeRepo) Save(language, exerciseID string, rec *domain.ExerciseRecord) error {
	query := `
		INSERT INTO exercise_knowledge (language, exercise_id, last_answers_correct, hidden_until)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (language, exercise_id)
		DO UPDATE SET last_answers_correct = EXCLUDED.last_answers_correct,
			hidden_until = EXCLUDED.hidden_until,
			updated_at = NOW()
	`
	_, err := r.db.Exec(query, language, exerciseID, pq.BoolArray(rec.LastAnswersCorrect), rec.HiddenUntil)
	return err
}

// Import inserts records that are not stored yet, in one transaction
func (r *KnowledgeRepo) Import(k domain.Knowledge) (int, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO exercise_knowledge (language, exercise_id, last_answers_correct, hidden_until)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (language, exercise_id) DO NOTHING
	`

	imported := 0
	for _, language := range sortedKeys(k) {
		records := k[language]
		for _, id := range sortedKeys(records) {
			rec := records[id]
			if rec == nil {
				continue
			}
			res, err := tx.Exec(query, language, id, pq.BoolArray(rec.LastAnswersCorrect), rec.HiddenUntil)
			if err != nil {
				return 0, fmt.Errorf("failed to import %s/%s: %w", language, id, err)
			}
			n, err := res.RowsAffected()
			if err != nil {
				return 0, err
			}
			imported += int(n)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return imported, nil
}

// Export returns every stored record
func (r *KnowledgeRepo) Export() (domain.Knowledge, error) {
	query := `SELECT language, exercise_id, last_answers_correct, hidden_until FROM exercise_knowledge`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(domain.Knowledge)
	for rows.Next() {
		var (
			language, id string
			answers      pq.BoolArray
			rec          domain.ExerciseRecord
		)
		if err := rows.Scan(&language, &id, &answers, &rec.HiddenUntil); err != nil {
			return nil, err
		}
		rec.LastAnswersCorrect = answers
		result.Language(language)[id] = &rec
	}

	return result, rows.Err()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
