package file

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"drillbot/internal/domain"
)

// KnowledgeRepo implements repository.KnowledgeRepository on one JSON file
// shaped {language: {exerciseId: {lastAnswersCorrect, hiddenUntil}}}.
// Every Save rewrites the file atomically.
type KnowledgeRepo struct {
	path string

	mu        sync.Mutex
	knowledge domain.Knowledge
}

// OpenKnowledgeRepo loads the knowledge file at path, starting empty when it
// does not exist. Buckets keyed by a legacy "<from> to <to>" pair are merged
// into their target language and written back.
func OpenKnowledgeRepo(path string) (*KnowledgeRepo, error) {
	k, err := readKnowledge(path)
	if err != nil {
		return nil, err
	}

	r := &KnowledgeRepo{path: path, knowledge: k}
	buckets := len(k)
	if domain.MergeLanguagePairBuckets(k) > 0 || len(k) < buckets {
		if err := r.flush(); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// GetLanguage returns a copy of the records of a language
func (r *KnowledgeRepo) GetLanguage(language string) (domain.LanguageKnowledge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.knowledge[language].Clone(), nil
}

// Get returns a copy of one record or nil if it was never answered
func (r *KnowledgeRepo) Get(language, exerciseID string) (*domain.ExerciseRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.knowledge[language][exerciseID].Clone(), nil
}

// Save stores the record and writes the file
func (r *KnowledgeRepo) Save(language, exerciseID string, rec *domain.ExerciseRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.knowledge.Language(language)[exerciseID] = rec.Clone()
	return r.flush()
}

// Import stores records that are not present yet
func (r *KnowledgeRepo) Import(k domain.Knowledge) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	imported := 0
	for language, records := range k {
		bucket := r.knowledge.Language(language)
		for id, rec := range records {
			if rec == nil {
				continue
			}
			if _, exists := bucket[id]; exists {
				continue
			}
			bucket[id] = rec.Clone()
			imported++
		}
	}

	if imported == 0 {
		return 0, nil
	}
	return imported, r.flush()
}

// Export returns a copy of all records
func (r *KnowledgeRepo) Export() (domain.Knowledge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.knowledge.Clone(), nil
}

// MigrateLocale moves two-letter locale buckets onto the course target
// language and writes the file when anything moved.
func (r *KnowledgeRepo) MigrateLocale(course *domain.Course) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	written := domain.MigrateLocaleBuckets(r.knowledge, course)
	if written == 0 {
		return 0, nil
	}
	return written, r.flush()
}

func (r *KnowledgeRepo) flush() error {
	data, err := json.Marshal(r.knowledge)
	if err != nil {
		return fmt.Errorf("failed to encode knowledge: %w", err)
	}
	return writeAtomic(r.path, data)
}

func readKnowledge(path string) (domain.Knowledge, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return make(domain.Knowledge), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read knowledge file: %w", err)
	}

	k := make(domain.Knowledge)
	if err := json.Unmarshal(data, &k); err != nil {
		return nil, fmt.Errorf("failed to decode knowledge file: %w", err)
	}
	for _, bucket := range k {
		for id, rec := range bucket {
			if rec == nil {
				delete(bucket, id)
			}
		}
	}
	return k, nil
}

// writeAtomic replaces path with data through a temporary file in the same directory
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create knowledge directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary knowledge file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write knowledge file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write knowledge file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace knowledge file: %w", err)
	}
	return nil
}
